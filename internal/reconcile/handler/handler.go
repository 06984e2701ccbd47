package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/fekuna/omnipos-catalog-sync/internal/apperror"
	"github.com/fekuna/omnipos-catalog-sync/internal/reconcile"
	"github.com/fekuna/omnipos-catalog-sync/internal/reconcile/dto"
	"github.com/fekuna/omnipos-catalog-sync/pkg/i18n"
	"github.com/fekuna/omnipos-catalog-sync/pkg/logger"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type WebhookHandler struct {
	uc     reconcile.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewWebhookHandler(uc reconcile.UseCase, tr *i18n.Translator, log logger.ZapLogger) *WebhookHandler {
	return &WebhookHandler{
		uc:     uc,
		tr:     tr,
		logger: log,
	}
}

func (h *WebhookHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /webhooks/fudo", h.Fudo)
}

// Fudo answers 200 for every event it accepted, including ignored ones.
// 400 means the payload had no event or no order identifier; 500 means the
// status could not be stored and the sender should redeliver.
func (h *WebhookHandler) Fudo(w http.ResponseWriter, r *http.Request) {
	var payload dto.WebhookPayload
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&payload); err != nil {
		h.logger.Warn("malformed webhook payload", zap.Error(err))
		apperror.Write(w, r, h.tr, apperror.Validation("body must be a JSON object"))
		return
	}

	out, err := h.uc.HandleEvent(r.Context(), &payload)
	if err != nil {
		apperror.Write(w, r, h.tr, err)
		return
	}

	resp := map[string]interface{}{"ok": true}
	if out.Ignored {
		resp["ignored"] = true
	} else {
		resp["status"] = out.Status
		resp["affected"] = out.Affected
	}
	apperror.WriteJSON(w, http.StatusOK, resp)
}
