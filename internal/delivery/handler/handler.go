package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-catalog-sync/internal/apperror"
	"github.com/fekuna/omnipos-catalog-sync/internal/delivery"
	"github.com/fekuna/omnipos-catalog-sync/pkg/i18n"
	"github.com/fekuna/omnipos-catalog-sync/pkg/logger"
	"go.uber.org/zap"
)

type DeliveryHandler struct {
	uc     delivery.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewDeliveryHandler(uc delivery.UseCase, tr *i18n.Translator, log logger.ZapLogger) *DeliveryHandler {
	return &DeliveryHandler{
		uc:     uc,
		tr:     tr,
		logger: log,
	}
}

func (h *DeliveryHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/delivery/products/{id}/preview", h.Preview)
}

// Preview serves the resolved delivery menu of one product. Read only.
func (h *DeliveryHandler) Preview(w http.ResponseWriter, r *http.Request) {
	productID := r.PathValue("id")

	resolved, err := h.uc.Preview(r.Context(), productID)
	if err != nil {
		h.logger.Error("failed to resolve delivery preview", zap.String("product_id", productID), zap.Error(err))
		apperror.Write(w, r, h.tr, err)
		return
	}

	apperror.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"product_id": productID,
		"modules":    resolved,
	})
}
