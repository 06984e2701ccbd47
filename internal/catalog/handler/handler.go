package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-catalog-sync/internal/apperror"
	"github.com/fekuna/omnipos-catalog-sync/internal/auth"
	"github.com/fekuna/omnipos-catalog-sync/internal/catalog"
	"github.com/fekuna/omnipos-catalog-sync/internal/catalog/dto"
	"github.com/fekuna/omnipos-catalog-sync/pkg/i18n"
	"github.com/fekuna/omnipos-catalog-sync/pkg/logger"
	"go.uber.org/zap"
)

type CatalogHandler struct {
	uc     catalog.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewCatalogHandler(uc catalog.UseCase, tr *i18n.Translator, log logger.ZapLogger) *CatalogHandler {
	return &CatalogHandler{
		uc:     uc,
		tr:     tr,
		logger: log,
	}
}

func (h *CatalogHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/sync/compare", h.Compare)
	mux.HandleFunc("GET /api/sync/price-report", h.PriceReport)
	mux.HandleFunc("POST /api/sync/push", h.Push)
	mux.HandleFunc("GET /api/sync/logs", h.ListLogs)
}

func (h *CatalogHandler) Compare(w http.ResponseWriter, r *http.Request) {
	result, err := h.uc.Compare(r.Context())
	if err != nil {
		apperror.Write(w, r, h.tr, err)
		return
	}
	apperror.WriteJSON(w, http.StatusOK, result)
}

func (h *CatalogHandler) PriceReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.uc.PriceReport(r.Context())
	if err != nil {
		apperror.Write(w, r, h.tr, err)
		return
	}
	apperror.WriteJSON(w, http.StatusOK, report)
}

func (h *CatalogHandler) Push(w http.ResponseWriter, r *http.Request) {
	var req dto.PushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperror.Write(w, r, h.tr, apperror.Validation("request body must be JSON with productId"))
		return
	}

	res, err := h.uc.Push(r.Context(), &dto.PushInput{
		ProductID:   req.ProductID,
		PerformedBy: auth.GetActor(r.Context()),
	})
	if err != nil {
		if apperror.StatusCode(err) >= http.StatusInternalServerError {
			h.logger.Error("failed to push product", zap.String("product_id", req.ProductID), zap.Error(err))
		} else {
			h.logger.Warn("push rejected", zap.String("product_id", req.ProductID), zap.Error(err))
		}
		apperror.Write(w, r, h.tr, err)
		return
	}
	apperror.WriteJSON(w, http.StatusOK, res)
}

func (h *CatalogHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &dto.LogFilters{
		ProductID: q.Get("product_id"),
		Query:     q.Get("q"),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			apperror.Write(w, r, h.tr, apperror.Validation("limit must be a non-negative integer"))
			return
		}
		filters.Limit = limit
	}

	entries, err := h.uc.ListLogs(r.Context(), filters)
	if err != nil {
		apperror.Write(w, r, h.tr, err)
		return
	}
	apperror.WriteJSON(w, http.StatusOK, entries)
}
