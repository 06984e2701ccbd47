package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-catalog-sync/internal/apperror"
	"github.com/fekuna/omnipos-catalog-sync/internal/auth"
	"github.com/fekuna/omnipos-catalog-sync/internal/catalog"
	"github.com/fekuna/omnipos-catalog-sync/internal/catalog/dto"
	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/fekuna/omnipos-catalog-sync/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUseCase struct {
	comparison *catalog.SyncComparisonResult
	err        error
	push       *dto.PushInput
	filters    *dto.LogFilters
}

func (s *stubUseCase) Compare(ctx context.Context) (*catalog.SyncComparisonResult, error) {
	return s.comparison, s.err
}

func (s *stubUseCase) PriceReport(ctx context.Context) ([]catalog.PriceReport, error) {
	if s.err != nil {
		return nil, s.err
	}
	return catalog.Report(*s.comparison), nil
}

func (s *stubUseCase) Push(ctx context.Context, input *dto.PushInput) (*dto.PushResult, error) {
	s.push = input
	if s.err != nil {
		return nil, s.err
	}
	return &dto.PushResult{Action: model.SyncActionUpdate, FudoID: "f1"}, nil
}

func (s *stubUseCase) ListLogs(ctx context.Context, filters *dto.LogFilters) ([]model.SyncLogEntry, error) {
	s.filters = filters
	return []model.SyncLogEntry{}, s.err
}

func newMux(uc catalog.UseCase) http.Handler {
	mux := http.NewServeMux()
	NewCatalogHandler(uc, nil, logger.NewNop()).Register(mux)
	return auth.WithActor(mux)
}

func TestCompareShape(t *testing.T) {
	result := catalog.Compare(
		[]catalog.LocalProduct{{ID: "p1", Name: "Taco", Price: 9000, Active: true}, {ID: "p2", Name: "Flan"}},
		[]catalog.FudoProduct{{ID: "f1", Name: "Taco", Price: 9500, Active: true}},
	)
	rec := httptest.NewRecorder()
	newMux(&stubUseCase{comparison: &result}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync/compare", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	for _, key := range []string{"synced", "local_only", "fudo_only", "diffs", "summary"} {
		assert.Contains(t, body, key)
	}
	assert.JSONEq(t, `[]`, string(body["fudo_only"]))
}

func TestPriceReportEndpoint(t *testing.T) {
	result := catalog.Compare(
		[]catalog.LocalProduct{{ID: "p1", Name: "Taco", Price: 9000, Active: true}},
		[]catalog.FudoProduct{{ID: "f1", Name: "Taco", Price: 9500, Active: true}},
	)
	rec := httptest.NewRecorder()
	newMux(&stubUseCase{comparison: &result}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync/price-report", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"local_id":"p1","fudo_id":"f1","nombre":"Taco","precio_local":9000,"precio_fudo":9500,"diferencia":500,"porcentaje":5.56}]`, rec.Body.String())
}

func TestUpstreamFailureBody(t *testing.T) {
	uc := &stubUseCase{err: apperror.Upstream(503, "maintenance", nil)}
	rec := httptest.NewRecorder()
	newMux(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync/compare", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":{"code":"upstream_error","message":"Point-of-sale API error","upstream_status":503,"upstream_body":"maintenance"}}`, rec.Body.String())
}

func TestPush(t *testing.T) {
	uc := &stubUseCase{}
	req := httptest.NewRequest(http.MethodPost, "/api/sync/push", strings.NewReader(`{"productId":"p1"}`))
	req.Header.Set("X-User-ID", "u-1")
	rec := httptest.NewRecorder()
	newMux(uc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"action":"update","fudo_id":"f1"}`, rec.Body.String())
	assert.Equal(t, &dto.PushInput{ProductID: "p1", PerformedBy: "u-1"}, uc.push)
}

func TestPushMalformedBody(t *testing.T) {
	uc := &stubUseCase{}
	rec := httptest.NewRecorder()
	newMux(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync/push", strings.NewReader(`not json`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.push)
}

func TestListLogsQuery(t *testing.T) {
	uc := &stubUseCase{}
	rec := httptest.NewRecorder()
	newMux(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync/logs?product_id=p1&limit=5&q=price", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, &dto.LogFilters{ProductID: "p1", Query: "price", Limit: 5}, uc.filters)

	rec = httptest.NewRecorder()
	newMux(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/sync/logs?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
