package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fekuna/omnipos-catalog-sync/internal/apperror"
	"github.com/fekuna/omnipos-catalog-sync/internal/auth"
	"github.com/fekuna/omnipos-catalog-sync/internal/catalog"
	"github.com/fekuna/omnipos-catalog-sync/internal/catalog/dto"
	"github.com/fekuna/omnipos-catalog-sync/internal/fudo"
	"github.com/fekuna/omnipos-catalog-sync/internal/merge"
	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/fekuna/omnipos-catalog-sync/pkg/logger"
	"github.com/fekuna/omnipos-catalog-sync/pkg/search"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	syncLogIndex    = "sync-logs"
	defaultLogLimit = 50
	maxLogLimit     = 500
)

const syncLogMapping = `{
	"mappings": {
		"properties": {
			"product_id": { "type": "keyword" },
			"action": { "type": "keyword" },
			"direction": { "type": "keyword" },
			"status": { "type": "keyword" },
			"details": { "type": "text" },
			"error_message": { "type": "text" },
			"performed_by": { "type": "keyword" },
			"created_at": { "type": "date" }
		}
	}
}`

// SearchIndex is the subset of the search client used for sync logs.
type SearchIndex interface {
	CreateIndex(ctx context.Context, index, mapping string) error
	Index(ctx context.Context, index, id string, doc interface{}) error
	Search(ctx context.Context, index string, query map[string]interface{}) (*search.SearchResult, error)
}

type catalogUseCase struct {
	repo      catalog.Repository
	logs      catalog.SyncLogRepository
	remote    catalog.Remote
	es        SearchIndex
	indexOnce sync.Once
	logger    logger.ZapLogger
}

// NewCatalogUseCase wires the comparison and push flows. es may be nil.
func NewCatalogUseCase(repo catalog.Repository, logs catalog.SyncLogRepository, remote catalog.Remote, es SearchIndex, log logger.ZapLogger) catalog.UseCase {
	return &catalogUseCase{
		repo:   repo,
		logs:   logs,
		remote: remote,
		es:     es,
		logger: log,
	}
}

func (uc *catalogUseCase) Compare(ctx context.Context) (*catalog.SyncComparisonResult, error) {
	local, remote, err := uc.fetchBoth(ctx)
	if err != nil {
		return nil, err
	}

	result := catalog.Compare(toLocalProducts(local), toFudoProducts(remote))
	uc.logger.Info("catalog compared",
		zap.Int("synced", result.Summary.Synced),
		zap.Int("local_only", result.Summary.LocalOnly),
		zap.Int("fudo_only", result.Summary.FudoOnly),
		zap.Int("with_diffs", result.Summary.WithDiffs),
	)
	return &result, nil
}

func (uc *catalogUseCase) PriceReport(ctx context.Context) ([]catalog.PriceReport, error) {
	result, err := uc.Compare(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.Report(*result), nil
}

// fetchBoth loads the local and remote catalogs concurrently. Either
// failure cancels the other and fails the whole call.
func (uc *catalogUseCase) fetchBoth(ctx context.Context) ([]model.Product, []fudo.Product, error) {
	var (
		local  []model.Product
		remote []fudo.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		products, err := uc.repo.ListLocalProducts(gctx)
		if err != nil {
			return apperror.Persistence("list local products", err)
		}
		local = products
		return nil
	})
	g.Go(func() error {
		products, err := uc.remote.ListProducts(gctx)
		if err != nil {
			return upstreamError(err)
		}
		remote = products
		return nil
	})

	if err := g.Wait(); err != nil {
		uc.logger.Error("catalog fetch failed", zap.Error(err))
		return nil, nil, err
	}
	return local, remote, nil
}

func (uc *catalogUseCase) Push(ctx context.Context, input *dto.PushInput) (*dto.PushResult, error) {
	if input == nil || strings.TrimSpace(input.ProductID) == "" {
		return nil, apperror.Validation("productId is required")
	}

	p, err := uc.repo.FindProductByID(ctx, input.ProductID)
	if err != nil {
		return nil, apperror.Persistence("find product", err)
	}
	if p == nil {
		return nil, apperror.NotFound(fmt.Sprintf("product %s", input.ProductID))
	}

	action := model.SyncActionCreate
	if p.FudoID != nil && *p.FudoID != "" {
		action = model.SyncActionUpdate
	}

	var remote *fudo.Product
	if action == model.SyncActionUpdate {
		remote, err = uc.pushUpdate(ctx, p)
	} else {
		remote, err = uc.pushCreate(ctx, p)
	}

	uc.recordSync(ctx, p, action, input.PerformedBy, remote, err)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("product pushed",
		zap.String("product_id", p.ID),
		zap.String("fudo_id", remote.ID),
		zap.String("action", string(action)),
	)
	return &dto.PushResult{Action: action, FudoID: remote.ID}, nil
}

// pushUpdate merges the local fields onto the remote attribute set so
// attributes only the remote side knows about survive the update.
func (uc *catalogUseCase) pushUpdate(ctx context.Context, p *model.Product) (*fudo.Product, error) {
	current, err := uc.remote.GetProduct(ctx, *p.FudoID)
	if err != nil {
		return nil, upstreamError(err)
	}

	attrs := merge.Maps(current.Attributes, localAttributes(p))
	updated, err := uc.remote.UpdateProduct(ctx, current.ID, fudo.ProductInput{Attributes: attrs})
	if err != nil {
		return nil, upstreamError(err)
	}
	return updated, nil
}

func (uc *catalogUseCase) pushCreate(ctx context.Context, p *model.Product) (*fudo.Product, error) {
	categoryID, err := uc.matchCategory(ctx, p.CategoryName)
	if err != nil {
		return nil, err
	}

	created, err := uc.remote.CreateProduct(ctx, fudo.ProductInput{
		Attributes: localAttributes(p),
		CategoryID: categoryID,
	})
	if err != nil {
		return nil, upstreamError(err)
	}

	if err := uc.repo.SetFudoID(ctx, p.ID, created.ID); err != nil {
		uc.logger.Error("remote product created but link not stored",
			zap.String("product_id", p.ID),
			zap.String("fudo_id", created.ID),
			zap.Error(err),
		)
		return created, apperror.Persistence(fmt.Sprintf("store remote id: remote product %s created but not linked", created.ID), err)
	}
	return created, nil
}

// matchCategory finds the remote category whose name equals the local
// category name, ignoring case. No match means the product is created
// without a category.
func (uc *catalogUseCase) matchCategory(ctx context.Context, name *string) (*string, error) {
	if name == nil || strings.TrimSpace(*name) == "" {
		return nil, nil
	}

	categories, err := uc.remote.ListCategories(ctx)
	if err != nil {
		return nil, upstreamError(err)
	}

	want := strings.TrimSpace(*name)
	for _, c := range categories {
		if strings.EqualFold(want, strings.TrimSpace(c.Name)) {
			id := c.ID
			return &id, nil
		}
	}

	uc.logger.Warn("no remote category matches", zap.String("category", want))
	return nil, nil
}

func (uc *catalogUseCase) recordSync(ctx context.Context, p *model.Product, action model.SyncAction, performedBy string, remote *fudo.Product, pushErr error) {
	if performedBy == "" {
		performedBy = auth.SystemActor
	}

	details := map[string]interface{}{
		"name":  p.Name,
		"price": p.Price,
	}
	if remote != nil {
		details["fudo_id"] = remote.ID
	}
	raw, _ := json.Marshal(details)
	detailStr := string(raw)

	entry := &model.SyncLogEntry{
		ID:          uuid.New().String(),
		ProductID:   p.ID,
		Action:      action,
		Direction:   model.SyncDirectionLocalToFudo,
		Details:     &detailStr,
		Status:      model.SyncStatusSuccess,
		PerformedBy: performedBy,
		CreatedAt:   time.Now().UTC(),
	}
	if pushErr != nil {
		msg := pushErr.Error()
		entry.Status = model.SyncStatusError
		entry.ErrorMessage = &msg
	}

	if err := uc.logs.Append(ctx, entry); err != nil {
		uc.logger.Error("failed to append sync log", zap.String("product_id", p.ID), zap.Error(err))
		return
	}

	go uc.indexLog(context.Background(), *entry)
}

func (uc *catalogUseCase) indexLog(ctx context.Context, entry model.SyncLogEntry) {
	if uc.es == nil {
		return
	}

	uc.indexOnce.Do(func() {
		if err := uc.es.CreateIndex(ctx, syncLogIndex, syncLogMapping); err != nil {
			uc.logger.Warn("failed to create sync log index", zap.Error(err))
		}
	})

	if err := uc.es.Index(ctx, syncLogIndex, entry.ID, entry); err != nil {
		uc.logger.Error("failed to index sync log", zap.String("id", entry.ID), zap.Error(err))
	}
}

func (uc *catalogUseCase) ListLogs(ctx context.Context, filters *dto.LogFilters) ([]model.SyncLogEntry, error) {
	f := dto.LogFilters{}
	if filters != nil {
		f = *filters
	}
	if f.Limit <= 0 {
		f.Limit = defaultLogLimit
	}
	if f.Limit > maxLogLimit {
		f.Limit = maxLogLimit
	}

	if f.Query != "" && uc.es != nil {
		entries, err := uc.searchLogs(ctx, &f)
		if err == nil {
			return entries, nil
		}
		uc.logger.Error("sync log search failed, falling back to DB", zap.Error(err))
	}

	entries, err := uc.logs.List(ctx, &f)
	if err != nil {
		return nil, apperror.Persistence("list sync logs", err)
	}
	return entries, nil
}

func (uc *catalogUseCase) searchLogs(ctx context.Context, f *dto.LogFilters) ([]model.SyncLogEntry, error) {
	must := []map[string]interface{}{
		{
			"multi_match": map[string]interface{}{
				"query":  f.Query,
				"fields": []string{"details", "error_message"},
			},
		},
	}
	if f.ProductID != "" {
		must = append(must, map[string]interface{}{
			"term": map[string]interface{}{"product_id": f.ProductID},
		})
	}

	q := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{"must": must},
		},
		"sort": []map[string]interface{}{
			{"created_at": map[string]interface{}{"order": "desc"}},
		},
		"size": f.Limit,
	}

	res, err := uc.es.Search(ctx, syncLogIndex, q)
	if err != nil {
		return nil, err
	}

	entries := make([]model.SyncLogEntry, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var e model.SyncLogEntry
		if err := json.Unmarshal(hit.Source, &e); err != nil {
			return nil, fmt.Errorf("decode sync log %s: %w", hit.ID, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func localAttributes(p *model.Product) map[string]interface{} {
	attrs := map[string]interface{}{
		"name":   p.Name,
		"price":  p.Price,
		"active": p.IsActive,
	}
	if p.Description != nil {
		attrs["description"] = *p.Description
	}
	if p.Code != nil {
		attrs["code"] = *p.Code
	}
	return attrs
}

func upstreamError(err error) error {
	var apiErr *fudo.APIError
	if errors.As(err, &apiErr) {
		return apperror.Upstream(apiErr.StatusCode, apiErr.Body, err)
	}
	return apperror.Upstream(0, "", err)
}

func toLocalProducts(products []model.Product) []catalog.LocalProduct {
	out := make([]catalog.LocalProduct, len(products))
	for i, p := range products {
		out[i] = catalog.LocalProduct{
			ID:     p.ID,
			Name:   p.Name,
			Price:  p.Price,
			Active: p.IsActive,
			Code:   p.Code,
			FudoID: p.FudoID,
		}
	}
	return out
}

func toFudoProducts(products []fudo.Product) []catalog.FudoProduct {
	out := make([]catalog.FudoProduct, len(products))
	for i, p := range products {
		out[i] = catalog.FudoProduct{
			ID:     p.ID,
			Name:   p.Name,
			Price:  p.Price,
			Active: p.Active,
			Code:   p.Code,
		}
	}
	return out
}
