package catalog

import (
	"context"

	"github.com/fekuna/omnipos-catalog-sync/internal/catalog/dto"
	"github.com/fekuna/omnipos-catalog-sync/internal/model"
)

type UseCase interface {
	Compare(ctx context.Context) (*SyncComparisonResult, error)
	PriceReport(ctx context.Context) ([]PriceReport, error)
	Push(ctx context.Context, input *dto.PushInput) (*dto.PushResult, error)
	ListLogs(ctx context.Context, filters *dto.LogFilters) ([]model.SyncLogEntry, error)
}
