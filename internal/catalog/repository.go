package catalog

import (
	"context"

	"github.com/fekuna/omnipos-catalog-sync/internal/catalog/dto"
	"github.com/fekuna/omnipos-catalog-sync/internal/model"
)

type Repository interface {
	ListLocalProducts(ctx context.Context) ([]model.Product, error)
	FindProductByID(ctx context.Context, id string) (*model.Product, error)
	SetFudoID(ctx context.Context, productID, fudoID string) error
}

// SyncLogRepository is insert-only.
type SyncLogRepository interface {
	Append(ctx context.Context, entry *model.SyncLogEntry) error
	List(ctx context.Context, filters *dto.LogFilters) ([]model.SyncLogEntry, error)
}
