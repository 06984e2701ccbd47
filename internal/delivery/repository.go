package delivery

import (
	"context"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
)

type Repository interface {
	// ListModules returns every global module in its natural display order.
	ListModules(ctx context.Context) ([]model.DeliveryModule, error)
	// Find* return nil, nil when no row exists.
	FindTemplateByCategory(ctx context.Context, categoryID string) (*model.DeliveryCategoryTemplate, error)
	FindProductConfig(ctx context.Context, productID string) (*model.DeliveryProductConfig, error)
	// FindProductCategory returns found=false for an unknown product and
	// categoryID=nil for a product without category.
	FindProductCategory(ctx context.Context, productID string) (categoryID *string, found bool, err error)
}
