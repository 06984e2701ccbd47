package catalog

import (
	"context"

	"github.com/fekuna/omnipos-catalog-sync/internal/fudo"
)

// Remote is the point-of-sale catalog API.
type Remote interface {
	ListProducts(ctx context.Context) ([]fudo.Product, error)
	GetProduct(ctx context.Context, id string) (*fudo.Product, error)
	ListCategories(ctx context.Context) ([]fudo.Category, error)
	CreateProduct(ctx context.Context, in fudo.ProductInput) (*fudo.Product, error)
	UpdateProduct(ctx context.Context, id string, in fudo.ProductInput) (*fudo.Product, error)
}
