package delivery

import (
	"context"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
)

type UseCase interface {
	Preview(ctx context.Context, productID string) ([]model.ResolvedDeliveryModule, error)
}
