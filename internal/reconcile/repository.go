package reconcile

import (
	"context"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
)

type OrderRepository interface {
	// UpdateStatus writes status to the orders matching id unless they are
	// in the error state, and returns how many rows changed.
	UpdateStatus(ctx context.Context, id Identifier, status model.OrderStatus) (int64, error)
}
