package reconcile

import (
	"context"

	"github.com/fekuna/omnipos-catalog-sync/internal/reconcile/dto"
)

type UseCase interface {
	HandleEvent(ctx context.Context, payload *dto.WebhookPayload) (*dto.Outcome, error)
}
