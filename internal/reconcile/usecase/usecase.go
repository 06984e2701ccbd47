package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-catalog-sync/internal/apperror"
	"github.com/fekuna/omnipos-catalog-sync/internal/reconcile"
	"github.com/fekuna/omnipos-catalog-sync/internal/reconcile/dto"
	"github.com/fekuna/omnipos-catalog-sync/pkg/logger"
	"go.uber.org/zap"
)

type reconcileUseCase struct {
	repo   reconcile.OrderRepository
	logger logger.ZapLogger
}

func NewReconcileUseCase(repo reconcile.OrderRepository, log logger.ZapLogger) reconcile.UseCase {
	return &reconcileUseCase{
		repo:   repo,
		logger: log,
	}
}

// HandleEvent applies one order event. Unknown events are ignored, not
// rejected. Events are applied in arrival order: payloads carry no
// sequence number, so a late duplicate of an earlier event can move a
// record back.
func (uc *reconcileUseCase) HandleEvent(ctx context.Context, payload *dto.WebhookPayload) (*dto.Outcome, error) {
	if payload == nil || strings.TrimSpace(payload.Event) == "" {
		return nil, apperror.Validation("event is required")
	}

	id, ok := reconcile.ExtractIdentifier(payload)
	if !ok {
		return nil, apperror.Validation("externalId or orderId is required")
	}

	out := &dto.Outcome{
		Event:           payload.Event,
		IdentifierKind:  string(id.Kind),
		IdentifierValue: id.Value,
	}

	kind := reconcile.ParseEvent(payload.Event)
	status, mapped := kind.TargetStatus()
	if !mapped {
		uc.logger.Info("ignoring unmapped order event",
			zap.String("event", payload.Event),
			zap.String(string(id.Kind), id.Value),
		)
		out.Ignored = true
		return out, nil
	}

	affected, err := uc.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		uc.logger.Error("failed to update order status",
			zap.String("event", kind.String()),
			zap.String(string(id.Kind), id.Value),
			zap.Error(err),
		)
		return nil, apperror.Persistence("update order status", err)
	}

	uc.logger.Info("order status reconciled",
		zap.String("event", kind.String()),
		zap.String(string(id.Kind), id.Value),
		zap.String("status", string(status)),
		zap.Int64("affected", affected),
	)

	out.Status = status
	out.Affected = affected
	return out, nil
}
