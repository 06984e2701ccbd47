package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-catalog-sync/internal/apperror"
	"github.com/fekuna/omnipos-catalog-sync/internal/reconcile"
	"github.com/fekuna/omnipos-catalog-sync/internal/reconcile/dto"
	"github.com/fekuna/omnipos-catalog-sync/pkg/broker"
	"github.com/fekuna/omnipos-catalog-sync/pkg/logger"
	"go.uber.org/zap"
)

// OrderEventListener feeds order events relayed through Kafka into the
// same reconciliation path as the webhook endpoint.
type OrderEventListener struct {
	consumer broker.Consumer
	uc       reconcile.UseCase
	logger   logger.ZapLogger
	backoff  time.Duration
}

func NewOrderEventListener(consumer broker.Consumer, uc reconcile.UseCase, logger logger.ZapLogger) *OrderEventListener {
	return &OrderEventListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
		backoff:  time.Second,
	}
}

func (l *OrderEventListener) Start(ctx context.Context) {
	l.logger.Info("Starting order event listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping order event listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					l.logger.Info("Stopping order event listener")
					return
				case <-time.After(l.backoff):
				}
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

func (l *OrderEventListener) processMessage(ctx context.Context, value []byte) {
	var payload dto.WebhookPayload
	if err := json.Unmarshal(value, &payload); err != nil {
		l.logger.Error("Failed to unmarshal order event", zap.Error(err))
		return
	}

	out, err := l.uc.HandleEvent(ctx, &payload)
	if err != nil {
		if apperror.IsKind(err, apperror.KindValidation) {
			l.logger.Warn("Skipping order event", zap.String("event", payload.Event), zap.Error(err))
			return
		}
		l.logger.Error("Failed to apply order event", zap.String("event", payload.Event), zap.Error(err))
		return
	}

	if !out.Ignored {
		l.logger.Debug("Order event applied",
			zap.String("event", out.Event),
			zap.String("status", string(out.Status)),
			zap.Int64("affected", out.Affected),
		)
	}
}
