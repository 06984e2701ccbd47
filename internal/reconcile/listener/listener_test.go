package listener

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-catalog-sync/internal/apperror"
	"github.com/fekuna/omnipos-catalog-sync/internal/reconcile/dto"
	"github.com/fekuna/omnipos-catalog-sync/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

// scriptedConsumer replays its messages, then cancels the listener.
type scriptedConsumer struct {
	messages [][]byte
	errs     []error
	cancel   context.CancelFunc
}

func (c *scriptedConsumer) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(c.errs) > 0 {
		err := c.errs[0]
		c.errs = c.errs[1:]
		return kafka.Message{}, err
	}
	if len(c.messages) == 0 {
		c.cancel()
		return kafka.Message{}, context.Canceled
	}
	msg := c.messages[0]
	c.messages = c.messages[1:]
	return kafka.Message{Value: msg}, nil
}

func (c *scriptedConsumer) Close() error { return nil }

type recordingUseCase struct {
	mu     sync.Mutex
	events []string
	err    error
}

func (r *recordingUseCase) HandleEvent(ctx context.Context, payload *dto.WebhookPayload) (*dto.Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, payload.Event)
	if r.err != nil {
		return nil, r.err
	}
	return &dto.Outcome{Event: payload.Event}, nil
}

func TestListenerProcessesUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := &scriptedConsumer{
		messages: [][]byte{
			[]byte(`{"event":"order-confirmed","orderId":1}`),
			[]byte(`not json`),
			[]byte(`{"event":"order-closed","externalId":"e-1"}`),
		},
		errs:   []error{errors.New("broker unavailable")},
		cancel: cancel,
	}
	uc := &recordingUseCase{}

	l := NewOrderEventListener(consumer, uc, logger.NewNop())
	l.backoff = 0
	l.Start(ctx)

	assert.Equal(t, []string{"order-confirmed", "order-closed"}, uc.events)
}

func TestListenerSkipsFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumer := &scriptedConsumer{
		messages: [][]byte{[]byte(`{"event":"order-confirmed"}`), []byte(`{"event":"order-closed","orderId":2}`)},
		cancel:   cancel,
	}
	uc := &recordingUseCase{err: apperror.Validation("externalId or orderId is required")}

	l := NewOrderEventListener(consumer, uc, logger.NewNop())
	l.backoff = 0
	l.Start(ctx)

	assert.Len(t, uc.events, 2, "a failed message does not stop the loop")
}

// failingConsumer fails every read.
type failingConsumer struct{}

func (failingConsumer) ReadMessage(ctx context.Context) (kafka.Message, error) {
	return kafka.Message{}, errors.New("broker unavailable")
}

func (failingConsumer) Close() error { return nil }

func TestListenerBackoffStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := NewOrderEventListener(failingConsumer{}, &recordingUseCase{}, logger.NewNop())
	l.backoff = time.Hour

	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()

	time.AfterFunc(50*time.Millisecond, cancel)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("listener kept waiting out the backoff after cancellation")
	}
}
