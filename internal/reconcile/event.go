package reconcile

import (
	"strings"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
)

// EventKind is the closed set of order events the service understands.
// Anything else parses to EventUnmapped and is ignored.
type EventKind int

const (
	EventUnmapped EventKind = iota
	EventOrderConfirmed
	EventOrderRejected
	EventOrderReadyToDeliver
	EventOrderClosed
	EventOrderDeliverySent
)

var eventNames = map[string]EventKind{
	"order-confirmed":        EventOrderConfirmed,
	"order-rejected":         EventOrderRejected,
	"order-ready-to-deliver": EventOrderReadyToDeliver,
	"order-closed":           EventOrderClosed,
	"order-delivery-sent":    EventOrderDeliverySent,
}

func ParseEvent(name string) EventKind {
	if kind, ok := eventNames[strings.TrimSpace(name)]; ok {
		return kind
	}
	return EventUnmapped
}

func (k EventKind) String() string {
	for name, kind := range eventNames {
		if kind == k {
			return name
		}
	}
	return "unmapped"
}

// TargetStatus is the order status an event moves to. ok is false for
// EventUnmapped.
func (k EventKind) TargetStatus() (status model.OrderStatus, ok bool) {
	switch k {
	case EventOrderConfirmed:
		return model.OrderStatusConfirmed, true
	case EventOrderRejected:
		return model.OrderStatusRejected, true
	case EventOrderReadyToDeliver:
		return model.OrderStatusReady, true
	case EventOrderClosed, EventOrderDeliverySent:
		return model.OrderStatusClosed, true
	default:
		return "", false
	}
}
