package dto

import (
	"encoding/json"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
)

// WebhookPayload is the body the point-of-sale posts for order events.
// orderId arrives as a number but strings are tolerated.
type WebhookPayload struct {
	Event      string          `json:"event"`
	OrderID    json.RawMessage `json:"orderId,omitempty"`
	ExternalID *string         `json:"externalId,omitempty"`
}

type Outcome struct {
	Event           string
	Ignored         bool
	IdentifierKind  string
	IdentifierValue string
	Status          model.OrderStatus
	Affected        int64
}
