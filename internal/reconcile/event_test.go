package reconcile

import (
	"encoding/json"
	"testing"

	"github.com/fekuna/omnipos-catalog-sync/internal/model"
	"github.com/fekuna/omnipos-catalog-sync/internal/reconcile/dto"
	"github.com/stretchr/testify/assert"
)

func TestEventMapping(t *testing.T) {
	cases := []struct {
		event  string
		kind   EventKind
		status model.OrderStatus
	}{
		{"order-confirmed", EventOrderConfirmed, model.OrderStatusConfirmed},
		{"order-rejected", EventOrderRejected, model.OrderStatusRejected},
		{"order-ready-to-deliver", EventOrderReadyToDeliver, model.OrderStatusReady},
		{"order-closed", EventOrderClosed, model.OrderStatusClosed},
		{"order-delivery-sent", EventOrderDeliverySent, model.OrderStatusClosed},
		{" order-confirmed ", EventOrderConfirmed, model.OrderStatusConfirmed},
	}

	for _, tc := range cases {
		t.Run(tc.event, func(t *testing.T) {
			kind := ParseEvent(tc.event)
			assert.Equal(t, tc.kind, kind)
			status, ok := kind.TargetStatus()
			assert.True(t, ok)
			assert.Equal(t, tc.status, status)
		})
	}
}

func TestUnmappedEvent(t *testing.T) {
	for _, name := range []string{"order-created", "ORDER-CONFIRMED", "", "payment-received"} {
		kind := ParseEvent(name)
		assert.Equal(t, EventUnmapped, kind, name)
		_, ok := kind.TargetStatus()
		assert.False(t, ok)
	}
	assert.Equal(t, "unmapped", EventUnmapped.String())
	assert.Equal(t, "order-delivery-sent", EventOrderDeliverySent.String())
}

func TestExtractIdentifier(t *testing.T) {
	ext := func(s string) *string { return &s }

	cases := []struct {
		name    string
		payload dto.WebhookPayload
		want    Identifier
		ok      bool
	}{
		{"external id wins", dto.WebhookPayload{ExternalID: ext("ext-1"), OrderID: json.RawMessage(`42`)}, Identifier{IdentifierExternalID, "ext-1"}, true},
		{"numeric order id", dto.WebhookPayload{OrderID: json.RawMessage(`42`)}, Identifier{IdentifierFudoOrderID, "42"}, true},
		{"string order id", dto.WebhookPayload{OrderID: json.RawMessage(`"42"`)}, Identifier{IdentifierFudoOrderID, "42"}, true},
		{"blank external falls through", dto.WebhookPayload{ExternalID: ext("  "), OrderID: json.RawMessage(`7`)}, Identifier{IdentifierFudoOrderID, "7"}, true},
		{"null order id", dto.WebhookPayload{OrderID: json.RawMessage(`null`)}, Identifier{}, false},
		{"object order id", dto.WebhookPayload{OrderID: json.RawMessage(`{}`)}, Identifier{}, false},
		{"nothing", dto.WebhookPayload{}, Identifier{}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ExtractIdentifier(&tc.payload)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPayloadDecoding(t *testing.T) {
	var p dto.WebhookPayload
	assert.NoError(t, json.Unmarshal([]byte(`{"event":"order-closed","orderId":1234567890123,"extra":{"a":1}}`), &p))

	id, ok := ExtractIdentifier(&p)
	assert.True(t, ok)
	assert.Equal(t, "1234567890123", id.Value, "large ids keep every digit")
}
