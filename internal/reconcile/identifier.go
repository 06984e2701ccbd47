package reconcile

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/fekuna/omnipos-catalog-sync/internal/reconcile/dto"
)

type IdentifierKind string

const (
	IdentifierExternalID  IdentifierKind = "external_id"
	IdentifierFudoOrderID IdentifierKind = "fudo_order_id"
)

// Identifier selects the local order record an event applies to.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

type Extractor func(p *dto.WebhookPayload) (Identifier, bool)

// Extractors are tried in order; the first one that finds a value wins.
var Extractors = []Extractor{
	externalID,
	fudoOrderID,
}

func ExtractIdentifier(p *dto.WebhookPayload) (Identifier, bool) {
	for _, extract := range Extractors {
		if id, ok := extract(p); ok {
			return id, true
		}
	}
	return Identifier{}, false
}

func externalID(p *dto.WebhookPayload) (Identifier, bool) {
	if p.ExternalID == nil {
		return Identifier{}, false
	}
	v := strings.TrimSpace(*p.ExternalID)
	if v == "" {
		return Identifier{}, false
	}
	return Identifier{Kind: IdentifierExternalID, Value: v}, true
}

func fudoOrderID(p *dto.WebhookPayload) (Identifier, bool) {
	raw := bytes.TrimSpace(p.OrderID)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return Identifier{}, false
	}

	var v string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &v); err != nil {
			return Identifier{}, false
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return Identifier{}, false
		}
		v = n.String()
	}

	v = strings.TrimSpace(v)
	if v == "" {
		return Identifier{}, false
	}
	return Identifier{Kind: IdentifierFudoOrderID, Value: v}, true
}
