package fudo

import (
	"encoding/json"
	"fmt"
)

// Product is the remote catalog record flattened from its JSON:API resource.
type Product struct {
	ID         string
	Name       string
	Price      float64
	Active     bool
	Code       *string
	CategoryID *string
	// Attributes holds every attribute as received, including the ones
	// not mapped above, so updates can be merged onto them.
	Attributes map[string]interface{}
}

type Category struct {
	ID   string
	Name string
}

// ProductInput is the body of a create or update call.
type ProductInput struct {
	Attributes map[string]interface{}
	CategoryID *string
}

// APIError is any non-2xx answer from the remote API.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("fudo %s: status %d", e.Op, e.StatusCode)
}

type resourceIdentifier struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type relationship struct {
	Data *resourceIdentifier `json:"data"`
}

type resource struct {
	ID            string                  `json:"id,omitempty"`
	Type          string                  `json:"type"`
	Attributes    map[string]interface{}  `json:"attributes"`
	Relationships map[string]relationship `json:"relationships,omitempty"`
}

type singleDocument struct {
	Data resource `json:"data"`
}

type listDocument struct {
	Data []resource `json:"data"`
}

type authRequest struct {
	APIKey    string `json:"apiKey"`
	APISecret string `json:"apiSecret"`
}

type authResponse struct {
	Token string `json:"token"`
	Exp   int64  `json:"exp"`
}

func productFromResource(r resource) Product {
	p := Product{
		ID:         r.ID,
		Attributes: r.Attributes,
	}
	if p.Attributes == nil {
		p.Attributes = map[string]interface{}{}
	}

	if v, ok := r.Attributes["name"].(string); ok {
		p.Name = v
	}
	p.Price = toFloat(r.Attributes["price"])
	if v, ok := r.Attributes["active"].(bool); ok {
		p.Active = v
	}
	if v, ok := r.Attributes["code"].(string); ok && v != "" {
		p.Code = &v
	}
	if rel, ok := r.Relationships["productCategory"]; ok && rel.Data != nil {
		id := rel.Data.ID
		p.CategoryID = &id
	}
	return p
}

func categoryFromResource(r resource) Category {
	c := Category{ID: r.ID}
	if v, ok := r.Attributes["name"].(string); ok {
		c.Name = v
	}
	return c
}

func toResource(in ProductInput) resource {
	res := resource{
		Type:       "Product",
		Attributes: in.Attributes,
	}
	if in.CategoryID != nil {
		res.Relationships = map[string]relationship{
			"productCategory": {Data: &resourceIdentifier{ID: *in.CategoryID, Type: "ProductCategory"}},
		}
	}
	return res
}

// toFloat accepts prices sent either as numbers or numeric strings.
func toFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case json.Number:
		f, _ := t.Float64()
		return f
	case string:
		var f float64
		if _, err := fmt.Sscan(t, &f); err == nil {
			return f
		}
	}
	return 0
}
