package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"github.com/fekuna/omnipos-catalog-sync/internal/merge"
)

type ModuleType string

const (
	ModuleTypeMultipleChoice ModuleType = "multiple-choice"
	ModuleTypeSingleChoice   ModuleType = "single-choice"
)

type ModuleItem struct {
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Active bool    `json:"active"`
}

// DeliveryModule is a global group of selectable add-ons.
type DeliveryModule struct {
	ID        string      `db:"id" json:"id"`
	Title     string      `db:"title" json:"titulo"`
	Type      ModuleType  `db:"type" json:"tipo"`
	MaxItems  *int        `db:"max_items" json:"max_items"` // nil means unlimited
	Items     ModuleItems `db:"items" json:"items"`
	Enabled   bool        `db:"enabled" json:"activo"`
	SortOrder int         `db:"sort_order" json:"-"`
}

// ModuleOverride is the patch applied by a category template or a product
// config. Absent fields inherit from the layer below.
type ModuleOverride struct {
	Enabled       merge.Value[bool]         `json:"enabled,omitzero"`
	MaxItems      merge.Value[int]          `json:"max_items,omitzero"`
	ItemsOverride merge.Value[[]ModuleItem] `json:"items_override,omitzero"`
}

type DeliveryCategoryTemplate struct {
	CategoryID   string          `db:"category_id" json:"category_id"`
	ModulesOrder ModuleIDs       `db:"modules_order" json:"modulos_orden"`
	Overrides    ModuleOverrides `db:"overrides" json:"overrides"`
}

type DeliveryProductConfig struct {
	ProductID string          `db:"product_id" json:"product_id"`
	Modules   ModuleIDs       `db:"modules" json:"modulos"`
	Overrides ModuleOverrides `db:"overrides" json:"overrides"`
}

// ResolvedDeliveryModule is what a customer sees for one module of one product.
type ResolvedDeliveryModule struct {
	ID       string       `json:"id"`
	Title    string       `json:"titulo"`
	Type     ModuleType   `json:"tipo"`
	MaxItems *int         `json:"max_items"`
	Items    []ModuleItem `json:"items"`
}

type (
	ModuleItems     []ModuleItem
	ModuleIDs       []string
	ModuleOverrides map[string]ModuleOverride
)

func (m ModuleItems) Value() (driver.Value, error)     { return jsonValue(m) }
func (m *ModuleItems) Scan(src interface{}) error      { return jsonScan(src, m) }
func (m ModuleIDs) Value() (driver.Value, error)       { return jsonValue(m) }
func (m *ModuleIDs) Scan(src interface{}) error        { return jsonScan(src, m) }
func (m ModuleOverrides) Value() (driver.Value, error) { return jsonValue(m) }
func (m *ModuleOverrides) Scan(src interface{}) error  { return jsonScan(src, m) }

func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// jsonScan decodes a jsonb column. SQL NULL leaves dst untouched.
func jsonScan(src interface{}, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("unsupported jsonb source type")
	}
}
