package delivery

import (
	"github.com/fekuna/omnipos-catalog-sync/internal/merge"
	"github.com/fekuna/omnipos-catalog-sync/internal/model"
)

// Resolve computes the effective delivery modules of one product.
//
// Precedence is product override > category template override > global
// module. The candidate order comes from the product config, else the
// template, else the global list. Ids without a global module are skipped
// and modules that end up disabled are dropped. Items marked inactive are
// kept; hiding them is up to the caller. template and config may be nil.
func Resolve(productID string, modules []model.DeliveryModule, template *model.DeliveryCategoryTemplate, config *model.DeliveryProductConfig) []model.ResolvedDeliveryModule {
	byID := make(map[string]model.DeliveryModule, len(modules))
	for _, m := range modules {
		byID[m.ID] = m
	}

	var templateOverrides, productOverrides model.ModuleOverrides
	if template != nil {
		templateOverrides = template.Overrides
	}
	if config != nil {
		productOverrides = config.Overrides
	}

	resolved := make([]model.ResolvedDeliveryModule, 0, len(modules))
	for _, id := range candidateIDs(modules, template, config) {
		base, ok := byID[id]
		if !ok {
			continue
		}

		m := layer{
			enabled:  base.Enabled,
			maxItems: base.MaxItems,
			items:    base.Items,
		}
		if ov, ok := templateOverrides[id]; ok {
			m = m.apply(ov)
		}
		if ov, ok := productOverrides[id]; ok {
			m = m.apply(ov)
		}

		if !m.enabled {
			continue
		}

		resolved = append(resolved, model.ResolvedDeliveryModule{
			ID:       base.ID,
			Title:    base.Title,
			Type:     base.Type,
			MaxItems: copyInt(m.maxItems),
			Items:    cloneItems(m.items),
		})
	}

	return resolved
}

func candidateIDs(modules []model.DeliveryModule, template *model.DeliveryCategoryTemplate, config *model.DeliveryProductConfig) []string {
	if config != nil && len(config.Modules) > 0 {
		return config.Modules
	}
	if template != nil && len(template.ModulesOrder) > 0 {
		return template.ModulesOrder
	}
	ids := make([]string, len(modules))
	for i, m := range modules {
		ids[i] = m.ID
	}
	return ids
}

// layer is the intermediate module while overrides are stacked.
type layer struct {
	enabled  bool
	maxItems *int
	items    []model.ModuleItem
}

// apply overlays one override. A null items_override means "no
// replacement", unlike max_items where null means unlimited.
func (l layer) apply(ov model.ModuleOverride) layer {
	next := layer{
		enabled:  merge.Apply(l.enabled, ov.Enabled),
		maxItems: merge.ApplyNullable(l.maxItems, ov.MaxItems),
		items:    l.items,
	}
	if items, ok := ov.ItemsOverride.Get(); ok {
		next.items = items
	}
	return next
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	cp := *v
	return &cp
}

func cloneItems(items []model.ModuleItem) []model.ModuleItem {
	out := make([]model.ModuleItem, len(items))
	copy(out, items)
	return out
}
