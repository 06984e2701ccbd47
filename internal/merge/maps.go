package merge

// Maps deep-merges patch onto base and returns a new map; neither input is
// modified. Keys missing from patch keep the base value, nil values are kept
// as explicit nulls, nested maps present on both sides are merged
// recursively and everything else (slices included) replaces the base value
// wholesale.
func Maps(base, patch map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(patch))
	for k, v := range base {
		out[k] = clone(v)
	}

	for k, pv := range patch {
		if pv == nil {
			out[k] = nil
			continue
		}
		pm, patchIsMap := pv.(map[string]interface{})
		bm, baseIsMap := base[k].(map[string]interface{})
		if patchIsMap && baseIsMap {
			out[k] = Maps(bm, pm)
			continue
		}
		out[k] = clone(pv)
	}

	return out
}

func clone(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		m := make(map[string]interface{}, len(t))
		for k, vv := range t {
			m[k] = clone(vv)
		}
		return m
	case []interface{}:
		s := make([]interface{}, len(t))
		for i, vv := range t {
			s[i] = clone(vv)
		}
		return s
	default:
		return v
	}
}
