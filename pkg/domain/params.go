package domain

// CopyParams deep-copies a parameter map. Transform params are immutable
// snapshots; everything that stores or hands out params copies first so a
// caller mutating its own map can never reach into the tree.
func CopyParams(params map[string]any) map[string]any {
	if params == nil {
		return nil
	}
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		return CopyParams(tv)
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = copyValue(e)
		}
		return out
	case []float64:
		out := make([]float64, len(tv))
		copy(out, tv)
		return out
	case []string:
		out := make([]string, len(tv))
		copy(out, tv)
		return out
	default:
		return v
	}
}
