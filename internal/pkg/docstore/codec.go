package docstore

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Normalize converts v into its JSON shaped form. Structs become maps,
// numbers become float64 and empty maps collapse to nil.
func Normalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch v.(type) {
	case string, bool, float64:
		return v, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidValue, err)
	}
	return prune(out), nil
}

func prune(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	for k, child := range m {
		if child = prune(child); child == nil {
			delete(m, k)
			continue
		}
		m[k] = child
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

// Decode copies a stored value into out, which must be a pointer.
func Decode(v any, out any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode stored value: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode stored value: %w", err)
	}
	return nil
}

// Encode turns a record into a merge payload.
func Encode(in any) (map[string]any, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("record is not an object: %w", err)
	}
	return out, nil
}

// Children returns the map children of v, or nil when v is not a map.
func Children(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// flatten writes every leaf of v into out, keyed by its absolute path.
func flatten(path string, v any, out map[string]any) error {
	m, ok := v.(map[string]any)
	if !ok {
		if v != nil {
			out[path] = v
		}
		return nil
	}
	for k, child := range m {
		if err := ValidateKey(k); err != nil {
			return err
		}
		if err := flatten(joinCanonical(path, k), child, out); err != nil {
			return err
		}
	}
	return nil
}

// assemble rebuilds the subtree at base from a set of absolute leaf paths.
func assemble(base string, leaves map[string]any) any {
	if v, ok := leaves[base]; ok {
		return v
	}
	var root map[string]any
	prefix := ""
	if base != "" {
		prefix = base + "/"
	}
	for p, v := range leaves {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rel := strings.Split(strings.TrimPrefix(p, prefix), "/")
		if root == nil {
			root = map[string]any{}
		}
		node := root
		for _, seg := range rel[:len(rel)-1] {
			next, ok := node[seg].(map[string]any)
			if !ok {
				next = map[string]any{}
				node[seg] = next
			}
			node = next
		}
		node[rel[len(rel)-1]] = v
	}
	if root == nil {
		return nil
	}
	return root
}

func joinCanonical(base, key string) string {
	if base == "" {
		return key
	}
	return base + "/" + key
}

// ancestors returns the canonical paths strictly above p, nearest last.
func ancestors(segs []string) []string {
	out := make([]string, 0, len(segs))
	for i := 1; i < len(segs); i++ {
		out = append(out, canonical(segs[:i]))
	}
	return out
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, c := range t {
			m[k] = deepCopy(c)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, c := range t {
			s[i] = deepCopy(c)
		}
		return s
	default:
		return v
	}
}
