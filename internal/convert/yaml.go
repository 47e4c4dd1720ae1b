// Package convert renders materialised documents in other formats.
package convert

import (
	"fmt"
	"math"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/encjson/internal/tree"
)

// ToYAML renders v as YAML, keeping object member order.
func ToYAML(v any) ([]byte, error) {
	out, err := yaml.Marshal(toYAMLValue(v))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return out, nil
}

func toYAMLValue(v any) any {
	switch v := v.(type) {
	case tree.Object:
		m := make(yaml.MapSlice, 0, len(v))
		for _, member := range v {
			m = append(m, yaml.MapItem{Key: member.Name, Value: toYAMLValue(member.Value)})
		}
		return m
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = toYAMLValue(e)
		}
		return out
	default:
		return v
	}
}

// FromYAML decodes a YAML document into the materialised form, with mappings
// as Objects in document order. The top level must be a mapping.
func FromYAML(data []byte) (tree.Object, error) {
	var m yaml.MapSlice
	if err := yaml.UnmarshalWithOptions(data, &m, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	o, ok := fromYAMLValue(m).(tree.Object)
	if !ok {
		return nil, fmt.Errorf("failed to parse YAML: top level is not a mapping")
	}
	return o, nil
}

func fromYAMLValue(v any) any {
	switch v := v.(type) {
	case yaml.MapSlice:
		o := make(tree.Object, 0, len(v))
		for _, item := range v {
			o = append(o, tree.Member{Name: fmt.Sprint(item.Key), Value: fromYAMLValue(item.Value)})
		}
		return o
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = fromYAMLValue(e)
		}
		return out
	case int:
		return int64(v)
	case uint64:
		if v > math.MaxInt64 {
			return float64(v)
		}
		return int64(v)
	case float32:
		return float64(v)
	default:
		return v
	}
}
