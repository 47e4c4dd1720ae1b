package tree

import (
	"errors"
	"fmt"
	"slices"

	"github.com/jacoelho/encjson/internal/printer"
)

var ErrUnsupportedType = errors.New("unsupported value type")

// AppendJSON appends the compact JSON form of a materialised value, with the
// number and string formatting of the printer. Map keys are sorted.
func AppendJSON(dst []byte, v any) ([]byte, error) {
	switch v := v.(type) {
	case nil:
		return append(dst, "null"...), nil
	case bool:
		if v {
			return append(dst, "true"...), nil
		}
		return append(dst, "false"...), nil
	case int64:
		return printer.AppendInt(dst, v), nil
	case int:
		return printer.AppendInt(dst, int64(v)), nil
	case float64:
		return printer.AppendReal(dst, v), nil
	case string:
		return printer.AppendString(dst, []byte(v)), nil
	case Object:
		dst = append(dst, '{')
		for i, m := range v {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = printer.AppendString(dst, []byte(m.Name))
			dst = append(dst, ':')

			var err error
			if dst, err = AppendJSON(dst, m.Value); err != nil {
				return nil, err
			}
		}
		return append(dst, '}'), nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		slices.Sort(keys)

		dst = append(dst, '{')
		for i, k := range keys {
			if i > 0 {
				dst = append(dst, ',')
			}
			dst = printer.AppendString(dst, []byte(k))
			dst = append(dst, ':')

			var err error
			if dst, err = AppendJSON(dst, v[k]); err != nil {
				return nil, err
			}
		}
		return append(dst, '}'), nil
	case []any:
		dst = append(dst, '[')
		for i, e := range v {
			if i > 0 {
				dst = append(dst, ',')
			}

			var err error
			if dst, err = AppendJSON(dst, e); err != nil {
				return nil, err
			}
		}
		return append(dst, ']'), nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}
