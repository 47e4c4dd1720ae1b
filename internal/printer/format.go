// Package printer renders parse events and values back to JSON text.
package printer

import (
	"bytes"
	"io"
	"math"
	"strconv"

	"github.com/jacoelho/encjson/internal/parser"
	"github.com/jacoelho/encjson/internal/text"
)

// fracDigits is the precision of the fractional part of reals.
const fracDigits = 10

const minInt64 = "-9223372036854775808"

// AppendInt appends the decimal form of x.
func AppendInt(dst []byte, x int64) []byte {
	if x == math.MinInt64 {
		return append(dst, minInt64...)
	}

	var buf [20]byte
	i := len(buf)

	neg := x < 0
	if neg {
		x = -x
	}

	for {
		i--
		buf[i] = byte('0' + x%10)
		x /= 10
		if x == 0 {
			break
		}
	}

	if neg {
		dst = append(dst, '-')
	}
	return append(dst, buf[i:]...)
}

// AppendReal appends x as "whole.fraction" using the shortest decimal form
// of x, truncated to ten fractional digits with trailing zeros removed.
// Exponent notation is never used and a fraction of zero prints as ".0".
// NaN and infinities print as null.
func AppendReal(dst []byte, x float64) []byte {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return append(dst, "null"...)
	}

	start := len(dst)
	dst = strconv.AppendFloat(dst, x, 'f', -1, 64)

	dot := bytes.IndexByte(dst[start:], '.')
	if dot < 0 {
		return append(dst, ".0"...)
	}
	dot += start

	dst = dst[:min(len(dst), dot+1+fracDigits)]
	for len(dst) > dot+1 && dst[len(dst)-1] == '0' {
		dst = dst[:len(dst)-1]
	}
	if len(dst) == dot+1 {
		dst = append(dst, '0')
	}
	return dst
}

const hexDigits = "0123456789ABCDEF"

// AppendString appends s as a quoted JSON string. The escapes mirror the ones
// accepted by the parser; '/' is always escaped and bytes outside printable
// ASCII become \u00XX.
func AppendString(dst []byte, s []byte) []byte {
	dst = append(dst, '"')

	for _, c := range s {
		switch c {
		case '"':
			dst = append(dst, '\\', '"')
		case '\\':
			dst = append(dst, '\\', '\\')
		case '/':
			dst = append(dst, '\\', '/')
		case '\b':
			dst = append(dst, '\\', 'b')
		case '\f':
			dst = append(dst, '\\', 'f')
		case '\n':
			dst = append(dst, '\\', 'n')
		case '\r':
			dst = append(dst, '\\', 'r')
		case '\t':
			dst = append(dst, '\\', 't')
		default:
			if text.IsPrint(c) {
				dst = append(dst, c)
				continue
			}
			dst = append(dst, '\\', 'u', '0', '0', hexDigits[c>>4], hexDigits[c&0x0f])
		}
	}

	return append(dst, '"')
}

// AppendValue appends the JSON form of a scalar value.
func AppendValue(dst []byte, v parser.Value) []byte {
	switch v.Type {
	case parser.TypeNull:
		return append(dst, "null"...)
	case parser.TypeBoolean:
		if v.Boolean {
			return append(dst, "true"...)
		}
		return append(dst, "false"...)
	case parser.TypeInteger:
		return AppendInt(dst, v.Integer)
	case parser.TypeReal:
		return AppendReal(dst, v.Real)
	case parser.TypeString:
		return AppendString(dst, v.String)
	default:
		return dst
	}
}

// PrintValue writes the JSON form of a scalar value.
func PrintValue(w io.Writer, v parser.Value) error {
	var buf [64]byte
	_, err := w.Write(AppendValue(buf[:0], v))
	return err
}
