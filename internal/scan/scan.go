// Package scan implements the lexical layer of the JSON core: whitespace and
// line comments, string literals with in-place unescaping, and numbers.
//
// A Cursor reads a caller-owned, writable buffer. Only String writes to it;
// every other method, and every method on a copy used for lookahead, is
// read-only.
package scan

import (
	"errors"
	"strconv"

	"github.com/jacoelho/encjson/internal/result"
	"github.com/jacoelho/encjson/internal/text"
)

// Cursor is a read position inside a buffer. pos stays within 0..len(buf).
type Cursor struct {
	buf []byte
	pos int
}

func New(buf []byte) Cursor {
	return Cursor{buf: buf}
}

func (c *Cursor) Pos() int {
	return c.pos
}

// Buffer returns the whole underlying buffer.
func (c *Cursor) Buffer() []byte {
	return c.buf
}

func (c *Cursor) EOF() bool {
	return c.pos >= len(c.buf)
}

// Peek returns the byte under the cursor without consuming it.
func (c *Cursor) Peek() (byte, bool) {
	if c.pos >= len(c.buf) {
		return 0, false
	}
	return c.buf[c.pos], true
}

// Next consumes one byte.
func (c *Cursor) Next() (byte, error) {
	if c.pos >= len(c.buf) {
		return 0, result.EOF
	}
	ch := c.buf[c.pos]
	c.pos++
	return ch, nil
}

// Back steps over the byte just consumed by Next.
func (c *Cursor) Back() {
	if c.pos > 0 {
		c.pos--
	}
}

// Expect consumes lit if the input continues with it.
func (c *Cursor) Expect(lit string) bool {
	if len(c.buf)-c.pos < len(lit) || string(c.buf[c.pos:c.pos+len(lit)]) != lit {
		return false
	}
	c.pos += len(lit)
	return true
}

// SkipSpace advances past whitespace and "//" comments. A comment runs to the
// end of the line. With allow unset any whitespace or comment is BadSyntax.
func (c *Cursor) SkipSpace(allow bool) error {
	for {
		for c.pos < len(c.buf) && text.IsSpace(c.buf[c.pos]) {
			if !allow {
				return result.BadSyntax
			}
			c.pos++
		}

		if len(c.buf)-c.pos < 2 || c.buf[c.pos] != '/' || c.buf[c.pos+1] != '/' {
			return nil
		}
		if !allow {
			return result.BadSyntax
		}

		for c.pos < len(c.buf) && c.buf[c.pos] != '\n' && c.buf[c.pos] != '\r' {
			c.pos++
		}
	}
}

// FindString locates the closing quote of the string literal starting at the
// cursor (the opening quote already consumed). It does not move the cursor
// and never writes to the buffer.
func (c *Cursor) FindString() (end int, escaped bool, err error) {
	p := c.pos

	for p < len(c.buf) && c.buf[p] != '"' {
		if c.buf[p] != '\\' {
			p++
			continue
		}

		escaped = true
		p++
		if p == len(c.buf) {
			return 0, false, result.EOF
		}

		if c.buf[p] != 'u' {
			p++
			continue
		}

		if len(c.buf)-p-1 < 4 {
			return 0, false, result.EOF
		}
		if _, ok := text.Hex4(c.buf[p+1:]); !ok {
			return 0, false, result.BadSyntax
		}
		p += 5
	}

	if p >= len(c.buf) {
		return 0, false, result.EOF
	}

	return p, escaped, nil
}

// SkipString consumes a string literal without touching the buffer.
func (c *Cursor) SkipString() error {
	end, _, err := c.FindString()
	if err != nil {
		return err
	}
	c.pos = end + 1
	return nil
}

// String consumes a string literal and decodes it in place. The closing quote
// is overwritten with NUL, escapes are collapsed towards the start of the
// literal and the returned slice aliases the buffer.
func (c *Cursor) String() ([]byte, error) {
	start := c.pos

	end, escaped, err := c.FindString()
	if err != nil {
		return nil, err
	}

	c.pos = end + 1
	c.buf[end] = 0

	s := c.buf[start:end]
	if !escaped {
		return s[:len(s):len(s)], nil
	}

	n, err := Unescape(s)
	if err != nil {
		return nil, err
	}
	if n < len(s) {
		s[n] = 0
	}

	return s[:n:n], nil
}

// Unescape decodes the escape sequences of s in place and returns the decoded
// length. The write position never passes the read position, so the pass is
// linear in len(s). \uXXXX is limited to code points below 256.
func Unescape(s []byte) (int, error) {
	w := 0
	r := 0

	for r < len(s) {
		ch := s[r]
		if ch != '\\' {
			s[w] = ch
			w++
			r++
			continue
		}

		r++
		if r == len(s) {
			return 0, result.EOF
		}

		switch s[r] {
		case '"', '\\', '/':
			s[w] = s[r]
		case 'b':
			s[w] = '\b'
		case 'f':
			s[w] = '\f'
		case 'n':
			s[w] = '\n'
		case 'r':
			s[w] = '\r'
		case 't':
			s[w] = '\t'
		case 'u':
			if len(s)-r-1 < 4 {
				return 0, result.EOF
			}
			x, ok := text.Hex4(s[r+1:])
			if !ok {
				return 0, result.BadSyntax
			}
			// No UTF-8 encoding: one byte per character.
			if x >= 256 {
				return 0, result.Unsupported
			}
			s[w] = byte(x)
			w++
			r += 5
			continue
		default:
			return 0, result.Failed
		}

		w++
		r++
	}

	return w, nil
}

// Number is a scanned numeric token.
type Number struct {
	Integer bool
	Int     int64
	Real    float64
}

// Number consumes the longest run of number characters and converts it.
// The conversion must use the whole run.
func (c *Cursor) Number() (Number, error) {
	start := c.pos
	integer := true

	p := start
	for p < len(c.buf) && text.IsNumberChar(c.buf[p]) {
		if text.IsDecimalOrExponent(c.buf[p]) {
			integer = false
		}
		p++
	}

	span := string(c.buf[start:p])
	if span == "" {
		return Number{}, result.BadSyntax
	}

	var n Number
	if integer {
		v, err := strconv.ParseInt(span, 10, 64)
		if err != nil {
			return Number{}, numberError(err)
		}
		n = Number{Integer: true, Int: v}
	} else {
		v, err := strconv.ParseFloat(span, 64)
		if err != nil {
			return Number{}, numberError(err)
		}
		n = Number{Real: v}
	}

	c.pos = p
	return n, nil
}

func numberError(err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return result.OutOfBounds
	}
	return result.BadSyntax
}
