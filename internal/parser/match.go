package parser

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/jacoelho/encjson/internal/result"
	"github.com/jacoelho/encjson/internal/text"
)

// Patterns shorter than this are split on the stack.
const inlinePattern = 256

// Match compares the current path with pattern, a '.' separated list of
// names. A "#" segment matches any level whose name is an unsigned integer
// and is a TypeMismatch otherwise; numeric object member names are therefore
// indistinguishable from array indexes. The whole path must match: it
// returns nil on a match and result.NoMatch otherwise.
func (p *Parser) Match(pattern string) error {
	if p == nil || p.path == nil {
		return result.BadParameter
	}

	var inline [inlinePattern]byte
	var buf []byte

	if len(pattern) < len(inline) {
		buf = inline[:len(pattern)+1]
	} else {
		scratch := p.alloc.Alloc(len(pattern) + 1)
		if scratch == nil {
			return p.raise(result.OutOfMemory)
		}
		defer p.alloc.Free(scratch)
		buf = scratch
	}

	if text.Copy(buf, pattern) >= len(buf) {
		return p.raise(result.BufferOverflow)
	}

	segs, ok := text.Split(buf[:len(pattern)], '.', p.path.Limit())
	if !ok {
		return p.raise(result.NestingOverflow)
	}

	if len(segs) != p.path.Len() {
		return result.NoMatch
	}

	var name [24]byte
	for i, seg := range segs {
		e := p.path.At(i)

		if len(seg) == 1 && seg[0] == '#' {
			if !e.Numeric() {
				return p.raise(result.TypeMismatch)
			}
			continue
		}

		if !bytes.Equal(seg, e.AppendName(name[:0])) {
			return result.NoMatch
		}
	}

	return nil
}

// Matches is Match reduced to a boolean; errors count as no match.
func (p *Parser) Matches(pattern string) bool {
	return p.Match(pattern) == nil
}

// ArrayIndex returns the index of the array element that encloses the
// current container, i.e. the level two steps above the innermost one.
func (p *Parser) ArrayIndex() (int, bool) {
	if p.path.Len() < 2 {
		return 0, false
	}

	e := p.path.At(p.path.Len() - 2)
	if !e.Array {
		return 0, false
	}
	return e.Index, true
}

// Path renders the current path as dotted names.
func (p *Parser) Path() string {
	var b strings.Builder
	for i, e := range p.path.Items() {
		if i > 0 {
			b.WriteByte('.')
		}
		b.Write(e.AppendName(nil))
	}
	return b.String()
}

// Pattern renders the current path with "#" in place of array indexes, in
// the form accepted by Match.
func (p *Parser) Pattern() string {
	var b strings.Builder
	for i, e := range p.path.Items() {
		if i > 0 {
			b.WriteByte('.')
		}
		if e.Array {
			b.WriteByte('#')
			continue
		}
		b.Write(e.name)
	}
	return b.String()
}

// DumpPath writes the current path followed by a newline. Levels holding an
// array are suffixed with its size, e.g. "users[3].0.name".
func (p *Parser) DumpPath(w io.Writer) error {
	var line []byte
	for i, e := range p.path.Items() {
		if i > 0 {
			line = append(line, '.')
		}
		line = e.AppendName(line)
		if e.Size != 0 {
			line = append(line, '[')
			line = strconv.AppendInt(line, int64(e.Size), 10)
			line = append(line, ']')
		}
	}
	line = append(line, '\n')

	_, err := w.Write(line)
	return err
}
