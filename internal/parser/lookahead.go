package parser

import (
	"github.com/jacoelho/encjson/internal/result"
	"github.com/jacoelho/encjson/internal/scan"
)

// arraySize counts the elements of the array under the cursor without
// reporting events, moving the parser cursor or decoding strings. The stack of
// open container kinds used while skipping nested values is scratch memory
// from the allocator, released before the real pass starts.
func (p *Parser) arraySize() (int, error) {
	// Levels left for containers nested inside the elements.
	room := max(p.path.Limit()-p.path.Len()-1, 0)

	scratch := p.alloc.Alloc(room + 1)
	if scratch == nil {
		return 0, p.raise(result.OutOfMemory)
	}
	defer p.alloc.Free(scratch)

	la := lookahead{
		cur:   p.cur,
		allow: p.opts.AllowWhitespace,
		kinds: scratch[:room],
	}

	n, err := la.countArray()
	if err != nil {
		return 0, p.check(err)
	}
	return n, nil
}

// lookahead works on a copy of the cursor. It only reads the shared buffer.
type lookahead struct {
	cur   scan.Cursor
	allow bool
	kinds []byte
	depth int
}

func (l *lookahead) countArray() (int, error) {
	if err := l.cur.SkipSpace(l.allow); err != nil {
		return 0, err
	}
	if c, ok := l.cur.Peek(); ok && c == ']' {
		return 0, nil
	}

	n := 0
	for {
		if err := l.skipValue(); err != nil {
			return 0, err
		}
		n++

		if err := l.cur.SkipSpace(l.allow); err != nil {
			return 0, err
		}

		c, err := l.cur.Next()
		if err != nil {
			return 0, err
		}

		switch c {
		case ',':
		case ']':
			return n, nil
		default:
			return 0, result.BadSyntax
		}
	}
}

const (
	laValue = iota
	laAfter
	laMemberOrClose
	laMember
	laElementOrClose
)

// skipValue steps over one complete value, nested containers included.
func (l *lookahead) skipValue() error {
	l.depth = 0
	state := laValue

	for {
		if state == laAfter && l.depth == 0 {
			return nil
		}

		if err := l.cur.SkipSpace(l.allow); err != nil {
			return err
		}

		c, err := l.cur.Next()
		if err != nil {
			return err
		}

		switch state {
		case laValue:
			state, err = l.scalarOrOpen(c)
			if err != nil {
				return err
			}

		case laMemberOrClose, laMember:
			if c == '}' && state == laMemberOrClose {
				l.depth--
				state = laAfter
				continue
			}
			if c != '"' {
				return result.BadSyntax
			}
			if err := l.cur.SkipString(); err != nil {
				return err
			}
			if err := l.cur.SkipSpace(l.allow); err != nil {
				return err
			}
			if c, err := l.cur.Next(); err != nil {
				return err
			} else if c != ':' {
				return result.BadSyntax
			}
			state = laValue

		case laElementOrClose:
			if c == ']' {
				l.depth--
				state = laAfter
				continue
			}
			l.cur.Back()
			state = laValue

		case laAfter:
			open := l.kinds[l.depth-1]
			switch {
			case c == ',' && open == '{':
				state = laMember
			case c == ',' && open == '[':
				state = laValue
			case c == '}' && open == '{', c == ']' && open == '[':
				l.depth--
			default:
				return result.BadSyntax
			}
		}
	}
}

func (l *lookahead) scalarOrOpen(c byte) (int, error) {
	switch lower(c) {
	case '{', '[':
		if l.depth == len(l.kinds) {
			return 0, result.NestingOverflow
		}
		l.kinds[l.depth] = c
		l.depth++
		if c == '{' {
			return laMemberOrClose, nil
		}
		return laElementOrClose, nil
	case 'f':
		if !l.cur.Expect("alse") {
			return 0, result.BadSyntax
		}
	case 'n':
		if !l.cur.Expect("ull") {
			return 0, result.BadSyntax
		}
	case 't':
		if !l.cur.Expect("rue") {
			return 0, result.BadSyntax
		}
	case '"':
		if err := l.cur.SkipString(); err != nil {
			return 0, err
		}
	default:
		l.cur.Back()
		if _, err := l.cur.Number(); err != nil {
			return 0, err
		}
	}
	return laAfter, nil
}
