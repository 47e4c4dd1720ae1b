package parser

import (
	"github.com/jacoelho/encjson/internal/result"
)

const (
	wantMemberOrClose = iota
	wantComma
	wantMember
)

// object parses the members of an object whose '{' has been consumed.
// BeginObject and EndObject are reported with the path of the object itself.
func (p *Parser) object() error {
	if err := p.emit(ReasonBeginObject, NullValue()); err != nil {
		return p.check(err)
	}

	if err := p.push(Element{Number: NotANumber}); err != nil {
		return err
	}

	state := wantMemberOrClose
	for {
		if err := p.space(); err != nil {
			return p.check(err)
		}

		c, err := p.cur.Next()
		if err != nil {
			return p.check(err)
		}

		switch {
		case c == '"' && state != wantComma:
			if err := p.member(); err != nil {
				return p.check(err)
			}
			state = wantComma
		case c == ',' && state == wantComma:
			state = wantMember
		case c == '}' && state != wantMember:
			if err := p.pop(); err != nil {
				return err
			}
			if err := p.emit(ReasonEndObject, NullValue()); err != nil {
				return p.check(err)
			}
			return nil
		default:
			return p.raise(result.BadSyntax)
		}
	}
}

// member parses `name: value` once the opening quote of the name is consumed.
func (p *Parser) member() error {
	name, err := p.cur.String()
	if err != nil {
		return p.check(err)
	}

	*p.path.Top() = Element{name: name, Number: numberOf(name)}

	if err := p.emit(ReasonName, StringValue(name)); err != nil {
		return p.check(err)
	}

	if err := p.space(); err != nil {
		return p.check(err)
	}

	c, err := p.cur.Next()
	if err != nil {
		return p.check(err)
	}
	if c != ':' {
		return p.raise(result.BadSyntax)
	}

	return p.value()
}

// array parses the elements of an array whose '[' has been consumed.
// The element count is known before BeginArray is reported.
func (p *Parser) array() error {
	if p.path.Len() >= p.path.Limit() {
		return p.raise(result.NestingOverflow)
	}

	size, err := p.arraySize()
	if err != nil {
		return p.check(err)
	}

	if top := p.path.Top(); top != nil {
		top.Size = size
	}

	if err := p.emit(ReasonBeginArray, IntValue(int64(size))); err != nil {
		return p.check(err)
	}

	if err := p.push(Element{Array: true}); err != nil {
		return err
	}

	index := 0
	state := wantMemberOrClose
	for {
		if err := p.space(); err != nil {
			return p.check(err)
		}

		c, err := p.cur.Next()
		if err != nil {
			return p.check(err)
		}

		switch {
		case c == ']' && state != wantMember:
			if err := p.pop(); err != nil {
				return err
			}
			if err := p.emit(ReasonEndArray, IntValue(int64(size))); err != nil {
				return p.check(err)
			}
			return nil
		case c == ',' && state == wantComma:
			state = wantMember
		case state == wantComma:
			return p.raise(result.BadSyntax)
		default:
			p.cur.Back()

			*p.path.Top() = Element{Array: true, Index: index, Number: uint64(index)}
			index++

			if err := p.value(); err != nil {
				return p.check(err)
			}
			state = wantComma
		}
	}
}

// value parses: false / null / true / object / array / number / string.
func (p *Parser) value() error {
	if err := p.space(); err != nil {
		return p.check(err)
	}

	c, err := p.cur.Next()
	if err != nil {
		return p.check(err)
	}

	switch lower(c) {
	case 'f':
		if !p.cur.Expect("alse") {
			return p.raise(result.BadSyntax)
		}
		return p.check(p.emit(ReasonValue, BoolValue(false)))
	case 'n':
		if !p.cur.Expect("ull") {
			return p.raise(result.BadSyntax)
		}
		return p.check(p.emit(ReasonValue, NullValue()))
	case 't':
		if !p.cur.Expect("rue") {
			return p.raise(result.BadSyntax)
		}
		return p.check(p.emit(ReasonValue, BoolValue(true)))
	case '{':
		return p.check(p.object())
	case '[':
		return p.check(p.array())
	case '"':
		s, err := p.cur.String()
		if err != nil {
			return p.check(err)
		}
		return p.check(p.emit(ReasonValue, StringValue(s)))
	default:
		p.cur.Back()

		n, err := p.cur.Number()
		if err != nil {
			return p.check(err)
		}
		if n.Integer {
			return p.check(p.emit(ReasonValue, IntValue(n.Int)))
		}
		return p.check(p.emit(ReasonValue, RealValue(n.Real)))
	}
}

func lower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
