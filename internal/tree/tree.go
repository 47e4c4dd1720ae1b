// Package tree materialises a parsed document into Go values.
//
// Objects keep member order as an Object; arrays become []any sized from the
// count reported with BeginArray; scalars become nil, bool, int64, float64 or
// string. Strings are copied out of the parse buffer.
package tree

import (
	"errors"

	"github.com/jacoelho/encjson/internal/alloc"
	"github.com/jacoelho/encjson/internal/parser"
	"github.com/jacoelho/encjson/internal/result"
)

var ErrIncomplete = errors.New("document is incomplete")

// Member is a named object member.
type Member struct {
	Name  string
	Value any
}

// Object is an object in document order. Duplicate names are kept.
type Object []Member

// Get returns the value of the last member called name.
func (o Object) Get(name string) (any, bool) {
	for i := len(o) - 1; i >= 0; i-- {
		if o[i].Name == name {
			return o[i].Value, true
		}
	}
	return nil, false
}

type frame struct {
	object Object
	array  []any
	name   string
	isList bool
}

// Builder is a parser.Callback that assembles the document.
type Builder struct {
	frames []frame
	root   Object
	closed bool
}

// Callback implements parser.Callback.
func (b *Builder) Callback(_ *parser.Parser, reason parser.Reason, v parser.Value) error {
	switch reason {
	case parser.ReasonBeginObject:
		b.frames = append(b.frames, frame{object: Object{}})
	case parser.ReasonBeginArray:
		b.frames = append(b.frames, frame{array: make([]any, 0, v.Integer), isList: true})
	case parser.ReasonName:
		b.top().name = string(v.String)
	case parser.ReasonValue:
		b.add(scalar(v))
	case parser.ReasonEndObject, parser.ReasonEndArray:
		f := b.frames[len(b.frames)-1]
		b.frames = b.frames[:len(b.frames)-1]

		if len(b.frames) == 0 {
			b.root = f.object
			b.closed = true
			return nil
		}
		if f.isList {
			b.add(f.array)
		} else {
			b.add(f.object)
		}
	}
	return nil
}

// Document returns the materialised top level object.
func (b *Builder) Document() (Object, error) {
	if !b.closed {
		return nil, ErrIncomplete
	}
	return b.root, nil
}

func (b *Builder) top() *frame {
	return &b.frames[len(b.frames)-1]
}

func (b *Builder) add(v any) {
	f := b.top()
	if f.isList {
		f.array = append(f.array, v)
		return
	}
	f.object = append(f.object, Member{Name: f.name, Value: v})
}

func scalar(v parser.Value) any {
	switch v.Type {
	case parser.TypeBoolean:
		return v.Boolean
	case parser.TypeInteger:
		return v.Integer
	case parser.TypeReal:
		return v.Real
	case parser.TypeString:
		return string(v.String)
	default:
		return nil
	}
}

// Parse materialises data, which is left untouched: the parse runs over a
// copy obtained from a.
func Parse(data []byte, a alloc.Allocator, opts *parser.Options) (Object, error) {
	if len(data) == 0 || a == nil {
		return nil, result.BadParameter
	}

	buf := a.Alloc(len(data))
	if buf == nil {
		return nil, result.OutOfMemory
	}
	defer a.Free(buf)
	copy(buf, data)

	var b Builder
	p, err := parser.New(buf[:len(data)], b.Callback, a, opts)
	if err != nil {
		return nil, err
	}
	if err := p.Parse(); err != nil {
		return nil, err
	}

	return b.Document()
}

// ToAny converts Objects into map[string]any, recursively, giving the shape
// produced by encoding/json. Later duplicate members win.
func ToAny(v any) any {
	switch v := v.(type) {
	case Object:
		m := make(map[string]any, len(v))
		for _, member := range v {
			m[member.Name] = ToAny(member.Value)
		}
		return m
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = ToAny(e)
		}
		return out
	default:
		return v
	}
}
