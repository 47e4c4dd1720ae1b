// Package parser implements a callback driven JSON parser over a caller-owned
// writable buffer.
//
// Parse walks the document once, decoding strings in place, and reports every
// grammar boundary to a Callback together with the current structural path.
// Callbacks can call Match to test that path against a dotted pattern.
// Before the elements of an array are reported, a read-only lookahead counts
// them so that BeginArray carries the array size.
package parser

import (
	"errors"
	"math"
	"strconv"

	"github.com/jacoelho/encjson/internal/alloc"
	"github.com/jacoelho/encjson/internal/result"
	"github.com/jacoelho/encjson/internal/scan"
	"github.com/jacoelho/encjson/internal/stack"
	"github.com/jacoelho/encjson/internal/text"
)

// MaxNesting is the default bound on open objects and arrays.
const MaxNesting = 64

// NotANumber marks an element whose name is not an unsigned integer.
const NotANumber = math.MaxUint64

// ErrStop can be returned by a Callback to end parsing early.
// Parse then returns nil.
var ErrStop = errors.New("parser: stop")

// Reason identifies the event reported to a Callback.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonBeginObject
	ReasonEndObject
	ReasonBeginArray
	ReasonEndArray
	ReasonName
	ReasonValue
)

func (r Reason) String() string {
	switch r {
	case ReasonBeginObject:
		return "BeginObject"
	case ReasonEndObject:
		return "EndObject"
	case ReasonBeginArray:
		return "BeginArray"
	case ReasonEndArray:
		return "EndArray"
	case ReasonName:
		return "Name"
	case ReasonValue:
		return "Value"
	default:
		return "None"
	}
}

// Type is the kind of scalar held by a Value.
type Type uint8

const (
	TypeNull Type = iota
	TypeBoolean
	TypeInteger
	TypeReal
	TypeString
)

func (t Type) String() string {
	switch t {
	case TypeNull:
		return "null"
	case TypeBoolean:
		return "boolean"
	case TypeInteger:
		return "integer"
	case TypeReal:
		return "real"
	case TypeString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is the payload of an event. String holds the decoded bytes of a
// string literal and aliases the parser buffer: it stays valid only as long
// as that buffer is neither freed nor reused.
type Value struct {
	Type    Type
	Boolean bool
	Integer int64
	Real    float64
	String  []byte
}

func NullValue() Value { return Value{Type: TypeNull} }
func BoolValue(b bool) Value { return Value{Type: TypeBoolean, Boolean: b} }
func IntValue(i int64) Value { return Value{Type: TypeInteger, Integer: i} }
func RealValue(f float64) Value { return Value{Type: TypeReal, Real: f} }
func StringValue(s []byte) Value { return Value{Type: TypeString, String: s} }

// Element is one level of the structural path. Object levels carry the name
// of the current member; array levels carry the index of the current element
// and use its decimal form as their name.
type Element struct {
	name []byte

	// Number is the name parsed as an unsigned integer, or NotANumber.
	Number uint64
	// Index is the position of the current element on array levels.
	Index int
	// Size is the length of the array held by the current member or element,
	// when that value is an array.
	Size int
	// Array is set on levels that hold array elements.
	Array bool
}

// Name returns the element name.
func (e *Element) Name() string {
	if e.Array {
		return strconv.Itoa(e.Index)
	}
	return string(e.name)
}

// AppendName appends the element name to dst.
func (e *Element) AppendName(dst []byte) []byte {
	if e.Array {
		return strconv.AppendInt(dst, int64(e.Index), 10)
	}
	return append(dst, e.name...)
}

// Numeric reports whether the name is an unsigned integer.
func (e *Element) Numeric() bool {
	return e.Array || e.Number != NotANumber
}

// Callback receives parse events. Returning an error aborts Parse with that
// error, except ErrStop which ends parsing successfully.
type Callback func(p *Parser, reason Reason, v Value) error

// Options tune a Parser.
type Options struct {
	// AllowWhitespace permits whitespace between tokens. When unset any
	// whitespace outside a string is a syntax error.
	AllowWhitespace bool
	// MaxNesting bounds open objects and arrays; <= 0 selects MaxNesting.
	MaxNesting int
	// Trace, when set, is called for every raised or propagated result.
	Trace TraceFunc
}

// DefaultOptions returns the options used when Init receives nil.
func DefaultOptions() *Options {
	return &Options{
		AllowWhitespace: true,
		MaxNesting:      MaxNesting,
	}
}

// Parser holds the state of one parse. It is not safe for concurrent use;
// run one Parser per goroutine, each over its own buffer.
type Parser struct {
	cur      scan.Cursor
	path     *stack.Stack[Element]
	callback Callback
	alloc    alloc.Allocator
	opts     Options
}

// Init prepares p to parse buf. The buffer is modified in place by Parse.
func Init(p *Parser, buf []byte, cb Callback, a alloc.Allocator, opts *Options) error {
	if p == nil || len(buf) == 0 || cb == nil || a == nil {
		return result.BadParameter
	}

	if opts == nil {
		opts = DefaultOptions()
	}

	*p = Parser{
		cur:      scan.New(buf),
		callback: cb,
		alloc:    a,
		opts:     *opts,
	}
	if p.opts.MaxNesting <= 0 {
		p.opts.MaxNesting = MaxNesting
	}
	p.path = stack.NewBounded[Element](p.opts.MaxNesting)

	return nil
}

// New allocates and initialises a Parser.
func New(buf []byte, cb Callback, a alloc.Allocator, opts *Options) (*Parser, error) {
	p := &Parser{}
	if err := Init(p, buf, cb, a, opts); err != nil {
		return nil, err
	}
	return p, nil
}

// Parse parses the document. The top level must be a single object. The
// first failure aborts the parse and is returned unchanged.
func (p *Parser) Parse() error {
	if p == nil || p.path == nil {
		return result.BadParameter
	}

	err := p.document()
	if errors.Is(err, ErrStop) {
		return nil
	}
	return err
}

func (p *Parser) document() error {
	if err := p.space(); err != nil {
		return p.check(err)
	}

	c, err := p.cur.Next()
	if err != nil {
		return p.check(err)
	}
	if c != '{' {
		return p.raise(result.BadSyntax)
	}

	if err := p.object(); err != nil {
		return p.check(err)
	}

	if err := p.space(); err != nil {
		return p.check(err)
	}
	if !p.cur.EOF() {
		return p.raise(result.BadSyntax)
	}

	return nil
}

// Depth returns the number of open containers.
func (p *Parser) Depth() int {
	return p.path.Len()
}

// Element returns the path element at level i, 0 being the outermost.
func (p *Parser) Element(i int) (Element, bool) {
	e := p.path.At(i)
	if e == nil {
		return Element{}, false
	}
	return *e, true
}

// Offset returns the cursor position in the buffer.
func (p *Parser) Offset() int {
	return p.cur.Pos()
}

// Options returns the effective options.
func (p *Parser) Options() Options {
	return p.opts
}

func (p *Parser) space() error {
	return p.cur.SkipSpace(p.opts.AllowWhitespace)
}

func (p *Parser) emit(reason Reason, v Value) error {
	return p.callback(p, reason, v)
}

func (p *Parser) push(e Element) error {
	if err := p.path.Push(e); err != nil {
		return p.raise(result.NestingOverflow)
	}
	return nil
}

func (p *Parser) pop() error {
	if _, ok := p.path.Pop(); !ok {
		return p.raise(result.NestingUnderflow)
	}
	return nil
}

func numberOf(name []byte) uint64 {
	if n, ok := text.ParseUint(name); ok {
		return n
	}
	return NotANumber
}
