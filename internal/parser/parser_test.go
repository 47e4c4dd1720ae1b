package parser

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/jacoelho/encjson/internal/alloc"
	"github.com/jacoelho/encjson/internal/result"
)

// recorder collects events as readable strings.
type recorder struct {
	events []string
	paths  []string
}

func (r *recorder) callback(p *Parser, reason Reason, v Value) error {
	r.events = append(r.events, describe(reason, v))
	r.paths = append(r.paths, p.Path())
	return nil
}

func describe(reason Reason, v Value) string {
	switch reason {
	case ReasonName:
		return fmt.Sprintf("Name(%s)", v.String)
	case ReasonBeginArray:
		return fmt.Sprintf("BeginArray(%d)", v.Integer)
	case ReasonValue:
		switch v.Type {
		case TypeNull:
			return "Value(null)"
		case TypeBoolean:
			return fmt.Sprintf("Value(%t)", v.Boolean)
		case TypeInteger:
			return fmt.Sprintf("Value(%d)", v.Integer)
		case TypeReal:
			return fmt.Sprintf("Value(%g)", v.Real)
		case TypeString:
			return fmt.Sprintf("Value(%q)", v.String)
		}
	}
	return reason.String()
}

func parse(t *testing.T, input string, opts *Options) (*recorder, error) {
	t.Helper()

	r := &recorder{}
	p, err := New([]byte(input), r.callback, alloc.Heap(), opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return r, p.Parse()
}

func TestParse_Events(t *testing.T) {
	r, err := parse(t, `{"a":[1,2,3],"b":{"c":true}}`, nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []string{
		"BeginObject",
		"Name(a)",
		"BeginArray(3)",
		"Value(1)",
		"Value(2)",
		"Value(3)",
		"EndArray",
		"Name(b)",
		"BeginObject",
		"Name(c)",
		"Value(true)",
		"EndObject",
		"EndObject",
	}
	if !reflect.DeepEqual(r.events, want) {
		t.Errorf("Parse() events =\n%q\nwant\n%q", r.events, want)
	}

	wantPaths := []string{
		"",
		"a",
		"a",
		"a.0",
		"a.1",
		"a.2",
		"a",
		"b",
		"b",
		"b.c",
		"b.c",
		"b",
		"",
	}
	if !reflect.DeepEqual(r.paths, wantPaths) {
		t.Errorf("Parse() paths =\n%q\nwant\n%q", r.paths, wantPaths)
	}
}

func TestParse_ScalarValues(t *testing.T) {
	input := `{
		"null": null,
		"f": false,
		"t": true,
		"upper": False,
		"int": -42,
		"real": 1.5,
		"exp": 2e3,
		"str": "hello",
		"empty": ""
	}`

	r, err := parse(t, input, nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	var values []string
	for _, e := range r.events {
		if strings.HasPrefix(e, "Value(") {
			values = append(values, e)
		}
	}

	want := []string{
		"Value(null)",
		"Value(false)",
		"Value(true)",
		"Value(false)",
		"Value(-42)",
		"Value(1.5)",
		"Value(2000)",
		`Value("hello")`,
		`Value("")`,
	}
	if !reflect.DeepEqual(values, want) {
		t.Errorf("Parse() values = %q, want %q", values, want)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"top level array", `[1,2]`, result.BadSyntax},
		{"top level scalar", `42`, result.BadSyntax},
		{"empty input", `   `, result.EOF},
		{"unterminated object", `{"a":1`, result.EOF},
		{"unterminated string", `{"a":"abc`, result.EOF},
		{"missing colon", `{"a" 1}`, result.BadSyntax},
		{"missing comma", `{"a":1 "b":2}`, result.BadSyntax},
		{"trailing comma in object", `{"a":1,}`, result.BadSyntax},
		{"leading comma in object", `{,"a":1}`, result.BadSyntax},
		{"unquoted name", `{a:1}`, result.BadSyntax},
		{"trailing comma in array", `{"a":[1,]}`, result.BadSyntax},
		{"missing comma in array", `{"a":[1 2]}`, result.BadSyntax},
		{"leading comma in array", `{"a":[,1]}`, result.BadSyntax},
		{"bad literal", `{"a":nul}`, result.BadSyntax},
		{"bad true", `{"a":tru}`, result.BadSyntax},
		{"bad number", `{"a":1.2.3}`, result.BadSyntax},
		{"integer overflow", `{"a":9223372036854775808}`, result.OutOfBounds},
		{"trailing data", `{"a":1} x`, result.BadSyntax},
		{"second document", `{}{}`, result.BadSyntax},
		{"unsupported escape in value", `{"a":"\u0100"}`, result.Unsupported},
		{"unsupported escape in name", `{"\u0100":1}`, result.Unsupported},
		{"unknown escape", `{"a":"\q"}`, result.Failed},
		{"bad hex", `{"a":"\u00zz"}`, result.BadSyntax},
		{"unterminated array", `{"a":[1,2`, result.EOF},
		{"mismatched close", `{"a":[1}`, result.BadSyntax},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.input, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v (%s), want %v", err, result.Name(err), tt.wantErr)
			}
		})
	}
}

func TestParse_TrailingWhitespaceAndComments(t *testing.T) {
	input := "// config\n{\n  // name\n  \"a\": 1 // one\n}\n// done\n"

	r, err := parse(t, input, nil)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []string{"BeginObject", "Name(a)", "Value(1)", "EndObject"}
	if !reflect.DeepEqual(r.events, want) {
		t.Errorf("Parse() events = %q, want %q", r.events, want)
	}
}

func TestParse_StrictWhitespace(t *testing.T) {
	compact := `{"a":[1,2],"b":"x y"}`
	spaced := `{"a": [1, 2], "b": "x y"}`
	strict := &Options{AllowWhitespace: false}

	if _, err := parse(t, compact, strict); err != nil {
		t.Errorf("Parse(compact, strict) error = %v", err)
	}
	if _, err := parse(t, spaced, strict); !errors.Is(err, result.BadSyntax) {
		t.Errorf("Parse(spaced, strict) error = %v, want BadSyntax", err)
	}
	if _, err := parse(t, spaced, nil); err != nil {
		t.Errorf("Parse(spaced, default) error = %v", err)
	}

	for _, input := range []string{" {}", "{ }", `{"a" :1}`, `{"a":[1 ]}`, "{}\n", `{"a":1}//x`, `{//x` + "\n" + `}`} {
		if _, err := parse(t, input, strict); !errors.Is(err, result.BadSyntax) {
			t.Errorf("Parse(%q, strict) error = %v, want BadSyntax", input, err)
		}
	}
}

func TestParse_InPlaceStrings(t *testing.T) {
	buf := []byte(`{"greeting":"caf\u00e9\n"}`)

	var got []byte
	p, err := New(buf, func(p *Parser, reason Reason, v Value) error {
		if reason == ReasonValue {
			got = v.String
		}
		return nil
	}, alloc.Heap(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if string(got) != "caf\xe9\n" {
		t.Errorf("value = %q, want %q", got, "caf\xe9\n")
	}

	start := bytes.Index(buf, []byte("caf"))
	if &got[0] != &buf[start] {
		t.Error("string value should alias the input buffer")
	}
}

// sizeChecker compares BeginArray sizes with the number of direct children.
type sizeChecker struct {
	announced []int
	counted   []int
	open      []int
	checked   int
}

func (s *sizeChecker) callback(p *Parser, reason Reason, v Value) error {
	child := func() {
		if len(s.open) > 0 {
			s.counted[s.open[len(s.open)-1]]++
		}
	}

	switch reason {
	case ReasonBeginArray:
		child()
		s.announced = append(s.announced, int(v.Integer))
		s.counted = append(s.counted, 0)
		s.open = append(s.open, len(s.counted)-1)
	case ReasonEndArray:
		s.open = s.open[:len(s.open)-1]
		s.checked++
	case ReasonBeginObject:
		child()
		s.open = append(s.open, -1)
	case ReasonEndObject:
		s.open = s.open[:len(s.open)-1]
	case ReasonValue:
		child()
	}
	return nil
}

func TestParse_ArraySizes(t *testing.T) {
	var large strings.Builder
	large.WriteString(`{"large":[`)
	for i := range 150 {
		if i > 0 {
			large.WriteByte(',')
		}
		switch i % 4 {
		case 0:
			large.WriteString(strconv.Itoa(i))
		case 1:
			large.WriteString(`"s,]` + strconv.Itoa(i) + `"`)
		case 2:
			large.WriteString(`{"x":[1,2],"y":{}}`)
		case 3:
			large.WriteString(`[[],[null]]`)
		}
	}
	large.WriteString(`]}`)

	tests := []struct {
		name  string
		input string
		sizes []int
	}{
		{"empty", `{"a":[]}`, []int{0}},
		{"single", `{"a":[1]}`, []int{1}},
		{"nested", `{"a":[[1,2],[],[[3]]]}`, []int{3, 2, 0, 1, 1}},
		{"objects", `{"a":[{"b":[1,2,3]},{"b":[]}]}`, []int{2, 3, 0}},
		{"strings with brackets", `{"a":["]","[",",","\"]"]}`, []int{4}},
		{"comments inside", "{\"a\":[1, // two\n 2]}", []int{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &sizeChecker{}
			p, err := New([]byte(tt.input), s.callback, alloc.Heap(), nil)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if err := p.Parse(); err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			if !reflect.DeepEqual(s.announced, tt.sizes) {
				t.Errorf("announced sizes = %v, want %v", s.announced, tt.sizes)
			}
			if !reflect.DeepEqual(s.announced, s.counted) {
				t.Errorf("announced sizes %v differ from counted %v", s.announced, s.counted)
			}
		})
	}

	t.Run("large", func(t *testing.T) {
		s := &sizeChecker{}
		p, err := New([]byte(large.String()), s.callback, alloc.Heap(), nil)
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}
		if err := p.Parse(); err != nil {
			t.Fatalf("Parse() error = %v", err)
		}

		if s.announced[0] != 150 {
			t.Errorf("announced size = %d, want 150", s.announced[0])
		}
		if !reflect.DeepEqual(s.announced, s.counted) {
			t.Errorf("announced sizes differ from counted")
		}
	})
}

func TestParse_ArraySizeOnPath(t *testing.T) {
	var sizes []int
	input := `{"users":[{"tags":["a","b"]},{"tags":[]}]}`

	p, err := New([]byte(input), func(p *Parser, reason Reason, v Value) error {
		if reason == ReasonBeginArray {
			e, _ := p.Element(p.Depth() - 1)
			sizes = append(sizes, e.Size)
		}
		return nil
	}, alloc.Heap(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if want := []int{2, 2, 0}; !reflect.DeepEqual(sizes, want) {
		t.Errorf("element sizes = %v, want %v", sizes, want)
	}
}

func nestedObjects(depth int) string {
	return strings.Repeat(`{"a":`, depth-1) + "{}" + strings.Repeat("}", depth-1)
}

func nestedArrays(depth int) string {
	return `{"a":` + strings.Repeat("[", depth-1) + strings.Repeat("]", depth-1) + "}"
}

func TestParse_NestingBound(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		opts    *Options
		wantErr error
	}{
		{"objects at max", nestedObjects(MaxNesting), nil, nil},
		{"objects past max", nestedObjects(MaxNesting + 1), nil, result.NestingOverflow},
		{"arrays at max", nestedArrays(MaxNesting), nil, nil},
		{"arrays past max", nestedArrays(MaxNesting + 1), nil, result.NestingOverflow},
		{"custom limit at max", nestedObjects(3), &Options{AllowWhitespace: true, MaxNesting: 3}, nil},
		{"custom limit past max", nestedObjects(4), &Options{AllowWhitespace: true, MaxNesting: 3}, result.NestingOverflow},
		{"array nested in array past custom", `{"a":[[[1]]]}`, &Options{AllowWhitespace: true, MaxNesting: 3}, result.NestingOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parse(t, tt.input, tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestInit_BadParameters(t *testing.T) {
	cb := func(*Parser, Reason, Value) error { return nil }
	buf := []byte("{}")

	tests := []struct {
		name string
		p    *Parser
		buf  []byte
		cb   Callback
		a    alloc.Allocator
	}{
		{"nil parser", nil, buf, cb, alloc.Heap()},
		{"empty buffer", &Parser{}, nil, cb, alloc.Heap()},
		{"nil callback", &Parser{}, buf, nil, alloc.Heap()},
		{"nil allocator", &Parser{}, buf, cb, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Init(tt.p, tt.buf, tt.cb, tt.a, nil); !errors.Is(err, result.BadParameter) {
				t.Errorf("Init() error = %v, want BadParameter", err)
			}
		})
	}

	var zero Parser
	if err := zero.Parse(); !errors.Is(err, result.BadParameter) {
		t.Errorf("Parse() on uninitialised parser = %v, want BadParameter", err)
	}
}

func TestParse_CallbackErrors(t *testing.T) {
	boom := errors.New("boom")

	var seen int
	p, _ := New([]byte(`{"a":1,"b":2}`), func(p *Parser, reason Reason, v Value) error {
		seen++
		if reason == ReasonValue {
			return boom
		}
		return nil
	}, alloc.Heap(), nil)

	if err := p.Parse(); !errors.Is(err, boom) {
		t.Errorf("Parse() error = %v, want callback error", err)
	}
	if seen != 3 {
		t.Errorf("callback called %d times, want 3", seen)
	}
}

func TestParse_Stop(t *testing.T) {
	var names []string
	p, _ := New([]byte(`{"a":1,"b":2,"c":3}`), func(p *Parser, reason Reason, v Value) error {
		if reason == ReasonName {
			names = append(names, string(v.String))
			if string(v.String) == "b" {
				return ErrStop
			}
		}
		return nil
	}, alloc.Heap(), nil)

	if err := p.Parse(); err != nil {
		t.Errorf("Parse() error = %v, want nil after stop", err)
	}
	if want := []string{"a", "b"}; !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want %v", names, want)
	}
}

type failingAllocator struct{}

func (failingAllocator) Alloc(int) []byte { return nil }
func (failingAllocator) Free([]byte)      {}

func TestParse_OutOfMemory(t *testing.T) {
	noop := func(*Parser, Reason, Value) error { return nil }

	p, _ := New([]byte(`{"a":{"b":1}}`), noop, failingAllocator{}, nil)
	if err := p.Parse(); err != nil {
		t.Errorf("Parse() without arrays should not allocate, error = %v", err)
	}

	p, _ = New([]byte(`{"a":[1]}`), noop, failingAllocator{}, nil)
	if err := p.Parse(); !errors.Is(err, result.OutOfMemory) {
		t.Errorf("Parse() error = %v, want OutOfMemory", err)
	}
}

func TestParse_ScratchIsReleased(t *testing.T) {
	inputs := []string{
		`{"a":[1,[2,[3]],{"b":[]}]}`,
		`{"a":[1,2,}`,
		`{"a":[1,"\u0100"]}`,
		`{"a":[[[[1]]]]}`,
	}

	for _, input := range inputs {
		counting := alloc.NewCounting(alloc.Heap())
		p, _ := New([]byte(input), func(*Parser, Reason, Value) error { return nil }, counting, nil)
		_ = p.Parse()

		if got := counting.Outstanding(); got != 0 {
			t.Errorf("Parse(%q) left %d scratch buffers", input, got)
		}
		if counting.Stats().Allocs == 0 {
			t.Errorf("Parse(%q) did not use the allocator", input)
		}
	}
}

func TestParse_Trace(t *testing.T) {
	type record struct {
		file, function, message string
		line                    int
	}
	var records []record

	opts := DefaultOptions()
	opts.Trace = func(p *Parser, file string, line int, function, message string) {
		records = append(records, record{file, function, message, line})
	}

	if _, err := parse(t, `{"a":[1,}`, opts); !errors.Is(err, result.BadSyntax) {
		t.Fatalf("Parse() error = %v, want BadSyntax", err)
	}

	if len(records) == 0 {
		t.Fatal("trace hook not called")
	}
	for _, r := range records {
		if r.message != "result: JSON_BAD_SYNTAX" {
			t.Errorf("trace message = %q", r.message)
		}
		if r.file == "" || r.line == 0 || !strings.Contains(r.function, "parser") {
			t.Errorf("trace location = %+v", r)
		}
	}
}

func TestParse_TraceNotCalledOnSuccess(t *testing.T) {
	opts := DefaultOptions()
	opts.Trace = func(*Parser, string, int, string, string) {
		t.Error("trace hook called on a valid document")
	}

	if _, err := parse(t, `{"a":[1,{"b":null}]}`, opts); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
}
