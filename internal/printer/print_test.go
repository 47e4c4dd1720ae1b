package printer

import (
	"bytes"
	"errors"
	"testing"

	"github.com/jacoelho/encjson/internal/alloc"
	"github.com/jacoelho/encjson/internal/parser"
	"github.com/jacoelho/encjson/internal/result"
)

func TestPrint(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "empty object",
			input: `{}`,
			want:  "{\n}\n",
		},
		{
			name:  "nested",
			input: `{"a":[1,2,3],"b":{"c":true}}`,
			want: `{
  "a": [
    1,
    2,
    3
  ],
  "b": {
    "c": true
  }
}
`,
		},
		{
			name:  "empty containers",
			input: `{"a":[],"b":{}}`,
			want: `{
  "a": [
  ],
  "b": {
  }
}
`,
		},
		{
			name:  "scalars and comments",
			input: "{ // header\n \"n\": null, \"r\": 2.50, \"s\": \"a\\/b\", \"f\": False }",
			want: `{
  "n": null,
  "r": 2.5,
  "s": "a\/b",
  "f": false
}
`,
		},
		{
			name:  "objects in arrays",
			input: `{"list":[{"id":1},[true]]}`,
			want: `{
  "list": [
    {
      "id": 1
    },
    [
      true
    ]
  ]
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := Print(&out, []byte(tt.input), alloc.Heap()); err != nil {
				t.Fatalf("Print() error = %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("Print() =\n%s\nwant\n%s", out.String(), tt.want)
			}
		})
	}
}

func TestPrint_Idempotent(t *testing.T) {
	inputs := []string{
		`{"a":[1,2,3],"b":{"c":true}}`,
		`{"pi":3.14159265358979,"neg":-0.25,"big":1e20,"min":-9223372036854775808}`,
		`{"s":"tab\tquote\"slash/nul\u0000hi\u00ff","e":""}`,
		`{"deep":[[[{"x":[null,false]}]]],"k":{}}`,
		`{"t":1.99999999999,"u":0.12345678919,"v":[2.675,-0.99999999999,1.00000000001]}`,
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			var first, second bytes.Buffer

			if err := Print(&first, []byte(input), alloc.Heap()); err != nil {
				t.Fatalf("Print() error = %v", err)
			}
			if err := Print(&second, first.Bytes(), alloc.Heap()); err != nil {
				t.Fatalf("Print(printed) error = %v\n%s", err, first.String())
			}

			if first.String() != second.String() {
				t.Errorf("output not stable:\n%s\nthen\n%s", first.String(), second.String())
			}
		})
	}
}

func TestPrint_LeavesInputUntouched(t *testing.T) {
	input := []byte(`{"s":"a\nb","t":"x"}`)
	orig := bytes.Clone(input)

	if err := Print(&bytes.Buffer{}, input, alloc.Heap()); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if !bytes.Equal(input, orig) {
		t.Errorf("input modified: %q", input)
	}
}

func TestPrint_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		a       alloc.Allocator
		wantErr error
	}{
		{"empty", "", alloc.Heap(), result.BadParameter},
		{"nil allocator", "{}", nil, result.BadParameter},
		{"syntax", `{"a":}`, alloc.Heap(), result.BadSyntax},
		{"unterminated", `{"a":[1`, alloc.Heap(), result.EOF},
		{"unsupported", `{"a":"\u0100"}`, alloc.Heap(), result.Unsupported},
		{"no memory for copy", `{"a":1}`, alloc.NewBudget(alloc.Heap(), 4), result.OutOfMemory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Print(&bytes.Buffer{}, []byte(tt.input), tt.a)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Print() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPrint_ReleasesMemory(t *testing.T) {
	for _, input := range []string{`{"a":[1,{"b":[2]}]}`, `{"a":[1,}`} {
		counting := alloc.NewCounting(alloc.Heap())
		_ = Print(&bytes.Buffer{}, []byte(input), counting)

		if got := counting.Outstanding(); got != 0 {
			t.Errorf("Print(%q) left %d allocations", input, got)
		}
	}
}

func TestPrint_WriteError(t *testing.T) {
	if err := Print(failingWriter{}, []byte(`{"a":1}`), alloc.Heap()); !errors.Is(err, errWrite) {
		t.Errorf("Print() error = %v, want write error", err)
	}
}

func TestPrintWith_Strict(t *testing.T) {
	strict := &parser.Options{AllowWhitespace: false}

	if err := PrintWith(&bytes.Buffer{}, []byte(`{"a":1}`), alloc.Heap(), strict); err != nil {
		t.Errorf("PrintWith(compact) error = %v", err)
	}
	if err := PrintWith(&bytes.Buffer{}, []byte(`{"a": 1}`), alloc.Heap(), strict); !errors.Is(err, result.BadSyntax) {
		t.Errorf("PrintWith(spaced) error = %v, want BadSyntax", err)
	}
}

func TestPrinter_Callback(t *testing.T) {
	var out bytes.Buffer
	pr := NewPrinter(&out)

	p, err := parser.New([]byte(`{"k":"v"}`), pr.Callback, alloc.Heap(), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if err := pr.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	if pr.Depth() != 0 {
		t.Errorf("Depth() = %d, want 0", pr.Depth())
	}
	if want := "{\n  \"k\": \"v\"\n}\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}
