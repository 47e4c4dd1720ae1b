package query

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jacoelho/encjson/internal/alloc"
	"github.com/jacoelho/encjson/internal/tree"
)

const doc = `{
	"servers": [
		{"name": "a", "port": 80},
		{"name": "b", "port": 443}
	],
	"mode": "strict"
}`

func load(t *testing.T) tree.Object {
	t.Helper()

	o, err := tree.Parse([]byte(doc), alloc.Heap(), nil)
	if err != nil {
		t.Fatalf("tree.Parse() error = %v", err)
	}
	return o
}

func TestQuery_Select(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want []any
	}{
		{"member", "$.mode", []any{"strict"}},
		{"wildcard", "$.servers[*].name", []any{"a", "b"}},
		{"index", "$.servers[1].port", []any{int64(443)}},
		{"descendant", "$..port", []any{int64(80), int64(443)}},
		{"missing", "$.nothing", []any{}},
	}

	o := load(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := Compile(tt.expr)
			if err != nil {
				t.Fatalf("Compile() error = %v", err)
			}

			got := q.Select(o)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Select(%s) = %#v, want %#v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestQuery_String(t *testing.T) {
	q, err := Compile("$.servers[0].name")
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}

	if q.String() != "$.servers[0].name" {
		t.Errorf("String() = %q", q.String())
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		expr    string
		wantErr error
	}{
		{"empty", "", ErrInvalidInput},
		{"no root", "servers", ErrInvalidPath},
		{"unbalanced", "$.servers[", ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compile(tt.expr); !errors.Is(err, tt.wantErr) {
				t.Errorf("Compile(%q) error = %v, want %v", tt.expr, err, tt.wantErr)
			}
		})
	}
}
