// Package query selects values from a materialised document with RFC 9535
// JSONPath expressions.
package query

import (
	"errors"
	"fmt"

	"github.com/theory/jsonpath"

	"github.com/jacoelho/encjson/internal/tree"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidPath  = errors.New("invalid JSONPath")
)

// Query is a compiled JSONPath expression.
type Query struct {
	expr string
	path *jsonpath.Path
}

// Compile parses expr (e.g. "$.servers[*].port").
func Compile(expr string) (*Query, error) {
	if expr == "" {
		return nil, fmt.Errorf("%w: JSONPath expression is empty", ErrInvalidInput)
	}

	path, err := jsonpath.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %v", ErrInvalidPath, expr, err)
	}

	return &Query{expr: expr, path: path}, nil
}

func (q *Query) String() string {
	return q.expr
}

// Select returns every value selected from doc, in document order where the
// expression defines one.
func (q *Query) Select(doc tree.Object) []any {
	return q.path.Select(tree.ToAny(doc))
}
