// Package result defines the closed set of outcomes returned by the JSON core.
//
// Every core operation returns either nil or one of these codes as an error,
// so callers can use errors.Is against the exported values and log the stable
// name returned by String.
package result

import "errors"

// Result is an outcome code. The zero value is OK.
type Result uint8

const (
	OK Result = iota
	Failed
	Unexpected
	BadParameter
	OutOfMemory
	EOF
	Unsupported
	BadSyntax
	TypeMismatch
	NestingOverflow
	NestingUnderflow
	BufferOverflow
	UnknownValue
	OutOfBounds
	NoMatch
)

var names = [...]string{
	OK:               "JSON_OK",
	Failed:           "JSON_FAILED",
	Unexpected:       "JSON_UNEXPECTED",
	BadParameter:     "JSON_BAD_PARAMETER",
	OutOfMemory:      "JSON_OUT_OF_MEMORY",
	EOF:              "JSON_EOF",
	Unsupported:      "JSON_UNSUPPORTED",
	BadSyntax:        "JSON_BAD_SYNTAX",
	TypeMismatch:     "JSON_TYPE_MISMATCH",
	NestingOverflow:  "JSON_NESTING_OVERFLOW",
	NestingUnderflow: "JSON_NESTING_UNDERFLOW",
	BufferOverflow:   "JSON_BUFFER_OVERFLOW",
	UnknownValue:     "JSON_UNKNOWN_VALUE",
	OutOfBounds:      "JSON_OUT_OF_BOUNDS",
	NoMatch:          "JSON_NO_MATCH",
}

var messages = [...]string{
	OK:               "ok",
	Failed:           "failed",
	Unexpected:       "unexpected state",
	BadParameter:     "bad parameter",
	OutOfMemory:      "out of memory",
	EOF:              "unexpected end of input",
	Unsupported:      "unsupported feature",
	BadSyntax:        "bad syntax",
	TypeMismatch:     "type mismatch",
	NestingOverflow:  "nesting overflow",
	NestingUnderflow: "nesting underflow",
	BufferOverflow:   "buffer overflow",
	UnknownValue:     "unknown value",
	OutOfBounds:      "out of bounds",
	NoMatch:          "no match",
}

// String returns the stable name of the code, e.g. "JSON_BAD_SYNTAX".
func (r Result) String() string {
	if int(r) < len(names) {
		return names[r]
	}
	return "UNKNOWN"
}

func (r Result) Error() string {
	if int(r) < len(messages) {
		return "json: " + messages[r]
	}
	return "json: unknown result"
}

// Of maps an error returned by the core back to its code.
// A nil error is OK and errors that carry no code are Failed.
func Of(err error) Result {
	if err == nil {
		return OK
	}

	if r, ok := As(err); ok {
		return r
	}
	return Failed
}

// As reports the code carried by err, if any.
func As(err error) (Result, bool) {
	var r Result
	if errors.As(err, &r) {
		return r, true
	}
	return OK, false
}

// Name returns the stable name of the code carried by err.
func Name(err error) string {
	return Of(err).String()
}

// All lists every code in declaration order.
func All() []Result {
	all := make([]Result, len(names))
	for i := range all {
		all[i] = Result(i)
	}
	return all
}
