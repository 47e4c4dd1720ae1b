package printer

import (
	"bufio"
	"io"

	"github.com/jacoelho/encjson/internal/alloc"
	"github.com/jacoelho/encjson/internal/parser"
	"github.com/jacoelho/encjson/internal/result"
)

const indent = "  "

// Printer is a parser.Callback that pretty prints the events it receives:
// one member or element per line, two spaces of indentation per level and a
// newline after the top level container is closed.
type Printer struct {
	w       *bufio.Writer
	scratch []byte
	depth   int
	newline bool
	comma   bool
	err     error
}

// NewPrinter returns a Printer writing to w. Call Flush once parsing ends.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: bufio.NewWriter(w)}
}

// Depth returns the number of containers opened and not yet closed.
func (pr *Printer) Depth() int {
	return pr.depth
}

// Flush writes any buffered output and returns the first write error.
func (pr *Printer) Flush() error {
	if pr.err != nil {
		return pr.err
	}
	pr.err = pr.w.Flush()
	return pr.err
}

// Callback implements parser.Callback.
func (pr *Printer) Callback(_ *parser.Parser, reason parser.Reason, v parser.Value) error {
	closing := reason == parser.ReasonEndObject || reason == parser.ReasonEndArray

	if !closing && pr.comma {
		pr.comma = false
		pr.writeString(",")
	}

	if closing {
		pr.depth--
	}

	if pr.newline {
		pr.newline = false
		pr.writeString("\n")
		for range pr.depth {
			pr.writeString(indent)
		}
	}

	switch reason {
	case parser.ReasonName:
		pr.write(AppendString(pr.scratch[:0], v.String))
		pr.writeString(": ")
		pr.comma = false
	case parser.ReasonBeginObject:
		pr.open("{")
	case parser.ReasonBeginArray:
		pr.open("[")
	case parser.ReasonEndObject:
		pr.close("}")
	case parser.ReasonEndArray:
		pr.close("]")
	case parser.ReasonValue:
		pr.write(AppendValue(pr.scratch[:0], v))
		pr.newline = true
		pr.comma = true
	}

	if closing && pr.depth == 0 {
		pr.writeString("\n")
	}

	return pr.err
}

func (pr *Printer) open(s string) {
	pr.depth++
	pr.newline = true
	pr.comma = false
	pr.writeString(s)
}

func (pr *Printer) close(s string) {
	pr.newline = true
	pr.comma = true
	pr.writeString(s)
}

func (pr *Printer) write(b []byte) {
	if pr.err != nil {
		return
	}
	_, pr.err = pr.w.Write(b)
	pr.scratch = b[:0]
}

func (pr *Printer) writeString(s string) {
	if pr.err != nil {
		return
	}
	_, pr.err = pr.w.WriteString(s)
}

// Print parses data and writes it to w pretty printed. data is left
// untouched: the parse runs over a copy obtained from a.
func Print(w io.Writer, data []byte, a alloc.Allocator) error {
	return PrintWith(w, data, a, nil)
}

// PrintWith is Print with explicit parser options.
func PrintWith(w io.Writer, data []byte, a alloc.Allocator, opts *parser.Options) error {
	if w == nil || len(data) == 0 || a == nil {
		return result.BadParameter
	}

	buf := a.Alloc(len(data))
	if buf == nil {
		return result.OutOfMemory
	}
	defer a.Free(buf)
	copy(buf, data)

	pr := NewPrinter(w)

	p, err := parser.New(buf[:len(data)], pr.Callback, a, opts)
	if err != nil {
		return err
	}
	if err := p.Parse(); err != nil {
		return err
	}

	if err := pr.Flush(); err != nil {
		return err
	}

	if pr.Depth() != 0 {
		return result.BadSyntax
	}
	return nil
}
