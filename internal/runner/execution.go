package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jacoelho/encjson/internal/alloc"
	"github.com/jacoelho/encjson/internal/config"
	"github.com/jacoelho/encjson/internal/convert"
	"github.com/jacoelho/encjson/internal/parser"
	"github.com/jacoelho/encjson/internal/printer"
	"github.com/jacoelho/encjson/internal/result"
	"github.com/jacoelho/encjson/internal/tree"
)

// executeFile processes one document into o. It runs on a pool worker.
func (r *Runner) executeFile(ctx context.Context, filename string, o *outcome) {
	start := time.Now()
	parseID := uuid.NewString()
	logger := r.logger.With(slog.String("parse_id", parseID), slog.String("file", filename))

	size, values, err := r.process(ctx, filename, &o.output, logger)
	duration := time.Since(start)

	o.builder.
		WithParseID(parseID).
		WithBytes(size).
		WithValues(values).
		WithDuration(duration).
		WithError(err)

	if err != nil {
		// Partial output of a rejected document is discarded
		o.output.Reset()
		attrs := []slog.Attr{slog.Any("error", err)}
		if code, ok := result.As(err); ok {
			attrs = append(attrs, slog.String("result", code.String()))
		}
		logger.LogAttrs(ctx, slog.LevelWarn, "document rejected", attrs...)
		return
	}

	logger.LogAttrs(ctx, slog.LevelDebug, "document processed",
		slog.Int("bytes", size),
		slog.Int("values", values),
		slog.Duration("duration", duration),
	)
}

func (r *Runner) process(ctx context.Context, filename string, out *bytes.Buffer, logger *slog.Logger) (int, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}

	data, err := r.readInput(filename)
	if err != nil {
		return 0, 0, err
	}

	a := alloc.NewCounting(r.allocator())
	defer r.debugAllocations(ctx, logger, a)

	opts := r.config.ParserOptions()
	if r.config.Debug {
		opts.Trace = parser.SlogTrace(logger)
	}

	if len(r.config.Files) > 1 {
		fmt.Fprintf(out, "==> %s <==\n", filename)
	}

	var values int
	switch {
	case len(r.config.Matches) > 0:
		values, err = r.matchValues(data, out, a, opts)
	case r.config.Paths:
		values, err = dumpPaths(data, out, a, opts)
	case r.query != nil:
		values, err = r.selectValues(data, out, a, opts)
	case r.config.Format == config.FormatYAML:
		values, err = printYAML(data, out, a, opts)
	default:
		values, err = printJSON(data, out, a, opts)
	}

	return len(data), values, err
}

// readInput returns the document bytes. YAML files are converted to JSON
// first.
func (r *Runner) readInput(filename string) ([]byte, error) {
	var data []byte
	var err error

	if filename == config.Stdin {
		data, err = io.ReadAll(r.stdin)
	} else {
		data, err = os.ReadFile(filename)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		doc, err := convert.FromYAML(data)
		if err != nil {
			return nil, err
		}
		return tree.AppendJSON(nil, doc)
	default:
		return data, nil
	}
}

func (r *Runner) allocator() alloc.Allocator {
	if r.config.MaxMemory > 0 {
		return alloc.NewBudget(alloc.Heap(), r.config.MaxMemory)
	}
	return alloc.Heap()
}

// parse runs cb over data in place, counting Value events.
func parse(data []byte, a alloc.Allocator, opts *parser.Options, cb parser.Callback) (int, error) {
	values := 0
	p, err := parser.New(data, func(p *parser.Parser, reason parser.Reason, v parser.Value) error {
		if reason == parser.ReasonValue {
			values++
		}
		return cb(p, reason, v)
	}, a, opts)
	if err != nil {
		return 0, err
	}

	err = p.Parse()
	return values, err
}

func printJSON(data []byte, out io.Writer, a alloc.Allocator, opts *parser.Options) (int, error) {
	pr := printer.NewPrinter(out)

	values, err := parse(data, a, opts, pr.Callback)
	if err != nil {
		return values, err
	}
	if err := pr.Flush(); err != nil {
		return values, err
	}
	if pr.Depth() != 0 {
		return values, result.BadSyntax
	}
	return values, nil
}

// matchValues prints "path = value" for every value whose path matches one
// of the patterns. A "#" segment meeting a member name is not a match.
func (r *Runner) matchValues(data []byte, out io.Writer, a alloc.Allocator, opts *parser.Options) (int, error) {
	var line []byte
	matched := 0

	_, err := parse(data, a, opts, func(p *parser.Parser, reason parser.Reason, v parser.Value) error {
		if reason != parser.ReasonValue {
			return nil
		}

		for _, pattern := range r.config.Matches {
			err := p.Match(pattern)
			switch {
			case err == nil:
			case errors.Is(err, result.NoMatch), errors.Is(err, result.TypeMismatch):
				continue
			default:
				return err
			}

			line = append(line[:0], p.Path()...)
			line = append(line, " = "...)
			line = printer.AppendValue(line, v)
			line = append(line, '\n')
			matched++

			_, err = out.Write(line)
			return err
		}
		return nil
	})

	return matched, err
}

func dumpPaths(data []byte, out io.Writer, a alloc.Allocator, opts *parser.Options) (int, error) {
	return parse(data, a, opts, func(p *parser.Parser, reason parser.Reason, _ parser.Value) error {
		if reason != parser.ReasonValue {
			return nil
		}
		return p.DumpPath(out)
	})
}

func materialise(data []byte, a alloc.Allocator, opts *parser.Options) (tree.Object, int, error) {
	var b tree.Builder

	values, err := parse(data, a, opts, b.Callback)
	if err != nil {
		return nil, values, err
	}

	doc, err := b.Document()
	return doc, values, err
}

func (r *Runner) selectValues(data []byte, out io.Writer, a alloc.Allocator, opts *parser.Options) (int, error) {
	doc, _, err := materialise(data, a, opts)
	if err != nil {
		return 0, err
	}

	selected := r.query.Select(doc)

	var line []byte
	for _, v := range selected {
		if line, err = tree.AppendJSON(line[:0], v); err != nil {
			return 0, err
		}
		line = append(line, '\n')

		if _, err := out.Write(line); err != nil {
			return 0, err
		}
	}

	return len(selected), nil
}

func printYAML(data []byte, out io.Writer, a alloc.Allocator, opts *parser.Options) (int, error) {
	doc, values, err := materialise(data, a, opts)
	if err != nil {
		return values, err
	}

	text, err := convert.ToYAML(doc)
	if err != nil {
		return values, err
	}

	_, err = out.Write(text)
	return values, err
}
