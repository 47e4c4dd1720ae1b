package parser

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/jacoelho/encjson/internal/result"
	"github.com/jacoelho/encjson/internal/text"
)

// TraceFunc observes results as they are raised and propagated, with the
// source location of the raising or propagating call. It is a debugging aid.
type TraceFunc func(p *Parser, file string, line int, function, message string)

func (p *Parser) raise(code result.Result) error {
	if p.opts.Trace != nil {
		p.trace(code)
	}
	return code
}

func (p *Parser) check(err error) error {
	if err != nil && p.opts.Trace != nil && !errors.Is(err, ErrStop) {
		p.trace(result.Of(err))
	}
	return err
}

func (p *Parser) trace(code result.Result) {
	pc, file, line, ok := runtime.Caller(2)
	if !ok {
		return
	}

	function := ""
	if fn := runtime.FuncForPC(pc); fn != nil {
		function = fn.Name()
	}

	var message [64]byte
	text.Copy(message[:], "result: ")
	text.Concat(message[:], code.String())

	p.opts.Trace(p, file, line, function, string(message[:text.Len(message[:])]))
}

// SlogTrace returns a TraceFunc that logs at debug level.
func SlogTrace(logger *slog.Logger) TraceFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(p *Parser, file string, line int, function, message string) {
		if !logger.Enabled(context.Background(), slog.LevelDebug) {
			return
		}

		logger.Debug(message,
			slog.String("file", filepath.Base(file)),
			slog.Int("line", line),
			slog.String("func", function),
			slog.String("path", p.Path()),
			slog.Int("offset", p.Offset()),
		)
	}
}
