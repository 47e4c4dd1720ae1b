package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/jacoelho/encjson/internal/config"
	"github.com/jacoelho/encjson/internal/exit"
	"github.com/jacoelho/encjson/internal/formatter"
	"github.com/jacoelho/encjson/internal/formatter/console"
	"github.com/jacoelho/encjson/internal/query"
	"github.com/jacoelho/encjson/internal/ratelimit"
	"github.com/jacoelho/encjson/internal/results"
)

// Runner processes input documents concurrently. Every document gets its
// own buffer, allocator and parser; output is written in input order.
type Runner struct {
	config      *config.Config
	rateLimiter *ratelimit.Limiter
	formatter   formatter.Formatter
	logger      *slog.Logger
	query       *query.Query
	stdout      io.Writer
	stdin       io.Reader
}

// Option customises a Runner.
type Option func(*Runner)

// WithStdout sets the destination of document output.
func WithStdout(w io.Writer) Option {
	return func(r *Runner) { r.stdout = w }
}

// WithStdin sets the reader used for the "-" input.
func WithStdin(rd io.Reader) Option {
	return func(r *Runner) { r.stdin = rd }
}

// WithLogger sets the logger for progress and parser traces.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithFormatter sets the summary formatter.
func WithFormatter(f formatter.Formatter) Option {
	return func(r *Runner) { r.formatter = f }
}

// New creates a new Runner with the provided configuration.
// If creation fails, returns nil runner and exit result.
func New(cfg *config.Config, opts ...Option) (*Runner, *exit.Result) {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	r := &Runner{
		config:      cfg,
		rateLimiter: ratelimit.New(cfg.RateLimit),
		formatter:   console.New(),
		logger:      slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
		stdout:      os.Stdout,
		stdin:       os.Stdin,
	}

	for _, opt := range opts {
		opt(r)
	}

	if cfg.Query != "" {
		q, err := query.Compile(cfg.Query)
		if err != nil {
			return nil, exit.Errorf("Error creating runner: %v\n", err)
		}
		r.query = q
	}

	return r, nil
}

// Run processes the configured files, prints the summary and returns the
// process exit code.
func (r *Runner) Run(ctx context.Context) int {
	summary, err := r.ExecuteFiles(ctx, r.config.Files)
	if err != nil {
		r.logger.Error("run aborted", slog.Any("error", err))
	}

	if summary != nil {
		if ferr := r.formatter.Format(summary); ferr != nil {
			r.logger.Error("failed to format results", slog.Any("error", ferr))
		}
	}

	if err != nil {
		return exit.CodeFailure
	}
	return exit.FromFailures(summary.FailedFiles)
}

type outcome struct {
	output  bytes.Buffer
	builder *results.FileResultBuilder
}

// ExecuteFiles processes files on a worker pool and returns their results in
// input order. The error reports a problem with the run itself, such as a
// cancelled context; per-file failures are only recorded in the summary.
func (r *Runner) ExecuteFiles(ctx context.Context, files []string) (*results.Summary, error) {
	workers := max(r.config.Workers, 1)

	pool, err := ants.NewPool(workers, ants.WithPanicHandler(func(p any) {
		r.logger.Error("worker panic", slog.Any("panic", p))
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	r.logRun(ctx, files, workers)

	outcomes := make([]*outcome, len(files))
	overallStart := time.Now()

	var wg sync.WaitGroup
	var runErr error

	for i, filename := range files {
		if err := r.rateLimiter.Wait(ctx); err != nil {
			runErr = err
			break
		}

		o := &outcome{builder: results.NewFileResultBuilder(filename)}
		outcomes[i] = o

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			r.executeFile(ctx, filename, o)
		})
		if submitErr != nil {
			wg.Done()
			o.builder.WithError(fmt.Errorf("failed to schedule %s: %w", filename, submitErr))
		}
	}

	wg.Wait()

	s := results.NewSummary(len(files))
	for _, o := range outcomes {
		if o == nil {
			continue
		}
		if _, err := r.stdout.Write(o.output.Bytes()); err != nil && runErr == nil {
			runErr = fmt.Errorf("failed to write output: %w", err)
		}
		s.Add(o.builder)
	}
	s.SetTotalDuration(time.Since(overallStart))

	return s, runErr
}
