package runner

import (
	"context"
	"log/slog"

	"github.com/jacoelho/encjson/internal/alloc"
)

// debugAllocations reports allocator usage for one document and warns when
// scratch memory was not returned.
func (r *Runner) debugAllocations(ctx context.Context, logger *slog.Logger, a *alloc.Counting) {
	stats := a.Stats()

	if outstanding := a.Outstanding(); outstanding != 0 {
		logger.LogAttrs(ctx, slog.LevelWarn, "allocations not released",
			slog.Int("outstanding", outstanding),
			slog.Int("allocs", stats.Allocs),
		)
		return
	}

	if !r.config.Debug {
		return
	}

	logger.LogAttrs(ctx, slog.LevelDebug, "allocator stats",
		slog.Int("allocs", stats.Allocs),
		slog.Int("frees", stats.Frees),
		slog.Int("peak_bytes", stats.PeakBytes),
	)
}

// logRun records the settings a run starts with.
func (r *Runner) logRun(ctx context.Context, files []string, workers int) {
	attrs := []slog.Attr{
		slog.Int("files", len(files)),
		slog.Int("workers", workers),
	}
	if !r.rateLimiter.Unlimited() {
		attrs = append(attrs, slog.Float64("rate_limit", r.rateLimiter.Limit()))
	}
	if r.query != nil {
		attrs = append(attrs, slog.String("query", r.query.String()))
	}

	r.logger.LogAttrs(ctx, slog.LevelDebug, "run started", attrs...)
}
