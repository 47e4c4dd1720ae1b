package formatter

import (
	"github.com/jacoelho/encjson/internal/results"
)

// Formatter reports the outcome of a run.
// Implementations are responsible for determining the output device.
type Formatter interface {
	Format(summary *results.Summary) error
}
