package console

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/jacoelho/encjson/internal/formatter"
	"github.com/jacoelho/encjson/internal/result"
	"github.com/jacoelho/encjson/internal/results"
)

const separator = "--------------------------------------------------------------------------------"

// Formatter writes a plain text summary. Document output goes to stdout, so
// the summary defaults to stderr.
type Formatter struct {
	writer io.Writer
}

// New creates a formatter that writes to stderr.
func New() formatter.Formatter {
	return &Formatter{
		writer: os.Stderr,
	}
}

// NewWithWriter creates a formatter with a custom writer.
// This is useful for testing or redirecting output to files.
func NewWithWriter(writer io.Writer) formatter.Formatter {
	return &Formatter{
		writer: writer,
	}
}

// Format writes one line per file followed by the totals.
func (f *Formatter) Format(s *results.Summary) error {
	if s == nil {
		return nil
	}

	for _, fileResult := range s.FileResults {
		status := "Success"
		if fileResult.Error != nil {
			status = fmt.Sprintf("Failed: %v", fileResult.Error)
			if code, ok := result.As(fileResult.Error); ok {
				status = fmt.Sprintf("Failed: %s: %v", code.String(), fileResult.Error)
			}
		}
		_, err := fmt.Fprintf(f.writer, "%s: %s (%d byte(s), %d value(s) in %d ms)\n",
			fileResult.Filename, status, fileResult.Bytes, fileResult.Values, fileResult.Duration.Milliseconds())
		if err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(f.writer, separator); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(f.writer, "Processed files:   %d (%.2f/s)\n", s.ProcessedFiles, s.DocumentsPerSecond()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f.writer, "Processed bytes:   %d\n", s.ProcessedBytes); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f.writer, "Succeeded files:   %d (%.1f%%)\n", s.SucceededFiles, s.SuccessPercentage()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(f.writer, "Failed files:      %d (%.1f%%)\n", s.FailedFiles, s.FailurePercentage()); err != nil {
		return err
	}

	if s.FailedFiles > 0 {
		if err := f.printFailures(s.Failures()); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(f.writer, "Duration:          %d ms\n", s.TotalDuration.Milliseconds()); err != nil {
		return err
	}

	return nil
}

// printFailures lists failure counts per reason, most frequent first.
func (f *Formatter) printFailures(counts map[string]int) error {
	reasons := make([]string, 0, len(counts))
	for reason := range counts {
		reasons = append(reasons, reason)
	}
	slices.SortFunc(reasons, func(a, b string) int {
		if counts[a] != counts[b] {
			return counts[b] - counts[a]
		}
		return strings.Compare(a, b)
	})

	for _, reason := range reasons {
		if _, err := fmt.Fprintf(f.writer, "  %-24s %d\n", reason, counts[reason]); err != nil {
			return err
		}
	}
	return nil
}
