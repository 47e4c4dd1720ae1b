package results

import (
	"time"

	"github.com/jacoelho/encjson/internal/result"
)

// FileResult is the outcome of processing one input document.
type FileResult struct {
	Filename string
	ParseID  string
	Bytes    int
	Values   int
	Duration time.Duration
	Error    error
}

// OtherFailure labels failures that carry no result code, such as I/O or
// YAML conversion errors.
const OtherFailure = "OTHER"

// Code returns the result code of the failure, result.OK on success.
func (r FileResult) Code() result.Result {
	return result.Of(r.Error)
}

// Reason names the failure: the result code name when the error carries one,
// OtherFailure otherwise. It is empty on success.
func (r FileResult) Reason() string {
	if r.Error == nil {
		return ""
	}
	if code, ok := result.As(r.Error); ok {
		return code.String()
	}
	return OtherFailure
}

type FileResultBuilder struct {
	filename string
	parseID  string
	bytes    int
	values   int
	duration time.Duration
	err      error
}

func NewFileResultBuilder(filename string) *FileResultBuilder {
	return &FileResultBuilder{
		filename: filename,
	}
}

func (b *FileResultBuilder) WithParseID(id string) *FileResultBuilder {
	b.parseID = id
	return b
}

func (b *FileResultBuilder) WithBytes(n int) *FileResultBuilder {
	b.bytes = n
	return b
}

func (b *FileResultBuilder) WithValues(n int) *FileResultBuilder {
	b.values = n
	return b
}

func (b *FileResultBuilder) WithDuration(duration time.Duration) *FileResultBuilder {
	b.duration = duration
	return b
}

func (b *FileResultBuilder) WithError(err error) *FileResultBuilder {
	b.err = err
	return b
}

func (b *FileResultBuilder) Build() FileResult {
	return FileResult{
		Filename: b.filename,
		ParseID:  b.parseID,
		Bytes:    b.bytes,
		Values:   b.values,
		Duration: b.duration,
		Error:    b.err,
	}
}

// Summary aggregates the results of one run in input order.
type Summary struct {
	FileResults    []FileResult
	ProcessedFiles int
	ProcessedBytes int
	SucceededFiles int
	FailedFiles    int
	TotalDuration  time.Duration
}

func NewSummary(expectedFiles int) *Summary {
	return &Summary{
		FileResults: make([]FileResult, 0, expectedFiles),
	}
}

func (s *Summary) Add(builder *FileResultBuilder) {
	r := builder.Build()

	s.FileResults = append(s.FileResults, r)
	s.ProcessedFiles++
	s.ProcessedBytes += r.Bytes

	if r.Error != nil {
		s.FailedFiles++
	} else {
		s.SucceededFiles++
	}
}

func (s *Summary) SetTotalDuration(duration time.Duration) {
	s.TotalDuration = duration
}

func (s *Summary) DocumentsPerSecond() float64 {
	if s.TotalDuration == 0 {
		return 0
	}
	return float64(s.ProcessedFiles) / s.TotalDuration.Seconds()
}

func (s *Summary) SuccessPercentage() float64 {
	if s.ProcessedFiles == 0 {
		return 0
	}
	return (float64(s.SucceededFiles) / float64(s.ProcessedFiles)) * 100
}

func (s *Summary) FailurePercentage() float64 {
	if s.ProcessedFiles == 0 {
		return 0
	}
	return (float64(s.FailedFiles) / float64(s.ProcessedFiles)) * 100
}

// Failures counts failed files per Reason.
func (s *Summary) Failures() map[string]int {
	counts := make(map[string]int)
	for _, r := range s.FileResults {
		if r.Error != nil {
			counts[r.Reason()]++
		}
	}
	return counts
}
