package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jacoelho/encjson/internal/exit"
	"github.com/jacoelho/encjson/internal/parser"
)

const (
	// DefaultWorkers is the number of documents processed concurrently.
	DefaultWorkers = 4

	FormatJSON = "json"
	FormatYAML = "yaml"

	// Stdin names standard input as an input file.
	Stdin = "-"
)

var (
	ErrNoArguments      = errors.New("no arguments provided")
	ErrNoInputFiles     = errors.New("no input files specified")
	ErrEmptyPattern     = errors.New("match pattern cannot be empty")
	ErrInvalidFormat    = errors.New("format must be json or yaml")
	ErrInvalidWorkers   = errors.New("workers must be at least 1")
	ErrInvalidNesting   = errors.New("max-nesting must be at least 1")
	ErrInvalidMemory    = errors.New("max-memory cannot be negative")
	ErrConflictingModes = errors.New("only one of -match, -query and -paths can be used")
	ErrStdinRepeated    = errors.New("standard input can only be read once")
)

// Config represents the complete configuration for the encjson tool.
type Config struct {
	Files []string

	// Parsing
	Strict     bool
	MaxNesting int
	MaxMemory  int // Bytes available to each parse (0 = unlimited)

	// Output mode
	Matches []string
	Query   string
	Paths   bool
	Format  string

	// Execution
	Workers   int
	RateLimit float64 // Documents per second (0 = unlimited)
	Debug     bool

	ConfigFile string
}

// ParserOptions returns the parser options selected by the configuration.
func (c *Config) ParserOptions() *parser.Options {
	return &parser.Options{
		AllowWhitespace: !c.Strict,
		MaxNesting:      c.MaxNesting,
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if len(c.Files) == 0 {
		return ErrNoInputFiles
	}

	stdin := 0
	for _, file := range c.Files {
		if file == Stdin {
			stdin++
			continue
		}
		if _, err := os.Stat(file); err != nil {
			return fmt.Errorf("input file %s not found: %w", file, err)
		}
	}
	if stdin > 1 {
		return ErrStdinRepeated
	}

	modes := 0
	if len(c.Matches) > 0 {
		modes++
	}
	if c.Query != "" {
		modes++
	}
	if c.Paths {
		modes++
	}
	if modes > 1 {
		return ErrConflictingModes
	}

	for _, m := range c.Matches {
		if m == "" {
			return ErrEmptyPattern
		}
	}

	if c.Format != FormatJSON && c.Format != FormatYAML {
		return fmt.Errorf("%w, got: %s", ErrInvalidFormat, c.Format)
	}
	if c.Workers < 1 {
		return ErrInvalidWorkers
	}
	if c.MaxNesting < 1 {
		return ErrInvalidNesting
	}
	if c.MaxMemory < 0 {
		return ErrInvalidMemory
	}

	return nil
}

// matchFlag implements flag.Value for parsing multiple -match flags.
type matchFlag []string

// String returns a string representation of the match flag for flag.Value interface.
func (m *matchFlag) String() string {
	return strings.Join(*m, ",")
}

// Set stores a pattern for flag.Value interface.
func (m *matchFlag) Set(value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrEmptyPattern
	}
	*m = append(*m, value)
	return nil
}

// Parse parses command-line arguments and returns a validated Config.
// If parsing fails or help is requested, returns nil config and exit result.
func Parse(args []string) (*Config, *exit.Result) {
	if len(args) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoArguments, Usage())
	}

	fs := flag.NewFlagSet(args[0], flag.ContinueOnError)

	// Suppress the default usage output since we handle it ourselves
	fs.Usage = func() {}
	// Suppress error output since we handle it ourselves
	fs.SetOutput(io.Discard)

	var (
		strict     = fs.Bool("strict", false, "Reject whitespace between tokens")
		matches    matchFlag
		query      = fs.String("query", "", "JSONPath expression to select values")
		paths      = fs.Bool("paths", false, "Print the path of every value")
		format     = fs.String("format", FormatJSON, "Output format: json or yaml")
		workers    = fs.Int("workers", DefaultWorkers, "Number of documents processed concurrently")
		rateLimit  = fs.Float64("rate-limit", 0, "Rate limit in documents per second (0 for unlimited)")
		maxMemory  = fs.Int("max-memory", 0, "Bytes available to each parse (0 for unlimited)")
		maxNesting = fs.Int("max-nesting", parser.MaxNesting, "Maximum nesting of objects and arrays")
		debug      = fs.Bool("debug", false, "Log parser results with their source location")
		configFile = fs.String("config", "", "Path to YAML options file")
	)

	fs.Var(&matches, "match", "Print values whose path matches PATTERN (can be used multiple times)")

	if err := fs.Parse(args[1:]); err != nil {
		if err == flag.ErrHelp {
			return nil, exit.Success(Usage())
		}
		return nil, exit.Errorf("Error: failed to parse arguments: %v\n\n%s", err, Usage())
	}

	files := fs.Args()
	if len(files) == 0 {
		return nil, exit.Errorf("Error: %v\n\n%s", ErrNoInputFiles, Usage())
	}

	config := &Config{
		Files:      files,
		Format:     FormatJSON,
		Workers:    DefaultWorkers,
		MaxNesting: parser.MaxNesting,
		ConfigFile: *configFile,
	}

	// Options file first, then command-line flags that were set explicitly
	if *configFile != "" {
		opts, err := LoadFile(*configFile)
		if err != nil {
			return nil, exit.Errorf("Error: failed to load config file: %v\n\n%s", err, Usage())
		}
		opts.apply(config)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "strict":
			config.Strict = *strict
		case "match":
			config.Matches = []string(matches)
		case "query":
			config.Query = *query
		case "paths":
			config.Paths = *paths
		case "format":
			config.Format = *format
		case "workers":
			config.Workers = *workers
		case "rate-limit":
			config.RateLimit = *rateLimit
		case "max-memory":
			config.MaxMemory = *maxMemory
		case "max-nesting":
			config.MaxNesting = *maxNesting
		case "debug":
			config.Debug = *debug
		}
	})

	if err := config.Validate(); err != nil {
		return nil, exit.Errorf("Error: %v\n\n%s", err, Usage())
	}

	return config, nil
}

// Usage returns a usage string for the CLI tool.
func Usage() string {
	return `encjson - JSON parser, printer and path matcher

Usage: encjson [options] <file1> [file2] ...

Options:
  --strict                Reject whitespace between tokens
  --match PATTERN         Print "path = value" for values matching PATTERN (can be used multiple times)
  --query JSONPATH        Print the values selected by a JSONPath expression
  --paths                 Print the path of every value, with array sizes
  --format FORMAT         Output format for documents: json or yaml (default: json)
  --workers N             Number of documents processed concurrently (default: 4)
  --rate-limit N          Rate limit in documents per second (0 for unlimited)
  --max-memory BYTES      Bytes available to each parse (0 for unlimited)
  --max-nesting N         Maximum nesting of objects and arrays (default: 64)
  --debug                 Log parser results with their source location
  --config FILE           Path to YAML options file; flags override its values
  -h, --help              Show this help message

Patterns are dotted names; "#" matches any array index.
Files ending in .yaml or .yml are converted to JSON before parsing; "-" reads standard input.

Examples:
  encjson config.json                       # Pretty print a document
  encjson --format yaml config.json         # Print the document as YAML
  encjson --match servers.#.port a.json     # Print every server port
  encjson --query '$..name' a.json b.json   # Select values with JSONPath
  encjson --paths --strict compact.json     # List value paths of a compact document`
}
