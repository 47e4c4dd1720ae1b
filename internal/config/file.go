package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// FileOptions is the content of a YAML options file. Unset fields keep their
// defaults.
type FileOptions struct {
	Strict     *bool    `yaml:"strict"`
	Match      []string `yaml:"match"`
	Query      *string  `yaml:"query"`
	Paths      *bool    `yaml:"paths"`
	Format     *string  `yaml:"format"`
	Workers    *int     `yaml:"workers"`
	RateLimit  *float64 `yaml:"rate_limit"`
	MaxMemory  *int     `yaml:"max_memory"`
	MaxNesting *int     `yaml:"max_nesting"`
	Debug      *bool    `yaml:"debug"`
}

// LoadFile reads an options file. Unknown fields are rejected.
func LoadFile(filename string) (*FileOptions, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var opts FileOptions
	if err := yaml.UnmarshalWithOptions(data, &opts, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", filename, err)
	}

	return &opts, nil
}

func (o *FileOptions) apply(c *Config) {
	if o.Strict != nil {
		c.Strict = *o.Strict
	}
	if len(o.Match) > 0 {
		c.Matches = o.Match
	}
	if o.Query != nil {
		c.Query = *o.Query
	}
	if o.Paths != nil {
		c.Paths = *o.Paths
	}
	if o.Format != nil {
		c.Format = *o.Format
	}
	if o.Workers != nil {
		c.Workers = *o.Workers
	}
	if o.RateLimit != nil {
		c.RateLimit = *o.RateLimit
	}
	if o.MaxMemory != nil {
		c.MaxMemory = *o.MaxMemory
	}
	if o.MaxNesting != nil {
		c.MaxNesting = *o.MaxNesting
	}
	if o.Debug != nil {
		c.Debug = *o.Debug
	}
}
