// Package output writes conversion reports in the formats supported by
// the CLI.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/lloydzhou/tika-parser/pkg/pipeline"
)

// Format represents output format types.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatText, FormatJSON, FormatJSONL, FormatYAML:
		return f, nil
	case "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", s)
	}
}

// Report describes the conversion of one document.
type Report struct {
	Source   string             `json:"source" yaml:"source"`
	Output   string             `json:"output,omitempty" yaml:"output,omitempty"`
	Stats    *pipeline.Stats    `json:"stats,omitempty" yaml:"stats,omitempty"`
	Warnings []pipeline.Warning `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Error    string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewReport builds a report from a pipeline result.
func NewReport(source, out string, result *pipeline.Result) Report {
	r := Report{Source: source, Output: out}
	if result != nil {
		r.Stats = result.Stats
		r.Warnings = result.Warnings
	}
	return r
}

// Failed builds a report for a document that could not be converted.
func Failed(source string, err error) Report {
	return Report{Source: source, Error: err.Error()}
}

// Writer handles report serialization. Implementations are safe for
// concurrent use.
type Writer interface {
	// Write outputs a single report.
	Write(r Report) error

	// Flush ensures all data is written.
	Flush() error

	// Close releases resources.
	Close() error
}

// WriterOption configures a writer.
type WriterOption func(*writerConfig)

type writerConfig struct {
	pretty bool
	indent string
}

// WithPretty enables pretty-printing.
func WithPretty(enabled bool) WriterOption {
	return func(c *writerConfig) {
		c.pretty = enabled
	}
}

// WithIndent sets the indentation string.
func WithIndent(indent string) WriterOption {
	return func(c *writerConfig) {
		c.indent = indent
	}
}

// NewWriter creates a writer for the specified format.
func NewWriter(w io.Writer, format Format, opts ...WriterOption) (Writer, error) {
	cfg := &writerConfig{
		pretty: true,
		indent: "  ",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	switch format {
	case FormatText:
		return NewTextWriter(w), nil
	case FormatJSON:
		return NewJSONWriter(w, cfg.pretty, cfg.indent), nil
	case FormatJSONL:
		return NewJSONLWriter(w), nil
	case FormatYAML:
		return NewYAMLWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", format)
	}
}
