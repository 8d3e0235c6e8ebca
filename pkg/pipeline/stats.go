package pipeline

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lloydzhou/tika-parser/pkg/dom"
	"github.com/lloydzhou/tika-parser/pkg/images"
)

// Stage names, used for stats, warnings and logs.
const (
	StageBuild       = "build"
	StagePages       = "page_repeats"
	StageTables      = "tables"
	StageImages      = "images"
	StagePackages    = "package_entries"
	StageAttachments = "attachment_names"
	StageTrailing    = "trailing_filenames"
	StageBoilerplate = "boilerplate"
	StageSerialize   = "serialize"
)

// Stats captures what the pipeline did to one document.
type Stats struct {
	InputBytes  int `json:"input_bytes" yaml:"input_bytes"`
	OutputBytes int `json:"output_bytes" yaml:"output_bytes"`
	Nodes       int `json:"nodes" yaml:"nodes"`

	// Removed counts detached subtrees per noise pass.
	Removed map[string]int `json:"removed" yaml:"removed"`

	TablesNormalized int           `json:"tables_normalized" yaml:"tables_normalized"`
	Images           images.Report `json:"images" yaml:"images"`

	// Durations holds the wall time of every stage that ran. Durations
	// encode as integer nanoseconds.
	Durations     map[string]time.Duration `json:"durations_ns" yaml:"durations_ns"`
	TotalDuration time.Duration            `json:"total_duration_ns" yaml:"total_duration_ns"`
}

// NewStats creates a new Stats instance with initialized maps.
func NewStats() *Stats {
	return &Stats{
		Removed:   make(map[string]int),
		Durations: make(map[string]time.Duration),
	}
}

// ReductionPercent returns the percentage reduction in size.
func (s *Stats) ReductionPercent() float64 {
	if s.InputBytes == 0 {
		return 0
	}
	return float64(s.InputBytes-s.OutputBytes) / float64(s.InputBytes) * 100
}

// TotalRemoved returns the sum of all noise removals.
func (s *Stats) TotalRemoved() int {
	total := 0
	for _, n := range s.Removed {
		total += n
	}
	return total
}

// String returns a human-readable summary of the stats.
func (s *Stats) String() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Size: %s -> %s (%.1f%% reduction)\n",
		humanize.Bytes(uint64(s.InputBytes)), humanize.Bytes(uint64(s.OutputBytes)), s.ReductionPercent()))

	sb.WriteString(fmt.Sprintf("Nodes: %s, %d noise blocks removed\n",
		humanize.Comma(int64(s.Nodes)), s.TotalRemoved()))

	if len(s.Removed) > 0 {
		parts := make([]string, 0, len(s.Removed))
		for _, stage := range stageOrder {
			if n, ok := s.Removed[stage]; ok && n > 0 {
				parts = append(parts, fmt.Sprintf("%s=%d", stage, n))
			}
		}
		if len(parts) > 0 {
			sb.WriteString("Removed by pass: ")
			sb.WriteString(strings.Join(parts, ", "))
			sb.WriteString("\n")
		}
	}

	if s.TablesNormalized > 0 {
		sb.WriteString(fmt.Sprintf("Tables normalized: %d\n", s.TablesNormalized))
	}

	if s.Images.Annotated > 0 {
		sb.WriteString(fmt.Sprintf("Images: %d annotated, %d inlined, %d dropped\n",
			s.Images.Annotated, s.Images.Inlined, s.Images.Dropped))
	}

	timings := make([]string, 0, len(s.Durations)+1)
	for _, stage := range stageOrder {
		if d, ok := s.Durations[stage]; ok {
			timings = append(timings, fmt.Sprintf("%s=%v", stage, d.Round(time.Microsecond)))
		}
	}
	timings = append(timings, fmt.Sprintf("total=%v", s.TotalDuration.Round(time.Microsecond)))
	sb.WriteString("Timing: ")
	sb.WriteString(strings.Join(timings, ", "))
	sb.WriteString("\n")

	return sb.String()
}

var stageOrder = []string{
	StageBuild, StagePages, StageTables, StageImages, StagePackages,
	StageAttachments, StageTrailing, StageBoilerplate, StageSerialize,
}

// Warning represents a non-fatal issue encountered during conversion.
type Warning struct {
	Stage   string `json:"stage" yaml:"stage"`
	Message string `json:"message" yaml:"message"`
	Context string `json:"context,omitempty" yaml:"context,omitempty"`
}

// String returns a formatted warning message.
func (w Warning) String() string {
	if w.Context != "" {
		return fmt.Sprintf("[%s] %s (context: %s)", w.Stage, w.Message, w.Context)
	}
	return fmt.Sprintf("[%s] %s", w.Stage, w.Message)
}

// Result contains the output of one conversion.
type Result struct {
	// Markdown is the serialized document. A stage that fails leaves the
	// tree as it was, so Markdown is produced even then.
	Markdown string `json:"markdown"`

	Stats    *Stats    `json:"stats"`
	Warnings []Warning `json:"warnings,omitempty"`

	// Tree is the cleaned tree the Markdown was produced from.
	Tree *dom.Tree `json:"-"`
}

// AddWarning adds a warning to the result.
func (r *Result) AddWarning(stage, message, context string) {
	r.Warnings = append(r.Warnings, Warning{
		Stage:   stage,
		Message: message,
		Context: context,
	})
}

// HasWarnings returns true if there are any warnings.
func (r *Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}
