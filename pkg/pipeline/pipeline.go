// Package pipeline wires the tree builder, the cleanup passes and the
// Markdown serializer into a single conversion.
package pipeline

import (
	"fmt"
	"time"

	"github.com/lloydzhou/tika-parser/internal/logger"
	"github.com/lloydzhou/tika-parser/pkg/attachment"
	"github.com/lloydzhou/tika-parser/pkg/dom"
	"github.com/lloydzhou/tika-parser/pkg/markdown"
)

// Input is one document as returned by the extraction service.
type Input struct {
	// HTML is the raw XHTML markup.
	HTML string

	// Attachments maps embedded resource basenames to their bytes.
	Attachments attachment.Map

	// PageCount is the page count from the document metadata, or 0 when
	// unknown.
	PageCount int
}

// Converter turns extracted markup into Markdown. A Converter holds no
// per-document state and is safe for concurrent use.
type Converter struct {
	config *Config
	stages []Stage
}

// New creates a Converter. A nil config uses DefaultConfig. Extra stages
// run after the built-in ones, right before serialization.
func New(config *Config, extra ...Stage) *Converter {
	if config == nil {
		config = DefaultConfig()
	}
	stages := defaultStages(config)
	stages = append(stages, extra...)
	return &Converter{config: config, stages: stages}
}

// Config returns the converter's configuration.
func (c *Converter) Config() *Config {
	return c.config
}

// Name describes the enabled stages for logging.
func (c *Converter) Name() string {
	return chainName(c.stages)
}

// Convert converts raw markup to Markdown.
func (c *Converter) Convert(raw string, atts attachment.Map, pageCount int) string {
	return c.ConvertWithStats(Input{HTML: raw, Attachments: atts, PageCount: pageCount}).Markdown
}

// ConvertWithStats converts a document and reports what each stage did.
// It never fails: a stage that panics is rolled back and recorded as a
// warning, and the remaining stages still run.
func (c *Converter) ConvertWithStats(in Input) *Result {
	start := time.Now()

	buildStart := time.Now()
	tree := dom.BuildWith(in.HTML, dom.BuildOptions{PruneSelectors: c.config.PruneSelectors})
	buildDuration := time.Since(buildStart)

	result := c.ConvertTree(tree, in.Attachments, in.PageCount)
	result.Stats.InputBytes = len(in.HTML)
	result.Stats.Durations[StageBuild] = buildDuration
	result.Stats.TotalDuration = time.Since(start)
	return result
}

// ConvertTree runs the cleanup passes and the serializer over an already
// built tree, which is mutated in place.
func (c *Converter) ConvertTree(tree *dom.Tree, atts attachment.Map, pageCount int) *Result {
	start := time.Now()
	if tree == nil {
		tree = dom.New("html")
	}
	result := &Result{Stats: NewStats(), Tree: tree}
	stats := result.Stats
	env := &Env{Attachments: atts, PageCount: pageCount, Stats: stats}

	for _, stage := range c.stages {
		stageStart := time.Now()
		guard(tree, result, stage.Name(), func() {
			stage.Apply(tree, env)
		})
		stats.Durations[stage.Name()] = time.Since(stageStart)
	}

	serializeStart := time.Now()
	result.Markdown = serialize(tree, result)
	stats.Durations[StageSerialize] = time.Since(serializeStart)

	stats.Nodes = tree.Len()
	stats.OutputBytes = len(result.Markdown)
	stats.TotalDuration = time.Since(start)

	logger.Debug("document converted",
		"stages", c.Name(),
		"nodes", stats.Nodes,
		"removed", stats.TotalRemoved(),
		"tables", stats.TablesNormalized,
		"images", stats.Images.Annotated,
		"output_bytes", stats.OutputBytes,
		"warnings", len(result.Warnings))
	return result
}

// guard runs fn and restores the tree to its prior state if fn panics.
func guard(tree *dom.Tree, result *Result, stage string, fn func()) {
	snapshot := tree.Clone()
	defer func() {
		if r := recover(); r != nil {
			*tree = *snapshot
			result.AddWarning(stage, "stage failed, tree left unchanged", fmt.Sprint(r))
			logger.Warn("stage failed, tree left unchanged", "stage", stage, "panic", r)
		}
	}()
	fn()
}

// serialize renders the tree, falling back to its plain text if the
// serializer fails.
func serialize(tree *dom.Tree, result *Result) (md string) {
	defer func() {
		if r := recover(); r != nil {
			result.AddWarning(StageSerialize, "serializer failed, emitting plain text", fmt.Sprint(r))
			logger.Warn("serializer failed, emitting plain text", "panic", r)
			md = markdown.Clean(tree.NormalizedText(tree.Root()))
		}
	}()
	return markdown.Serialize(tree)
}

// Convert converts raw markup with the default configuration.
func Convert(raw string, atts attachment.Map, pageCount int) string {
	return New(nil).Convert(raw, atts, pageCount)
}
