package pipeline

import (
	"strings"

	"github.com/lloydzhou/tika-parser/pkg/attachment"
	"github.com/lloydzhou/tika-parser/pkg/dom"
	"github.com/lloydzhou/tika-parser/pkg/images"
	"github.com/lloydzhou/tika-parser/pkg/noise"
	"github.com/lloydzhou/tika-parser/pkg/tables"
)

// Env is the per-document context handed to every stage.
type Env struct {
	Attachments attachment.Map
	PageCount   int
	Stats       *Stats
}

// Stage is one tree-mutating step run before serialization.
type Stage interface {
	// Name identifies the stage in stats, warnings and logs.
	Name() string

	// Apply mutates the tree in place.
	Apply(t *dom.Tree, env *Env)
}

// StageFunc adapts a function to the Stage interface.
type StageFunc struct {
	StageName string
	Fn        func(t *dom.Tree, env *Env)
}

// Name returns the stage name.
func (s StageFunc) Name() string { return s.StageName }

// Apply calls the function.
func (s StageFunc) Apply(t *dom.Tree, env *Env) { s.Fn(t, env) }

// defaultStages returns the built-in stages enabled by cfg, in pipeline
// order: page repeats, tables, images, then the structural noise passes.
func defaultStages(cfg *Config) []Stage {
	var stages []Stage
	add := func(enabled bool, name string, fn func(t *dom.Tree, env *Env)) {
		if enabled {
			stages = append(stages, StageFunc{StageName: name, Fn: fn})
		}
	}

	add(!cfg.Noise.SkipPageRepeats, StagePages, func(t *dom.Tree, env *Env) {
		env.Stats.Removed[StagePages] = noise.RemovePageRepeats(t, cfg.Noise, env.PageCount)
	})
	add(!cfg.SkipTables, StageTables, func(t *dom.Tree, env *Env) {
		env.Stats.TablesNormalized = tables.Normalize(t)
	})
	add(!cfg.SkipImages, StageImages, func(t *dom.Tree, env *Env) {
		env.Stats.Images = images.Annotate(t, env.Attachments, cfg.Images)
	})
	add(!cfg.Noise.SkipPackageEntries, StagePackages, func(t *dom.Tree, env *Env) {
		env.Stats.Removed[StagePackages] = noise.RemovePackageEntries(t, cfg.Noise)
	})
	add(!cfg.Noise.SkipAttachmentNames, StageAttachments, func(t *dom.Tree, env *Env) {
		if len(env.Attachments) > 0 {
			env.Stats.Removed[StageAttachments] = noise.RemoveAttachmentNames(t, env.Attachments)
		}
	})
	add(!cfg.Noise.SkipTrailingFilenames, StageTrailing, func(t *dom.Tree, env *Env) {
		env.Stats.Removed[StageTrailing] = noise.TrimTrailingFilenames(t, env.Attachments, cfg.Noise)
	})
	add(!cfg.Noise.SkipBoilerplate, StageBoilerplate, func(t *dom.Tree, env *Env) {
		env.Stats.Removed[StageBoilerplate] = noise.RemoveBoilerplate(t, cfg.Noise)
	})
	return stages
}

// chainName describes a stage sequence, e.g. "chain(tables->images)".
func chainName(stages []Stage) string {
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = s.Name()
	}
	return "chain(" + strings.Join(names, "->") + ")"
}
