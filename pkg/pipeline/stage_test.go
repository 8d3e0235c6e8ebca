package pipeline

import (
	"strings"
	"testing"

	"github.com/lloydzhou/tika-parser/pkg/dom"
)

func TestDefaultStages_Order(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(cfg *Config)
		want   string
	}{
		{
			name:   "all enabled",
			mutate: func(*Config) {},
			want:   "chain(page_repeats->tables->images->package_entries->attachment_names->trailing_filenames->boilerplate)",
		},
		{
			name: "tables and boilerplate skipped",
			mutate: func(cfg *Config) {
				cfg.SkipTables = true
				cfg.Noise.SkipBoilerplate = true
			},
			want: "chain(page_repeats->images->package_entries->attachment_names->trailing_filenames)",
		},
		{
			name: "everything skipped",
			mutate: func(cfg *Config) {
				cfg.SkipTables = true
				cfg.SkipImages = true
				cfg.Noise.SkipPageRepeats = true
				cfg.Noise.SkipPackageEntries = true
				cfg.Noise.SkipAttachmentNames = true
				cfg.Noise.SkipTrailingFilenames = true
				cfg.Noise.SkipBoilerplate = true
			},
			want: "chain()",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if got := New(cfg).Name(); got != tt.want {
				t.Errorf("Name() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestConverter_ExtraStage(t *testing.T) {
	upper := StageFunc{
		StageName: "upper",
		Fn: func(tree *dom.Tree, _ *Env) {
			p := tree.FindFirst(tree.Root(), "p")
			tree.SetText(p, strings.ToUpper(tree.Text(p)))
		},
	}

	c := New(nil, upper)
	if !strings.HasSuffix(c.Name(), "->upper)") {
		t.Errorf("Name() = %s, extra stage should run last", c.Name())
	}

	result := c.ConvertWithStats(Input{HTML: `<p>quiet words</p>`})
	if result.Markdown != "QUIET WORDS" {
		t.Errorf("Markdown = %q", result.Markdown)
	}
	if _, ok := result.Stats.Durations["upper"]; !ok {
		t.Error("extra stage not timed")
	}
}

func TestConverter_PanickingStageRolledBack(t *testing.T) {
	broken := StageFunc{
		StageName: "broken",
		Fn: func(tree *dom.Tree, _ *Env) {
			tree.Remove(tree.FindFirst(tree.Root(), "p"))
			panic("index out of range")
		},
	}

	result := New(nil, broken).ConvertWithStats(Input{HTML: `<p>first</p><p>second</p>`})
	if result.Markdown != "first\n\nsecond" {
		t.Errorf("Markdown = %q, want both paragraphs", result.Markdown)
	}
	if !result.HasWarnings() {
		t.Fatal("expected a warning")
	}
	w := result.Warnings[0]
	if w.Stage != "broken" || w.Context != "index out of range" {
		t.Errorf("warning = %+v", w)
	}
}

func TestAttachmentStage_NoAttachments(t *testing.T) {
	result := New(nil).ConvertWithStats(Input{HTML: `<p>image1.png</p><p>Body text here.</p>`})
	if _, ok := result.Stats.Removed[StageAttachments]; ok {
		t.Error("attachment pass ran without attachments")
	}
}
