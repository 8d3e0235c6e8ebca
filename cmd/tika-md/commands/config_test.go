package commands

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lloydzhou/tika-parser/pkg/pipeline"
)

func newPipelineCmd(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addPipelineFlags(cmd)
	for name, value := range flags {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("setting --%s: %v", name, err)
		}
	}
	return cmd
}

func TestLoadPipelineConfig_Defaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cfg, err := loadPipelineConfig(newPipelineCmd(t, nil))
	if err != nil {
		t.Fatalf("loadPipelineConfig() error = %v", err)
	}
	def := pipeline.DefaultConfig()
	if strings.Join(cfg.PruneSelectors, ",") != strings.Join(def.PruneSelectors, ",") {
		t.Errorf("PruneSelectors = %v", cfg.PruneSelectors)
	}
	if cfg.Noise != def.Noise || cfg.Images != def.Images {
		t.Errorf("config differs from defaults: %+v", cfg)
	}
}

func TestLoadPipelineConfig_FileAndFlags(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("pipeline", map[string]any{
		"prune_selectors": []string{"nav"},
		"noise": map[string]any{
			"min_header_repeat": 4,
			"skip_boilerplate":  true,
		},
		"images": map[string]any{
			"skip_inline": true,
		},
	})

	cmd := newPipelineCmd(t, map[string]string{
		"prune":           ".ads",
		"skip-tables":     "true",
		"min-page-repeat": "5",
	})
	cfg, err := loadPipelineConfig(cmd)
	if err != nil {
		t.Fatalf("loadPipelineConfig() error = %v", err)
	}

	if got := strings.Join(cfg.PruneSelectors, ","); got != "nav,.ads" {
		t.Errorf("PruneSelectors = %s, want nav,.ads", got)
	}
	if cfg.Noise.MinHeaderRepeat != 4 || !cfg.Noise.SkipBoilerplate {
		t.Errorf("noise config not read from file: %+v", cfg.Noise)
	}
	if cfg.Noise.MinPageRepeat != 5 {
		t.Errorf("MinPageRepeat = %d, want 5", cfg.Noise.MinPageRepeat)
	}
	if cfg.Noise.TailScanLimit != pipeline.DefaultConfig().Noise.TailScanLimit {
		t.Errorf("absent key lost its default: %d", cfg.Noise.TailScanLimit)
	}
	if !cfg.Images.SkipInline {
		t.Error("skip_inline: true ignored")
	}
	if cfg.Images.KeepUnsupported {
		t.Error("keep_unsupported default lost")
	}
	if !cfg.SkipTables {
		t.Error("--skip-tables ignored")
	}
}

func TestLoadPipelineConfig_Invalid(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	if _, err := loadPipelineConfig(newPipelineCmd(t, map[string]string{"prune": "div["})); err == nil {
		t.Error("expected error for invalid selector")
	}

	viper.Set("pipeline", map[string]any{"noise": map[string]any{"min_header_repeat": 1}})
	if _, err := loadPipelineConfig(newPipelineCmd(t, nil)); err == nil || !strings.Contains(err.Error(), "MinHeaderRepeat") {
		t.Errorf("expected MinHeaderRepeat error, got %v", err)
	}
}

func TestLoadPipelineConfig_NoInline(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cfg, err := loadPipelineConfig(newPipelineCmd(t, map[string]string{"no-inline": "true"}))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Images.SkipInline {
		t.Error("--no-inline ignored")
	}
}
