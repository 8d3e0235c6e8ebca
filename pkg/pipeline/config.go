package pipeline

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/go-playground/validator/v10"

	"github.com/lloydzhou/tika-parser/pkg/dom"
	"github.com/lloydzhou/tika-parser/pkg/images"
	"github.com/lloydzhou/tika-parser/pkg/noise"
)

// Config defines every tunable of the conversion pipeline.
type Config struct {
	// PruneSelectors are CSS selectors dropped while the tree is built.
	// The defaults remove title, script and style elements.
	PruneSelectors []string `json:"prune_selectors" yaml:"prune_selectors" mapstructure:"prune_selectors" validate:"dive,required,css_selector"`

	// SkipTables disables header-row promotion for tables.
	SkipTables bool `json:"skip_tables" yaml:"skip_tables" mapstructure:"skip_tables"`

	// SkipImages disables alt text synthesis and attachment inlining.
	SkipImages bool `json:"skip_images" yaml:"skip_images" mapstructure:"skip_images"`

	Noise  noise.Config  `json:"noise" yaml:"noise" mapstructure:"noise"`
	Images images.Config `json:"images" yaml:"images" mapstructure:"images"`
}

// DefaultConfig returns the configuration used by the extraction service.
func DefaultConfig() *Config {
	return &Config{
		PruneSelectors: append([]string(nil), dom.DefaultPruneSelectors...),
		Noise:          noise.DefaultConfig(),
		Images:         images.DefaultConfig(),
	}
}

// Merge merges another config into this one.
// Non-zero values from other override this config; skip switches are
// sticky and selectors are appended without duplicates.
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	merged := *c
	merged.PruneSelectors = append([]string(nil), c.PruneSelectors...)

	if other.SkipTables {
		merged.SkipTables = true
	}
	if other.SkipImages {
		merged.SkipImages = true
	}

	seen := make(map[string]bool, len(merged.PruneSelectors))
	for _, s := range merged.PruneSelectors {
		seen[s] = true
	}
	for _, s := range other.PruneSelectors {
		if !seen[s] {
			merged.PruneSelectors = append(merged.PruneSelectors, s)
			seen[s] = true
		}
	}

	merged.Noise = c.Noise.Merge(other.Noise)
	merged.Images = c.Images.Merge(other.Images)
	return &merged
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("css_selector", func(fl validator.FieldLevel) bool {
		_, err := cascadia.Compile(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate checks thresholds and selectors.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("invalid config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s fails %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}
