// Package images rewrites image elements: it synthesizes alternative text
// from the prose around each image and embeds attachment bytes as data
// URIs when they hold a supported raster format.
package images

// Config controls image annotation and resolution.
type Config struct {
	// SkipInline leaves sources that match an attachment as they are
	// instead of replacing them with a base64 data URI.
	SkipInline bool `json:"skip_inline" yaml:"skip_inline" mapstructure:"skip_inline"`

	// KeepUnsupported keeps images whose matched attachment is not a
	// supported raster format (WMF, EMF, SVG, corrupt data). By default
	// they are removed.
	KeepUnsupported bool `json:"keep_unsupported" yaml:"keep_unsupported" mapstructure:"keep_unsupported"`

	// MaxFragmentLen is the maximum length, in characters, of each context
	// fragment before it is truncated with an ellipsis.
	MaxFragmentLen int `json:"max_fragment_len" yaml:"max_fragment_len" mapstructure:"max_fragment_len" validate:"gte=1"`

	// MaxAncestors is how many ancestor levels are searched for context
	// when the image's own siblings have none.
	MaxAncestors int `json:"max_ancestors" yaml:"max_ancestors" mapstructure:"max_ancestors" validate:"gte=0"`
}

// DefaultConfig returns the settings used by the extraction service.
func DefaultConfig() Config {
	return Config{
		MaxFragmentLen: 120,
		MaxAncestors:   4,
	}
}

// Merge returns a copy of c with the positive limits of other applied.
// Skip and keep switches are sticky: once set by either side they stay set.
func (c Config) Merge(other Config) Config {
	merged := c
	if other.MaxFragmentLen > 0 {
		merged.MaxFragmentLen = other.MaxFragmentLen
	}
	if other.MaxAncestors > 0 {
		merged.MaxAncestors = other.MaxAncestors
	}
	if other.SkipInline {
		merged.SkipInline = true
	}
	if other.KeepUnsupported {
		merged.KeepUnsupported = true
	}
	return merged
}
