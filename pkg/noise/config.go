// Package noise removes non-content blocks that document extractors emit
// alongside the real text: attachment listings, trailing filename lists,
// repeated running headers and per-page header/footer lines.
//
// Every pass mutates the tree in place and returns the number of elements
// it removed. Passes never panic on unexpected tree shapes; a document
// without a body or without page containers is simply left alone.
package noise

// Config holds the tunable thresholds of the noise passes. The defaults
// were chosen empirically and are meant to be tuned per corpus.
type Config struct {
	// === Attachment listings ===

	// MinPackageGroup is the number of filename-like package entries at
	// which all of them are removed regardless of position.
	MinPackageGroup int `json:"min_package_group" yaml:"min_package_group" mapstructure:"min_package_group" validate:"gte=1"`

	// TailScanLimit is the size of the body tail window used by the
	// concentration test for small package-entry groups.
	TailScanLimit int `json:"tail_scan_limit" yaml:"tail_scan_limit" mapstructure:"tail_scan_limit" validate:"gte=0"`

	// TrailingScanLimit is how many trailing body children are examined for
	// filename lists.
	TrailingScanLimit int `json:"trailing_scan_limit" yaml:"trailing_scan_limit" mapstructure:"trailing_scan_limit" validate:"gte=0"`

	// === Boilerplate ===

	// HeaderScanLimit is how many leading body children are considered as
	// running-header candidates.
	HeaderScanLimit int `json:"header_scan_limit" yaml:"header_scan_limit" mapstructure:"header_scan_limit" validate:"gte=0"`

	// MinHeaderRepeat is the occurrence count at which a leading text is
	// treated as boilerplate.
	MinHeaderRepeat int `json:"min_header_repeat" yaml:"min_header_repeat" mapstructure:"min_header_repeat" validate:"gte=2"`

	// MaxHeaderTextLen bounds the length (in characters) of texts that may
	// be classified as headers or footers.
	MaxHeaderTextLen int `json:"max_header_text_len" yaml:"max_header_text_len" mapstructure:"max_header_text_len" validate:"gte=1"`

	// === Page repeats ===

	// MinPageRepeat is the minimum number of pages a header or footer must
	// appear on. With a page count hint the threshold grows to half the
	// page count.
	MinPageRepeat int `json:"min_page_repeat" yaml:"min_page_repeat" mapstructure:"min_page_repeat" validate:"gte=2"`

	// === Pass switches ===

	SkipPackageEntries    bool `json:"skip_package_entries" yaml:"skip_package_entries" mapstructure:"skip_package_entries"`
	SkipAttachmentNames   bool `json:"skip_attachment_names" yaml:"skip_attachment_names" mapstructure:"skip_attachment_names"`
	SkipTrailingFilenames bool `json:"skip_trailing_filenames" yaml:"skip_trailing_filenames" mapstructure:"skip_trailing_filenames"`
	SkipBoilerplate       bool `json:"skip_boilerplate" yaml:"skip_boilerplate" mapstructure:"skip_boilerplate"`
	SkipPageRepeats       bool `json:"skip_page_repeats" yaml:"skip_page_repeats" mapstructure:"skip_page_repeats"`
}

// DefaultConfig returns the thresholds used by the extraction service.
func DefaultConfig() Config {
	return Config{
		MinPackageGroup:   2,
		TailScanLimit:     20,
		TrailingScanLimit: 3,
		HeaderScanLimit:   8,
		MinHeaderRepeat:   3,
		MaxHeaderTextLen:  200,
		MinPageRepeat:     3,
	}
}

// Merge returns a copy of c with non-zero values from other applied.
// Skip switches are sticky: once set by either side they stay set.
func (c Config) Merge(other Config) Config {
	merged := c

	if other.MinPackageGroup > 0 {
		merged.MinPackageGroup = other.MinPackageGroup
	}
	if other.TailScanLimit > 0 {
		merged.TailScanLimit = other.TailScanLimit
	}
	if other.TrailingScanLimit > 0 {
		merged.TrailingScanLimit = other.TrailingScanLimit
	}
	if other.HeaderScanLimit > 0 {
		merged.HeaderScanLimit = other.HeaderScanLimit
	}
	if other.MinHeaderRepeat > 0 {
		merged.MinHeaderRepeat = other.MinHeaderRepeat
	}
	if other.MaxHeaderTextLen > 0 {
		merged.MaxHeaderTextLen = other.MaxHeaderTextLen
	}
	if other.MinPageRepeat > 0 {
		merged.MinPageRepeat = other.MinPageRepeat
	}

	if other.SkipPackageEntries {
		merged.SkipPackageEntries = true
	}
	if other.SkipAttachmentNames {
		merged.SkipAttachmentNames = true
	}
	if other.SkipTrailingFilenames {
		merged.SkipTrailingFilenames = true
	}
	if other.SkipBoilerplate {
		merged.SkipBoilerplate = true
	}
	if other.SkipPageRepeats {
		merged.SkipPageRepeats = true
	}

	return merged
}

// PageThreshold returns the number of pages a header or footer text must
// repeat on. pageCount <= 0 means the page count is unknown.
func (c Config) PageThreshold(pageCount int) int {
	threshold := c.MinPageRepeat
	if threshold <= 0 {
		threshold = DefaultConfig().MinPageRepeat
	}
	if pageCount > 0 && pageCount/2 > threshold {
		threshold = pageCount / 2
	}
	return threshold
}
