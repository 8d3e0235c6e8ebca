package noise

import (
	"regexp"
	"strings"

	"github.com/lloydzhou/tika-parser/pkg/attachment"
)

// filenameRegex matches attachment-like names: long numeric names such as
// "_000123.png" or short names with a 1-6 character extension.
var filenameRegex = regexp.MustCompile(`(?i)^_?\p{Nd}{6,}\.[\p{L}\p{N}_]+$|^[\p{L}\p{N}_\-. ]{1,40}\.[\p{L}\p{N}_]{1,6}$`)

// tokenSplitRegex separates entries in a filename list.
var tokenSplitRegex = regexp.MustCompile(`[\s,;]+`)

// LooksLikeFilename reports whether s is shaped like an attachment name.
func LooksLikeFilename(s string) bool {
	return s != "" && filenameRegex.MatchString(s)
}

// Tokens splits a filename list on whitespace, commas and semicolons.
func Tokens(s string) []string {
	parts := tokenSplitRegex.Split(strings.TrimSpace(s), -1)
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// isFilenameList reports whether every token of text is either
// filename-shaped or the name of a known attachment.
func isFilenameList(text string, atts attachment.Map) bool {
	tokens := Tokens(text)
	if len(tokens) == 0 {
		return false
	}
	for _, tok := range tokens {
		if LooksLikeFilename(tok) {
			continue
		}
		if atts.Has(tok) {
			continue
		}
		return false
	}
	return true
}
