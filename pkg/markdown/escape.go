package markdown

import "strings"

// emphasisEscaper keeps literal asterisks and underscores in prose from
// opening emphasis.
var emphasisEscaper = strings.NewReplacer(`*`, `\*`, `_`, `\_`)

// escapeText backslash-escapes prose. At the start of a line it also
// escapes a marker that would open a heading, blockquote or list.
func escapeText(s string, lineStart bool) string {
	s = emphasisEscaper.Replace(s)
	if lineStart {
		s = escapeLineStart(s)
	}
	return s
}

func escapeLineStart(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '#', '>':
		return `\` + s
	case '-', '+':
		if len(s) == 1 || s[1] == ' ' {
			return `\` + s
		}
		return s
	}

	// "1. " and "1) " open an ordered list.
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(s) || (s[i] != '.' && s[i] != ')') {
		return s
	}
	if i+1 < len(s) && s[i+1] != ' ' {
		return s
	}
	return s[:i] + `\` + s[i:]
}
