package dom

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// TextContent returns the raw visible text of the subtree rooted at id:
// the element's own text, its descendants' text and the tails of its
// descendants. The element's own tail is not included.
func (t *Tree) TextContent(id NodeID) string {
	var sb strings.Builder
	t.Walk(id, func(n NodeID, entering bool) WalkStatus {
		if entering {
			sb.WriteString(t.nodes[n].text)
		} else if n != id {
			sb.WriteString(t.nodes[n].tail)
		}
		return WalkContinue
	})
	return sb.String()
}

// NormalizedText returns the subtree's text with each text piece trimmed,
// pieces joined by single spaces and whitespace runs collapsed. Two
// subtrees that differ only in formatting whitespace produce the same
// value.
func (t *Tree) NormalizedText(id NodeID) string {
	var pieces []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			pieces = append(pieces, s)
		}
	}
	t.Walk(id, func(n NodeID, entering bool) WalkStatus {
		if entering {
			add(t.nodes[n].text)
		} else if n != id {
			add(t.nodes[n].tail)
		}
		return WalkContinue
	})
	return NormalizeText(strings.Join(pieces, " "))
}

// NormalizeText collapses whitespace runs to one space, trims the ends and
// composes the result to NFC.
func NormalizeText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if !norm.NFC.IsNormalString(s) {
		s = norm.NFC.String(s)
	}
	return s
}

// IsMeaningful reports whether s contains at least one letter or digit,
// i.e. it is not made only of whitespace, punctuation and underscores.
func IsMeaningful(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return true
		}
	}
	return false
}

// HasDescendant reports whether the subtree below id contains an element
// with one of the given tags.
func (t *Tree) HasDescendant(id NodeID, tags ...string) bool {
	return t.FindFirst(id, tags...) != None
}

// ShortText returns NormalizedText(id) when the result has at most limit
// characters. Larger subtrees are abandoned early and reported with
// ok == false, which keeps repeated-text scans over big documents cheap.
func (t *Tree) ShortText(id NodeID, limit int) (text string, ok bool) {
	var (
		pieces []string
		seen   int
		over   bool
	)
	add := func(s string) {
		if s = strings.TrimSpace(s); s == "" {
			return
		}
		pieces = append(pieces, s)
		for _, r := range s {
			if !unicode.IsSpace(r) {
				seen++
			}
		}
		// NFC composition can shrink the text, so allow some slack before
		// giving up.
		over = seen > 2*limit
	}
	t.Walk(id, func(n NodeID, entering bool) WalkStatus {
		if entering {
			add(t.nodes[n].text)
		} else if n != id {
			add(t.nodes[n].tail)
		}
		if over {
			return WalkStop
		}
		return WalkContinue
	})
	if over {
		return "", false
	}
	text = NormalizeText(strings.Join(pieces, " "))
	if utf8.RuneCountInString(text) > limit {
		return "", false
	}
	return text, true
}
