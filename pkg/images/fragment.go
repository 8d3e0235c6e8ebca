package images

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lloydzhou/tika-parser/pkg/dom"
)

// sentenceEnd matches a run of sentence terminators, Latin and CJK, and
// the whitespace that follows it.
var sentenceEnd = regexp.MustCompile(`[.?!。！？…]+\s*`)

const ellipsis = "…"

// markdownUnsafe are the characters removed from generated alt text
// because they could break image or link syntax.
const markdownUnsafe = "[]()<>`*_~!"

// Sentences splits text into sentence-like fragments. Each fragment keeps
// its terminating punctuation.
func Sentences(text string) []string {
	s := dom.NormalizeText(text)
	if s == "" {
		return nil
	}
	var out []string
	push := func(seg string) {
		seg = strings.TrimSpace(seg)
		switch {
		case seg == "":
		case !dom.IsMeaningful(seg) && len(out) > 0:
			// Stray punctuation such as a closing bracket belongs to the
			// sentence before it.
			out[len(out)-1] += seg
		default:
			out = append(out, seg)
		}
	}
	start := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(s, -1) {
		push(s[start:loc[1]])
		start = loc[1]
	}
	push(s[start:])
	return out
}

// LastFragment returns the last sentence of text, truncated to maxLen
// characters.
func LastFragment(text string, maxLen int) string {
	parts := Sentences(text)
	if len(parts) == 0 {
		return ""
	}
	return truncate(parts[len(parts)-1], maxLen)
}

// FirstFragment returns the first sentence of text, truncated to maxLen
// characters.
func FirstFragment(text string, maxLen int) string {
	parts := Sentences(text)
	if len(parts) == 0 {
		return ""
	}
	return truncate(parts[0], maxLen)
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 || utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return strings.TrimRightFunc(string(runes[:maxLen]), unicode.IsSpace) + ellipsis
}

// ComposeAlt joins the preceding and following fragments and strips
// characters that would corrupt Markdown. Either side may be empty.
func ComposeAlt(prev, next string) string {
	var joined string
	switch {
	case prev != "" && next != "":
		joined = prev + " " + next
	case prev != "":
		joined = prev
	default:
		joined = next
	}
	cleaned := strings.Map(func(r rune) rune {
		if strings.ContainsRune(markdownUnsafe, r) {
			return -1
		}
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, joined)
	return strings.Join(strings.Fields(cleaned), " ")
}
