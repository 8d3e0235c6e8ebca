// Package markdown serializes a cleaned document tree into Markdown in a
// single depth-first walk.
package markdown

import (
	"bytes"
	"regexp"
	"strings"
	"unicode"

	"github.com/lloydzhou/tika-parser/pkg/dom"
)

// frame is one open formatting context on the serializer stack.
type frame struct {
	id   dom.NodeID
	kind kind

	marker  string // emphasis delimiter or list item marker
	href    string // link target
	ordered bool   // list kind
	indent  int    // content indentation of a list item

	open  int // buffer offset of the opening markup
	start int // buffer offset where the content begins

	saved []byte // enclosing output while a blockquote renders
}

type serializer struct {
	t     *dom.Tree
	buf   []byte
	stack []frame
}

// Serialize renders the tree as Markdown. The output depends only on the
// tree, so equal trees always produce identical bytes.
func Serialize(t *dom.Tree) string {
	if t == nil {
		return ""
	}
	return Clean(render(t, t.Root()))
}

// render serializes the subtree rooted at id without final cleanup. The
// root's own tail is not part of the output.
func render(t *dom.Tree, id dom.NodeID) string {
	s := &serializer{t: t}
	t.Walk(id, func(n dom.NodeID, entering bool) dom.WalkStatus {
		if entering {
			return s.enter(n)
		}
		s.exit(n)
		if n != id {
			s.text(t.Tail(n))
		}
		return dom.WalkContinue
	})
	return string(s.buf)
}

func (s *serializer) enter(id dom.NodeID) dom.WalkStatus {
	t := s.t
	tag := t.Tag(id)
	k := kindOf(tag)

	switch k {
	case kindSkip:
		return dom.WalkSkipChildren

	case kindHeading:
		s.blankLine()
		open := len(s.buf)
		s.write(strings.Repeat("#", int(tag[1]-'0')) + " ")
		s.push(frame{id: id, kind: k, open: open, start: len(s.buf)})

	case kindParagraph:
		if !s.atItemStart() {
			if s.listDepth() > 0 {
				s.newline()
			} else {
				s.blankLine()
			}
		}
		s.push(frame{id: id, kind: k})

	case kindBlock:
		if !s.atItemStart() {
			s.newline()
		}
		s.push(frame{id: id, kind: k})

	case kindList:
		if s.listDepth() == 0 {
			s.blankLine()
		} else {
			s.newline()
		}
		s.push(frame{id: id, kind: k, ordered: tag == "ol"})

	case kindItem:
		s.newline()
		indent := 0
		if item := s.nearest(kindItem); item != nil {
			indent = item.indent
		}
		marker := "- "
		if list := s.nearest(kindList); list != nil && list.ordered {
			marker = "1. "
		}
		open := len(s.buf)
		s.write(strings.Repeat(" ", indent) + marker)
		s.push(frame{id: id, kind: k, marker: marker, indent: indent + len(marker), open: open, start: len(s.buf)})

	case kindEmphasis, kindCode:
		marker := inlineMarker(tag)
		open := len(s.buf)
		s.write(marker)
		s.push(frame{id: id, kind: k, marker: marker, open: open, start: len(s.buf)})

	case kindLink:
		href, _ := t.Attr(id, "href")
		href = strings.TrimSpace(href)
		if href != "" && !strings.HasPrefix(strings.ToLower(href), "javascript:") {
			open := len(s.buf)
			s.write("[")
			s.push(frame{id: id, kind: k, href: href, open: open, start: len(s.buf)})
		}

	case kindImage:
		s.image(id)
		return dom.WalkSkipChildren

	case kindPre:
		s.blankLine()
		s.write("```\n")
		s.write(strings.TrimRight(t.TextContent(id), "\r\n"))
		s.write("\n```")
		s.blankLine()
		return dom.WalkSkipChildren

	case kindQuote:
		s.push(frame{id: id, kind: k, saved: s.buf})
		s.buf = nil

	case kindTable:
		if md := renderTable(t, id); md != "" {
			s.blankLine()
			s.write(md)
			s.blankLine()
		}
		return dom.WalkSkipChildren

	case kindBreak:
		s.trimTrailingSpace()
		s.write("\n")

	case kindRule:
		s.blankLine()
		s.write("---")
		s.blankLine()
	}

	s.text(t.Text(id))
	return dom.WalkContinue
}

func (s *serializer) exit(id dom.NodeID) {
	if len(s.stack) == 0 || s.stack[len(s.stack)-1].id != id {
		return
	}
	f := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]

	switch f.kind {
	case kindHeading:
		if strings.TrimSpace(string(s.buf[f.start:])) == "" {
			s.buf = s.buf[:f.open]
			return
		}
		s.foldNewlines(f.start)
		s.blankLine()

	case kindParagraph:
		if s.listDepth() > 0 {
			s.newline()
		} else {
			s.blankLine()
		}

	case kindBlock, kindItem:
		s.newline()

	case kindList:
		if s.listDepth() == 0 {
			s.blankLine()
		} else {
			s.newline()
		}

	case kindEmphasis, kindCode:
		s.closeInline(f, f.marker)

	case kindLink:
		s.closeInline(f, "]("+escapeURL(f.href)+")")

	case kindQuote:
		inner := Clean(string(s.buf))
		s.buf = f.saved
		if inner == "" {
			return
		}
		s.blankLine()
		for i, line := range strings.Split(inner, "\n") {
			if i > 0 {
				s.write("\n")
			}
			if line == "" {
				s.write(">")
			} else {
				s.write("> " + line)
			}
		}
		s.blankLine()
	}
}

// closeInline finishes an emphasis, code span or link. Empty content
// removes the opening markup. Block children leave their line breaks in
// the content, so it is folded onto one line and whitespace at either end
// is moved outside the delimiters.
func (s *serializer) closeInline(f frame, closing string) {
	content := s.buf[f.start:]
	if len(bytes.TrimSpace(content)) == 0 {
		hadSpace := len(content) > 0
		s.buf = s.buf[:f.open]
		if hadSpace {
			s.text(" ")
		}
		return
	}
	s.foldNewlines(f.start)
	inner := collapseSpace(string(s.buf[f.start:]))
	leading := strings.HasPrefix(inner, " ")
	trailing := strings.HasSuffix(inner, " ")
	s.buf = append(s.buf[:f.start], strings.TrimSpace(inner)...)
	s.write(closing)
	if trailing {
		s.write(" ")
	}
	if leading && f.open > 0 && s.buf[f.open-1] != ' ' && s.buf[f.open-1] != '\n' {
		s.insertSpace(f.open)
	}
}

// image writes the complete image token. An image without a source still
// gets one, with an empty destination, so its alt text survives.
func (s *serializer) image(id dom.NodeID) {
	src, _ := s.t.Attr(id, "src")
	alt, _ := s.t.Attr(id, "alt")
	alt = strings.Join(strings.Fields(altReplacer.Replace(alt)), " ")
	s.write("![" + emphasisEscaper.Replace(alt) + "](" + escapeURL(strings.TrimSpace(src)) + ")")
}

var altReplacer = strings.NewReplacer("[", "", "]", "")

var urlReplacer = strings.NewReplacer(" ", "%20", "(", "%28", ")", "%29", "\n", "", "\r", "", "\t", "")

func escapeURL(u string) string {
	return urlReplacer.Replace(u)
}

// text writes a run of text with whitespace collapsed and Markdown syntax
// escaped outside code spans. A leading space is dropped at the start of a
// line, after another space, and at the start of an inline span, where it
// moves in front of the opening delimiter.
func (s *serializer) text(raw string) {
	if raw == "" {
		return
	}
	collapsed := collapseSpace(raw)
	if collapsed == "" {
		return
	}
	if collapsed[0] == ' ' {
		switch {
		case s.atLineStart() || s.endsWith(' '):
			collapsed = collapsed[1:]
		default:
			if f := s.topInline(); f != nil && len(s.buf) == f.start {
				if f.open > 0 && s.buf[f.open-1] != ' ' && s.buf[f.open-1] != '\n' {
					s.insertSpace(f.open)
				}
				collapsed = collapsed[1:]
			}
		}
	}
	if s.nearest(kindCode) == nil {
		collapsed = escapeText(collapsed, s.atBlockStart())
	}
	s.write(collapsed)
}

// collapseSpace replaces every whitespace run with a single space.
func collapseSpace(raw string) string {
	var sb strings.Builder
	sb.Grow(len(raw))
	space := false
	for _, r := range raw {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.WriteRune(r)
	}
	if space {
		sb.WriteByte(' ')
	}
	return sb.String()
}

func (s *serializer) insertSpace(at int) {
	s.buf = append(s.buf, 0)
	copy(s.buf[at+1:], s.buf[at:])
	s.buf[at] = ' '
	// Only frames opened after the innermost blockquote point into the
	// current buffer.
	first := 0
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i].kind == kindQuote {
			first = i + 1
			break
		}
	}
	for i := first; i < len(s.stack); i++ {
		if s.stack[i].open >= at {
			s.stack[i].open++
			s.stack[i].start++
		}
	}
}

func (s *serializer) write(str string) {
	s.buf = append(s.buf, str...)
}

func (s *serializer) trimTrailingSpace() {
	s.buf = bytes.TrimRight(s.buf, " \t")
}

func (s *serializer) newline() {
	s.trimTrailingSpace()
	if len(s.buf) > 0 && s.buf[len(s.buf)-1] != '\n' {
		s.buf = append(s.buf, '\n')
	}
}

func (s *serializer) blankLine() {
	s.trimTrailingSpace()
	switch {
	case len(s.buf) == 0, bytes.HasSuffix(s.buf, []byte("\n\n")):
	case s.buf[len(s.buf)-1] == '\n':
		s.buf = append(s.buf, '\n')
	default:
		s.buf = append(s.buf, '\n', '\n')
	}
}

func (s *serializer) foldNewlines(from int) {
	for i := from; i < len(s.buf); i++ {
		if s.buf[i] == '\n' {
			s.buf[i] = ' '
		}
	}
}

func (s *serializer) atLineStart() bool {
	return len(s.buf) == 0 || s.buf[len(s.buf)-1] == '\n'
}

// atBlockStart reports whether the next text starts a line, either at
// the beginning of the output, after a newline or right after a list
// item marker.
func (s *serializer) atBlockStart() bool {
	if s.atLineStart() {
		return true
	}
	item := s.nearest(kindItem)
	return item != nil && len(s.buf) == item.start
}

func (s *serializer) endsWith(b byte) bool {
	return len(s.buf) > 0 && s.buf[len(s.buf)-1] == b
}

func (s *serializer) push(f frame) {
	s.stack = append(s.stack, f)
}

// nearest returns the innermost open frame of kind k.
func (s *serializer) nearest(k kind) *frame {
	for i := len(s.stack) - 1; i >= 0; i-- {
		if s.stack[i].kind == k {
			return &s.stack[i]
		}
	}
	return nil
}

func (s *serializer) topInline() *frame {
	if len(s.stack) == 0 {
		return nil
	}
	f := &s.stack[len(s.stack)-1]
	switch f.kind {
	case kindEmphasis, kindCode, kindLink:
		return f
	}
	return nil
}

func (s *serializer) listDepth() int {
	depth := 0
	for _, f := range s.stack {
		if f.kind == kindList {
			depth++
		}
	}
	return depth
}

// atItemStart reports whether nothing has been written since the current
// list item's marker.
func (s *serializer) atItemStart() bool {
	if len(s.stack) == 0 {
		return false
	}
	f := s.stack[len(s.stack)-1]
	return f.kind == kindItem && len(s.buf) == f.start
}

var (
	blankRunRegex = regexp.MustCompile(`\n{3,}`)
	// trailingSpaceRegex matches spaces and tabs at the end of a line.
	trailingSpaceRegex = regexp.MustCompile(`[ \t]+\n`)
)

// Clean finalizes serializer output: raw control characters other than
// newline and tab are removed, trailing spaces are dropped, runs of blank
// lines collapse to one and the result is trimmed.
func Clean(md string) string {
	md = strings.Map(func(r rune) rune {
		if r != '\n' && r != '\t' && unicode.IsControl(r) {
			return -1
		}
		return r
	}, md)
	md = trailingSpaceRegex.ReplaceAllString(md, "\n")
	md = blankRunRegex.ReplaceAllString(md, "\n\n")
	return strings.TrimSpace(md)
}
