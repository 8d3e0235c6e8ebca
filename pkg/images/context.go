package images

import (
	"path"
	"strings"

	"github.com/lloydzhou/tika-parser/pkg/dom"
)

// contextFinder looks up the prose surrounding images. It flattens the
// document once so the document-order fallback is a simple scan.
type contextFinder struct {
	t            *dom.Tree
	maxAncestors int
	segments     []string // own text and tails in document order
	position     map[dom.NodeID]int
}

func newContextFinder(t *dom.Tree, maxAncestors int) *contextFinder {
	f := &contextFinder{
		t:            t,
		maxAncestors: maxAncestors,
		position:     make(map[dom.NodeID]int),
	}
	root := t.Root()
	t.Walk(root, func(id dom.NodeID, entering bool) dom.WalkStatus {
		if entering {
			if t.Tag(id) == "img" {
				f.position[id] = len(f.segments)
			}
			f.add(t.Text(id))
		} else if id != root {
			f.add(t.Tail(id))
		}
		return dom.WalkContinue
	})
	return f
}

func (f *contextFinder) add(s string) {
	if s = strings.TrimSpace(s); s != "" {
		f.segments = append(f.segments, s)
	}
}

// Before returns the nearest meaningful text preceding img: a preceding
// sibling, then a preceding sibling of one of its ancestors, then any
// earlier text in the document.
func (f *contextFinder) Before(img dom.NodeID) string {
	t := f.t
	cur := img
	for level := 0; level <= f.maxAncestors; level++ {
		parent := t.Parent(cur)
		if parent == dom.None {
			break
		}
		for sib := t.PrevSibling(cur); sib != dom.None; sib = t.PrevSibling(sib) {
			if txt := strings.TrimSpace(t.Tail(sib)); dom.IsMeaningful(txt) {
				return txt
			}
			if txt := f.elementText(sib); dom.IsMeaningful(txt) {
				return txt
			}
		}
		if txt := strings.TrimSpace(t.Text(parent)); dom.IsMeaningful(txt) {
			return txt
		}
		cur = parent
	}

	pos, ok := f.position[img]
	if !ok {
		return ""
	}
	for i := pos - 1; i >= 0; i-- {
		if dom.IsMeaningful(f.segments[i]) {
			return f.segments[i]
		}
	}
	return ""
}

// After mirrors Before for the text following img.
func (f *contextFinder) After(img dom.NodeID) string {
	t := f.t
	cur := img
	for level := 0; level <= f.maxAncestors; level++ {
		if t.Parent(cur) == dom.None {
			break
		}
		if txt := strings.TrimSpace(t.Tail(cur)); dom.IsMeaningful(txt) {
			return txt
		}
		for sib := t.NextSibling(cur); sib != dom.None; sib = t.NextSibling(sib) {
			if txt := f.elementText(sib); dom.IsMeaningful(txt) {
				return txt
			}
			if txt := strings.TrimSpace(t.Tail(sib)); dom.IsMeaningful(txt) {
				return txt
			}
		}
		cur = t.Parent(cur)
	}

	pos, ok := f.position[img]
	if !ok {
		return ""
	}
	for i := pos; i < len(f.segments); i++ {
		if dom.IsMeaningful(f.segments[i]) {
			return f.segments[i]
		}
	}
	return ""
}

// elementText is the normalized text of id in which every image is
// replaced by a bracketed placeholder, so a run of adjacent images still
// yields usable context.
func (f *contextFinder) elementText(id dom.NodeID) string {
	t := f.t
	var pieces []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			pieces = append(pieces, s)
		}
	}
	t.Walk(id, func(n dom.NodeID, entering bool) dom.WalkStatus {
		if entering {
			if t.Tag(n) == "img" {
				add(placeholder(t, n))
			}
			add(t.Text(n))
		} else if n != id {
			add(t.Tail(n))
		}
		return dom.WalkContinue
	})
	return dom.NormalizeText(strings.Join(pieces, " "))
}

// placeholder describes an image by its alt text, title or file name.
func placeholder(t *dom.Tree, img dom.NodeID) string {
	label := ""
	for _, key := range []string{"alt", "title"} {
		if v, ok := t.Attr(img, key); ok && strings.TrimSpace(v) != "" {
			label = strings.TrimSpace(v)
			break
		}
	}
	if label == "" {
		if src, ok := t.Attr(img, "src"); ok && src != "" && !strings.HasPrefix(src, "data:") {
			label = path.Base(strings.ReplaceAll(src, "\\", "/"))
		}
	}
	if label == "" {
		label = "image"
	}
	return "[" + label + "]"
}
