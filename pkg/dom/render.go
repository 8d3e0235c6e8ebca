package dom

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "keygen": true, "link": true,
	"meta": true, "param": true, "source": true, "track": true, "wbr": true,
}

// Render writes the tree as HTML. Building a tree from the rendered output
// yields an equivalent tree.
func Render(t *Tree, w io.Writer) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(t.toHTML(t.root))
	return html.Render(w, doc)
}

// RenderString renders the tree to a string.
func RenderString(t *Tree) string {
	var sb strings.Builder
	if err := Render(t, &sb); err != nil {
		return ""
	}
	return sb.String()
}

func (t *Tree) toHTML(id NodeID) *html.Node {
	n := t.nodes[id]
	out := &html.Node{Type: html.ElementNode, Data: n.tag}
	for _, a := range n.attrs {
		out.Attr = append(out.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	if voidElements[n.tag] {
		return out
	}
	if n.text != "" {
		out.AppendChild(&html.Node{Type: html.TextNode, Data: n.text})
	}
	for _, c := range n.children {
		out.AppendChild(t.toHTML(c))
		if tail := t.nodes[c].tail; tail != "" {
			out.AppendChild(&html.Node{Type: html.TextNode, Data: tail})
		}
	}
	return out
}
