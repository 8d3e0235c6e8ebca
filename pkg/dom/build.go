package dom

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/lloydzhou/tika-parser/internal/logger"
)

// DefaultPruneSelectors lists elements that never carry document content
// and are dropped while building.
var DefaultPruneSelectors = []string{"title", "script", "style"}

// BuildOptions configures the Tree Builder.
type BuildOptions struct {
	// PruneSelectors are CSS selectors removed from the parsed document
	// before it is converted into a Tree. Invalid selectors are skipped.
	PruneSelectors []string
}

var (
	// nulRefRegex matches numeric NUL character references (&#0; &#x0;).
	// An unterminated hex reference also matches the rune after its zeros,
	// which removeNulRef puts back; regexp has no lookahead.
	nulRefRegex = regexp.MustCompile(`(?i)&#0+;|&#x0+(?:;|[^0-9a-f;]|$)`)

	// controlRegex matches C0 control characters except tab, LF and CR.
	controlRegex = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F]`)
)

// Sanitize strips NUL character references, raw control characters and
// invalid UTF-8 sequences from raw markup.
func Sanitize(raw string) string {
	if raw == "" {
		return raw
	}
	s := nulRefRegex.ReplaceAllStringFunc(raw, removeNulRef)
	s = controlRegex.ReplaceAllString(s, "")
	return strings.ToValidUTF8(s, "")
}

// removeNulRef drops a matched NUL reference, keeping the rune that ended
// an unterminated hex reference.
func removeNulRef(ref string) string {
	if ref[2] != 'x' && ref[2] != 'X' {
		return ""
	}
	rest := strings.TrimLeft(ref[3:], "0")
	if rest == ";" {
		return ""
	}
	return rest
}

// Build sanitizes and parses raw markup with the default options.
// It never fails: unusable input yields a tree with an empty root.
func Build(raw string) *Tree {
	return BuildWith(raw, BuildOptions{PruneSelectors: DefaultPruneSelectors})
}

// BuildReader decodes r to UTF-8 using the declared content type (or
// sniffing when empty) and builds a tree from it.
func BuildReader(r io.Reader, contentType string) (*Tree, error) {
	raw, err := DecodeReader(r, contentType)
	if err != nil {
		return nil, err
	}
	return Build(raw), nil
}

// DecodeReader reads all of r and converts it to UTF-8. The encoding comes
// from contentType, a BOM or a meta charset declaration.
func DecodeReader(r io.Reader, contentType string) (string, error) {
	utf8Reader, err := charset.NewReader(r, contentType)
	if err != nil {
		return "", fmt.Errorf("detecting charset: %w", err)
	}
	data, err := io.ReadAll(utf8Reader)
	if err != nil {
		return "", fmt.Errorf("reading markup: %w", err)
	}
	return string(data), nil
}

// BuildWith sanitizes and parses raw markup.
func BuildWith(raw string, opts BuildOptions) (tree *Tree) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("markup parse failed, using empty tree", "panic", r)
			tree = New("html")
		}
	}()

	doc, err := html.ParseWithOptions(strings.NewReader(Sanitize(raw)), html.ParseOptionEnableScripting(false))
	if err != nil {
		logger.Debug("markup parse failed, using empty tree", "error", err)
		return New("html")
	}

	prune(goquery.NewDocumentFromNode(doc), opts.PruneSelectors)
	return fromHTML(doc)
}

func prune(doc *goquery.Document, selectors []string) {
	for _, sel := range selectors {
		m, err := cascadia.Compile(sel)
		if err != nil {
			logger.Debug("skipping invalid prune selector", "selector", sel, "error", err)
			continue
		}
		doc.FindMatcher(m).Remove()
	}
}

// fromHTML converts a parsed document into an arena tree rooted at its
// <html> element.
func fromHTML(doc *html.Node) *Tree {
	t := New("html")
	rootElem := doc
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			rootElem = c
			break
		}
	}
	if rootElem.Type == html.ElementNode {
		t.nodes[t.root].tag = strings.ToLower(rootElem.Data)
		t.nodes[t.root].attrs = convertAttrs(rootElem.Attr)
	}
	t.appendHTMLChildren(t.root, rootElem)
	return t
}

func (t *Tree) appendHTMLChildren(parent NodeID, n *html.Node) {
	last := None
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if last != None {
				t.nodes[last].tail += c.Data
			} else {
				t.nodes[parent].text += c.Data
			}
		case html.ElementNode:
			id := t.NewElement(c.Data)
			t.nodes[id].attrs = convertAttrs(c.Attr)
			t.AppendChild(parent, id)
			t.appendHTMLChildren(id, c)
			last = id
		}
	}
}

func convertAttrs(in []html.Attribute) []Attr {
	if len(in) == 0 {
		return nil
	}
	out := make([]Attr, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, a := range in {
		key := strings.ToLower(a.Key)
		if a.Namespace != "" {
			key = a.Namespace + ":" + key
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, Attr{Key: key, Val: a.Val})
	}
	return out
}
