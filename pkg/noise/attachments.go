package noise

import (
	"strings"

	"github.com/lloydzhou/tika-parser/pkg/attachment"
	"github.com/lloydzhou/tika-parser/pkg/dom"
)

var nameBearingTags = []string{"a", "p", "div", "span", "li", "h1", "h2", "h3", "h4", "h5", "h6"}

// RemoveAttachmentNames removes blocks that do nothing but name an
// attachment: elements whose whole text is an attachment basename, and
// links pointing at one. It does nothing without attachments.
func RemoveAttachmentNames(t *dom.Tree, atts attachment.Map) int {
	if len(atts) == 0 {
		return 0
	}

	removed := 0
	for _, id := range t.FindAll(t.Root(), nameBearingTags...) {
		if !t.Attached(id) {
			continue
		}
		txt := t.NormalizedText(id)
		if txt == "" {
			continue
		}
		if atts.Has(txt) || (t.Tag(id) == "a" && linksToAttachment(t, id, atts)) {
			t.Remove(id)
			removed++
		}
	}
	return removed
}

func linksToAttachment(t *dom.Tree, id dom.NodeID, atts attachment.Map) bool {
	href, ok := t.Attr(id, "href")
	if !ok || href == "" {
		return false
	}
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	if i := strings.LastIndexByte(href, '/'); i >= 0 {
		href = href[i+1:]
	}
	return href != "" && atts.Has(href)
}
