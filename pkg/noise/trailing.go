package noise

import (
	"github.com/lloydzhou/tika-parser/pkg/attachment"
	"github.com/lloydzhou/tika-parser/pkg/dom"
)

// TrimTrailingFilenames examines up to TrailingScanLimit blocks at the end
// of the body, last first. Empty blocks and blocks listing only file names
// (or known attachment names) are removed; the first block with other
// content stops the scan.
func TrimTrailingFilenames(t *dom.Tree, atts attachment.Map, cfg Config) int {
	body := t.Body()
	removed := 0
	for i := 0; i < cfg.TrailingScanLimit; i++ {
		last := t.LastChild(body)
		if last == dom.None {
			break
		}
		txt := t.NormalizedText(last)
		if txt == "" {
			// An image-only block is content, not an empty leftover.
			if t.HasDescendant(last, "img") || t.Tag(last) == "img" {
				break
			}
			t.Remove(last)
			removed++
			continue
		}
		if !isFilenameList(txt, atts) {
			break
		}
		t.Remove(last)
		removed++
	}
	return removed
}
