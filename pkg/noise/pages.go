package noise

import (
	"github.com/lloydzhou/tika-parser/internal/logger"
	"github.com/lloydzhou/tika-parser/pkg/dom"
)

// pageClass marks the per-page containers emitted by the extractor.
const pageClass = "page"

// pageTextTags are the elements inspected for page headers and footers.
var pageTextTags = []string{"p", "div", "h1", "h2", "h3", "h4", "h5", "h6", "span"}

type pageBlocks struct {
	page   dom.NodeID
	blocks []dom.NodeID
}

// RemovePageRepeats removes running headers and footers from per-page
// containers. For every page the first and the last short non-empty text
// block are recorded; a text recorded on at least PageThreshold(pageCount)
// pages is removed from every page it appears on.
func RemovePageRepeats(t *dom.Tree, cfg Config, pageCount int) int {
	pageIDs := t.Matching(t.Root(), func(id dom.NodeID) bool {
		return t.ClassContains(id, pageClass)
	})
	if len(pageIDs) == 0 {
		return 0
	}

	firsts := newCounter()
	lasts := newCounter()
	pages := make([]pageBlocks, 0, len(pageIDs))
	for _, p := range pageIDs {
		blocks := t.FindAll(p, pageTextTags...)
		pages = append(pages, pageBlocks{page: p, blocks: blocks})

		for _, b := range blocks {
			if txt, ok := t.ShortText(b, cfg.MaxHeaderTextLen); ok && txt != "" {
				firsts.Add(txt)
				break
			}
		}
		for i := len(blocks) - 1; i >= 0; i-- {
			if txt, ok := t.ShortText(blocks[i], cfg.MaxHeaderTextLen); ok && txt != "" {
				lasts.Add(txt)
				break
			}
		}
	}

	threshold := cfg.PageThreshold(pageCount)
	headers := firsts.AtLeast(threshold)
	footers := lasts.AtLeast(threshold)
	if len(headers) == 0 && len(footers) == 0 {
		return 0
	}
	repeated := newTextSet(headers, footers)

	removed := 0
	for _, pg := range pages {
		for _, b := range pg.blocks {
			if !t.Attached(b) {
				continue
			}
			if txt, ok := t.ShortText(b, cfg.MaxHeaderTextLen); ok && repeated.Has(txt) {
				t.Remove(b)
				removed++
			}
		}
	}
	logger.Debug("page repeats removed",
		"headers", headers,
		"footers", footers,
		"threshold", threshold,
		"removed", removed,
	)
	return removed
}
