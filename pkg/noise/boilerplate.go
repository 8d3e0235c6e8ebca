package noise

import (
	"github.com/lloydzhou/tika-parser/internal/logger"
	"github.com/lloydzhou/tika-parser/pkg/dom"
)

// RemoveBoilerplate detects short texts repeated among the first
// HeaderScanLimit top-level blocks of the body, such as a running header
// copied once per page, and removes every element anywhere in the
// document whose text equals one of them.
func RemoveBoilerplate(t *dom.Tree, cfg Config) int {
	body := t.Body()
	children := t.Children(body)
	if n := cfg.HeaderScanLimit; len(children) > n {
		children = children[:n]
	}

	counts := newCounter()
	for _, c := range children {
		if txt, ok := t.ShortText(c, cfg.MaxHeaderTextLen); ok {
			counts.Add(txt)
		}
	}
	repeated := counts.AtLeast(cfg.MinHeaderRepeat)
	if len(repeated) == 0 {
		return 0
	}
	logger.Debug("boilerplate detected", "texts", repeated)

	set := newTextSet(repeated)
	removed := 0
	for _, id := range t.Descendants(t.Root()) {
		if id == body || !t.Attached(id) {
			continue
		}
		if txt, ok := t.ShortText(id, cfg.MaxHeaderTextLen); ok && set.Has(txt) {
			t.Remove(id)
			removed++
		}
	}
	return removed
}
