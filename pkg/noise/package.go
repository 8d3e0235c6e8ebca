package noise

import (
	"github.com/lloydzhou/tika-parser/internal/logger"
	"github.com/lloydzhou/tika-parser/pkg/dom"
)

// packageEntryClass marks the blocks an extractor emits for embedded files.
const packageEntryClass = "package-entry"

var headingTags = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

// RemovePackageEntries removes package-entry blocks whose title looks like
// a file name. A group of at least MinPackageGroup such blocks is always
// removed; smaller groups are removed only when they all sit in the last
// TailScanLimit top-level blocks of the body, since a lone filename in the
// middle of a document is more likely genuine content.
func RemovePackageEntries(t *dom.Tree, cfg Config) int {
	var candidates []dom.NodeID
	for _, id := range t.Matching(t.Root(), func(id dom.NodeID) bool {
		return t.ClassContains(id, packageEntryClass)
	}) {
		if LooksLikeFilename(packageTitle(t, id)) {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return 0
	}

	if len(candidates) < cfg.MinPackageGroup && !inBodyTail(t, candidates, cfg.TailScanLimit) {
		logger.Debug("package entries kept", "count", len(candidates))
		return 0
	}
	return removeAll(t, candidates)
}

// packageTitle is the text of the entry's first heading, or of the whole
// entry when it has none.
func packageTitle(t *dom.Tree, id dom.NodeID) string {
	if h := t.FindFirst(id, headingTags...); h != dom.None {
		if txt := t.NormalizedText(h); txt != "" {
			return txt
		}
	}
	return t.NormalizedText(id)
}

// inBodyTail reports whether every node lies inside one of the last n
// top-level children of the body.
func inBodyTail(t *dom.Tree, ids []dom.NodeID, n int) bool {
	body := t.Body()
	children := t.Children(body)
	if n <= 0 || len(children) == 0 {
		return false
	}
	if len(children) > n {
		children = children[len(children)-n:]
	}
	tail := make(map[dom.NodeID]bool, len(children))
	for _, c := range children {
		tail[c] = true
	}

	for _, id := range ids {
		top := topLevelAncestor(t, body, id)
		if top == dom.None || !tail[top] {
			return false
		}
	}
	return true
}

// topLevelAncestor returns the child of body that contains id, id itself
// when it is such a child, or None when id is not below body.
func topLevelAncestor(t *dom.Tree, body, id dom.NodeID) dom.NodeID {
	for cur := id; cur != dom.None; cur = t.Parent(cur) {
		if t.Parent(cur) == body {
			return cur
		}
	}
	return dom.None
}

// removeAll removes the nodes that are still attached and returns how many
// were removed. Nodes already gone with an ancestor are not counted.
func removeAll(t *dom.Tree, ids []dom.NodeID) int {
	removed := 0
	for _, id := range ids {
		if id == t.Root() || !t.Attached(id) {
			continue
		}
		t.Remove(id)
		removed++
	}
	return removed
}
