// Package tables gives header-less tables an explicit header row so they
// serialize as Markdown tables.
package tables

import (
	"github.com/lloydzhou/tika-parser/pkg/dom"
)

// Normalize promotes the first row of every table without header cells to
// a header row and returns the number of tables changed. The first row is
// taken from the table body when there is one. Tables that already have a
// th anywhere are left untouched, so Normalize is idempotent.
func Normalize(t *dom.Tree) int {
	changed := 0
	for _, table := range t.FindAll(t.Root(), "table") {
		if promoteFirstRow(t, table) {
			changed++
		}
	}
	return changed
}

func promoteFirstRow(t *dom.Tree, table dom.NodeID) bool {
	if !t.Attached(table) || t.HasDescendant(table, "th") {
		return false
	}

	row := dom.None
	if tbody := t.FindFirst(table, "tbody"); tbody != dom.None {
		row = t.FindFirst(tbody, "tr")
	}
	if row == dom.None {
		row = t.FindFirst(table, "tr")
	}
	if row == dom.None {
		return false
	}

	var cells []dom.NodeID
	for _, c := range t.Children(row) {
		if tag := t.Tag(c); tag == "td" || tag == "th" {
			cells = append(cells, c)
		}
	}
	if len(cells) == 0 {
		return false
	}

	headRow := t.NewElement("tr", t.Attrs(row)...)
	for _, c := range cells {
		t.AppendChild(headRow, c)
		t.SetTag(c, "th")
	}
	thead := t.NewElement("thead")
	t.AppendChild(thead, headRow)
	t.InsertChild(table, thead, 0)
	t.Remove(row)
	return true
}
