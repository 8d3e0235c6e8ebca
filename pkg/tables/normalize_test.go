package tables

import (
	"testing"

	"github.com/lloydzhou/tika-parser/pkg/dom"
)

// cellTexts returns the normalized text of the cells of each row, along
// with the tag of every cell.
func cellTexts(tree *dom.Tree, rows []dom.NodeID) ([][]string, [][]string) {
	var texts, tags [][]string
	for _, r := range rows {
		var rt, rg []string
		for _, c := range tree.Children(r) {
			rt = append(rt, tree.NormalizedText(c))
			rg = append(rg, tree.Tag(c))
		}
		texts = append(texts, rt)
		tags = append(tags, rg)
	}
	return texts, tags
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNormalize_PromotesFirstRow(t *testing.T) {
	tree := dom.Build(`<table class="grid"><tr class="r1"><td>A</td><td><b>B</b></td></tr><tr><td>1</td><td>2</td></tr></table>`)

	if got := Normalize(tree); got != 1 {
		t.Fatalf("Normalize() = %d, want 1", got)
	}

	table := tree.FindFirst(tree.Root(), "table")
	first := tree.FirstChild(table)
	if tree.Tag(first) != "thead" {
		t.Fatalf("first child = %q, want thead", tree.Tag(first))
	}
	headRows := tree.FindAll(first, "tr")
	if len(headRows) != 1 {
		t.Fatalf("expected 1 header row, got %d", len(headRows))
	}
	if class, _ := tree.Attr(headRows[0], "class"); class != "r1" {
		t.Errorf("header row class = %q, want r1", class)
	}
	texts, tags := cellTexts(tree, headRows)
	if !equal(texts[0], []string{"A", "B"}) || !equal(tags[0], []string{"th", "th"}) {
		t.Errorf("header = %v %v", texts[0], tags[0])
	}
	if tree.FindFirst(headRows[0], "b") == dom.None {
		t.Error("cell markup should be preserved")
	}

	var bodyRows []dom.NodeID
	for _, r := range tree.FindAll(table, "tr") {
		if r != headRows[0] {
			bodyRows = append(bodyRows, r)
		}
	}
	texts, tags = cellTexts(tree, bodyRows)
	if len(texts) != 1 || !equal(texts[0], []string{"1", "2"}) || !equal(tags[0], []string{"td", "td"}) {
		t.Errorf("body rows = %v %v", texts, tags)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	tree := dom.Build(`<table><tbody><tr><td>A</td><td>B</td></tr><tr><td>1</td><td>2</td></tr></tbody></table>`)
	if got := Normalize(tree); got != 1 {
		t.Fatalf("first Normalize() = %d, want 1", got)
	}
	once := dom.RenderString(tree)
	if got := Normalize(tree); got != 0 {
		t.Errorf("second Normalize() = %d, want 0", got)
	}
	if twice := dom.RenderString(tree); twice != once {
		t.Errorf("second pass changed the tree:\n%s\n%s", once, twice)
	}
}

func TestNormalize_Skips(t *testing.T) {
	tests := []struct {
		name string
		html string
	}{
		{"has header", `<table><tr><th>H</th></tr><tr><td>1</td></tr></table>`},
		{"no rows", `<table><caption>Empty</caption></table>`},
		{"row without cells", `<table><tr></tr></table>`},
		{"no table", `<p>text</p>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := dom.Build(tt.html)
			before := dom.RenderString(tree)
			if got := Normalize(tree); got != 0 {
				t.Errorf("Normalize() = %d, want 0", got)
			}
			if after := dom.RenderString(tree); after != before {
				t.Errorf("tree changed:\n%s\n%s", before, after)
			}
		})
	}
}

func TestNormalize_PrefersBodyRow(t *testing.T) {
	tree := dom.Build(`<table><thead></thead><tbody><tr><td>X</td></tr><tr><td>Y</td></tr></tbody></table>`)
	if got := Normalize(tree); got != 1 {
		t.Fatalf("Normalize() = %d, want 1", got)
	}
	table := tree.FindFirst(tree.Root(), "table")
	thead := tree.FirstChild(table)
	if tree.NormalizedText(thead) != "X" {
		t.Errorf("header text = %q, want X", tree.NormalizedText(thead))
	}
	if got := tree.FindAll(table, "th"); len(got) != 1 {
		t.Errorf("expected 1 th, got %d", len(got))
	}
}
