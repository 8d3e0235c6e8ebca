package markdown

import (
	"strings"

	"github.com/lloydzhou/tika-parser/pkg/dom"
)

// renderTable renders a table as a GFM pipe table. The first row is the
// header; rows are padded to the widest row. Cell content is rendered
// inline on a single line with pipes escaped. A caption, if any, becomes
// a paragraph above the table.
func renderTable(t *dom.Tree, table dom.NodeID) string {
	var (
		caption string
		rows    [][]string
		width   int
	)
	t.Walk(table, func(id dom.NodeID, entering bool) dom.WalkStatus {
		if !entering || id == table {
			return dom.WalkContinue
		}
		switch t.Tag(id) {
		case "table":
			// Rows of nested tables belong to their own cell.
			return dom.WalkSkipChildren
		case "caption":
			if caption == "" {
				caption = inlineCell(t, id)
			}
			return dom.WalkSkipChildren
		case "tr":
			var row []string
			for _, c := range t.Children(id) {
				if tag := t.Tag(c); tag == "td" || tag == "th" {
					row = append(row, inlineCell(t, c))
				}
			}
			if len(row) > 0 {
				rows = append(rows, row)
				width = max(width, len(row))
			}
			return dom.WalkSkipChildren
		}
		return dom.WalkContinue
	})
	if len(rows) == 0 {
		return caption
	}

	var sb strings.Builder
	if caption != "" {
		sb.WriteString(caption)
		sb.WriteString("\n\n")
	}
	writeRow(&sb, rows[0], width)
	sb.WriteString("\n|")
	for i := 0; i < width; i++ {
		sb.WriteString(" --- |")
	}
	for _, row := range rows[1:] {
		sb.WriteString("\n")
		writeRow(&sb, row, width)
	}
	return sb.String()
}

func writeRow(sb *strings.Builder, row []string, width int) {
	sb.WriteString("|")
	for i := 0; i < width; i++ {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		sb.WriteString(" ")
		sb.WriteString(cell)
		if cell != "" {
			sb.WriteString(" ")
		}
		sb.WriteString("|")
	}
}

var pipeEscaper = strings.NewReplacer(`\|`, `\|`, "|", `\|`)

// inlineCell renders a cell's content on a single line.
func inlineCell(t *dom.Tree, id dom.NodeID) string {
	md := Clean(render(t, id))
	md = strings.Join(strings.Fields(md), " ")
	return pipeEscaper.Replace(md)
}
