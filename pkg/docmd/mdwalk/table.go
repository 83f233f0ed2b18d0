package mdwalk

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/xml"
)

const minColumnWidth = 3

// table renders a GFM pipe table. The first row is the header and its cell
// justification sets the column alignment. Bold is dropped from rows marked
// as header rows. Cells spanning several grid
// columns are followed by empty cells, and cells continuing a vertical
// merge are empty.
func (w *walker) table(t *xml.Table) string {
	var rows [][]string
	var aligns []string
	for i, row := range t.Rows {
		header := row.Properties != nil && row.Properties.Header
		var cells []string
		for _, cell := range row.Cells {
			text := ""
			if !cell.MergeContinue() {
				text = w.cellText(cell, header)
			}
			cells = append(cells, text)
			for k := 1; k < cell.Span(); k++ {
				cells = append(cells, "")
			}
			if i == 0 {
				jc := cellAlignment(cell)
				for k := 0; k < cell.Span(); k++ {
					aligns = append(aligns, jc)
				}
			}
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 {
		return ""
	}

	columns := 0
	for _, cells := range rows {
		columns = max(columns, len(cells))
	}
	if columns == 0 {
		return ""
	}
	widths := make([]int, columns)
	for c := range widths {
		widths[c] = minColumnWidth
	}
	for r, cells := range rows {
		for len(cells) < columns {
			cells = append(cells, "")
		}
		rows[r] = cells
		for c, text := range cells {
			widths[c] = max(widths[c], runewidth.StringWidth(text))
		}
	}

	var sb strings.Builder
	for r, cells := range rows {
		if r == 1 {
			writeDivider(&sb, aligns, widths)
		}
		sb.WriteString("|")
		for c, text := range cells {
			sb.WriteString(" " + runewidth.FillRight(text, widths[c]) + " |")
		}
		sb.WriteString("\n")
	}
	if len(rows) == 1 {
		writeDivider(&sb, aligns, widths)
	}
	return strings.TrimRight(sb.String(), "\n")
}

// writeDivider writes |:---|, |:---:|, |---:| or |---| per column, with
// the dashes stretched to the column width.
func writeDivider(sb *strings.Builder, aligns []string, widths []int) {
	sb.WriteString("|")
	for c, width := range widths {
		jc := ""
		if c < len(aligns) {
			jc = aligns[c]
		}
		switch jc {
		case "left":
			sb.WriteString(":" + strings.Repeat("-", width+1))
		case "center":
			sb.WriteString(":" + strings.Repeat("-", width) + ":")
		case "right":
			sb.WriteString(strings.Repeat("-", width+1) + ":")
		default:
			sb.WriteString(strings.Repeat("-", width+2))
		}
		sb.WriteString("|")
	}
	sb.WriteString("\n")
}

// cellAlignment reads the justification of the first paragraph of a cell.
func cellAlignment(cell *xml.TableCell) string {
	paras := cell.Paragraphs()
	if len(paras) == 0 || paras[0].Properties == nil || paras[0].Properties.Alignment == nil {
		return ""
	}
	switch paras[0].Properties.Alignment.Val {
	case "left", "start":
		return "left"
	case "center":
		return "center"
	case "right", "end":
		return "right"
	}
	return ""
}

// cellText renders the paragraphs of a cell joined with <br>. Nested tables
// contribute their cell texts.
func (w *walker) cellText(cell *xml.TableCell, header bool) string {
	return cellEscaper.Replace(strings.Join(w.cellParts(cell, header), "\n"))
}

func (w *walker) cellParts(cell *xml.TableCell, header bool) []string {
	var parts []string
	for _, el := range cell.Content {
		switch v := el.(type) {
		case *xml.Paragraph:
			var text string
			if header {
				text = w.headerInline(v)
			} else {
				text = w.inline(v, false)
			}
			if text = strings.TrimSpace(text); text != "" {
				parts = append(parts, text)
			}
		case *xml.Table:
			for _, row := range v.Rows {
				for _, inner := range row.Cells {
					parts = append(parts, w.cellParts(inner, header)...)
				}
			}
		}
	}
	return parts
}
