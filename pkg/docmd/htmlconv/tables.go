package htmlconv

import (
	"sort"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/xml"
)

// rowSpan records a cell that spans rows below the one it starts in.
// Columns are grid columns.
type rowSpan struct {
	row       int
	column    int
	remaining int
	colSpan   int
}

// tableContext is the state of one open table.
type tableContext struct {
	table *xml.Table
	row   *xml.TableRow
	cell  *xml.TableCell
	// rowIndex is the index of the current row, -1 before the first one.
	rowIndex int
	// column is the grid column after the last cell of the current row,
	// not counting placeholders of spans from earlier rows.
	column  int
	spans   []*rowSpan
	caption *xml.Paragraph
	header  bool
}

func newTableContext(table *xml.Table) *tableContext {
	return &tableContext{table: table, rowIndex: -1}
}

type tableStack []*tableContext

func (s *tableStack) push(ctx *tableContext) { *s = append(*s, ctx) }

func (s *tableStack) pop() *tableContext {
	if len(*s) == 0 {
		return nil
	}
	ctx := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return ctx
}

func (s tableStack) top() *tableContext {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}

// beginRow appends a row and resets the column cursor.
func (ctx *tableContext) beginRow() *xml.TableRow {
	ctx.rowIndex++
	ctx.column = 0
	ctx.row = &xml.TableRow{}
	ctx.table.Rows = append(ctx.table.Rows, ctx.row)
	return ctx.row
}

// gridColumn shifts the cursor past the spans of earlier rows that cover
// it or columns to its left.
func (ctx *tableContext) gridColumn() int {
	active := ctx.activeSpans()
	col := ctx.column
	for _, s := range active {
		if s.column <= col {
			col += s.colSpan
		}
	}
	return col
}

// activeSpans returns the spans started in earlier rows, by column.
func (ctx *tableContext) activeSpans() []*rowSpan {
	var out []*rowSpan
	for _, s := range ctx.spans {
		if s.row < ctx.rowIndex && s.remaining > 0 {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].column < out[j].column })
	return out
}

// addCell appends a cell to the current row. A rowspan above one starts a
// vertical merge and is recorded for the rows below. Spans are clamped to
// the HTML limits.
func (ctx *tableContext) addCell(cell *xml.TableCell, rowspan, colspan int) {
	rowspan = xml.ClampSpan(rowspan, xml.MaxRowSpan)
	colspan = xml.ClampSpan(colspan, xml.MaxGridSpan)
	if colspan > 1 {
		cell.Props().GridSpan = xml.Int(colspan)
	}
	if rowspan > 1 {
		cell.Props().VMerge = &xml.Style{Val: "restart"}
		ctx.spans = append(ctx.spans, &rowSpan{
			row:       ctx.rowIndex,
			column:    ctx.gridColumn(),
			remaining: rowspan - 1,
			colSpan:   colspan,
		})
	}
	ctx.row.Cells = append(ctx.row.Cells, cell)
	ctx.cell = cell
}

// endCell advances the cursor past the current cell.
func (ctx *tableContext) endCell() {
	if ctx.cell != nil {
		ctx.column += ctx.cell.Span()
	}
	ctx.cell = nil
}

// endRow removes a row without cells, and otherwise fills the columns held
// by spans from earlier rows with merge placeholders.
func (ctx *tableContext) endRow() {
	row := ctx.row
	ctx.row, ctx.cell = nil, nil
	if row == nil {
		return
	}
	if len(row.Cells) == 0 {
		ctx.table.Rows = ctx.table.Rows[:len(ctx.table.Rows)-1]
		ctx.rowIndex--
		return
	}
	for _, s := range ctx.activeSpans() {
		insertCell(row, s.column, mergePlaceholder(s.colSpan))
		s.remaining--
	}
	kept := ctx.spans[:0]
	for _, s := range ctx.spans {
		if s.remaining > 0 {
			kept = append(kept, s)
		}
	}
	ctx.spans = kept
}

func mergePlaceholder(colSpan int) *xml.TableCell {
	cell := &xml.TableCell{Properties: &xml.TableCellProperties{
		Width:  &xml.Width{Type: "auto", Val: 0},
		VMerge: &xml.Style{},
	}}
	if colSpan > 1 {
		cell.Properties.GridSpan = xml.Int(colSpan)
	}
	cell.Append(&xml.Paragraph{})
	return cell
}

// insertCell splices cell into row at grid column col.
func insertCell(row *xml.TableRow, col int, cell *xml.TableCell) {
	pos := 0
	idx := len(row.Cells)
	for i, c := range row.Cells {
		if pos >= col {
			idx = i
			break
		}
		pos += c.Span()
	}
	row.Cells = append(row.Cells, nil)
	copy(row.Cells[idx+1:], row.Cells[idx:])
	row.Cells[idx] = cell
}

// finish computes the grid from the first row, widened when a later row is
// wider, and pads short rows so that every row covers the same number of
// columns.
func (ctx *tableContext) finish() {
	t := ctx.table
	if len(t.Rows) == 0 {
		return
	}
	cols := t.Rows[0].Span()
	for _, row := range t.Rows[1:] {
		cols = max(cols, row.Span())
	}
	t.Grid = &xml.TableGrid{Columns: make([]xml.GridColumn, cols)}
	if w := t.Props().Width; w != nil && w.Type == "dxa" && w.Val > 0 && cols > 0 {
		for i := range t.Grid.Columns {
			t.Grid.Columns[i].Width = w.Val / cols
		}
	}
	for _, row := range t.Rows {
		for n := row.Span(); n < cols; n++ {
			cell := &xml.TableCell{}
			cell.Append(&xml.Paragraph{})
			row.Cells = append(row.Cells, cell)
		}
	}
}
