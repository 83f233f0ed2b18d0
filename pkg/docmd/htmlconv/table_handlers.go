package htmlconv

import (
	"strings"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/css"
	"github.com/benjaminschreck/go-docmd/pkg/docmd/docx"
	"github.com/benjaminschreck/go-docmd/pkg/docmd/xml"
)

// openTable adds a table to the current container. Nested tables go into
// the open cell of the outer table.
func openTable(c *converter, i int) (int, error) {
	ev := &c.events[i]
	c.b.seal(true)

	t := &xml.Table{}
	props := t.Props()
	style, ok := c.styles.ClassStyle(ev.Attrs.GetAsClass(), docx.StyleTable)
	if !ok {
		style = StyleTableGrid
	}
	props.Style = &xml.Style{Val: style}
	props.Borders = c.tableBordersOf(ev, style)
	if w := widthOf(lengthOf(ev, "width")); w != nil {
		props.Width = w
	} else {
		props.Width = &xml.Width{Type: "auto"}
	}
	if jc := tableAlignment(ev); jc != "" {
		props.Alignment = &xml.Alignment{Val: jc}
	}
	if n, ok := ev.Attrs.GetAsInt("cellspacing"); ok && n > 0 {
		props.CellSpacing = &xml.Width{Type: "dxa", Val: css.Px(float64(n)).ValueInDxa()}
	}
	if n, ok := ev.Attrs.GetAsInt("cellpadding"); ok && n >= 0 {
		u := css.Px(float64(n))
		props.CellMargins = cellMargins(css.Margin{Top: u, Right: u, Bottom: u, Left: u})
	}

	c.b.add(t)
	c.b.tables.push(newTableContext(t))
	return i + 1, nil
}

// tableBordersOf resolves the border attribute against the table style.
// border="0" removes every line, a positive border adds single lines when
// the style has none, and CSS borders apply otherwise.
func (c *converter) tableBordersOf(ev *TagEvent, style string) *xml.TableBorders {
	n, ok := ev.Attrs.GetAsInt("border")
	if !ok && ev.Attrs.Has("border") {
		n, ok = 1, true
	}
	switch {
	case ok && n <= 0:
		return allBorders(noBorder)
	case ok && !c.styles.TableHasBorders(style):
		size := borderFrom(css.SideBorder{Style: "single", Width: css.Px(float64(n))}).Size
		return allBorders(func() *xml.Border {
			return &xml.Border{Val: "single", Size: size, Color: "auto"}
		})
	}
	return tableBorders(css.ParseBorder(ev.Style))
}

func allBorders(side func() *xml.Border) *xml.TableBorders {
	return &xml.TableBorders{
		Top: side(), Left: side(), Bottom: side(), Right: side(),
		InsideH: side(), InsideV: side(),
	}
}

// tableAlignment reads the align attribute, or auto side margins.
func tableAlignment(ev *TagEvent) string {
	switch strings.ToLower(ev.Attrs.Get("align")) {
	case "left":
		return "left"
	case "center":
		return "center"
	case "right":
		return "right"
	}
	m := ev.Style.Margin("margin")
	left, right := m.Left.Type == css.UnitAuto, m.Right.Type == css.UnitAuto
	switch {
	case left && right:
		return "center"
	case left:
		return "right"
	}
	return ""
}

// closeTable completes the grid and places the caption. A table without
// rows is dropped.
func closeTable(c *converter, i int) {
	ctx := c.b.tables.pop()
	if ctx == nil {
		return
	}
	ctx.finish()

	var blocks []xml.BodyElement
	if len(ctx.table.Rows) > 0 {
		blocks = append(blocks, ctx.table)
	}
	if ctx.caption != nil {
		if c.opts.TableCaptionPosition == CaptionBelow {
			blocks = append(blocks, ctx.caption)
		} else {
			ctx.caption.Props().KeepNext = &xml.OnOff{}
			blocks = append([]xml.BodyElement{ctx.caption}, blocks...)
		}
	}
	c.b.replace(ctx.table, blocks...)
	c.b.newParagraph()
}

// openTableSection marks rows of thead as header rows.
func openTableSection(c *converter, i int) (int, error) {
	if ctx := c.b.tables.top(); ctx != nil {
		ctx.header = c.events[i].Name == "thead"
	}
	return i + 1, nil
}

func closeTableSection(c *converter, i int) {
	if ctx := c.b.tables.top(); ctx != nil {
		ctx.header = false
	}
}

// openCaption builds "Table N" with a SEQ field ahead of the caption text.
// Outside a table the caption is a plain paragraph.
func openCaption(c *converter, i int) (int, error) {
	ev := &c.events[i]
	ctx := c.b.tables.top()
	if ctx == nil || ctx.cell != nil {
		return openParagraph(c, i)
	}
	c.beginInline(ev.Name, runProps(ev))
	elements, err := c.collect(i)
	c.endInline(ev.Name)
	if err != nil {
		return 0, err
	}

	c.captions++
	p := &xml.Paragraph{Properties: &xml.ParagraphProperties{Style: &xml.Style{Val: StyleCaption}}}
	if jc := alignment(ev); jc != "" {
		p.Properties.Alignment = &xml.Alignment{Val: jc}
	} else if tjc := ctx.table.Props().Alignment; tjc != nil {
		p.Properties.Alignment = &xml.Alignment{Val: tjc.Val}
	}
	p.Append(xml.NewTextRun("Table "), xml.NewSequenceField("Table", c.captions))
	if len(elements) > 0 {
		p.Append(xml.NewTextRun(" "))
		p.Append(elements...)
	}
	ctx.caption = p
	return c.after(i), nil
}

// openRow starts a row and pushes the cell formatting set on tr.
func openRow(c *converter, i int) (int, error) {
	ev := &c.events[i]
	ctx := c.b.tables.top()
	if ctx == nil {
		return i + 1, nil
	}
	c.b.flush()
	row := ctx.beginRow()
	if h := lengthOf(ev, "height"); h.IsFixed() && h.Value > 0 {
		row.Props().Height = &xml.Height{Val: h.ValueInDxa(), Rule: "atLeast"}
	}
	if ctx.header {
		row.Props().Header = true
	}
	frag := &xml.TableCellProperties{}
	if bg, ok := background(ev); ok {
		frag.Shading = &xml.Shading{Val: "clear", Color: "auto", Fill: bg.Hex()}
	}
	if va := verticalAlignment(ev); va != "" {
		frag.VAlign = &xml.Style{Val: va}
	}
	c.cells.BeginTag(ev.Name, frag)
	c.beginInline(ev.Name, runProps(ev))
	return i + 1, nil
}

func closeRow(c *converter, i int) {
	ctx := c.b.tables.top()
	if ctx == nil || ctx.row == nil {
		return
	}
	ctx.endRow()
	c.cells.EndTag(c.events[i].Name)
	c.endInline(c.events[i].Name)
}

// openCell adds td or th to the current row. Own formatting wins over the
// row's; cells are centered vertically unless told otherwise.
func openCell(c *converter, i int) (int, error) {
	ev := &c.events[i]
	ctx := c.b.tables.top()
	if ctx == nil || ctx.row == nil {
		return i + 1, nil
	}
	c.b.flush()

	cell := &xml.TableCell{}
	props := cell.Props()
	props.Width = widthOf(lengthOf(ev, "width"))
	if va := verticalAlignment(ev); va != "" {
		props.VAlign = &xml.Style{Val: va}
	}
	switch strings.ToLower(ev.Style.Get("writing-mode")) {
	case "vertical-rl", "tb-rl":
		props.TextDirection = &xml.Style{Val: "tbRl"}
	case "vertical-lr", "sideways-lr":
		props.TextDirection = &xml.Style{Val: "btLr"}
	}
	props.Margins = cellMargins(ev.Style.Margin("padding"))
	props.Borders = tableBorders(css.ParseBorder(ev.Style))
	if bg, ok := background(ev); ok {
		props.Shading = &xml.Shading{Val: "clear", Color: "auto", Fill: bg.Hex()}
	}
	if ev.Attrs.Has("nowrap") || strings.EqualFold(ev.Style.Get("white-space"), "nowrap") {
		props.NoWrap = &xml.OnOff{}
	}
	c.cells.Apply(props)
	if props.VAlign == nil {
		props.VAlign = &xml.Style{Val: "center"}
	}

	rowspan, _ := ev.Attrs.GetAsInt("rowspan")
	colspan, _ := ev.Attrs.GetAsInt("colspan")
	ctx.addCell(cell, rowspan, colspan)

	para := &xml.ParagraphProperties{}
	if jc := alignment(ev); jc != "" {
		para.Alignment = &xml.Alignment{Val: jc}
	}
	c.paras.BeginTag(ev.Name, para)
	var fixed func() *xml.RunProperties
	if ev.Name == "th" {
		fixed = bold
	}
	c.beginInline(ev.Name, c.inlineProps(ev, fixed))
	c.b.newParagraph()
	return i + 1, nil
}

// closeCell completes the cell's last paragraph and drops empty ones. A
// cell outside a table leaves a space.
func closeCell(c *converter, i int) {
	ev := &c.events[i]
	ctx := c.b.tables.top()
	if ctx == nil || ctx.cell == nil {
		c.appendText(" ")
		return
	}
	c.b.seal(false)
	cell := ctx.cell
	kept := cell.Content[:0]
	for _, el := range cell.Content {
		if p, ok := el.(*xml.Paragraph); ok && isEmptyParagraph(p) {
			continue
		}
		kept = append(kept, el)
	}
	cell.Content = kept
	if n := len(cell.Content); n == 0 {
		cell.Append(&xml.Paragraph{})
	} else if _, ok := cell.Content[n-1].(*xml.Paragraph); !ok {
		cell.Append(&xml.Paragraph{})
	}
	ctx.endCell()
	c.paras.EndTag(ev.Name)
	c.endInline(ev.Name)
}

func background(ev *TagEvent) (css.Color, bool) {
	if col, ok := css.ParseColor(ev.Style.Get("background-color")); ok {
		return col, true
	}
	if col, ok := css.ParseColor(ev.Style.Get("background")); ok {
		return col, true
	}
	return css.ParseColor(ev.Attrs.Get("bgcolor"))
}

func verticalAlignment(ev *TagEvent) string {
	v := ev.Style.Get("vertical-align")
	if v == "" {
		v = ev.Attrs.Get("valign")
	}
	switch strings.ToLower(v) {
	case "top":
		return "top"
	case "middle", "center":
		return "center"
	case "bottom":
		return "bottom"
	}
	return ""
}
