package xml

import (
	"encoding/xml"
	"io"
	"strings"
)

// Table represents a table in the document
type Table struct {
	Properties *TableProperties `xml:"tblPr"`
	Grid       *TableGrid       `xml:"tblGrid"`
	Rows       []*TableRow      `xml:"tr"`
}

// isBodyElement implements the BodyElement interface
func (t Table) isBodyElement() {}

// Props returns the table properties, creating them on first use.
func (t *Table) Props() *TableProperties {
	if t.Properties == nil {
		t.Properties = &TableProperties{}
	}
	return t.Properties
}

// MarshalXML implements custom XML marshaling for Table to ensure proper namespacing
func (t Table) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tbl"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if t.Properties != nil {
		if err := e.EncodeElement(t.Properties, xml.StartElement{Name: xml.Name{Local: "w:tblPr"}}); err != nil {
			return err
		}
	}
	if t.Grid != nil {
		if err := e.EncodeElement(t.Grid, xml.StartElement{Name: xml.Name{Local: "w:tblGrid"}}); err != nil {
			return err
		}
	}
	for _, row := range t.Rows {
		if err := e.EncodeElement(row, xml.StartElement{Name: xml.Name{Local: "w:tr"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TableProperties represents table formatting properties
type TableProperties struct {
	Style       *Style            `xml:"tblStyle"`
	Width       *Width            `xml:"tblW"`
	Alignment   *Alignment        `xml:"jc"`
	CellSpacing *Width            `xml:"tblCellSpacing"`
	Indentation *Width            `xml:"tblInd"`
	Borders     *TableBorders     `xml:"tblBorders"`
	Layout      *TableLayout      `xml:"tblLayout"`
	CellMargins *TableCellMargins `xml:"tblCellMar"`
	Look        *TableLook        `xml:"tblLook"`
}

// MarshalXML emits properties in schema order.
func (p TableProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tblPr"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	fields := []struct {
		name  string
		value interface{}
		set   bool
	}{
		{"w:tblStyle", p.Style, p.Style != nil},
		{"w:tblW", p.Width, p.Width != nil},
		{"w:jc", p.Alignment, p.Alignment != nil},
		{"w:tblCellSpacing", p.CellSpacing, p.CellSpacing != nil},
		{"w:tblInd", p.Indentation, p.Indentation != nil},
		{"w:tblBorders", p.Borders, p.Borders != nil},
		{"w:tblLayout", p.Layout, p.Layout != nil},
		{"w:tblCellMar", p.CellMargins, p.CellMargins != nil},
		{"w:tblLook", p.Look, p.Look != nil},
	}
	for _, f := range fields {
		if !f.set {
			continue
		}
		if err := e.EncodeElement(f.value, xml.StartElement{Name: xml.Name{Local: f.name}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Width represents a measurement with a unit type (dxa, pct, auto, nil)
type Width struct {
	Type string `xml:"type,attr"`
	Val  int    `xml:"w,attr"`
}

// MarshalXML keeps the element name chosen by the parent.
func (w Width) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{wattr("w", itoa(w.Val)), wattr("type", w.Type)}
	return e.EncodeElement(struct{}{}, start)
}

// TableLayout represents table layout mode
type TableLayout struct {
	Type string `xml:"type,attr"`
}

// MarshalXML implements custom XML marshaling for TableLayout
func (t TableLayout) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tblLayout"}
	start.Attr = []xml.Attr{wattr("type", t.Type)}
	return e.EncodeElement(struct{}{}, start)
}

// TableCellMargins represents default or per-cell margins
type TableCellMargins struct {
	Top    *Width `xml:"top"`
	Left   *Width `xml:"left"`
	Bottom *Width `xml:"bottom"`
	Right  *Width `xml:"right"`
}

// MarshalXML keeps the element name chosen by the parent (tblCellMar, tcMar).
func (m TableCellMargins) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, s := range []struct {
		name string
		w    *Width
	}{{"w:top", m.Top}, {"w:left", m.Left}, {"w:bottom", m.Bottom}, {"w:right", m.Right}} {
		if s.w == nil {
			continue
		}
		if err := e.EncodeElement(s.w, xml.StartElement{Name: xml.Name{Local: s.name}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TableLook represents table style options
type TableLook struct {
	Val         string `xml:"val,attr,omitempty"`
	FirstRow    string `xml:"firstRow,attr,omitempty"`
	LastRow     string `xml:"lastRow,attr,omitempty"`
	FirstColumn string `xml:"firstColumn,attr,omitempty"`
	LastColumn  string `xml:"lastColumn,attr,omitempty"`
	NoHBand     string `xml:"noHBand,attr,omitempty"`
	NoVBand     string `xml:"noVBand,attr,omitempty"`
}

// MarshalXML implements custom XML marshaling for TableLook
func (t TableLook) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tblLook"}
	start.Attr = nil
	for _, a := range []struct{ name, val string }{
		{"val", t.Val}, {"firstRow", t.FirstRow}, {"lastRow", t.LastRow},
		{"firstColumn", t.FirstColumn}, {"lastColumn", t.LastColumn},
		{"noHBand", t.NoHBand}, {"noVBand", t.NoVBand},
	} {
		if a.val != "" {
			start.Attr = append(start.Attr, wattr(a.name, a.val))
		}
	}
	return e.EncodeElement(struct{}{}, start)
}

// TableGrid represents table column definitions
type TableGrid struct {
	Columns []GridColumn `xml:"gridCol"`
}

// MarshalXML implements custom XML marshaling for TableGrid
func (g TableGrid) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tblGrid"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, col := range g.Columns {
		if err := e.EncodeElement(col, xml.StartElement{Name: xml.Name{Local: "w:gridCol"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// GridColumn represents a table column
type GridColumn struct {
	Width int `xml:"w,attr"`
}

// MarshalXML implements custom XML marshaling for GridColumn
func (g GridColumn) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:gridCol"}
	start.Attr = nil
	if g.Width > 0 {
		start.Attr = []xml.Attr{wattr("w", itoa(g.Width))}
	}
	return e.EncodeElement(struct{}{}, start)
}

// TableRow represents a row in a table
type TableRow struct {
	Properties *TableRowProperties `xml:"trPr"`
	Cells      []*TableCell        `xml:"tc"`
}

// Props returns the row properties, creating them on first use.
func (r *TableRow) Props() *TableRowProperties {
	if r.Properties == nil {
		r.Properties = &TableRowProperties{}
	}
	return r.Properties
}

// Span returns the number of grid columns the row covers.
func (r *TableRow) Span() int {
	n := 0
	for _, c := range r.Cells {
		n += c.Span()
	}
	return n
}

// MarshalXML implements custom XML marshaling for TableRow to ensure proper namespacing
func (r TableRow) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tr"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if r.Properties != nil {
		if err := e.EncodeElement(r.Properties, xml.StartElement{Name: xml.Name{Local: "w:trPr"}}); err != nil {
			return err
		}
	}
	for _, cell := range r.Cells {
		if err := e.EncodeElement(cell, xml.StartElement{Name: xml.Name{Local: "w:tc"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TableRowProperties represents row properties
type TableRowProperties struct {
	CantSplit bool    `xml:"-"`
	Height    *Height `xml:"trHeight"`
	Header    bool    `xml:"-"` // repeat as header row
}

// UnmarshalXML implements custom XML unmarshaling for TableRowProperties
func (p *TableRowProperties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "cantSplit":
				p.CantSplit = true
				if err := d.Skip(); err != nil {
					return err
				}
			case "tblHeader":
				p.Header = true
				if err := d.Skip(); err != nil {
					return err
				}
			case "trHeight":
				var height Height
				if err := d.DecodeElement(&height, &t); err != nil {
					return err
				}
				p.Height = &height
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == "trPr" {
				return nil
			}
		}
	}
}

// MarshalXML implements custom XML marshaling for TableRowProperties
func (p TableRowProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:trPr"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if p.CantSplit {
		if err := e.EncodeElement(struct{}{}, xml.StartElement{Name: xml.Name{Local: "w:cantSplit"}}); err != nil {
			return err
		}
	}
	if p.Height != nil {
		if err := e.EncodeElement(p.Height, xml.StartElement{Name: xml.Name{Local: "w:trHeight"}}); err != nil {
			return err
		}
	}
	if p.Header {
		if err := e.EncodeElement(struct{}{}, xml.StartElement{Name: xml.Name{Local: "w:tblHeader"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Height represents row height
type Height struct {
	Val  int    `xml:"val,attr"`
	Rule string `xml:"hRule,attr,omitempty"`
}

// MarshalXML implements custom XML marshaling for Height
func (h Height) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{wattr("val", itoa(h.Val))}
	if h.Rule != "" {
		start.Attr = append(start.Attr, wattr("hRule", h.Rule))
	}
	return e.EncodeElement(struct{}{}, start)
}

// TableCell represents a cell in a table. Content holds paragraphs and
// nested tables in order.
type TableCell struct {
	Properties *TableCellProperties `xml:"tcPr"`
	Content    []BodyElement        `xml:"-"`
}

// Props returns the cell properties, creating them on first use.
func (c *TableCell) Props() *TableCellProperties {
	if c.Properties == nil {
		c.Properties = &TableCellProperties{}
	}
	return c.Properties
}

// Append adds block content to the cell.
func (c *TableCell) Append(el ...BodyElement) {
	c.Content = append(c.Content, el...)
}

// Span returns the number of grid columns the cell covers.
func (c *TableCell) Span() int {
	if c.Properties != nil && c.Properties.GridSpan != nil {
		return ClampSpan(c.Properties.GridSpan.Val, MaxGridSpan)
	}
	return 1
}

// Span limits, the same ones HTML puts on colspan and rowspan.
const (
	MaxGridSpan = 1000
	MaxRowSpan  = 65534
)

// ClampSpan limits a span to [1, limit].
func ClampSpan(span, limit int) int {
	return min(max(span, 1), limit)
}

// MergeContinue reports whether the cell continues a vertical merge.
func (c *TableCell) MergeContinue() bool {
	if c.Properties == nil || c.Properties.VMerge == nil {
		return false
	}
	return c.Properties.VMerge.Val == "" || c.Properties.VMerge.Val == "continue"
}

// Paragraphs returns the cell's direct paragraphs.
func (c *TableCell) Paragraphs() []*Paragraph {
	var paras []*Paragraph
	for _, el := range c.Content {
		if p, ok := el.(*Paragraph); ok {
			paras = append(paras, p)
		}
	}
	return paras
}

// UnmarshalXML implements custom XML unmarshaling to keep paragraphs and tables in order
func (c *TableCell) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		token, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tcPr":
				var props TableCellProperties
				if err := d.DecodeElement(&props, &t); err != nil {
					return err
				}
				c.Properties = &props
			case "p":
				var para Paragraph
				if err := d.DecodeElement(&para, &t); err != nil {
					return err
				}
				c.Content = append(c.Content, &para)
			case "tbl":
				var table Table
				if err := d.DecodeElement(&table, &t); err != nil {
					return err
				}
				c.Content = append(c.Content, &table)
			case "sdt":
				inner, _, err := decodeBlocks(d, t)
				if err != nil {
					return err
				}
				c.Content = append(c.Content, inner...)
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return nil
			}
		}
	}
}

// MarshalXML implements custom XML marshaling for TableCell to ensure proper namespacing
func (c TableCell) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tc"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if c.Properties != nil {
		if err := e.EncodeElement(c.Properties, xml.StartElement{Name: xml.Name{Local: "w:tcPr"}}); err != nil {
			return err
		}
	}
	content := c.Content
	// A cell must end with a paragraph.
	if len(content) == 0 {
		content = []BodyElement{&Paragraph{}}
	} else if _, ok := content[len(content)-1].(*Paragraph); !ok {
		content = append(content[:len(content):len(content)], &Paragraph{})
	}
	if err := encodeBlocks(e, content); err != nil {
		return err
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// GetText returns the concatenated text of all paragraphs in a cell
func (c *TableCell) GetText() string {
	var texts []string
	for _, para := range c.Paragraphs() {
		if text := para.GetText(); text != "" {
			texts = append(texts, text)
		}
	}
	return strings.Join(texts, "\n")
}

// TableCellProperties represents cell properties
type TableCellProperties struct {
	Width         *Width            `xml:"tcW"`
	GridSpan      *IntValue         `xml:"gridSpan"`
	VMerge        *Style            `xml:"vMerge"`
	Borders       *TableBorders     `xml:"tcBorders"`
	Shading       *Shading          `xml:"shd"`
	NoWrap        *OnOff            `xml:"noWrap"`
	Margins       *TableCellMargins `xml:"tcMar"`
	TextDirection *Style            `xml:"textDirection"`
	VAlign        *Style            `xml:"vAlign"`
}

// MarshalXML emits properties in schema order.
func (p TableCellProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tcPr"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if p.Width != nil {
		if err := e.EncodeElement(p.Width, xml.StartElement{Name: xml.Name{Local: "w:tcW"}}); err != nil {
			return err
		}
	}
	if p.GridSpan != nil {
		if err := e.EncodeElement(p.GridSpan, xml.StartElement{Name: xml.Name{Local: "w:gridSpan"}}); err != nil {
			return err
		}
	}
	if p.VMerge != nil {
		// An empty val means "continue".
		vm := xml.StartElement{Name: xml.Name{Local: "w:vMerge"}}
		if p.VMerge.Val != "" {
			vm.Attr = []xml.Attr{wattr("val", p.VMerge.Val)}
		}
		if err := e.EncodeElement(struct{}{}, vm); err != nil {
			return err
		}
	}
	if p.Borders != nil {
		if err := e.EncodeElement(p.Borders, xml.StartElement{Name: xml.Name{Local: "w:tcBorders"}}); err != nil {
			return err
		}
	}
	if p.Shading != nil {
		if err := e.EncodeElement(p.Shading, xml.StartElement{Name: xml.Name{Local: "w:shd"}}); err != nil {
			return err
		}
	}
	if p.NoWrap != nil {
		if err := e.EncodeElement(p.NoWrap, xml.StartElement{Name: xml.Name{Local: "w:noWrap"}}); err != nil {
			return err
		}
	}
	if p.Margins != nil {
		if err := e.EncodeElement(p.Margins, xml.StartElement{Name: xml.Name{Local: "w:tcMar"}}); err != nil {
			return err
		}
	}
	if p.TextDirection != nil {
		if err := e.EncodeElement(p.TextDirection, xml.StartElement{Name: xml.Name{Local: "w:textDirection"}}); err != nil {
			return err
		}
	}
	if p.VAlign != nil {
		if err := e.EncodeElement(p.VAlign, xml.StartElement{Name: xml.Name{Local: "w:vAlign"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// TableBorders represents w:tblBorders and w:tcBorders. Inside borders only
// apply at table level.
type TableBorders struct {
	Top     *Border `xml:"top"`
	Left    *Border `xml:"left"`
	Bottom  *Border `xml:"bottom"`
	Right   *Border `xml:"right"`
	InsideH *Border `xml:"insideH"`
	InsideV *Border `xml:"insideV"`
}

// MarshalXML keeps the element name chosen by the parent.
func (b TableBorders) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	return encodeSides(e, start, []side{
		{"w:top", b.Top}, {"w:left", b.Left}, {"w:bottom", b.Bottom},
		{"w:right", b.Right}, {"w:insideH", b.InsideH}, {"w:insideV", b.InsideV},
	})
}
