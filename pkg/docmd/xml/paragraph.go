package xml

import (
	"encoding/xml"
	"io"
	"strings"
)

// Paragraph represents a paragraph in the document
type Paragraph struct {
	Properties *ParagraphProperties `xml:"pPr"`
	// Content maintains the order of runs, hyperlinks, fields and content controls
	Content []ParagraphContent `xml:"-"`
}

// isBodyElement implements the BodyElement interface
func (p Paragraph) isBodyElement() {}

// NewParagraph returns a paragraph holding the given content.
func NewParagraph(content ...ParagraphContent) *Paragraph {
	return &Paragraph{Content: content}
}

// Append adds content at the end of the paragraph.
func (p *Paragraph) Append(content ...ParagraphContent) {
	p.Content = append(p.Content, content...)
}

// Props returns the paragraph properties, creating them on first use.
func (p *Paragraph) Props() *ParagraphProperties {
	if p.Properties == nil {
		p.Properties = &ParagraphProperties{}
	}
	return p.Properties
}

// StyleID returns the paragraph style id or "".
func (p *Paragraph) StyleID() string {
	if p.Properties == nil || p.Properties.Style == nil {
		return ""
	}
	return p.Properties.Style.Val
}

// HasContent reports whether the paragraph holds anything beyond properties.
func (p *Paragraph) HasContent() bool {
	return len(p.Content) > 0
}

// UnmarshalXML implements custom XML unmarshaling to preserve element order
func (p *Paragraph) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	content, err := decodeInline(d, start, p)
	if err != nil {
		return err
	}
	p.Content = content
	return nil
}

// decodeInline reads paragraph-level content. Tracked insertions and smart
// tags are flattened; pPr is stored on p when it is not nil.
func decodeInline(d *xml.Decoder, start xml.StartElement, p *Paragraph) ([]ParagraphContent, error) {
	var content []ParagraphContent
	for {
		token, err := d.Token()
		if err == io.EOF {
			return content, nil
		}
		if err != nil {
			return nil, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "pPr":
				var props ParagraphProperties
				if err := d.DecodeElement(&props, &t); err != nil {
					return nil, err
				}
				if p != nil {
					p.Properties = &props
				}
			case "r":
				var run Run
				if err := d.DecodeElement(&run, &t); err != nil {
					return nil, err
				}
				content = append(content, &run)
			case "hyperlink":
				var link Hyperlink
				if err := d.DecodeElement(&link, &t); err != nil {
					return nil, err
				}
				content = append(content, &link)
			case "sdt":
				var sdt SdtRun
				if err := d.DecodeElement(&sdt, &t); err != nil {
					return nil, err
				}
				content = append(content, &sdt)
			case "fldSimple":
				var field SimpleField
				if err := d.DecodeElement(&field, &t); err != nil {
					return nil, err
				}
				content = append(content, &field)
			case "ins", "smartTag", "customXml":
				inner, err := decodeInline(d, t, nil)
				if err != nil {
					return nil, err
				}
				content = append(content, inner...)
			default:
				if err := d.Skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return content, nil
			}
		}
	}
}

// MarshalXML implements custom XML marshaling for Paragraph to ensure proper namespacing
func (p Paragraph) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:p"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if p.Properties != nil {
		if err := e.EncodeElement(p.Properties, xml.StartElement{Name: xml.Name{Local: "w:pPr"}}); err != nil {
			return err
		}
	}
	if err := encodeInline(e, p.Content); err != nil {
		return err
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

func encodeInline(e *xml.Encoder, content []ParagraphContent) error {
	for _, c := range content {
		var name string
		switch c.(type) {
		case *Run:
			name = "w:r"
		case *Hyperlink:
			name = "w:hyperlink"
		case *SdtRun:
			name = "w:sdt"
		case *SimpleField:
			name = "w:fldSimple"
		case *RawXMLElement:
			name = "raw"
		default:
			continue
		}
		if err := e.EncodeElement(c, xml.StartElement{Name: xml.Name{Local: name}}); err != nil {
			return err
		}
	}
	return nil
}

// Runs returns every run of the paragraph in document order, including runs
// nested in hyperlinks, fields and content controls.
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	for _, c := range p.Content {
		runs = append(runs, runsOf(c)...)
	}
	return runs
}

func runsOf(c ParagraphContent) []*Run {
	switch v := c.(type) {
	case *Run:
		return []*Run{v}
	case *Hyperlink:
		return v.Runs
	case *SdtRun:
		return v.Content
	case *SimpleField:
		return v.Runs
	}
	return nil
}

// GetText returns the concatenated text of all runs in a paragraph
func (p *Paragraph) GetText() string {
	var sb strings.Builder
	for _, r := range p.Runs() {
		sb.WriteString(r.GetText())
	}
	return sb.String()
}

// ParagraphProperties represents paragraph formatting properties
type ParagraphProperties struct {
	Style         *Style               `xml:"pStyle"`
	KeepNext      *OnOff               `xml:"keepNext"`
	Numbering     *NumberingProperties `xml:"numPr"`
	Borders       *ParagraphBorders    `xml:"pBdr"`
	Shading       *Shading             `xml:"shd"`
	Tabs          *Tabs                `xml:"tabs"`
	Spacing       *Spacing             `xml:"spacing"`
	Indentation   *Indentation         `xml:"ind"`
	Alignment     *Alignment           `xml:"jc"`
	TextDirection *Style               `xml:"textDirection"`
	OutlineLevel  *IntValue            `xml:"outlineLvl"`
	RunProperties *RunProperties       `xml:"rPr"` // paragraph mark run properties
}

// MarshalXML emits properties in schema order.
func (p ParagraphProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:pPr"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	fields := []struct {
		name  string
		value interface{}
		set   bool
	}{
		{"w:pStyle", p.Style, p.Style != nil},
		{"w:keepNext", p.KeepNext, p.KeepNext != nil},
		{"w:numPr", p.Numbering, p.Numbering != nil},
		{"w:pBdr", p.Borders, p.Borders != nil},
		{"w:shd", p.Shading, p.Shading != nil},
		{"w:tabs", p.Tabs, p.Tabs != nil},
		{"w:spacing", p.Spacing, p.Spacing != nil},
		{"w:ind", p.Indentation, p.Indentation != nil},
		{"w:jc", p.Alignment, p.Alignment != nil},
		{"w:textDirection", p.TextDirection, p.TextDirection != nil},
		{"w:outlineLvl", p.OutlineLevel, p.OutlineLevel != nil},
		{"w:rPr", p.RunProperties, p.RunProperties != nil},
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

// HasBorders reports whether any paragraph border is visible.
func (p *ParagraphProperties) HasBorders() bool {
	if p == nil || p.Borders == nil {
		return false
	}
	b := p.Borders
	return b.Top.Visible() || b.Left.Visible() || b.Bottom.Visible() || b.Right.Visible()
}

// HasShading reports whether the paragraph has a non-empty fill.
func (p *ParagraphProperties) HasShading() bool {
	if p == nil || p.Shading == nil {
		return false
	}
	if fill := strings.ToLower(p.Shading.Fill); fill != "" && fill != "auto" {
		return true
	}
	switch p.Shading.Val {
	case "", "clear", "nil":
		return false
	}
	return true
}

// HasIndentation reports whether the paragraph is indented.
func (p *ParagraphProperties) HasIndentation() bool {
	if p == nil || p.Indentation == nil {
		return false
	}
	i := p.Indentation
	return i.Left != 0 || i.Right != 0 || i.FirstLine != 0 || i.Hanging != 0
}

// NumberingProperties links a paragraph to a numbering instance.
type NumberingProperties struct {
	Level *IntValue `xml:"ilvl"`
	ID    *IntValue `xml:"numId"`
}

// MarshalXML implements custom XML marshaling for NumberingProperties
func (n NumberingProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:numPr"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if n.Level != nil {
		if err := e.EncodeElement(n.Level, xml.StartElement{Name: xml.Name{Local: "w:ilvl"}}); err != nil {
			return err
		}
	}
	if n.ID != nil {
		if err := e.EncodeElement(n.ID, xml.StartElement{Name: xml.Name{Local: "w:numId"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// IntValue is an element carrying a single integer w:val.
type IntValue struct {
	Val int `xml:"val,attr"`
}

// Int returns a pointer to an IntValue.
func Int(v int) *IntValue {
	return &IntValue{Val: v}
}

// MarshalXML keeps the element name chosen by the parent.
func (v IntValue) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{wattr("val", itoa(v.Val))}
	return e.EncodeElement(struct{}{}, start)
}

// ParagraphBorders represents w:pBdr
type ParagraphBorders struct {
	Top    *Border `xml:"top"`
	Left   *Border `xml:"left"`
	Bottom *Border `xml:"bottom"`
	Right  *Border `xml:"right"`
}

// MarshalXML implements custom XML marshaling for ParagraphBorders
func (b ParagraphBorders) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:pBdr"}
	return encodeSides(e, start, []side{
		{"w:top", b.Top}, {"w:left", b.Left}, {"w:bottom", b.Bottom}, {"w:right", b.Right},
	})
}

type side struct {
	name   string
	border *Border
}

func encodeSides(e *xml.Encoder, start xml.StartElement, sides []side) error {
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, s := range sides {
		if s.border == nil {
			continue
		}
		if err := e.EncodeElement(s.border, xml.StartElement{Name: xml.Name{Local: s.name}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Tabs represents tab stops
type Tabs struct {
	Tab []Tab `xml:"tab"`
}

// MarshalXML implements custom XML marshaling for Tabs
func (t Tabs) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tabs"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, tab := range t.Tab {
		if err := e.EncodeElement(tab, xml.StartElement{Name: xml.Name{Local: "w:tab"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Tab represents a single tab stop
type Tab struct {
	Val string `xml:"val,attr"`
	Pos int    `xml:"pos,attr"`
}

// MarshalXML implements custom XML marshaling for Tab
func (t Tab) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tab"}
	start.Attr = []xml.Attr{wattr("val", t.Val), wattr("pos", itoa(t.Pos))}
	return e.EncodeElement(struct{}{}, start)
}

// Alignment represents paragraph justification
type Alignment struct {
	Val string `xml:"val,attr"`
}

// MarshalXML implements custom XML marshaling for Alignment
func (a Alignment) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{wattr("val", a.Val)}
	return e.EncodeElement(struct{}{}, start)
}

// Indentation represents paragraph indentation in twentieths of a point
type Indentation struct {
	Left      int `xml:"left,attr"`
	Right     int `xml:"right,attr"`
	FirstLine int `xml:"firstLine,attr"`
	Hanging   int `xml:"hanging,attr"`
}

// MarshalXML implements custom XML marshaling for Indentation
func (i Indentation) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:ind"}
	start.Attr = nil
	if i.Left != 0 {
		start.Attr = append(start.Attr, wattr("left", itoa(i.Left)))
	}
	if i.Right != 0 {
		start.Attr = append(start.Attr, wattr("right", itoa(i.Right)))
	}
	if i.FirstLine != 0 {
		start.Attr = append(start.Attr, wattr("firstLine", itoa(i.FirstLine)))
	}
	if i.Hanging != 0 {
		start.Attr = append(start.Attr, wattr("hanging", itoa(i.Hanging)))
	}
	return e.EncodeElement(struct{}{}, start)
}

// Spacing represents paragraph spacing
type Spacing struct {
	Before      int    `xml:"before,attr,omitempty"`
	BeforeLines int    `xml:"beforeLines,attr,omitempty"`
	After       int    `xml:"after,attr,omitempty"`
	Line        int    `xml:"line,attr,omitempty"`
	LineRule    string `xml:"lineRule,attr,omitempty"`
	// AfterSet forces w:after to be written even when zero.
	AfterSet bool `xml:"-"`
}

// MarshalXML implements custom XML marshaling for Spacing
func (s Spacing) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:spacing"}
	start.Attr = nil
	if s.Before != 0 {
		start.Attr = append(start.Attr, wattr("before", itoa(s.Before)))
	}
	if s.BeforeLines != 0 {
		start.Attr = append(start.Attr, wattr("beforeLines", itoa(s.BeforeLines)))
	}
	if s.After != 0 || s.AfterSet {
		start.Attr = append(start.Attr, wattr("after", itoa(s.After)))
	}
	if s.Line != 0 {
		start.Attr = append(start.Attr, wattr("line", itoa(s.Line)))
	}
	if s.LineRule != "" {
		start.Attr = append(start.Attr, wattr("lineRule", s.LineRule))
	}
	return e.EncodeElement(struct{}{}, start)
}

// Hyperlink represents a hyperlink in the document. Exactly one of ID
// (external target) and Anchor (bookmark) is normally set.
type Hyperlink struct {
	ID      string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	Anchor  string `xml:"anchor,attr,omitempty"`
	Tooltip string `xml:"tooltip,attr,omitempty"`
	History string `xml:"history,attr,omitempty"`
	Runs    []*Run `xml:"r"`
}

// isParagraphContent implements the ParagraphContent interface
func (h Hyperlink) isParagraphContent() {}

// MarshalXML implements custom XML marshaling for Hyperlink to ensure proper namespacing
func (h Hyperlink) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:hyperlink"}
	start.Attr = nil
	if h.ID != "" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "r:id"}, Value: h.ID})
	}
	if h.Anchor != "" {
		start.Attr = append(start.Attr, wattr("anchor", h.Anchor))
	}
	if h.Tooltip != "" {
		start.Attr = append(start.Attr, wattr("tooltip", h.Tooltip))
	}
	if h.History != "" {
		start.Attr = append(start.Attr, wattr("history", h.History))
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, run := range h.Runs {
		if err := e.EncodeElement(run, xml.StartElement{Name: xml.Name{Local: "w:r"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// GetText returns the concatenated text of all runs in a hyperlink
func (h *Hyperlink) GetText() string {
	var sb strings.Builder
	for _, run := range h.Runs {
		sb.WriteString(run.GetText())
	}
	return sb.String()
}
