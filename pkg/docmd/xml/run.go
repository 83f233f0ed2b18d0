package xml

import (
	"encoding/xml"
	"io"
	"strings"
)

// Run represents a run of text with common properties
type Run struct {
	Properties *RunProperties `xml:"rPr"`
	// Content keeps text, breaks, tabs, drawings and note references in order
	Content []RunContent `xml:"-"`
}

// isParagraphContent implements the ParagraphContent interface
func (r Run) isParagraphContent() {}

// NewTextRun returns a run holding text. Leading or trailing spaces are preserved.
func NewTextRun(text string) *Run {
	return &Run{Content: []RunContent{NewText(text)}}
}

// Props returns the run properties, creating them on first use.
func (r *Run) Props() *RunProperties {
	if r.Properties == nil {
		r.Properties = &RunProperties{}
	}
	return r.Properties
}

// Append adds content at the end of the run.
func (r *Run) Append(content ...RunContent) {
	r.Content = append(r.Content, content...)
}

// StyleID returns the character style id or "".
func (r *Run) StyleID() string {
	if r.Properties == nil || r.Properties.Style == nil {
		return ""
	}
	return r.Properties.Style.Val
}

// Drawing returns the first drawing of the run, if any.
func (r *Run) Drawing() *Drawing {
	for _, c := range r.Content {
		if d, ok := c.(*Drawing); ok {
			return d
		}
	}
	return nil
}

// UnmarshalXML implements custom XML unmarshaling to preserve content order
func (r *Run) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
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
			case "rPr":
				var props RunProperties
				if err := d.DecodeElement(&props, &t); err != nil {
					return err
				}
				r.Properties = &props
			case "t", "instrText", "delText":
				var text Text
				if err := d.DecodeElement(&text, &t); err != nil {
					return err
				}
				if t.Name.Local == "t" {
					r.Content = append(r.Content, &text)
				}
			case "br", "cr":
				var br Break
				if err := d.DecodeElement(&br, &t); err != nil {
					return err
				}
				r.Content = append(r.Content, &br)
			case "tab":
				if err := d.Skip(); err != nil {
					return err
				}
				r.Content = append(r.Content, &TabChar{})
			case "drawing":
				var drawing Drawing
				if err := d.DecodeElement(&drawing, &t); err != nil {
					return err
				}
				r.Content = append(r.Content, &drawing)
			case "footnoteReference", "endnoteReference":
				ref := &NoteReference{Endnote: t.Name.Local == "endnoteReference"}
				if err := d.DecodeElement(ref, &t); err != nil {
					return err
				}
				r.Content = append(r.Content, ref)
			case "sym":
				sym := &Symbol{Font: attrValue(t, "font"), Char: attrValue(t, "char")}
				if err := d.Skip(); err != nil {
					return err
				}
				r.Content = append(r.Content, sym)
			default:
				raw, err := readRaw(d, t)
				if err != nil {
					return err
				}
				r.Content = append(r.Content, &raw)
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return nil
			}
		}
	}
}

// MarshalXML implements custom XML marshaling for Run to ensure proper namespacing
func (r Run) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:r"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if r.Properties != nil {
		if err := e.EncodeElement(r.Properties, xml.StartElement{Name: xml.Name{Local: "w:rPr"}}); err != nil {
			return err
		}
	}
	for _, c := range r.Content {
		if err := e.EncodeElement(c, xml.StartElement{Name: xml.Name{Local: "w:" + runContentName(c)}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

func runContentName(c RunContent) string {
	switch v := c.(type) {
	case *Text:
		return "t"
	case *Break:
		return "br"
	case *TabChar:
		return "tab"
	case *Drawing:
		return "drawing"
	case *NoteReference:
		if v.Endnote {
			return "endnoteReference"
		}
		return "footnoteReference"
	case *Symbol:
		return "sym"
	}
	return "raw"
}

// GetText returns the text content of a run. Breaks become newlines and
// tabs become tab characters.
func (r *Run) GetText() string {
	var sb strings.Builder
	for _, c := range r.Content {
		switch v := c.(type) {
		case *Text:
			sb.WriteString(v.Content)
		case *Break:
			sb.WriteString("\n")
		case *TabChar:
			sb.WriteString("\t")
		}
	}
	return sb.String()
}

// Text represents text content
type Text struct {
	Space   string `xml:"space,attr"`
	Content string `xml:",chardata"`
}

func (t Text) isRunContent() {}

// NewText returns a text element, marked to preserve surrounding whitespace
// when needed.
func NewText(s string) *Text {
	t := &Text{Content: s}
	if s != strings.TrimSpace(s) {
		t.Space = "preserve"
	}
	return t
}

// MarshalXML implements custom XML marshaling for Text to ensure proper namespacing
func (t Text) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:t"}
	start.Attr = nil
	if t.Space == "preserve" {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: "xml:space"}, Value: "preserve"})
	}
	return e.EncodeElement(t.Content, start)
}

// Break represents a line break
type Break struct {
	Type string `xml:"type,attr,omitempty"`
}

func (b Break) isRunContent() {}

// MarshalXML implements xml.Marshaler to ensure Break is self-closing
func (b Break) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:br"}
	start.Attr = nil
	if b.Type != "" {
		start.Attr = append(start.Attr, wattr("type", b.Type))
	}
	return e.EncodeElement(struct{}{}, start)
}

// TabChar is a w:tab inside a run.
type TabChar struct{}

func (t TabChar) isRunContent() {}

// MarshalXML implements custom XML marshaling for TabChar
func (t TabChar) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:tab"}
	start.Attr = nil
	return e.EncodeElement(struct{}{}, start)
}

// Symbol is a w:sym character taken from a symbol font.
type Symbol struct {
	Font string
	Char string
}

func (s Symbol) isRunContent() {}

// MarshalXML implements custom XML marshaling for Symbol
func (s Symbol) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:sym"}
	start.Attr = []xml.Attr{wattr("font", s.Font), wattr("char", s.Char)}
	return e.EncodeElement(struct{}{}, start)
}

// NoteReference is a footnote or endnote reference mark.
type NoteReference struct {
	ID      int  `xml:"id,attr"`
	Endnote bool `xml:"-"`
}

func (n NoteReference) isRunContent() {}

// MarshalXML implements custom XML marshaling for NoteReference
func (n NoteReference) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:footnoteReference"}
	if n.Endnote {
		start.Name.Local = "w:endnoteReference"
	}
	start.Attr = []xml.Attr{wattr("id", itoa(n.ID))}
	return e.EncodeElement(struct{}{}, start)
}

// RunProperties represents run formatting properties
type RunProperties struct {
	Style         *Style    `xml:"rStyle"`
	Font          *Font     `xml:"rFonts"`
	Bold          *OnOff    `xml:"b"`
	Italic        *OnOff    `xml:"i"`
	Caps          *OnOff    `xml:"caps"`
	Strike        *OnOff    `xml:"strike"`
	NoProof       *OnOff    `xml:"noProof"`
	Color         *Color    `xml:"color"`
	Size          *IntValue `xml:"sz"`
	SizeCs        *IntValue `xml:"szCs"`
	Highlight     *Style    `xml:"highlight"`
	Underline     *Style    `xml:"u"`
	Border        *Border   `xml:"bdr"`
	Shading       *Shading  `xml:"shd"`
	VerticalAlign *Style    `xml:"vertAlign"`
	Lang          *Lang     `xml:"lang"`
}

// MarshalXML emits properties in schema order.
func (p RunProperties) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:rPr"}
	start.Attr = nil
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	fields := []struct {
		name  string
		value interface{}
		set   bool
	}{
		{"w:rStyle", p.Style, p.Style != nil},
		{"w:rFonts", p.Font, p.Font != nil},
		{"w:b", p.Bold, p.Bold != nil},
		{"w:i", p.Italic, p.Italic != nil},
		{"w:caps", p.Caps, p.Caps != nil},
		{"w:strike", p.Strike, p.Strike != nil},
		{"w:noProof", p.NoProof, p.NoProof != nil},
		{"w:color", p.Color, p.Color != nil},
		{"w:sz", p.Size, p.Size != nil},
		{"w:szCs", p.SizeCs, p.SizeCs != nil},
		{"w:highlight", p.Highlight, p.Highlight != nil},
		{"w:u", p.Underline, p.Underline != nil},
		{"w:bdr", p.Border, p.Border != nil},
		{"w:shd", p.Shading, p.Shading != nil},
		{"w:vertAlign", p.VerticalAlign, p.VerticalAlign != nil},
		{"w:lang", p.Lang, p.Lang != nil},
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

// Color represents text color
type Color struct {
	Val string `xml:"val,attr"`
}

// MarshalXML implements custom XML marshaling for Color
func (c Color) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:color"}
	start.Attr = []xml.Attr{wattr("val", c.Val)}
	return e.EncodeElement(struct{}{}, start)
}

// Lang represents language settings
type Lang struct {
	Val      string `xml:"val,attr,omitempty"`
	EastAsia string `xml:"eastAsia,attr,omitempty"`
	Bidi     string `xml:"bidi,attr,omitempty"`
}

// MarshalXML implements custom XML marshaling for Lang
func (l Lang) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:lang"}
	start.Attr = nil
	if l.Val != "" {
		start.Attr = append(start.Attr, wattr("val", l.Val))
	}
	if l.EastAsia != "" {
		start.Attr = append(start.Attr, wattr("eastAsia", l.EastAsia))
	}
	if l.Bidi != "" {
		start.Attr = append(start.Attr, wattr("bidi", l.Bidi))
	}
	return e.EncodeElement(struct{}{}, start)
}

// Font represents font information
type Font struct {
	ASCII    string `xml:"ascii,attr,omitempty"`
	HAnsi    string `xml:"hAnsi,attr,omitempty"`
	EastAsia string `xml:"eastAsia,attr,omitempty"`
	CS       string `xml:"cs,attr,omitempty"`
}

// Fonts sets every script slot to the same face.
func Fonts(face string) *Font {
	return &Font{ASCII: face, HAnsi: face, EastAsia: face, CS: face}
}

// MarshalXML implements custom XML marshaling for Font
func (f Font) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:rFonts"}
	start.Attr = nil
	for _, a := range []struct{ name, val string }{
		{"ascii", f.ASCII}, {"hAnsi", f.HAnsi}, {"eastAsia", f.EastAsia}, {"cs", f.CS},
	} {
		if a.val != "" {
			start.Attr = append(start.Attr, wattr(a.name, a.val))
		}
	}
	return e.EncodeElement(struct{}{}, start)
}
