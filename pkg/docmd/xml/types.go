package xml

import (
	"encoding/xml"
	"strings"
)

// Namespace URIs used by the WordprocessingML parts we read and write.
const (
	NamespaceW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NamespaceR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NamespaceWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	NamespaceA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NamespacePic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	NamespaceW14 = "http://schemas.microsoft.com/office/word/2010/wordml"
	NamespaceMC  = "http://schemas.openxmlformats.org/markup-compatibility/2006"
	NamespaceXML = "http://www.w3.org/XML/1998/namespace"
)

// BodyElement represents any element that can appear in a document body
// or a table cell.
type BodyElement interface {
	isBodyElement()
}

// ParagraphContent represents any content that can appear in a paragraph
type ParagraphContent interface {
	isParagraphContent()
}

// RunContent represents any content that can appear inside a run
type RunContent interface {
	isRunContent()
}

// RawXMLElement represents an element we preserve but don't model.
// Content holds the inner XML with conventional prefixes.
type RawXMLElement struct {
	XMLName xml.Name
	Attrs   []xml.Attr
	Content []byte
}

func (r RawXMLElement) isRunContent()       {}
func (r RawXMLElement) isParagraphContent() {}

// MarshalXML writes the element back with its conventional prefix.
func (r RawXMLElement) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: prefixed(r.XMLName)}
	start.Attr = make([]xml.Attr, 0, len(r.Attrs))
	for _, a := range r.Attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: prefixed(a.Name)}, Value: a.Value})
	}
	inner := struct {
		Content []byte `xml:",innerxml"`
	}{Content: r.Content}
	return e.EncodeElement(inner, start)
}

// Empty represents an empty element (used for boolean properties)
type Empty struct{}

// OnOff is a toggle property such as w:b. A missing val means on.
type OnOff struct {
	Val string `xml:"val,attr"`
}

// On reports whether the toggle is set.
func (o *OnOff) On() bool {
	if o == nil {
		return false
	}
	switch strings.ToLower(o.Val) {
	case "0", "false", "off", "none":
		return false
	}
	return true
}

// MarshalXML keeps the element name chosen by the parent.
func (o OnOff) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = nil
	if o.Val != "" {
		start.Attr = append(start.Attr, wattr("val", o.Val))
	}
	return e.EncodeElement(struct{}{}, start)
}

// Style represents a style reference
type Style struct {
	Val string `xml:"val,attr"`
}

// MarshalXML implements custom XML marshaling for Style
func (s Style) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	// The element name depends on the context (pStyle, rStyle, tblStyle)
	start.Attr = []xml.Attr{wattr("val", s.Val)}
	return e.EncodeElement(struct{}{}, start)
}

// Shading represents cell, paragraph or run shading
type Shading struct {
	Val   string `xml:"val,attr,omitempty"`
	Color string `xml:"color,attr,omitempty"`
	Fill  string `xml:"fill,attr,omitempty"`
}

// MarshalXML implements custom XML marshaling for Shading
func (s Shading) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:shd"}
	start.Attr = nil
	if s.Val != "" {
		start.Attr = append(start.Attr, wattr("val", s.Val))
	}
	if s.Color != "" {
		start.Attr = append(start.Attr, wattr("color", s.Color))
	}
	if s.Fill != "" {
		start.Attr = append(start.Attr, wattr("fill", s.Fill))
	}
	return e.EncodeElement(struct{}{}, start)
}

// Border is a single border line (w:top, w:left, w:insideH, w:bdr, ...)
type Border struct {
	Val   string `xml:"val,attr"`
	Size  int    `xml:"sz,attr,omitempty"`
	Space int    `xml:"space,attr,omitempty"`
	Color string `xml:"color,attr,omitempty"`
}

// MarshalXML keeps the element name chosen by the parent.
func (b Border) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Attr = []xml.Attr{wattr("val", b.Val)}
	if b.Size != 0 {
		start.Attr = append(start.Attr, wattr("sz", itoa(b.Size)))
	}
	if b.Space != 0 {
		start.Attr = append(start.Attr, wattr("space", itoa(b.Space)))
	}
	if b.Color != "" {
		start.Attr = append(start.Attr, wattr("color", b.Color))
	}
	return e.EncodeElement(struct{}{}, start)
}

// Visible reports whether the border draws a line.
func (b *Border) Visible() bool {
	return b != nil && b.Val != "" && b.Val != "none" && b.Val != "nil"
}
