package xml

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Document represents a Word document structure
type Document struct {
	XMLName xml.Name   `xml:"document"`
	Body    *Body      `xml:"body"`
	Attrs   []xml.Attr `xml:"-"` // root attributes (namespaces) as read
}

// NewDocument returns an empty document with a default A4 section.
func NewDocument() *Document {
	return &Document{Body: &Body{SectionProperties: DefaultSectionProperties()}}
}

// DefaultSectionProperties returns an A4 page with one inch margins.
func DefaultSectionProperties() *RawXMLElement {
	return &RawXMLElement{
		XMLName: xml.Name{Local: "w:sectPr"},
		Content: []byte(`<w:pgSz w:w="11906" w:h="16838"/>` +
			`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="708" w:footer="708" w:gutter="0"/>`),
	}
}

// UnmarshalXML implements custom XML unmarshaling to preserve root attributes
func (doc *Document) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	doc.XMLName = start.Name
	doc.Attrs = start.Attr
	for {
		token, err := d.Token()
		if err != nil {
			return err
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local != "body" {
				if err := d.Skip(); err != nil {
					return err
				}
				continue
			}
			var body Body
			if err := d.DecodeElement(&body, &t); err != nil {
				return err
			}
			doc.Body = &body
		case xml.EndElement:
			return nil
		}
	}
}

// MarshalXML writes the document with the namespace declarations Word expects.
func (doc Document) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:document"}
	start.Attr = []xml.Attr{
		{Name: xml.Name{Local: "xmlns:w"}, Value: NamespaceW},
		{Name: xml.Name{Local: "xmlns:r"}, Value: NamespaceR},
		{Name: xml.Name{Local: "xmlns:wp"}, Value: NamespaceWP},
		{Name: xml.Name{Local: "xmlns:a"}, Value: NamespaceA},
		{Name: xml.Name{Local: "xmlns:pic"}, Value: NamespacePic},
		{Name: xml.Name{Local: "xmlns:w14"}, Value: NamespaceW14},
		{Name: xml.Name{Local: "xmlns:mc"}, Value: NamespaceMC},
		{Name: xml.Name{Local: "mc:Ignorable"}, Value: "w14"},
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	body := doc.Body
	if body == nil {
		body = &Body{}
	}
	if err := e.EncodeElement(body, xml.StartElement{Name: xml.Name{Local: "w:body"}}); err != nil {
		return err
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// Body represents the document body
type Body struct {
	// Elements maintains the order of all body elements
	Elements []BodyElement `xml:"-"`
	// SectionProperties at the end of the body
	SectionProperties *RawXMLElement `xml:"-"`
}

// UnmarshalXML implements custom XML unmarshaling to preserve element order
func (b *Body) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	elements, sect, err := decodeBlocks(d, start)
	if err != nil {
		return err
	}
	b.Elements = elements
	b.SectionProperties = sect
	return nil
}

// MarshalXML implements custom XML marshaling to preserve element order
func (b Body) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:body"}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := encodeBlocks(e, b.Elements); err != nil {
		return err
	}
	if b.SectionProperties != nil {
		if err := e.EncodeElement(b.SectionProperties, xml.StartElement{Name: xml.Name{Local: "w:sectPr"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// decodeBlocks reads block-level children (paragraphs, tables) up to the end
// of start. Block content controls are flattened into their content.
func decodeBlocks(d *xml.Decoder, start xml.StartElement) ([]BodyElement, *RawXMLElement, error) {
	var elements []BodyElement
	var sect *RawXMLElement
	for {
		token, err := d.Token()
		if err == io.EOF {
			return elements, sect, nil
		}
		if err != nil {
			return nil, nil, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				var para Paragraph
				if err := d.DecodeElement(&para, &t); err != nil {
					return nil, nil, err
				}
				elements = append(elements, &para)
			case "tbl":
				var table Table
				if err := d.DecodeElement(&table, &t); err != nil {
					return nil, nil, err
				}
				elements = append(elements, &table)
			case "sdt", "sdtContent", "customXml":
				inner, _, err := decodeBlocks(d, t)
				if err != nil {
					return nil, nil, err
				}
				elements = append(elements, inner...)
			case "sectPr":
				raw, err := readRaw(d, t)
				if err != nil {
					return nil, nil, err
				}
				sect = &raw
			default:
				if err := d.Skip(); err != nil {
					return nil, nil, err
				}
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return elements, sect, nil
			}
		}
	}
}

func encodeBlocks(e *xml.Encoder, elements []BodyElement) error {
	for _, elem := range elements {
		switch el := elem.(type) {
		case *Paragraph:
			if err := e.EncodeElement(el, xml.StartElement{Name: xml.Name{Local: "w:p"}}); err != nil {
				return err
			}
		case *Table:
			if err := e.EncodeElement(el, xml.StartElement{Name: xml.Name{Local: "w:tbl"}}); err != nil {
				return err
			}
		}
	}
	return nil
}

// ParseDocument parses a Word document XML
func ParseDocument(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)

	var doc Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if doc.Body == nil {
		doc.Body = &Body{}
	}
	return &doc, nil
}
