package xml

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Numbering is the word/numbering.xml part.
type Numbering struct {
	AbstractNums []*AbstractNum `xml:"abstractNum"`
	Nums         []*Num         `xml:"num"`
}

// AbstractNum defines the look of up to nine list levels.
type AbstractNum struct {
	ID             int      `xml:"abstractNumId,attr"`
	MultiLevelType *Style   `xml:"multiLevelType"`
	Levels         []*Level `xml:"lvl"`
}

// Level is one level of an abstract numbering definition.
type Level struct {
	Index               int                  `xml:"ilvl,attr"`
	Start               *IntValue            `xml:"start"`
	Format              *Style               `xml:"numFmt"`
	Text                *Style               `xml:"lvlText"`
	Justification       *Style               `xml:"lvlJc"`
	ParagraphProperties *ParagraphProperties `xml:"pPr"`
	RunProperties       *RunProperties       `xml:"rPr"`
}

// Num is a numbering instance referenced from paragraphs by numId.
type Num struct {
	ID            int              `xml:"numId,attr"`
	AbstractNumID *IntValue        `xml:"abstractNumId"`
	Overrides     []*LevelOverride `xml:"lvlOverride"`
}

// LevelOverride restarts a level of an instance at a given value.
type LevelOverride struct {
	Level         int       `xml:"ilvl,attr"`
	StartOverride *IntValue `xml:"startOverride"`
}

// ParseNumbering parses a numbering part.
func ParseNumbering(r io.Reader) (*Numbering, error) {
	var n Numbering
	if err := xml.NewDecoder(r).Decode(&n); err != nil {
		return nil, fmt.Errorf("failed to parse numbering: %w", err)
	}
	return &n, nil
}

// Abstract returns the abstract definition with the given id.
func (n *Numbering) Abstract(id int) *AbstractNum {
	for _, a := range n.AbstractNums {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Instance returns the numbering instance with the given id.
func (n *Numbering) Instance(id int) *Num {
	for _, num := range n.Nums {
		if num.ID == id {
			return num
		}
	}
	return nil
}

// LevelFormat returns the number format (bullet, decimal, ...) used by a
// paragraph numbered with numID at ilvl, or "" when unknown.
func (n *Numbering) LevelFormat(numID, ilvl int) string {
	if n == nil {
		return ""
	}
	num := n.Instance(numID)
	if num == nil || num.AbstractNumID == nil {
		return ""
	}
	abs := n.Abstract(num.AbstractNumID.Val)
	if abs == nil {
		return ""
	}
	for _, lvl := range abs.Levels {
		if lvl.Index == ilvl && lvl.Format != nil {
			return lvl.Format.Val
		}
	}
	return ""
}

// LevelStart returns the first number of level ilvl of instance numID.
// A start override of the instance wins over the abstract definition, and
// the default is 1.
func (n *Numbering) LevelStart(numID, ilvl int) int {
	if n == nil {
		return 1
	}
	num := n.Instance(numID)
	if num == nil {
		return 1
	}
	for _, o := range num.Overrides {
		if o.Level == ilvl && o.StartOverride != nil {
			return o.StartOverride.Val
		}
	}
	if num.AbstractNumID == nil {
		return 1
	}
	if abs := n.Abstract(num.AbstractNumID.Val); abs != nil {
		for _, lvl := range abs.Levels {
			if lvl.Index == ilvl && lvl.Start != nil {
				return lvl.Start.Val
			}
		}
	}
	return 1
}

// MarshalXML writes the numbering root with abstract definitions first.
func (n Numbering) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start = xml.StartElement{
		Name: xml.Name{Local: "w:numbering"},
		Attr: []xml.Attr{{Name: xml.Name{Local: "xmlns:w"}, Value: NamespaceW}},
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, a := range n.AbstractNums {
		if err := e.EncodeElement(a, xml.StartElement{Name: xml.Name{Local: "w:abstractNum"}}); err != nil {
			return err
		}
	}
	for _, num := range n.Nums {
		if err := e.EncodeElement(num, xml.StartElement{Name: xml.Name{Local: "w:num"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML implements custom XML marshaling for AbstractNum
func (a AbstractNum) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:abstractNum"}
	start.Attr = []xml.Attr{wattr("abstractNumId", itoa(a.ID))}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if a.MultiLevelType != nil {
		if err := e.EncodeElement(a.MultiLevelType, xml.StartElement{Name: xml.Name{Local: "w:multiLevelType"}}); err != nil {
			return err
		}
	}
	for _, lvl := range a.Levels {
		if err := e.EncodeElement(lvl, xml.StartElement{Name: xml.Name{Local: "w:lvl"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}

// MarshalXML implements custom XML marshaling for Level
func (l Level) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:lvl"}
	start.Attr = []xml.Attr{wattr("ilvl", itoa(l.Index))}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	fields := []struct {
		name  string
		value interface{}
		set   bool
	}{
		{"w:start", l.Start, l.Start != nil},
		{"w:numFmt", l.Format, l.Format != nil},
		{"w:lvlText", l.Text, l.Text != nil},
		{"w:lvlJc", l.Justification, l.Justification != nil},
		{"w:pPr", l.ParagraphProperties, l.ParagraphProperties != nil},
		{"w:rPr", l.RunProperties, l.RunProperties != nil},
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

// MarshalXML implements custom XML marshaling for Num
func (n Num) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:num"}
	start.Attr = []xml.Attr{wattr("numId", itoa(n.ID))}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if n.AbstractNumID != nil {
		if err := e.EncodeElement(n.AbstractNumID, xml.StartElement{Name: xml.Name{Local: "w:abstractNumId"}}); err != nil {
			return err
		}
	}
	for _, o := range n.Overrides {
		ov := xml.StartElement{Name: xml.Name{Local: "w:lvlOverride"}, Attr: []xml.Attr{wattr("ilvl", itoa(o.Level))}}
		if err := e.EncodeToken(ov); err != nil {
			return err
		}
		if o.StartOverride != nil {
			if err := e.EncodeElement(o.StartOverride, xml.StartElement{Name: xml.Name{Local: "w:startOverride"}}); err != nil {
				return err
			}
		}
		if err := e.EncodeToken(ov.End()); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}
