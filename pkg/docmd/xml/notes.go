package xml

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
)

// Notes is a footnotes or endnotes part.
type Notes struct {
	Endnotes bool
	Notes    []*Note
}

// Note is a single footnote or endnote. Separator notes carry a Type.
type Note struct {
	ID         int
	Type       string
	Paragraphs []*Paragraph
}

// NewNotes returns a part holding the two separator notes Word requires.
func NewNotes(endnotes bool) *Notes {
	sep := func(kind string) *Paragraph {
		p := &Paragraph{Properties: &ParagraphProperties{Spacing: &Spacing{AfterSet: true, Line: 240, LineRule: "auto"}}}
		p.Append(&Run{Content: []RunContent{&RawXMLElement{XMLName: xml.Name{Local: "w:" + kind}}}})
		return p
	}
	return &Notes{
		Endnotes: endnotes,
		Notes: []*Note{
			{ID: -1, Type: "separator", Paragraphs: []*Paragraph{sep("separator")}},
			{ID: 0, Type: "continuationSeparator", Paragraphs: []*Paragraph{sep("continuationSeparator")}},
		},
	}
}

// Add appends a note holding text and returns its id. Ids start at 1.
func (n *Notes) Add(text, textStyle, referenceStyle string) int {
	id := 1
	for _, note := range n.Notes {
		if note.ID >= id {
			id = note.ID + 1
		}
	}
	refKind := "w:footnoteRef"
	if n.Endnotes {
		refKind = "w:endnoteRef"
	}
	ref := &Run{
		Properties: &RunProperties{Style: &Style{Val: referenceStyle}},
		Content:    []RunContent{&RawXMLElement{XMLName: xml.Name{Local: refKind}}},
	}
	p := &Paragraph{Properties: &ParagraphProperties{Style: &Style{Val: textStyle}}}
	p.Append(ref, NewTextRun(" "+text))
	n.Notes = append(n.Notes, &Note{ID: id, Paragraphs: []*Paragraph{p}})
	return id
}

// ParseNotes reads a footnotes or endnotes part.
func ParseNotes(r io.Reader) (*Notes, error) {
	d := xml.NewDecoder(r)
	n := &Notes{}
	for {
		token, err := d.Token()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse notes: %w", err)
		}
		start, ok := token.(xml.StartElement)
		if !ok {
			continue
		}
		switch start.Name.Local {
		case "endnotes":
			n.Endnotes = true
		case "footnote", "endnote":
			note, err := decodeNote(d, start)
			if err != nil {
				return nil, fmt.Errorf("failed to parse notes: %w", err)
			}
			n.Notes = append(n.Notes, note)
		}
	}
}

func decodeNote(d *xml.Decoder, start xml.StartElement) (*Note, error) {
	note := &Note{Type: attrValue(start, "type")}
	if id, err := strconv.Atoi(attrValue(start, "id")); err == nil {
		note.ID = id
	}
	for {
		token, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local != "p" {
				if err := d.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			var p Paragraph
			if err := d.DecodeElement(&p, &t); err != nil {
				return nil, err
			}
			note.Paragraphs = append(note.Paragraphs, &p)
		case xml.EndElement:
			return note, nil
		}
	}
}

// Get returns the note with the given id.
func (n *Notes) Get(id int) *Note {
	for _, note := range n.Notes {
		if note.ID == id {
			return note
		}
	}
	return nil
}

// Count returns the number of real notes, separators excluded.
func (n *Notes) Count() int {
	c := 0
	for _, note := range n.Notes {
		if note.Type == "" {
			c++
		}
	}
	return c
}

// MarshalXML writes the w:footnotes or w:endnotes root.
func (n Notes) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	root, child := "w:footnotes", "w:footnote"
	if n.Endnotes {
		root, child = "w:endnotes", "w:endnote"
	}
	start = xml.StartElement{
		Name: xml.Name{Local: root},
		Attr: []xml.Attr{
			{Name: xml.Name{Local: "xmlns:w"}, Value: NamespaceW},
			{Name: xml.Name{Local: "xmlns:r"}, Value: NamespaceR},
		},
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, note := range n.Notes {
		ns := xml.StartElement{Name: xml.Name{Local: child}}
		if note.Type != "" {
			ns.Attr = append(ns.Attr, wattr("type", note.Type))
		}
		ns.Attr = append(ns.Attr, wattr("id", itoa(note.ID)))
		if err := e.EncodeToken(ns); err != nil {
			return err
		}
		for _, p := range note.Paragraphs {
			if err := e.EncodeElement(p, xml.StartElement{Name: xml.Name{Local: "w:p"}}); err != nil {
				return err
			}
		}
		if err := e.EncodeToken(ns.End()); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}
