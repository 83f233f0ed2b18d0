package xml

import (
	"encoding/xml"
	"io"
)

// Checkbox glyphs and the font Word uses to draw them.
const (
	CheckedGlyph   = "☒"
	UncheckedGlyph = "☐"
	CheckboxFont   = "MS Gothic"
)

// SdtRun is an inline content control. Only the checkbox flavour is modelled;
// other controls keep their runs and lose their properties.
type SdtRun struct {
	Checkbox *Checkbox
	Content  []*Run
}

func (s SdtRun) isParagraphContent() {}

// Checkbox is a w14:checkbox content control.
type Checkbox struct {
	Checked bool
}

// NewCheckbox returns a checkbox control showing the matching glyph.
func NewCheckbox(checked bool) *SdtRun {
	glyph := UncheckedGlyph
	if checked {
		glyph = CheckedGlyph
	}
	run := NewTextRun(glyph)
	run.Props().Font = &Font{ASCII: CheckboxFont, HAnsi: CheckboxFont, EastAsia: CheckboxFont}
	return &SdtRun{Checkbox: &Checkbox{Checked: checked}, Content: []*Run{run}}
}

// UnmarshalXML reads sdtPr (for the checkbox state) and the content runs.
func (s *SdtRun) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
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
			case "checkbox":
				s.Checkbox = &Checkbox{}
			case "checked":
				if s.Checkbox != nil {
					v := attrValue(t, "val")
					s.Checkbox.Checked = v == "1" || v == "true"
				}
			case "sdtContent":
				content, err := decodeInline(d, t, nil)
				if err != nil {
					return err
				}
				for _, c := range content {
					s.Content = append(s.Content, runsOf(c)...)
				}
			}
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return nil
			}
		}
	}
}

// MarshalXML implements custom XML marshaling for SdtRun
func (s SdtRun) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	w := &tokenWriter{e: e}
	w.open("w:sdt")
	w.open("w:sdtPr")
	if s.Checkbox != nil {
		checked := "0"
		if s.Checkbox.Checked {
			checked = "1"
		}
		w.open("w14:checkbox")
		w.empty("w14:checked", "w14:val", checked)
		w.empty("w14:checkedState", "w14:font", CheckboxFont, "w14:val", "2612")
		w.empty("w14:uncheckedState", "w14:font", CheckboxFont, "w14:val", "2610")
		w.close("w14:checkbox")
	}
	w.close("w:sdtPr")
	w.open("w:sdtContent")
	if w.err != nil {
		return w.err
	}
	for _, r := range s.Content {
		if err := e.EncodeElement(r, xml.StartElement{Name: xml.Name{Local: "w:r"}}); err != nil {
			return err
		}
	}
	w.close("w:sdtContent")
	w.close("w:sdt")
	return w.err
}

// SimpleField is a w:fldSimple such as a SEQ caption counter.
type SimpleField struct {
	Instruction string `xml:"instr,attr"`
	Runs        []*Run `xml:"r"`
}

func (f SimpleField) isParagraphContent() {}

// NewSequenceField returns a SEQ field for the given identifier showing value.
func NewSequenceField(identifier string, value int) *SimpleField {
	return &SimpleField{
		Instruction: " SEQ " + identifier + ` \* ARABIC `,
		Runs:        []*Run{NewTextRun(itoa(value))},
	}
}

// MarshalXML implements custom XML marshaling for SimpleField
func (f SimpleField) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name = xml.Name{Local: "w:fldSimple"}
	start.Attr = []xml.Attr{wattr("instr", f.Instruction)}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, r := range f.Runs {
		if err := e.EncodeElement(r, xml.StartElement{Name: xml.Name{Local: "w:r"}}); err != nil {
			return err
		}
	}
	return e.EncodeToken(xml.EndElement{Name: start.Name})
}
