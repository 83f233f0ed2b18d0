package docx

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/xml"
)

// Style kinds.
const (
	StyleParagraph = "paragraph"
	StyleCharacter = "character"
	StyleTable     = "table"
)

// StyleInfo describes a single w:style.
type StyleInfo struct {
	ID      string
	Name    string
	Type    string
	BasedOn string
}

// Styles is the styles part, kept as an element tree so that styles from
// other documents survive untouched.
type Styles struct {
	doc *etree.Document
}

// ParseStyles parses a styles.xml part.
func ParseStyles(data []byte) (*Styles, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("failed to parse styles.xml: %w", err)
	}
	if doc.Root() == nil || doc.Root().Tag != "styles" {
		return nil, fmt.Errorf("failed to parse styles.xml: root is not w:styles")
	}
	return &Styles{doc: doc}, nil
}

// Bytes serializes the part.
func (s *Styles) Bytes() ([]byte, error) {
	return s.doc.WriteToBytes()
}

func (s *Styles) styleElements() []*etree.Element {
	var out []*etree.Element
	for _, child := range s.doc.Root().ChildElements() {
		if child.Tag == "style" {
			out = append(out, child)
		}
	}
	return out
}

func styleInfo(el *etree.Element) StyleInfo {
	info := StyleInfo{
		ID:   el.SelectAttrValue("styleId", ""),
		Type: el.SelectAttrValue("type", StyleParagraph),
	}
	if name := el.SelectElement("name"); name != nil {
		info.Name = name.SelectAttrValue("val", "")
	}
	if based := el.SelectElement("basedOn"); based != nil {
		info.BasedOn = based.SelectAttrValue("val", "")
	}
	return info
}

// List returns every style in document order.
func (s *Styles) List() []StyleInfo {
	var out []StyleInfo
	for _, el := range s.styleElements() {
		out = append(out, styleInfo(el))
	}
	return out
}

func (s *Styles) element(id string) *etree.Element {
	for _, el := range s.styleElements() {
		if el.SelectAttrValue("styleId", "") == id {
			return el
		}
	}
	return nil
}

// Get returns the style with the given id.
func (s *Styles) Get(id string) (StyleInfo, bool) {
	if el := s.element(id); el != nil {
		return styleInfo(el), true
	}
	return StyleInfo{}, false
}

// Find looks a style up by id or display name. An empty kind matches any.
func (s *Styles) Find(name, kind string, ignoreCase bool) (StyleInfo, bool) {
	eq := func(a, b string) bool { return a == b }
	if ignoreCase {
		eq = strings.EqualFold
	}
	var byName *StyleInfo
	for _, el := range s.styleElements() {
		info := styleInfo(el)
		if kind != "" && info.Type != kind {
			continue
		}
		if eq(info.ID, name) {
			return info, true
		}
		if byName == nil && info.Name != "" && eq(info.Name, name) {
			found := info
			byName = &found
		}
	}
	if byName != nil {
		return *byName, true
	}
	return StyleInfo{}, false
}

// Merge copies the styles of other whose ids are missing here and returns
// how many were added.
func (s *Styles) Merge(other *Styles) int {
	if other == nil {
		return 0
	}
	existing := make(map[string]bool)
	for _, info := range s.List() {
		existing[info.ID] = true
	}
	added := 0
	for _, el := range other.styleElements() {
		id := el.SelectAttrValue("styleId", "")
		if id == "" || existing[id] {
			continue
		}
		s.doc.Root().AddChild(el.Copy())
		existing[id] = true
		added++
	}
	return added
}

// TableHasBorders reports whether a table style, or a style it is based on,
// defines a visible table border.
func (s *Styles) TableHasBorders(id string) bool {
	seen := make(map[string]bool)
	for id != "" && !seen[id] {
		seen[id] = true
		el := s.element(id)
		if el == nil {
			return false
		}
		if tblPr := el.SelectElement("tblPr"); tblPr != nil {
			if borders := tblPr.SelectElement("tblBorders"); borders != nil {
				for _, side := range borders.ChildElements() {
					switch side.SelectAttrValue("val", "") {
					case "", "none", "nil":
					default:
						return true
					}
				}
			}
		}
		id = styleInfo(el).BasedOn
	}
	return false
}

// builder helpers for w: prefixed elements

func wel(parent *etree.Element, tag string, attrs ...string) *etree.Element {
	el := parent.CreateElement("w:" + tag)
	for i := 0; i+1 < len(attrs); i += 2 {
		el.CreateAttr("w:"+attrs[i], attrs[i+1])
	}
	return el
}

func newStyle(root *etree.Element, kind, id, name string) *etree.Element {
	st := wel(root, "style", "type", kind, "styleId", id)
	wel(st, "name", "val", name)
	return st
}

// DefaultStyles returns the styles part written into new documents. It holds
// every style id the HTML converter references.
func DefaultStyles() *Styles {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	root := doc.CreateElement("w:styles")
	root.CreateAttr("xmlns:w", xml.NamespaceW)

	defaults := wel(root, "docDefaults")
	rpr := wel(wel(wel(defaults, "rPrDefault"), "rPr"), "rFonts",
		"ascii", "Calibri", "hAnsi", "Calibri", "eastAsia", "Calibri", "cs", "Times New Roman")
	wel(rpr.Parent(), "sz", "val", "22")
	wel(rpr.Parent(), "szCs", "val", "22")
	wel(wel(wel(defaults, "pPrDefault"), "pPr"), "spacing", "after", "160", "line", "259", "lineRule", "auto")

	normal := newStyle(root, StyleParagraph, "Normal", "Normal")
	normal.CreateAttr("w:default", "1")
	wel(normal, "qFormat")

	dpf := newStyle(root, StyleCharacter, "DefaultParagraphFont", "Default Paragraph Font")
	dpf.CreateAttr("w:default", "1")
	wel(dpf, "uiPriority", "val", "1")
	wel(dpf, "semiHidden")

	tn := newStyle(root, StyleTable, "TableNormal", "Normal Table")
	tn.CreateAttr("w:default", "1")
	wel(tn, "semiHidden")
	mar := wel(wel(tn, "tblPr"), "tblCellMar")
	wel(mar, "top", "w", "0", "type", "dxa")
	wel(mar, "left", "w", "108", "type", "dxa")
	wel(mar, "bottom", "w", "0", "type", "dxa")
	wel(mar, "right", "w", "108", "type", "dxa")

	headingSizes := []string{"32", "28", "26", "24", "22", "22"}
	for i, size := range headingSizes {
		level := i + 1
		h := newStyle(root, StyleParagraph, fmt.Sprintf("Heading%d", level), fmt.Sprintf("heading %d", level))
		wel(h, "basedOn", "val", "Normal")
		wel(h, "next", "val", "Normal")
		wel(h, "uiPriority", "val", "9")
		wel(h, "qFormat")
		ppr := wel(h, "pPr")
		wel(ppr, "keepNext")
		wel(ppr, "spacing", "before", "240", "after", "60")
		wel(ppr, "outlineLvl", "val", fmt.Sprint(i))
		hr := wel(h, "rPr")
		wel(hr, "b")
		wel(hr, "sz", "val", size)
		wel(hr, "szCs", "val", size)
	}

	lp := newStyle(root, StyleParagraph, "ListParagraph", "List Paragraph")
	wel(lp, "basedOn", "val", "Normal")
	wel(lp, "uiPriority", "val", "34")
	wel(lp, "qFormat")
	lpp := wel(lp, "pPr")
	wel(lpp, "ind", "left", "720")
	wel(lpp, "contextualSpacing")

	q := newStyle(root, StyleParagraph, "Quote", "Quote")
	wel(q, "basedOn", "val", "Normal")
	wel(q, "next", "val", "Normal")
	wel(q, "link", "val", "QuoteChar")
	wel(q, "qFormat")
	qp := wel(q, "pPr")
	wel(qp, "spacing", "before", "200", "after", "160")
	wel(qp, "ind", "left", "864", "right", "864")
	wel(qp, "jc", "val", "center")
	qr := wel(q, "rPr")
	wel(qr, "i")
	wel(qr, "color", "val", "404040")

	qc := newStyle(root, StyleCharacter, "QuoteChar", "Quote Char")
	wel(qc, "basedOn", "val", "DefaultParagraphFont")
	wel(qc, "link", "val", "Quote")
	qcr := wel(qc, "rPr")
	wel(qcr, "i")
	wel(qcr, "color", "val", "404040")

	iq := newStyle(root, StyleParagraph, "IntenseQuote", "Intense Quote")
	wel(iq, "basedOn", "val", "Normal")
	wel(iq, "next", "val", "Normal")
	wel(iq, "qFormat")
	iqp := wel(iq, "pPr")
	bdr := wel(iqp, "pBdr")
	wel(bdr, "top", "val", "single", "sz", "4", "space", "10", "color", "4472C4")
	wel(bdr, "bottom", "val", "single", "sz", "4", "space", "10", "color", "4472C4")
	wel(iqp, "spacing", "before", "360", "after", "360")
	wel(iqp, "ind", "left", "864", "right", "864")
	wel(iqp, "jc", "val", "center")
	iqr := wel(iq, "rPr")
	wel(iqr, "i")
	wel(iqr, "color", "val", "4472C4")

	cap := newStyle(root, StyleParagraph, "Caption", "caption")
	wel(cap, "basedOn", "val", "Normal")
	wel(cap, "next", "val", "Normal")
	wel(cap, "qFormat")
	wel(wel(cap, "pPr"), "spacing", "after", "200", "line", "240", "lineRule", "auto")
	capr := wel(cap, "rPr")
	wel(capr, "i")
	wel(capr, "color", "val", "44546A")
	wel(capr, "sz", "val", "18")

	hl := newStyle(root, StyleCharacter, "Hyperlink", "Hyperlink")
	wel(hl, "basedOn", "val", "DefaultParagraphFont")
	hlr := wel(hl, "rPr")
	wel(hlr, "color", "val", "0563C1")
	wel(hlr, "u", "val", "single")

	for _, kind := range []string{"Footnote", "Endnote"} {
		text := newStyle(root, StyleParagraph, kind+"Text", strings.ToLower(kind)+" text")
		wel(text, "basedOn", "val", "Normal")
		wel(wel(text, "pPr"), "spacing", "after", "0", "line", "240", "lineRule", "auto")
		wel(wel(text, "rPr"), "sz", "val", "20")

		ref := newStyle(root, StyleCharacter, kind+"Reference", strings.ToLower(kind)+" reference")
		wel(ref, "basedOn", "val", "DefaultParagraphFont")
		wel(wel(ref, "rPr"), "vertAlign", "val", "superscript")
	}

	grid := newStyle(root, StyleTable, "TableGrid", "Table Grid")
	wel(grid, "basedOn", "val", "TableNormal")
	gb := wel(wel(grid, "tblPr"), "tblBorders")
	for _, side := range []string{"top", "left", "bottom", "right", "insideH", "insideV"} {
		wel(gb, side, "val", "single", "sz", "4", "space", "0", "color", "auto")
	}

	code := newStyle(root, StyleCharacter, "SourceCode", "Source Code")
	wel(code, "basedOn", "val", "DefaultParagraphFont")
	codeR := wel(code, "rPr")
	wel(codeR, "rFonts", "ascii", "Consolas", "hAnsi", "Consolas", "cs", "Consolas")
	wel(codeR, "sz", "val", "20")

	return &Styles{doc: doc}
}
