package htmlconv

import (
	"strconv"
	"strings"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/xml"
)

// Number formats of list levels.
const (
	FormatBullet      = "bullet"
	FormatDecimal     = "decimal"
	FormatLowerLetter = "lowerLetter"
	FormatUpperLetter = "upperLetter"
	FormatLowerRoman  = "lowerRoman"
	FormatUpperRoman  = "upperRoman"
	FormatNone        = "none"

	formatHeading = "heading"
)

const (
	maxListLevels = 9
	listIndent    = 720
	listHanging   = 360
)

var bulletGlyphs = []string{"•", "o", "▪"}

var listStyleTypes = map[string]string{
	"disc":        FormatBullet,
	"circle":      FormatBullet,
	"square":      FormatBullet,
	"decimal":     FormatDecimal,
	"lower-alpha": FormatLowerLetter,
	"lower-latin": FormatLowerLetter,
	"upper-alpha": FormatUpperLetter,
	"upper-latin": FormatUpperLetter,
	"lower-roman": FormatLowerRoman,
	"upper-roman": FormatUpperRoman,
	"none":        FormatNone,
}

var listTypeAttrs = map[string]string{
	"1": FormatDecimal,
	"a": FormatLowerLetter,
	"A": FormatUpperLetter,
	"i": FormatLowerRoman,
	"I": FormatUpperRoman,
}

// ListFormat picks the number format of a list from its list-style-type
// or type attribute, defaulting by element.
func ListFormat(tag, styleType, typeAttr string) string {
	if f, ok := listStyleTypes[strings.ToLower(strings.TrimSpace(styleType))]; ok {
		return f
	}
	if f, ok := listTypeAttrs[strings.TrimSpace(typeAttr)]; ok {
		return f
	}
	if tag == "ol" {
		return FormatDecimal
	}
	return FormatBullet
}

type listLevel struct {
	numID   int
	format  string
	classes []string
}

// NumberingState tracks open lists and allocates numbering definitions in
// the numbering part. Every list gets its own instance.
type NumberingState struct {
	ensure    func() *xml.Numbering
	numbering *xml.Numbering
	lists     []listLevel
	abstracts map[string]int
	headingID int
}

// NewNumberingState returns a tracker that creates the numbering part
// through ensure on first use.
func NewNumberingState(ensure func() *xml.Numbering) *NumberingState {
	return &NumberingState{ensure: ensure, abstracts: make(map[string]int)}
}

func (n *NumberingState) part() *xml.Numbering {
	if n.numbering == nil {
		n.numbering = n.ensure()
	}
	return n.numbering
}

// BeginList opens a list level with a fresh numbering instance. A start
// value above zero restarts the numbering at that value.
func (n *NumberingState) BeginList(format string, start int, classes []string) int {
	level := len(n.lists)
	numID := n.newInstance(n.abstractFor(format))
	if start > 0 && level < maxListLevels {
		num := n.part().Instance(numID)
		num.Overrides = append(num.Overrides, &xml.LevelOverride{Level: level, StartOverride: xml.Int(start)})
	}
	n.lists = append(n.lists, listLevel{numID: numID, format: format, classes: classes})
	return numID
}

// EndList closes the innermost list and reports whether no list is open
// any more.
func (n *NumberingState) EndList() bool {
	if len(n.lists) > 0 {
		n.lists = n.lists[:len(n.lists)-1]
	}
	return len(n.lists) == 0
}

// ProcessItem returns the numbering instance of the innermost list, or 0
// outside lists.
func (n *NumberingState) ProcessItem() int {
	if len(n.lists) == 0 {
		return 0
	}
	return n.lists[len(n.lists)-1].numID
}

// Level returns the list depth, 1 for a top-level list.
func (n *NumberingState) Level() int {
	return len(n.lists)
}

// Format returns the number format of the innermost list.
func (n *NumberingState) Format() string {
	if len(n.lists) == 0 {
		return ""
	}
	return n.lists[len(n.lists)-1].format
}

// CurrentClasses returns the classes of the open lists, innermost first.
func (n *NumberingState) CurrentClasses() []string {
	var out []string
	for i := len(n.lists) - 1; i >= 0; i-- {
		out = append(out, n.lists[i].classes...)
	}
	return out
}

// HeadingNumbering returns the instance shared by numbered headings.
func (n *NumberingState) HeadingNumbering() int {
	if n.headingID == 0 {
		n.headingID = n.newInstance(n.abstractFor(formatHeading))
	}
	return n.headingID
}

func (n *NumberingState) newInstance(abstractID int) int {
	part := n.part()
	id := 1
	for _, num := range part.Nums {
		if num.ID >= id {
			id = num.ID + 1
		}
	}
	part.Nums = append(part.Nums, &xml.Num{ID: id, AbstractNumID: xml.Int(abstractID)})
	return id
}

func (n *NumberingState) abstractFor(format string) int {
	if id, ok := n.abstracts[format]; ok {
		return id
	}
	part := n.part()
	id := 0
	for _, a := range part.AbstractNums {
		if a.ID >= id {
			id = a.ID + 1
		}
	}
	part.AbstractNums = append(part.AbstractNums, newAbstract(id, format))
	n.abstracts[format] = id
	return id
}

func newAbstract(id int, format string) *xml.AbstractNum {
	a := &xml.AbstractNum{ID: id, MultiLevelType: &xml.Style{Val: "hybridMultilevel"}}
	if format == formatHeading {
		a.MultiLevelType.Val = "multilevel"
	}
	for i := 0; i < maxListLevels; i++ {
		lvl := &xml.Level{
			Index:         i,
			Start:         xml.Int(1),
			Justification: &xml.Style{Val: "left"},
		}
		switch format {
		case formatHeading:
			var text strings.Builder
			for j := 0; j <= i; j++ {
				text.WriteString("%" + strconv.Itoa(j+1) + ".")
			}
			lvl.Format = &xml.Style{Val: FormatDecimal}
			lvl.Text = &xml.Style{Val: text.String()}
		case FormatBullet:
			glyph := bulletGlyphs[i%len(bulletGlyphs)]
			lvl.Format = &xml.Style{Val: FormatBullet}
			lvl.Text = &xml.Style{Val: glyph}
			if glyph == "o" {
				lvl.RunProperties = &xml.RunProperties{Font: &xml.Font{ASCII: "Courier New", HAnsi: "Courier New"}}
			}
		default:
			lvl.Format = &xml.Style{Val: format}
			lvl.Text = &xml.Style{Val: "%" + strconv.Itoa(i+1) + "."}
		}
		if format != formatHeading {
			lvl.ParagraphProperties = &xml.ParagraphProperties{
				Indentation: &xml.Indentation{Left: listIndent * (i + 1), Hanging: listHanging},
			}
		}
		a.Levels = append(a.Levels, lvl)
	}
	return a
}
