package mdwalk

import (
	"strconv"
	"strings"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/xml"
)

// DefaultStyle is written to paragraphs that carry properties but no style id.
const DefaultStyle = "single"

// BlockKind is the Markdown block a paragraph turns into.
type BlockKind int

const (
	Plain BlockKind = iota
	Heading
	ListItem
	TaskItem
	Quote
	IntenseQuote
	CodeBlock
	Rule
)

var blockKindNames = [...]string{"plain", "heading", "list item", "task item", "quote", "intense quote", "code block", "rule"}

func (k BlockKind) String() string {
	if int(k) < len(blockKindNames) {
		return blockKindNames[k]
	}
	return "BlockKind(" + strconv.Itoa(int(k)) + ")"
}

// BlockIntent is the classification of one paragraph.
type BlockIntent struct {
	Kind BlockKind
	// Level is the heading level (1-6) or the list nesting level (1-9).
	Level int
	// Ordered marks numbered list items.
	Ordered bool
	// Checked is the state of a task item.
	Checked bool
}

// RunIntent is the inline formatting of one run.
type RunIntent struct {
	Bold   bool
	Italic bool
	Strike bool
	Code   bool
}

// ClassifyParagraph decides how p is written. The first match wins: a rule
// (top border only), a heading style, a code block (borders, shading and
// indentation), a block quote (borders and indentation without shading), a
// list paragraph, an intense quote, plain text. A checkbox at the start of
// a list or plain paragraph makes it a task item.
func ClassifyParagraph(p *xml.Paragraph, numbering *xml.Numbering) BlockIntent {
	props := p.Properties
	if isRule(props) {
		return BlockIntent{Kind: Rule}
	}
	if level := headingLevel(p.StyleID()); level > 0 {
		return BlockIntent{Kind: Heading, Level: level}
	}
	if props.HasBorders() && props.HasIndentation() {
		if props.HasShading() {
			return BlockIntent{Kind: CodeBlock}
		}
		return BlockIntent{Kind: Quote}
	}
	if checked, ok := leadingCheckbox(p); ok {
		return BlockIntent{Kind: TaskItem, Level: listLevel(props), Checked: checked}
	}
	if p.StyleID() == "ListParagraph" || (props != nil && props.Numbering != nil) {
		intent := BlockIntent{Kind: ListItem, Level: listLevel(props)}
		if n := props.Numbering; n != nil && n.ID != nil {
			switch numbering.LevelFormat(n.ID.Val, intent.Level-1) {
			case "", "bullet", "none":
			default:
				intent.Ordered = true
			}
		}
		return intent
	}
	switch p.StyleID() {
	case "IntenseQuote", "Quote":
		return BlockIntent{Kind: IntenseQuote}
	}
	return BlockIntent{Kind: Plain}
}

// isRule matches a paragraph whose only visible border is the top one.
func isRule(props *xml.ParagraphProperties) bool {
	if props == nil || props.Borders == nil {
		return false
	}
	b := props.Borders
	return b.Top.Visible() && !b.Bottom.Visible() && !b.Left.Visible() && !b.Right.Visible()
}

// headingLevel reads the trailing digit of a Heading style id.
func headingLevel(style string) int {
	if !strings.HasPrefix(strings.ToLower(style), "heading") || len(style) != len("heading")+1 {
		return 0
	}
	n := int(style[len(style)-1] - '0')
	if n < 1 || n > 9 {
		return 0
	}
	return min(n, 6)
}

func listLevel(props *xml.ParagraphProperties) int {
	if props == nil || props.Numbering == nil || props.Numbering.Level == nil {
		return 1
	}
	return min(max(props.Numbering.Level.Val, 0), 8) + 1
}

// leadingCheckbox reports the state of a checkbox control or glyph that
// starts the paragraph.
func leadingCheckbox(p *xml.Paragraph) (checked, ok bool) {
	for _, c := range p.Content {
		switch v := c.(type) {
		case *xml.SdtRun:
			if v.Checkbox != nil {
				return v.Checkbox.Checked, true
			}
			return glyphState(runsText(v.Content))
		case *xml.Run:
			text := strings.TrimLeft(v.GetText(), " ")
			if text == "" {
				continue
			}
			return glyphState(text)
		default:
			return false, false
		}
	}
	return false, false
}

func glyphState(text string) (checked, ok bool) {
	switch {
	case strings.HasPrefix(text, xml.CheckedGlyph):
		return true, true
	case strings.HasPrefix(text, xml.UncheckedGlyph):
		return false, true
	}
	return false, false
}

func runsText(runs []*xml.Run) string {
	var sb strings.Builder
	for _, r := range runs {
		sb.WriteString(r.GetText())
	}
	return sb.String()
}

// monospaceFonts are fonts that mark a run as inline code.
var monospaceFonts = map[string]bool{
	"consolas":    true,
	"courier":     true,
	"courier new": true,
	"menlo":       true,
	"monaco":      true,
	"monospace":   true,
}

// ClassifyRun scans all properties of a run. Character styles named after
// the toggles count as well.
func ClassifyRun(r *xml.Run) RunIntent {
	var intent RunIntent
	props := r.Properties
	if props == nil {
		return intent
	}
	intent.Bold = props.Bold.On()
	intent.Italic = props.Italic.On()
	intent.Strike = props.Strike.On()
	switch strings.ToLower(r.StyleID()) {
	case "strong":
		intent.Bold = true
	case "emphasis":
		intent.Italic = true
	case "sourcecode", "verbatimchar", "htmlcode":
		intent.Code = true
	}
	if f := props.Font; f != nil && monospaceFonts[strings.ToLower(f.ASCII)] {
		intent.Code = true
	}
	return intent
}

// markers returns the delimiter written on both sides of a run.
func (ri RunIntent) markers() (open, close string) {
	if ri.Code {
		return "`", "`"
	}
	var m string
	switch {
	case ri.Bold && ri.Italic:
		m = "***"
	case ri.Bold:
		m = "**"
	case ri.Italic:
		m = "*"
	}
	if ri.Strike {
		return "~~" + m, m + "~~"
	}
	return m, m
}
