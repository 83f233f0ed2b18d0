package htmlconv

import (
	"regexp"
	"strings"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/css"
	"github.com/benjaminschreck/go-docmd/pkg/docmd/docx"
	"github.com/benjaminschreck/go-docmd/pkg/docmd/xml"
)

const (
	listItemIndent = 780
	quoteIndent    = 500
	codeTabStop    = 916
	codeTabStops   = 16
	blockSpacing   = 240
)

// headingNumber matches manual numbering such as "1.", "1.2." or "1.2.3 "
// at the start of a heading.
var headingNumber = regexp.MustCompile(`^(\d+(?:\.\d+)*\.?)\s+`)

// quoteFragment is applied to every paragraph inside a blockquote.
func quoteFragment() *xml.ParagraphProperties {
	return &xml.ParagraphProperties{
		Borders: &xml.ParagraphBorders{
			Left: &xml.Border{Val: "single", Size: 24, Space: 15, Color: "0000FF"},
		},
		Spacing:     &xml.Spacing{Before: blockSpacing},
		Indentation: &xml.Indentation{Left: quoteIndent, Right: quoteIndent},
	}
}

// codeFragment is applied to every paragraph inside a pre block.
func codeFragment() *xml.ParagraphProperties {
	side := func() *xml.Border {
		return &xml.Border{Val: "single", Size: 6, Space: 7, Color: "CCCCCC"}
	}
	tabs := &xml.Tabs{}
	for n := 1; n <= codeTabStops; n++ {
		tabs.Tab = append(tabs.Tab, xml.Tab{Val: "left", Pos: n * codeTabStop})
	}
	return &xml.ParagraphProperties{
		Borders:     &xml.ParagraphBorders{Top: side(), Left: side(), Bottom: side(), Right: side()},
		Shading:     &xml.Shading{Val: "clear", Color: "auto", Fill: "F8F8F8"},
		Tabs:        tabs,
		Spacing:     &xml.Spacing{Before: blockSpacing},
		Indentation: &xml.Indentation{Left: quoteIndent, Right: quoteIndent},
	}
}

// openParagraph starts a paragraph. The first paragraph of a list item
// continues the item's own paragraph.
func openParagraph(c *converter, i int) (int, error) {
	ev := &c.events[i]
	if !(ev.Parent == "li" && c.itemPending()) {
		c.b.seal(true)
	}
	props := &xml.ParagraphProperties{}
	c.paragraphProps(ev, props)
	if !props.IsEmpty() {
		c.b.current.Props().FillFrom(props)
	}
	c.beginInline(ev.Name, runProps(ev))
	return i + 1, nil
}

func closeBlock(c *converter, i int) {
	c.b.seal(true)
	c.endInline(c.events[i].Name)
}

// itemPending reports whether the current paragraph is a list item that
// holds nothing but an optional checkbox.
func (c *converter) itemPending() bool {
	if c.b.current.HasContent() {
		return false
	}
	for _, el := range c.b.elements {
		if _, ok := el.(*xml.SdtRun); !ok {
			return false
		}
	}
	return true
}

// openDiv treats a plain div as a paragraph break and a formatted one as a
// paragraph.
func openDiv(c *converter, i int) (int, error) {
	ev := &c.events[i]
	if c.blockStyled(ev) {
		return openParagraph(c, i)
	}
	c.b.seal(true)
	c.beginInline(ev.Name, runProps(ev))
	return i + 1, nil
}

// openHeading converts h1 to h6. Manual numbering in front of the text is
// replaced by heading numbering.
func openHeading(c *converter, i int) (int, error) {
	ev := &c.events[i]
	level := int(ev.Name[1] - '0')
	c.b.seal(true)
	p := c.b.current
	c.beginInline(ev.Name, runProps(ev))
	err := c.processChildren(i)
	c.endInline(ev.Name)
	if err != nil {
		return 0, err
	}
	c.b.flush()

	props := p.Props()
	c.paragraphProps(ev, props)
	if props.Style == nil {
		props.Style = &xml.Style{Val: HeadingStyle(level)}
	}
	if depth := stripHeadingNumber(p.Content); depth > 0 {
		props.Numbering = &xml.NumberingProperties{
			Level: xml.Int(min(depth, maxListLevels) - 1),
			ID:    xml.Int(c.numbering.HeadingNumbering()),
		}
	}
	c.b.seal(true)
	return c.after(i), nil
}

// stripHeadingNumber removes a leading "1.2." from the first text of a
// heading and returns how many numbers it held.
func stripHeadingNumber(content []xml.ParagraphContent) int {
	for _, el := range content {
		run, ok := el.(*xml.Run)
		if !ok {
			return 0
		}
		for _, rc := range run.Content {
			t, ok := rc.(*xml.Text)
			if !ok {
				return 0
			}
			text := strings.TrimLeft(t.Content, " ")
			if text == "" {
				continue
			}
			m := headingNumber.FindStringSubmatch(text)
			if m == nil || !strings.Contains(m[1], ".") {
				return 0
			}
			*t = *xml.NewText(text[len(m[0]):])
			return len(strings.Split(strings.TrimSuffix(m[1], "."), "."))
		}
	}
	return 0
}

func openList(c *converter, i int) (int, error) {
	ev := &c.events[i]
	start, _ := ev.Attrs.GetAsInt("start")
	format := ListFormat(ev.Name, ev.Style.Get("list-style-type"), ev.Attrs.Get("type"))
	c.numbering.BeginList(format, start, ev.Attrs.GetAsClass())
	return i + 1, nil
}

func closeList(c *converter, i int) {
	if c.numbering.EndList() {
		c.b.seal(true)
	}
}

// openListItem starts a numbered paragraph, or a checkbox paragraph when
// the item begins with a checkbox input.
func openListItem(c *converter, i int) (int, error) {
	ev := &c.events[i]
	c.b.seal(true)
	p := c.b.current.Props()
	level := c.numbering.Level()

	style, ok := c.styles.ClassStyle(ev.Attrs.GetAsClass(), docx.StyleParagraph)
	if !ok {
		style, ok = c.styles.ClassStyle(c.numbering.CurrentClasses(), docx.StyleParagraph)
	}
	if !ok {
		style = StyleListParagraph
	}
	p.Style = &xml.Style{Val: style}
	if level >= 2 {
		p.Indentation = &xml.Indentation{Left: level * listItemIndent, Hanging: listHanging}
	}
	if jc := alignment(ev); jc != "" {
		p.Alignment = &xml.Alignment{Val: jc}
	}

	if checked, ok := c.taskCheckbox(i); ok {
		c.b.append(xml.NewCheckbox(checked))
	} else if level > 0 {
		p.Numbering = &xml.NumberingProperties{
			Level: xml.Int(min(level, maxListLevels) - 1),
			ID:    xml.Int(c.numbering.ProcessItem()),
		}
	}
	c.beginInline(ev.Name, runProps(ev))
	return i + 1, nil
}

// taskCheckbox finds the checkbox input that opens a list item, directly or
// inside its first paragraph, and marks it as rendered.
func (c *converter) taskCheckbox(i int) (checked, ok bool) {
	for depth := 0; depth < 2; depth++ {
		ev := &c.events[i]
		switch ev.NextTag {
		case "input":
		case "p":
			if depth == 0 {
				i = c.nextStart(i)
				continue
			}
			return false, false
		default:
			return false, false
		}
		j := c.nextStart(i)
		if j < 0 || !isCheckbox(&c.events[j]) || c.hasTextBetween(i, j) {
			return false, false
		}
		c.consumed[j] = true
		return c.events[j].Attrs.Has("checked"), true
	}
	return false, false
}

func (c *converter) nextStart(i int) int {
	for j := i + 1; j < len(c.events); j++ {
		if c.events[j].Kind == StartTag {
			return j
		}
	}
	return -1
}

func (c *converter) hasTextBetween(i, j int) bool {
	for k := i + 1; k < j; k++ {
		if c.events[k].Kind == Text && strings.TrimSpace(c.events[k].Text) != "" {
			return true
		}
	}
	return false
}

func isCheckbox(ev *TagEvent) bool {
	return ev.Name == "input" && strings.EqualFold(ev.Attrs.Get("type"), "checkbox")
}

func openBlockquote(c *converter, i int) (int, error) {
	ev := &c.events[i]
	c.b.seal(true)
	frag := quoteFragment()
	if id, ok := c.styles.ClassStyle(ev.Attrs.GetAsClass(), docx.StyleParagraph); ok {
		frag.Style = &xml.Style{Val: id}
	}
	c.paras.BeginTag(ev.Name, frag)
	c.beginInline(ev.Name, runProps(ev))
	return i + 1, nil
}

func closeBlockquote(c *converter, i int) {
	c.b.seal(true)
	c.paras.EndTag(c.events[i].Name)
	c.endInline(c.events[i].Name)
}

func openPre(c *converter, i int) (int, error) {
	c.b.seal(true)
	c.paras.BeginTag("pre", codeFragment())
	c.beginInline("pre", &xml.RunProperties{Style: &xml.Style{Val: StyleSourceCode}})
	return i + 1, nil
}

func closePre(c *converter, i int) {
	c.b.seal(true)
	c.paras.EndTag("pre")
	c.endInline("pre")
}

// openRule turns hr into an empty paragraph with a top border. Spacing
// keeps the rule apart from a bordered paragraph or a table above it.
func openRule(c *converter, i int) (int, error) {
	ev := &c.events[i]
	c.b.seal(true)
	p := c.b.current.Props()

	switch prev := c.b.previousBlock().(type) {
	case *xml.Table:
		p.Spacing = &xml.Spacing{Before: blockSpacing}
	case *xml.Paragraph:
		if prev.Properties != nil && prev.Properties.Borders != nil && prev.Properties.Borders.Bottom.Visible() {
			p.Spacing = &xml.Spacing{Before: blockSpacing}
		}
	}

	top := borderFrom(css.ParseBorder(ev.Style).Top)
	if top == nil || !top.Visible() {
		top = &xml.Border{Val: "single", Size: 4, Space: 1, Color: "auto"}
	}
	p.Borders = &xml.ParagraphBorders{Top: top}
	// an empty run keeps the paragraph from being pruned
	c.b.append(&xml.Run{})
	c.b.seal(true)
	return i + 1, nil
}

func openDefinitionTerm(c *converter, i int) (int, error) {
	ev := &c.events[i]
	c.b.seal(true)
	p := c.b.current.Props()
	c.paragraphProps(ev, p)
	p.Spacing = &xml.Spacing{AfterSet: true}
	c.beginInline(ev.Name, runProps(ev))
	return i + 1, nil
}

func openDefinition(c *converter, i int) (int, error) {
	ev := &c.events[i]
	c.b.seal(true)
	p := c.b.current.Props()
	c.paragraphProps(ev, p)
	p.Indentation = &xml.Indentation{Left: 708}
	p.Spacing = &xml.Spacing{AfterSet: true}
	c.beginInline(ev.Name, runProps(ev))
	return i + 1, nil
}

// openFigureCaption writes "Figure N" with a SEQ field before the caption.
func openFigureCaption(c *converter, i int) (int, error) {
	ev := &c.events[i]
	c.b.seal(true)
	elements, err := c.collect(i)
	if err != nil {
		return 0, err
	}
	c.figures++
	p := c.b.current.Props()
	c.paragraphProps(ev, p)
	p.Style = &xml.Style{Val: StyleCaption}
	p.KeepNext = &xml.OnOff{}
	c.b.append(xml.NewTextRun("Figure "), xml.NewSequenceField("Figure", c.figures))
	if len(elements) > 0 {
		c.b.append(xml.NewTextRun(" "))
		c.b.append(elements...)
	}
	c.b.seal(true)
	return c.after(i), nil
}
