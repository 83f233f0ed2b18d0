package htmlconv

import (
	"strings"

	"go.uber.org/zap"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/css"
	"github.com/benjaminschreck/go-docmd/pkg/docmd/docx"
	"github.com/benjaminschreck/go-docmd/pkg/docmd/xml"
)

const (
	openQuote  = "“"
	closeQuote = "”"
	codeFill   = "F8F8F8"
	highlight  = "yellow"
)

// inline returns the handler of a formatting tag. fixed gives the tag's own
// formatting; the element's class and style attribute take precedence.
func inline(fixed func() *xml.RunProperties) handler {
	return handler{
		open: func(c *converter, i int) (int, error) {
			ev := &c.events[i]
			c.beginInline(ev.Name, c.inlineProps(ev, fixed))
			return i + 1, nil
		},
		close: closeInline,
	}
}

func closeInline(c *converter, i int) {
	c.endInline(c.events[i].Name)
}

func (c *converter) inlineProps(ev *TagEvent, fixed func() *xml.RunProperties) *xml.RunProperties {
	props := runProps(ev)
	if props == nil {
		props = &xml.RunProperties{}
	}
	if id, ok := c.styles.ClassStyle(ev.Attrs.GetAsClass(), docx.StyleCharacter); ok {
		props.Style = &xml.Style{Val: id}
	}
	if fixed != nil {
		props.FillFrom(fixed())
	}
	if props.IsEmpty() {
		return nil
	}
	return props
}

func bold() *xml.RunProperties   { return &xml.RunProperties{Bold: &xml.OnOff{}} }
func italic() *xml.RunProperties { return &xml.RunProperties{Italic: &xml.OnOff{}} }
func strike() *xml.RunProperties { return &xml.RunProperties{Strike: &xml.OnOff{}} }

func underline() *xml.RunProperties {
	return &xml.RunProperties{Underline: &xml.Style{Val: "single"}}
}

func marked() *xml.RunProperties {
	return &xml.RunProperties{Highlight: &xml.Style{Val: highlight}}
}

func verticalAlign(val string) func() *xml.RunProperties {
	return func() *xml.RunProperties {
		return &xml.RunProperties{VerticalAlign: &xml.Style{Val: val}}
	}
}

func charStyle(id string) func() *xml.RunProperties {
	return func() *xml.RunProperties {
		return &xml.RunProperties{Style: &xml.Style{Val: id}}
	}
}

// openCode shades inline code. Code inside pre is shaded by its paragraph.
func openCode(c *converter, i int) (int, error) {
	ev := &c.events[i]
	props := c.inlineProps(ev, charStyle(StyleSourceCode))
	if !c.paras.Has("pre") && props.Shading == nil {
		props.Shading = &xml.Shading{Val: "clear", Color: "auto", Fill: codeFill}
	}
	c.beginInline(ev.Name, props)
	return i + 1, nil
}

// openFont reads the legacy size, face and color attributes.
func openFont(c *converter, i int) (int, error) {
	ev := &c.events[i]
	props := &xml.RunProperties{}
	if size := css.ParseHTMLFontSize(ev.Attrs.Get("size")); size.IsValid() {
		hp := size.ValueInHalfPoint()
		props.Size, props.SizeCs = xml.Int(hp), xml.Int(hp)
	}
	if face := fontFamily(ev.Attrs.Get("face")); face != "" {
		props.Font = xml.Fonts(face)
	}
	if col, ok := css.ParseColor(ev.Attrs.Get("color")); ok {
		props.Color = &xml.Color{Val: col.Hex()}
	}
	c.beginInline(ev.Name, c.inlineProps(ev, func() *xml.RunProperties { return props }))
	return i + 1, nil
}

// openInlineQuote encloses the content of q in typographic quotes.
func openInlineQuote(c *converter, i int) (int, error) {
	ev := &c.events[i]
	c.beginInline(ev.Name, c.inlineProps(ev, charStyle(StyleQuoteChar)))
	c.appendText(openQuote)
	return i + 1, nil
}

func closeInlineQuote(c *converter, i int) {
	c.appendText(closeQuote)
	c.endInline(c.events[i].Name)
}

// appendText adds a run holding s with the active formatting.
func (c *converter) appendText(s string) {
	run := c.newRun()
	run.Append(xml.NewText(s))
	c.b.append(run)
}

func openBreak(c *converter, i int) (int, error) {
	run := c.newRun()
	run.Append(&xml.Break{})
	c.b.append(run)
	return i + 1, nil
}

// openInput renders a checkbox that is not the marker of a task list item.
func openInput(c *converter, i int) (int, error) {
	ev := &c.events[i]
	if !isCheckbox(ev) {
		c.log.Debug("input ignored", zap.String("type", ev.Attrs.Get("type")))
		return i + 1, nil
	}
	c.b.append(xml.NewCheckbox(ev.Attrs.Has("checked")))
	return i + 1, nil
}

// openAcronym writes the title of an acronym or abbreviation as a footnote
// or endnote referenced after its text. Without a title the element is
// plain text.
func openAcronym(c *converter, i int) (int, error) {
	ev := &c.events[i]
	title := strings.TrimSpace(ev.Attrs.Get("title"))
	c.beginInline(ev.Name, runProps(ev))
	if title == "" {
		return i + 1, nil
	}
	err := c.processChildren(i)
	c.endInline(ev.Name)
	if err != nil {
		return 0, err
	}

	notes, textStyle, refStyle := c.pkg.EnsureFootnotes(), StyleFootnoteText, StyleFootnoteReference
	if c.opts.AcronymPosition == AcronymEndnote {
		notes, textStyle, refStyle = c.pkg.EnsureEndnotes(), StyleEndnoteText, StyleEndnoteReference
	}
	id := notes.Add(title, textStyle, refStyle)
	ref := &xml.Run{Properties: &xml.RunProperties{Style: &xml.Style{Val: refStyle}}}
	ref.Append(&xml.NoteReference{ID: id, Endnote: notes.Endnotes})
	c.b.append(ref)
	return c.after(i), nil
}
