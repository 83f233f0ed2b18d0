package htmlconv

import (
	"strconv"
	"strings"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/css"
	"github.com/benjaminschreck/go-docmd/pkg/docmd/docx"
	"github.com/benjaminschreck/go-docmd/pkg/docmd/xml"
)

const maxBorderSize = 96

// borderFrom converts one CSS side to an OOXML border, nil when unset.
func borderFrom(side css.SideBorder) *xml.Border {
	if !side.IsValid() {
		return nil
	}
	if side.Style == "none" {
		return &xml.Border{Val: "none"}
	}
	b := &xml.Border{
		Val:   side.Style,
		Size:  min(max(side.Width.ValueInEighthPoint(), 2), maxBorderSize),
		Color: "auto",
	}
	if side.HasColor {
		b.Color = side.Color.Hex()
	}
	return b
}

func noBorder() *xml.Border { return &xml.Border{Val: "none"} }

// alignment reads text-align, then the align attribute.
func alignment(ev *TagEvent) string {
	v := ev.Style.Get("text-align")
	if v == "" {
		v = ev.Attrs.Get("align")
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "left", "start":
		return "left"
	case "right", "end":
		return "right"
	case "center", "middle":
		return "center"
	case "justify":
		return "both"
	}
	return ""
}

// runProps reads the character formatting of an element's style attribute.
func runProps(ev *TagEvent) *xml.RunProperties {
	s := ev.Style
	if len(s) == 0 {
		return nil
	}
	p := &xml.RunProperties{}
	switch w := strings.ToLower(s.Get("font-weight")); w {
	case "bold", "bolder":
		p.Bold = &xml.OnOff{}
	case "normal", "lighter":
	default:
		if n, err := strconv.Atoi(w); err == nil && n >= 600 {
			p.Bold = &xml.OnOff{}
		}
	}
	switch strings.ToLower(s.Get("font-style")) {
	case "italic", "oblique":
		p.Italic = &xml.OnOff{}
	}
	for _, deco := range strings.Fields(strings.ToLower(s.Get("text-decoration"))) {
		switch deco {
		case "underline":
			p.Underline = &xml.Style{Val: "single"}
		case "line-through":
			p.Strike = &xml.OnOff{}
		}
	}
	if c, ok := css.ParseColor(s.Get("color")); ok {
		p.Color = &xml.Color{Val: c.Hex()}
	}
	if c, ok := css.ParseColor(s.Get("background-color")); ok {
		p.Shading = &xml.Shading{Val: "clear", Color: "auto", Fill: c.Hex()}
	}
	if size := css.ParseFontSize(s.Get("font-size")); size.IsValid() {
		if hp := size.ValueInHalfPoint(); hp > 0 {
			p.Size, p.SizeCs = xml.Int(hp), xml.Int(hp)
		}
	}
	if face := fontFamily(s.Get("font-family")); face != "" {
		p.Font = xml.Fonts(face)
	}
	switch strings.ToLower(s.Get("vertical-align")) {
	case "super":
		p.VerticalAlign = &xml.Style{Val: "superscript"}
	case "sub":
		p.VerticalAlign = &xml.Style{Val: "subscript"}
	}
	if strings.EqualFold(s.Get("text-transform"), "uppercase") {
		p.Caps = &xml.OnOff{}
	}
	if p.IsEmpty() {
		return nil
	}
	return p
}

// fontFamily returns the first family of a font-family list.
func fontFamily(v string) string {
	first, _, _ := strings.Cut(v, ",")
	return strings.Trim(strings.TrimSpace(first), `"'`)
}

// paragraphProps reads block formatting from an element into p.
func (c *converter) paragraphProps(ev *TagEvent, p *xml.ParagraphProperties) {
	if id, ok := c.styles.ClassStyle(ev.Attrs.GetAsClass(), docx.StyleParagraph); ok {
		p.Style = &xml.Style{Val: id}
	}
	if jc := alignment(ev); jc != "" {
		p.Alignment = &xml.Alignment{Val: jc}
	}
	s := ev.Style
	if left := s.Unit("margin-left"); left.IsFixed() && left.Value > 0 {
		p.Indentation = &xml.Indentation{Left: left.ValueInDxa()}
	}
	if indent := s.Unit("text-indent"); indent.IsFixed() && indent.Value != 0 {
		if p.Indentation == nil {
			p.Indentation = &xml.Indentation{}
		}
		if indent.Value > 0 {
			p.Indentation.FirstLine = indent.ValueInDxa()
		} else {
			p.Indentation.Hanging = -indent.ValueInDxa()
		}
	}
	if bg, ok := css.ParseColor(s.Get("background-color")); ok {
		p.Shading = &xml.Shading{Val: "clear", Color: "auto", Fill: bg.Hex()}
	}
	if b := css.ParseBorder(s); !b.IsEmpty() {
		p.Borders = &xml.ParagraphBorders{
			Top:    borderFrom(b.Top),
			Left:   borderFrom(b.Left),
			Bottom: borderFrom(b.Bottom),
			Right:  borderFrom(b.Right),
		}
	}
	top, bottom := s.Unit("margin-top"), s.Unit("margin-bottom")
	if top.IsFixed() || bottom.IsFixed() {
		p.Spacing = &xml.Spacing{}
		if top.IsFixed() {
			p.Spacing.Before = top.ValueInDxa()
		}
		if bottom.IsFixed() {
			p.Spacing.After, p.Spacing.AfterSet = bottom.ValueInDxa(), true
		}
	}
}

// blockStyled reports whether an element carries formatting that turns a
// div into a paragraph of its own.
func (c *converter) blockStyled(ev *TagEvent) bool {
	if alignment(ev) != "" {
		return true
	}
	if !css.ParseBorder(ev.Style).IsEmpty() || ev.Attrs.Has("border") {
		return true
	}
	_, ok := c.styles.ClassStyle(ev.Attrs.GetAsClass(), docx.StyleParagraph)
	return ok
}

// widthOf converts a width to a table or cell width.
func widthOf(u css.Unit) *xml.Width {
	switch {
	case u.Type == css.UnitPercent && u.Value > 0:
		return &xml.Width{Type: "pct", Val: int(u.Value * 50)}
	case u.IsFixed() && u.Value > 0:
		return &xml.Width{Type: "dxa", Val: u.ValueInDxa()}
	}
	return nil
}

// lengthOf prefers the style property over the attribute.
func lengthOf(ev *TagEvent, name string) css.Unit {
	if u := ev.Style.Unit(name); u.IsValid() {
		return u
	}
	return ev.Attrs.GetAsUnit(name)
}

// cellMargins converts a padding box, nil when no side is fixed.
func cellMargins(m css.Margin) *xml.TableCellMargins {
	side := func(u css.Unit) *xml.Width {
		if !u.IsFixed() {
			return nil
		}
		return &xml.Width{Type: "dxa", Val: u.ValueInDxa()}
	}
	out := &xml.TableCellMargins{Top: side(m.Top), Left: side(m.Left), Bottom: side(m.Bottom), Right: side(m.Right)}
	if out.Top == nil && out.Left == nil && out.Bottom == nil && out.Right == nil {
		return nil
	}
	return out
}

// tableBorders converts a CSS box border, nil when empty.
func tableBorders(b css.Border) *xml.TableBorders {
	if b.IsEmpty() {
		return nil
	}
	return &xml.TableBorders{
		Top:    borderFrom(b.Top),
		Left:   borderFrom(b.Left),
		Bottom: borderFrom(b.Bottom),
		Right:  borderFrom(b.Right),
	}
}
