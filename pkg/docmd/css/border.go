package css

import "strings"

// SideBorder is one side of a CSS border. Style holds the OOXML border value.
type SideBorder struct {
	Style string
	Width Unit
	Color Color
	// HasColor is false when no color was given.
	HasColor bool
}

// IsValid reports whether the side draws something or is explicitly none.
func (s SideBorder) IsValid() bool { return s.Style != "" }

// Border holds the four sides of a box.
type Border struct {
	Top, Right, Bottom, Left SideBorder
}

// IsEmpty reports whether no side was specified.
func (b Border) IsEmpty() bool {
	return !b.Top.IsValid() && !b.Right.IsValid() && !b.Bottom.IsValid() && !b.Left.IsValid()
}

var borderStyles = map[string]string{
	"solid":  "single",
	"dotted": "dotted",
	"dashed": "dashed",
	"double": "double",
	"groove": "threeDEngrave",
	"ridge":  "threeDEmboss",
	"inset":  "inset",
	"outset": "outset",
	"none":   "none",
	"hidden": "none",
}

var borderWidths = map[string]Unit{
	"thin":   Px(1),
	"medium": Px(3),
	"thick":  Px(5),
}

// ParseSideBorder parses a "1px solid red" shorthand. Missing widths default
// to 1px; a width or color without a style yields a single line.
func ParseSideBorder(s string) SideBorder {
	var side SideBorder
	for _, tok := range splitValues(s) {
		if st, ok := borderStyles[tok]; ok {
			side.Style = st
			continue
		}
		if w, ok := borderWidths[tok]; ok {
			side.Width = w
			continue
		}
		if u := ParseUnit(tok); u.IsValid() && u.Type != UnitAuto && u.Type != UnitPercent {
			side.Width = u
			continue
		}
		if c, ok := ParseColor(tok); ok {
			side.Color = c
			side.HasColor = true
		}
	}
	if side.Style == "" && (side.Width.IsValid() || side.HasColor) {
		side.Style = "single"
	}
	if side.Style != "" && side.Style != "none" && !side.Width.IsValid() {
		side.Width = Px(1)
	}
	return side
}

// ParseBorder reads border, border-<side> and border-<side>-<prop> declarations.
func ParseBorder(d Declarations) Border {
	var b Border
	if v, ok := d["border"]; ok {
		s := ParseSideBorder(v)
		b = Border{s, s, s, s}
	}
	sides := []struct {
		name string
		dst  *SideBorder
	}{{"top", &b.Top}, {"right", &b.Right}, {"bottom", &b.Bottom}, {"left", &b.Left}}
	for _, sd := range sides {
		if v, ok := d["border-"+sd.name]; ok {
			*sd.dst = ParseSideBorder(v)
		}
		if v, ok := d["border-"+sd.name+"-style"]; ok {
			if st, ok := borderStyles[strings.ToLower(v)]; ok {
				sd.dst.Style = st
			}
		}
		if v, ok := d["border-"+sd.name+"-width"]; ok {
			if u := ParseUnit(v); u.IsFixed() {
				sd.dst.Width = u
			}
		}
		if v, ok := d["border-"+sd.name+"-color"]; ok {
			if c, ok := ParseColor(v); ok {
				sd.dst.Color, sd.dst.HasColor = c, true
			}
		}
	}
	return b
}
