// Package css reads the subset of CSS that the HTML converter understands:
// inline style declarations, lengths, colors, borders and margins.
package css

import "strings"

// Declarations holds the properties of a style attribute keyed by
// lower-cased property name.
type Declarations map[string]string

// ParseDeclarations parses "color: red; font-size: 12px". Later
// declarations win and !important is dropped.
func ParseDeclarations(s string) Declarations {
	d := Declarations{}
	for _, decl := range strings.Split(s, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = strings.ToLower(strings.TrimSpace(name))
		value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important"))
		if name == "" || value == "" {
			continue
		}
		d[name] = value
	}
	return d
}

// Get returns the value of a property or "".
func (d Declarations) Get(name string) string {
	return d[name]
}

// Unit parses a property as a length.
func (d Declarations) Unit(name string) Unit {
	return ParseUnit(d[name])
}

// Margin parses the margin shorthand and per-side overrides of prefix
// ("margin" or "padding").
func (d Declarations) Margin(prefix string) Margin {
	m := ParseMargin(d[prefix])
	for _, s := range []struct {
		name string
		dst  *Unit
	}{{"top", &m.Top}, {"right", &m.Right}, {"bottom", &m.Bottom}, {"left", &m.Left}} {
		if v, ok := d[prefix+"-"+s.name]; ok {
			*s.dst = ParseUnit(v)
		}
	}
	return m
}

// Margin holds the four sides of a margin or padding.
type Margin struct {
	Top, Right, Bottom, Left Unit
}

// IsEmpty reports whether no side parsed.
func (m Margin) IsEmpty() bool {
	return !m.Top.IsValid() && !m.Right.IsValid() && !m.Bottom.IsValid() && !m.Left.IsValid()
}

// ParseMargin parses the 1 to 4 value shorthand.
func ParseMargin(s string) Margin {
	v := splitValues(s)
	u := make([]Unit, len(v))
	for i := range v {
		u[i] = ParseUnit(v[i])
	}
	switch len(u) {
	case 1:
		return Margin{u[0], u[0], u[0], u[0]}
	case 2:
		return Margin{u[0], u[1], u[0], u[1]}
	case 3:
		return Margin{u[0], u[1], u[2], u[1]}
	case 4:
		return Margin{u[0], u[1], u[2], u[3]}
	}
	return Margin{}
}

// splitValues splits on whitespace, keeping rgb(...) groups together.
func splitValues(s string) []string {
	var out []string
	var cur strings.Builder
	depth := 0
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r == '(':
			depth++
		case r == ')':
			depth--
		case (r == ' ' || r == '\t' || r == '\n') && depth == 0:
			if cur.Len() > 0 {
				out = append(out, cur.String())
				cur.Reset()
			}
			continue
		}
		cur.WriteRune(r)
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}
