package css

import (
	"math"
	"strconv"
	"strings"
)

// UnitType is the metric of a Unit. The zero value marks an invalid unit.
type UnitType int

const (
	UnitInvalid UnitType = iota
	UnitAuto
	UnitPercent
	UnitPixel
	UnitPoint
	UnitEM
	UnitCentimeter
	UnitMillimeter
	UnitInch
	UnitPica
)

var unitSuffixes = []struct {
	suffix string
	typ    UnitType
}{
	{"px", UnitPixel},
	{"pt", UnitPoint},
	{"em", UnitEM},
	{"rem", UnitEM},
	{"cm", UnitCentimeter},
	{"mm", UnitMillimeter},
	{"in", UnitInch},
	{"pc", UnitPica},
	{"%", UnitPercent},
}

// Unit is a CSS length.
type Unit struct {
	Type  UnitType
	Value float64
}

// Auto is the "auto" length.
var Auto = Unit{Type: UnitAuto}

// Px returns a pixel length.
func Px(v float64) Unit { return Unit{Type: UnitPixel, Value: v} }

// ParseUnit parses a CSS length. Bare numbers are pixels.
func ParseUnit(s string) Unit {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Unit{}
	}
	if s == "auto" {
		return Auto
	}
	typ := UnitPixel
	num := s
	// "rem" must win over "em"
	for _, u := range unitSuffixes {
		if strings.HasSuffix(s, u.suffix) && !(u.suffix == "em" && strings.HasSuffix(s, "rem")) {
			typ = u.typ
			num = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			break
		}
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Unit{}
	}
	return Unit{Type: typ, Value: v}
}

// IsValid reports whether the unit parsed.
func (u Unit) IsValid() bool { return u.Type != UnitInvalid }

// IsFixed reports whether the unit is an absolute length.
func (u Unit) IsFixed() bool {
	switch u.Type {
	case UnitPixel, UnitPoint, UnitCentimeter, UnitMillimeter, UnitInch, UnitPica:
		return true
	}
	return false
}

// ValueInPx converts absolute and em lengths to 96 dpi pixels.
func (u Unit) ValueInPx() float64 {
	switch u.Type {
	case UnitPixel:
		return u.Value
	case UnitPoint:
		return u.Value * 96 / 72
	case UnitPica:
		return u.Value * 16
	case UnitInch:
		return u.Value * 96
	case UnitCentimeter:
		return u.Value * 96 / 2.54
	case UnitMillimeter:
		return u.Value * 96 / 25.4
	case UnitEM:
		return u.Value * 16
	}
	return 0
}

// ValueInPoint converts to points.
func (u Unit) ValueInPoint() float64 {
	if u.Type == UnitPoint {
		return u.Value
	}
	return u.ValueInPx() * 72 / 96
}

// ValueInDxa converts to twentieths of a point.
func (u Unit) ValueInDxa() int {
	return int(math.Round(u.ValueInPoint() * 20))
}

// ValueInEighthPoint converts to eighths of a point (border widths).
func (u Unit) ValueInEighthPoint() int {
	return int(math.Round(u.ValueInPoint() * 8))
}

// ValueInEmus converts to English Metric Units.
func (u Unit) ValueInEmus() int64 {
	return int64(math.Round(u.ValueInPx() * 9525))
}

// ValueInHalfPoint converts to half points (font sizes).
func (u Unit) ValueInHalfPoint() int {
	return int(math.Round(u.ValueInPoint() * 2))
}

var fontSizeKeywords = map[string]float64{
	"xx-small": 7,
	"x-small":  7.5,
	"small":    10,
	"medium":   12,
	"large":    13.5,
	"x-large":  18,
	"xx-large": 24,
}

// htmlFontSizes maps <font size="1..7"> to points.
var htmlFontSizes = []float64{7.5, 10, 12, 13.5, 18, 24, 36}

// ParseFontSize parses a font-size value, including CSS keywords.
func ParseFontSize(s string) Unit {
	s = strings.ToLower(strings.TrimSpace(s))
	if pt, ok := fontSizeKeywords[s]; ok {
		return Unit{Type: UnitPoint, Value: pt}
	}
	u := ParseUnit(s)
	if u.Type == UnitPercent || u.Type == UnitAuto {
		return Unit{}
	}
	return u
}

// ParseHTMLFontSize parses the size attribute of <font>, "1" to "7" or
// relative "+1"/"-2" against the default of 3.
func ParseHTMLFontSize(s string) Unit {
	s = strings.TrimSpace(s)
	if s == "" {
		return Unit{}
	}
	base := 0
	if s[0] == '+' || s[0] == '-' {
		base = 3
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return ParseFontSize(s)
	}
	n += base
	if n < 1 {
		n = 1
	}
	if n > len(htmlFontSizes) {
		n = len(htmlFontSizes)
	}
	return Unit{Type: UnitPoint, Value: htmlFontSizes[n-1]}
}
