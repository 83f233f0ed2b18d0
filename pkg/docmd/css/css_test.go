package css

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseUnit(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Unit
	}{
		{"pixels", "12px", Unit{UnitPixel, 12}},
		{"bare number", "40", Unit{UnitPixel, 40}},
		{"points", "10.5pt", Unit{UnitPoint, 10.5}},
		{"em", "2em", Unit{UnitEM, 2}},
		{"rem", "1.5rem", Unit{UnitEM, 1.5}},
		{"centimeters", "2cm", Unit{UnitCentimeter, 2}},
		{"percent", "50%", Unit{UnitPercent, 50}},
		{"auto", "auto", Auto},
		{"upper case", " 3PX ", Unit{UnitPixel, 3}},
		{"garbage", "wide", Unit{}},
		{"empty", "", Unit{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseUnit(tt.input)); diff != "" {
				t.Errorf("ParseUnit(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestUnitConversions(t *testing.T) {
	tests := []struct {
		name     string
		unit     Unit
		wantPx   float64
		wantDxa  int
		wantEmus int64
	}{
		{"96px is one inch", Px(96), 96, 1440, 914400},
		{"72pt is one inch", Unit{UnitPoint, 72}, 96, 1440, 914400},
		{"1in", Unit{UnitInch, 1}, 96, 1440, 914400},
		{"2.54cm", Unit{UnitCentimeter, 2.54}, 96, 1440, 914400},
		{"percent has no size", Unit{UnitPercent, 50}, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.unit.ValueInPx(); got < tt.wantPx-0.001 || got > tt.wantPx+0.001 {
				t.Errorf("ValueInPx() = %v, want %v", got, tt.wantPx)
			}
			if got := tt.unit.ValueInDxa(); got != tt.wantDxa {
				t.Errorf("ValueInDxa() = %d, want %d", got, tt.wantDxa)
			}
			if got := tt.unit.ValueInEmus(); got != tt.wantEmus {
				t.Errorf("ValueInEmus() = %d, want %d", got, tt.wantEmus)
			}
		})
	}
}

func TestParseFontSize(t *testing.T) {
	tests := []struct {
		input string
		want  int // half points
	}{
		{"12pt", 24},
		{"16px", 24},
		{"large", 27},
		{"xx-small", 14},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFontSize(tt.input).ValueInHalfPoint(); got != tt.want {
				t.Errorf("ParseFontSize(%q) = %d half points, want %d", tt.input, got, tt.want)
			}
		})
	}
	if ParseFontSize("50%").IsValid() {
		t.Error("percent font sizes should be rejected")
	}
}

func TestParseHTMLFontSize(t *testing.T) {
	tests := []struct {
		input string
		want  float64
	}{
		{"1", 7.5},
		{"3", 12},
		{"7", 36},
		{"9", 36},
		{"+1", 13.5},
		{"-2", 7.5},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseHTMLFontSize(tt.input).ValueInPoint(); got != tt.want {
				t.Errorf("ParseHTMLFontSize(%q) = %v pt, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"#FF0000", "FF0000", true},
		{"#0f0", "00FF00", true},
		{"blue", "0000FF", true},
		{"rgb(1, 2, 255)", "0102FF", true},
		{"rgb(1, 2)", "", false},
		{"#12345", "", false},
		{"transparent", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c, ok := ParseColor(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseColor(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && c.Hex() != tt.want {
				t.Errorf("ParseColor(%q) = %s, want %s", tt.input, c.Hex(), tt.want)
			}
		})
	}
}

func TestParseDeclarations(t *testing.T) {
	got := ParseDeclarations("color: red; Font-Size : 12px;; bogus; margin:0 !important; color:blue")
	want := Declarations{
		"color":     "blue",
		"font-size": "12px",
		"margin":    "0",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseDeclarations() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMargin(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Margin
	}{
		{"one value", "4px", Margin{Px(4), Px(4), Px(4), Px(4)}},
		{"two values", "1px 2px", Margin{Px(1), Px(2), Px(1), Px(2)}},
		{"three values", "1px 2px 3px", Margin{Px(1), Px(2), Px(3), Px(2)}},
		{"four values", "1px 2px 3px 4px", Margin{Px(1), Px(2), Px(3), Px(4)}},
		{"empty", "", Margin{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, ParseMargin(tt.input)); diff != "" {
				t.Errorf("ParseMargin(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}

	d := ParseDeclarations("margin: 10px; margin-left: 2pt")
	m := d.Margin("margin")
	if m.Left != (Unit{UnitPoint, 2}) || m.Top != Px(10) {
		t.Errorf("per-side override not applied: %+v", m)
	}
}

func TestParseBorder(t *testing.T) {
	t.Run("shorthand", func(t *testing.T) {
		b := ParseBorder(ParseDeclarations("border: 2px dashed #00ff00"))
		want := SideBorder{Style: "dashed", Width: Px(2), Color: Color{0, 255, 0}, HasColor: true}
		for _, side := range []SideBorder{b.Top, b.Right, b.Bottom, b.Left} {
			if diff := cmp.Diff(want, side); diff != "" {
				t.Errorf("side mismatch (-want +got):\n%s", diff)
			}
		}
	})

	t.Run("side overrides", func(t *testing.T) {
		b := ParseBorder(ParseDeclarations("border: solid; border-left: none; border-top-color: red"))
		if b.Left.Style != "none" {
			t.Errorf("left style = %q, want none", b.Left.Style)
		}
		if !b.Top.HasColor || b.Top.Color.Hex() != "FF0000" {
			t.Errorf("top color = %+v", b.Top)
		}
		if b.Right.Width != Px(1) {
			t.Errorf("default width = %+v, want 1px", b.Right.Width)
		}
	})

	t.Run("color only", func(t *testing.T) {
		s := ParseSideBorder("rgb(0, 0, 255)")
		if s.Style != "single" || s.Color.Hex() != "0000FF" {
			t.Errorf("ParseSideBorder() = %+v", s)
		}
	})

	t.Run("empty", func(t *testing.T) {
		if !ParseBorder(Declarations{}).IsEmpty() {
			t.Error("expected empty border")
		}
	})
}

func TestAttributes(t *testing.T) {
	attrs := Attributes{"border": "2px", "colspan": "3", "width": "50%", "class": " note  wide ", "checked": ""}

	tests := []struct {
		name   string
		attr   string
		want   int
		wantOK bool
	}{
		{"pixel suffix", "border", 2, true},
		{"plain", "colspan", 3, true},
		{"percent", "width", 0, false},
		{"missing", "rowspan", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := attrs.GetAsInt(tt.attr)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("GetAsInt(%q) = %d, %v, want %d, %v", tt.attr, got, ok, tt.want, tt.wantOK)
			}
		})
	}

	if got := attrs.GetAsUnit("width"); got != (Unit{UnitPercent, 50}) {
		t.Errorf("GetAsUnit(width) = %+v", got)
	}
	if diff := cmp.Diff([]string{"note", "wide"}, attrs.GetAsClass()); diff != "" {
		t.Errorf("GetAsClass() mismatch (-want +got):\n%s", diff)
	}
	if !attrs.Has("checked") || attrs.Has("disabled") {
		t.Error("Has() should report present empty attributes only")
	}
}
