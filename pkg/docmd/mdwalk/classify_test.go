package mdwalk

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/xml"
)

func border() *xml.Border { return &xml.Border{Val: "single", Size: 4} }

func styled(style string) *xml.ParagraphProperties {
	return &xml.ParagraphProperties{Style: &xml.Style{Val: style}}
}

func numbered(style string, ilvl, numID int) *xml.ParagraphProperties {
	p := styled(style)
	p.Numbering = &xml.NumberingProperties{Level: xml.Int(ilvl), ID: xml.Int(numID)}
	return p
}

func quoteProps() *xml.ParagraphProperties {
	return &xml.ParagraphProperties{
		Borders:     &xml.ParagraphBorders{Left: border()},
		Indentation: &xml.Indentation{Left: 500, Right: 500},
	}
}

func codeProps() *xml.ParagraphProperties {
	return &xml.ParagraphProperties{
		Borders:     &xml.ParagraphBorders{Top: border(), Left: border(), Bottom: border(), Right: border()},
		Shading:     &xml.Shading{Val: "clear", Fill: "F8F8F8"},
		Indentation: &xml.Indentation{Left: 500},
	}
}

func ruleProps() *xml.ParagraphProperties {
	return &xml.ParagraphProperties{Borders: &xml.ParagraphBorders{Top: border()}}
}

// testNumbering has a bullet list (numId 1) and a list that is bulleted
// at the first level and numbered at the second (numId 2).
func testNumbering() *xml.Numbering {
	return &xml.Numbering{
		AbstractNums: []*xml.AbstractNum{
			{ID: 0, Levels: []*xml.Level{{Index: 0, Format: &xml.Style{Val: "bullet"}}}},
			{ID: 1, Levels: []*xml.Level{
				{Index: 0, Format: &xml.Style{Val: "bullet"}},
				{Index: 1, Format: &xml.Style{Val: "decimal"}},
			}},
		},
		Nums: []*xml.Num{
			{ID: 1, AbstractNumID: xml.Int(0)},
			{ID: 2, AbstractNumID: xml.Int(1)},
		},
	}
}

func TestClassifyParagraph(t *testing.T) {
	headingWithBorders := styled("Heading2")
	headingWithBorders.Borders = codeProps().Borders
	headingWithBorders.Shading = codeProps().Shading
	headingWithBorders.Indentation = codeProps().Indentation

	ruleHeading := ruleProps()
	ruleHeading.Style = &xml.Style{Val: "Heading1"}

	listQuote := quoteProps()
	listQuote.Style = &xml.Style{Val: "ListParagraph"}

	tests := []struct {
		name string
		p    *xml.Paragraph
		want BlockIntent
	}{
		{"no properties", xml.NewParagraph(xml.NewTextRun("x")), BlockIntent{Kind: Plain}},
		{"normal style", &xml.Paragraph{Properties: styled("Normal")}, BlockIntent{Kind: Plain}},
		{"heading", &xml.Paragraph{Properties: styled("Heading3")}, BlockIntent{Kind: Heading, Level: 3}},
		{"heading above six", &xml.Paragraph{Properties: styled("Heading8")}, BlockIntent{Kind: Heading, Level: 6}},
		{"heading beats code borders", &xml.Paragraph{Properties: headingWithBorders}, BlockIntent{Kind: Heading, Level: 2}},
		{"rule beats heading", &xml.Paragraph{Properties: ruleHeading}, BlockIntent{Kind: Rule}},
		{"code block", &xml.Paragraph{Properties: codeProps()}, BlockIntent{Kind: CodeBlock}},
		{"block quote", &xml.Paragraph{Properties: quoteProps()}, BlockIntent{Kind: Quote}},
		{"quote beats list style", &xml.Paragraph{Properties: listQuote}, BlockIntent{Kind: Quote}},
		{"list paragraph", &xml.Paragraph{Properties: styled("ListParagraph")}, BlockIntent{Kind: ListItem, Level: 1}},
		{"bullet item", &xml.Paragraph{Properties: numbered("ListParagraph", 0, 2)}, BlockIntent{Kind: ListItem, Level: 1}},
		{"numbered item", &xml.Paragraph{Properties: numbered("ListParagraph", 1, 2)}, BlockIntent{Kind: ListItem, Level: 2, Ordered: true}},
		{"numbering without style", &xml.Paragraph{Properties: numbered("Normal", 0, 1)}, BlockIntent{Kind: ListItem, Level: 1}},
		{"intense quote", &xml.Paragraph{Properties: styled("IntenseQuote")}, BlockIntent{Kind: IntenseQuote}},
		{
			"checkbox control",
			&xml.Paragraph{Properties: styled("ListParagraph"), Content: []xml.ParagraphContent{xml.NewCheckbox(true), xml.NewTextRun(" done")}},
			BlockIntent{Kind: TaskItem, Level: 1, Checked: true},
		},
		{
			"checkbox glyph",
			xml.NewParagraph(xml.NewTextRun(xml.UncheckedGlyph + " todo")),
			BlockIntent{Kind: TaskItem, Level: 1},
		},
		{
			"glyph after text",
			xml.NewParagraph(xml.NewTextRun("todo " + xml.UncheckedGlyph)),
			BlockIntent{Kind: Plain},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyParagraph(tt.p, testNumbering())
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ClassifyParagraph() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClassifyRun(t *testing.T) {
	tests := []struct {
		name  string
		props *xml.RunProperties
		want  RunIntent
	}{
		{"plain", nil, RunIntent{}},
		{"bold", &xml.RunProperties{Bold: &xml.OnOff{}}, RunIntent{Bold: true}},
		{"bold switched off", &xml.RunProperties{Bold: &xml.OnOff{Val: "0"}}, RunIntent{}},
		{
			"italic after other properties",
			&xml.RunProperties{Color: &xml.Color{Val: "FF0000"}, Size: xml.Int(24), Italic: &xml.OnOff{}},
			RunIntent{Italic: true},
		},
		{"bold and italic", &xml.RunProperties{Bold: &xml.OnOff{}, Italic: &xml.OnOff{Val: "true"}}, RunIntent{Bold: true, Italic: true}},
		{"strike", &xml.RunProperties{Strike: &xml.OnOff{}}, RunIntent{Strike: true}},
		{"code style", &xml.RunProperties{Style: &xml.Style{Val: "SourceCode"}}, RunIntent{Code: true}},
		{"monospace font", &xml.RunProperties{Font: &xml.Font{ASCII: "Courier New"}}, RunIntent{Code: true}},
		{"strong style", &xml.RunProperties{Style: &xml.Style{Val: "Strong"}}, RunIntent{Bold: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyRun(&xml.Run{Properties: tt.props})
			if got != tt.want {
				t.Errorf("ClassifyRun() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRunMarkers(t *testing.T) {
	tests := []struct {
		intent    RunIntent
		wantOpen  string
		wantClose string
	}{
		{RunIntent{}, "", ""},
		{RunIntent{Bold: true}, "**", "**"},
		{RunIntent{Italic: true}, "*", "*"},
		{RunIntent{Bold: true, Italic: true}, "***", "***"},
		{RunIntent{Strike: true, Bold: true}, "~~**", "**~~"},
		{RunIntent{Code: true, Bold: true}, "`", "`"},
	}
	for _, tt := range tests {
		open, close := tt.intent.markers()
		if open != tt.wantOpen || close != tt.wantClose {
			t.Errorf("%+v.markers() = %q, %q; want %q, %q", tt.intent, open, close, tt.wantOpen, tt.wantClose)
		}
	}
}
