package docx

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/xml"
)

func zipOf(t *testing.T, files map[string]string) []byte {
	t.Helper()
	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	for name, content := range files {
		f, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestNewReader(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{
			name: "valid",
			data: zipOf(t, map[string]string{
				"word/document.xml": `<w:document/>`,
				"_rels/.rels":       `<Relationships/>`,
			}),
		},
		{name: "missing document", data: zipOf(t, map[string]string{"_rels/.rels": `<Relationships/>`}), wantErr: true},
		{name: "not a zip", data: []byte("not a zip file"), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewReader(bytes.NewReader(tt.data), int64(len(tt.data)))
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewReader() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if diff := cmp.Diff([]string{"_rels/.rels", "word/document.xml"}, r.ListParts()); diff != "" {
				t.Errorf("ListParts() mismatch (-want +got):\n%s", diff)
			}
			rels, err := r.Relationships(MainDocumentPart)
			if err != nil || len(rels.Relationship) != 0 {
				t.Errorf("Relationships() = %+v, %v, want empty", rels, err)
			}
		})
	}
}

func TestRelationships(t *testing.T) {
	rels := NewRelationships()
	rels.Relationship = append(rels.Relationship, Relationship{ID: "rId7", Type: RelTypeStyles, Target: "styles.xml"})
	if got := rels.NextID(); got != "rId8" {
		t.Errorf("NextID() = %s, want rId8", got)
	}
	id := rels.Add(RelTypeHyperlink, "https://example.com", true)
	rel, ok := rels.Get(id)
	if !ok || !rel.IsExternal() || rel.Target != "https://example.com" {
		t.Errorf("Get(%s) = %+v, %v", id, rel, ok)
	}
	if _, ok := rels.ByType(RelTypeNumbering); ok {
		t.Error("ByType() found a numbering relationship that was never added")
	}

	tests := []struct {
		source, target, want string
	}{
		{MainDocumentPart, "media/image1.png", "word/media/image1.png"},
		{MainDocumentPart, "../customXml/item1.xml", "customXml/item1.xml"},
		{MainDocumentPart, "/word/styles.xml", "word/styles.xml"},
	}
	for _, tt := range tests {
		if got := ResolveTarget(tt.source, tt.target); got != tt.want {
			t.Errorf("ResolveTarget(%s, %s) = %s, want %s", tt.source, tt.target, got, tt.want)
		}
	}
	if got := relsPartName(MainDocumentPart); got != DocumentRelsPart {
		t.Errorf("relsPartName() = %s", got)
	}
}

func TestContentTypes(t *testing.T) {
	ct := newContentTypes()
	ct.AddDefault(".PNG", "image/png")
	ct.AddDefault("png", "image/other")
	ct.AddOverride("word/document.xml", "a")
	ct.AddOverride("/word/document.xml", ContentTypeDocument)

	pngs := 0
	for _, d := range ct.Defaults {
		if d.Extension == "png" {
			pngs++
		}
	}
	if pngs != 1 {
		t.Errorf("png defaults = %d, want 1", pngs)
	}
	if len(ct.Overrides) != 1 || ct.Override(MainDocumentPart) != ContentTypeDocument {
		t.Errorf("Overrides = %+v", ct.Overrides)
	}
}

func TestDefaultStyles(t *testing.T) {
	styles := DefaultStyles()

	for _, id := range []string{
		"Normal", "Heading1", "Heading6", "ListParagraph", "Quote", "IntenseQuote",
		"QuoteChar", "Caption", "Hyperlink", "FootnoteText", "FootnoteReference",
		"EndnoteText", "EndnoteReference", "TableGrid", "SourceCode",
	} {
		if _, ok := styles.Get(id); !ok {
			t.Errorf("default styles missing %s", id)
		}
	}

	tests := []struct {
		name       string
		query      string
		kind       string
		ignoreCase bool
		wantID     string
		wantOK     bool
	}{
		{name: "by id", query: "Heading2", kind: StyleParagraph, wantID: "Heading2", wantOK: true},
		{name: "by display name", query: "heading 3", kind: StyleParagraph, wantID: "Heading3", wantOK: true},
		{name: "case sensitive miss", query: "intensequote", wantOK: false},
		{name: "ignore case", query: "intensequote", ignoreCase: true, wantID: "IntenseQuote", wantOK: true},
		{name: "kind filter", query: "Hyperlink", kind: StyleParagraph, wantOK: false},
		{name: "character", query: "Hyperlink", kind: StyleCharacter, wantID: "Hyperlink", wantOK: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := styles.Find(tt.query, tt.kind, tt.ignoreCase)
			if ok != tt.wantOK || got.ID != tt.wantID {
				t.Errorf("Find(%q) = %q, %v, want %q, %v", tt.query, got.ID, ok, tt.wantID, tt.wantOK)
			}
		})
	}

	if !styles.TableHasBorders("TableGrid") {
		t.Error("TableGrid should have borders")
	}
	if styles.TableHasBorders("TableNormal") || styles.TableHasBorders("Missing") {
		t.Error("TableNormal and unknown styles have no borders")
	}
}

func TestStylesMerge(t *testing.T) {
	template := `<?xml version="1.0" encoding="UTF-8"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="Custom Heading"/></w:style>
<w:style w:type="table" w:styleId="Fancy"><w:name w:val="Fancy Table"/><w:basedOn w:val="TableGrid"/></w:style>
<w:style w:type="table" w:styleId="Plain"><w:name w:val="Plain"/>
<w:tblPr><w:tblBorders><w:top w:val="nil"/></w:tblBorders></w:tblPr></w:style>
</w:styles>`
	styles, err := ParseStyles([]byte(template))
	if err != nil {
		t.Fatalf("ParseStyles() error = %v", err)
	}
	added := styles.Merge(DefaultStyles())
	if added == 0 {
		t.Fatal("Merge() added nothing")
	}
	if again := styles.Merge(DefaultStyles()); again != 0 {
		t.Errorf("second Merge() added %d", again)
	}

	h1, _ := styles.Get("Heading1")
	if h1.Name != "Custom Heading" {
		t.Errorf("template style was replaced: %+v", h1)
	}
	fancy, ok := styles.Find("fancy table", StyleTable, true)
	if !ok || fancy.BasedOn != "TableGrid" {
		t.Errorf("Find(fancy table) = %+v, %v", fancy, ok)
	}
	if !styles.TableHasBorders("Fancy") {
		t.Error("Fancy inherits borders from TableGrid")
	}
	if styles.TableHasBorders("Plain") {
		t.Error("nil borders are not visible")
	}

	if _, err := ParseStyles([]byte(`<w:document/>`)); err == nil {
		t.Error("ParseStyles() accepted a non-styles root")
	}
}

func TestPackageRoundTrip(t *testing.T) {
	pkg := New()
	imgID, imgPart := pkg.AddImagePart("PNG", []byte("fake-png"))
	if imgPart != "word/media/image1.png" {
		t.Errorf("AddImagePart() part = %s", imgPart)
	}
	_, second := pkg.AddImagePart("gif", []byte("fake-gif"))
	if second != "word/media/image2.gif" {
		t.Errorf("second image part = %s", second)
	}
	linkID := pkg.AddHyperlink("https://example.com")
	if again := pkg.AddHyperlink("https://example.com"); again != linkID {
		t.Errorf("AddHyperlink() did not reuse %s, got %s", linkID, again)
	}

	numbering := pkg.EnsureNumbering()
	numbering.AbstractNums = append(numbering.AbstractNums, &xml.AbstractNum{ID: 0})
	numbering.Nums = append(numbering.Nums, &xml.Num{ID: 1, AbstractNumID: xml.Int(0)})
	pkg.EnsureNumbering()
	noteID := pkg.EnsureFootnotes().Add("HyperText Markup Language", "FootnoteText", "FootnoteReference")

	p := xml.NewParagraph(xml.NewTextRun("Hello"))
	pkg.Document.Body.Elements = append(pkg.Document.Body.Elements, p)

	data, err := pkg.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}

	got, err := Open(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if n := len(got.Document.Body.Elements); n != 1 {
		t.Fatalf("body has %d elements, want 1", n)
	}
	if text := got.Document.Body.Elements[0].(*xml.Paragraph).GetText(); text != "Hello" {
		t.Errorf("paragraph text = %q", text)
	}
	if name, img, ok := got.ImagePart(imgID); !ok || name != imgPart || string(img) != "fake-png" {
		t.Errorf("ImagePart(%s) = %s, %q, %v", imgID, name, img, ok)
	}
	if target, ok := got.HyperlinkTarget(linkID); !ok || target != "https://example.com" {
		t.Errorf("HyperlinkTarget(%s) = %s, %v", linkID, target, ok)
	}
	if _, ok := got.HyperlinkTarget(imgID); ok {
		t.Error("an image relationship is not a hyperlink")
	}
	if got.Numbering == nil || got.Numbering.Instance(1) == nil {
		t.Error("numbering part lost")
	}
	if got.Footnotes == nil || got.Footnotes.Get(noteID) == nil {
		t.Error("footnotes part lost")
	}
	if got.Endnotes != nil {
		t.Error("endnotes part appeared from nowhere")
	}
	if _, ok := got.Styles.Get("IntenseQuote"); !ok {
		t.Error("styles part lost")
	}

	count := 0
	for _, rel := range got.Relationships.Relationship {
		if rel.Type == RelTypeNumbering {
			count++
		}
	}
	if count != 1 {
		t.Errorf("numbering relationships = %d, want 1", count)
	}
	for _, want := range []string{MainDocumentPart, StylesPart, NumberingPart, FootnotesPart} {
		if got.contentTypes.Override(want) == "" {
			t.Errorf("content types miss an override for %s", want)
		}
	}
}

func TestOpenKeepsUnknownParts(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p><w:r><w:t>x</w:t></w:r></w:p></w:body></w:document>`
	data := zipOf(t, map[string]string{
		MainDocumentPart:    doc,
		"docProps/core.xml": "<core/>",
		StylesPart:          "not xml <",
	})

	pkg, err := Open(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, ok := pkg.Styles.Get("Normal"); !ok {
		t.Error("missing styles relationship should fall back to the defaults")
	}

	out, err := pkg.Bytes()
	if err != nil {
		t.Fatalf("Bytes() error = %v", err)
	}
	r, err := NewReader(bytes.NewReader(out), int64(len(out)))
	if err != nil {
		t.Fatalf("NewReader() error = %v", err)
	}
	core, err := r.Part("docProps/core.xml")
	if err != nil || string(core) != "<core/>" {
		t.Errorf("core.xml = %q, %v", core, err)
	}
	rels, err := r.Part(PackageRelsPart)
	if err != nil || !strings.Contains(string(rels), RelTypeOfficeDocument) {
		t.Errorf("package relationships = %q, %v", rels, err)
	}
}
