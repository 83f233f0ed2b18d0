package docmd

import (
	"bytes"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/docx"
	"github.com/benjaminschreck/go-docmd/pkg/docmd/imaging"
	"github.com/benjaminschreck/go-docmd/pkg/docmd/xml"
)

func quietConverter(t *testing.T, config *Config) *Converter {
	t.Helper()
	if config == nil {
		config = DefaultConfig()
	}
	return New(WithConfig(config), WithLogger(NewLogger(nil, LogOff)))
}

func toDocx(t *testing.T, c *Converter, md string, images imaging.Source) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := c.MarkdownToDocx([]byte(md), images, &buf); err != nil {
		t.Fatalf("MarkdownToDocx() error = %v", err)
	}
	return buf.Bytes()
}

func toMarkdown(t *testing.T, c *Converter, data []byte) *MarkdownResult {
	t.Helper()
	res, err := c.DocxToMarkdown(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("DocxToMarkdown() error = %v", err)
	}
	return res
}

func TestMarkdownToHTML(t *testing.T) {
	c := quietConverter(t, nil)
	tests := []struct {
		name string
		md   string
		want []string
	}{
		{
			name: "emphasis",
			md:   "Some **bold** and *italic* text.",
			want: []string{"<p>Some <strong>bold</strong> and <em>italic</em> text.</p>"},
		},
		{
			name: "table",
			md:   "| a | b |\n|---|---|\n| 1 | 2 |\n",
			want: []string{"<table>", "<th>a</th>", "<td>2</td>"},
		},
		{
			name: "task list",
			md:   "- [x] done\n- [ ] open\n",
			want: []string{`type="checkbox"`, "checked", "done", "open"},
		},
		{
			name: "raw html passes through",
			md:   "Press <kbd>Ctrl</kbd> now.",
			want: []string{"<kbd>Ctrl</kbd>"},
		},
		{
			name: "footnote becomes abbr",
			md:   "Text[^n].\n\n[^n]: The \"quoted\" note.\n",
			want: []string{`<p>Text<abbr title="The &#34;quoted&#34; note."></abbr>.</p>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.MarkdownToHTML([]byte(tt.md))
			if err != nil {
				t.Fatalf("MarkdownToHTML() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("MarkdownToHTML() = %q, want it to contain %q", got, want)
				}
			}
			if strings.Contains(got, "footnote-ref") || strings.Contains(got, `class="footnotes"`) {
				t.Errorf("MarkdownToHTML() = %q, footnote list should not be rendered", got)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	c := quietConverter(t, nil)
	tests := []struct {
		name string
		md   string
		want string
	}{
		{
			name: "emphasis",
			md:   "Some **bold** and *italic* and ***both***.\n",
			want: "Some **bold** and *italic* and ***both***.\n",
		},
		{
			name: "heading and paragraph",
			md:   "# Title\n\nBody text.\n",
			want: "# Title\n\nBody text.\n",
		},
		{
			name: "numbered headings",
			md:   "# 1. Intro\n\n## 1.1. Scope\n",
			want: "# 1. Intro\n\n## 1.1. Scope\n",
		},
		{
			name: "numbered headings starting at h2",
			md:   "## 1.1. Scope\n\n## Scope\n",
			want: "## 1.1. Scope\n\n## Scope\n",
		},
		{
			name: "escaped hash stays literal",
			md:   "\\# not a heading\n",
			want: "\\# not a heading\n",
		},
		{
			name: "bullet list",
			md:   "- one\n- two\n",
			want: "- one\n- two\n",
		},
		{
			name: "ordered list",
			md:   "1. first\n2. second\n",
			want: "1. first\n2. second\n",
		},
		{
			name: "footnote",
			md:   "Text[^1].\n\n[^1]: A note.\n",
			want: "Text[^1].\n\n[^1]: A note.\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := toMarkdown(t, c, toDocx(t, c, tt.md, nil))
			if diff := cmp.Diff(tt.want, res.Markdown); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoundTripTable(t *testing.T) {
	c := quietConverter(t, nil)
	res := toMarkdown(t, c, toDocx(t, c, "| a | b |\n|---|---|\n| 1 | 2 |\n", nil))
	for _, want := range []string{
		"| a   | b   |",
		"| 1   | 2   |",
	} {
		if !strings.Contains(res.Markdown, want) {
			t.Errorf("Markdown = %q, want it to contain %q", res.Markdown, want)
		}
	}
}

func TestRoundTripImages(t *testing.T) {
	png := imaging.Placeholder()
	images := imaging.Table{"logo.png": hex.EncodeToString(png)}

	config := DefaultConfig()
	config.ImageLinkPrefix = "media/"
	c := quietConverter(t, config)

	res := toMarkdown(t, c, toDocx(t, c, "![logo](logo.png)\n", images))
	if diff := cmp.Diff("![logo](media/image1.png)\n", res.Markdown); diff != "" {
		t.Errorf("Markdown mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"image1.png"}, res.ImageNames()); diff != "" {
		t.Errorf("ImageNames() mismatch (-want +got):\n%s", diff)
	}
	if !bytes.Equal(res.Images["image1.png"], png) {
		t.Error("image bytes changed in round trip")
	}

	dir := t.TempDir()
	if err := res.WriteImages(filepath.Join(dir, "media")); err != nil {
		t.Fatalf("WriteImages() error = %v", err)
	}
	written, err := os.ReadFile(filepath.Join(dir, "media", "image1.png"))
	if err != nil {
		t.Fatalf("image not written: %v", err)
	}
	if !bytes.Equal(written, png) {
		t.Error("written image differs")
	}
}

func TestMarkdownToDocxUnsupportedImage(t *testing.T) {
	c := quietConverter(t, nil)
	var buf bytes.Buffer
	err := c.MarkdownToDocx([]byte("![scan](scan.tiff)"), nil, &buf)
	if err == nil {
		t.Fatal("MarkdownToDocx() error = nil, want unsupported image error")
	}
	if !IsUnsupportedImage(err) {
		t.Errorf("IsUnsupportedImage(%v) = false", err)
	}
	if !IsConversionError(err) {
		t.Errorf("IsConversionError(%v) = false", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes for a failed conversion", buf.Len())
	}
}

func TestMarkdownToDocxMissingImageUsesPlaceholder(t *testing.T) {
	c := quietConverter(t, nil)
	res := toMarkdown(t, c, toDocx(t, c, "![gone](missing.png)\n", imaging.Table{}))
	if !bytes.Equal(res.Images["image1.png"], imaging.Placeholder()) {
		t.Errorf("Images = %v, want the placeholder as image1.png", res.ImageNames())
	}
}

func TestHTMLToPackage(t *testing.T) {
	config := DefaultConfig()
	config.AcronymPosition = "endnote"
	c := quietConverter(t, config)

	pkg, err := c.HTMLToPackage(`<p>The <abbr title="World Wide Web">WWW</abbr>.</p>`, nil)
	if err != nil {
		t.Fatalf("HTMLToPackage() error = %v", err)
	}
	if pkg.Endnotes == nil || pkg.Endnotes.Get(1) == nil {
		t.Fatal("acronym title not written as endnote 1")
	}
	if pkg.Footnotes != nil && pkg.Footnotes.Get(1) != nil {
		t.Error("acronym written as footnote despite endnote position")
	}

	var buf bytes.Buffer
	if err := c.HTMLToDocx(`<p>The <abbr title="World Wide Web">WWW</abbr>.</p>`, nil, &buf); err != nil {
		t.Fatalf("HTMLToDocx() error = %v", err)
	}
	res := toMarkdown(t, c, buf.Bytes())
	if diff := cmp.Diff("The WWW[^e1].\n\n[^e1]: World Wide Web\n", res.Markdown); diff != "" {
		t.Errorf("Markdown mismatch (-want +got):\n%s", diff)
	}
}

func TestStylesTemplate(t *testing.T) {
	styles := docx.DefaultStyles()
	data, err := styles.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "styles.xml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	config := DefaultConfig()
	config.StylesTemplate = path
	c := quietConverter(t, config)

	pkg, err := c.HTMLToPackage("<h2>Styled</h2>", nil)
	if err != nil {
		t.Fatalf("HTMLToPackage() error = %v", err)
	}
	if _, ok := pkg.Styles.Get("Heading2"); !ok {
		t.Error("Heading2 missing from styles")
	}
	if c.cache.Size() != 1 {
		t.Errorf("cache size = %d, want 1", c.cache.Size())
	}

	config.StylesTemplate = filepath.Join(t.TempDir(), "missing.xml")
	c = quietConverter(t, config)
	_, err = c.HTMLToPackage("<p>x</p>", nil)
	if !IsDocumentError(err) {
		t.Errorf("HTMLToPackage() error = %v, want a document error", err)
	}
}

func TestDocxToMarkdownInvalid(t *testing.T) {
	c := quietConverter(t, nil)
	data := []byte("not a zip")
	_, err := c.DocxToMarkdown(bytes.NewReader(data), int64(len(data)))
	if !IsConversionError(err) {
		t.Errorf("DocxToMarkdown() error = %v, want a conversion error", err)
	}

	_, err = c.DocxFileToMarkdown(filepath.Join(t.TempDir(), "none.docx"))
	var ce *ConversionError
	if !errors.As(err, &ce) || ce.Source == "" {
		t.Errorf("DocxFileToMarkdown() error = %v, want a conversion error naming the file", err)
	}
}

func TestDocxToMarkdownWritesDefaultStyle(t *testing.T) {
	pkg := docx.New()
	p := &xml.Paragraph{Properties: &xml.ParagraphProperties{Alignment: &xml.Alignment{Val: "center"}}}
	p.Append(xml.NewTextRun("centered"))
	pkg.Document.Body.Elements = append(pkg.Document.Body.Elements, p)
	data, err := pkg.Bytes()
	if err != nil {
		t.Fatal(err)
	}

	res := toMarkdown(t, quietConverter(t, nil), data)
	if res.Markdown != "centered\n" {
		t.Errorf("Markdown = %q, want %q", res.Markdown, "centered\n")
	}
}

func TestConverterConfigIsCopy(t *testing.T) {
	c := quietConverter(t, nil)
	c.Config().AcronymPosition = "endnote"
	if got := c.Config().AcronymPosition; got != "footnote" {
		t.Errorf("AcronymPosition = %q after modifying a copy", got)
	}
}
