// Package docmd converts between Markdown, HTML and Microsoft Word
// documents (DOCX).
//
// Markdown is rendered to HTML first and the HTML is converted into
// WordprocessingML, so both forward directions share one pipeline. The
// reverse direction walks the OOXML tree of a .docx and writes Markdown.
//
// # Quick Start
//
// The package-level functions use a converter built from the global
// configuration:
//
//	var out bytes.Buffer
//	err := docmd.MarkdownToDocx([]byte("# Title\n\nSome **bold** text."), nil, &out)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("title.docx", out.Bytes(), 0644)
//
//	res, err := docmd.DocxFileToMarkdown("report.docx")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("report.md", []byte(res.Markdown), 0644)
//	res.WriteImages("images")
//
// # Images
//
// Images in Markdown or HTML input are resolved through an imaging.Source:
// an imaging.Table of hex encoded data keyed by src, an imaging.Dir, or an
// imaging.Chain of both. Data URIs are decoded directly. A source that
// cannot be found is replaced by a placeholder picture; only a src with an
// unsupported extension fails the conversion.
//
// # Configuration
//
// A Converter is configured with a Config, read from YAML with LoadConfig
// or from DOCMD_* environment variables:
//
//	acronym_position: endnote
//	table_caption_position: below
//	image_link_prefix: ./media/
//	styles_template: ${HOME}/templates/report.dotx
//
// # Batches
//
// ConvertBatch converts many files in parallel. Each document gets its own
// conversion state, so a Converter may be shared between goroutines.
package docmd
