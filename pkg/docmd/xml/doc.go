// Package xml provides the WordprocessingML object model used by go-docmd.
//
// DOCX files are ZIP archives of XML parts. This package models the parts
// the converter reads and writes: the main document, numbering definitions,
// and footnotes/endnotes. Styles and relationships live in the docx package.
//
// # Structure Organization
//
//   - types.go: core interfaces (BodyElement, ParagraphContent, RunContent), RawXMLElement,
//     toggles, shading and borders
//   - document.go: Document and Body, block-level decoding
//   - paragraph.go: Paragraph, ParagraphProperties, numbering references, Hyperlink
//   - run.go: Run, RunProperties, Text, Break, TabChar, NoteReference
//   - table.go: Table, TableRow, TableCell and their properties
//   - drawing.go: inline pictures
//   - sdt.go: checkbox content controls and simple fields
//   - numbering.go, notes.go: the numbering and footnote/endnote parts
//   - merge.go: property inheritance helpers
//
// # Marshaling
//
// Every element marshals with literal "w:" (or "wp:", "a:", "pic:", "w14:")
// prefixed names; the document root declares the namespaces. Unmarshaling
// matches on local names, so documents produced by any writer can be read.
// Children the model doesn't know are kept as RawXMLElement where order
// matters (run content) and skipped elsewhere.
//
// Example of building a document:
//
//	doc := xml.NewDocument()
//	p := xml.NewParagraph(xml.NewTextRun("Hello, world!"))
//	p.Props().Style = &xml.Style{Val: "Heading1"}
//	doc.Body.Elements = append(doc.Body.Elements, p)
package xml
