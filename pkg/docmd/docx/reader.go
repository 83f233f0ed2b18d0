package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
)

// Part names of a WordprocessingML package.
const (
	MainDocumentPart = "word/document.xml"
	StylesPart       = "word/styles.xml"
	NumberingPart    = "word/numbering.xml"
	FootnotesPart    = "word/footnotes.xml"
	EndnotesPart     = "word/endnotes.xml"
	ContentTypesPart = "[Content_Types].xml"
	PackageRelsPart  = "_rels/.rels"
	DocumentRelsPart = "word/_rels/document.xml.rels"
	mediaDirectory   = "word/media/"
)

// Reader gives access to the parts of a DOCX zip.
type Reader struct {
	reader *zip.Reader
	Parts  map[string]*zip.File
}

// NewReader indexes the parts of a DOCX and checks that it has a main
// document part.
func NewReader(r io.ReaderAt, size int64) (*Reader, error) {
	zipReader, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read zip file: %w", err)
	}

	dr := &Reader{
		reader: zipReader,
		Parts:  make(map[string]*zip.File),
	}
	for _, file := range zipReader.File {
		dr.Parts[file.Name] = file
	}

	if _, ok := dr.Parts[MainDocumentPart]; !ok {
		return nil, fmt.Errorf("not a valid DOCX file: missing %s", MainDocumentPart)
	}
	return dr, nil
}

// ReaderFromFile creates a Reader from a file path.
func ReaderFromFile(path string) (*Reader, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return NewReader(bytes.NewReader(content), int64(len(content)))
}

// HasPart reports whether the package contains a part.
func (dr *Reader) HasPart(partName string) bool {
	_, ok := dr.Parts[partName]
	return ok
}

// Part retrieves the content of a specific part
func (dr *Reader) Part(partName string) ([]byte, error) {
	file, ok := dr.Parts[partName]
	if !ok {
		return nil, fmt.Errorf("part %s not found", partName)
	}

	rc, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open part %s: %w", partName, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to read part %s: %w", partName, err)
	}
	return content, nil
}

// Relationships retrieves the relationships of a part. A part without a
// relationships file has none.
func (dr *Reader) Relationships(partName string) (*Relationships, error) {
	relPath := relsPartName(partName)
	if !dr.HasPart(relPath) {
		return NewRelationships(), nil
	}
	content, err := dr.Part(relPath)
	if err != nil {
		return nil, err
	}
	return parseRelationships(content)
}

// ListParts returns the part names in sorted order.
func (dr *Reader) ListParts() []string {
	parts := make([]string, 0, len(dr.Parts))
	for name := range dr.Parts {
		parts = append(parts, name)
	}
	sort.Strings(parts)
	return parts
}
