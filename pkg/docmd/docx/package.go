package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/imaging"
	"github.com/benjaminschreck/go-docmd/pkg/docmd/xml"
)

// Package is an in-memory WordprocessingML package. The main document,
// styles, numbering and notes parts are modelled; every other part is kept
// as raw bytes and written back unchanged.
type Package struct {
	Document      *xml.Document
	Styles        *Styles
	Numbering     *xml.Numbering
	Footnotes     *xml.Notes
	Endnotes      *xml.Notes
	Relationships *Relationships

	contentTypes *ContentTypes
	media        map[string][]byte
	extra        map[string][]byte
	log          *zap.Logger
}

// Option configures a Package.
type Option func(*Package)

// WithLogger sets the logger used for recovered problems. nil disables logging.
func WithLogger(log *zap.Logger) Option {
	return func(p *Package) {
		if log != nil {
			p.log = log
		}
	}
}

// WithStyles replaces the default styles part.
func WithStyles(styles *Styles) Option {
	return func(p *Package) {
		if styles != nil {
			p.Styles = styles
		}
	}
}

func newPackage(opts []Option) *Package {
	p := &Package{
		Relationships: NewRelationships(),
		contentTypes:  newContentTypes(),
		media:         make(map[string][]byte),
		extra:         make(map[string][]byte),
		log:           zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// New returns an empty document with the default styles.
func New(opts ...Option) *Package {
	p := newPackage(opts)
	p.Document = xml.NewDocument()
	if p.Styles == nil {
		p.Styles = DefaultStyles()
	}
	p.Relationships.Add(RelTypeStyles, "styles.xml", false)
	return p
}

// Open reads a DOCX package.
func Open(r io.ReaderAt, size int64, opts ...Option) (*Package, error) {
	reader, err := NewReader(r, size)
	if err != nil {
		return nil, err
	}
	p := newPackage(opts)

	if data, err := reader.Part(ContentTypesPart); err == nil {
		if ct, err := parseContentTypes(data); err == nil {
			p.contentTypes = ct
		} else {
			p.log.Warn("ignoring unreadable content types", zap.Error(err))
		}
	}

	data, err := reader.Part(MainDocumentPart)
	if err != nil {
		return nil, err
	}
	p.Document, err = xml.ParseDocument(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if p.Document.Body == nil {
		p.Document.Body = &xml.Body{}
	}

	p.Relationships, err = reader.Relationships(MainDocumentPart)
	if err != nil {
		return nil, err
	}

	handled := map[string]bool{
		MainDocumentPart: true,
		DocumentRelsPart: true,
		ContentTypesPart: true,
	}
	for _, rel := range p.Relationships.Relationship {
		if rel.IsExternal() {
			continue
		}
		name := ResolveTarget(MainDocumentPart, rel.Target)
		switch rel.Type {
		case RelTypeStyles:
			if p.loadStyles(reader, name) {
				handled[name] = true
			}
		case RelTypeNumbering:
			if p.loadNumbering(reader, name) {
				handled[name] = true
			}
		case RelTypeFootnotes, RelTypeEndnotes:
			if p.loadNotes(reader, name, rel.Type == RelTypeEndnotes) {
				handled[name] = true
			}
		case RelTypeImage:
			if data, err := reader.Part(name); err == nil {
				p.media[name] = data
				handled[name] = true
			} else {
				p.log.Debug("image part missing", zap.String("part", name))
			}
		}
	}
	if p.Styles == nil {
		p.Styles = DefaultStyles()
		if _, ok := p.Relationships.ByType(RelTypeStyles); !ok {
			p.Relationships.Add(RelTypeStyles, "styles.xml", false)
		}
	}

	for _, name := range reader.ListParts() {
		if handled[name] {
			continue
		}
		data, err := reader.Part(name)
		if err != nil {
			return nil, err
		}
		p.extra[name] = data
	}
	return p, nil
}

// OpenFile reads a DOCX package from disk.
func OpenFile(filename string, opts ...Option) (*Package, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return Open(bytes.NewReader(content), int64(len(content)), opts...)
}

func (p *Package) loadStyles(reader *Reader, name string) bool {
	data, err := reader.Part(name)
	if err != nil {
		return false
	}
	styles, err := ParseStyles(data)
	if err != nil {
		p.log.Warn("ignoring unreadable styles part", zap.String("part", name), zap.Error(err))
		return false
	}
	p.Styles = styles
	return true
}

func (p *Package) loadNumbering(reader *Reader, name string) bool {
	data, err := reader.Part(name)
	if err != nil {
		return false
	}
	numbering, err := xml.ParseNumbering(bytes.NewReader(data))
	if err != nil {
		p.log.Warn("ignoring unreadable numbering part", zap.String("part", name), zap.Error(err))
		return false
	}
	p.Numbering = numbering
	return true
}

func (p *Package) loadNotes(reader *Reader, name string, endnotes bool) bool {
	data, err := reader.Part(name)
	if err != nil {
		return false
	}
	notes, err := xml.ParseNotes(bytes.NewReader(data))
	if err != nil {
		p.log.Warn("ignoring unreadable notes part", zap.String("part", name), zap.Error(err))
		return false
	}
	notes.Endnotes = endnotes
	if endnotes {
		p.Endnotes = notes
	} else {
		p.Footnotes = notes
	}
	return true
}

// AddImagePart stores an image as word/media/imageN.ext and relates it to
// the main document.
func (p *Package) AddImagePart(ext string, data []byte) (relID, partName string) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	n := len(p.media) + 1
	for {
		partName = fmt.Sprintf("%simage%d.%s", mediaDirectory, n, ext)
		if _, taken := p.media[partName]; !taken {
			break
		}
		n++
	}
	p.media[partName] = data
	if ct := imaging.ContentType(ext); ct != "" {
		p.contentTypes.AddDefault(ext, ct)
	}
	relID = p.Relationships.Add(RelTypeImage, strings.TrimPrefix(partName, "word/"), false)
	return relID, partName
}

// AddHyperlink relates an external target to the main document. A target
// that is already related reuses its relationship.
func (p *Package) AddHyperlink(target string) string {
	for _, rel := range p.Relationships.Relationship {
		if rel.Type == RelTypeHyperlink && rel.Target == target && rel.IsExternal() {
			return rel.ID
		}
	}
	return p.Relationships.Add(RelTypeHyperlink, target, true)
}

// HyperlinkTarget returns the target of a hyperlink relationship.
func (p *Package) HyperlinkTarget(relID string) (string, bool) {
	rel, ok := p.Relationships.Get(relID)
	if !ok || rel.Type != RelTypeHyperlink {
		return "", false
	}
	return rel.Target, true
}

// ImagePart returns the part name and bytes of an image relationship.
func (p *Package) ImagePart(relID string) (string, []byte, bool) {
	rel, ok := p.Relationships.Get(relID)
	if !ok || rel.Type != RelTypeImage || rel.IsExternal() {
		return "", nil, false
	}
	name := ResolveTarget(MainDocumentPart, rel.Target)
	data, ok := p.media[name]
	return name, data, ok
}

// MediaParts returns the names of all image parts in sorted order.
func (p *Package) MediaParts() []string {
	names := make([]string, 0, len(p.media))
	for name := range p.media {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EnsureNumbering returns the numbering part, creating it on first use.
func (p *Package) EnsureNumbering() *xml.Numbering {
	if p.Numbering == nil {
		p.Numbering = &xml.Numbering{}
	}
	if _, ok := p.Relationships.ByType(RelTypeNumbering); !ok {
		p.Relationships.Add(RelTypeNumbering, "numbering.xml", false)
	}
	return p.Numbering
}

// EnsureFootnotes returns the footnotes part, creating it on first use.
func (p *Package) EnsureFootnotes() *xml.Notes {
	if p.Footnotes == nil {
		p.Footnotes = xml.NewNotes(false)
	}
	if _, ok := p.Relationships.ByType(RelTypeFootnotes); !ok {
		p.Relationships.Add(RelTypeFootnotes, "footnotes.xml", false)
	}
	return p.Footnotes
}

// EnsureEndnotes returns the endnotes part, creating it on first use.
func (p *Package) EnsureEndnotes() *xml.Notes {
	if p.Endnotes == nil {
		p.Endnotes = xml.NewNotes(true)
	}
	if _, ok := p.Relationships.ByType(RelTypeEndnotes); !ok {
		p.Relationships.Add(RelTypeEndnotes, "endnotes.xml", false)
	}
	return p.Endnotes
}

// partTarget returns the part name a relationship of relType points at, or
// fallback when there is none.
func (p *Package) partTarget(relType, fallback string) string {
	if rel, ok := p.Relationships.ByType(relType); ok && !rel.IsExternal() {
		return ResolveTarget(MainDocumentPart, rel.Target)
	}
	return fallback
}

type part struct {
	name        string
	contentType string
	data        []byte
}

func (p *Package) modelledParts() ([]part, error) {
	var parts []part
	add := func(name, contentType string, v interface{}) error {
		data, err := marshalPart(v)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", name, err)
		}
		parts = append(parts, part{name: name, contentType: contentType, data: data})
		return nil
	}

	if err := add(MainDocumentPart, ContentTypeDocument, p.Document); err != nil {
		return nil, err
	}
	if p.Styles != nil {
		data, err := p.Styles.Bytes()
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s: %w", StylesPart, err)
		}
		parts = append(parts, part{name: p.partTarget(RelTypeStyles, StylesPart), contentType: ContentTypeStyles, data: data})
	}
	if p.Numbering != nil {
		if err := add(p.partTarget(RelTypeNumbering, NumberingPart), ContentTypeNumbering, p.Numbering); err != nil {
			return nil, err
		}
	}
	if p.Footnotes != nil {
		if err := add(p.partTarget(RelTypeFootnotes, FootnotesPart), ContentTypeFootnotes, p.Footnotes); err != nil {
			return nil, err
		}
	}
	if p.Endnotes != nil {
		if err := add(p.partTarget(RelTypeEndnotes, EndnotesPart), ContentTypeEndnotes, p.Endnotes); err != nil {
			return nil, err
		}
	}
	if err := add(DocumentRelsPart, "", p.Relationships); err != nil {
		return nil, err
	}
	return parts, nil
}

// Save writes the package as a DOCX zip.
func (p *Package) Save(w io.Writer) error {
	parts, err := p.modelledParts()
	if err != nil {
		return err
	}
	for _, pt := range parts {
		if pt.contentType != "" {
			p.contentTypes.AddOverride(pt.name, pt.contentType)
		}
	}
	for _, name := range p.MediaParts() {
		ext := strings.TrimPrefix(path.Ext(name), ".")
		if ct := imaging.ContentType(ext); ct != "" {
			p.contentTypes.AddDefault(ext, ct)
		}
	}

	if _, ok := p.extra[PackageRelsPart]; !ok {
		rels := NewRelationships()
		rels.Add(RelTypeOfficeDocument, MainDocumentPart, false)
		data, err := marshalPart(rels)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", PackageRelsPart, err)
		}
		parts = append([]part{{name: PackageRelsPart, data: data}}, parts...)
	}
	ct, err := marshalPart(p.contentTypes)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", ContentTypesPart, err)
	}
	parts = append([]part{{name: ContentTypesPart, data: ct}}, parts...)

	written := make(map[string]bool)
	for _, pt := range parts {
		written[pt.name] = true
	}
	for _, name := range p.MediaParts() {
		parts = append(parts, part{name: name, data: p.media[name]})
		written[name] = true
	}
	extras := make([]string, 0, len(p.extra))
	for name := range p.extra {
		if !written[name] {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	for _, name := range extras {
		parts = append(parts, part{name: name, data: p.extra[name]})
	}

	zw := zip.NewWriter(w)
	for _, pt := range parts {
		fw, err := zw.Create(pt.name)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", pt.name, err)
		}
		if _, err := fw.Write(pt.data); err != nil {
			return fmt.Errorf("failed to write %s: %w", pt.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize package: %w", err)
	}
	p.log.Debug("package written",
		zap.Int("parts", len(parts)),
		zap.Int("media", len(p.media)),
		zap.Int("relationships", len(p.Relationships.Relationship)))
	return nil
}

// Bytes returns the package as a DOCX zip.
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
