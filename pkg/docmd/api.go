package docmd

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/docx"
	"github.com/benjaminschreck/go-docmd/pkg/docmd/htmlconv"
	"github.com/benjaminschreck/go-docmd/pkg/docmd/imaging"
	"github.com/benjaminschreck/go-docmd/pkg/docmd/mdwalk"
)

// Converter provides the main API for converting documents.
// Use New() to create a new converter instance. A Converter may be shared
// between goroutines; every conversion builds its own state.
type Converter struct {
	config *Config
	logger *Logger
	md     goldmark.Markdown
	cache  *StylesCache
}

// Option represents a configuration option for the converter.
type Option func(*Converter)

// WithConfig returns an option that sets the converter configuration.
func WithConfig(config *Config) Option {
	return func(c *Converter) {
		c.config = NewConfigWithDefaults(config)
	}
}

// WithLogger returns an option that sets the logger conversions report to.
func WithLogger(logger *Logger) Option {
	return func(c *Converter) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a converter from the global configuration and logger.
func New(opts ...Option) *Converter {
	c := &Converter{
		config: GetGlobalConfig(),
		logger: GetLogger(),
		md:     newMarkdown(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cache = NewStylesCache(CacheConfig{MaxSize: c.config.CacheMaxSize, TTL: c.config.CacheTTL})
	return c
}

// NewWithConfig creates a converter with a custom configuration.
func NewWithConfig(config *Config) *Converter {
	return New(WithConfig(config))
}

// Config returns a copy of the converter's configuration.
func (c *Converter) Config() *Config {
	config := *c.config
	return &config
}

// ClearCache drops all cached style templates.
func (c *Converter) ClearCache() {
	c.cache.Clear()
}

// MarkdownToHTML renders Markdown to the HTML accepted by HTMLToPackage.
func (c *Converter) MarkdownToHTML(md []byte) (string, error) {
	html, err := renderMarkdown(c.md, md)
	if err != nil {
		return "", NewConversionError(DirectionMarkdownToDocx, "", err)
	}
	return html, nil
}

// HTMLToPackage converts an HTML fragment into a new document package.
// Images are looked up in images; data URIs need no source.
func (c *Converter) HTMLToPackage(html string, images imaging.Source) (*docx.Package, error) {
	pkg, err := c.htmlToPackage(html, images)
	if err != nil {
		return nil, NewConversionError(DirectionHTMLToDocx, "", err)
	}
	return pkg, nil
}

func (c *Converter) htmlToPackage(html string, images imaging.Source) (*docx.Package, error) {
	styles, err := c.styles()
	if err != nil {
		return nil, err
	}
	log := c.logger.Zap()
	pkg := docx.New(docx.WithLogger(log), docx.WithStyles(styles))
	opts := htmlconv.Options{
		AcronymPosition:      c.config.AcronymPosition,
		ExcludeLinkAnchor:    c.config.ExcludeLinkAnchor,
		TableCaptionPosition: c.config.TableCaptionPosition,
		Images:               images,
		Logger:               log,
	}
	if err := htmlconv.Convert(pkg, html, opts); err != nil {
		return nil, err
	}
	c.logger.Debug("converted HTML to %d body elements", len(pkg.Document.Body.Elements))
	return pkg, nil
}

// styles returns the styles part for a new document: the configured
// template topped up with the built-in styles, or the built-ins alone.
func (c *Converter) styles() (*docx.Styles, error) {
	if c.config.StylesTemplate == "" {
		return docx.DefaultStyles(), nil
	}
	data, err := c.cache.Load(c.config.StylesTemplate)
	if err != nil {
		return nil, err
	}
	styles, err := docx.ParseStyles(data)
	if err != nil {
		return nil, NewDocumentError("parse styles template", c.config.StylesTemplate, err)
	}
	added := styles.Merge(docx.DefaultStyles())
	c.logger.WithField("template", c.config.StylesTemplate).Debug("added %d built-in styles to template", added)
	return styles, nil
}

// MarkdownToDocx converts Markdown and writes the resulting .docx to w.
func (c *Converter) MarkdownToDocx(md []byte, images imaging.Source, w io.Writer) error {
	html, err := renderMarkdown(c.md, md)
	if err != nil {
		return NewConversionError(DirectionMarkdownToDocx, "", err)
	}
	pkg, err := c.htmlToPackage(html, images)
	if err != nil {
		return NewConversionError(DirectionMarkdownToDocx, "", err)
	}
	if err := pkg.Save(w); err != nil {
		return NewConversionError(DirectionMarkdownToDocx, "", fmt.Errorf("failed to write docx: %w", err))
	}
	return nil
}

// HTMLToDocx converts an HTML fragment and writes the resulting .docx to w.
func (c *Converter) HTMLToDocx(html string, images imaging.Source, w io.Writer) error {
	pkg, err := c.htmlToPackage(html, images)
	if err != nil {
		return NewConversionError(DirectionHTMLToDocx, "", err)
	}
	if err := pkg.Save(w); err != nil {
		return NewConversionError(DirectionHTMLToDocx, "", fmt.Errorf("failed to write docx: %w", err))
	}
	return nil
}

// MarkdownResult is the Markdown text of a document and the images it
// links to, keyed by file name.
type MarkdownResult struct {
	Markdown string
	Images   map[string][]byte
}

// ImageNames returns the image file names in sorted order.
func (r *MarkdownResult) ImageNames() []string {
	names := make([]string, 0, len(r.Images))
	for name := range r.Images {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteImages writes every image into dir, creating it when needed.
func (r *MarkdownResult) WriteImages(dir string) error {
	if len(r.Images) == 0 {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return NewDocumentError("create image directory", dir, err)
	}
	for _, name := range r.ImageNames() {
		path := filepath.Join(dir, filepath.Base(name))
		if err := os.WriteFile(path, r.Images[name], 0o644); err != nil {
			return NewDocumentError("write image", path, err)
		}
	}
	return nil
}

// DocxToMarkdown reads a .docx package and renders its body as Markdown.
func (c *Converter) DocxToMarkdown(r io.ReaderAt, size int64) (*MarkdownResult, error) {
	pkg, err := docx.Open(r, size, docx.WithLogger(c.logger.Zap()))
	if err != nil {
		return nil, NewConversionError(DirectionDocxToMarkdown, "", err)
	}
	return c.walk(pkg, "")
}

// DocxFileToMarkdown converts the .docx file at path.
func (c *Converter) DocxFileToMarkdown(path string) (*MarkdownResult, error) {
	pkg, err := docx.OpenFile(path, docx.WithLogger(c.logger.Zap()))
	if err != nil {
		return nil, NewConversionError(DirectionDocxToMarkdown, path, err)
	}
	return c.walk(pkg, path)
}

func (c *Converter) walk(pkg *docx.Package, source string) (*MarkdownResult, error) {
	log := c.logger.Zap()
	if source != "" {
		log = log.With(zap.String("source", source))
	}
	res, err := mdwalk.Walk(pkg, mdwalk.Options{ImageLinkPrefix: c.config.ImageLinkPrefix, Logger: log})
	if err != nil {
		return nil, NewConversionError(DirectionDocxToMarkdown, source, err)
	}
	return &MarkdownResult{Markdown: res.Markdown, Images: res.Images}, nil
}

// DefaultConverter is the global default converter instance.
// It uses the global configuration and logger.
var DefaultConverter = New()

// Module-level convenience functions that use the default converter.

// MarkdownToHTML renders Markdown using the default converter.
func MarkdownToHTML(md []byte) (string, error) {
	return DefaultConverter.MarkdownToHTML(md)
}

// MarkdownToDocx converts Markdown to a .docx using the default converter.
func MarkdownToDocx(md []byte, images imaging.Source, w io.Writer) error {
	return DefaultConverter.MarkdownToDocx(md, images, w)
}

// HTMLToDocx converts HTML to a .docx using the default converter.
func HTMLToDocx(html string, images imaging.Source, w io.Writer) error {
	return DefaultConverter.HTMLToDocx(html, images, w)
}

// DocxToMarkdown converts a .docx to Markdown using the default converter.
func DocxToMarkdown(r io.ReaderAt, size int64) (*MarkdownResult, error) {
	return DefaultConverter.DocxToMarkdown(r, size)
}

// DocxBytesToMarkdown converts an in-memory .docx.
func DocxBytesToMarkdown(data []byte) (*MarkdownResult, error) {
	return DefaultConverter.DocxToMarkdown(bytes.NewReader(data), int64(len(data)))
}

// DocxFileToMarkdown converts a .docx file using the default converter.
func DocxFileToMarkdown(path string) (*MarkdownResult, error) {
	return DefaultConverter.DocxFileToMarkdown(path)
}
