package htmlconv

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/docx"
)

// Style ids the converter writes.
const (
	StyleListParagraph     = "ListParagraph"
	StyleQuote             = "Quote"
	StyleQuoteChar         = "QuoteChar"
	StyleIntenseQuote      = "IntenseQuote"
	StyleCaption           = "Caption"
	StyleHyperlink         = "Hyperlink"
	StyleFootnoteText      = "FootnoteText"
	StyleFootnoteReference = "FootnoteReference"
	StyleEndnoteText       = "EndnoteText"
	StyleEndnoteReference  = "EndnoteReference"
	StyleTableGrid         = "TableGrid"
	StyleSourceCode        = "SourceCode"
)

// HeadingStyle returns the style id of a heading level.
func HeadingStyle(level int) string {
	return "Heading" + string(rune('0'+level))
}

// Registry resolves CSS class names and semantic roles to style ids of the
// package's styles part.
type Registry struct {
	styles *docx.Styles
	title  cases.Caser
}

// NewRegistry returns a registry over a styles part.
func NewRegistry(styles *docx.Styles) *Registry {
	return &Registry{styles: styles, title: cases.Title(language.Und)}
}

// GetStyle finds a style by id or display name, then by its normalized
// class form ("intense-quote" finds "IntenseQuote").
func (r *Registry) GetStyle(name, kind string, ignoreCase bool) (string, bool) {
	if r.styles == nil || name == "" {
		return "", false
	}
	if info, ok := r.styles.Find(name, kind, ignoreCase); ok {
		return info.ID, true
	}
	if norm := r.NormalizeClass(name); norm != name {
		if info, ok := r.styles.Find(norm, kind, ignoreCase); ok {
			return info.ID, true
		}
	}
	return "", false
}

// ClassStyle returns the first class that names a style of kind.
func (r *Registry) ClassStyle(classes []string, kind string) (string, bool) {
	for _, class := range classes {
		if id, ok := r.GetStyle(class, kind, true); ok {
			return id, true
		}
	}
	return "", false
}

// Exists reports whether a style id is defined.
func (r *Registry) Exists(id string) bool {
	if r.styles == nil {
		return false
	}
	_, ok := r.styles.Get(id)
	return ok
}

// TableHasBorders reports whether a table style draws borders.
func (r *Registry) TableHasBorders(id string) bool {
	return r.styles != nil && r.styles.TableHasBorders(id)
}

// NormalizeClass turns a CSS class into a style id: separators are dropped
// and every word is title-cased.
func (r *Registry) NormalizeClass(class string) string {
	words := strings.FieldsFunc(class, func(c rune) bool {
		return c == '-' || c == '_' || c == ' ' || c == '.'
	})
	for i, w := range words {
		words[i] = r.title.String(w)
	}
	return strings.Join(words, "")
}
