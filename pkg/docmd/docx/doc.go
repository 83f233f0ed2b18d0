// Package docx reads and writes DOCX containers.
//
// A Package holds the modelled parts of a document (main document, styles,
// numbering, footnotes and endnotes), its media and its relationships. Parts
// it does not model are carried through unchanged, so a package can be
// opened, inspected and saved again without losing content.
//
// The styles part is kept as an element tree (github.com/beevik/etree)
// rather than a typed model: styles from templates are copied verbatim and
// only looked up by id, name, kind and table borders.
package docx
