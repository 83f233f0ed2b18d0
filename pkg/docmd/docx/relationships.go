package docx

import (
	"encoding/xml"
	"fmt"
	"path"
	"strconv"
	"strings"
)

// Relationship types used by the parts we write.
const (
	RelTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelTypeStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	RelTypeNumbering      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	RelTypeFootnotes      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footnotes"
	RelTypeEndnotes       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/endnotes"
	RelTypeImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	RelTypeHyperlink      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"

	relationshipsNamespace = "http://schemas.openxmlformats.org/package/2006/relationships"
)

// Relationship represents a relationship in the DOCX package
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// IsExternal reports whether the target lives outside the package.
func (r Relationship) IsExternal() bool {
	return strings.EqualFold(r.TargetMode, "External")
}

// Relationships represents the collection of relationships
type Relationships struct {
	XMLName      xml.Name       `xml:"Relationships"`
	Namespace    string         `xml:"xmlns,attr"`
	Relationship []Relationship `xml:"Relationship"`
}

// NewRelationships returns an empty relationships part.
func NewRelationships() *Relationships {
	return &Relationships{Namespace: relationshipsNamespace}
}

func parseRelationships(data []byte) (*Relationships, error) {
	var rels Relationships
	if err := xml.Unmarshal(data, &rels); err != nil {
		return nil, fmt.Errorf("failed to parse relationships: %w", err)
	}
	if rels.Namespace == "" {
		rels.Namespace = relationshipsNamespace
	}
	return &rels, nil
}

// NextID generates the next available relationship ID
func (rels *Relationships) NextID() string {
	maxID := 0
	for _, rel := range rels.Relationship {
		if strings.HasPrefix(rel.ID, "rId") {
			if id, err := strconv.Atoi(rel.ID[3:]); err == nil && id > maxID {
				maxID = id
			}
		}
	}
	return fmt.Sprintf("rId%d", maxID+1)
}

// Add appends a relationship and returns its new ID.
func (rels *Relationships) Add(relType, target string, external bool) string {
	rel := Relationship{ID: rels.NextID(), Type: relType, Target: target}
	if external {
		rel.TargetMode = "External"
	}
	rels.Relationship = append(rels.Relationship, rel)
	return rel.ID
}

// Get returns the relationship with the given ID.
func (rels *Relationships) Get(id string) (Relationship, bool) {
	for _, rel := range rels.Relationship {
		if rel.ID == id {
			return rel, true
		}
	}
	return Relationship{}, false
}

// ByType returns the first relationship of a type.
func (rels *Relationships) ByType(relType string) (Relationship, bool) {
	for _, rel := range rels.Relationship {
		if rel.Type == relType {
			return rel, true
		}
	}
	return Relationship{}, false
}

// ResolveTarget converts a relationship target to a part name relative to
// the package root. source is the part owning the relationship.
func ResolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(path.Dir(source), target))
}

// relsPartName returns the relationships part of a part,
// e.g. "word/document.xml" -> "word/_rels/document.xml.rels".
func relsPartName(partName string) string {
	dir, base := path.Split(partName)
	return dir + "_rels/" + base + ".rels"
}

// xmlDeclaration carries standalone="yes", which Word requires.
const xmlDeclaration = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

func marshalPart(v interface{}) ([]byte, error) {
	out, err := xml.Marshal(v)
	if err != nil {
		return nil, err
	}
	return append([]byte(xmlDeclaration), out...), nil
}
