package docx

import (
	"encoding/xml"
	"fmt"
	"strings"
)

// Content types of the parts we write.
const (
	ContentTypeDocument      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ContentTypeStyles        = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ContentTypeNumbering     = "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"
	ContentTypeFootnotes     = "application/vnd.openxmlformats-officedocument.wordprocessingml.footnotes+xml"
	ContentTypeEndnotes      = "application/vnd.openxmlformats-officedocument.wordprocessingml.endnotes+xml"
	ContentTypeRelationships = "application/vnd.openxmlformats-package.relationships+xml"

	contentTypesNamespace = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// ContentTypes is the [Content_Types].xml part.
type ContentTypes struct {
	XMLName   xml.Name              `xml:"Types"`
	Namespace string                `xml:"xmlns,attr"`
	Defaults  []ContentTypeDefault  `xml:"Default"`
	Overrides []ContentTypeOverride `xml:"Override"`
}

// ContentTypeDefault maps an extension to a content type.
type ContentTypeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// ContentTypeOverride sets the content type of a single part.
type ContentTypeOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

func newContentTypes() *ContentTypes {
	ct := &ContentTypes{Namespace: contentTypesNamespace}
	ct.AddDefault("rels", ContentTypeRelationships)
	ct.AddDefault("xml", "application/xml")
	return ct
}

func parseContentTypes(data []byte) (*ContentTypes, error) {
	var ct ContentTypes
	if err := xml.Unmarshal(data, &ct); err != nil {
		return nil, fmt.Errorf("failed to parse content types: %w", err)
	}
	return &ct, nil
}

// AddDefault registers an extension unless it is already known.
func (ct *ContentTypes) AddDefault(ext, contentType string) {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, d := range ct.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return
		}
	}
	ct.Defaults = append(ct.Defaults, ContentTypeDefault{Extension: ext, ContentType: contentType})
}

// AddOverride sets the content type of a part, replacing any earlier override.
func (ct *ContentTypes) AddOverride(partName, contentType string) {
	partName = "/" + strings.TrimPrefix(partName, "/")
	for i, o := range ct.Overrides {
		if o.PartName == partName {
			ct.Overrides[i].ContentType = contentType
			return
		}
	}
	ct.Overrides = append(ct.Overrides, ContentTypeOverride{PartName: partName, ContentType: contentType})
}

// Override returns the override content type of a part or "".
func (ct *ContentTypes) Override(partName string) string {
	partName = "/" + strings.TrimPrefix(partName, "/")
	for _, o := range ct.Overrides {
		if o.PartName == partName {
			return o.ContentType
		}
	}
	return ""
}
