package xml

import (
	"encoding/xml"
	"strconv"
	"strings"
)

var prefixes = map[string]string{
	NamespaceW:   "w",
	NamespaceR:   "r",
	NamespaceWP:  "wp",
	NamespaceA:   "a",
	NamespacePic: "pic",
	NamespaceW14: "w14",
	NamespaceMC:  "mc",
	NamespaceXML: "xml",
	"http://schemas.openxmlformats.org/officeDocument/2006/math":          "m",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingDrawing": "wp14",
	"http://schemas.microsoft.com/office/drawing/2010/main":               "a14",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingShape":   "wps",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingGroup":   "wpg",
	"http://schemas.microsoft.com/office/word/2012/wordml":                "w15",
	"urn:schemas-microsoft-com:vml":                                       "v",
	"urn:schemas-microsoft-com:office:office":                             "o",
	"urn:schemas-microsoft-com:office:word":                               "w10",
}

// namespaceToPrefix converts a namespace URI to its conventional prefix
func namespaceToPrefix(uri string) string {
	if prefix, ok := prefixes[uri]; ok {
		return prefix
	}
	return uri
}

// prefixed renders a decoded name as "prefix:local".
func prefixed(n xml.Name) string {
	if n.Space == "" || strings.Contains(n.Local, ":") {
		return n.Local
	}
	if n.Space == "xmlns" {
		return "xmlns:" + n.Local
	}
	return namespaceToPrefix(n.Space) + ":" + n.Local
}

func wattr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: "w:" + name}, Value: value}
}

func itoa(v int) string {
	return strconv.Itoa(v)
}

// readRaw consumes the element opened by start and returns it as raw XML.
func readRaw(d *xml.Decoder, start xml.StartElement) (RawXMLElement, error) {
	raw := RawXMLElement{XMLName: start.Name, Attrs: start.Attr}
	var buf strings.Builder
	depth := 1
	for depth > 0 {
		tok, err := d.Token()
		if err != nil {
			return raw, err
		}
		switch tt := tok.(type) {
		case xml.StartElement:
			depth++
			buf.WriteString("<")
			buf.WriteString(prefixed(tt.Name))
			for _, attr := range tt.Attr {
				buf.WriteString(" ")
				buf.WriteString(prefixed(attr.Name))
				buf.WriteString(`="`)
				xml.EscapeText(&buf, []byte(attr.Value))
				buf.WriteString(`"`)
			}
			buf.WriteString(">")
		case xml.EndElement:
			depth--
			if depth > 0 {
				buf.WriteString("</")
				buf.WriteString(prefixed(tt.Name))
				buf.WriteString(">")
			}
		case xml.CharData:
			xml.EscapeText(&buf, tt)
		}
	}
	raw.Content = []byte(buf.String())
	return raw, nil
}

// attrValue returns the value of the first attribute with the given local name.
func attrValue(start xml.StartElement, local string) string {
	for _, a := range start.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
