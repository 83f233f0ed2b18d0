package xml

import (
	"encoding/xml"
	"strconv"
)

// EMUsPerPixel converts 96 dpi pixels to English Metric Units.
const EMUsPerPixel = 9525

const pictureURI = "http://schemas.openxmlformats.org/drawingml/2006/picture"

// Drawing is a w:drawing holding a picture. Only inline pictures are
// written; anchored ones are read with the same shape.
type Drawing struct {
	Inline *Inline `xml:"inline"`
	Anchor *Inline `xml:"anchor"`
}

func (d Drawing) isRunContent() {}

// Inline carries the picture frame of a drawing.
type Inline struct {
	Extent  Extent  `xml:"extent"`
	DocPr   DocPr   `xml:"docPr"`
	Graphic Graphic `xml:"graphic"`
}

// Extent is the rendered size in EMUs.
type Extent struct {
	CX int64 `xml:"cx,attr"`
	CY int64 `xml:"cy,attr"`
}

// DocPr holds the drawing's non-visual properties (id, name, alt text).
type DocPr struct {
	ID         int         `xml:"id,attr"`
	Name       string      `xml:"name,attr"`
	Descr      string      `xml:"descr,attr"`
	HlinkClick *HlinkClick `xml:"hlinkClick"`
}

// HlinkClick makes a picture clickable.
type HlinkClick struct {
	ID      string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	Tooltip string `xml:"tooltip,attr"`
}

// Graphic wraps the picture payload.
type Graphic struct {
	Data GraphicData `xml:"graphicData"`
}

// GraphicData names the payload type and holds the picture.
type GraphicData struct {
	URI string   `xml:"uri,attr"`
	Pic *Picture `xml:"pic"`
}

// Picture is pic:pic.
type Picture struct {
	BlipFill BlipFill `xml:"blipFill"`
}

// BlipFill points at the image part.
type BlipFill struct {
	Blip Blip `xml:"blip"`
}

// Blip references the image relationship.
type Blip struct {
	Embed string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships embed,attr"`
	Link  string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships link,attr"`
}

// NewInlinePicture builds a drawing for an embedded image.
func NewInlinePicture(id int, relID, name, descr string, cx, cy int64) *Drawing {
	return &Drawing{Inline: &Inline{
		Extent: Extent{CX: cx, CY: cy},
		DocPr:  DocPr{ID: id, Name: name, Descr: descr},
		Graphic: Graphic{Data: GraphicData{
			URI: pictureURI,
			Pic: &Picture{BlipFill: BlipFill{Blip: Blip{Embed: relID}}},
		}},
	}}
}

// Frame returns the inline or anchored frame.
func (d *Drawing) Frame() *Inline {
	if d.Inline != nil {
		return d.Inline
	}
	return d.Anchor
}

// EmbedID returns the relationship id of the embedded image.
func (d *Drawing) EmbedID() string {
	f := d.Frame()
	if f == nil || f.Graphic.Data.Pic == nil {
		return ""
	}
	blip := f.Graphic.Data.Pic.BlipFill.Blip
	if blip.Embed != "" {
		return blip.Embed
	}
	return blip.Link
}

type tokenWriter struct {
	e   *xml.Encoder
	err error
}

func (w *tokenWriter) open(name string, attrs ...string) {
	if w.err != nil {
		return
	}
	start := xml.StartElement{Name: xml.Name{Local: name}}
	for i := 0; i+1 < len(attrs); i += 2 {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: attrs[i]}, Value: attrs[i+1]})
	}
	w.err = w.e.EncodeToken(start)
}

func (w *tokenWriter) close(name string) {
	if w.err != nil {
		return
	}
	w.err = w.e.EncodeToken(xml.EndElement{Name: xml.Name{Local: name}})
}

func (w *tokenWriter) empty(name string, attrs ...string) {
	w.open(name, attrs...)
	w.close(name)
}

// MarshalXML writes an inline picture.
func (d Drawing) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	f := d.Frame()
	if f == nil {
		return nil
	}
	cx := strconv.FormatInt(f.Extent.CX, 10)
	cy := strconv.FormatInt(f.Extent.CY, 10)
	embed := d.EmbedID()

	w := &tokenWriter{e: e}
	w.open("w:drawing")
	w.open("wp:inline", "distT", "0", "distB", "0", "distL", "0", "distR", "0")
	w.empty("wp:extent", "cx", cx, "cy", cy)
	w.empty("wp:effectExtent", "l", "0", "t", "0", "r", "0", "b", "0")
	w.open("wp:docPr", "id", strconv.Itoa(f.DocPr.ID), "name", f.DocPr.Name, "descr", f.DocPr.Descr)
	if h := f.DocPr.HlinkClick; h != nil {
		attrs := []string{"xmlns:a", NamespaceA, "r:id", h.ID}
		if h.Tooltip != "" {
			attrs = append(attrs, "tooltip", h.Tooltip)
		}
		w.empty("a:hlinkClick", attrs...)
	}
	w.close("wp:docPr")
	w.open("wp:cNvGraphicFramePr")
	w.empty("a:graphicFrameLocks", "xmlns:a", NamespaceA, "noChangeAspect", "1")
	w.close("wp:cNvGraphicFramePr")
	w.open("a:graphic", "xmlns:a", NamespaceA)
	w.open("a:graphicData", "uri", pictureURI)
	w.open("pic:pic", "xmlns:pic", NamespacePic)
	w.open("pic:nvPicPr")
	w.empty("pic:cNvPr", "id", "0", "name", f.DocPr.Name, "descr", f.DocPr.Descr)
	w.empty("pic:cNvPicPr")
	w.close("pic:nvPicPr")
	w.open("pic:blipFill")
	w.empty("a:blip", "r:embed", embed)
	w.open("a:stretch")
	w.empty("a:fillRect")
	w.close("a:stretch")
	w.close("pic:blipFill")
	w.open("pic:spPr")
	w.open("a:xfrm")
	w.empty("a:off", "x", "0", "y", "0")
	w.empty("a:ext", "cx", cx, "cy", cy)
	w.close("a:xfrm")
	w.open("a:prstGeom", "prst", "rect")
	w.empty("a:avLst")
	w.close("a:prstGeom")
	w.close("pic:spPr")
	w.close("pic:pic")
	w.close("a:graphicData")
	w.close("a:graphic")
	w.close("wp:inline")
	w.close("w:drawing")
	return w.err
}
