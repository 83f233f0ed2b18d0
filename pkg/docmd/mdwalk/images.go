package mdwalk

import (
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/xml"
)

// image writes ![alt](prefix+name) for a drawing and copies the picture to
// the result. Parts stored as .bin take their name from the drawing. The
// first picture stored under a name is kept.
func (w *walker) image(d *xml.Drawing) (string, bool) {
	frame := d.Frame()
	if frame == nil {
		return "", false
	}
	relID := d.EmbedID()
	partName, data, ok := w.pkg.ImagePart(relID)
	if !ok {
		w.log.Warn("image part not found", zap.String("rel", relID), zap.String("name", frame.DocPr.Name))
		return "", false
	}

	name := path.Base(partName)
	if strings.EqualFold(path.Ext(name), ".bin") && frame.DocPr.Name != "" {
		name = path.Base(frame.DocPr.Name)
	}
	if _, seen := w.images[name]; !seen {
		w.images[name] = data
	}

	alt := frame.DocPr.Descr
	if i := strings.IndexByte(alt, '\n'); i >= 0 {
		alt = alt[:i]
	}
	dest := w.opts.ImageLinkPrefix + name
	if strings.ContainsAny(dest, " ()") {
		dest = "<" + dest + ">"
	}
	md := "![" + altEscaper.Replace(strings.TrimSpace(alt)) + "](" + dest + ")"

	if hl := frame.DocPr.HlinkClick; hl != nil && hl.ID != "" {
		if target, ok := w.pkg.HyperlinkTarget(hl.ID); ok {
			md = "[" + md + "](" + target + ")"
		}
	}
	return md, true
}
