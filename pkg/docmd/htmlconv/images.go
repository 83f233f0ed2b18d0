package htmlconv

import (
	"errors"
	"fmt"
	"math"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/css"
	"github.com/benjaminschreck/go-docmd/pkg/docmd/imaging"
	"github.com/benjaminschreck/go-docmd/pkg/docmd/xml"
)

// openImage embeds an image as an inline picture. Images that cannot be
// found or read are replaced by a placeholder; an unsupported extension
// fails the conversion.
func openImage(c *converter, i int) (int, error) {
	ev := &c.events[i]
	src := strings.TrimSpace(ev.Attrs.Get("src"))
	alt := ev.Attrs.Get("title")
	if alt == "" {
		alt = ev.Attrs.Get("alt")
	}

	ext, data, err := c.loadImage(src)
	if err != nil {
		return 0, err
	}
	natural, err := imaging.Dimensions(ext, data)
	if err != nil {
		c.log.Warn("unreadable image, using placeholder", zap.String("src", shortSource(src)), zap.Error(err))
		ext, data = "png", imaging.Placeholder()
		natural = imaging.Size{Width: imaging.PlaceholderSize, Height: imaging.PlaceholderSize}
	}
	size := imaging.Fit(natural, pixels(lengthOf(ev, "width")), pixels(lengthOf(ev, "height")))

	relID, _ := c.pkg.AddImagePart(ext, data)
	c.drawings++
	name := path.Base(src)
	if imaging.IsDataURI(src) || src == "" {
		name = fmt.Sprintf("image%d.%s", c.drawings, ext)
	}
	d := xml.NewInlinePicture(c.drawings, relID, name, alt,
		int64(size.Width)*xml.EMUsPerPixel, int64(size.Height)*xml.EMUsPerPixel)
	if c.link != nil && c.link.relID != "" {
		d.Inline.DocPr.HlinkClick = &xml.HlinkClick{ID: c.link.relID, Tooltip: alt}
	}

	run := c.newRun()
	run.Append(d)
	if b := imageBorder(ev); b != nil {
		run.Props().Border = b
	}
	c.b.append(run)
	return i + 1, nil
}

// loadImage returns the extension and bytes of an image source.
func (c *converter) loadImage(src string) (string, []byte, error) {
	if imaging.IsDataURI(src) {
		mime, data, err := imaging.ParseDataURI(src)
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			return "", nil, err
		}
		if err == nil {
			return imaging.ExtensionForMIME(mime), data, nil
		}
		c.log.Warn("invalid data uri, using placeholder", zap.Error(err))
		return "png", imaging.Placeholder(), nil
	}

	if src == "" {
		c.log.Warn("image without source, using placeholder")
		return "png", imaging.Placeholder(), nil
	}
	ext, err := imaging.ExtensionOf(src)
	if err != nil {
		return "", nil, err
	}
	if c.opts.Images == nil {
		c.log.Warn("no image source, using placeholder", zap.String("src", src))
		return "png", imaging.Placeholder(), nil
	}
	data, err := c.opts.Images.Lookup(src)
	if err != nil {
		c.log.Warn("image not found, using placeholder", zap.String("src", src), zap.Error(err))
		return "png", imaging.Placeholder(), nil
	}
	return ext, data, nil
}

// imageBorder reads a CSS border, then the border attribute.
func imageBorder(ev *TagEvent) *xml.Border {
	if b := borderFrom(css.ParseBorder(ev.Style).Top); b != nil && b.Visible() {
		return b
	}
	if n, ok := ev.Attrs.GetAsInt("border"); ok && n > 0 {
		return borderFrom(css.SideBorder{Style: "single", Width: css.Px(float64(n))})
	}
	return nil
}

// pixels returns a fixed length in whole pixels, 0 otherwise.
func pixels(u css.Unit) int {
	if !u.IsFixed() || u.Value <= 0 {
		return 0
	}
	return int(math.Round(u.ValueInPx()))
}

func shortSource(src string) string {
	if len(src) > 64 {
		return src[:64] + "..."
	}
	return src
}
