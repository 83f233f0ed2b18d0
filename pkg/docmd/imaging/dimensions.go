package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	_ "golang.org/x/image/bmp"

	"github.com/benjaminschreck/go-docmd/pkg/docmd/css"
)

// Size is a pixel size.
type Size struct {
	Width, Height int
}

// IsEmpty reports whether either side is missing.
func (s Size) IsEmpty() bool { return s.Width <= 0 || s.Height <= 0 }

// Dimensions reads the natural pixel size of an image. Raster formats are
// sniffed from their header; SVG sizes come from the root width/height or
// the viewBox.
func Dimensions(ext string, data []byte) (Size, error) {
	if strings.EqualFold(ext, "svg") {
		return svgDimensions(data)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Size{}, fmt.Errorf("failed to read image header: %w", err)
	}
	return Size{Width: cfg.Width, Height: cfg.Height}, nil
}

func svgDimensions(data []byte) (Size, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return Size{}, fmt.Errorf("failed to parse svg: %w", err)
	}
	root := doc.Root()
	if root == nil || root.Tag != "svg" {
		return Size{}, fmt.Errorf("failed to parse svg: missing svg root")
	}
	w := css.ParseUnit(root.SelectAttrValue("width", ""))
	h := css.ParseUnit(root.SelectAttrValue("height", ""))
	if w.IsFixed() && h.IsFixed() {
		return Size{Width: px(w), Height: px(h)}, nil
	}
	vb := strings.FieldsFunc(root.SelectAttrValue("viewBox", ""), func(r rune) bool {
		return r == ' ' || r == ','
	})
	if len(vb) == 4 {
		vw, err1 := strconv.ParseFloat(vb[2], 64)
		vh, err2 := strconv.ParseFloat(vb[3], 64)
		if err1 == nil && err2 == nil && vw > 0 && vh > 0 {
			s := Size{Width: int(math.Round(vw)), Height: int(math.Round(vh))}
			// one fixed side scales the other by the view box ratio
			switch {
			case w.IsFixed():
				s = Size{Width: px(w), Height: int(math.Round(w.ValueInPx() * vh / vw))}
			case h.IsFixed():
				s = Size{Width: int(math.Round(h.ValueInPx() * vw / vh)), Height: px(h)}
			}
			return s, nil
		}
	}
	return Size{}, fmt.Errorf("failed to read svg size: no width/height or viewBox")
}

func px(u css.Unit) int {
	return int(math.Round(u.ValueInPx()))
}

// Fit resolves the rendered size from the natural size and the requested
// width and height. Missing sides keep the natural aspect ratio.
func Fit(natural Size, width, height int) Size {
	switch {
	case width > 0 && height > 0:
		return Size{Width: width, Height: height}
	case width > 0 && !natural.IsEmpty():
		return Size{Width: width, Height: int(math.Round(float64(width) * float64(natural.Height) / float64(natural.Width)))}
	case height > 0 && !natural.IsEmpty():
		return Size{Width: int(math.Round(float64(height) * float64(natural.Width) / float64(natural.Height))), Height: height}
	}
	return natural
}
