package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"

	"golang.org/x/image/draw"
)

// PlaceholderSize is the side of the fallback image in pixels.
const PlaceholderSize = 32

var (
	placeholderOnce sync.Once
	placeholderPNG  []byte
)

// Placeholder returns the PNG substituted for images that cannot be found or
// decoded. The slice is shared; callers must not modify it.
func Placeholder() []byte {
	placeholderOnce.Do(func() {
		placeholderPNG = renderPlaceholder()
	})
	return placeholderPNG
}

// renderPlaceholder draws a framed cross on an 8x8 tile and scales it up.
func renderPlaceholder() []byte {
	frame := color.RGBA{0x99, 0x99, 0x99, 0xff}
	fill := color.RGBA{0xee, 0xee, 0xee, 0xff}
	mark := color.RGBA{0xcc, 0x33, 0x33, 0xff}

	tile := image.NewRGBA(image.Rect(0, 0, 8, 8))
	draw.Draw(tile, tile.Bounds(), &image.Uniform{C: frame}, image.Point{}, draw.Src)
	draw.Draw(tile, image.Rect(1, 1, 7, 7), &image.Uniform{C: fill}, image.Point{}, draw.Src)
	for i := 2; i < 6; i++ {
		tile.Set(i, i, mark)
		tile.Set(7-i, i, mark)
	}

	dst := image.NewRGBA(image.Rect(0, 0, PlaceholderSize, PlaceholderSize))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), tile, tile.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		// encoding an in-memory RGBA image does not fail
		panic(err)
	}
	return buf.Bytes()
}
