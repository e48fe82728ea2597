package ui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
)

var iconBytes = renderIcon()

// renderIcon draws the 16x16 tray icon: a filled play triangle.
func renderIcon() []byte {
	const size = 16
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	fill := color.NRGBA{R: 0xE8, G: 0x63, B: 0x4A, A: 0xFF}

	for y := 2; y < size-2; y++ {
		half := min(y-2, size-3-y)
		for x := 4; x <= 4+half*2 && x < size-2; x++ {
			img.Set(x, y, fill)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil
	}
	return buf.Bytes()
}
