package testutil

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// TextImage renders lines of black text on white with basicfont.Face7x13,
// enlarged by scale so an OCR engine can read it.
func TextImage(lines []string, scale int) *image.NRGBA {
	if scale < 1 {
		scale = 1
	}
	maxLen := 0
	for _, line := range lines {
		if len(line) > maxLen {
			maxLen = len(line)
		}
	}

	w, h := maxLen*7+40, len(lines)*16+30
	small := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(small, small.Bounds(), image.White, image.Point{}, draw.Src)
	for i, line := range lines {
		d := &font.Drawer{
			Dst:  small,
			Src:  image.NewUniform(color.Black),
			Face: basicfont.Face7x13,
			Dot:  fixed.Point26_6{X: fixed.I(20), Y: fixed.I(20 + i*16)},
		}
		d.DrawString(line)
	}

	// Scale up by drawing each pixel as a scale x scale block
	img := image.NewNRGBA(image.Rect(0, 0, w*scale, h*scale))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := small.NRGBAAt(x, y)
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetNRGBA(x*scale+dx, y*scale+dy, c)
				}
			}
		}
	}
	return img
}
