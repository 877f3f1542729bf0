package ocr

import (
	"fmt"
	"image"

	"github.com/ironsheep/photoscan/internal/imaging"
)

// Frame is the dense pixel array handed to a recognition engine: Height rows
// of Width pixels, three bytes (R, G, B) per pixel, row-major with no padding.
type Frame struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewFrame copies a canonical image into a Frame. Images that have not been
// through imaging.Normalize are rejected with imaging.ErrNotNormalized.
func NewFrame(img *imaging.Image) (Frame, error) {
	if !img.IsCanonical() {
		return Frame{}, imaging.ErrNotNormalized
	}

	src := img.Pixels()
	w, h := img.Width(), img.Height()
	pix := make([]uint8, w*h*3)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		out := pix[y*w*3 : (y+1)*w*3]
		for x := 0; x < w; x++ {
			copy(out[x*3:x*3+3], row[x*4:x*4+3])
		}
	}

	return Frame{Width: w, Height: h, Pix: pix}, nil
}

// Shape returns the array dimensions as (height, width, channels).
func (f Frame) Shape() [3]int {
	return [3]int{f.Height, f.Width, 3}
}

// RGB returns the pixel at (x, y).
func (f Frame) RGB(x, y int) (r, g, b uint8) {
	i := (y*f.Width + x) * 3
	return f.Pix[i], f.Pix[i+1], f.Pix[i+2]
}

// Validate reports a malformed frame.
func (f Frame) Validate() error {
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("invalid frame shape %v", f.Shape())
	}
	if len(f.Pix) != f.Width*f.Height*3 {
		return fmt.Errorf("frame holds %d bytes, shape %v needs %d", len(f.Pix), f.Shape(), f.Width*f.Height*3)
	}
	return nil
}

// NRGBA expands the frame back into an opaque image, for engines that take
// encoded images rather than raw arrays.
func (f Frame) NRGBA() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Width, f.Height))
	for i, j := 0, 0; i < len(f.Pix); i, j = i+3, j+4 {
		img.Pix[j] = f.Pix[i]
		img.Pix[j+1] = f.Pix[i+1]
		img.Pix[j+2] = f.Pix[i+2]
		img.Pix[j+3] = 0xff
	}
	return img
}
