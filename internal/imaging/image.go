package imaging

import (
	"fmt"
	"image"
	"image/color"
)

// ColorMode names the pixel layout a decoder produced, using the short mode
// names common to imaging tools ("RGB", "RGBA", "L", "P", ...).
type ColorMode string

// Color modes reported for decoded images. ModeRGB is the canonical mode.
const (
	ModeRGB     ColorMode = "RGB"
	ModeRGBA    ColorMode = "RGBA"
	ModeRGBA64  ColorMode = "RGBA;16"
	ModeL       ColorMode = "L"
	ModeL16     ColorMode = "L;16"
	ModeP       ColorMode = "P"
	ModeCMYK    ColorMode = "CMYK"
	ModeYCbCr   ColorMode = "YCbCr"
	ModeYCbCrA  ColorMode = "YCbCrA"
	ModeA       ColorMode = "A"
	ModeUnknown ColorMode = "unknown"
)

// ColorModeOf reports the color mode of a decoded image from its concrete type.
func ColorModeOf(img image.Image) ColorMode {
	switch img.(type) {
	case *image.YCbCr:
		return ModeYCbCr
	case *image.NYCbCrA:
		return ModeYCbCrA
	case *image.Gray:
		return ModeL
	case *image.Gray16:
		return ModeL16
	case *image.Paletted:
		return ModeP
	case *image.RGBA, *image.NRGBA:
		return ModeRGBA
	case *image.RGBA64, *image.NRGBA64:
		return ModeRGBA64
	case *image.CMYK:
		return ModeCMYK
	case *image.Alpha, *image.Alpha16:
		return ModeA
	}
	return ModeUnknown
}

// Image is a fully decoded picture held as a non-premultiplied RGBA buffer,
// together with the metadata the normalizer needs.
//
// An Image is never modified after construction. Every transformation
// (Normalize in particular) returns a new value, so one Image may be shared by
// any number of readers.
type Image struct {
	pix         *image.NRGBA
	mode        ColorMode
	orientation Orientation
	format      Format
	strategy    string
}

// NewImage materializes src into an Image with the given orientation tag.
// It is how in-memory pictures enter the pipeline without a decode step.
func NewImage(src image.Image, orientation Orientation) (*Image, error) {
	pix, err := materialize(src)
	if err != nil {
		return nil, err
	}
	return &Image{
		pix:         pix,
		mode:        ColorModeOf(src),
		orientation: orientation.normalized(),
		format:      FormatUnknown,
		strategy:    "memory",
	}, nil
}

// Pixels returns the pixel buffer. Callers must treat it as read-only.
func (i *Image) Pixels() *image.NRGBA { return i.pix }

// Mode returns the color mode. It is ModeRGB once the image is normalized and
// otherwise reflects what the decoder produced.
func (i *Image) Mode() ColorMode { return i.mode }

// Orientation returns the EXIF orientation still to be applied.
func (i *Image) Orientation() Orientation { return i.orientation }

// Format returns the sniffed container format of the source bytes.
func (i *Image) Format() Format { return i.format }

// Strategy returns the name of the decode strategy that produced the image.
func (i *Image) Strategy() string { return i.strategy }

// Width returns the width in pixels.
func (i *Image) Width() int { return i.pix.Bounds().Dx() }

// Height returns the height in pixels.
func (i *Image) Height() int { return i.pix.Bounds().Dy() }

// Bounds returns the pixel bounds, always anchored at (0,0).
func (i *Image) Bounds() image.Rectangle { return i.pix.Bounds() }

// At returns the color at (x, y).
func (i *Image) At(x, y int) color.NRGBA { return i.pix.NRGBAAt(x, y) }

// IsCanonical reports whether the image is in the canonical representation
// consumed by OCR and display encoding: RGB mode with the orientation applied.
func (i *Image) IsCanonical() bool {
	return i != nil && i.pix != nil && i.mode == ModeRGB && i.orientation == OrientationNormal
}

func (i *Image) String() string {
	return fmt.Sprintf("%dx%d %s %s (orientation %s, via %s)",
		i.Width(), i.Height(), i.format, i.mode, i.orientation, i.strategy)
}
