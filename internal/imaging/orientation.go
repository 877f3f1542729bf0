package imaging

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
)

// Orientation is the EXIF orientation tag (0x0112). Values 1-8 describe how
// the stored pixels must be transformed to display upright.
type Orientation int

// EXIF orientation values.
const (
	OrientationNormal     Orientation = 1
	OrientationFlipH      Orientation = 2
	OrientationRotate180  Orientation = 3
	OrientationFlipV      Orientation = 4
	OrientationTranspose  Orientation = 5
	OrientationRotate90CW Orientation = 6
	OrientationTransverse Orientation = 7
	OrientationRotate90CC Orientation = 8
)

var orientationNames = map[Orientation]string{
	OrientationNormal:     "identity",
	OrientationFlipH:      "flip-horizontal",
	OrientationRotate180:  "rotate-180",
	OrientationFlipV:      "flip-vertical",
	OrientationTranspose:  "transpose",
	OrientationRotate90CW: "rotate-90-cw",
	OrientationTransverse: "transverse",
	OrientationRotate90CC: "rotate-90-ccw",
}

func (o Orientation) String() string {
	if name, ok := orientationNames[o]; ok {
		return name
	}
	return "identity"
}

// normalized maps out-of-range tag values to OrientationNormal.
func (o Orientation) normalized() Orientation {
	if o < OrientationNormal || o > OrientationRotate90CC {
		return OrientationNormal
	}
	return o
}

// SwapsAxes reports whether applying o exchanges width and height.
func (o Orientation) SwapsAxes() bool {
	switch o {
	case OrientationTranspose, OrientationRotate90CW, OrientationTransverse, OrientationRotate90CC:
		return true
	}
	return false
}

// apply returns a new buffer with o applied to src. src is never modified.
func (o Orientation) apply(src *image.NRGBA) *image.NRGBA {
	switch o.normalized() {
	case OrientationFlipH:
		return imaging.FlipH(src)
	case OrientationRotate180:
		return imaging.Rotate180(src)
	case OrientationFlipV:
		return imaging.FlipV(src)
	case OrientationTranspose:
		return imaging.Transpose(src)
	case OrientationRotate90CW:
		return imaging.Rotate270(src)
	case OrientationTransverse:
		return imaging.Transverse(src)
	case OrientationRotate90CC:
		return imaging.Rotate90(src)
	}
	return imaging.Clone(src)
}

// readOrientation returns the EXIF orientation embedded in raw, or
// OrientationNormal when there is none or it cannot be parsed.
//
// HEIF containers report OrientationNormal: both HEIC codecs hand back pixels
// with the container's irot/imir transforms already applied, and applying the
// EXIF copy of the same rotation again would double-rotate.
func readOrientation(raw []byte, format Format) Orientation {
	switch format {
	case FormatJPEG, FormatTIFF:
	default:
		return OrientationNormal
	}

	x, err := exif.Decode(bytes.NewReader(raw))
	if x == nil || (err != nil && exif.IsCriticalError(err)) {
		return OrientationNormal
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return OrientationNormal
	}
	v, err := tag.Int(0)
	if err != nil {
		return OrientationNormal
	}
	return Orientation(v).normalized()
}
