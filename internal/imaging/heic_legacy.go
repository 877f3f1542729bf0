//go:build cgo && !nolegacyheic

package imaging

import (
	"bytes"
	"errors"
	"image"

	"github.com/disintegration/imaging"
	"github.com/jdeng/goheif"
	"github.com/jdeng/goheif/heif"
	"github.com/jdeng/goheif/heif/bmff"
)

const legacyHEICCompiled = true

// Without SafeEncoding libde265 hands back planes that alias C memory freed
// before Decode returns.
func init() {
	goheif.SafeEncoding = true
}

// decodeLegacyHEIC decodes the raw HEVC planes with libde265. Unlike libheif
// it ignores the irot/imir item properties, so they are applied here in the
// order the container lists them. The mode is that of the decoded planes,
// before any transform.
func decodeLegacyHEIC(raw []byte) (image.Image, ColorMode, error) {
	planes, err := goheif.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, ModeUnknown, err
	}
	mode := ColorModeOf(planes)

	item, err := heif.Open(bytes.NewReader(raw)).PrimaryItem()
	if err != nil {
		return nil, ModeUnknown, err
	}
	if item == nil {
		return nil, ModeUnknown, errors.New("no primary item")
	}

	var out image.Image = planes
	for _, p := range item.Properties {
		switch p := p.(type) {
		case *bmff.ImageRotation:
			// counter-clockwise quarter turns
			switch p.Angle % 4 {
			case 1:
				out = imaging.Rotate90(out)
			case 2:
				out = imaging.Rotate180(out)
			case 3:
				out = imaging.Rotate270(out)
			}
		case *bmff.ImageMirror:
			if p.Mirror == 0 {
				out = imaging.FlipH(out)
			} else {
				out = imaging.FlipV(out)
			}
		}
	}
	return out, mode, nil
}
