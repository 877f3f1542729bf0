package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/photoscan/internal/logger"
)

// Strategy is one way of turning raw bytes into a fully decoded Image.
//
// Decode must either return an Image whose pixels are completely
// materialized or an error; a header that parses is not enough.
type Strategy interface {
	Name() string
	Decode(raw []byte) (*Image, error)
}

// Strategy names as reported in Image.Strategy and DecodeFailure attempts.
const (
	StrategyPrimary    = "primary"
	StrategyLegacyHEIC = "legacy-heic"
)

// safeDecode runs s.Decode and converts a panic into a *StrategyPanic.
func safeDecode(s Strategy, raw []byte) (img *Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			img = nil
			err = &StrategyPanic{Strategy: s.Name(), Value: r}
		}
	}()
	return s.Decode(raw)
}

// materialize copies src into a fresh NRGBA buffer, which forces every pixel
// through the decoder's color conversion.
func materialize(src image.Image) (pix *image.NRGBA, err error) {
	if src == nil {
		return nil, errors.New("decoder returned no image")
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, fmt.Errorf("decoded image has empty bounds %v", b)
	}
	defer func() {
		if r := recover(); r != nil {
			pix = nil
			err = fmt.Errorf("failed to read decoded pixels: %v", r)
		}
	}()
	return imaging.Clone(src), nil
}

// primaryStrategy decodes every format registered with the image package,
// plus HEIF when the modern codec is enabled.
type primaryStrategy struct {
	caps Capabilities
}

func (p *primaryStrategy) Name() string { return StrategyPrimary }

func (p *primaryStrategy) Decode(raw []byte) (*Image, error) {
	format := Sniff(raw)

	var (
		src image.Image
		err error
	)
	switch {
	case format == FormatHEIF:
		if !p.caps.ModernHEIC {
			return nil, ErrHEICUnsupported
		}
		src, err = decodeModernHEIC(raw)
	case isISOBMFF(raw):
		// AVIF and video containers. Kept away from image.Decode, where a
		// HEIC codec may have registered itself for every ftyp box.
		return nil, fmt.Errorf("%w: ISO-BMFF brand %q", ErrUnsupportedFormat, brands(raw)[0])
	default:
		src, _, err = image.Decode(bytes.NewReader(raw))
		if errors.Is(err, image.ErrFormat) {
			return nil, ErrUnsupportedFormat
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", format, err)
	}

	pix, err := materialize(src)
	if err != nil {
		return nil, err
	}

	return &Image{
		pix:         pix,
		mode:        ColorModeOf(src),
		orientation: readOrientation(raw, format),
		format:      format,
		strategy:    StrategyPrimary,
	}, nil
}

// legacyHEICStrategy decodes HEIF with the legacy codec, re-encodes the
// pixels to an intermediate raster in memory and hands that buffer back to
// the primary strategy.
type legacyHEICStrategy struct {
	primary *primaryStrategy
	encoder imgio.Encoder
	ext     string
}

func newLegacyHEICStrategy(primary *primaryStrategy, format string, quality int) *legacyHEICStrategy {
	s := &legacyHEICStrategy{primary: primary, encoder: imgio.PNGEncoder(), ext: "png"}
	switch format {
	case "jpeg", "jpg":
		s.encoder = imgio.JPEGEncoder(quality)
		s.ext = "jpeg"
	}
	return s
}

func (s *legacyHEICStrategy) Name() string { return StrategyLegacyHEIC }

func (s *legacyHEICStrategy) Decode(raw []byte) (*Image, error) {
	if Sniff(raw) != FormatHEIF {
		return nil, ErrNotHEIF
	}

	decoded, mode, err := decodeLegacyHEIC(raw)
	if err != nil {
		return nil, fmt.Errorf("legacy HEIC decode failed: %w", err)
	}

	var buf bytes.Buffer
	if err := s.encoder(&buf, decoded); err != nil {
		return nil, fmt.Errorf("failed to encode intermediate %s: %w", s.ext, err)
	}
	logger.Debug("legacy HEIC: %dx%d re-encoded to %d bytes of %s",
		decoded.Bounds().Dx(), decoded.Bounds().Dy(), buf.Len(), s.ext)

	img, err := s.primary.Decode(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("intermediate %s rejected: %w", s.ext, err)
	}

	// The intermediate carries no metadata; report the container instead.
	return &Image{
		pix:         img.pix,
		mode:        mode,
		orientation: OrientationNormal,
		format:      FormatHEIF,
		strategy:    StrategyLegacyHEIC,
	}, nil
}
