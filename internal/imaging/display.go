package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/photoscan/internal/logger"
)

// DisplayOptions controls re-encoding of the canonical image.
type DisplayOptions struct {
	// Format is "jpeg" or "png".
	Format string
	// JPEGQuality is 1-100 and ignored for PNG.
	JPEGQuality int
}

// DefaultDisplayOptions returns JPEG at quality 95.
func DefaultDisplayOptions() DisplayOptions {
	return DisplayOptions{Format: "jpeg", JPEGQuality: 95}
}

// DisplayImage is an encoded picture ready for inline transport.
type DisplayImage struct {
	Data     []byte
	MIMEType string

	// Passthrough is true when Data is the original upload, unmodified,
	// because decoding or re-encoding failed.
	Passthrough bool
}

// Base64 returns Data in standard base64.
func (d DisplayImage) Base64() string {
	return base64.StdEncoding.EncodeToString(d.Data)
}

// DataURI returns a data: URI suitable for an <img> src attribute.
func (d DisplayImage) DataURI() string {
	return "data:" + d.MIMEType + ";base64," + d.Base64()
}

// EncodeForDisplay loads, normalizes and re-encodes raw. It always returns a
// result: on any failure the original bytes are passed through.
func EncodeForDisplay(l *Loader, raw []byte, opts DisplayOptions) DisplayImage {
	img, err := l.Load(raw)
	if err != nil {
		return Passthrough(raw, err)
	}
	return EncodeCanonical(Normalize(img), raw, opts)
}

// EncodeCanonical re-encodes an already normalized image, falling back to raw
// when img is missing, not canonical, or fails to encode. Use it when the
// canonical image is shared with other consumers.
func EncodeCanonical(img *Image, raw []byte, opts DisplayOptions) (out DisplayImage) {
	defer func() {
		if r := recover(); r != nil {
			out = Passthrough(raw, fmt.Errorf("encoder panicked: %v", r))
		}
	}()

	if !img.IsCanonical() {
		return Passthrough(raw, ErrNotNormalized)
	}

	format, mime := imaging.JPEG, "image/jpeg"
	if strings.EqualFold(opts.Format, "png") {
		format, mime = imaging.PNG, "image/png"
	}
	quality := opts.JPEGQuality
	if quality < 1 || quality > 100 {
		quality = DefaultDisplayOptions().JPEGQuality
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img.pix, format, imaging.JPEGQuality(quality)); err != nil {
		return Passthrough(raw, fmt.Errorf("failed to encode display image: %w", err))
	}

	return DisplayImage{Data: buf.Bytes(), MIMEType: mime}
}

// Passthrough returns a copy of raw labelled with its sniffed MIME type, and
// logs cause.
func Passthrough(raw []byte, cause error) DisplayImage {
	logger.Warn("display: passing original bytes through: %v", cause)
	data := make([]byte, len(raw))
	copy(data, raw)
	return DisplayImage{
		Data:        data,
		MIMEType:    Sniff(raw).MIMEType(),
		Passthrough: true,
	}
}
