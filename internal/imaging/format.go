package imaging

import "bytes"

// Format identifies a container format by its magic bytes.
type Format string

// Formats recognized by Sniff.
const (
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatGIF     Format = "gif"
	FormatBMP     Format = "bmp"
	FormatTIFF    Format = "tiff"
	FormatWebP    Format = "webp"
	FormatHEIF    Format = "heif"
	FormatUnknown Format = "unknown"
)

// MIMEType returns the media type used when the raw bytes are passed through.
func (f Format) MIMEType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	case FormatGIF:
		return "image/gif"
	case FormatBMP:
		return "image/bmp"
	case FormatTIFF:
		return "image/tiff"
	case FormatWebP:
		return "image/webp"
	case FormatHEIF:
		return "image/heic"
	}
	return "application/octet-stream"
}

// HEVC-coded HEIF brands, and the generic image brands that may carry them.
var (
	heicBrands    = []string{"heic", "heix", "hevc", "hevx", "heim", "heis", "hevm", "hevs"}
	genericBrands = []string{"mif1", "msf1"}
	av1Brands     = []string{"avif", "avis"}
)

// Sniff identifies the container format of raw from its leading bytes.
// File names and declared content types are never consulted.
func Sniff(raw []byte) Format {
	switch {
	case bytes.HasPrefix(raw, []byte{0xFF, 0xD8, 0xFF}):
		return FormatJPEG
	case bytes.HasPrefix(raw, []byte("\x89PNG\r\n\x1a\n")):
		return FormatPNG
	case bytes.HasPrefix(raw, []byte("GIF87a")), bytes.HasPrefix(raw, []byte("GIF89a")):
		return FormatGIF
	case bytes.HasPrefix(raw, []byte("BM")) && len(raw) >= 26:
		return FormatBMP
	case bytes.HasPrefix(raw, []byte("II*\x00")), bytes.HasPrefix(raw, []byte("MM\x00*")):
		return FormatTIFF
	case len(raw) >= 12 && string(raw[:4]) == "RIFF" && string(raw[8:12]) == "WEBP":
		return FormatWebP
	case isHEIF(raw):
		return FormatHEIF
	}
	return FormatUnknown
}

// isISOBMFF reports whether raw starts with an ISO base media file type box.
func isISOBMFF(raw []byte) bool {
	return len(raw) >= 12 && string(raw[4:8]) == "ftyp"
}

// brands returns the major and compatible brands of the leading ftyp box.
func brands(raw []byte) []string {
	if !isISOBMFF(raw) {
		return nil
	}
	size := int(raw[0])<<24 | int(raw[1])<<16 | int(raw[2])<<8 | int(raw[3])
	if size < 16 || size > len(raw) {
		size = 16
		if size > len(raw) {
			size = len(raw)
		}
	}
	// major brand, minor version, then compatible brands
	out := []string{string(raw[8:12])}
	for off := 16; off+4 <= size; off += 4 {
		out = append(out, string(raw[off:off+4]))
	}
	return out
}

func isHEIF(raw []byte) bool {
	bs := brands(raw)
	if len(bs) == 0 {
		return false
	}
	if hasAny(bs, heicBrands) {
		return true
	}
	return hasAny(bs, genericBrands) && !hasAny(bs, av1Brands)
}

func hasAny(have, want []string) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
