//go:build !noheic

package imaging

import (
	"bytes"
	"image"

	"github.com/gen2brain/heic"
)

const modernHEICCompiled = true

// decodeModernHEIC decodes with libheif (WebAssembly build, or the system
// library when one is found). Container transforms are applied by libheif.
func decodeModernHEIC(raw []byte) (image.Image, error) {
	return heic.Decode(bytes.NewReader(raw))
}
