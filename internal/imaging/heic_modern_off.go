//go:build noheic

package imaging

import "image"

const modernHEICCompiled = false

func decodeModernHEIC(raw []byte) (image.Image, error) {
	return nil, ErrHEICUnsupported
}
