//go:build !cgo || nolegacyheic

package imaging

import "image"

const legacyHEICCompiled = false

func decodeLegacyHEIC(raw []byte) (image.Image, ColorMode, error) {
	return nil, ModeUnknown, ErrHEICUnsupported
}
