package imaging

// Normalize returns the canonical form of img: EXIF orientation applied and
// the tag cleared, alpha dropped, mode RGB. The input is never modified.
//
// Normalize is idempotent; a canonical image is returned as is. Grayscale,
// palette, CMYK and YCbCr sources were already expanded to RGBA during
// materialization, so only the alpha channel is left to discard. Dropping
// alpha keeps the stored color channels rather than compositing onto a
// background.
func Normalize(img *Image) *Image {
	if img == nil || img.IsCanonical() {
		return img
	}

	pix := img.orientation.apply(img.pix)
	for i := 3; i < len(pix.Pix); i += 4 {
		pix.Pix[i] = 0xff
	}

	return &Image{
		pix:         pix,
		mode:        ModeRGB,
		orientation: OrientationNormal,
		format:      img.format,
		strategy:    img.strategy,
	}
}
