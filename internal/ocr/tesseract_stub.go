//go:build !cgo

package ocr

// TesseractConfig configures the Tesseract engine.
type TesseractConfig struct {
	Languages      []string
	TessdataPrefix string
	PageSegMode    int
}

// Tesseract is unavailable in builds without cgo.
type Tesseract struct{ unavailableEngine }

// NewTesseract always fails with ErrOCRNotEnabled in builds without cgo.
func NewTesseract(cfg TesseractConfig) (*Tesseract, error) {
	return nil, ErrOCRNotEnabled
}
