package ocr

import (
	"context"
	"errors"
	"fmt"
	"image"
)

var (
	// ErrOCRNotEnabled is returned by NewTesseract in builds without cgo.
	ErrOCRNotEnabled = errors.New("OCR not enabled: rebuild with CGO_ENABLED=1 and Tesseract installed")

	// ErrEngineClosed is returned by Recognize after Close.
	ErrEngineClosed = errors.New("OCR engine is closed")
)

// Detection is one text region reported by an engine.
type Detection struct {
	Box        image.Rectangle `json:"box"`
	Text       string          `json:"text"`
	Confidence float64         `json:"confidence"` // 0.0 to 1.0
}

// Engine is a text-recognition backend. Engines are expensive to construct
// and are built once per process.
//
// Unless an engine also implements ConcurrentSafe and reports true, callers
// must not invoke Recognize concurrently; Extractor takes care of that.
type Engine interface {
	// Recognize returns the detected text regions in the engine's own order.
	Recognize(ctx context.Context, f Frame) ([]Detection, error)
	Version() string
	Close() error
}

// ConcurrentSafe is implemented by engines that allow concurrent Recognize
// calls.
type ConcurrentSafe interface {
	ConcurrentSafe() bool
}

// unavailableEngine stands in when the real engine could not start, so the
// service keeps running and every recognition degrades to a diagnostic.
type unavailableEngine struct {
	cause error
}

// Unavailable returns an Engine whose every Recognize call fails with cause.
func Unavailable(cause error) Engine {
	if cause == nil {
		cause = errors.New("no engine configured")
	}
	return &unavailableEngine{cause: cause}
}

func (u *unavailableEngine) Recognize(ctx context.Context, f Frame) ([]Detection, error) {
	return nil, fmt.Errorf("OCR engine unavailable: %w", u.cause)
}

func (u *unavailableEngine) Version() string { return "unavailable" }

func (u *unavailableEngine) Close() error { return nil }

func (u *unavailableEngine) ConcurrentSafe() bool { return true }
