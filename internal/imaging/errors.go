package imaging

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyInput is recorded when Load is handed zero bytes.
	ErrEmptyInput = errors.New("empty image data")

	// ErrUnsupportedFormat means no registered decoder recognized the bytes.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrHEICUnsupported means the bytes are HEIF but the codec a strategy
	// needs is not compiled in or not enabled.
	ErrHEICUnsupported = errors.New("HEIC decoding is not available")

	// ErrNotHEIF is returned by HEIC-only strategies for other containers.
	ErrNotHEIF = errors.New("not a HEIF container")

	// ErrNotNormalized is returned when a consumer that requires the
	// canonical representation is handed an image that was never normalized.
	ErrNotNormalized = errors.New("image is not normalized")
)

// Attempt records one strategy's failure.
type Attempt struct {
	Strategy string
	Err      error
}

// DecodeFailure is returned by Loader.Load when every strategy failed. It
// carries each attempt and whether a missing optional capability explains
// the failure.
type DecodeFailure struct {
	Format   Format
	Attempts []Attempt

	// MissingModernHEIC is set when the input is HEIF and the modern codec
	// is unavailable.
	MissingModernHEIC bool
}

func (e *DecodeFailure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "cannot identify image file (%s)", e.Format)
	for i, a := range e.Attempts {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		if a.Strategy != "" {
			b.WriteString(a.Strategy)
			b.WriteString(": ")
		}
		b.WriteString(a.Err.Error())
	}
	return b.String()
}

// Unwrap exposes every attempt's error to errors.Is and errors.As.
func (e *DecodeFailure) Unwrap() []error {
	errs := make([]error, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		errs = append(errs, a.Err)
	}
	return errs
}

// Hint returns a short operator-facing explanation of the failure.
func (e *DecodeFailure) Hint() string {
	if e.MissingModernHEIC {
		return "modern HEIC support is not enabled"
	}
	if e.Format == FormatUnknown {
		return "the file is not a recognized image format"
	}
	return fmt.Sprintf("the %s data could not be decoded", e.Format)
}

// StrategyPanic wraps a panic raised inside a decoder.
type StrategyPanic struct {
	Strategy string
	Value    interface{}
}

func (p *StrategyPanic) Error() string {
	return fmt.Sprintf("%s decoder panicked: %v", p.Strategy, p.Value)
}
