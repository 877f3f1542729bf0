package imaging

import (
	"fmt"
	"os"

	"github.com/ironsheep/photoscan/internal/logger"
)

// Loader decodes untrusted bytes by trying a fixed, priority-ordered list of
// strategies. The first strategy that succeeds wins; every failure, panics
// included, is recorded and the next strategy is tried.
//
// A Loader holds no per-request state and is safe for concurrent use.
//
// # Strategy Order
//
//  1. primary: standard rasters (JPEG, PNG, GIF, BMP, TIFF, WebP) and, when
//     Capabilities.ModernHEIC is set, HEIC.
//  2. legacy-heic: only present when ModernHEIC is false and LegacyHEIC is
//     true. Decodes the raw HEVC planes, re-encodes them in memory and runs
//     the primary strategy on the result.
//
// # Example Usage
//
//	caps := imaging.DetectCapabilities(true, true)
//	loader := imaging.NewLoader(caps)
//	img, err := loader.Load(raw)
//	if err != nil {
//	    var failure *imaging.DecodeFailure
//	    errors.As(err, &failure)
//	    log.Println(failure.Hint())
//	}
type Loader struct {
	caps       Capabilities
	strategies []Strategy
}

// LoaderOption customizes a Loader.
type LoaderOption func(*loaderOptions)

type loaderOptions struct {
	intermediateFormat  string
	intermediateQuality int
}

// WithIntermediate selects the raster format ("png" or "jpeg") and JPEG
// quality the legacy HEIC strategy re-encodes to. The default is PNG.
func WithIntermediate(format string, quality int) LoaderOption {
	return func(o *loaderOptions) {
		o.intermediateFormat = format
		o.intermediateQuality = quality
	}
}

// NewLoader builds the strategy chain for caps.
func NewLoader(caps Capabilities, opts ...LoaderOption) *Loader {
	o := loaderOptions{intermediateFormat: "png", intermediateQuality: 95}
	for _, opt := range opts {
		opt(&o)
	}

	primary := &primaryStrategy{caps: caps}
	strategies := []Strategy{primary}
	if !caps.ModernHEIC && caps.LegacyHEIC {
		strategies = append(strategies, newLegacyHEICStrategy(primary, o.intermediateFormat, o.intermediateQuality))
	}

	return &Loader{caps: caps, strategies: strategies}
}

// Capabilities returns the capability flags the loader was built with.
func (l *Loader) Capabilities() Capabilities { return l.caps }

// Strategies returns the strategy names in the order they are tried.
func (l *Loader) Strategies() []string {
	names := make([]string, len(l.strategies))
	for i, s := range l.strategies {
		names[i] = s.Name()
	}
	return names
}

// Load decodes raw into a fully materialized Image.
//
// Parameters:
//   - raw: Image bytes of unknown format. Never modified.
//
// Returns:
//   - *Image: The decoded image with its EXIF orientation still unapplied.
//     Pass it to Normalize before use.
//   - error: Always a *DecodeFailure when non-nil.
func (l *Loader) Load(raw []byte) (*Image, error) {
	failure := &DecodeFailure{Format: Sniff(raw)}
	failure.MissingModernHEIC = failure.Format == FormatHEIF && !l.caps.ModernHEIC

	if len(raw) == 0 {
		failure.Attempts = append(failure.Attempts, Attempt{Err: ErrEmptyInput})
		return nil, failure
	}

	for _, s := range l.strategies {
		img, err := safeDecode(s, raw)
		if err == nil {
			logger.Debug("decoded %s via %s strategy: %dx%d %s", img.Format(), s.Name(), img.Width(), img.Height(), img.Mode())
			return img, nil
		}
		logger.Debug("%s strategy failed: %v", s.Name(), err)
		failure.Attempts = append(failure.Attempts, Attempt{Strategy: s.Name(), Err: err})
	}

	logger.Warn("%v", failure)
	return nil, failure
}

// LoadFile reads path and decodes it with Load.
func (l *Loader) LoadFile(path string) (*Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return l.Load(raw)
}

// Info summarizes a decode attempt without the pixel data.
type Info struct {
	// Decoded reports whether any strategy succeeded.
	Decoded bool `json:"decoded"`

	// Strategy names the strategy that succeeded, if any.
	Strategy string `json:"strategy,omitempty"`

	// Format is the sniffed container format.
	Format Format `json:"format"`

	// Width and Height are the stored dimensions, before orientation.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// Mode is the color mode the decoder produced.
	Mode ColorMode `json:"mode,omitempty"`

	// Orientation is the EXIF orientation the normalizer will apply.
	Orientation string `json:"orientation,omitempty"`

	// FileSizeBytes is the size of the raw input.
	FileSizeBytes int `json:"file_size_bytes"`

	// Hint explains a decode failure.
	Hint string `json:"hint,omitempty"`

	// Error is the full decode failure, attempt by attempt.
	Error string `json:"error,omitempty"`
}

// Describe runs Load and reports what happened.
func (l *Loader) Describe(raw []byte) *Info {
	info := &Info{Format: Sniff(raw), FileSizeBytes: len(raw)}

	img, err := l.Load(raw)
	if err != nil {
		if failure, ok := err.(*DecodeFailure); ok {
			info.Hint = failure.Hint()
		}
		info.Error = err.Error()
		return info
	}

	info.Decoded = true
	info.Strategy = img.Strategy()
	info.Width = img.Width()
	info.Height = img.Height()
	info.Mode = img.Mode()
	info.Orientation = img.Orientation().String()
	return info
}
