package ocr

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/ironsheep/photoscan/internal/imaging"
	"github.com/ironsheep/photoscan/internal/logger"
)

// DecodeFailureMessage is shown in place of recognized text when the upload
// could not be decoded at all.
const DecodeFailureMessage = "Error: Cannot identify/open image file. Please enable modern HEIC support."

// Text is the result of one recognition: the detected lines in engine order,
// or the error that prevented recognition. An empty Lines with a nil Err
// means no text was found.
type Text struct {
	Lines []string `json:"lines"`
	Err   error    `json:"-"`
}

// String joins the lines with newlines, or renders the diagnostic that
// replaces them when recognition failed.
func (t Text) String() string {
	if t.Err != nil {
		return "Error reading text: " + t.Err.Error()
	}
	return strings.TrimSpace(strings.Join(t.Lines, "\n"))
}

// Failed reports whether recognition failed.
func (t Text) Failed() bool { return t.Err != nil }

// Extractor owns the process-wide Engine and adapts canonical images to it.
//
// Each Recognize call holds the extractor's mutex unless the engine reports
// itself as concurrency-safe.
type Extractor struct {
	mu        sync.Mutex
	engine    Engine
	serialize bool
}

// NewExtractor wraps engine. A nil engine behaves like Unavailable.
func NewExtractor(engine Engine) *Extractor {
	if engine == nil {
		engine = Unavailable(nil)
	}
	serialize := true
	if cs, ok := engine.(ConcurrentSafe); ok && cs.ConcurrentSafe() {
		serialize = false
	}
	return &Extractor{engine: engine, serialize: serialize}
}

// Extract recognizes the text in a canonical image. It never returns an
// error: failures, engine panics included, come back as Text.Err.
func (e *Extractor) Extract(ctx context.Context, img *imaging.Image) (out Text) {
	defer func() {
		if r := recover(); r != nil {
			out = Text{Err: fmt.Errorf("engine panicked: %v", r)}
			logger.Warn("OCR: %v", out.Err)
		}
	}()

	frame, err := NewFrame(img)
	if err != nil {
		logger.Warn("OCR: %v", err)
		return Text{Err: err}
	}

	detections, err := e.recognize(ctx, frame)
	if err != nil {
		logger.Warn("OCR failed: %v", err)
		return Text{Err: err}
	}

	lines := make([]string, 0, len(detections))
	for _, d := range detections {
		lines = append(lines, d.Text)
	}
	logger.Debug("OCR: %d lines from %dx%d frame", len(lines), frame.Width, frame.Height)
	return Text{Lines: lines}
}

func (e *Extractor) recognize(ctx context.Context, f Frame) ([]Detection, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if e.serialize {
		e.mu.Lock()
		defer e.mu.Unlock()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return e.engine.Recognize(ctx, f)
}

// Version returns the engine's version string.
func (e *Extractor) Version() string {
	return e.engine.Version()
}

// Info describes the OCR subsystem for diagnostics.
type Info struct {
	Available bool   `json:"available"`
	Version   string `json:"version,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Info reports whether a working engine is attached.
func (e *Extractor) Info() Info {
	if u, ok := e.engine.(*unavailableEngine); ok {
		return Info{Available: false, Error: u.cause.Error()}
	}
	return Info{Available: true, Version: e.engine.Version()}
}

// Close releases the engine once no recognition is in flight.
func (e *Extractor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.engine.Close()
}
