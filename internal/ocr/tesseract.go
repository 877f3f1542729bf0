//go:build cgo

package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// TesseractConfig configures the Tesseract engine.
type TesseractConfig struct {
	// Languages are Tesseract language codes, e.g. "tha", "eng". The
	// matching traineddata files must be installed.
	Languages []string

	// TessdataPrefix overrides the traineddata directory. Empty uses
	// TESSDATA_PREFIX or the system default.
	TessdataPrefix string

	// PageSegMode is the Tesseract page segmentation mode; 3 is fully
	// automatic.
	PageSegMode int
}

// Tesseract is an Engine backed by one long-lived gosseract client.
//
// The client is not safe for concurrent use; Tesseract does not implement
// ConcurrentSafe, so Extractor serializes calls.
type Tesseract struct {
	mu     sync.Mutex
	client *gosseract.Client
	closed bool
}

// NewTesseract creates the client and loads the language models by running
// one recognition on a blank page, so configuration errors surface at
// startup instead of on the first request.
func NewTesseract(cfg TesseractConfig) (*Tesseract, error) {
	client := gosseract.NewClient()

	langs := cfg.Languages
	if len(langs) == 0 {
		langs = []string{"eng"}
	}
	if err := client.SetLanguage(langs...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if cfg.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(cfg.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata prefix: %w", err)
		}
	}
	if err := client.SetPageSegMode(gosseract.PageSegMode(cfg.PageSegMode)); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}

	t := &Tesseract{client: client}
	if _, err := t.recognizeImage(blankPage()); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to initialize tesseract (%s): %w", strings.Join(langs, "+"), err)
	}
	return t, nil
}

// Recognize runs line-level recognition on f. Lines come back in the order
// Tesseract's iterator yields them; blank lines are dropped.
func (t *Tesseract) Recognize(ctx context.Context, f Frame) ([]Detection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return t.recognizeImage(f.NRGBA())
}

func (t *Tesseract) recognizeImage(img image.Image) ([]Detection, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil, ErrEngineClosed
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode frame: %w", err)
	}
	if err := t.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := t.client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	detections := make([]Detection, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		detections = append(detections, Detection{
			Box:        box.Box,
			Text:       text,
			Confidence: box.Confidence / 100.0,
		})
	}
	return detections, nil
}

// Version returns the linked Tesseract library version.
func (t *Tesseract) Version() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return "closed"
	}
	return "tesseract " + t.client.Version()
}

// Close frees the native client.
func (t *Tesseract) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	return t.client.Close()
}

func blankPage() image.Image {
	return imaging.New(64, 32, color.White)
}
