// Package pipeline turns one uploaded photo into the three outputs the
// service reports: its GPS position, the text visible in it, and a
// display-ready re-encoding of the image.
//
// The three outputs fail independently. GPS extraction reads only the EXIF
// metadata and runs concurrently with the decode branch; the decode branch
// loads and normalizes the image exactly once and hands the same canonical
// image to both OCR and the display encoder. A photo that cannot be decoded
// still yields its GPS position, a diagnostic in place of the text and the
// original bytes for display.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/photoscan/internal/gps"
	"github.com/ironsheep/photoscan/internal/imaging"
	"github.com/ironsheep/photoscan/internal/logger"
	"github.com/ironsheep/photoscan/internal/ocr"
)

// Result holds everything reported for one photo.
type Result struct {
	GPS         gps.Coordinate `json:"gps"`
	OCRText     string         `json:"ocr_text"`
	ImageBase64 string         `json:"img_base64"`
	ImageMIME   string         `json:"img_mime"`

	// Decoded is false when no decode strategy could read the pixels.
	Decoded bool `json:"decoded"`
	// Strategy names the decode strategy that succeeded.
	Strategy string `json:"strategy,omitempty"`
	// Width and Height are the upright (normalized) dimensions.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
	// Passthrough is true when the display image is the original upload.
	Passthrough bool `json:"passthrough"`
	// Hint explains a decode failure.
	Hint string `json:"hint,omitempty"`

	Elapsed time.Duration `json:"-"`
}

// Pipeline wires the loader, the OCR extractor and the display settings.
// It is safe for concurrent use.
type Pipeline struct {
	loader    *imaging.Loader
	extractor *ocr.Extractor
	display   imaging.DisplayOptions
}

// New creates a pipeline. A nil extractor reports OCR as unavailable.
func New(loader *imaging.Loader, extractor *ocr.Extractor, display imaging.DisplayOptions) *Pipeline {
	if extractor == nil {
		extractor = ocr.NewExtractor(nil)
	}
	return &Pipeline{
		loader:    loader,
		extractor: extractor,
		display:   display,
	}
}

// Loader returns the image loader.
func (p *Pipeline) Loader() *imaging.Loader { return p.loader }

// Extractor returns the OCR extractor.
func (p *Pipeline) Extractor() *ocr.Extractor { return p.extractor }

// Process runs every stage on raw. It always returns a complete Result.
func (p *Pipeline) Process(ctx context.Context, raw []byte) *Result {
	start := time.Now()
	res := &Result{}

	var coord gps.Coordinate
	var g errgroup.Group
	g.Go(func() error {
		coord = gps.Extract(raw)
		return nil
	})
	g.Go(func() error {
		p.decodeBranch(ctx, raw, res)
		return nil
	})
	_ = g.Wait()

	res.GPS = coord
	res.Elapsed = time.Since(start)

	logger.WithFields(map[string]interface{}{
		"bytes":    len(raw),
		"decoded":  res.Decoded,
		"strategy": res.Strategy,
		"gps":      res.GPS.String(),
		"elapsed":  res.Elapsed.String(),
	}).Debug("processed photo")
	return res
}

// ProcessFile reads path and runs Process on its contents.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return p.Process(ctx, raw), nil
}

// decodeBranch fills the OCR and display fields of res.
func (p *Pipeline) decodeBranch(ctx context.Context, raw []byte, res *Result) {
	img, err := p.loader.Load(raw)
	if err != nil {
		var failure *imaging.DecodeFailure
		if errors.As(err, &failure) {
			res.Hint = failure.Hint()
		}
		logger.Warn("photo could not be decoded: %v", err)

		res.OCRText = ocr.DecodeFailureMessage
		p.setDisplay(res, imaging.Passthrough(raw, err))
		return
	}

	canonical := imaging.Normalize(img)
	res.Decoded = true
	res.Strategy = img.Strategy()
	res.Width = canonical.Width()
	res.Height = canonical.Height()

	// OCR and display share the canonical image; neither mutates it.
	var g errgroup.Group
	var text ocr.Text
	var display imaging.DisplayImage
	g.Go(func() error {
		text = p.extractor.Extract(ctx, canonical)
		return nil
	})
	g.Go(func() error {
		display = imaging.EncodeCanonical(canonical, raw, p.display)
		return nil
	})
	_ = g.Wait()

	res.OCRText = text.String()
	p.setDisplay(res, display)
}

func (p *Pipeline) setDisplay(res *Result, d imaging.DisplayImage) {
	res.ImageBase64 = d.Base64()
	res.ImageMIME = d.MIMEType
	res.Passthrough = d.Passthrough
}
