package cli

import (
	"github.com/ironsheep/photoscan/internal/config"
	"github.com/ironsheep/photoscan/internal/imaging"
	"github.com/ironsheep/photoscan/internal/logger"
	"github.com/ironsheep/photoscan/internal/ocr"
	"github.com/ironsheep/photoscan/internal/pipeline"
)

// newPipeline builds the process-wide loader, OCR engine and pipeline from
// cfg. The caller closes the returned pipeline's extractor.
func newPipeline(cfg *config.Config) *pipeline.Pipeline {
	caps := imaging.DetectCapabilities(cfg.HEIC.Modern, cfg.HEIC.Legacy)
	loader := imaging.NewLoader(caps,
		imaging.WithIntermediate(cfg.HEIC.IntermediateFormat, cfg.HEIC.IntermediateQuality))

	extractor := ocr.NewExtractor(newEngine(cfg.OCR))

	logger.WithFields(map[string]interface{}{
		"modern_heic": caps.ModernHEIC,
		"legacy_heic": caps.LegacyHEIC,
		"strategies":  loader.Strategies(),
		"ocr":         extractor.Version(),
	}).Info("photo pipeline ready")

	return pipeline.New(loader, extractor, imaging.DisplayOptions{
		Format:      cfg.Display.Format,
		JPEGQuality: cfg.Display.JPEGQuality,
	})
}

// newEngine starts the OCR engine, or returns an engine that reports why it
// could not start. The service keeps running without OCR.
func newEngine(cfg config.OCRConfig) ocr.Engine {
	tess, err := ocr.NewTesseract(ocr.TesseractConfig{
		Languages:      cfg.Languages,
		TessdataPrefix: cfg.TessdataPrefix,
		PageSegMode:    cfg.PageSegMode,
	})
	if err != nil {
		logger.Warn("OCR disabled: %v", err)
		return ocr.Unavailable(err)
	}
	return tess
}
