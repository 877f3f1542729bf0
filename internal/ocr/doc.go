// Package ocr extracts printed text from canonical images.
//
// The package separates the engine contract from the request path:
//
//   - Engine is a recognition backend that takes a dense RGB Frame and
//     returns Detections (region, text, confidence) in its own order.
//   - Extractor owns the single process-wide Engine, serializes access to
//     it, and turns whatever happens into a Text value. It never returns an
//     error; failures become a diagnostic string.
//
// # Prerequisites
//
// The Tesseract engine needs cgo, libtesseract and the traineddata for each
// configured language:
//   - Ubuntu/Debian: apt-get install libtesseract-dev tesseract-ocr-tha tesseract-ocr-eng
//   - macOS: brew install tesseract tesseract-lang
//
// Builds without cgo compile a stub whose NewTesseract returns
// ErrOCRNotEnabled; callers fall back to Unavailable and keep serving.
//
// # Line Order
//
// Lines are joined in the order the engine reports them. That is not
// guaranteed to be reading order for multi-column or rotated layouts, and
// Extractor does not re-sort by position.
package ocr
