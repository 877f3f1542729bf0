// Package imaging turns untrusted upload bytes into the one canonical pixel
// buffer that every downstream consumer reads.
//
// The package has three stages, each a recovery boundary of its own:
//
//   - Loader.Load decodes raw bytes with a priority-ordered chain of
//     strategies and returns either an *Image or a *DecodeFailure.
//   - Normalize applies the EXIF orientation and converts to RGB, producing
//     the canonical Image. It is pure and idempotent.
//   - EncodeForDisplay and EncodeCanonical re-encode the canonical Image for
//     inline display and fall back to the original bytes on any failure.
//
// # Coordinate System
//
// Pixel coordinates are 0-based with (0,0) at the top-left corner. Bounds of
// every Image start at (0,0).
//
// # HEIC Support
//
// Two optional HEIC codecs can be compiled in:
//
//   - modern: libheif via github.com/gen2brain/heic. Excluded with the
//     "noheic" build tag.
//   - legacy: libde265 via github.com/jdeng/goheif. Needs cgo; excluded with
//     the "nolegacyheic" build tag.
//
// Which codecs may be used is fixed at startup in a Capabilities value. The
// legacy codec is never tried when the modern one is available.
//
// # Thread Safety
//
// Loader and Image are immutable after construction and safe for concurrent
// use. Pixels returns the shared buffer; callers must not write to it.
//
// # Error Handling
//
// Load always reports failure as a *DecodeFailure, which lists each
// strategy's error and offers a Hint for operators. Panics raised inside a
// decoder surface as *StrategyPanic attempts.
package imaging
