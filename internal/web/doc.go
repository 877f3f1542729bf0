// Package web serves the photo upload form and its JSON API.
//
// Routes:
//
//	GET  /                  upload form
//	POST /                  multipart field "image"; renders GPS, text and image
//	POST /api/inspect       multipart field "image"; returns the pipeline result as JSON
//	GET  /api/capabilities  HEIC codecs and OCR engine status
//	GET  /healthz           liveness probe
//
// Uploads larger than the configured limit are rejected with 413.
package web
