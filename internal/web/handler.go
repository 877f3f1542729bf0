package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/ironsheep/photoscan/internal/gps"
	"github.com/ironsheep/photoscan/internal/imaging"
	"github.com/ironsheep/photoscan/internal/logger"
	"github.com/ironsheep/photoscan/internal/ocr"
	"github.com/ironsheep/photoscan/internal/pipeline"
)

//go:embed templates/index.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// formField is the multipart field carrying the photo.
const formField = "image"

// Handler serves the upload surface.
type Handler struct {
	pipeline       *pipeline.Pipeline
	maxUploadBytes int64
}

// New creates a Handler. Uploads larger than maxUploadBytes are rejected.
func New(p *pipeline.Pipeline, maxUploadBytes int64) *Handler {
	return &Handler{pipeline: p, maxUploadBytes: maxUploadBytes}
}

// Routes returns the handler tree wrapped in request logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.Index)
	mux.HandleFunc("/api/inspect", h.Inspect)
	mux.HandleFunc("/api/capabilities", h.Capabilities)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return logRequests(mux)
}

// page is the data rendered by the index template.
type page struct {
	Submitted bool
	GPS       gps.Coordinate
	OCRText   string
	ImageSrc  template.URL
	Hint      string
}

// Index renders the form and, after an upload, the three results.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.render(w, page{})
	case http.MethodPost:
		raw, err := h.readUpload(w, r)
		if err != nil {
			if status := uploadStatus(err); status != http.StatusBadRequest {
				http.Error(w, err.Error(), status)
				return
			}
			// No file chosen: show the empty form again.
			logger.Debug("upload without a file: %v", err)
			h.render(w, page{})
			return
		}

		res := h.pipeline.Process(r.Context(), raw)
		h.render(w, page{
			Submitted: true,
			GPS:       res.GPS,
			OCRText:   res.OCRText,
			ImageSrc:  template.URL("data:" + res.ImageMIME + ";base64," + res.ImageBase64),
			Hint:      res.Hint,
		})
	default:
		http.Error(w, "GET or POST only", http.StatusMethodNotAllowed)
	}
}

// Inspect returns the pipeline result for an upload as JSON.
func (h *Handler) Inspect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}

	raw, err := h.readUpload(w, r)
	if err != nil {
		writeJSON(w, uploadStatus(err), map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, h.pipeline.Process(r.Context(), raw))
}

// capabilities is the /api/capabilities response.
type capabilities struct {
	HEIC       imaging.Capabilities `json:"heic"`
	Strategies []string             `json:"strategies"`
	OCR        ocr.Info             `json:"ocr"`
}

// Capabilities reports the enabled codecs and the OCR engine.
func (h *Handler) Capabilities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "GET only", http.StatusMethodNotAllowed)
		return
	}
	loader := h.pipeline.Loader()
	writeJSON(w, http.StatusOK, capabilities{
		HEIC:       loader.Capabilities(),
		Strategies: loader.Strategies(),
		OCR:        h.pipeline.Extractor().Info(),
	})
}

var errNoFile = errors.New("no image uploaded")

// readUpload returns the bytes of the "image" form field.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		return nil, fmt.Errorf("failed to parse upload: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile(formField)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errNoFile, err)
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if buf.Len() == 0 {
		return nil, errNoFile
	}
	return buf.Bytes(), nil
}

func uploadStatus(err error) int {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

func (h *Handler) render(w http.ResponseWriter, p page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, p); err != nil {
		logger.Error("failed to render page: %v", err)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
