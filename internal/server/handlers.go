package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/ironsheep/photoscan/internal/gps"
	"github.com/ironsheep/photoscan/internal/imaging"
	"github.com/ironsheep/photoscan/internal/ocr"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "photo_inspect", "photo_gps").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "photo_inspect":
		return s.handlePhotoInspect(ctx, args)
	case "photo_gps":
		return s.handlePhotoGPS(args)
	case "photo_ocr":
		return s.handlePhotoOCR(ctx, args)
	case "photo_info":
		return s.handlePhotoInfo(args)
	case "photo_capabilities":
		return s.handlePhotoCapabilities()
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type photoArgs struct {
	Path string `json:"path"`
}

func readPhoto(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("path is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return raw, nil
}

type photoInspectArgs struct {
	Path         string `json:"path"`
	IncludeImage *bool  `json:"include_image"`
}

func (s *Server) handlePhotoInspect(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a photoInspectArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	raw, err := readPhoto(a.Path)
	if err != nil {
		return nil, err
	}

	res := s.pipeline.Process(ctx, raw)
	if a.IncludeImage != nil && !*a.IncludeImage {
		res.ImageBase64 = ""
	}
	return res, nil
}

// GPSResult is returned by photo_gps.
type GPSResult struct {
	Path      string         `json:"path"`
	Found     bool           `json:"found"`
	GPS       gps.Coordinate `json:"gps"`
	Formatted string         `json:"formatted"`
}

func (s *Server) handlePhotoGPS(args json.RawMessage) (interface{}, error) {
	var a photoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	raw, err := readPhoto(a.Path)
	if err != nil {
		return nil, err
	}

	c := gps.Extract(raw)
	return &GPSResult{
		Path:      a.Path,
		Found:     c.Valid,
		GPS:       c,
		Formatted: c.String(),
	}, nil
}

// OCRResult is returned by photo_ocr.
type OCRResult struct {
	Path    string   `json:"path"`
	Decoded bool     `json:"decoded"`
	Text    string   `json:"text"`
	Lines   []string `json:"lines"`
	Failed  bool     `json:"failed"`
}

func (s *Server) handlePhotoOCR(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a photoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	raw, err := readPhoto(a.Path)
	if err != nil {
		return nil, err
	}

	img, err := s.pipeline.Loader().Load(raw)
	if err != nil {
		return &OCRResult{
			Path:   a.Path,
			Text:   ocr.DecodeFailureMessage,
			Lines:  []string{},
			Failed: true,
		}, nil
	}

	text := s.pipeline.Extractor().Extract(ctx, imaging.Normalize(img))
	lines := text.Lines
	if lines == nil {
		lines = []string{}
	}
	return &OCRResult{
		Path:    a.Path,
		Decoded: true,
		Text:    text.String(),
		Lines:   lines,
		Failed:  text.Failed(),
	}, nil
}

// InfoResult is returned by photo_info.
type InfoResult struct {
	Path string `json:"path"`
	*imaging.Info
}

func (s *Server) handlePhotoInfo(args json.RawMessage) (interface{}, error) {
	var a photoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	raw, err := readPhoto(a.Path)
	if err != nil {
		return nil, err
	}
	return &InfoResult{Path: a.Path, Info: s.pipeline.Loader().Describe(raw)}, nil
}

// CapabilitiesResult is returned by photo_capabilities.
type CapabilitiesResult struct {
	Enabled    imaging.Capabilities `json:"enabled"`
	Compiled   imaging.Capabilities `json:"compiled"`
	Strategies []string             `json:"strategies"`
	OCR        ocr.Info             `json:"ocr"`
}

func (s *Server) handlePhotoCapabilities() (interface{}, error) {
	loader := s.pipeline.Loader()
	return &CapabilitiesResult{
		Enabled:    loader.Capabilities(),
		Compiled:   imaging.Compiled(),
		Strategies: loader.Strategies(),
		OCR:        s.pipeline.Extractor().Info(),
	}, nil
}
