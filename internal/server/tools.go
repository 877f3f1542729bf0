package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the photo (JPEG, PNG, HEIC, ...)",
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "photo_inspect",
			Description: "Run the full pipeline on a photo: GPS position from EXIF, text recognized in the upright image, and a display-ready JPEG as base64. Each output fails independently.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathSchema(),
					"include_image": map[string]interface{}{
						"type":        "boolean",
						"description": "Include the base64 display image in the result. Default true",
						"default":     true,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "photo_gps",
			Description: "Read the GPS position embedded in a photo's EXIF metadata as signed decimal degrees. Works even when the pixels cannot be decoded.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathSchema(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "photo_ocr",
			Description: "Recognize the text in a photo after applying its EXIF orientation. Lines are returned in detection order.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathSchema(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "photo_info",
			Description: "Report how a photo decodes: which strategy succeeded, format, stored dimensions, color mode, EXIF orientation, or why decoding failed.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathSchema(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "photo_capabilities",
			Description: "List the HEIC codecs compiled in and enabled, the decode strategy chain, and the OCR engine status.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

// handleToolsList returns the available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
