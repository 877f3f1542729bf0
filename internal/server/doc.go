// Package server implements the MCP (Model Context Protocol) server for photoscan.
//
// This package provides a JSON-RPC 2.0 server that exposes the photo pipeline
// through the MCP protocol, so MCP-compatible clients can read the position,
// text and pixels of a photo on disk.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - photo_inspect: GPS, recognized text and display image in one call
//   - photo_gps: GPS position from EXIF only
//   - photo_ocr: recognized text only
//   - photo_info: decode diagnostics (strategy, format, size, mode, orientation)
//   - photo_capabilities: enabled HEIC codecs and OCR engine status
//
// # Error Handling
//
// A photo that cannot be decoded is not a tool error: photo_inspect and
// photo_ocr report it in their result, the same way the web surface does.
// Tool errors are reserved for bad arguments and unreadable files, and are
// returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv := server.New(p, version)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
