// Package server implements the MCP (Model Context Protocol) server for image enhancement tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the enhancement pipeline
// through the MCP protocol, so an MCP client can remove backgrounds, convert images
// to black & white, boost their colours or turn them into cartoons.
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
// Upload:
//   - image_load: Validate an upload and get metadata
//   - image_dimensions: Get width and height
//
// Enhancement:
//   - image_enhance: Apply background, blackwhite, colorful or cartoon
//   - image_enhance_batch: Apply several enhancements concurrently
//
// Viewing:
//   - image_zoom: Render at 0.5x to 2x, optionally panned to a region
//   - image_sample_color: Get color at pixel
//   - image_compare: Pixel difference between original and enhanced
//   - image_edge_preview: Outline layer of the cartoon effect
//
// # Credentials
//
// Only background removal calls Azure Computer Vision. Its credentials come
// from the tool arguments (api_key, location, endpoint) with the server
// configuration filling in whatever is left out.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv := server.New(cfg)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
