package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// credentialProperties are the optional per-call Azure credentials. Values
// left out fall back to the server configuration.
func credentialProperties(props map[string]interface{}) map[string]interface{} {
	props["api_key"] = map[string]interface{}{
		"type":        "string",
		"description": "Azure Computer Vision API key (background removal only)",
	}
	props["location"] = map[string]interface{}{
		"type":        "string",
		"description": "Azure region of the resource, e.g. westeurope (background removal only)",
	}
	props["endpoint"] = map[string]interface{}{
		"type":        "string",
		"description": "Azure Computer Vision endpoint URL (background removal only)",
	}
	return props
}

var enhancementTypes = []string{"background", "blackwhite", "colorful", "cartoon"}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Upload
		{
			Name:        "image_load",
			Description: "Validate and load an image file (jpeg, png, webp or gif, at most 10 MB by default) and return its dimensions, format and size.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Enhancement
		{
			Name:        "image_enhance",
			Description: "Apply one enhancement to an image: background (remove the background with Azure Computer Vision), blackwhite (grayscale), colorful (boost saturation) or cartoon (outlines plus reduced colour palette). Returns the result as base64, or writes it to output_path.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": credentialProperties(map[string]interface{}{
					"path": pathProperty(),
					"type": map[string]interface{}{
						"type":        "string",
						"enum":        enhancementTypes,
						"description": "Enhancement to apply",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"png", "jpeg"},
						"description": "Output format for local enhancements (default png)",
						"default":     "png",
					},
					"output_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional file to write the result to instead of returning it inline",
					},
				}),
				"required": []string{"path", "type"},
			},
		},
		{
			Name:        "image_enhance_batch",
			Description: "Apply several enhancements to the same image concurrently. Results are returned in the order requested. Defaults to blackwhite, colorful and cartoon.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": credentialProperties(map[string]interface{}{
					"path": pathProperty(),
					"types": map[string]interface{}{
						"type": "array",
						"items": map[string]interface{}{
							"type": "string",
							"enum": enhancementTypes,
						},
						"description": "Enhancements to apply",
					},
					"format": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"png", "jpeg"},
						"description": "Output format for local enhancements (default png)",
						"default":     "png",
					},
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Optional directory to write each result to, using its suggested file name",
					},
				}),
				"required": []string{"path"},
			},
		},

		// Viewing
		{
			Name:        "image_zoom",
			Description: "Render an image at a zoom level between 0.5 and 2.0 (steps of 0.1), optionally panned to a region. Returns base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"zoom": map[string]interface{}{
						"type":        "number",
						"description": "Zoom level (default 1.0)",
						"default":     1.0,
					},
					"steps": map[string]interface{}{
						"type":        "integer",
						"description": "Optional zoom in (positive) or out (negative) steps of 0.1 applied to zoom",
					},
					"region": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"x1": map[string]interface{}{"type": "integer"},
							"y1": map[string]interface{}{"type": "integer"},
							"x2": map[string]interface{}{"type": "integer"},
							"y2": map[string]interface{}{"type": "integer"},
						},
						"required":    []string{"x1", "y1", "x2", "y2"},
						"description": "Optional region to pan to before zooming",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_sample_color",
			Description: "Get the exact color at a specific pixel coordinate. Returns RGB, hex, and HSL values.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "image_compare",
			Description: "Compare an original image with its enhanced version pixel by pixel. Both images must have the same dimensions.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"original": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the original image",
					},
					"enhanced": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the enhanced image",
					},
				},
				"required": []string{"original", "enhanced"},
			},
		},
		{
			Name:        "image_edge_preview",
			Description: "Render the outline layer the cartoon enhancement would draw for an image. Edge pixels are black, others white.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
