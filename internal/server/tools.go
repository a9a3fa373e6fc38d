package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Property schemas shared by several tools.
var (
	pathProperty = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
	imageBase64Property = map[string]interface{}{
		"type":        "string",
		"description": "Image bytes as base64 or a data: URI. Used when path is not given",
	}
	padProperty = map[string]interface{}{
		"type":        "boolean",
		"description": "Letterbox the picture onto a white canvas of the configured size (default true). When false the canvas is the scaled picture itself",
	}
	skeletonProperty = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"guohall", "erosion"},
		"description": "Skeletonization strategy. guohall thins to connected 1px centerlines; erosion is the classic erode-and-subtract skeleton",
	}
	paletteMethodProperty = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"lloyd", "kmeans", "dominant"},
		"description": "Palette clustering backend (default lloyd)",
	}
	paletteInitProperty = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"random", "plusplus"},
		"description": "Starting centres for lloyd: random points in the color range (default) or k-means++ seeding",
	}
	seedProperty = map[string]interface{}{
		"type":        "integer",
		"description": "Random seed for palette clustering. The same seed always gives the same palette",
	}
)

// pipelineProperties returns the option properties accepted by the dots_process tools.
func pipelineProperties() map[string]interface{} {
	return map[string]interface{}{
		"pad": padProperty,
		"asset_mode": map[string]interface{}{
			"type":        "string",
			"enum":        []string{"binary", "grayscale"},
			"description": "Visual asset returned in image: binary line art (default) or the grayscale canvas",
		},
		"skeleton":       skeletonProperty,
		"palette_method": paletteMethodProperty,
		"palette_init":   paletteInitProperty,
		"seed":           seedProperty,
		"trace_svg": map[string]interface{}{
			"type":        "boolean",
			"description": "Also return an SVG outline of the line art in svg",
		},
	}
}

func withSource(props map[string]interface{}) map[string]interface{} {
	props["path"] = pathProperty
	props["image_base64"] = imageBase64Property
	return props
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	batchProps := pipelineProperties()
	batchProps["paths"] = map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string"},
		"description": "Absolute paths of the image files",
	}

	return []Tool{
		// Dot extraction
		{
			Name: "dots_process",
			Description: "Turn an image into a connect-the-dots puzzle: returns a line-art PNG as a data URI, " +
				"numbered dots (x, y, order) tracing the main outline, a 5-color palette and the canvas size. " +
				"Undecodable input returns {\"error\": ...}.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": withSource(pipelineProperties()),
			},
		},
		{
			Name:        "dots_process_batch",
			Description: "Run dots_process on several image files concurrently. Results come back in the order of paths.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": batchProps,
				"required":   []string{"paths"},
			},
		},
		{
			Name: "dots_skeleton",
			Description: "Diagnostics for the extraction stages: returns the skeleton as a base64 PNG (black lines on white), " +
				"the Otsu threshold, ink and skeleton pixel counts, the dots found and the bounding box of the main outline. " +
				"An optional coordinate grid helps locate features.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSource(map[string]interface{}{
					"pad":      padProperty,
					"skeleton": skeletonProperty,
					"grid_spacing": map[string]interface{}{
						"type":        "integer",
						"description": "Draw a grid line every N pixels. 0 (default) draws no grid",
					},
					"show_coordinates": map[string]interface{}{
						"type":        "boolean",
						"description": "Label grid intersections with their coordinates",
					},
					"grid_color": map[string]interface{}{
						"type":        "string",
						"description": "Grid color as #rrggbb (default #ff0000)",
					},
				}),
			},
		},
		{
			Name:        "dots_palette",
			Description: "Extract the dominant colors of an image as #rrggbb strings.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withSource(map[string]interface{}{
					"method": paletteMethodProperty,
					"init":   paletteInitProperty,
					"seed":   seedProperty,
					"count": map[string]interface{}{
						"type":        "integer",
						"minimum":     1,
						"maximum":     maxPaletteColors,
						"description": "Number of colors (default 5, at most 32)",
					},
				}),
			},
		},

		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and file size. The file is cached for later tool calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
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
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name: "image_evict",
			Description: "Drop an image file from the cache so the next call reads it from disk again. " +
				"Without a path the whole cache is cleared.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
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
