package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/dots-mcp/internal/detection"
	"github.com/ironsheep/dots-mcp/internal/imaging"
	"github.com/ironsheep/dots-mcp/internal/morphology"
	"github.com/ironsheep/dots-mcp/internal/palette"
	"github.com/ironsheep/dots-mcp/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "dots_process", "image_load").
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
// Tool execution errors return a JSON-RPC error response with code -32000,
// except argument values outside their allowed range, which get -32602.
// A pipeline run that fails is not a tool error: its {"error": ...} record
// is the tool result.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if errors.Is(err, errOutOfRange) {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}
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
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Overlays the per-call options on the server defaults
//  3. Loads image bytes from the cache or the base64 payload
//  4. Runs the pipeline or one of its stages
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Dot extraction
	case "dots_process":
		return s.handleDotsProcess(args)
	case "dots_process_batch":
		return s.handleDotsProcessBatch(args)
	case "dots_skeleton":
		return s.handleDotsSkeleton(args)
	case "dots_palette":
		return s.handleDotsPalette(args)

	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "image_evict":
		return s.handleImageEvict(args)

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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Argument helpers ===

var (
	// errNoImage is returned when a tool call names neither a path nor a payload.
	errNoImage = errors.New("either path or image_base64 is required")

	// errOutOfRange wraps argument values outside their allowed range.
	errOutOfRange = errors.New("argument out of range")
)

// maxPaletteColors bounds dots_palette count. Lloyd's cost grows with K on
// every sampled pixel, and requests are served one at a time.
const maxPaletteColors = 32

// sourceArgs selects the input image of a single-image tool.
type sourceArgs struct {
	Path        string `json:"path"`
	ImageBase64 string `json:"image_base64"`
}

// readImage returns the raw image bytes named by a. Files go through the cache.
func (s *Server) readImage(a sourceArgs) ([]byte, error) {
	switch {
	case a.Path != "":
		return s.cache.LoadBytes(a.Path)
	case a.ImageBase64 != "":
		data, err := imaging.DecodeDataURI(a.ImageBase64)
		if err != nil {
			return nil, fmt.Errorf("image_base64: %w", err)
		}
		return data, nil
	default:
		return nil, errNoImage
	}
}

// loadImage decodes the image named by a. Files are decoded from the cached bytes.
func (s *Server) loadImage(a sourceArgs) (*image.NRGBA, error) {
	if a.Path != "" {
		return s.cache.Load(a.Path)
	}
	data, err := s.readImage(a)
	if err != nil {
		return nil, err
	}
	return imaging.Decode(data)
}

// optionArgs are the per-call overrides of pipeline.Options. Nil fields keep
// the server default.
type optionArgs struct {
	Pad           *bool   `json:"pad"`
	AssetMode     *string `json:"asset_mode"`
	Skeleton      *string `json:"skeleton"`
	PaletteMethod *string `json:"palette_method"`
	PaletteInit   *string `json:"palette_init"`
	Seed          *int64  `json:"seed"`
	TraceSVG      *bool   `json:"trace_svg"`
}

// apply returns base with the overrides in a applied.
func (a optionArgs) apply(base pipeline.Options) (pipeline.Options, error) {
	opts := base
	if a.Pad != nil {
		opts.Pad = *a.Pad
	}
	if a.AssetMode != nil {
		m, err := pipeline.ParseAssetMode(*a.AssetMode)
		if err != nil {
			return opts, err
		}
		opts.Asset = m
	}
	if a.Skeleton != nil {
		st, err := morphology.ParseStrategy(*a.Skeleton)
		if err != nil {
			return opts, err
		}
		opts.Skeleton = st
	}
	if a.PaletteMethod != nil {
		m, err := palette.ParseMethod(*a.PaletteMethod)
		if err != nil {
			return opts, err
		}
		opts.Palette.Method = m
	}
	if a.PaletteInit != nil {
		in, err := palette.ParseInit(*a.PaletteInit)
		if err != nil {
			return opts, err
		}
		opts.Palette.Init = in
	}
	if a.Seed != nil {
		opts.Palette.Seed = *a.Seed
	}
	if a.TraceSVG != nil {
		opts.TraceSVG = *a.TraceSVG
	}
	return opts, nil
}

// === Dot Extraction Handlers ===

type dotsProcessArgs struct {
	sourceArgs
	optionArgs
}

func (s *Server) handleDotsProcess(args json.RawMessage) (interface{}, error) {
	var a dotsProcessArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts, err := a.optionArgs.apply(s.opts)
	if err != nil {
		return nil, err
	}
	data, err := s.readImage(a.sourceArgs)
	if err != nil {
		return nil, err
	}
	return pipeline.Process(data, opts), nil
}

type dotsProcessBatchArgs struct {
	Paths []string `json:"paths"`
	optionArgs
}

// BatchResult is the dots_process_batch result: one record per path, in order.
type BatchResult struct {
	Results []*pipeline.Result `json:"results"`
}

func (s *Server) handleDotsProcessBatch(args json.RawMessage) (interface{}, error) {
	var a dotsProcessBatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if len(a.Paths) == 0 {
		return nil, fmt.Errorf("paths must not be empty")
	}
	opts, err := a.optionArgs.apply(s.opts)
	if err != nil {
		return nil, err
	}

	// Unreadable files get an error record in their slot; the rest run
	// through the pool.
	results := make([]*pipeline.Result, len(a.Paths))
	var inputs [][]byte
	var slots []int
	for i, p := range a.Paths {
		data, err := s.cache.LoadBytes(p)
		if err != nil {
			results[i] = &pipeline.Result{Error: err.Error()}
			continue
		}
		inputs = append(inputs, data)
		slots = append(slots, i)
	}

	pool := s.pool
	if opts != s.opts {
		pool = pipeline.NewPool(opts)
	}
	for j, r := range pool.Process(s.ctx, inputs) {
		results[slots[j]] = r
	}
	return &BatchResult{Results: results}, nil
}

type dotsSkeletonArgs struct {
	sourceArgs
	Pad             *bool   `json:"pad"`
	Skeleton        *string `json:"skeleton"`
	GridSpacing     int     `json:"grid_spacing"`
	ShowCoordinates bool    `json:"show_coordinates"`
	GridColor       string  `json:"grid_color"`
}

// SkeletonResult describes the intermediate stages of one run.
type SkeletonResult struct {
	Width          int                  `json:"width"`
	Height         int                  `json:"height"`
	Threshold      uint8                `json:"threshold"`
	InkPixels      int                  `json:"ink_pixels"`
	SkeletonPixels int                  `json:"skeleton_pixels"`
	Dots           []detection.Waypoint `json:"dots"`

	// Bounds is the bounding box of the main outline, nil when the
	// skeleton has none.
	Bounds *detection.Bounds `json:"bounds,omitempty"`

	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

func (s *Server) handleDotsSkeleton(args json.RawMessage) (interface{}, error) {
	var a dotsSkeletonArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts, err := optionArgs{Pad: a.Pad, Skeleton: a.Skeleton}.apply(s.opts)
	if err != nil {
		return nil, err
	}
	if a.GridColor == "" {
		a.GridColor = "#ff0000"
	}

	img, err := s.loadImage(a.sourceArgs)
	if err != nil {
		return nil, err
	}

	st := pipeline.Analyze(img, opts)

	// Skeleton pixels are drawn black on white, like the line-art asset.
	raster := effect.Invert(st.Skeleton.Gray())
	out := imaging.GridOverlay(raster, a.GridSpacing, a.ShowCoordinates, a.GridColor)

	b64, err := imaging.EncodePNGBase64(out)
	if err != nil {
		return nil, err
	}

	res := &SkeletonResult{
		Width:          st.Canvas.Width(),
		Height:         st.Canvas.Height(),
		Threshold:      st.Threshold,
		InkPixels:      st.Closed.Count(),
		SkeletonPixels: st.Skeleton.Count(),
		Dots:           detection.ExtractWaypoints(st.Skeleton),
		ImageBase64:    b64,
		MimeType:       "image/png",
	}
	if outline := detection.MainContour(detection.FindExternalContours(st.Skeleton)); len(outline) > 0 {
		b := detection.ContourBounds(outline)
		res.Bounds = &b
	}
	return res, nil
}

type dotsPaletteArgs struct {
	sourceArgs
	Method *string `json:"method"`
	Init   *string `json:"init"`
	Seed   *int64  `json:"seed"`
	Count  int     `json:"count"`
}

// PaletteResult is the dots_palette result.
type PaletteResult struct {
	Palette []string `json:"palette"`
}

func (s *Server) handleDotsPalette(args json.RawMessage) (interface{}, error) {
	var a dotsPaletteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Count < 0 || a.Count > maxPaletteColors {
		return nil, fmt.Errorf("%w: count must be between 1 and %d, got %d", errOutOfRange, maxPaletteColors, a.Count)
	}
	opts, err := optionArgs{PaletteMethod: a.Method, PaletteInit: a.Init, Seed: a.Seed}.apply(s.opts)
	if err != nil {
		return nil, err
	}
	if a.Count != 0 {
		opts.Palette.K = a.Count
	}

	img, err := s.loadImage(a.sourceArgs)
	if err != nil {
		return nil, err
	}

	// Same canvas the full pipeline clusters.
	canvas := imaging.Normalize(img, imaging.NormalizeOptions{
		Width:  opts.Width,
		Height: opts.Height,
		Pad:    opts.Pad,
	})
	colors, err := palette.Extract(canvas.Image, opts.Palette)
	if err != nil {
		return nil, err
	}
	return &PaletteResult{Palette: colors}, nil
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

type imageEvictArgs struct {
	Path string `json:"path"`
}

// EvictResult is the image_evict result.
type EvictResult struct {
	// Path is the evicted file; empty when the whole cache was cleared.
	Path string `json:"path,omitempty"`

	// Evicted is the number of files dropped from the cache.
	Evicted int `json:"evicted"`
}

// handleImageEvict drops a file, or every file when no path is given, from
// the cache so the next call reads it from disk again.
func (s *Server) handleImageEvict(args json.RawMessage) (interface{}, error) {
	var a imageEvictArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return &EvictResult{Evicted: s.cache.Clear()}, nil
	}
	res := &EvictResult{Path: a.Path}
	if s.cache.Evict(a.Path) {
		res.Evicted = 1
	}
	return res, nil
}
