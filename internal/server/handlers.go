package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ironsheep/image-enhance-mcp/internal/enhance"
	"github.com/ironsheep/image-enhance-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_enhance").
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
	// Upload
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Enhancement
	case "image_enhance":
		return s.handleImageEnhance(ctx, args)
	case "image_enhance_batch":
		return s.handleImageEnhanceBatch(ctx, args)

	// Viewing
	case "image_zoom":
		return s.handleImageZoom(args)
	case "image_sample_color":
		return s.handleImageSampleColor(args)
	case "image_compare":
		return s.handleImageCompare(args)
	case "image_edge_preview":
		return s.handleImageEdgePreview(args)

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
// On marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Upload Handlers ===

type imagePathArgs struct {
	Path string `json:"path"`
}

// imageLoadResult merges upload validation with the decoded image metadata.
type imageLoadResult struct {
	*imaging.ImageInfo
	Size string `json:"size"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	upload, err := imaging.ValidateUpload(a.Path, s.maxUpload)
	if err != nil {
		return nil, err
	}
	info, err := imaging.LoadImageInfo(s.cache, a.Path)
	if err != nil {
		return nil, err
	}
	info.Format = upload.Format
	return &imageLoadResult{ImageInfo: info, Size: upload.Size}, nil
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Enhancement Handlers ===

type credentialArgs struct {
	APIKey   string `json:"api_key,omitempty"`
	Location string `json:"location,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// credentials returns the request credentials with config values filling in
// whatever the caller left out.
func (s *Server) credentials(a credentialArgs) enhance.Credentials {
	return enhance.Credentials{
		APIKey:   a.APIKey,
		Location: a.Location,
		Endpoint: a.Endpoint,
	}.Merge(s.creds)
}

type imageEnhanceArgs struct {
	Path       string `json:"path"`
	Type       string `json:"type"`
	Format     string `json:"format,omitempty"`
	OutputPath string `json:"output_path,omitempty"`
	credentialArgs
}

// enhanceResult is the tool view of an enhance.Result. The image is inlined
// as base64 unless it was written to disk.
type enhanceResult struct {
	*enhance.Result
	LoadingText string `json:"loading_text"`
	SizeBytes   int    `json:"size_bytes"`
	OutputPath  string `json:"output_path,omitempty"`
	ImageBase64 string `json:"image_base64,omitempty"`
}

func (s *Server) handleImageEnhance(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageEnhanceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	t, err := enhance.ParseType(a.Type)
	if err != nil {
		return nil, err
	}
	format, err := imaging.ParseFormat(a.Format)
	if err != nil {
		return nil, err
	}
	data, err := s.readUpload(a.Path)
	if err != nil {
		return nil, err
	}

	res, err := s.enhancer.Enhance(ctx, enhance.Request{
		Type:        t,
		Image:       data,
		Credentials: s.credentials(a.credentialArgs),
		Format:      format,
	})
	if err != nil {
		return nil, err
	}
	return s.present(res, a.OutputPath)
}

type imageEnhanceBatchArgs struct {
	Path      string   `json:"path"`
	Types     []string `json:"types"`
	Format    string   `json:"format,omitempty"`
	OutputDir string   `json:"output_dir,omitempty"`
	credentialArgs
}

type enhanceBatchResult struct {
	Results []*enhanceResult `json:"results"`
}

func (s *Server) handleImageEnhanceBatch(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageEnhanceBatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	types := make([]enhance.Type, 0, len(a.Types))
	for _, name := range a.Types {
		t, err := enhance.ParseType(name)
		if err != nil {
			return nil, err
		}
		types = append(types, t)
	}
	if len(types) == 0 {
		// Only the local types, so no credentials are needed.
		types = []enhance.Type{enhance.BlackWhite, enhance.Colorful, enhance.Cartoon}
	}

	format, err := imaging.ParseFormat(a.Format)
	if err != nil {
		return nil, err
	}
	data, err := s.readUpload(a.Path)
	if err != nil {
		return nil, err
	}

	results, err := s.enhancer.EnhanceAll(ctx, data, types, s.credentials(a.credentialArgs), format)
	if err != nil {
		return nil, err
	}

	out := &enhanceBatchResult{Results: make([]*enhanceResult, len(results))}
	for i, res := range results {
		var outputPath string
		if a.OutputDir != "" {
			outputPath = filepath.Join(a.OutputDir, res.FileName)
		}
		presented, err := s.present(res, outputPath)
		if err != nil {
			return nil, err
		}
		out.Results[i] = presented
	}
	return out, nil
}

// readUpload validates path against the upload limits and returns its bytes.
func (s *Server) readUpload(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("please select an image first")
	}
	if _, err := imaging.ValidateUpload(path, s.maxUpload); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return data, nil
}

// present writes res to outputPath when given, otherwise inlines it.
func (s *Server) present(res *enhance.Result, outputPath string) (*enhanceResult, error) {
	out := &enhanceResult{
		Result:      res,
		LoadingText: res.Type.LoadingText(),
		SizeBytes:   len(res.Data),
	}
	if outputPath == "" {
		out.ImageBase64 = base64.StdEncoding.EncodeToString(res.Data)
		return out, nil
	}

	if err := os.WriteFile(outputPath, res.Data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write result: %w", err)
	}
	// A previous version of this file may be cached.
	s.cache.Evict(outputPath)
	out.OutputPath = outputPath
	return out, nil
}

// === Viewing Handlers ===

type imageZoomArgs struct {
	Path   string          `json:"path"`
	Zoom   float64         `json:"zoom"`
	Steps  int             `json:"steps,omitempty"`
	Region *imaging.Region `json:"region,omitempty"`
}

func (s *Server) handleImageZoom(args json.RawMessage) (interface{}, error) {
	var a imageZoomArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	zoom := imaging.ClampZoom(a.Zoom)
	if a.Steps != 0 {
		zoom = imaging.StepZoom(zoom, a.Steps)
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.View(img, zoom, a.Region)
}

type imageSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

type imageCompareArgs struct {
	Original string `json:"original"`
	Enhanced string `json:"enhanced"`
}

func (s *Server) handleImageCompare(args json.RawMessage) (interface{}, error) {
	var a imageCompareArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	original, err := s.cache.Load(a.Original)
	if err != nil {
		return nil, err
	}
	enhanced, err := s.cache.Load(a.Enhanced)
	if err != nil {
		return nil, err
	}
	return imaging.CompareImages(original, enhanced)
}

func (s *Server) handleImageEdgePreview(args json.RawMessage) (interface{}, error) {
	var a imagePathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EdgePreview(img)
}
