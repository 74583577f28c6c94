package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/image-enhance-mcp/internal/config"
	"github.com/ironsheep/image-enhance-mcp/internal/enhance"
)

// createTestImageFile creates a test image file and returns its path
func createTestImageFile(t *testing.T, width, height int, c color.Color) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}

	path := filepath.Join(t.TempDir(), "upload.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// fakeProvider returns a fixed image instead of calling Azure.
type fakeProvider struct {
	out   []byte
	err   error
	creds *enhance.Credentials
}

func (p *fakeProvider) RemoveBackground(context.Context, []byte) ([]byte, error) {
	return p.out, p.err
}

func newFakeServer(t *testing.T, cfg *config.Config, p *fakeProvider) *Server {
	t.Helper()
	e := enhance.New(func(c enhance.Credentials) (enhance.Provider, error) {
		p.creds = &c
		return p, nil
	})
	return New(cfg, WithEnhancer(e))
}

// callTool runs a tools/call request and returns the decoded JSON result or
// the error response.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) (map[string]interface{}, *MCPError) {
	t.Helper()

	paramsJSON, _ := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": args,
	})
	resp := s.handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	if resp.Error != nil {
		return nil, resp.Error
	}

	result := resp.Result.(map[string]interface{})
	content := result["content"].([]map[string]interface{})
	if len(content) != 1 || content[0]["type"] != "text" {
		t.Fatalf("unexpected content: %v", content)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(content[0]["text"].(string)), &decoded); err != nil {
		t.Fatalf("tool result is not JSON: %v", err)
	}
	return decoded, nil
}

func mustCallTool(t *testing.T, s *Server, name string, args map[string]interface{}) map[string]interface{} {
	t.Helper()
	result, mcpErr := callTool(t, s, name, args)
	if mcpErr != nil {
		t.Fatalf("%s failed: %s (%v)", name, mcpErr.Message, mcpErr.Data)
	}
	return result
}

func decodeImage(t *testing.T, b64 interface{}) image.Image {
	t.Helper()
	s, ok := b64.(string)
	if !ok || s == "" {
		t.Fatalf("missing image_base64: %v", b64)
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid image: %v", err)
	}
	return img
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	result := mustCallTool(t, s, "image_load", map[string]interface{}{"path": imgPath})

	if result["width"] != float64(100) || result["height"] != float64(80) {
		t.Errorf("dimensions: got %vx%v, want 100x80", result["width"], result["height"])
	}
	if result["format"] != "png" {
		t.Errorf("format: got %v, want png", result["format"])
	}
	if size, _ := result["size"].(string); !strings.HasSuffix(size, "B") {
		t.Errorf("size: got %v", result["size"])
	}
}

func TestHandleToolsCall_ImageLoadTooLarge(t *testing.T) {
	s := New(&config.Config{MaxUploadBytes: 64})
	imgPath := createTestImageFile(t, 100, 80, color.RGBA{255, 0, 0, 255})

	_, mcpErr := callTool(t, s, "image_load", map[string]interface{}{"path": imgPath})
	if mcpErr == nil {
		t.Fatal("expected error for oversized upload")
	}
	if mcpErr.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", mcpErr.Code)
	}
}

func TestHandleToolsCall_ImageDimensions(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 200, 150, color.RGBA{0, 255, 0, 255})

	result := mustCallTool(t, s, "image_dimensions", map[string]interface{}{"path": imgPath})

	if result["width"] != float64(200) || result["height"] != float64(150) {
		t.Errorf("dimensions: got %vx%v, want 200x150", result["width"], result["height"])
	}
}

func TestHandleToolsCall_ImageEnhance(t *testing.T) {
	tests := []struct {
		name     string
		typ      string
		in       color.RGBA
		want     color.NRGBA
		fileName string
	}{
		{"blackwhite", "blackwhite", color.RGBA{255, 0, 0, 255}, color.NRGBA{85, 85, 85, 255}, "black-and-white.png"},
		{"colorful", "colorful", color.RGBA{200, 100, 100, 255}, color.NRGBA{225, 75, 75, 255}, "color-enhanced.png"},
		{"cartoon", "cartoon", color.RGBA{130, 70, 10, 255}, color.NRGBA{120, 80, 0, 255}, "cartoon-style.png"},
		{"case insensitive", "Cartoon", color.RGBA{130, 70, 10, 255}, color.NRGBA{120, 80, 0, 255}, "cartoon-style.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(nil)
			imgPath := createTestImageFile(t, 6, 4, tt.in)

			result := mustCallTool(t, s, "image_enhance", map[string]interface{}{
				"path": imgPath,
				"type": tt.typ,
			})

			if result["file_name"] != tt.fileName {
				t.Errorf("file_name: got %v, want %s", result["file_name"], tt.fileName)
			}
			if result["mime_type"] != "image/png" {
				t.Errorf("mime_type: got %v", result["mime_type"])
			}
			if result["message"] == "" || result["loading_text"] == "" {
				t.Errorf("missing messages: %v", result)
			}

			img := decodeImage(t, result["image_base64"])
			got := color.NRGBAModel.Convert(img.At(2, 2)).(color.NRGBA)
			if got != tt.want {
				t.Errorf("pixel (2,2): got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHandleToolsCall_ImageEnhanceOutputPath(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 10, 10, color.RGBA{255, 0, 0, 255})
	outPath := filepath.Join(t.TempDir(), "bw.png")

	result := mustCallTool(t, s, "image_enhance", map[string]interface{}{
		"path":        imgPath,
		"type":        "blackwhite",
		"output_path": outPath,
	})

	if result["output_path"] != outPath {
		t.Errorf("output_path: got %v, want %s", result["output_path"], outPath)
	}
	if _, ok := result["image_base64"]; ok {
		t.Error("image_base64 should be omitted when writing to disk")
	}

	// The written file is usable by the viewing tools.
	sample := mustCallTool(t, s, "image_sample_color", map[string]interface{}{"path": outPath, "x": 5, "y": 5})
	if sample["hex"] != "#555555" {
		t.Errorf("hex: got %v, want #555555", sample["hex"])
	}

	cmp := mustCallTool(t, s, "image_compare", map[string]interface{}{"original": imgPath, "enhanced": outPath})
	if cmp["pixels_changed"] != float64(100) {
		t.Errorf("pixels_changed: got %v, want 100", cmp["pixels_changed"])
	}
}

func TestHandleToolsCall_ImageEnhanceErrors(t *testing.T) {
	imgPath := createTestImageFile(t, 4, 4, color.RGBA{1, 2, 3, 255})
	textPath := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(textPath, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"unknown type", map[string]interface{}{"path": imgPath, "type": "sepia"}},
		{"missing path", map[string]interface{}{"type": "cartoon"}},
		{"missing file", map[string]interface{}{"path": "/nonexistent/image.png", "type": "cartoon"}},
		{"not an image", map[string]interface{}{"path": textPath, "type": "cartoon"}},
		{"bad format", map[string]interface{}{"path": imgPath, "type": "cartoon", "format": "bmp"}},
		{"background without credentials", map[string]interface{}{"path": imgPath, "type": "background"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(nil)
			_, mcpErr := callTool(t, s, "image_enhance", tt.args)
			if mcpErr == nil {
				t.Fatal("expected error")
			}
			if mcpErr.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", mcpErr.Code)
			}
		})
	}
}

func TestHandleToolsCall_ImageEnhanceBackground(t *testing.T) {
	out := createTestImageFile(t, 12, 9, color.RGBA{0, 0, 0, 0})
	outData, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}

	p := &fakeProvider{out: outData}
	cfg := &config.Config{Azure: config.AzureConfig{Location: "westus", Endpoint: "https://example.com"}}
	s := newFakeServer(t, cfg, p)
	imgPath := createTestImageFile(t, 12, 9, color.RGBA{10, 20, 30, 255})

	result := mustCallTool(t, s, "image_enhance", map[string]interface{}{
		"path":    imgPath,
		"type":    "background",
		"api_key": "per-call-key",
	})

	if result["file_name"] != "background-removed.png" {
		t.Errorf("file_name: got %v", result["file_name"])
	}
	if result["width"] != float64(12) || result["height"] != float64(9) {
		t.Errorf("dimensions: got %vx%v, want 12x9", result["width"], result["height"])
	}

	want := enhance.Credentials{APIKey: "per-call-key", Location: "westus", Endpoint: "https://example.com"}
	if p.creds == nil || *p.creds != want {
		t.Errorf("credentials: got %+v, want %+v", p.creds, want)
	}
}

func TestHandleToolsCall_ImageEnhanceBackgroundError(t *testing.T) {
	p := &fakeProvider{err: errors.New("Access denied due to invalid subscription key.")}
	s := newFakeServer(t, nil, p)
	imgPath := createTestImageFile(t, 4, 4, color.RGBA{1, 2, 3, 255})

	_, mcpErr := callTool(t, s, "image_enhance", map[string]interface{}{
		"path":     imgPath,
		"type":     "background",
		"api_key":  "k",
		"location": "westus",
		"endpoint": "https://example.com",
	})
	if mcpErr == nil {
		t.Fatal("expected error")
	}
	if data, _ := mcpErr.Data.(string); !strings.Contains(data, "Access denied") {
		t.Errorf("error data: got %v", mcpErr.Data)
	}
}

func TestHandleToolsCall_ImageEnhanceBatch(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 8, 8, color.RGBA{200, 100, 100, 255})

	result := mustCallTool(t, s, "image_enhance_batch", map[string]interface{}{
		"path":  imgPath,
		"types": []string{"cartoon", "blackwhite"},
	})

	results, ok := result["results"].([]interface{})
	if !ok || len(results) != 2 {
		t.Fatalf("results: got %v", result["results"])
	}
	for i, want := range []string{"cartoon", "blackwhite"} {
		r := results[i].(map[string]interface{})
		if r["type"] != want {
			t.Errorf("results[%d].type: got %v, want %s", i, r["type"], want)
		}
		decodeImage(t, r["image_base64"])
	}
}

func TestHandleToolsCall_ImageEnhanceBatchDefaults(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 8, 8, color.RGBA{200, 100, 100, 255})
	outDir := t.TempDir()

	result := mustCallTool(t, s, "image_enhance_batch", map[string]interface{}{
		"path":       imgPath,
		"format":     "jpeg",
		"output_dir": outDir,
	})

	results := result["results"].([]interface{})
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for _, name := range []string{"black-and-white.jpg", "color-enhanced.jpg", "cartoon-style.jpg"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("expected %s to be written: %v", name, err)
		}
	}
}

func TestHandleToolsCall_ImageEnhanceBatchNeedsCredentials(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 8, 8, color.RGBA{200, 100, 100, 255})

	_, mcpErr := callTool(t, s, "image_enhance_batch", map[string]interface{}{
		"path":  imgPath,
		"types": []string{"cartoon", "background"},
	})
	if mcpErr == nil {
		t.Fatal("expected error without credentials")
	}
}

func TestHandleToolsCall_ImageZoom(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 40, 20, color.RGBA{0, 0, 255, 255})

	tests := []struct {
		name       string
		args       map[string]interface{}
		wantWidth  float64
		wantHeight float64
		wantZoom   float64
	}{
		{"default", map[string]interface{}{}, 40, 20, 1},
		{"zoom in", map[string]interface{}{"zoom": 2}, 80, 40, 2},
		{"clamped", map[string]interface{}{"zoom": 5}, 80, 40, 2},
		{"step out", map[string]interface{}{"zoom": 1, "steps": -5}, 20, 10, 0.5},
		{"region", map[string]interface{}{"zoom": 2, "region": map[string]int{"x1": 0, "y1": 0, "x2": 10, "y2": 10}}, 20, 20, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.args["path"] = imgPath
			result := mustCallTool(t, s, "image_zoom", tt.args)
			if result["width"] != tt.wantWidth || result["height"] != tt.wantHeight {
				t.Errorf("size: got %vx%v, want %vx%v", result["width"], result["height"], tt.wantWidth, tt.wantHeight)
			}
			if result["zoom"] != tt.wantZoom {
				t.Errorf("zoom: got %v, want %v", result["zoom"], tt.wantZoom)
			}
		})
	}
}

func TestHandleToolsCall_ImageEdgePreview(t *testing.T) {
	s := New(nil)
	imgPath := createTestImageFile(t, 10, 10, color.RGBA{128, 128, 128, 255})

	result := mustCallTool(t, s, "image_edge_preview", map[string]interface{}{"path": imgPath})

	if result["edge_pixels"] != float64(0) {
		t.Errorf("edge_pixels: got %v, want 0 for a flat image", result["edge_pixels"])
	}
	if result["threshold"] != float64(80) {
		t.Errorf("threshold: got %v, want 80", result["threshold"])
	}
	decodeImage(t, result["image_base64"])
}

func TestHandleToolsCall_UnknownTool(t *testing.T) {
	s := New(nil)
	_, mcpErr := callTool(t, s, "nonexistent_tool", map[string]interface{}{})

	if mcpErr == nil {
		t.Fatal("Expected error for unknown tool")
	}
	if mcpErr.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", mcpErr.Code)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New(nil)
	resp := s.handleRequest(context.Background(), &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	})

	if resp.Error == nil {
		t.Fatal("Expected error for invalid params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}
