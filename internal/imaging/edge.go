package imaging

import (
	"image"

	"github.com/ironsheep/image-enhance-mcp/internal/pixels"
)

// EdgePreviewResult contains the outline layer of the cartoon effect encoded
// as base64 PNG.
//
// Edge pixels are opaque black, other interior pixels opaque white. The
// one-pixel border is transparent because the Sobel kernel has no full
// neighbourhood there.
type EdgePreviewResult struct {
	// Width of the output image in pixels (same as input).
	Width int `json:"width"`

	// Height of the output image in pixels (same as input).
	Height int `json:"height"`

	// EdgePixels is the number of interior pixels classified as edges.
	EdgePixels int `json:"edge_pixels"`

	// EdgePercent is EdgePixels as a percentage of all pixels.
	EdgePercent float64 `json:"edge_percent"`

	// Threshold is the gradient magnitude an edge had to exceed.
	Threshold int `json:"threshold"`

	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EdgePreview renders the edge map the cartoon effect would use for img.
//
// This is useful for checking why a cartoon result has more or fewer
// outlines than expected: gradients are computed from the red channel only.
func EdgePreview(img image.Image) (*EdgePreviewResult, error) {
	buf, err := ToBuffer(img)
	if err != nil {
		return nil, err
	}

	edges := pixels.EdgeMap(buf)

	count := 0
	for i := 0; i < len(edges.Pix); i += pixels.BytesPerPixel {
		if edges.Pix[i] == 0 && edges.Pix[i+3] == 255 {
			count++
		}
	}

	encoded, err := encodeBase64PNG(ToImage(edges))
	if err != nil {
		return nil, err
	}

	return &EdgePreviewResult{
		Width:       edges.Width,
		Height:      edges.Height,
		EdgePixels:  count,
		EdgePercent: float64(count) / float64(edges.Len()) * 100,
		Threshold:   pixels.EdgeThreshold,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}
