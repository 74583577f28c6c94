package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/image-enhance-mcp/internal/pixels"
)

// ChannelDiff holds the mean absolute difference of each channel.
type ChannelDiff struct {
	R float64 `json:"r"`
	G float64 `json:"g"`
	B float64 `json:"b"`
	A float64 `json:"a"`
}

// CompareResult summarises how an enhanced image differs from its original.
type CompareResult struct {
	Width           int         `json:"width"`
	Height          int         `json:"height"`
	TotalPixels     int         `json:"total_pixels"`
	PixelsChanged   int         `json:"pixels_changed"`
	ChangedPercent  float64     `json:"changed_percent"`
	SimilarityScore float64     `json:"similarity_score"`
	MeanDiff        ChannelDiff `json:"mean_diff"`
}

// CompareImages compares an original image with its enhanced version pixel
// by pixel. Both images must have the same dimensions, which every
// enhancement guarantees.
//
// A pixel counts as changed if any of its four samples differ. Scores are
// rounded the same way the measurement helpers round: similarity to three
// decimals, percentages and mean differences to two.
func CompareImages(original, enhanced image.Image) (*CompareResult, error) {
	a, err := ToBuffer(original)
	if err != nil {
		return nil, fmt.Errorf("original: %w", err)
	}
	b, err := ToBuffer(enhanced)
	if err != nil {
		return nil, fmt.Errorf("enhanced: %w", err)
	}
	return CompareBuffers(a, b)
}

// CompareBuffers is CompareImages for pixel buffers.
func CompareBuffers(a, b *pixels.Buffer) (*CompareResult, error) {
	if a.Width != b.Width || a.Height != b.Height {
		return nil, fmt.Errorf("dimensions differ: %dx%d vs %dx%d", a.Width, a.Height, b.Width, b.Height)
	}

	var sums [4]int
	changed := 0
	for i := 0; i < len(a.Pix); i += pixels.BytesPerPixel {
		diff := false
		for c := 0; c < 4; c++ {
			d := absDiff(a.Pix[i+c], b.Pix[i+c])
			sums[c] += d
			if d != 0 {
				diff = true
			}
		}
		if diff {
			changed++
		}
	}

	total := a.Len()
	mean := func(sum int) float64 {
		return math.Round(float64(sum)/float64(total)*100) / 100
	}

	return &CompareResult{
		Width:           a.Width,
		Height:          a.Height,
		TotalPixels:     total,
		PixelsChanged:   changed,
		ChangedPercent:  math.Round(float64(changed)/float64(total)*10000) / 100,
		SimilarityScore: math.Round((1-float64(changed)/float64(total))*1000) / 1000,
		MeanDiff: ChannelDiff{
			R: mean(sums[0]),
			G: mean(sums[1]),
			B: mean(sums[2]),
			A: mean(sums[3]),
		},
	}, nil
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
