package imaging

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Zoom limits of the results viewer.
const (
	MinZoom  = 0.5
	MaxZoom  = 2.0
	ZoomStep = 0.1
)

// Region represents a rectangular region within an image.
//
// (X1, Y1) is the top-left corner (inclusive) and (X2, Y2) the bottom-right
// corner (exclusive).
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// ViewResult contains a zoomed (and optionally panned) view of an image.
type ViewResult struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Zoom        float64 `json:"zoom"`
	ImageBase64 string  `json:"image_base64"`
	MimeType    string  `json:"mime_type"`
}

// ClampZoom limits level to [MinZoom, MaxZoom] and rounds it to one
// decimal. A zero level means "not set" and yields 1.
func ClampZoom(level float64) float64 {
	if level == 0 {
		return 1
	}
	level = math.Max(MinZoom, math.Min(MaxZoom, level))
	return math.Round(level*10) / 10
}

// StepZoom moves the zoom level by steps increments of ZoomStep, the way
// the viewer's zoom-in and zoom-out buttons do.
func StepZoom(level float64, steps int) float64 {
	return ClampZoom(ClampZoom(level) + float64(steps)*ZoomStep)
}

// View renders img at the given zoom level. If region is non-nil the view
// is panned to that region first.
//
// The zoom is clamped with ClampZoom and the result is resampled with a
// Lanczos filter. The output is always a base64 PNG.
func View(img image.Image, zoom float64, region *Region) (*ViewResult, error) {
	bounds := img.Bounds()
	zoom = ClampZoom(zoom)

	var view image.Image = img
	if region != nil {
		r := region
		if r.X1 < bounds.Min.X || r.Y1 < bounds.Min.Y || r.X2 > bounds.Max.X || r.Y2 > bounds.Max.Y {
			return nil, fmt.Errorf("view region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
				r.X1, r.Y1, r.X2, r.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
		}
		if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
			return nil, fmt.Errorf("invalid view region: x1 must be < x2, y1 must be < y2")
		}
		view = imaging.Crop(img, image.Rect(r.X1, r.Y1, r.X2, r.Y2))
	}

	if zoom != 1 {
		w := int(math.Round(float64(view.Bounds().Dx()) * zoom))
		h := int(math.Round(float64(view.Bounds().Dy()) * zoom))
		view = imaging.Resize(view, max(w, 1), max(h, 1), imaging.Lanczos)
	}

	encoded, err := encodeBase64PNG(view)
	if err != nil {
		return nil, err
	}

	return &ViewResult{
		Width:       view.Bounds().Dx(),
		Height:      view.Bounds().Dy(),
		Zoom:        zoom,
		ImageBase64: encoded,
		MimeType:    "image/png",
	}, nil
}
