package pixels

import "math"

// Fixed cartoon parameters.
const (
	// EdgeThreshold is the Sobel gradient magnitude above which a pixel is
	// drawn as an outline.
	EdgeThreshold = 80

	// QuantizeStep is the spacing of the posterised channel levels.
	QuantizeStep = 40
)

// EdgeMap runs a 3x3 Sobel operator over the red channel of src.
//
// Interior pixels whose gradient magnitude exceeds EdgeThreshold become
// opaque black (an edge); other interior pixels become opaque white. Pixels
// on the one-pixel border are never written and stay zero, i.e. transparent
// black. Buffers narrower or shorter than three pixels have no interior and
// produce an all-zero map.
func EdgeMap(src *Buffer) *Buffer {
	dst := src.blank()
	w, h := src.Width, src.Height
	s, d := src.Pix, dst.Pix

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			// Red samples of the eight neighbours.
			tl := float64(s[src.Offset(x-1, y-1)])
			tc := float64(s[src.Offset(x, y-1)])
			tr := float64(s[src.Offset(x+1, y-1)])
			ml := float64(s[src.Offset(x-1, y)])
			mr := float64(s[src.Offset(x+1, y)])
			bl := float64(s[src.Offset(x-1, y+1)])
			bc := float64(s[src.Offset(x, y+1)])
			br := float64(s[src.Offset(x+1, y+1)])

			gx := -tl + tr - 2*ml + 2*mr - bl + br
			gy := -tl - 2*tc - tr + bl + 2*bc + br

			v := uint8(255)
			if math.Sqrt(gx*gx+gy*gy) > EdgeThreshold {
				v = 0
			}
			i := dst.Offset(x, y)
			d[i], d[i+1], d[i+2], d[i+3] = v, v, v, 255
		}
	}
	return dst
}

// Quantize rounds every R, G and B sample to the nearest multiple of
// QuantizeStep, clamped to 255. Alpha is copied unchanged.
func Quantize(src *Buffer) *Buffer {
	dst := src.blank()
	s, d := src.Pix, dst.Pix
	for i := 0; i+3 < len(s); i += BytesPerPixel {
		d[i] = quantize(s[i])
		d[i+1] = quantize(s[i+1])
		d[i+2] = quantize(s[i+2])
		d[i+3] = s[i+3]
	}
	return dst
}

func quantize(v uint8) uint8 {
	return clampByte(math.Round(float64(v)/QuantizeStep) * QuantizeStep)
}

// Cartoon posterises src with Quantize and blacks out every pixel that
// EdgeMap reports as zero. Alpha comes from the quantisation pass.
//
// Border pixels are zero in the edge map, so they come out black as well.
func Cartoon(src *Buffer) *Buffer {
	edges := EdgeMap(src)
	dst := Quantize(src)
	e, d := edges.Pix, dst.Pix
	for i := 0; i+3 < len(d); i += BytesPerPixel {
		if e[i] == 0 {
			d[i], d[i+1], d[i+2] = 0, 0, 0
		}
	}
	return dst
}
