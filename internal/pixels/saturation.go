package pixels

import "math"

// SaturationFactor is the multiplier applied to HSL saturation by
// BoostSaturation. The boosted value is capped at 1.
const SaturationFactor = 1.5

// BoostSaturation converts every pixel to HSL, multiplies its saturation by
// SaturationFactor (capped at full saturation) and converts it back.
// Alpha is copied unchanged.
//
// Achromatic pixels (R == G == B) have zero saturation and come back
// unchanged.
func BoostSaturation(src *Buffer) *Buffer {
	dst := src.blank()
	s, d := src.Pix, dst.Pix
	for i := 0; i+3 < len(s); i += BytesPerPixel {
		h, sat, l := RGBToHSL(
			float64(s[i])/255,
			float64(s[i+1])/255,
			float64(s[i+2])/255,
		)
		sat = math.Min(sat*SaturationFactor, 1)
		r, g, b := HSLToRGB(h, sat, l)
		d[i] = clampByte(r * 255)
		d[i+1] = clampByte(g * 255)
		d[i+2] = clampByte(b * 255)
		d[i+3] = s[i+3]
	}
	return dst
}

// RGBToHSL converts normalised RGB components (each in [0, 1]) to hue,
// saturation and lightness, each in [0, 1]. Hue is a fraction of a full
// turn, so red is 0 and blue is 2/3.
func RGBToHSL(r, g, b float64) (h, s, l float64) {
	max := math.Max(r, math.Max(g, b))
	min := math.Min(r, math.Min(g, b))
	l = (max + min) / 2

	if max == min {
		return 0, 0, l
	}

	d := max - min
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}

	switch max {
	case r:
		h = (g - b) / d
		if g < b {
			h += 6
		}
	case g:
		h = (b-r)/d + 2
	default:
		h = (r-g)/d + 4
	}
	return h / 6, s, l
}

// HSLToRGB converts hue, saturation and lightness (each in [0, 1]) back to
// normalised RGB components.
func HSLToRGB(h, s, l float64) (r, g, b float64) {
	if s == 0 {
		return l, l, l
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q

	return hueToRGB(p, q, h+1.0/3),
		hueToRGB(p, q, h),
		hueToRGB(p, q, h-1.0/3)
}

// hueToRGB evaluates one channel of the HSL to RGB conversion. t is wrapped
// into [0, 1] first.
func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	default:
		return p
	}
}
