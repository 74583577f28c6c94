package pixels

// Grayscale replaces R, G and B of every pixel with their truncated
// arithmetic mean. Alpha is copied unchanged.
//
// The output satisfies R == G == B for every pixel, which makes the
// transform idempotent.
func Grayscale(src *Buffer) *Buffer {
	dst := src.blank()
	s, d := src.Pix, dst.Pix
	for i := 0; i+3 < len(s); i += BytesPerPixel {
		avg := uint8((uint16(s[i]) + uint16(s[i+1]) + uint16(s[i+2])) / 3)
		d[i], d[i+1], d[i+2] = avg, avg, avg
		d[i+3] = s[i+3]
	}
	return dst
}
