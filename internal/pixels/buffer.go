package pixels

import (
	"errors"
	"fmt"
	"math"
)

// BytesPerPixel is the number of samples stored for every pixel (R, G, B, A).
const BytesPerPixel = 4

// Surface limits. A request beyond these is treated the same way a browser
// treats a canvas it cannot allocate.
const (
	MaxDimension = 16384
	MaxPixels    = 268435456
)

var (
	// ErrSurface is returned when a buffer of the requested dimensions
	// cannot be allocated.
	ErrSurface = errors.New("cannot allocate pixel surface")

	// ErrMalformed is returned when a sample slice does not match its
	// declared dimensions.
	ErrMalformed = errors.New("malformed pixel buffer")
)

// Buffer is a flat, row-major RGBA pixel buffer with 8 bits per sample.
//
// Samples are non-premultiplied, in the same layout as image.NRGBA.Pix with
// a stride of Width*4. A Buffer produced by New or Wrap always satisfies
// len(Pix) == Width*Height*4.
type Buffer struct {
	Pix    []uint8
	Width  int
	Height int
}

// New allocates a zeroed buffer of the given dimensions.
//
// Returns ErrSurface if either dimension is not positive or the surface
// exceeds MaxDimension / MaxPixels.
func New(width, height int) (*Buffer, error) {
	if err := CheckSurface(width, height); err != nil {
		return nil, err
	}
	return &Buffer{
		Pix:    make([]uint8, width*height*BytesPerPixel),
		Width:  width,
		Height: height,
	}, nil
}

// Wrap validates pix against the given dimensions and returns a Buffer that
// shares it. The caller must not modify pix while transforms read from it.
func Wrap(pix []uint8, width, height int) (*Buffer, error) {
	if err := CheckSurface(width, height); err != nil {
		return nil, err
	}
	if want := width * height * BytesPerPixel; len(pix) != want {
		return nil, fmt.Errorf("%w: got %d samples, want %d for %dx%d",
			ErrMalformed, len(pix), want, width, height)
	}
	return &Buffer{Pix: pix, Width: width, Height: height}, nil
}

// Clone returns a deep copy of b.
func (b *Buffer) Clone() *Buffer {
	pix := make([]uint8, len(b.Pix))
	copy(pix, b.Pix)
	return &Buffer{Pix: pix, Width: b.Width, Height: b.Height}
}

// Offset returns the index of the red sample of pixel (x, y).
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * BytesPerPixel
}

// Len returns the number of pixels in the buffer.
func (b *Buffer) Len() int {
	return b.Width * b.Height
}

// blank allocates an output buffer with the same dimensions as b. The
// dimensions were already validated when b was created.
func (b *Buffer) blank() *Buffer {
	return &Buffer{
		Pix:    make([]uint8, len(b.Pix)),
		Width:  b.Width,
		Height: b.Height,
	}
}

// CheckSurface reports whether a buffer of the given dimensions can be
// allocated, returning an error wrapping ErrSurface if not.
func CheckSurface(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%w: invalid dimensions %dx%d", ErrSurface, width, height)
	}
	if width > MaxDimension || height > MaxDimension || width*height > MaxPixels {
		return fmt.Errorf("%w: %dx%d exceeds limits", ErrSurface, width, height)
	}
	return nil
}

// clampByte rounds v to the nearest integer (ties to even, as a clamped
// byte store does) and clamps it to [0, 255].
func clampByte(v float64) uint8 {
	switch {
	case math.IsNaN(v):
		return 0
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	}
	return uint8(math.RoundToEven(v))
}
