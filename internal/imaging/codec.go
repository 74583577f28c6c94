package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-enhance-mcp/internal/pixels"
)

// Format is an output encoding for finished buffers.
type Format string

// Supported output formats.
const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
)

// DefaultJPEGQuality is used when encoding FormatJPEG.
const DefaultJPEGQuality = 90

// ErrEncode is returned when a finished buffer cannot be encoded.
var ErrEncode = errors.New("failed to encode image")

// MimeType returns the MIME type for f.
func (f Format) MimeType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	default:
		return "image/png"
	}
}

// ParseFormat maps a user supplied format name to a Format. An empty name
// selects PNG.
func ParseFormat(name string) (Format, error) {
	switch name {
	case "", "png":
		return FormatPNG, nil
	case "jpg", "jpeg":
		return FormatJPEG, nil
	default:
		return "", fmt.Errorf("%w: output format %q", ErrUnsupportedFormat, name)
	}
}

// ToBuffer converts img to a non-premultiplied RGBA pixel buffer whose
// origin is (0,0). The image is always copied.
//
// Returns an error wrapping pixels.ErrSurface if the image is empty or too
// large to allocate.
func ToBuffer(img image.Image) (*pixels.Buffer, error) {
	b := img.Bounds()
	if err := pixels.CheckSurface(b.Dx(), b.Dy()); err != nil {
		return nil, err
	}
	nrgba := imaging.Clone(img)
	return pixels.Wrap(nrgba.Pix, nrgba.Rect.Dx(), nrgba.Rect.Dy())
}

// ToImage exposes buf as an *image.NRGBA. The returned image shares buf's
// storage.
func ToImage(buf *pixels.Buffer) *image.NRGBA {
	return &image.NRGBA{
		Pix:    buf.Pix,
		Stride: buf.Width * pixels.BytesPerPixel,
		Rect:   image.Rect(0, 0, buf.Width, buf.Height),
	}
}

// Decode reads an encoded image and returns it as a pixel buffer along with
// the detected format name ("png", "jpeg", "gif" or "webp").
//
// The header is inspected before the pixels are decoded, so an image whose
// dimensions cannot be allocated fails with pixels.ErrSurface without
// decoding the body.
func Decode(r io.Reader) (*pixels.Buffer, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image: %w", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if err := pixels.CheckSurface(cfg.Width, cfg.Height); err != nil {
		return nil, format, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, format, fmt.Errorf("failed to decode image: %w", err)
	}

	buf, err := ToBuffer(img)
	if err != nil {
		return nil, format, err
	}
	return buf, format, nil
}

// Encode writes buf to w in the requested format. PNG output is lossless,
// so decoding it yields the same samples.
func Encode(w io.Writer, buf *pixels.Buffer, format Format) error {
	var enc imgio.Encoder
	switch format {
	case FormatPNG, "":
		enc = imgio.PNGEncoder()
	case FormatJPEG:
		enc = imgio.JPEGEncoder(DefaultJPEGQuality)
	default:
		return fmt.Errorf("%w: output format %q", ErrUnsupportedFormat, format)
	}

	if err := enc(w, ToImage(buf)); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}

// EncodeBytes encodes buf and returns the encoded bytes.
func EncodeBytes(buf *pixels.Buffer, format Format) ([]byte, error) {
	var out bytes.Buffer
	if err := Encode(&out, buf, format); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// encodeBase64PNG encodes img as PNG and returns it base64 encoded.
func encodeBase64PNG(img image.Image) (string, error) {
	var out bytes.Buffer
	if err := imgio.PNGEncoder()(&out, img); err != nil {
		return "", fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return base64.StdEncoding.EncodeToString(out.Bytes()), nil
}
