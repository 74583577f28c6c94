// Package imaging is the image-side plumbing around the pixel transforms.
//
// It loads and caches uploaded images, validates uploads, converts between
// image.Image and pixels.Buffer, encodes finished buffers, and provides the
// helpers a results viewer needs: zoom and pan, colour sampling, a
// before/after comparison and an edge preview.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Pixel Buffers
//
// ToBuffer always produces non-premultiplied RGBA (the image.NRGBA layout).
// Images with a different colour model are converted first, so a buffer
// looks the same regardless of whether the upload was a PNG, JPEG, GIF or
// WebP file.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and can be called concurrently on different images.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Coordinates outside image bounds
//   - Unsupported or oversized uploads (ErrUnsupportedFormat, ErrTooLarge)
//   - Surfaces that cannot be allocated (pixels.ErrSurface)
//   - Encoding failures (ErrEncode)
package imaging
