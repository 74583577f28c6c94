// Package pixels implements the local enhancement transforms over raw RGBA
// pixel buffers.
//
// Every transform has the same shape: it reads a *Buffer and returns a new
// *Buffer of identical dimensions. Transforms never modify their input, hold
// no state, and are deterministic, so any number of them may run in
// parallel on independently owned buffers.
//
// # Transforms
//
//   - Grayscale: unweighted average of R, G and B
//   - BoostSaturation: HSL round trip with saturation scaled by 1.5
//   - Cartoon: red-channel Sobel outlines over a colour-quantised image
//
// # Sample Range
//
// All samples are 8-bit. Floating point intermediates are rounded to the
// nearest integer (ties to even) and clamped into [0, 255] before they are
// stored, matching the behaviour of a clamped byte array.
//
// # Errors
//
// The transforms themselves cannot fail on a well-formed buffer. Allocation
// of a buffer can: New and Wrap return ErrSurface for dimensions that cannot
// be backed by a drawable surface and ErrMalformed when the sample count
// does not match the dimensions.
package pixels
