package pixels

import "sort"

// Transform maps one pixel buffer to a new buffer of the same dimensions.
// Implementations must not modify src.
type Transform func(src *Buffer) *Buffer

var transforms = map[string]Transform{
	"grayscale": Grayscale,
	"saturate":  BoostSaturation,
	"cartoon":   Cartoon,
	"edges":     EdgeMap,
	"quantize":  Quantize,
}

// Lookup returns the transform registered under name.
func Lookup(name string) (Transform, bool) {
	t, ok := transforms[name]
	return t, ok
}

// Names returns the registered transform names in sorted order.
func Names() []string {
	names := make([]string, 0, len(transforms))
	for name := range transforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
