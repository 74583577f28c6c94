package enhance

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/image-enhance-mcp/internal/pixels"
)

var (
	// ErrUnknownType is returned for an enhancement type that is not one of
	// the Types.
	ErrUnknownType = errors.New("unknown enhancement type")

	// ErrMissingCredentials is returned when a remote enhancement is
	// requested without a complete set of credentials.
	ErrMissingCredentials = errors.New("please provide all Azure Computer Vision credentials")
)

// Type is an enhancement the user can choose.
type Type string

// Enhancement types.
const (
	Background Type = "background"
	BlackWhite Type = "blackwhite"
	Colorful   Type = "colorful"
	Cartoon    Type = "cartoon"
)

// Types returns all enhancement types in display order.
func Types() []Type {
	return []Type{Background, BlackWhite, Colorful, Cartoon}
}

// ParseType converts a user supplied name to a Type. Matching is case
// insensitive.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return t, nil
}

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	switch t {
	case Background, BlackWhite, Colorful, Cartoon:
		return true
	}
	return false
}

// Remote reports whether t is processed by the remote vision provider
// rather than locally.
func (t Type) Remote() bool {
	return t == Background
}

// Transform returns the local pixel transform for t, or nil for remote and
// unknown types.
func (t Type) Transform() pixels.Transform {
	switch t {
	case BlackWhite:
		return pixels.Grayscale
	case Colorful:
		return pixels.BoostSaturation
	case Cartoon:
		return pixels.Cartoon
	}
	return nil
}

// LoadingText is shown while t is being processed.
func (t Type) LoadingText() string {
	switch t {
	case Background:
		return "Removing background with Azure Computer Vision..."
	case BlackWhite:
		return "Converting to black & white..."
	case Colorful:
		return "Enhancing colors..."
	case Cartoon:
		return "Converting to cartoon..."
	default:
		return "Processing image..."
	}
}

// CompletionMessage is reported after t finished successfully.
func (t Type) CompletionMessage() string {
	switch t {
	case Background:
		return "Background removed successfully using Azure Computer Vision."
	case BlackWhite:
		return "Image converted to black & white successfully."
	case Colorful:
		return "Colors enhanced successfully."
	case Cartoon:
		return "Image converted to cartoon style successfully."
	default:
		return "Image processed successfully."
	}
}

// FileName is the suggested download name for a PNG result of t.
func (t Type) FileName() string {
	switch t {
	case Background:
		return "background-removed.png"
	case BlackWhite:
		return "black-and-white.png"
	case Colorful:
		return "color-enhanced.png"
	case Cartoon:
		return "cartoon-style.png"
	default:
		return "enhanced-image.png"
	}
}

// Credentials for the remote vision provider.
type Credentials struct {
	APIKey   string `json:"api_key"`
	Location string `json:"location"`
	Endpoint string `json:"endpoint"`
}

// Complete reports whether all three fields are set.
func (c Credentials) Complete() bool {
	return strings.TrimSpace(c.APIKey) != "" &&
		strings.TrimSpace(c.Location) != "" &&
		strings.TrimSpace(c.Endpoint) != ""
}

// Merge returns c with empty fields filled in from fallback.
func (c Credentials) Merge(fallback Credentials) Credentials {
	if c.APIKey == "" {
		c.APIKey = fallback.APIKey
	}
	if c.Location == "" {
		c.Location = fallback.Location
	}
	if c.Endpoint == "" {
		c.Endpoint = fallback.Endpoint
	}
	return c
}
