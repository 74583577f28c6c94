package imaging

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
)

// MaxUploadBytes is the default upload size limit.
const MaxUploadBytes int64 = 10 << 20

var (
	// ErrUnsupportedFormat is returned for uploads that are not PNG, JPEG,
	// GIF or WebP, and for unknown output formats.
	ErrUnsupportedFormat = errors.New("unsupported image format")

	// ErrTooLarge is returned for uploads above the size limit.
	ErrTooLarge = errors.New("image file too large")
)

var extensionFormats = map[string]string{
	".png":  "png",
	".jpg":  "jpeg",
	".jpeg": "jpeg",
	".gif":  "gif",
	".webp": "webp",
}

// FormatFromPath returns the accepted format implied by path's extension.
func FormatFromPath(path string) (string, bool) {
	f, ok := extensionFormats[strings.ToLower(filepath.Ext(path))]
	return f, ok
}

// UploadInfo describes an upload that passed validation.
type UploadInfo struct {
	Path      string `json:"path"`
	Format    string `json:"format"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	SizeBytes int64  `json:"size_bytes"`
	Size      string `json:"size"`
}

// ValidateUpload checks that path is an accepted image no larger than
// maxBytes. A maxBytes of zero or less selects MaxUploadBytes.
//
// The format is sniffed from the file header, not the extension, so a PNG
// renamed to .jpg is still accepted as a PNG. Only the header is decoded.
func ValidateUpload(path string, maxBytes int64) (*UploadInfo, error) {
	if maxBytes <= 0 {
		maxBytes = MaxUploadBytes
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if stat.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if stat.Size() > maxBytes {
		return nil, fmt.Errorf("%w: %s is %s, maximum size is %s", ErrTooLarge,
			filepath.Base(path), humanize.IBytes(uint64(stat.Size())), humanize.IBytes(uint64(maxBytes)))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, format, err := image.DecodeConfig(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: please upload jpeg, png, webp or gif", ErrUnsupportedFormat, filepath.Base(path))
	}

	switch format {
	case "png", "jpeg", "gif", "webp":
	default:
		return nil, fmt.Errorf("%w: %s is %s, please upload jpeg, png, webp or gif", ErrUnsupportedFormat, filepath.Base(path), format)
	}

	return &UploadInfo{
		Path:      path,
		Format:    format,
		Width:     cfg.Width,
		Height:    cfg.Height,
		SizeBytes: stat.Size(),
		Size:      humanize.IBytes(uint64(stat.Size())),
	}, nil
}
