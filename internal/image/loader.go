// Package image provides the crop/decode collaborator used by the sampler.
// Images are addressed by an opaque handle: a local path or an HTTP(S) URL.
package image

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format
	_ "image/jpeg" // Register JPEG format
	_ "image/png"  // Register PNG format
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "golang.org/x/image/bmp"  // Register BMP format
	_ "golang.org/x/image/tiff" // Register TIFF format
	_ "golang.org/x/image/webp" // Register WebP format

	httputil "github.com/jmylchreest/tapcolour/internal/util/http"
)

// Loader handles loading images from a handle.
type Loader interface {
	// Load decodes the image referenced by handle.
	Load(ctx context.Context, handle string) (image.Image, error)
}

// SmartLoader loads images from both local files and HTTP(S) URLs.
type SmartLoader struct {
	fetchOpts httputil.FetchOptions
}

// NewSmartLoader creates a new SmartLoader instance.
func NewSmartLoader() *SmartLoader {
	return &SmartLoader{}
}

// WithFetchOptions sets the options used for URL handles.
func (l *SmartLoader) WithFetchOptions(opts httputil.FetchOptions) *SmartLoader {
	l.fetchOpts = opts
	return l
}

// IsURL reports whether handle is an HTTP(S) URL.
func IsURL(handle string) bool {
	return strings.HasPrefix(handle, "http://") || strings.HasPrefix(handle, "https://")
}

// Load loads an image from either a local file path or HTTP(S) URL.
// Supported formats: JPEG, PNG, GIF, WebP, TIFF, BMP.
func (l *SmartLoader) Load(ctx context.Context, handle string) (image.Image, error) {
	r, err := l.open(ctx, handle)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	img, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (format: %s): %w", format, err)
	}

	return img, nil
}

// Dimensions returns the pixel size of an image without fully decoding it.
func (l *SmartLoader) Dimensions(ctx context.Context, handle string) (width, height int, err error) {
	r, err := l.open(ctx, handle)
	if err != nil {
		return 0, 0, err
	}
	defer r.Close()

	config, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image config: %w", err)
	}

	return config.Width, config.Height, nil
}

func (l *SmartLoader) open(ctx context.Context, handle string) (io.ReadCloser, error) {
	if handle == "" {
		return nil, fmt.Errorf("image handle cannot be empty")
	}

	if IsURL(handle) {
		data, err := httputil.Fetch(ctx, handle, l.fetchOpts)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image from URL: %w", err)
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	info, err := os.Stat(handle)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("image file not found: %s", handle)
		}
		return nil, fmt.Errorf("failed to stat image file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", handle)
	}

	file, err := os.Open(handle) // #nosec G304 - User-specified image path, intended to be read
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	return file, nil
}

// SupportedImageExtensions returns a list of supported image file extensions.
func SupportedImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".tif", ".tiff", ".bmp"}
}

// isImageFile checks if a file has a supported image extension.
func isImageFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(SupportedImageExtensions(), ext)
}

// ScanDirectoryForImages scans a directory and returns all valid image files.
// It does not recurse into subdirectories, but follows symlinks.
func ScanDirectoryForImages(dirPath string) ([]string, error) {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var imageFiles []string
	for _, entry := range entries {
		fullPath := filepath.Join(dirPath, entry.Name())

		// Skip entries we can't stat (broken symlinks, permission issues).
		info, err := os.Stat(fullPath)
		if err != nil || info.IsDir() {
			continue
		}

		if isImageFile(entry.Name()) {
			imageFiles = append(imageFiles, fullPath)
		}
	}

	if len(imageFiles) == 0 {
		return nil, fmt.Errorf("no supported image files found in directory: %s", dirPath)
	}

	slices.Sort(imageFiles)
	return imageFiles, nil
}
