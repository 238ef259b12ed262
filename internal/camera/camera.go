// Package camera provides photo sources for the capture controller.
package camera

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"os"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tapcolour/internal/capture"
	tcimage "github.com/jmylchreest/tapcolour/internal/image"
	"github.com/jmylchreest/tapcolour/internal/util/imagecache"
)

// Sizer reports an image's pixel dimensions.
type Sizer interface {
	Dimensions(ctx context.Context, handle string) (width, height int, err error)
}

// FileCamera "takes a photo" by resolving a source on disk or the network.
// The source may be an image file, a directory of frames (one is picked at
// random per shot) or an HTTP(S) URL.
type FileCamera struct {
	source string
	sizer  Sizer
	logger hclog.Logger

	// pick chooses the frame index for directory sources.
	pick func(n int) (int, error)

	// download stores a URL frame locally; nil passes URLs through.
	download func(ctx context.Context, url string) (string, error)
}

// NewFileCamera creates a FileCamera for source.
func NewFileCamera(source string, sizer Sizer, logger hclog.Logger) *FileCamera {
	if sizer == nil {
		sizer = tcimage.NewSmartLoader()
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &FileCamera{
		source: source,
		sizer:  sizer,
		logger: logger,
		pick:   randomIndex,
	}
}

// WithCache downloads URL frames into the cache before probing them.
// An empty CacheDir uses the default cache location.
func (c *FileCamera) WithCache(opts imagecache.CacheOptions) *FileCamera {
	c.download = func(ctx context.Context, url string) (string, error) {
		return imagecache.DownloadAndCache(ctx, url, opts)
	}
	return c
}

// TakePhoto resolves the source and reports the frame's native size.
// An uncached URL is probed remotely; if that fails the photo is returned
// without dimensions and the controller's default size applies.
func (c *FileCamera) TakePhoto(ctx context.Context) (*capture.Photo, error) {
	if c.source == "" {
		return nil, fmt.Errorf("camera source cannot be empty")
	}

	var (
		handle string
		err    error
	)
	switch {
	case tcimage.IsURL(c.source) && c.download == nil:
		width, height, err := c.sizer.Dimensions(ctx, c.source)
		if err != nil {
			c.logger.Warn("could not probe frame size, default dimensions will be used", "url", c.source, "error", err)
			return &capture.Photo{Handle: c.source}, nil
		}
		c.logger.Debug("photo taken", "handle", c.source, "width", width, "height", height)
		return &capture.Photo{Handle: c.source, Width: width, Height: height}, nil
	case tcimage.IsURL(c.source):
		handle, err = c.download(ctx, c.source)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch frame: %w", err)
		}
		c.logger.Debug("frame cached", "url", c.source, "path", handle)
	default:
		handle, err = c.resolve()
		if err != nil {
			return nil, err
		}
	}

	width, height, err := c.sizer.Dimensions(ctx, handle)
	if err != nil {
		return nil, fmt.Errorf("failed to read frame: %w", err)
	}

	c.logger.Debug("photo taken", "handle", handle, "width", width, "height", height)
	return &capture.Photo{Handle: handle, Width: width, Height: height}, nil
}

func (c *FileCamera) resolve() (string, error) {
	info, err := os.Stat(c.source)
	if err != nil {
		return "", fmt.Errorf("failed to access camera source: %w", err)
	}
	if !info.IsDir() {
		return c.source, nil
	}

	frames, err := tcimage.ScanDirectoryForImages(c.source)
	if err != nil {
		return "", err
	}
	idx, err := c.pick(len(frames))
	if err != nil {
		return "", err
	}
	return frames[idx], nil
}

// randomIndex returns a uniformly random index in [0, n).
func randomIndex(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("frame list is empty")
	}
	i, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("failed to generate random number: %w", err)
	}
	return int(i.Int64()), nil
}
