package cli

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tapcolour/internal/camera"
	"github.com/jmylchreest/tapcolour/internal/capture"
	tcimage "github.com/jmylchreest/tapcolour/internal/image"
	"github.com/jmylchreest/tapcolour/internal/sampler"
	httputil "github.com/jmylchreest/tapcolour/internal/util/http"
	"github.com/jmylchreest/tapcolour/internal/util/imagecache"
)

// pipelineOptions selects how a capture pipeline is assembled.
type pipelineOptions struct {
	Window   int
	Strategy string
	Timeout  time.Duration

	Cache    bool
	CacheDir string

	// PublicOnly restricts URL frames to public hosts.
	PublicOnly bool
}

func (c *Config) pipelineOptions() pipelineOptions {
	return pipelineOptions{
		Window:   c.Window,
		Strategy: c.Strategy,
		Timeout:  c.Timeout,
		Cache:    c.Cache,
		CacheDir: c.CacheDir,
	}
}

// newController wires a file-backed camera for source to a sampler reading
// through the same image loader.
func newController(source string, opts pipelineOptions, logger hclog.Logger) (*capture.Controller, error) {
	fetch := httputil.FetchOptions{PublicOnly: opts.PublicOnly}
	loader := tcimage.NewSmartLoader().WithFetchOptions(fetch)

	s, err := sampler.New(tcimage.NewCropper(loader),
		sampler.WithWindow(opts.Window),
		sampler.WithStrategy(sampler.Strategy(opts.Strategy)),
		sampler.WithTimeout(opts.Timeout),
		sampler.WithLogger(logger.Named("sampler")),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid sampler configuration: %w", err)
	}

	cam := camera.NewFileCamera(source, loader, logger.Named("camera"))
	if opts.Cache {
		cam.WithCache(imagecache.CacheOptions{CacheDir: opts.CacheDir, Fetch: fetch})
	}

	return capture.New(cam, s,
		capture.WithTimeout(opts.Timeout),
		capture.WithLogger(logger.Named("capture")),
	)
}
