// Package sampler resolves the colour at a pixel of an opaque image resource.
//
// Sampling never fails outward: any crop, decode or timeout problem yields
// the Neutral mid-grey sample so the capture can still produce a result.
package sampler

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"slices"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tapcolour/internal/colour"
)

// Neutral is returned whenever a sample cannot be resolved.
var Neutral = colour.RGBA{R: 128, G: 128, B: 128, A: 255}

// Cropper is the external crop/decode collaborator.
type Cropper interface {
	// Crop returns the part of the image referenced by handle inside rect.
	// Returned bounds use the source image's coordinate space.
	Crop(ctx context.Context, handle string, rect image.Rectangle) (image.Image, error)
}

// CropperFunc adapts a function to the Cropper interface.
type CropperFunc func(ctx context.Context, handle string, rect image.Rectangle) (image.Image, error)

// Crop calls f.
func (f CropperFunc) Crop(ctx context.Context, handle string, rect image.Rectangle) (image.Image, error) {
	return f(ctx, handle, rect)
}

// Strategy selects how a representative colour is read from the window.
type Strategy string

const (
	// StrategyDecode reads pixel values directly. Deterministic; the default.
	StrategyDecode Strategy = "decode"

	// StrategyDominant clusters the window and takes the largest cluster.
	StrategyDominant Strategy = "dominant"
)

// ValidStrategies returns the supported sampling strategies.
func ValidStrategies() []Strategy {
	return []Strategy{StrategyDecode, StrategyDominant}
}

// Sampler samples colours through a Cropper.
type Sampler struct {
	cropper  Cropper
	window   int
	strategy Strategy
	timeout  time.Duration
	logger   hclog.Logger
}

// Option configures a Sampler.
type Option func(*Sampler)

// WithWindow sets the sampling window size. Only 1 and 3 are accepted.
func WithWindow(size int) Option {
	return func(s *Sampler) { s.window = size }
}

// WithStrategy sets the sampling strategy.
func WithStrategy(strategy Strategy) Option {
	return func(s *Sampler) { s.strategy = strategy }
}

// WithTimeout bounds each crop request. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Sampler) { s.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) Option {
	return func(s *Sampler) { s.logger = logger }
}

// New creates a Sampler. Defaults: 3×3 window, decode strategy, no timeout.
func New(cropper Cropper, opts ...Option) (*Sampler, error) {
	if cropper == nil {
		return nil, fmt.Errorf("cropper cannot be nil")
	}

	s := &Sampler{
		cropper:  cropper,
		window:   3,
		strategy: StrategyDecode,
		logger:   hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.window != 1 && s.window != 3 {
		return nil, fmt.Errorf("invalid sampling window: %d (valid: 1, 3)", s.window)
	}
	if !slices.Contains(ValidStrategies(), s.strategy) {
		return nil, fmt.Errorf("invalid sampling strategy: %s (valid: %v)", s.strategy, ValidStrategies())
	}
	if s.timeout < 0 {
		return nil, fmt.Errorf("timeout cannot be negative: %s", s.timeout)
	}

	return s, nil
}

// Window returns the configured window size.
func (s *Sampler) Window() int { return s.window }

// Strategy returns the configured strategy.
func (s *Sampler) Strategy() Strategy { return s.strategy }

// Sample returns the colour at pixel in the image referenced by handle.
// size is the image's pixel size; pixel is clamped into it before use.
func (s *Sampler) Sample(ctx context.Context, handle string, pixel image.Point, size image.Point) colour.RGBA {
	c, err := s.sample(ctx, handle, pixel, size)
	if err != nil {
		s.logger.Warn("sampling failed, using neutral colour", "handle", handle, "pixel", pixel, "error", err)
		return Neutral
	}
	return c
}

func (s *Sampler) sample(ctx context.Context, handle string, pixel, size image.Point) (c colour.RGBA, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while sampling: %v", r)
		}
	}()

	if size.X <= 0 || size.Y <= 0 {
		return colour.RGBA{}, fmt.Errorf("invalid image size %v", size)
	}

	pixel = clampPixel(pixel, size)
	rect := Window(pixel, s.window, size)

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	crop, err := s.crop(ctx, handle, rect)
	if err != nil {
		return colour.RGBA{}, err
	}
	if crop == nil || crop.Bounds().Empty() {
		return colour.RGBA{}, fmt.Errorf("empty crop for %v", rect)
	}

	s.logger.Debug("cropped sampling window", "handle", handle, "rect", rect, "bounds", crop.Bounds())

	switch s.strategy {
	case StrategyDominant:
		rgb, err := colour.Dominant(crop)
		if err != nil {
			return colour.RGBA{}, fmt.Errorf("dominant colour extraction failed: %w", err)
		}
		return colour.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}, nil
	default:
		return ReadPixel(crop, pixel), nil
	}
}

// crop runs the collaborator but returns as soon as ctx is done, so a hung
// decode cannot block the caller past its deadline.
func (s *Sampler) crop(ctx context.Context, handle string, rect image.Rectangle) (image.Image, error) {
	type cropResult struct {
		img image.Image
		err error
	}

	done := make(chan cropResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- cropResult{err: fmt.Errorf("panic in cropper: %v", r)}
			}
		}()
		img, err := s.cropper.Crop(ctx, handle, rect)
		done <- cropResult{img: img, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("crop failed: %w", res.err)
		}
		return res.img, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("crop abandoned: %w", ctx.Err())
	}
}

// Window returns the size×size rectangle centred on pixel, shifted so it
// stays inside an image of the given size. Images smaller than the window
// yield the whole image.
func Window(pixel image.Point, size int, bounds image.Point) image.Rectangle {
	w := min(size, bounds.X)
	h := min(size, bounds.Y)

	x0 := max(0, min(pixel.X-w/2, bounds.X-w))
	y0 := max(0, min(pixel.Y-h/2, bounds.Y-h))

	return image.Rect(x0, y0, x0+w, y0+h)
}

func clampPixel(p, size image.Point) image.Point {
	return image.Pt(max(0, min(p.X, size.X-1)), max(0, min(p.Y, size.Y-1)))
}

// ReadPixel reads the colour at target from crop. Pure black and pure white
// are often padding artefacts, so if target is degenerate the rest of the
// window is scanned nearest-first for a better candidate. The degenerate
// value is kept when nothing better exists.
func ReadPixel(crop image.Image, target image.Point) colour.RGBA {
	bounds := crop.Bounds()
	if !target.In(bounds) {
		target = image.Pt(
			max(bounds.Min.X, min(target.X, bounds.Max.X-1)),
			max(bounds.Min.Y, min(target.Y, bounds.Max.Y-1)),
		)
	}

	first := at(crop, target)
	if !degenerate(first) {
		return first
	}

	for _, p := range scanOrder(bounds, target) {
		if c := at(crop, p); !degenerate(c) {
			return c
		}
	}
	return first
}

func at(img image.Image, p image.Point) colour.RGBA {
	c := color.NRGBAModel.Convert(img.At(p.X, p.Y)).(color.NRGBA)
	return colour.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func degenerate(c colour.RGBA) bool {
	rgb := c.RGB()
	return rgb.IsBlack() || rgb.IsWhite()
}

// scanOrder lists every point in bounds except target, nearest first.
// Ties are broken row-major so the order is deterministic.
func scanOrder(bounds image.Rectangle, target image.Point) []image.Point {
	points := make([]image.Point, 0, bounds.Dx()*bounds.Dy())
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if p := image.Pt(x, y); p != target {
				points = append(points, p)
			}
		}
	}

	dist := func(p image.Point) int {
		d := p.Sub(target)
		return d.X*d.X + d.Y*d.Y
	}
	slices.SortStableFunc(points, func(a, b image.Point) int {
		return dist(a) - dist(b)
	})
	return points
}
