// Package capture coordinates one tap-to-colour transaction: take a photo,
// map the tap into the photo's pixel space, sample it and format the result.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/tapcolour/internal/colour"
	"github.com/jmylchreest/tapcolour/internal/geometry"
)

// DefaultDimensions is used when the camera does not report a photo size.
var DefaultDimensions = geometry.Dimensions{Width: 1920, Height: 1080}

// Photo is a captured image handle and its native pixel size.
// Width and Height are zero when the camera does not report them.
type Photo struct {
	Handle string
	Width  int
	Height int
}

// Camera is the external photo-capture collaborator.
type Camera interface {
	// TakePhoto captures a single frame.
	TakePhoto(ctx context.Context) (*Photo, error)
}

// Sampler resolves the colour at a pixel. It must not fail.
type Sampler interface {
	Sample(ctx context.Context, handle string, pixel image.Point, size image.Point) colour.RGBA
}

// State is a snapshot of the controller's session.
type State struct {
	InFlight bool
	Result   *colour.Result
	Err      *CaptureError
}

// Controller runs at most one capture at a time against a camera.
type Controller struct {
	camera   Camera
	sampler  Sampler
	logger   hclog.Logger
	timeout  time.Duration
	fallback geometry.Dimensions

	mu       sync.Mutex
	inFlight bool
	result   *colour.Result
	err      *CaptureError
	rejected int
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(logger hclog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// WithTimeout bounds the camera and sampling calls of one capture.
// Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// WithDefaultDimensions overrides DefaultDimensions for this controller.
func WithDefaultDimensions(d geometry.Dimensions) Option {
	return func(c *Controller) { c.fallback = d }
}

// New creates an idle Controller.
func New(camera Camera, sampler Sampler, opts ...Option) (*Controller, error) {
	if camera == nil {
		return nil, fmt.Errorf("camera cannot be nil")
	}
	if sampler == nil {
		return nil, fmt.Errorf("sampler cannot be nil")
	}

	c := &Controller{
		camera:   camera,
		sampler:  sampler,
		logger:   hclog.NewNullLogger(),
		fallback: DefaultDimensions,
	}
	for _, opt := range opts {
		opt(c)
	}

	if !c.fallback.Valid() {
		return nil, fmt.Errorf("invalid default dimensions %s", c.fallback)
	}
	if c.timeout < 0 {
		return nil, fmt.Errorf("timeout cannot be negative: %s", c.timeout)
	}

	return c, nil
}

// Capture samples the colour under tap, where tap is in the logical units of
// a view of size view.
//
// If a capture is already running the call returns (nil, nil) without
// touching the camera. Otherwise the outcome is stored in the session and
// returned.
func (c *Controller) Capture(ctx context.Context, tap geometry.Point, view geometry.Dimensions) (*colour.Result, error) {
	if !c.begin() {
		c.logger.Debug("capture already in flight, ignoring tap", "tap", tap)
		return nil, nil
	}

	id := uuid.NewString()
	logger := c.logger.With("capture_id", id)
	logger.Debug("capture started", "tap", tap, "view", view)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	result, cerr := c.run(ctx, logger, tap, view)
	c.finish(result, cerr)

	if cerr != nil {
		logger.Warn("capture failed", "kind", cerr.Kind, "error", cerr)
		return nil, cerr
	}

	logger.Info("colour captured", "hex", result.Hex, "rgb", result.RGB)
	return result, nil
}

func (c *Controller) run(ctx context.Context, logger hclog.Logger, tap geometry.Point, view geometry.Dimensions) (result *colour.Result, cerr *CaptureError) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			cerr = newError(KindUnknown, fmt.Errorf("panic: %v", r))
		}
	}()

	photo, err := c.takePhoto(ctx)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, newError(KindTimeout, err)
		}
		// A caller that gave up is not a camera failure.
		if ctx.Err() != nil {
			return nil, newError(KindUnknown, err)
		}
		return nil, newError(KindPhotoCaptureFailed, err)
	}

	dims := c.fallback
	if photo.Width > 0 && photo.Height > 0 {
		dims = geometry.Dimensions{Width: float64(photo.Width), Height: float64(photo.Height)}
	} else {
		logger.Debug("camera did not report dimensions, using default", "default", dims)
	}

	mapped, err := geometry.MapTapToImage(tap, view, dims)
	if err != nil {
		return nil, newError(KindUnknown, err)
	}
	pixel := geometry.ClampToImage(mapped, dims).Pixel()
	size := image.Pt(int(dims.Width), int(dims.Height))
	logger.Debug("tap mapped to image", "pixel", pixel, "image", dims)

	rgba := c.sampler.Sample(ctx, photo.Handle, pixel, size)

	// Sampling absorbs its own failures, but a deadline that passed while
	// it ran still means the reading cannot be trusted.
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, newError(KindTimeout, err)
		}
		return nil, newError(KindUnknown, err)
	}

	r := colour.FromRGBA(rgba)
	return &r, nil
}

// takePhoto calls the camera, giving up when ctx is done even if the camera
// ignores cancellation.
func (c *Controller) takePhoto(ctx context.Context) (*Photo, error) {
	type photoResult struct {
		photo *Photo
		err   error
	}

	done := make(chan photoResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- photoResult{err: fmt.Errorf("camera panic: %v", r)}
			}
		}()
		photo, err := c.camera.TakePhoto(ctx)
		done <- photoResult{photo: photo, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		if res.photo == nil || res.photo.Handle == "" {
			return nil, errors.New("camera returned no image")
		}
		return res.photo, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func isTimeout(ctx context.Context, err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded)
}

func (c *Controller) begin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight {
		c.rejected++
		return false
	}
	c.inFlight = true
	return true
}

func (c *Controller) finish(result *colour.Result, cerr *CaptureError) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.inFlight = false
	c.result = result
	c.err = cerr
}

// Clear drops the stored result and error. An in-flight capture will
// overwrite the cleared state when it completes.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.result = nil
	c.err = nil
}

// InFlight reports whether a capture is running.
func (c *Controller) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// State returns a snapshot of the session.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := State{InFlight: c.inFlight, Err: c.err}
	if c.result != nil {
		r := *c.result
		s.Result = &r
	}
	return s
}

// Rejected returns how many taps were ignored because a capture was running.
func (c *Controller) Rejected() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rejected
}
