package sampler

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/jmylchreest/tapcolour/internal/colour"
	tcimage "github.com/jmylchreest/tapcolour/internal/image"
)

// frameCropper serves crops of an in-memory image.
func frameCropper(img image.Image) CropperFunc {
	return func(ctx context.Context, handle string, rect image.Rectangle) (image.Image, error) {
		return tcimage.CropImage(img, rect)
	}
}

func solid(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func newSampler(t *testing.T, cropper Cropper, opts ...Option) *Sampler {
	t.Helper()
	s, err := New(cropper, opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return s
}

func TestNewValidation(t *testing.T) {
	crop := frameCropper(solid(1, 1, color.NRGBA{A: 255}))

	if _, err := New(nil); err == nil {
		t.Error("expected error for nil cropper")
	}
	if _, err := New(crop, WithWindow(2)); err == nil {
		t.Error("expected error for window 2")
	}
	if _, err := New(crop, WithStrategy("average")); err == nil {
		t.Error("expected error for unknown strategy")
	}
	if _, err := New(crop, WithTimeout(-time.Second)); err == nil {
		t.Error("expected error for negative timeout")
	}

	s := newSampler(t, crop)
	if s.Window() != 3 || s.Strategy() != StrategyDecode {
		t.Errorf("unexpected defaults: window=%d strategy=%s", s.Window(), s.Strategy())
	}
}

func TestSampleKnownPixel(t *testing.T) {
	img := solid(1920, 1080, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	img.SetNRGBA(720, 405, color.NRGBA{R: 255, G: 87, B: 51, A: 255})

	for _, window := range []int{1, 3} {
		s := newSampler(t, frameCropper(img), WithWindow(window))
		got := s.Sample(context.Background(), "frame", image.Pt(720, 405), image.Pt(1920, 1080))
		if got != (colour.RGBA{R: 255, G: 87, B: 51, A: 255}) {
			t.Errorf("window %d: Sample() = %+v", window, got)
		}
	}
}

func TestSampleClampsPixel(t *testing.T) {
	img := solid(4, 4, color.NRGBA{R: 1, G: 1, B: 1, A: 255})
	img.SetNRGBA(3, 3, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	s := newSampler(t, frameCropper(img), WithWindow(1))
	got := s.Sample(context.Background(), "frame", image.Pt(99, 99), image.Pt(4, 4))
	if got != (colour.RGBA{R: 200, G: 100, B: 50, A: 255}) {
		t.Errorf("Sample() = %+v", got)
	}
}

func TestSampleNeverFails(t *testing.T) {
	tests := []struct {
		name    string
		cropper CropperFunc
		size    image.Point
	}{
		{
			name: "crop error",
			cropper: func(context.Context, string, image.Rectangle) (image.Image, error) {
				return nil, errors.New("unsupported format")
			},
			size: image.Pt(10, 10),
		},
		{
			name: "nil image",
			cropper: func(context.Context, string, image.Rectangle) (image.Image, error) {
				return nil, nil
			},
			size: image.Pt(10, 10),
		},
		{
			name: "empty crop",
			cropper: func(context.Context, string, image.Rectangle) (image.Image, error) {
				return image.NewNRGBA(image.Rectangle{}), nil
			},
			size: image.Pt(10, 10),
		},
		{
			name: "panic",
			cropper: func(context.Context, string, image.Rectangle) (image.Image, error) {
				panic("decoder exploded")
			},
			size: image.Pt(10, 10),
		},
		{
			name:    "zero size",
			cropper: frameCropper(solid(1, 1, color.NRGBA{R: 9, A: 255})),
			size:    image.Pt(0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSampler(t, tt.cropper)
			if got := s.Sample(context.Background(), "frame", image.Pt(1, 1), tt.size); got != Neutral {
				t.Errorf("Sample() = %+v, want %+v", got, Neutral)
			}
		})
	}
}

func TestSampleTimeout(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	hung := CropperFunc(func(ctx context.Context, handle string, rect image.Rectangle) (image.Image, error) {
		<-release
		return nil, errors.New("released")
	})

	s := newSampler(t, hung, WithTimeout(20*time.Millisecond))
	start := time.Now()
	got := s.Sample(context.Background(), "frame", image.Pt(0, 0), image.Pt(10, 10))
	if got != Neutral {
		t.Errorf("Sample() = %+v, want neutral", got)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Sample() took %s, expected timeout to cut it short", elapsed)
	}
}

func TestSampleDominantStrategy(t *testing.T) {
	img := solid(5, 5, color.NRGBA{R: 40, G: 80, B: 120, A: 255})
	img.SetNRGBA(2, 2, color.NRGBA{R: 250, G: 0, B: 0, A: 255})

	s := newSampler(t, frameCropper(img), WithStrategy(StrategyDominant))
	got := s.Sample(context.Background(), "frame", image.Pt(2, 2), image.Pt(5, 5))
	if got != (colour.RGBA{R: 40, G: 80, B: 120, A: 255}) {
		t.Errorf("Sample() = %+v, want majority colour", got)
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name   string
		pixel  image.Point
		size   int
		bounds image.Point
		want   image.Rectangle
	}{
		{name: "centred", pixel: image.Pt(5, 5), size: 3, bounds: image.Pt(10, 10), want: image.Rect(4, 4, 7, 7)},
		{name: "single pixel", pixel: image.Pt(5, 5), size: 1, bounds: image.Pt(10, 10), want: image.Rect(5, 5, 6, 6)},
		{name: "top left corner", pixel: image.Pt(0, 0), size: 3, bounds: image.Pt(10, 10), want: image.Rect(0, 0, 3, 3)},
		{name: "bottom right corner", pixel: image.Pt(9, 9), size: 3, bounds: image.Pt(10, 10), want: image.Rect(7, 7, 10, 10)},
		{name: "image smaller than window", pixel: image.Pt(0, 1), size: 3, bounds: image.Pt(2, 2), want: image.Rect(0, 0, 2, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Window(tt.pixel, tt.size, tt.bounds); got != tt.want {
				t.Errorf("Window() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReadPixelSkipsDegenerate(t *testing.T) {
	black := color.NRGBA{A: 255}
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}

	crop := image.NewNRGBA(image.Rect(4, 4, 7, 7))
	for y := 4; y < 7; y++ {
		for x := 4; x < 7; x++ {
			crop.SetNRGBA(x, y, white)
		}
	}
	crop.SetNRGBA(5, 5, black)
	crop.SetNRGBA(6, 6, color.NRGBA{R: 9, G: 9, B: 9, A: 255})
	crop.SetNRGBA(4, 4, color.NRGBA{R: 1, G: 2, B: 3, A: 255})

	// (4,4) and (6,6) are equidistant from the target; row-major order wins.
	got := ReadPixel(crop, image.Pt(5, 5))
	if got != (colour.RGBA{R: 1, G: 2, B: 3, A: 255}) {
		t.Errorf("ReadPixel() = %+v", got)
	}
}

func TestReadPixelPrefersNearest(t *testing.T) {
	crop := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	for y := range 3 {
		for x := range 3 {
			crop.SetNRGBA(x, y, color.NRGBA{A: 255})
		}
	}
	crop.SetNRGBA(0, 0, color.NRGBA{R: 1, A: 255})
	crop.SetNRGBA(1, 2, color.NRGBA{R: 2, A: 255})

	got := ReadPixel(crop, image.Pt(1, 1))
	if got.R != 2 {
		t.Errorf("ReadPixel() = %+v, want the edge-adjacent candidate", got)
	}
}

func TestReadPixelAcceptsDegenerateAsLastResort(t *testing.T) {
	crop := solid(3, 3, color.NRGBA{A: 255})
	if got := ReadPixel(crop, image.Pt(1, 1)); got != (colour.RGBA{A: 255}) {
		t.Errorf("ReadPixel() = %+v, want black", got)
	}
}
