package colour

import (
	"image"
	"image/color"
	"testing"
)

func fill(img *image.NRGBA, c color.NRGBA) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
}

func TestDominantUniform(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	fill(img, color.NRGBA{R: 255, G: 87, B: 51, A: 255})

	got, err := Dominant(img)
	if err != nil {
		t.Fatalf("Dominant() error: %v", err)
	}
	if got != (RGB{R: 255, G: 87, B: 51}) {
		t.Errorf("Dominant() = %+v", got)
	}
}

func TestDominantMajorityWins(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 3))
	fill(img, color.NRGBA{R: 10, G: 200, B: 10, A: 255})
	img.SetNRGBA(0, 0, color.NRGBA{R: 250, G: 0, B: 0, A: 255})
	img.SetNRGBA(2, 2, color.NRGBA{R: 0, G: 0, B: 250, A: 255})

	got, err := Dominant(img)
	if err != nil {
		t.Fatalf("Dominant() error: %v", err)
	}
	if got != (RGB{R: 10, G: 200, B: 10}) {
		t.Errorf("Dominant() = %+v, want the green majority", got)
	}
}

func TestDominantErrors(t *testing.T) {
	if _, err := Dominant(nil); err == nil {
		t.Error("expected error for nil image")
	}

	transparent := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	if _, err := Dominant(transparent); err == nil {
		t.Error("expected error for fully transparent image")
	}
}
