package image

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Cropper cuts small windows out of images addressed by handle.
type Cropper struct {
	loader Loader
}

// NewCropper creates a Cropper backed by loader. A nil loader uses a SmartLoader.
func NewCropper(loader Loader) *Cropper {
	if loader == nil {
		loader = NewSmartLoader()
	}
	return &Cropper{loader: loader}
}

// Crop decodes handle and copies rect into a new NRGBA image whose bounds
// start at rect.Min. Parts of rect outside the image are dropped; an empty
// intersection is an error.
func (c *Cropper) Crop(ctx context.Context, handle string, rect image.Rectangle) (image.Image, error) {
	src, err := c.loader.Load(ctx, handle)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return CropImage(src, rect)
}

// CropImage copies the part of rect that lies inside src.
func CropImage(src image.Image, rect image.Rectangle) (image.Image, error) {
	area := rect.Intersect(src.Bounds())
	if area.Empty() {
		return nil, fmt.Errorf("crop %v is outside image bounds %v", rect, src.Bounds())
	}

	dst := image.NewNRGBA(area)
	draw.Copy(dst, area.Min, src, area, draw.Src, nil)
	return dst, nil
}
