// Package geometry maps tap positions in on-screen logical units onto pixel
// coordinates of a captured image.
package geometry

import (
	"errors"
	"fmt"
	"image"
	"math"
)

// ErrGeometry is matched by every GeometryError via errors.Is.
var ErrGeometry = errors.New("invalid geometry")

// GeometryError reports dimensions that cannot produce a finite scale factor.
type GeometryError struct {
	Field string
	Value Dimensions
}

func (e *GeometryError) Error() string {
	return fmt.Sprintf("invalid %s dimensions %gx%g: width and height must be positive and finite",
		e.Field, e.Value.Width, e.Value.Height)
}

// Is reports whether target is ErrGeometry.
func (e *GeometryError) Is(target error) bool {
	return target == ErrGeometry
}

// Point is a 2-D coordinate. Whether it is in logical or pixel units depends
// on where it is used; a single call never mixes the two.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Dimensions describes a view's logical size or an image's pixel size.
type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Valid reports whether both sides are positive and finite.
func (d Dimensions) Valid() bool {
	return positive(d.Width) && positive(d.Height)
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// String returns the dimensions as "WxH".
func (d Dimensions) String() string {
	return fmt.Sprintf("%gx%g", d.Width, d.Height)
}

// String returns the point as "X,Y".
func (p Point) String() string {
	return fmt.Sprintf("%g,%g", p.X, p.Y)
}

// Pixel converts p to an integer pixel coordinate, rounding half away from zero.
func (p Point) Pixel() image.Point {
	return image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
}

// MapTapToImage scales a tap from view space into image space.
// The X and Y scale factors are independent, and each result is rounded half
// away from zero.
func MapTapToImage(tap Point, view, img Dimensions) (Point, error) {
	if !view.Valid() {
		return Point{}, &GeometryError{Field: "view", Value: view}
	}
	if !img.Valid() {
		return Point{}, &GeometryError{Field: "image", Value: img}
	}

	scaleX := img.Width / view.Width
	scaleY := img.Height / view.Height

	return Point{
		X: math.Round(tap.X * scaleX),
		Y: math.Round(tap.Y * scaleY),
	}, nil
}

// ClampToImage clamps X into [0, width-1] and Y into [0, height-1].
func ClampToImage(p Point, img Dimensions) Point {
	return Point{
		X: Clamp(p.X, 0, img.Width-1),
		Y: Clamp(p.Y, 0, img.Height-1),
	}
}

// Clamp restricts v to [lo, hi]. NaN clamps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
