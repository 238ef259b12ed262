package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/tapcolour/internal/geometry"
)

// pointValue parses "X,Y" into a geometry.Point.
type pointValue struct {
	p *geometry.Point
}

var _ pflag.Value = (*pointValue)(nil)

func newPointValue(p *geometry.Point) *pointValue {
	return &pointValue{p: p}
}

func (v *pointValue) String() string {
	if v.p == nil {
		return ""
	}
	return v.p.String()
}

func (v *pointValue) Set(s string) error {
	p, err := ParsePoint(s)
	if err != nil {
		return err
	}
	*v.p = p
	return nil
}

func (v *pointValue) Type() string { return "x,y" }

// dimensionsValue parses "WxH" into geometry.Dimensions.
type dimensionsValue struct {
	d *geometry.Dimensions
}

var _ pflag.Value = (*dimensionsValue)(nil)

func newDimensionsValue(d *geometry.Dimensions) *dimensionsValue {
	return &dimensionsValue{d: d}
}

func (v *dimensionsValue) String() string {
	if v.d == nil {
		return ""
	}
	return v.d.String()
}

func (v *dimensionsValue) Set(s string) error {
	d, err := ParseDimensions(s)
	if err != nil {
		return err
	}
	*v.d = d
	return nil
}

func (v *dimensionsValue) Type() string { return "WxH" }

// ParsePoint parses "X,Y".
func ParsePoint(s string) (geometry.Point, error) {
	x, y, ok := strings.Cut(s, ",")
	if !ok {
		return geometry.Point{}, fmt.Errorf("invalid point %q (expected X,Y)", s)
	}
	px, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("invalid x coordinate %q: %w", x, err)
	}
	py, err := strconv.ParseFloat(strings.TrimSpace(y), 64)
	if err != nil {
		return geometry.Point{}, fmt.Errorf("invalid y coordinate %q: %w", y, err)
	}
	return geometry.Point{X: px, Y: py}, nil
}

// ParseDimensions parses "WxH". Both sides must be positive.
func ParseDimensions(s string) (geometry.Dimensions, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return geometry.Dimensions{}, fmt.Errorf("invalid dimensions %q (expected WxH)", s)
	}
	dw, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
	if err != nil {
		return geometry.Dimensions{}, fmt.Errorf("invalid width %q: %w", w, err)
	}
	dh, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil {
		return geometry.Dimensions{}, fmt.Errorf("invalid height %q: %w", h, err)
	}

	d := geometry.Dimensions{Width: dw, Height: dh}
	if !d.Valid() {
		return geometry.Dimensions{}, fmt.Errorf("dimensions must be positive: %s", s)
	}
	return d, nil
}
