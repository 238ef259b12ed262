// Package colour provides colour value types and the conversions between
// numeric RGB triples and their hex and human-readable string forms.
package colour

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrFormat is matched by every FormatError via errors.Is.
var ErrFormat = errors.New("malformed colour")

// FormatError reports a hex string that could not be parsed.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid hex colour %q: %s", e.Input, e.Reason)
}

// Is reports whether target is ErrFormat.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// RGB represents a colour in RGB format.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// RGBA is an RGB sample with alpha, only used at the sampling boundary.
type RGBA struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

// RGB drops the alpha channel.
func (c RGBA) RGB() RGB {
	return RGB{R: c.R, G: c.G, B: c.B}
}

// String returns the colour in the format "RGB(r, g, b)".
func (rgb RGB) String() string {
	return ToRGBString(float64(rgb.R), float64(rgb.G), float64(rgb.B))
}

// Hex returns the colour as an uppercase hex string (e.g., "#1A2B3C").
func (rgb RGB) Hex() string {
	return ToHex(float64(rgb.R), float64(rgb.G), float64(rgb.B))
}

// IsBlack reports whether the colour is pure black.
func (rgb RGB) IsBlack() bool {
	return rgb.R == 0 && rgb.G == 0 && rgb.B == 0
}

// IsWhite reports whether the colour is pure white.
func (rgb RGB) IsWhite() bool {
	return rgb.R == 255 && rgb.G == 255 && rgb.B == 255
}

// ToHex renders channel values as "#RRGGBB".
// Each channel is rounded half away from zero and written as two uppercase
// hex digits. Inputs are expected to already be within [0, 255].
func ToHex(r, g, b float64) string {
	return fmt.Sprintf("#%02X%02X%02X", channel(r), channel(g), channel(b))
}

// ToRGBString renders channel values as "RGB(r, g, b)" with rounded decimals.
func ToRGBString(r, g, b float64) string {
	return fmt.Sprintf("RGB(%d, %d, %d)", channel(r), channel(g), channel(b))
}

// channel rounds a component for display. Out of range values are pinned so
// the two-digit hex invariant always holds.
func channel(v float64) int {
	n := int(math.Round(v))
	return max(0, min(255, n))
}

// FromHex parses "#RRGGBB" or "RRGGBB" (case-insensitive).
func FromHex(hex string) (RGB, error) {
	clean := strings.TrimPrefix(hex, "#")
	if len(clean) != 6 {
		return RGB{}, &FormatError{Input: hex, Reason: fmt.Sprintf("expected 6 hex digits, got %d", len(clean))}
	}

	var parts [3]uint8
	for i := range parts {
		v, err := strconv.ParseUint(clean[i*2:i*2+2], 16, 8)
		if err != nil {
			return RGB{}, &FormatError{Input: hex, Reason: fmt.Sprintf("non-hex digits %q", clean[i*2:i*2+2])}
		}
		parts[i] = uint8(v)
	}

	return RGB{R: parts[0], G: parts[1], B: parts[2]}, nil
}
