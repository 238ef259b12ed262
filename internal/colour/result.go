package colour

import (
	"encoding/json"
	"fmt"
)

// Result is a captured colour in every representation the UI needs.
type Result struct {
	Hex       string `json:"hex"`
	RGB       string `json:"rgb"`
	RGBValues RGB    `json:"rgbValues"`
}

// NewResult formats rgb into a Result.
func NewResult(rgb RGB) Result {
	return Result{
		Hex:       rgb.Hex(),
		RGB:       rgb.String(),
		RGBValues: rgb,
	}
}

// FromRGBA formats a sampled colour, discarding its alpha channel.
func FromRGBA(c RGBA) Result {
	return NewResult(c.RGB())
}

// ToJSON converts the result to indented JSON.
func (r Result) ToJSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// String returns a human-readable representation of the result.
func (r Result) String() string {
	return fmt.Sprintf("%s (%s)", r.Hex, r.RGB)
}
