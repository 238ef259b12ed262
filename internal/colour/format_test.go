package colour

import (
	"errors"
	"testing"
)

func TestToHex(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		want    string
	}{
		{name: "orange", r: 255, g: 87, b: 51, want: "#FF5733"},
		{name: "red", r: 255, g: 0, b: 0, want: "#FF0000"},
		{name: "zero padding", r: 1, g: 2, b: 3, want: "#010203"},
		{name: "black", r: 0, g: 0, b: 0, want: "#000000"},
		{name: "white", r: 255, g: 255, b: 255, want: "#FFFFFF"},
		{name: "rounds fractional", r: 15.5, g: 15.4, b: 254.6, want: "#100FFF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToHex(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("ToHex(%v, %v, %v) = %q, want %q", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestToRGBString(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		want    string
	}{
		{name: "orange", r: 255, g: 87, b: 51, want: "RGB(255, 87, 51)"},
		{name: "no padding", r: 1, g: 2, b: 3, want: "RGB(1, 2, 3)"},
		{name: "rounds", r: 0.4, g: 99.5, b: 200.49, want: "RGB(0, 100, 200)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToRGBString(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("ToRGBString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromHex(t *testing.T) {
	want := RGB{R: 255, G: 87, B: 51}

	for _, in := range []string{"#ff5733", "FF5733", "#FF5733", "ff5733", "#Ff5733"} {
		got, err := FromHex(in)
		if err != nil {
			t.Fatalf("FromHex(%q) unexpected error: %v", in, err)
		}
		if got != want {
			t.Errorf("FromHex(%q) = %+v, want %+v", in, got, want)
		}
	}
}

func TestFromHexMalformed(t *testing.T) {
	tests := []string{
		"",
		"#",
		"#FFF",
		"FF57331",
		"##FF5733",
		"GG5733",
		"#12345z",
		"+12345",
		" FF5733",
	}

	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := FromHex(in)
			if err == nil {
				t.Fatalf("FromHex(%q) expected error", in)
			}
			if !errors.Is(err, ErrFormat) {
				t.Errorf("FromHex(%q) error %v does not match ErrFormat", in, err)
			}
			var fe *FormatError
			if !errors.As(err, &fe) || fe.Input != in {
				t.Errorf("FromHex(%q) error = %#v, want *FormatError with input", in, err)
			}
		})
	}
}

func TestHexRoundTrip(t *testing.T) {
	for r := 0; r < 256; r += 5 {
		for g := 0; g < 256; g += 17 {
			for b := 0; b < 256; b += 51 {
				want := RGB{R: uint8(r), G: uint8(g), B: uint8(b)}
				got, err := FromHex(want.Hex())
				if err != nil {
					t.Fatalf("FromHex(%q): %v", want.Hex(), err)
				}
				if got != want {
					t.Fatalf("round trip of %+v produced %+v", want, got)
				}
			}
		}
	}
}

func TestRGBAToRGB(t *testing.T) {
	c := RGBA{R: 10, G: 20, B: 30, A: 40}
	if got := c.RGB(); got != (RGB{R: 10, G: 20, B: 30}) {
		t.Errorf("RGB() = %+v", got)
	}
}

func TestDegenerateColours(t *testing.T) {
	if !(RGB{}).IsBlack() {
		t.Error("zero RGB should be black")
	}
	if !(RGB{R: 255, G: 255, B: 255}).IsWhite() {
		t.Error("255,255,255 should be white")
	}
	if (RGB{R: 255, G: 87, B: 51}).IsBlack() || (RGB{R: 255, G: 87, B: 51}).IsWhite() {
		t.Error("orange is neither black nor white")
	}
}
