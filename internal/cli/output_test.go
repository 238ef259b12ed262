package cli

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/jmylchreest/tapcolour/internal/colour"
)

func TestFormatResult(t *testing.T) {
	r := colour.NewResult(colour.RGB{R: 255, G: 87, B: 51})

	tests := []struct {
		format string
		want   string
	}{
		{format: "hex", want: "#FF5733\n"},
		{format: "rgb", want: "RGB(255, 87, 51)\n"},
	}
	for _, tt := range tests {
		got, err := formatResult(r, tt.format, false)
		if err != nil || got != tt.want {
			t.Errorf("formatResult(%s) = %q, %v", tt.format, got, err)
		}
	}

	if _, err := formatResult(r, "yaml", false); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestWriteResultDisablesColourOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	r := colour.NewResult(colour.RGB{R: 1, G: 2, B: 3})

	if err := writeResult(&buf, r, "hex", true); err != nil {
		t.Fatalf("writeResult() error: %v", err)
	}
	if strings.Contains(buf.String(), "\033[") {
		t.Errorf("expected no ANSI codes for non-terminal output, got %q", buf.String())
	}
	if buf.String() != "#010203\n" {
		t.Errorf("output = %q", buf.String())
	}
}

func TestFormatResultSwatch(t *testing.T) {
	r := colour.NewResult(colour.RGB{R: 255, G: 87, B: 51})

	for _, format := range []string{"hex", "rgb", "table"} {
		got, err := formatResult(r, format, true)
		if err != nil {
			t.Fatalf("formatResult(%s) error: %v", format, err)
		}
		if !strings.Contains(got, "\033[48;2;255;87;51m") {
			t.Errorf("formatResult(%s) missing swatch: %q", format, got)
		}
	}

	plain, _ := formatResult(r, "table", false)
	if strings.Contains(plain, "Swatch") || strings.Contains(plain, "\033[") {
		t.Errorf("plain table contains swatch: %q", plain)
	}
}

// Writing to a non-terminal must not affect swatches rendered elsewhere.
func TestWriteResultLeavesConcurrentSwatches(t *testing.T) {
	r := colour.NewResult(colour.RGB{R: 1, G: 2, B: 3})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			var buf bytes.Buffer
			_ = writeResult(&buf, r, "hex", true)
		}()
		go func() {
			defer wg.Done()
			if got, _ := formatResult(r, "hex", true); !strings.HasPrefix(got, "\033[48;2;1;2;3m") {
				t.Errorf("swatch dropped: %q", got)
			}
		}()
	}
	wg.Wait()
}
