package cli

import (
	"strings"
	"testing"
)

func TestTableAddRow(t *testing.T) {
	table := NewTable([]string{"Field", "Value"})
	table.AddRow([]string{"Hex"})
	table.AddRow([]string{"RGB", "RGB(1, 2, 3)", "extra"})

	if len(table.rows[0]) != 2 || table.rows[0][1] != "" {
		t.Errorf("short row not padded: %q", table.rows[0])
	}
	if len(table.rows[1]) != 2 {
		t.Errorf("long row not truncated: %q", table.rows[1])
	}
}

func TestTableRender(t *testing.T) {
	table := NewTable([]string{"Field", "Value"})
	table.AddRow([]string{"Hex", "#FF5733"})
	table.AddRow([]string{"RGB", "RGB(255, 87, 51)"})

	want := "Field  Value\n" +
		"-----  ----------------\n" +
		"Hex    #FF5733\n" +
		"RGB    RGB(255, 87, 51)\n"
	if got := table.Render(); got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestTableRenderIgnoresANSI(t *testing.T) {
	swatch := "\x1b[48;2;255;87;51m   \x1b[0m"
	table := NewTable([]string{"Swatch", "Field"})
	table.AddRow([]string{swatch, "x"})

	lines := strings.Split(table.Render(), "\n")
	if lines[2] != swatch+"     x" {
		t.Errorf("row = %q", lines[2])
	}
}

func TestTableEmpty(t *testing.T) {
	if got := NewTable(nil).Render(); got != "" {
		t.Errorf("Render() = %q, want empty", got)
	}
}

func TestVisibleWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"\x1b[0m", 0},
		{"\x1b[48;2;1;2;3m  \x1b[0m", 2},
		{"█▌", 2},
	}
	for _, tt := range tests {
		if got := visibleWidth(tt.in); got != tt.want {
			t.Errorf("visibleWidth(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
