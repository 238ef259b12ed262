package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/term"

	"github.com/jmylchreest/tapcolour/internal/colour"
)

// Output formats accepted by --format.
var outputFormats = []string{"hex", "rgb", "json", "table"}

// formatResult renders r in the requested format. swatch adds ANSI colour
// blocks to the output.
func formatResult(r colour.Result, format string, swatch bool) (string, error) {
	switch format {
	case "hex":
		if swatch {
			return withSwatch(r.RGBValues, r.Hex) + "\n", nil
		}
		return r.Hex + "\n", nil
	case "rgb":
		if swatch {
			return withSwatch(r.RGBValues, r.RGB) + "\n", nil
		}
		return r.RGB + "\n", nil
	case "json":
		data, err := r.ToJSON()
		if err != nil {
			return "", fmt.Errorf("failed to convert to JSON: %w", err)
		}
		return string(data) + "\n", nil
	case "table":
		table := NewTable([]string{"Field", "Value"})
		if swatch {
			table.AddRow([]string{"Swatch", colour.ColourPreviewWithText(r.RGBValues, r.Hex, 9)})
		}
		table.AddRow([]string{"Hex", r.Hex})
		table.AddRow([]string{"RGB", r.RGB})
		table.AddRow([]string{"Red", strconv.Itoa(int(r.RGBValues.R))})
		table.AddRow([]string{"Green", strconv.Itoa(int(r.RGBValues.G))})
		table.AddRow([]string{"Blue", strconv.Itoa(int(r.RGBValues.B))})
		return table.Render(), nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: %v)", format, outputFormats)
	}
}

// withSwatch prefixes text with a colour block.
func withSwatch(rgb colour.RGB, text string) string {
	return colour.ColourPreview(rgb, 8) + " " + text
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// writeResult formats r and writes it to out. Previews are only drawn when
// out is a terminal.
func writeResult(out io.Writer, r colour.Result, format string, preview bool) error {
	text, err := formatResult(r, format, preview && isTerminal(out))
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, text)
	return err
}
