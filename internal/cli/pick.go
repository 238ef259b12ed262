package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tapcolour/internal/geometry"
)

// pickOptions holds the pick command flags.
type pickOptions struct {
	tap     geometry.Point
	view    geometry.Dimensions
	format  string
	output  string
	preview bool
}

func newPickCmd(cfg *Config) *cobra.Command {
	opts := &pickOptions{
		view: geometry.Dimensions{Width: 400, Height: 800},
	}

	cmd := &cobra.Command{
		Use:   "pick <image|directory|url>",
		Short: "Sample the colour under a tap",
		Long: `Take a photo from the given source and report the colour under the tap.

The tap is given in the logical units of the preview view. It is scaled
into the photo's native resolution, clamped to the image and sampled
from a small window around the mapped pixel.

If the source is a directory, a random frame from it is used. URL frames
are read directly unless --cache is set, in which case they are downloaded
once and their native size is probed.

Examples:
  # Tap at (150, 300) on a 400x800 preview
  tapcolour pick --tap 150,300 --view 400x800 frame.jpg

  # Single-pixel window, JSON output
  tapcolour pick --tap 10,10 --window 1 --format json frame.png

  # Dominant colour of the window with a terminal swatch
  tapcolour pick --tap 200,400 --strategy dominant --preview frames/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPick(cmd, cfg, opts, args[0])
		},
	}

	cmd.Flags().Var(newPointValue(&opts.tap), "tap", "tap position in view units (X,Y)")
	cmd.Flags().Var(newDimensionsValue(&opts.view), "view", "logical size of the preview view (WxH)")
	cmd.Flags().IntVarP(&cfg.Window, "window", "w", cfg.Window, "sampling window size (1 or 3)")
	cmd.Flags().StringVarP(&cfg.Strategy, "strategy", "s", cfg.Strategy, "sampling strategy (decode, dominant)")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "bound on photo capture and decode (0 disables)")
	cmd.Flags().BoolVar(&cfg.Cache, "cache", cfg.Cache, "download URL frames to the cache before sampling")
	cmd.Flags().StringVar(&cfg.CacheDir, "cache-dir", cfg.CacheDir, "frame cache directory (default: user cache dir)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "hex", "output format (hex, rgb, json, table)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "show a colour swatch in the terminal")
	_ = cmd.MarkFlagRequired("tap")

	return cmd
}

func runPick(cmd *cobra.Command, cfg *Config, opts *pickOptions, source string) error {
	logger := cfg.Logger(cmd.ErrOrStderr())

	controller, err := newController(source, cfg.pipelineOptions(), logger)
	if err != nil {
		return err
	}

	logger.Debug("picking colour", "source", source, "tap", opts.tap, "view", opts.view)

	result, err := controller.Capture(cmd.Context(), opts.tap, opts.view)
	if err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("capture already in progress")
	}

	if opts.output == "" {
		return writeResult(cmd.OutOrStdout(), *result, opts.format, opts.preview)
	}

	text, err := formatResult(*result, opts.format, false)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.output, []byte(text), 0o644); err != nil { // #nosec G306 - Output files need standard read permissions
		return fmt.Errorf("failed to write output file: %w", err)
	}
	logger.Info("wrote result", "path", opts.output)
	return nil
}
