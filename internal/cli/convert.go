package cli

import (
	"github.com/spf13/cobra"

	"github.com/jmylchreest/tapcolour/internal/colour"
)

func newConvertCmd(cfg *Config) *cobra.Command {
	var (
		format  string
		preview bool
	)

	cmd := &cobra.Command{
		Use:   "convert <hex>",
		Short: "Convert a hex colour to every supported representation",
		Long: `Parse a hex colour (#RRGGBB or RRGGBB, any case) and print it in the
same formats pick uses.

Examples:
  tapcolour convert '#ff5733'
  tapcolour convert FF5733 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rgb, err := colour.FromHex(args[0])
			if err != nil {
				return err
			}
			cfg.Logger(cmd.ErrOrStderr()).Debug("parsed colour", "input", args[0], "rgb", rgb)
			return writeResult(cmd.OutOrStdout(), colour.NewResult(rgb), format, preview)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (hex, rgb, json, table)")
	cmd.Flags().BoolVar(&preview, "preview", false, "show a colour swatch in the terminal")

	return cmd
}
