// Package cli provides the command-line interface for tapcolour.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/tapcolour/internal/version"
)

// NewRootCmd builds the command tree. Each call returns independent
// commands, so tests can run them side by side.
func NewRootCmd() *cobra.Command {
	cfg := NewConfigBuilder().WithEnvConfig().Build()

	rootCmd := &cobra.Command{
		Use:   "tapcolour",
		Short: "Sample the colour under a tap on a camera frame",
		Long: `tapcolour maps a tap on a camera preview onto the captured photo and
reports the colour found there as hex and RGB.

Frames come from image files, directories of frames or HTTP(S) URLs, standing
in for the device camera. The same pipeline is available over HTTP with
the serve command.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error, off)")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newPickCmd(cfg))
	rootCmd.AddCommand(newConvertCmd(cfg))
	rootCmd.AddCommand(newServeCmd(cfg))

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), version.String())
				return nil
			}
			data, err := json.MarshalIndent(version.GetInfo(), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode version info: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print version information as JSON")
	return cmd
}
