// Package cli provides the command-line interface for beadgrid.
package cli

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/beadgrid/internal/palette"
	"github.com/jmylchreest/beadgrid/internal/version"
)

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "beadgrid",
		Short: "Convert images into fixed-palette bead patterns",
		Long: `Beadgrid converts raster images into grid-quantized patterns for physical
craft-bead assembly.

Images are downsampled to a bead grid, split into background and foreground,
colour-reduced with k-means clustering and mapped onto a closed palette of
physically available bead colours using perceptual (CIELAB) colour distance.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().String("palette", "", "path to a palette JSON file (default: built-in bead palette)")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConvertCmd())
	rootCmd.AddCommand(newPaletteCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newStyliseCmd())

	return rootCmd
}

// newVersionCmd creates the version command.
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

// loadStore resolves the palette store from the --palette flag, falling back
// to the built-in bead palette.
func loadStore(cmd *cobra.Command) (*palette.Store, error) {
	path, _ := cmd.Flags().GetString("palette")
	if path == "" {
		return palette.Default(), nil
	}
	return palette.Load(path)
}

// newLogger builds the hclog logger the commands share, honouring --verbose.
func newLogger(cmd *cobra.Command) hclog.Logger {
	level := hclog.Info
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "beadgrid",
		Level:  level,
		Output: os.Stderr,
	})
}
