// Package cli provides the palette command.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/beadgrid/internal/colour"
)

// newPaletteCmd creates the palette command.
func newPaletteCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "List the available bead colours",
		Long: `List the closed, ordered set of bead colours conversions map onto.

Examples:
  # List the built-in bead palette
  beadgrid palette

  # Inspect a custom palette file
  beadgrid palette --palette my-beads.json

  # Emit the palette as JSON
  beadgrid palette --format json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				data, err := json.MarshalIndent(store.Entries(), "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal palette: %w", err)
				}
				fmt.Fprintf(out, "%s\n", data)
			case "table":
				for i, entry := range store.Entries() {
					rgb := colour.RGB{R: entry.RGB[0], G: entry.RGB[1], B: entry.RGB[2]}
					renderSwatch(out, entry.RGB, fmt.Sprintf("%3d  %-14s %s", i, entry.ID, rgb.Hex()))
				}
			default:
				return fmt.Errorf("unknown output format: %s (valid formats: table, json)", format)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table, json)")
	return cmd
}
