// Package cli provides the stylise command.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/beadgrid/internal/genimage"
)

// newStyliseCmd creates the stylise command.
func newStyliseCmd() *cobra.Command {
	var (
		output string
		model  string
	)

	cmd := &cobra.Command{
		Use:   "stylise [image]",
		Short: "Generate a bead-friendly stylised image",
		Long: `Generate a flat-colour, sharp-edged rendition of an image that quantizes
cleanly onto a bead palette. Without an input image the model generates from
the style prompt alone.

Requires the GOOGLE_API_KEY environment variable.

Examples:
  # Stylise a photo before converting it
  beadgrid stylise photo.jpg -o styled.png
  beadgrid convert styled.png

  # Generate from the style prompt alone
  beadgrid stylise -o styled.png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input []byte
			if len(args) == 1 {
				data, err := os.ReadFile(args[0]) // #nosec G304 - User-specified image path, intended to be read
				if err != nil {
					return fmt.Errorf("failed to read input image: %w", err)
				}
				input = data
			}

			client := genimage.New(newLogger(cmd), genimage.WithModel(model))
			generated, err := client.Stylise(cmd.Context(), input)
			if err != nil {
				return err
			}

			if err := os.WriteFile(output, generated, 0o644); err != nil { // #nosec G306 - generated image is not sensitive
				return fmt.Errorf("failed to write output image: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", output, len(generated))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "styled.png", "output PNG path")
	cmd.Flags().StringVar(&model, "model", genimage.DefaultModel, "image generation model")

	return cmd
}
