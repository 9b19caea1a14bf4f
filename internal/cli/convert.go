// Package cli provides the convert command.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	beadimage "github.com/jmylchreest/beadgrid/internal/image"
	"github.com/jmylchreest/beadgrid/internal/pipeline"
)

// newConvertCmd creates the convert command.
func newConvertCmd() *cobra.Command {
	var (
		gridSize    int
		maxColours  int
		seedValue   int64
		format      string
		output      string
		previewFile string
		showPreview bool
	)

	cmd := &cobra.Command{
		Use:   "convert <image>",
		Short: "Convert an image into a bead pattern",
		Long: `Convert a raster image into a grid of bead palette ids.

The image is downsampled to the requested grid width (height follows the
source aspect ratio), the background is detected from the border, foreground
colours are reduced with k-means clustering, and every cell is assigned its
perceptually nearest bead colour.

Supported image formats: JPEG, PNG, GIF, WebP

Examples:
  # Convert with defaults (64-wide grid, 15 bead colours)
  beadgrid convert sprite.png

  # Smaller grid with a tighter colour budget
  beadgrid convert --grid-size 32 --max-colours 8 sprite.png

  # Save the result and a preview raster
  beadgrid convert -o pattern.json --preview-file preview.png sprite.png

  # Pin the clustering seed for explicit reproducibility
  beadgrid convert --seed 42 sprite.png

  # Render the pattern in the terminal
  beadgrid convert --preview sprite.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imagePath := args[0]
			if err := beadimage.ValidateImagePath(imagePath); err != nil {
				return err
			}

			store, err := loadStore(cmd)
			if err != nil {
				return err
			}

			img, err := beadimage.NewFileLoader().Load(imagePath)
			if err != nil {
				return err
			}

			opts := pipeline.Options{
				GridSize:  gridSize,
				MaxColors: maxColours,
			}
			if cmd.Flags().Changed("seed") {
				opts.Seed = &seedValue
			}

			converter := pipeline.New(store, newLogger(cmd))
			result, err := converter.Convert(img, opts)
			if err != nil {
				return err
			}

			if previewFile != "" {
				if err := imaging.Save(result.Preview, previewFile); err != nil {
					return fmt.Errorf("failed to save preview: %w", err)
				}
			}

			if showPreview {
				renderTerminalPreview(cmd.OutOrStdout(), result, store)
			}

			return writeResult(cmd, result, format, output)
		},
	}

	cmd.Flags().IntVarP(&gridSize, "grid-size", "g", pipeline.DefaultGridSize, "target grid width in cells (1-256)")
	cmd.Flags().IntVarP(&maxColours, "max-colours", "c", pipeline.DefaultMaxColors, "maximum bead colours, background included (>= 2)")
	cmd.Flags().Int64Var(&seedValue, "seed", 0, "clustering seed (default: derived from image content)")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format (json, ids)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().StringVar(&previewFile, "preview-file", "", "save the preview raster to a PNG file")
	cmd.Flags().BoolVar(&showPreview, "preview", false, "render the pattern in the terminal")

	return cmd
}

// writeResult serialises the conversion result in the requested format.
func writeResult(cmd *cobra.Command, result *pipeline.Result, format, output string) error {
	var data []byte
	switch format {
	case "json":
		var err error
		data, err = json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		data = append(data, '\n')
	case "ids":
		for _, row := range result.Grid {
			for x, id := range row {
				if x > 0 {
					data = append(data, ' ')
				}
				data = append(data, id...)
			}
			data = append(data, '\n')
		}
	default:
		return fmt.Errorf("unknown output format: %s (valid formats: json, ids)", format)
	}

	if output == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil { // #nosec G306 - pattern output is not sensitive
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
