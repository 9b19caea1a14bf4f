// Package cli provides the serve command.
package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/beadgrid/internal/genimage"
	"github.com/jmylchreest/beadgrid/internal/pipeline"
	"github.com/jmylchreest/beadgrid/internal/server"
)

// newServeCmd creates the serve command.
func newServeCmd() *cobra.Command {
	var (
		listenAddr string
		genModel   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion service",
		Long: `Run an HTTP service exposing the conversion pipeline.

Endpoints:
  GET  /health    liveness check
  POST /pixelate  convert an uploaded image (multipart: file, grid_size, max_colors)
  POST /generate  AI-stylise an image for bead conversion (requires GOOGLE_API_KEY)

The palette is loaded once at startup; a missing or malformed palette file is
a fatal configuration error.

Examples:
  # Serve on the default port with the built-in palette
  beadgrid serve

  # Custom listen address and palette
  beadgrid serve --listen :9000 --palette my-beads.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(cmd)
			if err != nil {
				return err
			}

			logger := newLogger(cmd)
			srv := server.New(server.Config{
				Addr:      listenAddr,
				Converter: pipeline.New(store, logger),
				Stylist:   genimage.New(logger, genimage.WithModel(genModel)),
				Logger:    logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&listenAddr, "listen", ":8080", "listen address")
	cmd.Flags().StringVar(&genModel, "gen-model", genimage.DefaultModel, "image generation model for /generate")

	return cmd
}
