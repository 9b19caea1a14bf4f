// Package server exposes the conversion pipeline over HTTP. It is thin
// plumbing: request decoding, parameter parsing and error translation. All
// algorithmic work happens in the pipeline package.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/beadgrid/internal/genimage"
	"github.com/jmylchreest/beadgrid/internal/pipeline"
)

// Config holds the server configuration.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// Converter runs conversions. Required.
	Converter *pipeline.Converter

	// Stylist generates AI-stylised inputs for /generate. Optional; when
	// nil or unconfigured the endpoint reports the missing configuration.
	Stylist *genimage.Client

	// Logger receives request and error logs.
	Logger hclog.Logger
}

// Server is the HTTP front end for the converter.
type Server struct {
	converter *pipeline.Converter
	stylist   *genimage.Client
	logger    hclog.Logger
	http      *http.Server
}

// New creates a Server from the given configuration.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	s := &Server{
		converter: cfg.Converter,
		stylist:   cfg.Stylist,
		logger:    logger.Named("server"),
	}
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler with CORS applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /pixelate", s.handlePixelate)
	mux.HandleFunc("POST /generate", s.handleGenerate)
	return withCORS(mux)
}

// ListenAndServe runs the server until the context is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			return err
		}
		err := <-errCh
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// withCORS allows cross-origin calls from the browser front end.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
