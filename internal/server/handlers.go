// Package server provides the HTTP request handlers.
package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"strconv"

	"github.com/jmylchreest/beadgrid/internal/pipeline"
)

// maxUploadBytes caps the in-memory portion of multipart uploads.
const maxUploadBytes = 32 << 20

// pixelateResponse mirrors the wire format the front end consumes.
type pixelateResponse struct {
	Preview     string `json:"preview"`
	*pipeline.Result
}

type generateResponse struct {
	Image string `json:"image"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handlePixelate converts an uploaded image into a bead pattern.
// Form fields: file (required), grid_size (default 64), max_colors
// (default 15).
func (s *Server) handlePixelate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, &pipeline.InputError{Err: fmt.Errorf("invalid multipart form: %w", err)})
		return
	}

	data, err := readUpload(r, "file")
	if err != nil {
		s.writeError(w, &pipeline.InputError{Err: err})
		return
	}

	opts := pipeline.DefaultOptions()
	if opts.GridSize, err = formInt(r, "grid_size", opts.GridSize); err != nil {
		s.writeError(w, &pipeline.InputError{Err: err})
		return
	}
	if opts.MaxColors, err = formInt(r, "max_colors", opts.MaxColors); err != nil {
		s.writeError(w, &pipeline.InputError{Err: err})
		return
	}

	s.logger.Info("pixelate request",
		"bytes", len(data),
		"grid_size", opts.GridSize,
		"max_colors", opts.MaxColors)

	result, err := s.converter.ConvertBytes(data, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	preview, err := encodePNGDataURI(result)
	if err != nil {
		s.writeError(w, &pipeline.ProcessingError{Stage: "preview encoding", Err: err})
		return
	}

	writeJSON(w, http.StatusOK, pixelateResponse{Preview: preview, Result: result})
}

// handleGenerate produces an AI-stylised, bead-friendly image. The uploaded
// file is optional; without one the model generates from the style prompt
// alone.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if s.stylist == nil || !s.stylist.Available() {
		s.writeError(w, fmt.Errorf("image generation is not configured"))
		return
	}

	var data []byte
	if err := r.ParseMultipartForm(maxUploadBytes); err == nil {
		// A missing file is fine here; any other read failure is not.
		if d, err := readUpload(r, "file"); err == nil {
			data = d
		}
	}

	s.logger.Info("generate request", "bytes", len(data))

	generated, err := s.stylist.Stylise(r.Context(), data)
	if err != nil {
		s.writeError(w, err)
		return
	}

	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(generated)
	writeJSON(w, http.StatusOK, generateResponse{Image: uri})
}

// readUpload reads the named multipart file field.
func readUpload(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("missing %q upload: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q upload: %w", field, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("received empty file")
	}
	return data, nil
}

// formInt parses an optional integer form value.
func formInt(r *http.Request, field string, fallback int) (int, error) {
	raw := r.FormValue(field)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q", field, raw)
	}
	return v, nil
}

// encodePNGDataURI renders the preview raster as a PNG data URI.
func encodePNGDataURI(result *pipeline.Result) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, result.Preview); err != nil {
		return "", fmt.Errorf("failed to encode preview: %w", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// writeError translates the error taxonomy into HTTP status codes: input
// errors are the caller's fault (400), everything else is a server failure
// (500).
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var inputErr *pipeline.InputError
	if errors.As(err, &inputErr) {
		s.logger.Warn("rejected request", "error", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}
	s.logger.Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
