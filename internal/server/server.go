// Package server exposes compositions and their frame descriptors over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/reelframe/internal/composer"
	"github.com/ivlev/reelframe/internal/engine"
	"github.com/ivlev/reelframe/internal/preview"
	"github.com/ivlev/reelframe/internal/registry"
	"github.com/ivlev/reelframe/internal/renderer"
)

// maxPropsBytes bounds POSTed props documents.
const maxPropsBytes = 1 << 20

var pngEncoder = png.Encoder{CompressionLevel: png.BestSpeed}

// Server answers composition and frame requests.
type Server struct {
	Registry *registry.Registry
	Metrics  *engine.Metrics
	Preview  *preview.Rasterizer
	Logger   *slog.Logger
}

// CompositionInfo describes a registered composition.
type CompositionInfo struct {
	renderer.VideoConfig
	DurationSeconds float64        `json:"durationSeconds"`
	DefaultProps    map[string]any `json:"defaultProps,omitempty"`
}

// NewHandler routes the API. Metrics are served from gatherer.
func NewHandler(s *Server, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/compositions", s.ListCompositions)
	r.Get("/compositions/{id}", s.GetComposition)
	r.Get("/compositions/{id}/frames/{frame}", s.RenderFrame)
	r.Post("/compositions/{id}/frames/{frame}", s.RenderFrame)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	return r
}

// ListenAndServe serves handler on addr until ctx is cancelled.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func info(c registry.Composition) CompositionInfo {
	return CompositionInfo{
		VideoConfig:     c.VideoConfig,
		DurationSeconds: c.DurationSeconds(),
		DefaultProps:    c.DefaultProps,
	}
}

// ListCompositions handles GET /compositions.
func (s *Server) ListCompositions(w http.ResponseWriter, r *http.Request) {
	list := s.Registry.List()
	out := make([]CompositionInfo, len(list))
	for i, c := range list {
		out[i] = info(c)
	}
	s.writeJSON(w, http.StatusOK, out)
}

// GetComposition handles GET /compositions/{id}.
func (s *Server) GetComposition(w http.ResponseWriter, r *http.Request) {
	c, err := s.Registry.Lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, info(c))
}

// RenderFrame handles GET and POST /compositions/{id}/frames/{frame}. A POST
// body is a JSON props object layered over the defaults. The format query
// parameter selects json (default), yaml or png.
func (s *Server) RenderFrame(w http.ResponseWriter, r *http.Request) {
	c, err := s.Registry.Lookup(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, err)
		return
	}

	frame, err := strconv.Atoi(chi.URLParam(r, "frame"))
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid frame %q", chi.URLParam(r, "frame")), http.StatusBadRequest)
		return
	}

	var props map[string]any
	if r.Method == http.MethodPost {
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPropsBytes)).Decode(&props); err != nil {
			http.Error(w, "Invalid props body", http.StatusBadRequest)
			s.Logger.Warn("render frame: invalid props body", "error", err)
			return
		}
	}

	t0 := time.Now()
	fr, err := c.Render(frame, props)
	s.Metrics.ObserveFrame(c.ID, time.Since(t0), err)
	if err != nil {
		s.fail(w, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		s.writeJSON(w, http.StatusOK, fr)
	case "yaml":
		w.Header().Set("Content-Type", "application/yaml")
		if err := yaml.NewEncoder(w).Encode(fr); err != nil {
			s.Logger.Error("render frame: yaml encode failed", "error", err)
		}
	case "png":
		if s.Preview == nil {
			http.Error(w, "preview disabled", http.StatusNotImplemented)
			return
		}
		img, err := s.Preview.Rasterize(fr)
		if err != nil {
			s.fail(w, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		if err := pngEncoder.Encode(w, img); err != nil {
			s.Logger.Error("render frame: png encode failed", "error", err)
		}
	default:
		http.Error(w, fmt.Sprintf("unknown format %q", format), http.StatusBadRequest)
	}
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, registry.ErrUnknownComposition):
		status = http.StatusNotFound
	case errors.Is(err, renderer.ErrFrameOutOfRange), errors.Is(err, composer.ErrInvalidProps):
		status = http.StatusBadRequest
	default:
		s.Logger.Error("request failed", "error", err)
	}
	http.Error(w, err.Error(), status)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}
