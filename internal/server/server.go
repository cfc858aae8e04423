// Package server exposes the relay over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"document-relay/internal/config"
	"document-relay/internal/relay"
)

type Server struct {
	relay *relay.Relay
	cfg   config.ServerConfig
	http  *http.Server
}

func New(r *relay.Relay, cfg config.ServerConfig) *Server {
	s := &Server{relay: r, cfg: cfg}
	s.http = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Router builds the chi router. Every route is served both at the root and
// under /api.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog)
	r.Use(middleware.Recoverer)
	r.Use(corsHandler(s.cfg.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(s.registerRoutes)
	r.Route("/api", s.registerRoutes)
	return r
}

func (s *Server) registerRoutes(r chi.Router) {
	r.Post("/upload", s.handleUpload)
	r.Post("/edit-file", s.handleEdit)
	r.Get("/files", s.handleList)
	r.Get("/file-content/{filename}", s.handleContent)
	r.Get("/download/{filename}", s.handleDownload)
	r.Delete("/delete/{filename}", s.handleDelete)
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.http.Addr).Msg("Server started")
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Stopping server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
