package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/fgz-roster/dutyroster/internal/infrastructure/config"
)

// Server represents the HTTP server
type Server struct {
	config *config.ServerConfig
	logger *slog.Logger
	server *http.Server
}

// NewServer creates a new HTTP server
func NewServer(cfg *config.ServerConfig, logger *slog.Logger, mux http.Handler) *Server {
	return &Server{
		config: cfg,
		logger: logger,
		server: &http.Server{
			Addr:           fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:        mux,
			ReadTimeout:    cfg.ReadTimeout,
			WriteTimeout:   cfg.WriteTimeout,
			MaxHeaderBytes: cfg.MaxHeaderBytes,
		},
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server",
		slog.String("addr", s.server.Addr),
		slog.Bool("tls", s.config.TLS.Enabled),
	)

	if s.config.TLS.Enabled {
		return s.server.ListenAndServeTLS(s.config.TLS.CertFile, s.config.TLS.KeyFile)
	}

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// SetupRoutes configures all HTTP routes. staticDir is served under /static/.
func SetupRoutes(handler *Handler, logger *slog.Logger, staticDir string) http.Handler {
	r := chi.NewRouter()

	// Common middleware for all routes
	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(logger))
	r.Use(LoggingMiddleware(logger))
	r.Use(SecurityHeadersMiddleware())
	r.Use(CompressionMiddleware())

	r.Get("/", handler.Home)
	r.Get("/api/board", handler.BoardJSON)
	r.Get("/roster.ics", handler.Calendar)
	r.Post("/theme", handler.ToggleTheme)
	r.Get("/healthz", handler.Health)

	// Static files
	fs := http.FileServer(http.Dir(filepath.Clean(staticDir)))
	r.Handle("/static/*", http.StripPrefix("/static/", fs))

	return r
}
