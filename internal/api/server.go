package api

import (
	"context"
	"net/http"
	"time"

	"github.com/harikishants/MarketingMailPro/internal/config"
	"github.com/harikishants/MarketingMailPro/internal/tracking"
)

// Server wraps the HTTP server and its router.
type Server struct {
	config  config.ServerConfig
	handler http.Handler
	server  *http.Server
}

// NewServer assembles the router from the handler set, the caller
// resolver, and the public tracking surface.
func NewServer(cfg config.ServerConfig, h *Handlers, users UserSource, track *tracking.Handler) *Server {
	return &Server{
		config:  cfg,
		handler: SetupRoutes(h, users, track),
	}
}

// ListenAndServe starts the HTTP server.
// Write timeout is generous because campaign sends run synchronously
// inside the request.
func (s *Server) ListenAndServe(addr string) error {
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      10 * time.Minute,
		IdleTimeout:       120 * time.Second,
	}
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.handler
}
