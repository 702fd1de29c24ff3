// Package api exposes the scan pipeline over HTTP.
//
// This is the interface boundary through which the conversational agent
// invokes the pipeline; the agent loop itself lives elsewhere. The surface
// is deliberately thin: scan and report endpoints returning the pipeline's
// data model as JSON, plus a health check.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sandijean90/SecurityAgent/pkg/scan"
	"github.com/sandijean90/SecurityAgent/pkg/session"
)

// Server wires the scanner and session store into an HTTP handler.
type Server struct {
	scanner    *scan.Scanner
	sessions   session.Store
	sessionTTL time.Duration
	logger     *log.Logger
}

// NewServer creates a Server. A nil store disables session memory
// (a fresh session is created per request and not retrievable later);
// a nil logger falls back to log.Default().
func NewServer(scanner *scan.Scanner, sessions session.Store, logger *log.Logger) *Server {
	if sessions == nil {
		sessions = session.NewMemoryStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		scanner:    scanner,
		sessions:   sessions,
		sessionTTL: session.DefaultTTL,
		logger:     logger,
	}
}

// Router builds the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/scan", s.handleScan)
		r.Post("/report", s.handleReport)
	})
	return r
}
