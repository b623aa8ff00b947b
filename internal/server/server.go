// Package server exposes the compliance checker over HTTP: an HTML front
// end for interactive use and a JSON API for automation.
package server

import (
	"log/slog"

	"github.com/gorilla/mux"

	"github.com/dshills/clausecritic/internal/checker"
	"github.com/dshills/clausecritic/internal/config"
)

// Server wires the HTTP routes to the checker.
type Server struct {
	cfg     *config.Config
	checker *checker.Checker
	logger  *slog.Logger
}

// New returns a Server. A nil logger falls back to slog.Default().
func New(cfg *config.Config, c *checker.Checker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, checker: c, logger: logger}
}

// Router builds the route table. Uploads go through POST /check (HTML) or
// POST /api/check (JSON); /export re-renders a previously returned result.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.withRequestID)

	r.HandleFunc("/", s.handleIndex).Methods("GET")
	r.HandleFunc("/check", s.handleCheckUI).Methods("POST")
	r.HandleFunc("/export", s.handleExport).Methods("POST")
	r.HandleFunc("/api/check", s.handleCheckAPI).Methods("POST")
	r.HandleFunc("/api/rules", s.handleRules).Methods("GET")
	r.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	return r
}
