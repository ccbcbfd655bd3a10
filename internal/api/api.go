// Package api provides the REST supplement for Habit Pulse.
//
// It exposes read and write endpoints over the same store the bot uses:
// listing and creating habits, listing completion logs, per-habit totals,
// and a health probe.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/habitpulse/habitpulse/internal/store"
)

// DefaultAddr is the default listen address for the API server.
const DefaultAddr = ":8080"

// Opts holds configuration options for the API server.
type Opts struct {
	// Addr is the listen address (e.g. ":8080").
	Addr string
}

// Option configures the API server.
type Option func(*Opts)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(o *Opts) {
		o.Addr = addr
	}
}

// Server hosts the REST endpoints backed by a store.
type Server struct {
	store      store.Store
	mux        *http.ServeMux
	httpServer *http.Server
	now        func() time.Time
}

// NewServer creates an API server over the given store and registers all
// routes.
func NewServer(st store.Store, opts ...Option) *Server {
	o := Opts{Addr: DefaultAddr}
	for _, opt := range opts {
		opt(&o)
	}
	s := &Server{
		store: st,
		mux:   http.NewServeMux(),
		now:   time.Now,
	}
	s.mux.HandleFunc("/habits", s.habitsHandler)
	s.mux.HandleFunc("/logs", s.logsHandler)
	s.mux.HandleFunc("/stats", s.statsHandler)
	s.mux.HandleFunc("/health", s.healthHandler)
	s.httpServer = &http.Server{Addr: o.Addr, Handler: s.mux}
	slog.Debug("Server.NewServer: API server created", "addr", o.Addr)
	return s
}

// Handler returns the route multiplexer, used by tests to serve requests
// without binding a socket.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	slog.Info("Server.Run: API server starting", "addr", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Stop gracefully shuts the HTTP server down.
func (s *Server) Stop(ctx context.Context) error {
	slog.Info("Server.Stop: API server stopping")
	return s.httpServer.Shutdown(ctx)
}
