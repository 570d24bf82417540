package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/Aleph-Alpha/storefront/v1/logger"
)

// Server is the HTTP listener of a traditional process.
//
// Listen binds the port, Serve blocks until Stop. Splitting the two lets the
// lifecycle hook fail start-up when the port cannot be bound.
type Server struct {
	server       *http.Server
	config       Config
	logger       logger.Logger
	mu           sync.Mutex
	listener     net.Listener
	shutdownOnce sync.Once
}

// NewServer returns a stopped Server serving handler.
func NewServer(cfg Config, handler http.Handler, log logger.Logger) *Server {
	cfg.applyDefaults()

	return &Server{
		server: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		config: cfg,
		logger: log,
	}
}

// Listen binds the configured address.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	s.listener = ln
	return nil
}

// Serve accepts connections until Stop. It returns nil after a graceful stop.
func (s *Server) Serve() error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		return errors.New("server is not listening")
	}

	s.logger.Info("server listening", nil, map[string]interface{}{
		"address": ln.Addr().String(),
	})
	if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully. It is safe to call more than once.
func (s *Server) Stop(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if err := s.server.Shutdown(ctx); err != nil {
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			s.logger.Error("server shutdown error", err, nil)
			return
		}
		s.logger.Info("server stopped gracefully", nil)
	})
	return shutdownErr
}

// Addr returns the bound address, or the configured one before Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.server.Addr
}

// Handler returns the router the server serves.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Config returns the effective configuration.
func (s *Server) Config() Config {
	return s.config
}
