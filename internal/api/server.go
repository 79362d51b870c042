package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/mcoot/setgame/internal/config"
)

// ShutdownStep is one named action run while the server stops
type ShutdownStep struct {
	Name string
	Run  func(ctx context.Context) error
}

// Server runs the HTTP listener and the ordered shutdown around it.
// Steps registered with BeforeDrain run before in-flight requests are
// drained (long-lived streams must end first); AfterDrain steps run once
// no handler can touch a session any more.
type Server struct {
	server          *http.Server
	logger          *slog.Logger
	shutdownTimeout time.Duration

	mu          sync.Mutex
	addr        string
	ready       chan struct{}
	beforeDrain []ShutdownStep
	afterDrain  []ShutdownStep
}

// NewServer creates a server for handler using cfg's address and timeouts
func NewServer(handler http.Handler, cfg *config.Config, logger *slog.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		logger:          logger,
		shutdownTimeout: cfg.ShutdownTimeout,
		ready:           make(chan struct{}),
	}
}

// BeforeDrain registers a step to run before open requests are drained
func (s *Server) BeforeDrain(name string, fn func(ctx context.Context) error) {
	s.beforeDrain = append(s.beforeDrain, ShutdownStep{Name: name, Run: fn})
}

// AfterDrain registers a step to run after the listener has fully stopped
func (s *Server) AfterDrain(name string, fn func(ctx context.Context) error) {
	s.afterDrain = append(s.afterDrain, ShutdownStep{Name: name, Run: fn})
}

// Run serves until ctx is cancelled or the listener fails, then runs the
// shutdown steps in order. Every step runs even if an earlier one fails.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.server.Addr, err)
	}
	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.mu.Unlock()
	close(s.ready)
	s.logger.Info("http server listening", slog.String("addr", s.Addr()))

	serveErr := make(chan error, 1)
	go func() { serveErr <- s.server.Serve(ln) }()

	var errs []error
	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, fmt.Errorf("server error: %w", err))
		}
	case <-ctx.Done():
		s.logger.Info("shutting down http server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	errs = append(errs, s.runSteps(shutdownCtx, s.beforeDrain)...)
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown error: %w", err))
	}
	errs = append(errs, s.runSteps(shutdownCtx, s.afterDrain)...)

	s.logger.Info("http server stopped")
	return errors.Join(errs...)
}

func (s *Server) runSteps(ctx context.Context, steps []ShutdownStep) []error {
	var errs []error
	for _, step := range steps {
		if err := step.Run(ctx); err != nil {
			s.logger.Error("shutdown step failed", slog.String("step", step.Name), slog.Any("error", err))
			errs = append(errs, fmt.Errorf("%s: %w", step.Name, err))
		}
	}
	return errs
}

// Ready is closed once the listener is bound
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// Addr returns the bound address once Ready, or the configured one before
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.addr != "" {
		return s.addr
	}
	return s.server.Addr
}
