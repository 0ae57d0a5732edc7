// Package server runs the local HTTP API that exposes recorded job history
// and progress to UI consumers.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/reelcraft/reelcraft/pkg/config"
	"github.com/reelcraft/reelcraft/pkg/server/api"
	"github.com/reelcraft/reelcraft/pkg/server/httpx"
)

// Server wraps the http.Server lifecycle for the local API.
type Server struct {
	httpServer *http.Server
	ready      *atomic.Bool
}

// New builds a server from config and handler dependencies.
func New(cfg config.ServerConfig, history api.HistoryStore) *Server {
	ready := &atomic.Bool{}
	deps := &api.Deps{
		History: history,
		Ready:   ready,
	}

	return &Server{
		ready: ready,
		httpServer: &http.Server{
			Addr:         net.JoinHostPort(cfg.Addr, fmt.Sprintf("%d", cfg.Port)),
			Handler:      httpx.NewRouter(deps),
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.httpServer.Addr }

// Run serves until ctx is cancelled, then shuts down gracefully with a
// bounded drain period.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		log.Info().
			Str("component", "server").
			Str("addr", s.httpServer.Addr).
			Msg("local API listening")
		s.ready.Store(true)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.ready.Store(false)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Str("component", "server").Msg("local API stopped")
	return nil
}
