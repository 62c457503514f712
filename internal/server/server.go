// Package server exposes the round resolution protocol over HTTP and a
// websocket feed of leaderboard updates.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

// Server owns the HTTP listener. Request handling is a thin shell over the
// Service; all game rules live there.
type Server struct {
	addr    string
	service *Service
	hub     *Hub
	logger  *log.Logger
}

func NewServer(addr string, service *Service, hub *Hub, logger *log.Logger) *Server {
	return &Server{
		addr:    addr,
		service: service,
		hub:     hub,
		logger:  logger.WithPrefix("server"),
	}
}

// Serve runs the HTTP server until ctx is cancelled, then drains connections
// and disconnects spectators.
func (s *Server) Serve(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:    s.addr,
		Handler: s.routes(),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.hub.Close()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		s.logger.Info("stopped")
		return nil

	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.routes()
}
