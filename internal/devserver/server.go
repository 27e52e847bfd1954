// Package devserver hosts a complete local bookstore API backend. It serves
// the same REST contract the storefront client consumes, backed by SQLite,
// so the storefront can run against a single self-contained process.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/duynhne/bookstored/internal/devserver/storage"
)

// Config defines the inputs for the API server.
type Config struct {
	Addr      string
	JWTSecret string
}

// Server hosts the bookstore HTTP API.
type Server struct {
	addr       string
	httpServer *http.Server
	store      storage.Store
}

// NewServer builds a configured API server over the provided store.
func NewServer(config Config, store storage.Store) (*Server, error) {
	addr := strings.TrimSpace(config.Addr)
	if addr == "" {
		return nil, errors.New("http address is required")
	}
	if store == nil {
		return nil, errors.New("store is required")
	}
	secret := strings.TrimSpace(config.JWTSecret)
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}

	handler := NewHandler(store, []byte(secret))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{addr: addr, httpServer: httpServer, store: store}, nil
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("api server is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	serveErr := make(chan error, 1)
	log.Printf("api listening on %s", s.addr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the underlying store.
func (s *Server) Close() error {
	if s == nil || s.store == nil {
		return nil
	}
	return s.store.Close()
}
