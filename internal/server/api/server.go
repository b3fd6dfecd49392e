// Package api exposes the picshare REST surface over chi. Handlers decode
// JSON or multipart requests, call services, and map sentinel errors to HTTP
// statuses.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vmelnikov/picshare/internal/logging"
	"github.com/vmelnikov/picshare/internal/server/auth"
	"github.com/vmelnikov/picshare/internal/server/services"
)

type Server struct {
	address string
	logger  logging.Logger
	auth    *services.AuthService
	feed    *services.FeedService
	tokens  *auth.Manager
}

func NewServer(address string, l logging.Logger, as *services.AuthService, fs *services.FeedService, tokens *auth.Manager) *Server {
	return &Server{
		address: address,
		logger:  l.With("module", "http_server"),
		auth:    as,
		feed:    fs,
		tokens:  tokens,
	}
}

// Router assembles the route tree. Split out of Run so tests can drive the
// full stack through httptest.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(corsMiddleware)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Post("/api/auth/signup", s.handleSignup)
	r.Post("/api/auth/login", s.handleLogin)
	r.Post("/api/auth/refresh", s.handleRefresh)
	r.Post("/api/auth/logout", s.handleLogout)

	r.Get("/api/photos", s.handleFeed)
	r.Get("/api/photos/{id}/comments", s.handleListComments)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Delete("/api/auth/delete-account", s.handleDeleteAccount)
		r.Get("/api/auth/user", s.handleGetUser)
		r.Post("/api/auth/upload-avatar", s.handleUploadAvatar)

		r.Post("/api/photos/upload", s.handleUploadPhoto)
		r.Post("/api/photos/{id}/comments", s.handleAddComment)
		r.Post("/api/photos/{id}/likes", s.handleLike)
	})

	return r
}

// Run starts the HTTP server and shuts it down gracefully when ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:         s.address,
		Handler:      s.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	select {
	case <-ctx.Done():
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	}
}
