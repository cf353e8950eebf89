// Package httpapi exposes the server's functionality over a JSON/HTTP
// surface. Handlers translate between wire DTOs and the service layer and
// encode results in a uniform response envelope.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Trevrosa/pcupback/internal/logging"
	"github.com/Trevrosa/pcupback/internal/server/models"
	"github.com/Trevrosa/pcupback/internal/server/services"
)

// Authenticator is the login-or-register operation the /auth endpoint needs.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*models.Session, error)
}

// SessionManager covers session rotation and validity checks.
type SessionManager interface {
	Reset(ctx context.Context, sessionID string) (*models.Session, error)
	IsValid(ctx context.Context, sessionID string) bool
}

// Syncer merges a client usage snapshot into server state.
type Syncer interface {
	Sync(ctx context.Context, sessionID string, snapshot *models.UsageSnapshot) (*services.SyncResult, error)
}

// AccountManager deletes an account resolved from a session id.
type AccountManager interface {
	Delete(ctx context.Context, sessionID string) error
}

type HTTPServer struct {
	address  string
	logger   logging.Logger
	auth     Authenticator
	sessions SessionManager
	sync     Syncer
	accounts AccountManager
}

func NewHTTPServer(a string, l logging.Logger, auth Authenticator, sm SessionManager, sync Syncer, am AccountManager) *HTTPServer {
	return &HTTPServer{
		address:  a,
		logger:   l.With("module", "http_server"),
		auth:     auth,
		sessions: sm,
		sync:     sync,
		accounts: am,
	}
}

func (s *HTTPServer) router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Post("/auth", s.handleAuth)
	r.Put("/auth/reset_session/{session_id}", s.handleResetSession)
	r.Get("/auth/validate_session/{session_id}", s.handleValidateSession)
	r.Put("/auth/delete_account/{session_id}", s.handleDeleteAccount)
	r.Post("/sync/{session_id}", s.handleSync)

	return r
}

func (s *HTTPServer) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.router(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
