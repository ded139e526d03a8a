// Package server exposes the LockIn HTTP API used by the dashboard and the
// browser agent.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sloghttp "github.com/samber/slog-http"

	"github.com/Veraticus/lockin/internal/analytics"
	"github.com/Veraticus/lockin/internal/auth"
	"github.com/Veraticus/lockin/internal/model"
)

// PreferenceStore reads and writes preference records.
type PreferenceStore interface {
	GetPreferencesByUserID(ctx context.Context, userID string) (*model.PreferenceRecord, error)
	GetPreferencesBySyncToken(ctx context.Context, token string) (*model.PreferenceRecord, error)
	UpsertPreferences(ctx context.Context, userID string, prefs model.FocusPreferences) (*model.PreferenceRecord, error)
	RotateSyncToken(ctx context.Context, userID string) (string, error)
}

// Classifier classifies content for token or session callers.
type Classifier interface {
	ClassifyContent(ctx context.Context, item model.ContentItem, syncToken string) (*model.ClassifyOutcome, error)
	ClassifyForUser(ctx context.Context, item model.ContentItem) (*model.ClassifyOutcome, error)
}

// Analytics records and summarises activity.
type Analytics interface {
	LogActivity(ctx context.Context, userID string, in analytics.ActivityInput) (*model.ActivityLog, error)
	Summary(ctx context.Context, userID string, period model.Period) (*model.AnalyticsSummary, error)
}

// Config holds HTTP server settings.
type Config struct {
	Addr         string
	CookieName   string
	CookieSecure bool
}

// Dependencies are the services behind the API.
type Dependencies struct {
	Preferences PreferenceStore
	Classifier  Classifier
	Analytics   Analytics
	Accounts    *auth.Accounts
	Tokens      *auth.TokenManager
	Logger      *slog.Logger
}

// Server handles HTTP requests for the LockIn API.
type Server struct {
	prefs      PreferenceStore
	classifier Classifier
	analytics  Analytics
	accounts   *auth.Accounts
	tokens     *auth.TokenManager
	logger     *slog.Logger
	cfg        Config
}

// New creates a new HTTP server.
func New(cfg Config, deps Dependencies) *Server {
	if cfg.CookieName == "" {
		cfg.CookieName = auth.DefaultCookieName
	}
	if cfg.Addr == "" {
		cfg.Addr = ":3000"
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:        cfg,
		prefs:      deps.Preferences,
		classifier: deps.Classifier,
		analytics:  deps.Analytics,
		accounts:   deps.Accounts,
		tokens:     deps.Tokens,
		logger:     logger,
	}
}

// Handler returns the routed handler wrapped in logging and recovery middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Extension endpoints, authenticated by sync token.
	mux.HandleFunc("GET /api/sync", s.handleSync)
	mux.HandleFunc("POST /api/classify-public", s.handleClassifyPublic)

	// Dashboard endpoints, authenticated by session.
	mux.HandleFunc("GET /api/preferences", s.requireSession(s.handleGetPreferences))
	mux.HandleFunc("POST /api/preferences", s.requireSession(s.handlePostPreferences))
	mux.HandleFunc("POST /api/preferences/sync-token", s.requireSession(s.handleRotateSyncToken))
	mux.HandleFunc("POST /api/classify", s.requireSession(s.handleClassify))
	mux.HandleFunc("GET /api/analytics", s.requireSession(s.handleGetAnalytics))
	mux.HandleFunc("POST /api/analytics", s.requireSession(s.handlePostAnalytics))

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", s.handleLogout)

	mux.HandleFunc("GET /health", s.handleHealth)

	// Use slog-http middleware with recovery
	handler := sloghttp.Recovery(mux)
	handler = sloghttp.New(s.logger)(handler)
	return handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("LockIn server starting", "addr", s.cfg.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("Shutting down server")
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
