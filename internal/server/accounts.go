package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/Veraticus/lockin/internal/auth"
	"github.com/Veraticus/lockin/internal/common"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type userView struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type sessionResponse struct {
	User      userView `json:"user"`
	Token     string   `json:"token"`
	SyncToken string   `json:"syncToken,omitempty"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, common.NewUserError("Email and password are required", err), "Failed to create user")
		return
	}

	session, err := s.accounts.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrDuplicateEntry):
			writeError(w, http.StatusBadRequest, "User already exists")
		case errors.Is(err, common.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "Email and password are required")
		default:
			s.fail(w, r, err, "Failed to create user")
		}
		return
	}

	s.setSessionCookie(w, session.Token)
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, common.NewUserError("Email and password are required", err), "Failed to log in")
		return
	}

	session, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "Email and password are required")
		case errors.Is(err, auth.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "Invalid email or password")
		default:
			s.fail(w, r, err, "Failed to log in")
		}
		return
	}

	s.setSessionCookie(w, session.Token)
	writeJSON(w, http.StatusOK, toSessionResponse(session))
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.tokens.TTL() / time.Second),
		HttpOnly: true,
		Secure:   s.cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

func toSessionResponse(session *auth.Session) sessionResponse {
	return sessionResponse{
		User: userView{
			ID:    session.User.ID,
			Email: session.User.Email,
			Name:  session.User.Name,
		},
		Token:     session.Token,
		SyncToken: session.SyncToken,
	}
}
