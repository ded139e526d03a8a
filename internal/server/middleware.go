package server

import (
	"context"
	"net/http"

	"github.com/Veraticus/lockin/internal/auth"
)

type contextKey string

const claimsKey contextKey = "claims"

// requireSession rejects requests without a valid session token.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.tokens.Verify(auth.TokenFromRequest(r, s.cfg.CookieName))
		if err != nil {
			s.logger.Debug("Session rejected", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	}
}

// sessionUser returns the authenticated user id. Only valid behind requireSession.
func sessionUser(r *http.Request) string {
	claims, ok := r.Context().Value(claimsKey).(*auth.Claims)
	if !ok {
		return ""
	}
	return claims.UserID
}
