package server

import (
	"errors"
	"net/http"

	"github.com/Veraticus/lockin/internal/classify"
	"github.com/Veraticus/lockin/internal/common"
	"github.com/Veraticus/lockin/internal/model"
)

type classifyRequest struct {
	SyncToken string `json:"syncToken,omitempty"`
	model.ContentItem
}

func (s *Server) handleClassifyPublic(w http.ResponseWriter, r *http.Request) {
	var req classifyRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, common.NewUserError("Invalid request", err), "Failed to classify content")
		return
	}

	outcome, err := s.classifier.ClassifyContent(r.Context(), req.ContentItem, req.SyncToken)
	if err != nil {
		switch {
		case errors.Is(err, classify.ErrSyncTokenRequired):
			writeError(w, http.StatusUnauthorized, "Sync token required")
		case errors.Is(err, classify.ErrInvalidSyncToken):
			writeError(w, http.StatusUnauthorized, "Invalid sync token")
		default:
			s.fail(w, r, common.NewUserError("URL is required", err), "Failed to classify content")
		}
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	var item model.ContentItem
	if err := decodeJSON(r, &item); err != nil {
		s.fail(w, r, common.NewUserError("Invalid request", err), "Failed to classify content")
		return
	}

	outcome, err := s.classifier.ClassifyForUser(r.Context(), item)
	if err != nil {
		s.fail(w, r, common.NewUserError("URL is required", err), "Failed to classify content")
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}
