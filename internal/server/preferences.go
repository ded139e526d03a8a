package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Veraticus/lockin/internal/common"
	"github.com/Veraticus/lockin/internal/model"
)

// syncResponse is the snapshot pulled by the agent.
type syncResponse struct {
	LastSyncAt time.Time `json:"lastSyncAt"`
	UserID     string    `json:"userId"`
	model.FocusPreferences
}

// preferencesRequest distinguishes an omitted focus flag from false.
type preferencesRequest struct {
	FocusModeEnabled         *bool            `json:"focusModeEnabled"`
	ScheduleStart            *string          `json:"scheduleStart"`
	ScheduleEnd              *string          `json:"scheduleEnd"`
	Whitelist                model.DomainList `json:"whitelist"`
	Blacklist                model.DomainList `json:"blacklist"`
	YouTubeBlockedCategories []string         `json:"youtubeBlockedCategories"`
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Token required")
		return
	}

	record, err := s.prefs.GetPreferencesBySyncToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		s.fail(w, r, err, "Failed to load preferences")
		return
	}

	writeJSON(w, http.StatusOK, syncResponse{
		UserID:           record.UserID,
		LastSyncAt:       record.LastSyncAt,
		FocusPreferences: record.FocusPreferences,
	})
}

func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	record, err := s.prefs.GetPreferencesByUserID(r.Context(), sessionUser(r))
	if err != nil {
		s.fail(w, r, common.NewUserError("Preferences not found", err), "Failed to load preferences")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handlePostPreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, r, common.NewUserError("Invalid preferences", err), "Failed to update preferences")
		return
	}

	userID := sessionUser(r)
	prefs, err := s.toPreferences(r, userID, req)
	if err != nil {
		s.fail(w, r, err, "Failed to update preferences")
		return
	}

	record, err := s.prefs.UpsertPreferences(r.Context(), userID, prefs)
	if err != nil {
		s.fail(w, r, err, "Failed to update preferences")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

// toPreferences builds the full replacement set. Omitted lists become empty;
// an omitted focus flag keeps the stored value, or true for a new record.
func (s *Server) toPreferences(r *http.Request, userID string, req preferencesRequest) (model.FocusPreferences, error) {
	prefs := model.FocusPreferences{
		Whitelist:     req.Whitelist,
		Blacklist:     req.Blacklist,
		ScheduleStart: req.ScheduleStart,
		ScheduleEnd:   req.ScheduleEnd,
	}

	for _, raw := range req.YouTubeBlockedCategories {
		category, err := model.ParseCategory(raw)
		if err != nil {
			return prefs, common.NewUserError(fmt.Sprintf("Unknown category: %s", raw),
				fmt.Errorf("%w: %w", common.ErrInvalidInput, err))
		}
		prefs.YouTubeBlockedCategories = append(prefs.YouTubeBlockedCategories, category)
	}

	switch {
	case req.FocusModeEnabled != nil:
		prefs.FocusModeEnabled = *req.FocusModeEnabled
	default:
		existing, err := s.prefs.GetPreferencesByUserID(r.Context(), userID)
		switch {
		case errors.Is(err, common.ErrNotFound):
			prefs.FocusModeEnabled = true
		case err != nil:
			return prefs, err
		default:
			prefs.FocusModeEnabled = existing.FocusModeEnabled
		}
	}

	prefs.Normalize()
	return prefs, nil
}

func (s *Server) handleRotateSyncToken(w http.ResponseWriter, r *http.Request) {
	token, err := s.prefs.RotateSyncToken(r.Context(), sessionUser(r))
	if err != nil {
		s.fail(w, r, common.NewUserError("Preferences not found", err), "Failed to rotate sync token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"syncToken": token})
}
