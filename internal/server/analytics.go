package server

import (
	"net/http"

	"github.com/Veraticus/lockin/internal/analytics"
	"github.com/Veraticus/lockin/internal/common"
	"github.com/Veraticus/lockin/internal/model"
)

func (s *Server) handleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	period := model.ParsePeriod(r.URL.Query().Get("period"))

	summary, err := s.analytics.Summary(r.Context(), sessionUser(r), period)
	if err != nil {
		s.fail(w, r, err, "Failed to load analytics")
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handlePostAnalytics(w http.ResponseWriter, r *http.Request) {
	var in analytics.ActivityInput
	if err := decodeJSON(r, &in); err != nil {
		s.fail(w, r, common.NewUserError("Invalid request", err), "Failed to log activity")
		return
	}

	entry, err := s.analytics.LogActivity(r.Context(), sessionUser(r), in)
	if err != nil {
		s.fail(w, r, common.NewUserError("Domain is required", err), "Failed to log activity")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}
