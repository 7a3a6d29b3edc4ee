package api

import (
	"net/http"
	"time"

	"github.com/Freeeeeet/study_planner/internal/service"
)

// handleDashboard оценивает расписание на текущий момент или на ?at=RFC3339
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	now := s.now()
	if at := r.URL.Query().Get("at"); at != "" {
		parsed, err := time.Parse(time.RFC3339, at)
		if err != nil {
			s.writeServiceError(w, r, &service.ValidationError{Message: "at must be an RFC3339 timestamp"})
			return
		}
		now = parsed
	}

	dashboard, err := s.deps.Dashboard.Evaluate(r.Context(), userID(r), now)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}
