package api

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/render"
	"github.com/Freeeeeet/study_planner/internal/schedule"
)

// entryPayload занятие от клиента. Время можно передать одной строкой
// "8:00 AM - 9:30 AM" в поле time или раздельно.
type entryPayload struct {
	Subject   string `json:"subject" validate:"required,notblank,max=100"`
	Time      string `json:"time" validate:"required_without_all=StartTime EndTime"`
	StartTime string `json:"start_time" validate:"omitempty,clocktime"`
	EndTime   string `json:"end_time" validate:"omitempty,clocktime"`
	Room      string `json:"room" validate:"max=100"`
	Professor string `json:"professor" validate:"max=100"`
	Type      string `json:"type" validate:"omitempty,oneof=Lecture Laboratory"`
}

func (p entryPayload) toEntry() (*model.TimetableEntry, error) {
	entry := &model.TimetableEntry{
		Subject:   p.Subject,
		StartTime: p.StartTime,
		EndTime:   p.EndTime,
		Room:      p.Room,
		Professor: p.Professor,
		Type:      p.Type,
	}

	if strings.TrimSpace(p.Time) != "" {
		start, end, err := schedule.ParseRange(p.Time)
		if err != nil {
			return nil, err
		}
		entry.StartTime = schedule.FormatTime(start)
		entry.EndTime = schedule.FormatTime(end)
	}
	return entry, nil
}

type entryResponse struct {
	ID        int64  `json:"id"`
	Subject   string `json:"subject"`
	Time      string `json:"time"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Room      string `json:"room"`
	Professor string `json:"professor"`
	Type      string `json:"type"`
}

func newEntryResponse(e *model.TimetableEntry) entryResponse {
	return entryResponse{
		ID:        e.ID,
		Subject:   e.Subject,
		Time:      e.TimeRange(),
		StartTime: e.StartTime,
		EndTime:   e.EndTime,
		Room:      e.Room,
		Professor: e.Professor,
		Type:      e.Type,
	}
}

func weekResponse(week model.Week) map[string]any {
	out := make(map[string][]entryResponse, len(week))
	for day, entries := range week {
		list := make([]entryResponse, 0, len(entries))
		for _, e := range entries {
			list = append(list, newEntryResponse(e))
		}
		out[day] = list
	}
	return map[string]any{"schedule": out}
}

type replaceWeekRequest struct {
	Schedule map[string][]entryPayload `json:"schedule" validate:"required,dive,dive"`
}

type addEntryRequest struct {
	Day string `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday"`
	entryPayload
}

func (s *Server) handleGetTimetable(w http.ResponseWriter, r *http.Request) {
	week, err := s.deps.Timetable.GetWeek(r.Context(), userID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, weekResponse(week))
}

func (s *Server) handleReplaceTimetable(w http.ResponseWriter, r *http.Request) {
	var req replaceWeekRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	week := make(model.Week, len(req.Schedule))
	for day, payloads := range req.Schedule {
		entries := make([]*model.TimetableEntry, 0, len(payloads))
		for _, p := range payloads {
			entry, err := p.toEntry()
			if err != nil {
				s.writeServiceError(w, r, err)
				return
			}
			entries = append(entries, entry)
		}
		week[day] = entries
	}

	saved, err := s.deps.Timetable.ReplaceWeek(r.Context(), userID(r), week)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, weekResponse(saved))
}

func (s *Server) handleAddEntry(w http.ResponseWriter, r *http.Request) {
	var req addEntryRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	entry, err := req.toEntry()
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	saved, err := s.deps.Timetable.AddEntry(r.Context(), userID(r), req.Day, entry)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newEntryResponse(saved))
}

func (s *Server) handleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if err := s.deps.Timetable.DeleteEntry(r.Context(), userID(r), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Class deleted successfully"})
}

func (s *Server) handleWeekImage(w http.ResponseWriter, r *http.Request) {
	days, err := s.deps.Dashboard.Days(r.Context(), userID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	img, err := render.WeekImage(days, s.now().In(s.deps.Dashboard.Location()))
	if err != nil {
		s.logger.Error("Failed to render week image", zap.Int64("user_id", userID(r)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, internalErrorMessage)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}
