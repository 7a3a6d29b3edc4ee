package api

import (
	"net/http"

	"github.com/Freeeeeet/study_planner/internal/service"
)

type taskRequest struct {
	Title    *string `json:"title" validate:"omitempty,notblank,max=200"`
	Subject  *string `json:"subject" validate:"omitempty,max=100"`
	DueDate  *string `json:"due_date" validate:"omitempty"`
	Priority *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Reminder *bool   `json:"reminder"`
}

func (req taskRequest) input() service.TaskInput {
	return service.TaskInput{
		Title:    req.Title,
		Subject:  req.Subject,
		DueDate:  req.DueDate,
		Priority: req.Priority,
		Reminder: req.Reminder,
	}
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	task, err := s.deps.Tasks.Create(r.Context(), userID(r), req.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tasks, err := s.deps.Tasks.List(r.Context(), userID(r), service.TaskListFilter{
		Status:   q.Get("status"),
		Category: q.Get("category"),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	var req taskRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	task, err := s.deps.Tasks.Update(r.Context(), userID(r), id, req.input())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleCompleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	task, err := s.deps.Tasks.Complete(r.Context(), userID(r), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	if err := s.deps.Tasks.Delete(r.Context(), userID(r), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Task deleted successfully"})
}

func (s *Server) handleTaskStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.deps.Tasks.Stats(r.Context(), userID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
