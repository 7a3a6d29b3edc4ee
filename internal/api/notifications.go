package api

import (
	"net/http"
)

type notificationRequest struct {
	Message string `json:"message" validate:"required,notblank,max=500"`
	Type    string `json:"type" validate:"omitempty,max=30"`
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := s.deps.Notifications.List(r.Context(), userID(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"notifications": notifications,
	})
}

func (s *Server) handleCreateNotification(w http.ResponseWriter, r *http.Request) {
	var req notificationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	notification, err := s.deps.Notifications.Create(r.Context(), userID(r), req.Message, req.Type)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":      true,
		"notification": notification,
	})
}
