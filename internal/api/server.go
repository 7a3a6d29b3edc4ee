package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Freeeeeet/study_planner/internal/auth"
	"github.com/Freeeeeet/study_planner/internal/metrics"
	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/schedule"
	"github.com/Freeeeeet/study_planner/internal/service"
)

type UserService interface {
	SignUp(ctx context.Context, name, email, password string) (*service.AuthResult, error)
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
}

type SubjectService interface {
	Create(ctx context.Context, userID int64, in service.SubjectInput) (*model.Subject, error)
	List(ctx context.Context, userID int64) ([]*model.Subject, error)
	Update(ctx context.Context, userID, id int64, in service.SubjectInput) (*model.Subject, error)
	Delete(ctx context.Context, userID, id int64) error
}

type TaskService interface {
	Create(ctx context.Context, userID int64, in service.TaskInput) (*model.Task, error)
	List(ctx context.Context, userID int64, filter service.TaskListFilter) ([]*model.Task, error)
	Update(ctx context.Context, userID, id int64, in service.TaskInput) (*model.Task, error)
	Complete(ctx context.Context, userID, id int64) (*model.Task, error)
	Delete(ctx context.Context, userID, id int64) error
	Stats(ctx context.Context, userID int64) (*model.TaskStats, error)
}

type TimetableService interface {
	GetWeek(ctx context.Context, userID int64) (model.Week, error)
	ReplaceWeek(ctx context.Context, userID int64, week model.Week) (model.Week, error)
	AddEntry(ctx context.Context, userID int64, day string, entry *model.TimetableEntry) (*model.TimetableEntry, error)
	DeleteEntry(ctx context.Context, userID, id int64) error
}

type DashboardService interface {
	Evaluate(ctx context.Context, userID int64, now time.Time) (*service.Dashboard, error)
	Days(ctx context.Context, userID int64) (map[time.Weekday]schedule.Day, error)
	Location() *time.Location
}

type NotificationService interface {
	List(ctx context.Context, userID int64) ([]*model.Notification, error)
	Create(ctx context.Context, userID int64, message, kind string) (*model.Notification, error)
}

// Deps зависимости HTTP-сервера
type Deps struct {
	Users         UserService
	Subjects      SubjectService
	Tasks         TaskService
	Timetable     TimetableService
	Dashboard     DashboardService
	Notifications NotificationService
	Tokens        auth.TokenParser
	// Now источник времени для дашборда; по умолчанию time.Now
	Now func() time.Time
}

type Server struct {
	deps   Deps
	now    func() time.Time
	logger *zap.Logger
}

func NewServer(deps Deps, logger *zap.Logger) *Server {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Server{deps: deps, now: now, logger: logger}
}

// Handler собирает роутер со всеми маршрутами
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(s.logger))
	r.Use(recoverer(s.logger))
	r.Use(cors)
	r.Use(metrics.Middleware)
	r.Use(middleware.RequestSize(maxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found")
	})

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/signup", s.handleSignUp)
			r.Post("/login", s.handleLogin)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(auth.Middleware(s.deps.Tokens))

			pr.Route("/subjects", func(r chi.Router) {
				r.Post("/", s.handleCreateSubject)
				r.Get("/", s.handleListSubjects)
				r.Patch("/{id}", s.handleUpdateSubject)
				r.Delete("/{id}", s.handleDeleteSubject)
			})

			pr.Route("/tasks", func(r chi.Router) {
				r.Post("/", s.handleCreateTask)
				r.Get("/", s.handleListTasks)
				r.Get("/stats", s.handleTaskStats)
				r.Patch("/{id}", s.handleUpdateTask)
				r.Delete("/{id}", s.handleDeleteTask)
				r.Post("/{id}/complete", s.handleCompleteTask)
			})

			pr.Route("/timetable", func(r chi.Router) {
				r.Get("/", s.handleGetTimetable)
				r.Put("/", s.handleReplaceTimetable)
				r.Get("/week.png", s.handleWeekImage)
				r.Post("/entries", s.handleAddEntry)
				r.Delete("/entries/{id}", s.handleDeleteEntry)
			})

			pr.Get("/dashboard", s.handleDashboard)

			pr.Route("/notifications", func(r chi.Router) {
				r.Get("/", s.handleListNotifications)
				r.Post("/", s.handleCreateNotification)
			})
		})
	})

	return r
}

// ListenAndServe запускает сервер и останавливает его при отмене ctx
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server started", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		s.logger.Info("Shutting down HTTP server")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": s.now().UTC().Format(time.RFC3339),
	})
}

// userID ID пользователя из токена; auth.Middleware гарантирует его наличие
func userID(r *http.Request) int64 {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}
