package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/repository"
)

// Интерфейсы хранилищ, которые реализуют репозитории из internal/repository.
// Сервисы зависят от них, чтобы их можно было тестировать без базы.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByTelegramID(ctx context.Context, telegramID int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
}

type SubjectStore interface {
	Create(ctx context.Context, subject *model.Subject) error
	GetByID(ctx context.Context, userID, id int64) (*model.Subject, error)
	GetByUserID(ctx context.Context, userID int64) ([]*model.Subject, error)
	Update(ctx context.Context, subject *model.Subject) (bool, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)
}

type TaskStore interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, userID, id int64) (*model.Task, error)
	List(ctx context.Context, userID int64, filter repository.TaskFilter) ([]*model.Task, error)
	Update(ctx context.Context, task *model.Task) (bool, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)
	MarkOverdue(ctx context.Context, day time.Time) (int64, error)
	CountByStatus(ctx context.Context, userID int64) (map[model.TaskStatus]int, error)
}

type TimetableStore interface {
	Create(ctx context.Context, entry *model.TimetableEntry) error
	GetByUserID(ctx context.Context, userID int64) ([]*model.TimetableEntry, error)
	GetByWeekday(ctx context.Context, userID int64, weekday time.Weekday) ([]*model.TimetableEntry, error)
	ReplaceWeek(ctx context.Context, userID int64, entries []*model.TimetableEntry) error
	Delete(ctx context.Context, userID, id int64) (bool, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) error
	GetByUserID(ctx context.Context, userID int64, limit int) ([]*model.Notification, error)
}

// TokenIssuer выпускает токены доступа
type TokenIssuer interface {
	Issue(userID int64) (string, error)
}
