package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/repository"
	"go.uber.org/zap"
)

type TaskService struct {
	taskRepo TaskStore
	location *time.Location
	now      func() time.Time
	logger   *zap.Logger
}

func NewTaskService(taskRepo TaskStore, location *time.Location, logger *zap.Logger) *TaskService {
	if location == nil {
		location = time.UTC
	}
	return &TaskService{
		taskRepo: taskRepo,
		location: location,
		now:      time.Now,
		logger:   logger,
	}
}

// WithClock подменяет источник текущего времени
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

// TaskInput поля задачи от клиента; nil значит "не менять"
type TaskInput struct {
	Title    *string
	Subject  *string
	DueDate  *string
	Priority *string
	Reminder *bool
}

// TaskListFilter фильтр списка задач
type TaskListFilter struct {
	Status   string
	Category string
}

// Create создаёт задачу. Категория и цвет вычисляются по сроку и приоритету.
func (s *TaskService) Create(ctx context.Context, userID int64, in TaskInput) (*model.Task, error) {
	if in.Title == nil || strings.TrimSpace(*in.Title) == "" {
		return nil, validationError("Task title is required")
	}
	if in.DueDate == nil || *in.DueDate == "" {
		return nil, validationError("Due date is required")
	}

	task := &model.Task{
		UserID:   userID,
		Priority: model.TaskPriorityMedium,
		Status:   model.TaskStatusActive,
	}
	if err := s.apply(task, in); err != nil {
		return nil, err
	}

	now := s.now().In(s.location)
	task.Category = model.CategoryFor(task.DueDate, now)
	if task.IsOverdue(now) {
		task.Status = model.TaskStatusOverdue
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.logger.Info("Task created",
		zap.Int64("user_id", userID),
		zap.Int64("task_id", task.ID),
		zap.String("due_date", task.DueDate.Format(model.DueDateLayout)),
		zap.String("priority", string(task.Priority)))

	return task, nil
}

// List задачи пользователя; категория пересчитывается относительно текущего времени
func (s *TaskService) List(ctx context.Context, userID int64, filter TaskListFilter) ([]*model.Task, error) {
	repoFilter := repository.TaskFilter{}

	if filter.Status != "" {
		status := model.TaskStatus(filter.Status)
		switch status {
		case model.TaskStatusActive, model.TaskStatusCompleted, model.TaskStatusOverdue:
			repoFilter.Status = status
		default:
			return nil, validationError("Unknown task status %q", filter.Status)
		}
	}

	var category model.TaskCategory
	if filter.Category != "" {
		category = model.TaskCategory(filter.Category)
		switch category {
		case model.TaskCategoryToday, model.TaskCategoryThisWeek, model.TaskCategoryNextMonth:
		default:
			return nil, validationError("Unknown task category %q", filter.Category)
		}
	}

	tasks, err := s.taskRepo.List(ctx, userID, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	now := s.now().In(s.location)
	result := make([]*model.Task, 0, len(tasks))
	for _, task := range tasks {
		task.DueDate = dateIn(task.DueDate, s.location)
		task.Category = model.CategoryFor(task.DueDate, now)
		if category != "" && task.Category != category {
			continue
		}
		result = append(result, task)
	}

	return result, nil
}

// DueOn активные задачи пользователя со сроком в указанный день
func (s *TaskService) DueOn(ctx context.Context, userID int64, day time.Time) ([]*model.Task, error) {
	y, m, d := day.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	tasks, err := s.taskRepo.List(ctx, userID, repository.TaskFilter{
		Status: model.TaskStatusActive,
		DueOn:  &date,
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks due on %s: %w", date.Format(model.DueDateLayout), err)
	}
	return tasks, nil
}

// Update частично обновляет задачу
func (s *TaskService) Update(ctx context.Context, userID, id int64, in TaskInput) (*model.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, ErrNotFound
	}
	task.DueDate = dateIn(task.DueDate, s.location)

	if err := s.apply(task, in); err != nil {
		return nil, err
	}

	now := s.now().In(s.location)
	task.Category = model.CategoryFor(task.DueDate, now)
	// Перенос срока возвращает просроченную задачу в работу
	if !task.Completed {
		if task.IsOverdue(now) {
			task.Status = model.TaskStatusOverdue
		} else {
			task.Status = model.TaskStatusActive
		}
	}

	return s.save(ctx, task)
}

// Complete отмечает задачу выполненной
func (s *TaskService) Complete(ctx context.Context, userID, id int64) (*model.Task, error) {
	task, err := s.taskRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	if task == nil {
		return nil, ErrNotFound
	}

	if task.Completed {
		return task, nil
	}

	completedAt := s.now()
	task.Completed = true
	task.CompletedAt = &completedAt
	task.Status = model.TaskStatusCompleted

	task, err = s.save(ctx, task)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Task completed", zap.Int64("user_id", userID), zap.Int64("task_id", id))
	return task, nil
}

func (s *TaskService) save(ctx context.Context, task *model.Task) (*model.Task, error) {
	ok, err := s.taskRepo.Update(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}
	return task, nil
}

// Delete удаляет задачу
func (s *TaskService) Delete(ctx context.Context, userID, id int64) error {
	ok, err := s.taskRepo.Delete(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// Stats сводка по задачам пользователя
func (s *TaskService) Stats(ctx context.Context, userID int64) (*model.TaskStats, error) {
	counts, err := s.taskRepo.CountByStatus(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("task stats: %w", err)
	}

	stats := &model.TaskStats{
		Active:    counts[model.TaskStatusActive],
		Completed: counts[model.TaskStatusCompleted],
		Overdue:   counts[model.TaskStatusOverdue],
	}
	stats.Total = stats.Active + stats.Completed + stats.Overdue
	if stats.Total > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.Total)
	}

	return stats, nil
}

// SweepOverdue переводит в overdue все активные задачи, чей день срока уже закончился
func (s *TaskService) SweepOverdue(ctx context.Context, now time.Time) (int64, error) {
	local := now.In(s.location)
	y, m, d := local.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	n, err := s.taskRepo.MarkOverdue(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("sweep overdue: %w", err)
	}

	if n > 0 {
		s.logger.Info("Tasks marked overdue",
			zap.Int64("count", n),
			zap.String("before", today.Format(model.DueDateLayout)))
	}

	return n, nil
}

func (s *TaskService) apply(task *model.Task, in TaskInput) error {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return validationError("Task title is required")
		}
		task.Title = title
	}
	if in.Subject != nil {
		task.Subject = strings.TrimSpace(*in.Subject)
	}
	if in.DueDate != nil {
		due, err := ParseDueDate(*in.DueDate, s.location)
		if err != nil {
			return err
		}
		task.DueDate = due
	}
	if in.Priority != nil {
		priority, err := ParsePriority(*in.Priority)
		if err != nil {
			return err
		}
		task.Priority = priority
	}
	if in.Reminder != nil {
		task.Reminder = *in.Reminder
	}

	task.Color = model.PriorityColor(task.Priority)
	return nil
}

// ParseDueDate принимает "2006-01-02" или RFC3339 и возвращает полночь дня срока
func ParseDueDate(raw string, location *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	t, err := time.ParseInLocation(model.DueDateLayout, raw, location)
	if err != nil {
		t, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, validationError("Due date must look like 2024-05-31")
		}
		t = t.In(location)
	}
	return dateIn(t, location), nil
}

// dateIn полночь календарного дня t в зоне location.
// pgx отдаёт DATE как полночь UTC, поэтому зону t не пересчитываем.
func dateIn(t time.Time, location *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, location)
}

// ParsePriority разбирает low/medium/high без учёта регистра
func ParsePriority(raw string) (model.TaskPriority, error) {
	switch p := model.TaskPriority(strings.ToLower(strings.TrimSpace(raw))); p {
	case model.TaskPriorityLow, model.TaskPriorityMedium, model.TaskPriorityHigh:
		return p, nil
	case "":
		return model.TaskPriorityMedium, nil
	default:
		return "", validationError("Priority must be low, medium or high")
	}
}
