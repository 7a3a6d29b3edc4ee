package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type TaskRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewTaskRepository(pool *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// TaskFilter необязательные условия выборки задач
type TaskFilter struct {
	Status   model.TaskStatus
	Category model.TaskCategory
	DueOn    *time.Time
}

const taskColumns = `id, user_id, title, subject, due_date, priority, category, color, reminder, status, completed, completed_at, created_at`

func scanTask(row interface{ Scan(...interface{}) error }) (*model.Task, error) {
	var task model.Task
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Subject,
		&task.DueDate,
		&task.Priority,
		&task.Category,
		&task.Color,
		&task.Reminder,
		&task.Status,
		&task.Completed,
		&task.CompletedAt,
		&task.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// Create создаёт задачу
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	query := `
		INSERT INTO tasks (user_id, title, subject, due_date, priority, category, color, reminder, status, completed, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		task.UserID,
		task.Title,
		task.Subject,
		task.DueDate,
		task.Priority,
		task.Category,
		task.Color,
		task.Reminder,
		task.Status,
		task.Completed,
		task.CompletedAt,
	).Scan(&task.ID, &task.CreatedAt)

	if err != nil {
		r.logger.Error("Failed to insert task into DB",
			zap.Int64("user_id", task.UserID),
			zap.String("title", task.Title),
			zap.Error(err))
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

// GetByID получает задачу пользователя по ID
func (r *TaskRepository) GetByID(ctx context.Context, userID, id int64) (*model.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`

	task, err := scanTask(r.QueryRow(ctx, query, id, userID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get task by id: %w", err)
	}

	return task, nil
}

// List получает задачи пользователя, отсортированные по сроку
func (r *TaskRepository) List(ctx context.Context, userID int64, filter TaskFilter) ([]*model.Task, error) {
	conds := []string{"user_id = $1"}
	args := []interface{}{userID}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.DueOn != nil {
		args = append(args, *filter.DueOn)
		conds = append(conds, fmt.Sprintf("due_date = $%d::date", len(args)))
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY due_date, created_at`

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query tasks",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := []*model.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tasks: %w", err)
	}

	return tasks, nil
}

// Update сохраняет все изменяемые поля задачи
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) (bool, error) {
	query := `
		UPDATE tasks
		SET title = $1, subject = $2, due_date = $3, priority = $4, category = $5, color = $6,
		    reminder = $7, status = $8, completed = $9, completed_at = $10
		WHERE id = $11 AND user_id = $12
	`

	affected, err := r.ExecAffected(
		ctx, query,
		task.Title,
		task.Subject,
		task.DueDate,
		task.Priority,
		task.Category,
		task.Color,
		task.Reminder,
		task.Status,
		task.Completed,
		task.CompletedAt,
		task.ID,
		task.UserID,
	)
	if err != nil {
		return false, fmt.Errorf("update task: %w", err)
	}

	return affected > 0, nil
}

// Delete удаляет задачу
func (r *TaskRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete task: %w", err)
	}

	return affected > 0, nil
}

// MarkOverdue переводит активные задачи со сроком раньше day в overdue.
// Возвращает количество изменённых задач.
func (r *TaskRepository) MarkOverdue(ctx context.Context, day time.Time) (int64, error) {
	query := `
		UPDATE tasks
		SET status = 'overdue'
		WHERE status = 'active' AND completed = false AND due_date < $1::date
	`

	affected, err := r.ExecAffected(ctx, query, day)
	if err != nil {
		return 0, fmt.Errorf("mark overdue tasks: %w", err)
	}

	return affected, nil
}

// CountByStatus количество задач пользователя по статусам
func (r *TaskRepository) CountByStatus(ctx context.Context, userID int64) (map[model.TaskStatus]int, error) {
	rows, err := r.Query(ctx, `SELECT status, COUNT(*) FROM tasks WHERE user_id = $1 GROUP BY status`, userID)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	defer rows.Close()

	counts := make(map[model.TaskStatus]int)
	for rows.Next() {
		var status model.TaskStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan task count: %w", err)
		}
		counts[status] = n
	}

	return counts, rows.Err()
}
