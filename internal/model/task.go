package model

import "time"

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

type TaskStatus string

const (
	TaskStatusActive    TaskStatus = "active"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusOverdue   TaskStatus = "overdue"
)

// TaskCategory группа задачи на экране, вычисляется по сроку
type TaskCategory string

const (
	TaskCategoryToday     TaskCategory = "Today"
	TaskCategoryThisWeek  TaskCategory = "This Week"
	TaskCategoryNextMonth TaskCategory = "Next Month"
)

// DueDateLayout формат срока задачи
const DueDateLayout = "2006-01-02"

type Task struct {
	ID          int64        `json:"_id"`
	UserID      int64        `json:"user_id"`
	Title       string       `json:"title"`
	Subject     string       `json:"subject"`
	DueDate     time.Time    `json:"due_date"`
	Priority    TaskPriority `json:"priority"`
	Category    TaskCategory `json:"category"`
	Color       string       `json:"color"`
	Reminder    bool         `json:"reminder"`
	Status      TaskStatus   `json:"status"`
	Completed   bool         `json:"completed"`
	CompletedAt *time.Time   `json:"completed_at"`
	CreatedAt   time.Time    `json:"created_at"`
}

// PriorityColor цвет карточки по приоритету
func PriorityColor(p TaskPriority) string {
	switch p {
	case TaskPriorityHigh:
		return "#FF4B6E"
	case TaskPriorityLow:
		return "#34A853"
	default:
		return "#FFA726"
	}
}

// CategoryFor относит срок к группе относительно now (разница в днях с округлением вверх)
func CategoryFor(due, now time.Time) TaskCategory {
	diff := due.Sub(now)
	days := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) > 0 {
		days++
	}

	switch {
	case days <= 1:
		return TaskCategoryToday
	case days <= 7:
		return TaskCategoryThisWeek
	default:
		return TaskCategoryNextMonth
	}
}

// IsOverdue true когда конец дня срока уже прошёл
func (t *Task) IsOverdue(now time.Time) bool {
	if t.Completed {
		return false
	}
	y, m, d := t.DueDate.Date()
	endOfDay := time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Millisecond), now.Location())
	return endOfDay.Before(now)
}

// TaskStats сводка для экрана выполненных задач
type TaskStats struct {
	Total          int     `json:"total"`
	Active         int     `json:"active"`
	Completed      int     `json:"completed"`
	Overdue        int     `json:"overdue"`
	CompletionRate float64 `json:"completion_rate"`
}
