package formatting

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/study_planner/internal/model"
)

// PriorityEmoji значок приоритета
func PriorityEmoji(p model.TaskPriority) string {
	switch p {
	case model.TaskPriorityHigh:
		return "🔴"
	case model.TaskPriorityLow:
		return "🟢"
	default:
		return "🟠"
	}
}

var categoryOrder = []model.TaskCategory{
	model.TaskCategoryToday,
	model.TaskCategoryThisWeek,
	model.TaskCategoryNextMonth,
}

var categoryTitles = map[model.TaskCategory]string{
	model.TaskCategoryToday:     "Сегодня",
	model.TaskCategoryThisWeek:  "На этой неделе",
	model.TaskCategoryNextMonth: "Позже",
}

// Tasks список активных задач, сгруппированный по категориям срока
func Tasks(tasks []*model.Task) string {
	if len(tasks) == 0 {
		return "📭 Активных задач нет\n\nДобавить: /addtask"
	}

	groups := make(map[model.TaskCategory][]*model.Task)
	for _, t := range tasks {
		groups[t.Category] = append(groups[t.Category], t)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 %d %s\n", len(tasks), PluralizeTasks(len(tasks)))

	for _, category := range categoryOrder {
		list := groups[category]
		if len(list) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n%s:\n", categoryTitles[category])
		for _, t := range list {
			sb.WriteString(Task(t))
			sb.WriteString("\n")
		}
	}

	return strings.TrimRight(sb.String(), "\n")
}

// Task одна строка задачи
func Task(t *model.Task) string {
	line := fmt.Sprintf("%s %s, до %s", PriorityEmoji(t.Priority), t.Title, FormatDate(t.DueDate))
	if t.Subject != "" {
		line += " [" + t.Subject + "]"
	}
	if t.Status == model.TaskStatusOverdue {
		line += " ⚠️ просрочено"
	}
	return line
}
