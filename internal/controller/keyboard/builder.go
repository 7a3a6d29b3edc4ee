package keyboard

import (
	"fmt"

	"github.com/go-telegram/bot/models"
)

// Префиксы callback data
const (
	PrefixTaskPriority = "task_priority:" // task_priority:high
	PrefixTaskDone     = "task_done:"     // task_done:42
	CallbackLiveStop   = "live_stop"
)

// Builder упрощает создание inline клавиатур
type Builder struct {
	rows [][]models.InlineKeyboardButton
}

// NewBuilder создаёт новый builder клавиатуры
func NewBuilder() *Builder {
	return &Builder{
		rows: make([][]models.InlineKeyboardButton, 0),
	}
}

// Row добавляет новый ряд кнопок
func (b *Builder) Row(buttons ...models.InlineKeyboardButton) *Builder {
	if len(buttons) > 0 {
		b.rows = append(b.rows, buttons)
	}
	return b
}

// Button создаёт кнопку
func Button(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{
		Text:         text,
		CallbackData: callbackData,
	}
}

// Build создаёт финальную клавиатуру
func (b *Builder) Build() *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: b.rows,
	}
}

// Priorities выбор приоритета на последнем шаге /addtask
func Priorities() *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(
			Button("🟢 Низкий", PrefixTaskPriority+"low"),
			Button("🟠 Средний", PrefixTaskPriority+"medium"),
			Button("🔴 Высокий", PrefixTaskPriority+"high"),
		).
		Build()
}

// TaskDone кнопки "выполнено" для списка задач, по одной в ряд
func TaskDone(ids []int64, titles []string) *models.InlineKeyboardMarkup {
	b := NewBuilder()
	for i, id := range ids {
		b.Row(Button("✅ "+titles[i], fmt.Sprintf("%s%d", PrefixTaskDone, id)))
	}
	return b.Build()
}

// LiveStop кнопка под живым расписанием
func LiveStop() *models.InlineKeyboardMarkup {
	return NewBuilder().
		Row(Button("⏹ Остановить", CallbackLiveStop)).
		Build()
}
