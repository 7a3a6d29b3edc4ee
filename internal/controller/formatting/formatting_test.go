package formatting

import (
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/schedule"
	"github.com/Freeeeeet/study_planner/internal/service"
	"github.com/stretchr/testify/assert"
)

func TestPluralizeMinutes(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "минута"},
		{2, "минуты"},
		{4, "минуты"},
		{5, "минут"},
		{11, "минут"},
		{12, "минут"},
		{21, "минута"},
		{22, "минуты"},
		{111, "минут"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PluralizeMinutes(tt.n), "n=%d", tt.n)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0 минут", FormatDuration(0))
	assert.Equal(t, "25 минут", FormatDuration(25))
	assert.Equal(t, "1 ч", FormatDuration(60))
	assert.Equal(t, "1 ч 30 мин", FormatDuration(90))
}

func TestWeekdayName(t *testing.T) {
	assert.Equal(t, "Понедельник", WeekdayName(time.Monday))
	assert.Equal(t, "Воскресенье", WeekdayName(time.Sunday))
	assert.Equal(t, "Неизвестно", WeekdayName(time.Weekday(9)))
}

// 2024-05-06 понедельник
var monday = time.Date(2024, 5, 6, 8, 35, 0, 0, time.UTC)

func block(label string, start, end int) schedule.Block {
	return schedule.Block{Label: label, StartMinute: start, EndMinute: end, Kind: schedule.KindLecture}
}

func TestDashboard_CurrentAndNext(t *testing.T) {
	math := block("Math", 480, 570)
	math.Location = "Room 101"
	math.Owner = "Dr. Smith"
	physics := block("Physics", 600, 690)

	day := schedule.Day{Weekday: time.Monday, Blocks: []schedule.Block{math, physics}}
	result := schedule.Select(day, schedule.MinuteOfDay(monday))

	text := Dashboard(&service.Dashboard{Result: result, Now: monday})

	assert.Contains(t, text, "📅 Понедельник, 06.05.2024")
	assert.Contains(t, text, "🕐 Сейчас 8:35 AM")
	assert.Contains(t, text, "▶️ Сейчас: Math (8:00 AM - 9:30 AM)")
	assert.Contains(t, text, "📍 Room 101 · 👤 Dr. Smith")
	assert.Contains(t, text, "⏳ Осталось 55 минут")
	assert.Contains(t, text, "⏭ Далее: Physics (10:00 AM - 11:30 AM)")
	assert.Contains(t, text, "🟢 8:00 AM - 9:30 AM  Math (лекция)")
	assert.Contains(t, text, "🔵 10:00 AM - 11:30 AM  Physics (лекция)")
	assert.NotContains(t, text, "Завтра")
}

func TestDashboard_TomorrowAndDeadlines(t *testing.T) {
	late := monday.Add(12 * time.Hour)
	day := schedule.Day{Weekday: time.Tuesday, Blocks: []schedule.Block{block("Chemistry", 540, 630)}}
	result, rolled := schedule.EvaluateDisplay(schedule.Day{Weekday: time.Monday}, day, schedule.MinuteOfDay(late))
	assert.True(t, rolled)

	deadline := schedule.EvaluatedBlock{
		Block:  schedule.Block{Label: "Essay", Owner: "English", StartMinute: 0, EndMinute: schedule.LastMinute, Kind: schedule.KindTask},
		Status: schedule.StatusUpcoming,
	}

	text := Dashboard(&service.Dashboard{
		Result:     result,
		Now:        late,
		IsTomorrow: true,
		Deadlines:  []schedule.EvaluatedBlock{deadline},
		Skipped:    []service.SkippedEntry{{EntryID: 1, Reason: "bad time"}},
	})

	assert.Contains(t, text, "🌙 На сегодня всё. Завтра:")
	assert.Contains(t, text, "📅 Вторник, 07.05.2024")
	assert.Contains(t, text, "⏭ Далее: Chemistry")
	assert.Contains(t, text, "• Essay (English)")
	assert.Contains(t, text, "⚠️ Пропущено 1 запись")
	assert.NotContains(t, text, "▶️")
}

func TestDashboard_EmptyDay(t *testing.T) {
	text := Dashboard(&service.Dashboard{
		Result: schedule.Select(schedule.Day{Weekday: time.Saturday}, 600),
		Now:    time.Date(2024, 5, 4, 10, 0, 0, 0, time.UTC),
	})

	assert.Contains(t, text, "Занятий нет")
	assert.NotContains(t, text, "Занятия:")
}

func TestNext(t *testing.T) {
	t.Run("nothing left", func(t *testing.T) {
		assert.Equal(t, "🎉 Больше занятий нет", Next(&service.Dashboard{}))
	})

	t.Run("current is last", func(t *testing.T) {
		current := block("Math", 480, 570)
		text := Next(&service.Dashboard{Result: schedule.Result{Current: &current, RemainingMinutes: 1}})
		assert.Contains(t, text, "осталось 1 минута")
		assert.Contains(t, text, "Это последнее занятие на сегодня")
	})

	t.Run("next tomorrow", func(t *testing.T) {
		next := block("Physics", 600, 690)
		next.Location = "Lab 2"
		text := Next(&service.Dashboard{Result: schedule.Result{Next: &next}, IsTomorrow: true})
		assert.Equal(t, "⏭ Следующее завтра в 10:00 AM: Physics\n   📍 Lab 2", text)
	})
}

func TestTasks(t *testing.T) {
	assert.Contains(t, Tasks(nil), "Активных задач нет")

	due := time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC)
	tasks := []*model.Task{
		{Title: "Read chapter", DueDate: due.AddDate(0, 0, 20), Priority: model.TaskPriorityLow, Category: model.TaskCategoryNextMonth},
		{Title: "Essay", Subject: "English", DueDate: due, Priority: model.TaskPriorityHigh, Category: model.TaskCategoryToday},
		{Title: "Lab", DueDate: due.AddDate(0, 0, -2), Priority: model.TaskPriorityMedium, Category: model.TaskCategoryToday, Status: model.TaskStatusOverdue},
	}

	text := Tasks(tasks)

	assert.Contains(t, text, "📋 3 задачи")
	assert.Contains(t, text, "🔴 Essay, до 07.05.2024 [English]")
	assert.Contains(t, text, "🟠 Lab, до 05.05.2024 ⚠️ просрочено")
	assert.Less(t, strings.Index(text, "Сегодня:"), strings.Index(text, "Позже:"))
	assert.NotContains(t, text, "На этой неделе:")
}
