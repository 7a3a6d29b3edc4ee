package formatting

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/study_planner/internal/schedule"
	"github.com/Freeeeeet/study_planner/internal/service"
)

// StatusEmoji значок статуса блока
func StatusEmoji(status schedule.Status) string {
	switch status {
	case schedule.StatusOngoing:
		return "🟢"
	case schedule.StatusUpcoming:
		return "🔵"
	default:
		return "⚪️"
	}
}

// KindLabel подпись типа занятия
func KindLabel(kind schedule.Kind) string {
	switch kind {
	case schedule.KindLaboratory:
		return "лаб."
	case schedule.KindTask:
		return "задача"
	default:
		return "лекция"
	}
}

// Dashboard текст экрана расписания для /today и живого сообщения
func Dashboard(d *service.Dashboard) string {
	var sb strings.Builder

	shown := d.Now
	if d.IsTomorrow {
		shown = d.Now.AddDate(0, 0, 1)
	}

	if d.IsTomorrow {
		sb.WriteString("🌙 На сегодня всё. Завтра:\n")
	}
	fmt.Fprintf(&sb, "📅 %s, %s\n", WeekdayName(shown.Weekday()), FormatDate(shown))
	fmt.Fprintf(&sb, "🕐 Сейчас %s\n\n", schedule.FormatTime(schedule.MinuteOfDay(d.Now)))

	if len(d.Blocks) == 0 {
		sb.WriteString("Занятий нет 🎉\n")
	}

	if d.Current != nil {
		fmt.Fprintf(&sb, "▶️ Сейчас: %s (%s)\n", d.Current.Label, d.Current.TimeRange())
		if details := blockDetails(*d.Current); details != "" {
			fmt.Fprintf(&sb, "   %s\n", details)
		}
		fmt.Fprintf(&sb, "   ⏳ Осталось %s\n", FormatDuration(d.RemainingMinutes))
	}
	if d.Next != nil {
		fmt.Fprintf(&sb, "⏭ Далее: %s (%s)\n", d.Next.Label, d.Next.TimeRange())
	}

	if len(d.Blocks) > 0 {
		sb.WriteString("\nЗанятия:\n")
		for _, b := range d.Blocks {
			fmt.Fprintf(&sb, "%s %s  %s (%s)\n", StatusEmoji(b.Status), b.TimeRange(), b.Label, KindLabel(b.Kind))
		}
	}

	if len(d.Deadlines) > 0 {
		sb.WriteString("\n📝 Дедлайны:\n")
		for _, b := range d.Deadlines {
			if b.Owner != "" {
				fmt.Fprintf(&sb, "• %s (%s)\n", b.Label, b.Owner)
			} else {
				fmt.Fprintf(&sb, "• %s\n", b.Label)
			}
		}
	}

	if n := len(d.Skipped); n > 0 {
		fmt.Fprintf(&sb, "\n⚠️ Пропущено %d %s с ошибками в расписании\n", n, PluralizeEntries(n))
	}

	return strings.TrimRight(sb.String(), "\n")
}

// Next короткий ответ на /next
func Next(d *service.Dashboard) string {
	if d.Current == nil && d.Next == nil {
		return "🎉 Больше занятий нет"
	}

	var sb strings.Builder
	if d.Current != nil {
		fmt.Fprintf(&sb, "▶️ Сейчас: %s, осталось %s\n",
			d.Current.Label, FormatDuration(d.RemainingMinutes))
	}
	if d.Next != nil {
		when := "сегодня"
		if d.IsTomorrow {
			when = "завтра"
		}
		fmt.Fprintf(&sb, "⏭ Следующее %s в %s: %s", when, schedule.FormatTime(d.Next.StartMinute), d.Next.Label)
		if details := blockDetails(*d.Next); details != "" {
			fmt.Fprintf(&sb, "\n   %s", details)
		}
	} else {
		sb.WriteString("Это последнее занятие на сегодня")
	}

	return strings.TrimRight(sb.String(), "\n")
}

func blockDetails(b schedule.Block) string {
	var parts []string
	if b.Location != "" {
		parts = append(parts, "📍 "+b.Location)
	}
	if b.Owner != "" {
		parts = append(parts, "👤 "+b.Owner)
	}
	return strings.Join(parts, " · ")
}
