package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	MinutesPerDay = 24 * 60
	LastMinute    = MinutesPerDay - 1

	rangeSeparator = " - "
)

// ErrMalformedTime базовая ошибка для всех ошибок разбора времени
var ErrMalformedTime = errors.New("malformed time")

// MalformedTimeError описывает строку, которую не удалось разобрать
type MalformedTimeError struct {
	Input  string
	Reason string
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("malformed time %q: %s", e.Input, e.Reason)
}

func (e *MalformedTimeError) Is(target error) bool {
	return target == ErrMalformedTime
}

func malformed(input, reason string) error {
	return &MalformedTimeError{Input: input, Reason: reason}
}

// ParseTime переводит строку вида "8:00 AM", "08:00" или "3:00pm" в минуту дня (0-1439)
func ParseTime(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, malformed(raw, "empty")
	}

	// Отделяем суффикс AM/PM, если он есть
	period := ""
	upper := strings.ToUpper(s)
	if strings.HasSuffix(upper, "AM") || strings.HasSuffix(upper, "PM") {
		period = upper[len(upper)-2:]
		s = strings.TrimSpace(s[:len(s)-2])
		if s == "" {
			return 0, malformed(raw, "missing clock value")
		}
	}

	hh, mm, ok := strings.Cut(s, ":")
	if !ok {
		return 0, malformed(raw, "missing ':'")
	}
	if len(hh) < 1 || len(hh) > 2 || len(mm) != 2 {
		return 0, malformed(raw, "expected H:MM or HH:MM")
	}

	hours, err := parseDigits(hh)
	if err != nil {
		return 0, malformed(raw, "hours are not a number")
	}
	minutes, err := parseDigits(mm)
	if err != nil {
		return 0, malformed(raw, "minutes are not a number")
	}
	if minutes > 59 {
		return 0, malformed(raw, "minutes out of range")
	}

	switch period {
	case "":
		if hours > 23 {
			return 0, malformed(raw, "hours out of range")
		}
		return hours*60 + minutes, nil
	case "AM", "PM":
		if hours < 1 || hours > 12 {
			return 0, malformed(raw, "12-hour clock expects hours 1-12")
		}
		if hours == 12 {
			hours = 0
		}
		if period == "PM" {
			hours += 12
		}
		return hours*60 + minutes, nil
	}

	return 0, malformed(raw, "unknown period")
}

// parseDigits принимает только цифры, без знаков и пробелов
func parseDigits(s string) (int, error) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.Atoi(s)
}

// ParseRange разбирает "START - END" и проверяет, что конец позже начала
func ParseRange(raw string) (start, end int, err error) {
	left, right, ok := strings.Cut(raw, rangeSeparator)
	if !ok {
		return 0, 0, malformed(raw, "missing ' - ' separator")
	}

	start, err = ParseTime(left)
	if err != nil {
		return 0, 0, err
	}
	end, err = ParseTime(right)
	if err != nil {
		return 0, 0, err
	}
	if end <= start {
		return 0, 0, malformed(raw, "end must be after start")
	}

	return start, end, nil
}

// FormatTime возвращает каноническую 12-часовую запись, например "8:05 AM"
func FormatTime(minute int) string {
	minute = clampMinute(minute)
	hours := minute / 60
	period := "AM"
	if hours >= 12 {
		period = "PM"
	}
	hours %= 12
	if hours == 0 {
		hours = 12
	}
	return fmt.Sprintf("%d:%02d %s", hours, minute%60, period)
}

// Format24 возвращает запись "HH:MM"
func Format24(minute int) string {
	minute = clampMinute(minute)
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}

// FormatRange форматирует интервал так же, как его хранит клиент: "8:00 AM - 9:30 AM"
func FormatRange(start, end int) string {
	return FormatTime(start) + rangeSeparator + FormatTime(end)
}

// Normalize приводит строку времени к канонической 12-часовой форме
func Normalize(raw string) (string, error) {
	minute, err := ParseTime(raw)
	if err != nil {
		return "", err
	}
	return FormatTime(minute), nil
}

func clampMinute(minute int) int {
	if minute < 0 {
		return 0
	}
	if minute > LastMinute {
		return LastMinute
	}
	return minute
}
