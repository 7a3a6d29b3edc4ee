package handlers

import (
	"errors"

	"github.com/Freeeeeet/study_planner/internal/schedule"
	"github.com/Freeeeeet/study_planner/internal/service"
)

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	var validation *service.ValidationError

	switch {
	case errors.As(err, &validation):
		return "❌ " + validation.Message
	case errors.Is(err, service.ErrInvalidCredentials):
		return "❌ Неверный email или пароль"
	case errors.Is(err, service.ErrNotFound):
		return "❌ Не найдено"
	case errors.Is(err, schedule.ErrOverlappingBlocks):
		return "❌ Занятия в расписании пересекаются"
	case errors.Is(err, schedule.ErrMalformedTime):
		return "❌ Неверный формат времени"
	default:
		return "❌ Произошла ошибка. Попробуйте позже."
	}
}
