package handlers

import (
	"bytes"
	"context"
	"time"

	"github.com/Freeeeeet/study_planner/internal/controller/formatting"
	"github.com/Freeeeeet/study_planner/internal/controller/keyboard"
	"github.com/Freeeeeet/study_planner/internal/render"
	"github.com/Freeeeeet/study_planner/internal/schedule"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// HandleToday обрабатывает команду /today
func (h *Handlers) HandleToday(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	dash, err := h.dashboardService.Evaluate(ctx, user.ID, h.now())
	if err != nil {
		h.logger.Error("Failed to evaluate dashboard", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, ErrorMessage(err))
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, formatting.Dashboard(dash))
}

// HandleNext обрабатывает команду /next
func (h *Handlers) HandleNext(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	dash, err := h.dashboardService.Evaluate(ctx, user.ID, h.now())
	if err != nil {
		h.logger.Error("Failed to evaluate dashboard", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, ErrorMessage(err))
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, formatting.Next(dash))
}

// HandleWeek отправляет картинку с расписанием недели
func (h *Handlers) HandleWeek(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	days, err := h.dashboardService.Days(ctx, user.ID)
	if err != nil {
		h.logger.Error("Failed to load timetable", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, chatID, ErrorMessage(err))
		return
	}

	now := h.now().In(h.dashboardService.Location())
	img, err := render.WeekImage(days, now)
	if err != nil {
		h.logger.Error("Failed to render week image", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, chatID, "❌ Не удалось нарисовать расписание")
		return
	}

	_, err = b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID:  chatID,
		Photo:   &models.InputFileUpload{Filename: "week.png", Data: bytes.NewReader(img)},
		Caption: "🗓 Расписание на неделю",
	})
	if err != nil {
		h.logger.Error("Failed to send week image", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// HandleLive отправляет сообщение с расписанием и обновляет его каждую минуту
func (h *Handlers) HandleLive(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}
	chatID := update.Message.Chat.ID

	dash, err := h.dashboardService.Evaluate(ctx, user.ID, h.now())
	if err != nil {
		h.logger.Error("Failed to evaluate dashboard", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, chatID, ErrorMessage(err))
		return
	}

	text := formatting.Dashboard(dash)
	msg, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard.LiveStop(),
	})
	if err != nil {
		h.logger.Error("Failed to send live message", zap.Int64("chat_id", chatID), zap.Error(err))
		return
	}

	h.live.Start(ctx, chatID, user.ID, h.liveEvaluator(b, chatID, msg.ID, user.ID, text))

	h.logger.Info("Live schedule started",
		zap.Int64("chat_id", chatID),
		zap.Int64("user_id", user.ID))
}

// liveEvaluator пересчитывает расписание и редактирует живое сообщение.
// Telegram отклоняет правку без изменений, поэтому одинаковый текст не отправляется.
func (h *Handlers) liveEvaluator(b *bot.Bot, chatID int64, messageID int, userID int64, sent string) schedule.EvaluateFunc {
	last := sent
	return func(ctx context.Context, now time.Time) {
		dash, err := h.dashboardService.Evaluate(ctx, userID, now)
		if err != nil {
			h.logger.Error("Failed to refresh live schedule",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
			return
		}

		text := formatting.Dashboard(dash)
		if text == last {
			return
		}

		_, err = b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:      chatID,
			MessageID:   messageID,
			Text:        text,
			ReplyMarkup: keyboard.LiveStop(),
		})
		if err != nil {
			h.logger.Warn("Failed to edit live message",
				zap.Int64("chat_id", chatID),
				zap.Int("message_id", messageID),
				zap.Error(err))
			return
		}
		last = text
	}
}

// HandleStop останавливает живое расписание в чате
func (h *Handlers) HandleStop(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	if !h.live.Stop(chatID) {
		h.sendMessage(ctx, b, chatID, "ℹ️ Живое расписание не запущено. Запустить: /live")
		return
	}

	h.sendMessage(ctx, b, chatID, "⏹ Обновление расписания остановлено")
}
