package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/study_planner/internal/controller/state"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const helpText = "📚 Справка по командам:\n\n" +
	"Расписание:\n" +
	"/today - Расписание на сегодня (после последнего занятия на завтра)\n" +
	"/next - Текущее и следующее занятие\n" +
	"/week - Картинка с расписанием недели\n" +
	"/live - Расписание, которое обновляется каждую минуту\n" +
	"/stop - Остановить обновление\n\n" +
	"Задачи:\n" +
	"/tasks - Активные задачи\n" +
	"/addtask - Добавить задачу\n\n" +
	"Аккаунт:\n" +
	"/link email пароль - Привязать аккаунт из приложения\n" +
	"/cancel - Отменить текущую операцию\n" +
	"/help - Показать эту справку"

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	from := update.Message.From

	// Регистрируем пользователя
	user, err := h.userService.RegisterTelegramUser(
		ctx,
		from.ID,
		from.Username,
		from.FirstName,
		from.LastName,
		from.LanguageCode,
	)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка при регистрации. Попробуйте позже.")
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Я показываю текущее и следующее занятие и напоминаю о дедлайнах.\n\n"+
			"Уже пользуетесь приложением? Привяжите аккаунт: /link email пароль\n\n"+
			"%s",
		user.DisplayName(),
		helpText,
	)

	h.sendMessage(ctx, b, update.Message.Chat.ID, welcomeText)
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, helpText)
}

// HandleLink обрабатывает /link email пароль
func (h *Handlers) HandleLink(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	args := commandArgs(update.Message.Text)
	if args == "" {
		h.stateManager.ClearState(update.Message.From.ID)
		h.stateManager.SetState(update.Message.From.ID, state.StateLinkCredentials)
		h.sendMessage(ctx, b, update.Message.Chat.ID,
			"🔑 Отправьте email и пароль через пробел.\n\nДля отмены: /cancel")
		return
	}

	h.linkAccount(ctx, b, update.Message, args)
}

func (h *Handlers) linkAccount(ctx context.Context, b *bot.Bot, msg *models.Message, args string) {
	chatID := msg.Chat.ID
	telegramID := msg.From.ID

	// Сообщение содержит пароль, убираем его из чата
	if _, err := b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: msg.ID}); err != nil {
		h.logger.Warn("Failed to delete credentials message",
			zap.Int64("chat_id", chatID),
			zap.Error(err))
	}

	email, password, ok := parseCredentials(args)
	if !ok {
		h.sendError(ctx, b, chatID, "❌ Нужно два значения: email и пароль.\n\nПример: /link me@example.com secret")
		return
	}

	user, err := h.userService.LinkTelegram(ctx, telegramID, email, password)
	if err != nil {
		h.logger.Info("Failed to link telegram",
			zap.Int64("telegram_id", telegramID),
			zap.Error(err))
		h.sendError(ctx, b, chatID, ErrorMessage(err))
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, chatID, fmt.Sprintf("✅ Аккаунт %s привязан.\n\nРасписание: /today", user.DisplayName()))
}

// parseCredentials разбирает "email пароль"; пароль может содержать пробелы
func parseCredentials(args string) (email, password string, ok bool) {
	email, password, found := strings.Cut(strings.TrimSpace(args), " ")
	password = strings.TrimSpace(password)
	if !found || email == "" || password == "" {
		return "", "", false
	}
	return email, password, true
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	if currentState == state.StateNone {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "❌ Нет активных операций для отмены.")
		return
	}

	// Очищаем состояние
	h.stateManager.ClearState(telegramID)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.")
}

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil || update.Message.Text == "" {
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers)
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	// Если нет активного состояния, игнорируем
	if currentState == state.StateNone {
		h.logger.Debug("No active state, ignoring message",
			zap.Int64("telegram_id", telegramID))
		return
	}

	h.logger.Debug("Dialog step",
		zap.Int64("telegram_id", telegramID),
		zap.String("state", string(currentState)))

	// Обрабатываем в зависимости от состояния
	switch currentState {
	case state.StateLinkCredentials:
		h.linkAccount(ctx, b, update.Message, update.Message.Text)
	case state.StateAddTaskTitle:
		h.handleAddTaskTitle(ctx, b, update)
	case state.StateAddTaskSubject:
		h.handleAddTaskSubject(ctx, b, update)
	case state.StateAddTaskDueDate:
		h.handleAddTaskDueDate(ctx, b, update)
	case state.StateAddTaskPriority:
		h.finishAddTask(ctx, b, update.Message.Chat.ID, telegramID, update.Message.Text)
	default:
		h.logger.Warn("Unknown state", zap.String("state", string(currentState)))
		h.stateManager.ClearState(telegramID)
	}
}
