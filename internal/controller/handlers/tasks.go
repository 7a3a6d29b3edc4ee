package handlers

import (
	"context"
	"strings"
	"time"

	"github.com/Freeeeeet/study_planner/internal/controller/formatting"
	"github.com/Freeeeeet/study_planner/internal/controller/keyboard"
	"github.com/Freeeeeet/study_planner/internal/controller/state"
	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

// maxTaskButtons сколько задач получают кнопку "выполнено"
const maxTaskButtons = 10

// HandleTasks показывает невыполненные задачи
func (h *Handlers) HandleTasks(ctx context.Context, b *bot.Bot, update *models.Update) {
	user, ok := h.requireUser(ctx, b, update)
	if !ok {
		return
	}

	text, markup, err := h.taskList(ctx, user.ID)
	if err != nil {
		h.logger.Error("Failed to list tasks", zap.Int64("user_id", user.ID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, ErrorMessage(err))
		return
	}

	params := &bot.SendMessageParams{ChatID: update.Message.Chat.ID, Text: text}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	if _, err := b.SendMessage(ctx, params); err != nil {
		h.logger.Error("Failed to send task list", zap.Error(err))
	}
}

func (h *Handlers) taskList(ctx context.Context, userID int64) (string, *models.InlineKeyboardMarkup, error) {
	all, err := h.taskService.List(ctx, userID, service.TaskListFilter{})
	if err != nil {
		return "", nil, err
	}

	pending := make([]*model.Task, 0, len(all))
	for _, t := range all {
		if !t.Completed {
			pending = append(pending, t)
		}
	}

	if len(pending) == 0 {
		return formatting.Tasks(nil), nil, nil
	}

	var ids []int64
	var titles []string
	for i, t := range pending {
		if i == maxTaskButtons {
			break
		}
		ids = append(ids, t.ID)
		titles = append(titles, t.Title)
	}

	return formatting.Tasks(pending), keyboard.TaskDone(ids, titles), nil
}

// HandleAddTaskStart начинает диалог создания задачи
func (h *Handlers) HandleAddTaskStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if _, ok := h.requireUser(ctx, b, update); !ok {
		return
	}
	telegramID := update.Message.From.ID

	h.stateManager.ClearState(telegramID)
	h.stateManager.SetState(telegramID, state.StateAddTaskTitle)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"📝 Новая задача\n\nШаг 1/4: введите название.\n\nДля отмены: /cancel")
}

func (h *Handlers) handleAddTaskTitle(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	title := strings.TrimSpace(update.Message.Text)

	if title == "" {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Название не может быть пустым")
		return
	}

	h.stateManager.UpdateDraft(telegramID, state.StateAddTaskSubject, func(d *state.TaskDraft) {
		d.Title = title
	})

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"Шаг 2/4: предмет (или \"-\", чтобы пропустить).")
}

func (h *Handlers) handleAddTaskSubject(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	subject := strings.TrimSpace(update.Message.Text)
	if subject == "-" {
		subject = ""
	}

	h.stateManager.UpdateDraft(telegramID, state.StateAddTaskDueDate, func(d *state.TaskDraft) {
		d.Subject = subject
	})

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"Шаг 3/4: срок. Например 31.05.2024, 2024-05-31, \"сегодня\" или \"завтра\".")
}

func (h *Handlers) handleAddTaskDueDate(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	chatID := update.Message.Chat.ID

	due, err := parseDueInput(update.Message.Text, h.now(), h.dashboardService.Location())
	if err != nil {
		h.sendError(ctx, b, chatID, ErrorMessage(err)+"\n\nПопробуйте ещё раз или /cancel")
		return
	}

	h.stateManager.UpdateDraft(telegramID, state.StateAddTaskPriority, func(d *state.TaskDraft) {
		d.DueDate = due
	})

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        "Шаг 4/4: приоритет.",
		ReplyMarkup: keyboard.Priorities(),
	})
	if err != nil {
		h.logger.Error("Failed to send priority keyboard", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// finishAddTask создаёт задачу из данных диалога. Приоритет приходит кнопкой или текстом.
func (h *Handlers) finishAddTask(ctx context.Context, b *bot.Bot, chatID, telegramID int64, priority string) {
	if h.stateManager.GetState(telegramID) != state.StateAddTaskPriority {
		h.sendError(ctx, b, chatID, "❌ Диалог устарел. Начните заново: /addtask")
		return
	}

	user, ok := h.lookupUser(ctx, b, chatID, telegramID)
	if !ok {
		return
	}

	draft, ok := h.stateManager.Draft(telegramID)
	if !ok || !draft.Complete() {
		h.logger.Error("Missing data for new task", zap.Int64("telegram_id", telegramID))
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, chatID, "❌ Ошибка: данные не найдены. Начните заново: /addtask")
		return
	}
	draft.Priority = strings.TrimSpace(priority)

	task, err := h.taskService.Create(ctx, user.ID, draftInput(draft))
	if err != nil {
		h.logger.Info("Failed to create task from dialog",
			zap.Int64("user_id", user.ID),
			zap.Error(err))
		h.sendError(ctx, b, chatID, ErrorMessage(err))
		return
	}

	h.stateManager.ClearState(telegramID)
	h.sendMessage(ctx, b, chatID, "✅ Задача добавлена\n\n"+formatting.Task(task)+"\n\nВсе задачи: /tasks")
}

func draftInput(d state.TaskDraft) service.TaskInput {
	return service.TaskInput{
		Title:    &d.Title,
		Subject:  &d.Subject,
		DueDate:  &d.DueDate,
		Priority: &d.Priority,
	}
}

// parseDueInput переводит ввод пользователя в дату "2006-01-02"
func parseDueInput(raw string, now time.Time, location *time.Location) (string, error) {
	text := strings.TrimSpace(raw)
	local := now.In(location)

	switch strings.ToLower(text) {
	case "сегодня", "today":
		return local.Format(model.DueDateLayout), nil
	case "завтра", "tomorrow":
		return local.AddDate(0, 0, 1).Format(model.DueDateLayout), nil
	}

	if t, err := time.ParseInLocation("02.01.2006", text, location); err == nil {
		return t.Format(model.DueDateLayout), nil
	}
	if t, err := time.ParseInLocation("02.01", text, location); err == nil {
		return time.Date(local.Year(), t.Month(), t.Day(), 0, 0, 0, 0, location).Format(model.DueDateLayout), nil
	}

	due, err := service.ParseDueDate(text, location)
	if err != nil {
		return "", err
	}
	return due.Format(model.DueDateLayout), nil
}

// HandleCallbackQuery обрабатывает нажатия на inline кнопки
func (h *Handlers) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}

	cq := update.CallbackQuery
	msg := cq.Message.Message
	if msg == nil {
		answerCallback(ctx, b, cq.ID, "Сообщение устарело")
		return
	}
	chatID := msg.Chat.ID

	switch {
	case strings.HasPrefix(cq.Data, keyboard.PrefixTaskPriority):
		answerCallback(ctx, b, cq.ID, "")
		h.finishAddTask(ctx, b, chatID, cq.From.ID, strings.TrimPrefix(cq.Data, keyboard.PrefixTaskPriority))

	case strings.HasPrefix(cq.Data, keyboard.PrefixTaskDone):
		h.completeTask(ctx, b, cq, msg)

	case cq.Data == keyboard.CallbackLiveStop:
		h.live.Stop(chatID)
		answerCallback(ctx, b, cq.ID, "Остановлено")
		b.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
			ChatID:    chatID,
			MessageID: msg.ID,
		})

	default:
		h.logger.Warn("Unknown callback", zap.String("data", cq.Data))
		answerCallback(ctx, b, cq.ID, "")
	}
}

func (h *Handlers) completeTask(ctx context.Context, b *bot.Bot, cq *models.CallbackQuery, msg *models.Message) {
	id, err := parseCallbackID(cq.Data, keyboard.PrefixTaskDone)
	if err != nil {
		answerCallback(ctx, b, cq.ID, "❌ Неверный формат данных")
		return
	}

	user, ok := h.lookupUser(ctx, b, msg.Chat.ID, cq.From.ID)
	if !ok {
		answerCallback(ctx, b, cq.ID, "")
		return
	}

	if _, err := h.taskService.Complete(ctx, user.ID, id); err != nil {
		h.logger.Info("Failed to complete task",
			zap.Int64("user_id", user.ID),
			zap.Int64("task_id", id),
			zap.Error(err))
		answerCallback(ctx, b, cq.ID, ErrorMessage(err))
		return
	}
	answerCallback(ctx, b, cq.ID, "✅ Выполнено")

	text, markup, err := h.taskList(ctx, user.ID)
	if err != nil {
		h.logger.Error("Failed to refresh task list", zap.Int64("user_id", user.ID), zap.Error(err))
		return
	}

	params := &bot.EditMessageTextParams{ChatID: msg.Chat.ID, MessageID: msg.ID, Text: text}
	if markup != nil {
		params.ReplyMarkup = markup
	}
	if _, err := b.EditMessageText(ctx, params); err != nil {
		h.logger.Warn("Failed to edit task list", zap.Int64("chat_id", msg.Chat.ID), zap.Error(err))
	}
}
