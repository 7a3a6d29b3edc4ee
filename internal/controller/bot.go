package controller

import (
	"context"
	"time"

	"github.com/Freeeeeet/study_planner/internal/controller/handlers"
	"github.com/Freeeeeet/study_planner/internal/controller/state"
	"github.com/Freeeeeet/study_planner/internal/service"
	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

type BotController struct {
	bot      *bot.Bot
	handlers *handlers.Handlers
	live     *handlers.LiveSessions
	logger   *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	userService *service.UserService,
	taskService *service.TaskService,
	timetableService *service.TimetableService,
	dashboardService *service.DashboardService,
	refreshInterval time.Duration,
	logger *zap.Logger,
) *BotController {
	// Создаём менеджер состояний
	stateManager := state.NewManager()

	live := handlers.NewLiveSessions(refreshInterval, nil)

	// Изменение расписания сразу перерисовывает живые сообщения пользователя
	timetableService.OnChange(func(userID int64) {
		if n := live.NotifyUser(userID); n > 0 {
			logger.Debug("Live schedules notified",
				zap.Int64("user_id", userID),
				zap.Int("sessions", n))
		}
	})

	// Создаём обработчики команд
	cmdHandlers := handlers.NewHandlers(
		userService,
		taskService,
		dashboardService,
		stateManager,
		live,
		logger,
	)

	return &BotController{
		bot:      botInstance,
		handlers: cmdHandlers,
		live:     live,
		logger:   logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Регистрируем команды
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/link", bot.MatchTypePrefix, c.handlers.HandleLink)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)

	// Расписание
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/today", bot.MatchTypeExact, c.handlers.HandleToday)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/next", bot.MatchTypeExact, c.handlers.HandleNext)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/week", bot.MatchTypeExact, c.handlers.HandleWeek)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/live", bot.MatchTypeExact, c.handlers.HandleLive)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/stop", bot.MatchTypeExact, c.handlers.HandleStop)

	// Задачи
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/tasks", bot.MatchTypeExact, c.handlers.HandleTasks)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addtask", bot.MatchTypeExact, c.handlers.HandleAddTaskStart)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.handlers.HandleCallbackQuery)

	// Устанавливаем меню команд
	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "today", Description: "📅 Расписание на сегодня"},
		{Command: "next", Description: "⏭ Следующее занятие"},
		{Command: "week", Description: "🗓 Расписание недели"},
		{Command: "live", Description: "🔄 Живое расписание"},
		{Command: "stop", Description: "⏹ Остановить живое расписание"},
		{Command: "tasks", Description: "📋 Мои задачи"},
		{Command: "addtask", Description: "➕ Добавить задачу"},
		{Command: "link", Description: "🔑 Привязать аккаунт"},
		{Command: "help", Description: "❓ Справка по командам"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота и блокирует до отмены контекста
func (c *BotController) Start(ctx context.Context) {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)

	c.live.StopAll()
	c.logger.Info("Bot stopped")
}
