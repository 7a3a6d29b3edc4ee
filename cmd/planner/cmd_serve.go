package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/Freeeeeet/study_planner/internal/api"
	"github.com/Freeeeeet/study_planner/internal/app"
	"github.com/Freeeeeet/study_planner/internal/auth"
	"github.com/Freeeeeet/study_planner/internal/controller"
	"github.com/Freeeeeet/study_planner/internal/metrics"
	"github.com/Freeeeeet/study_planner/internal/repository"
	"github.com/Freeeeeet/study_planner/internal/service"
	"github.com/Freeeeeet/study_planner/migrations"
	"github.com/go-telegram/bot"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API, the Telegram bot and the background scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := loadConfig(); err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("Starting study planner",
		zap.String("environment", cfg.Environment),
		zap.String("timezone", cfg.Timezone.String()),
		zap.Bool("bot_enabled", cfg.BotEnabled()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := app.ConnectDB(ctx, cfg.DBDSN, cfg.DBConnectRetries, cfg.DBRetryDelay, logger)
	if err != nil {
		return err
	}
	defer pool.Close()

	migrator, err := app.NewMigrator(pool, migrations.FS, ".", logger)
	if err != nil {
		return err
	}
	err = migrator.Run(ctx)
	migrator.Close()
	if err != nil {
		return err
	}

	// Репозитории
	userRepo := repository.NewUserRepository(pool, logger)
	subjectRepo := repository.NewSubjectRepository(pool, logger)
	taskRepo := repository.NewTaskRepository(pool, logger)
	timetableRepo := repository.NewTimetableRepository(pool, logger)
	notificationRepo := repository.NewNotificationRepository(pool)

	// Сервисы
	tokens := auth.NewIssuer(cfg.JWTSecret, cfg.JWTTTL)
	userService := service.NewUserService(userRepo, tokens, logger)
	subjectService := service.NewSubjectService(subjectRepo, logger)
	taskService := service.NewTaskService(taskRepo, cfg.Timezone, logger)
	timetableService := service.NewTimetableService(timetableRepo, logger)
	dashboardService := service.NewDashboardService(timetableService, taskService, cfg.Timezone, logger)
	notificationService := service.NewNotificationService(notificationRepo, logger)

	metrics.Register()

	server := api.NewServer(api.Deps{
		Users:         userService,
		Subjects:      subjectService,
		Tasks:         taskService,
		Timetable:     timetableService,
		Dashboard:     dashboardService,
		Notifications: notificationService,
		Tokens:        tokens,
	}, logger)

	scheduler := app.NewScheduler(taskService, nil, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	var wg sync.WaitGroup
	errCh := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := server.ListenAndServe(ctx, cfg.HTTPAddr); err != nil {
			errCh <- err
		}
	}()

	if cfg.BotEnabled() {
		b, err := bot.New(cfg.TelegramToken)
		if err != nil {
			stop()
			wg.Wait()
			return fmt.Errorf("create bot: %w", err)
		}

		botController := controller.NewBotController(
			b,
			userService,
			taskService,
			timetableService,
			dashboardService,
			cfg.RefreshInterval,
			logger,
		)
		if err := botController.RegisterHandlers(ctx); err != nil {
			logger.Warn("Bot commands menu not set", zap.Error(err))
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			botController.Start(ctx)
		}()
	} else {
		logger.Info("TELEGRAM_TOKEN not set, bot disabled")
	}

	select {
	case <-ctx.Done():
	case err = <-errCh:
		logger.Error("Service failed", zap.Error(err))
		stop()
	}

	wg.Wait()
	logger.Info("Study planner stopped")
	return err
}
