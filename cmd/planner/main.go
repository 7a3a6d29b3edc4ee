package main

import (
	"fmt"
	"os"

	"github.com/Freeeeeet/study_planner/internal/app"
	"github.com/Freeeeeet/study_planner/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	logger *zap.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "planner",
	Short: "Study planner: timetable, tasks and live schedule",
	Long:  "Study planner serves the REST API, the Telegram bot and background jobs for the student timetable and task list.",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig загружает конфиг и логгер (вызывается командами, которым они нужны)
func loadConfig() error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if logger, err = app.NewLogger(cfg); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return nil
}
