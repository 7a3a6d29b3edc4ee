package app

import (
	"context"
	"time"

	"github.com/Freeeeeet/study_planner/internal/metrics"
	"github.com/Freeeeeet/study_planner/internal/schedule"
	"go.uber.org/zap"
)

// OverdueSweepInterval период проверки просроченных задач
const OverdueSweepInterval = time.Minute

// OverdueSweeper переводит задачи с прошедшим сроком в overdue
type OverdueSweeper interface {
	SweepOverdue(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	sweeper   OverdueSweeper
	refresher *schedule.Refresher
	logger    *zap.Logger
}

// NewScheduler создаёт новый планировщик. nil clock означает системные часы.
func NewScheduler(sweeper OverdueSweeper, clock schedule.Clock, logger *zap.Logger) *Scheduler {
	s := &Scheduler{
		sweeper: sweeper,
		logger:  logger,
	}
	s.refresher = schedule.NewRefresher(OverdueSweepInterval, clock, s.sweepOverdue)
	return s
}

// Start запускает фоновые задачи. Первый запуск происходит сразу.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler",
		zap.Duration("overdue_interval", OverdueSweepInterval))

	s.refresher.Start(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	s.refresher.Stop()
}

// sweepOverdue помечает просроченные задачи
func (s *Scheduler) sweepOverdue(ctx context.Context, now time.Time) {
	n, err := s.sweeper.SweepOverdue(ctx, now)
	if err != nil {
		s.logger.Error("Failed to sweep overdue tasks", zap.Error(err))
		return
	}

	metrics.ObserveOverdue(n)
}
