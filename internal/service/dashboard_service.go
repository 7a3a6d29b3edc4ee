package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/study_planner/internal/metrics"
	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/schedule"
	"go.uber.org/zap"
)

// DaysSource отдаёт недельное расписание пользователя в виде блоков
type DaysSource interface {
	Days(ctx context.Context, userID int64) (map[time.Weekday]schedule.Day, []SkippedEntry, error)
}

// DeadlineSource отдаёт активные задачи со сроком в указанный день
type DeadlineSource interface {
	DueOn(ctx context.Context, userID int64, day time.Time) ([]*model.Task, error)
}

// Dashboard состояние главного экрана на момент Now
type Dashboard struct {
	schedule.Result
	Now        time.Time                 `json:"now"`
	Date       string                    `json:"date"`
	IsTomorrow bool                      `json:"is_tomorrow"`
	Deadlines  []schedule.EvaluatedBlock `json:"deadlines"`
	Skipped    []SkippedEntry            `json:"skipped"`
}

type DashboardService struct {
	days      DaysSource
	deadlines DeadlineSource
	location  *time.Location
	logger    *zap.Logger
}

func NewDashboardService(days DaysSource, deadlines DeadlineSource, location *time.Location, logger *zap.Logger) *DashboardService {
	if location == nil {
		location = time.UTC
	}
	return &DashboardService{
		days:      days,
		deadlines: deadlines,
		location:  location,
		logger:    logger,
	}
}

// Location часовой пояс, в котором оценивается расписание
func (s *DashboardService) Location() *time.Location {
	return s.location
}

// Evaluate оценивает расписание пользователя на момент now.
// Когда все сегодняшние занятия закончились, показывается завтрашний день.
func (s *DashboardService) Evaluate(ctx context.Context, userID int64, now time.Time) (*Dashboard, error) {
	local := now.In(s.location)

	week, skipped, err := s.days.Days(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load schedule: %w", err)
	}

	todayDate := local
	tomorrowDate := local.AddDate(0, 0, 1)

	today := dayOf(week, todayDate.Weekday())
	tomorrow := dayOf(week, tomorrowDate.Weekday())

	minute := schedule.MinuteOfDay(local)
	result, isTomorrow := schedule.EvaluateDisplay(today, tomorrow, minute)

	shown := todayDate
	deadlineMinute := minute
	if isTomorrow {
		shown = tomorrowDate
		deadlineMinute = -1
	}

	deadlines, err := s.deadlineBlocks(ctx, userID, shown, deadlineMinute)
	if err != nil {
		return nil, err
	}

	metrics.ObserveEvaluation(isTomorrow, len(skipped))

	s.logger.Debug("Dashboard evaluated",
		zap.Int64("user_id", userID),
		zap.String("weekday", result.Weekday),
		zap.Bool("is_tomorrow", isTomorrow),
		zap.Int("blocks", len(result.Blocks)),
		zap.Int("skipped", len(skipped)))

	return &Dashboard{
		Result:     result,
		Now:        local,
		Date:       shown.Format(model.DueDateLayout),
		IsTomorrow: isTomorrow,
		Deadlines:  deadlines,
		Skipped:    skipped,
	}, nil
}

// Days расписание пользователя по дням недели без оценки
func (s *DashboardService) Days(ctx context.Context, userID int64) (map[time.Weekday]schedule.Day, error) {
	week, _, err := s.days.Days(ctx, userID)
	return week, err
}

func (s *DashboardService) deadlineBlocks(ctx context.Context, userID int64, day time.Time, minute int) ([]schedule.EvaluatedBlock, error) {
	blocks := []schedule.EvaluatedBlock{}
	if s.deadlines == nil {
		return blocks, nil
	}

	tasks, err := s.deadlines.DueOn(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("load deadlines: %w", err)
	}

	for _, task := range tasks {
		b := DeadlineBlock(task)
		blocks = append(blocks, schedule.EvaluatedBlock{Block: b, Status: schedule.Classify(b, minute)})
	}
	return blocks, nil
}

// DeadlineBlock окно задачи: весь день срока
func DeadlineBlock(task *model.Task) schedule.Block {
	return schedule.Block{
		ID:          task.ID,
		Label:       task.Title,
		StartMinute: 0,
		EndMinute:   schedule.LastMinute,
		Owner:       task.Subject,
		Kind:        schedule.KindTask,
	}
}

// Выходные и дни без записей дают пустой день
func dayOf(week map[time.Weekday]schedule.Day, wd time.Weekday) schedule.Day {
	if day, ok := week[wd]; ok {
		return day
	}
	return schedule.Day{Weekday: wd, Blocks: []schedule.Block{}}
}
