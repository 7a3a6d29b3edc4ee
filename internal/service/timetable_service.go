package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/schedule"
	"go.uber.org/zap"
)

// SkippedEntry занятие, которое не удалось превратить в блок
type SkippedEntry struct {
	EntryID int64  `json:"entry_id"`
	Weekday string `json:"weekday"`
	Subject string `json:"subject"`
	Reason  string `json:"reason"`
}

// ChangeListener вызывается после каждого изменения расписания пользователя
type ChangeListener func(userID int64)

type TimetableService struct {
	timetableRepo TimetableStore
	logger        *zap.Logger

	mu        sync.RWMutex
	listeners []ChangeListener
}

func NewTimetableService(timetableRepo TimetableStore, logger *zap.Logger) *TimetableService {
	return &TimetableService{
		timetableRepo: timetableRepo,
		logger:        logger,
	}
}

// OnChange регистрирует слушателя изменений
func (s *TimetableService) OnChange(listener ChangeListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, listener)
}

func (s *TimetableService) notify(userID int64) {
	s.mu.RLock()
	listeners := make([]ChangeListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.RUnlock()

	for _, l := range listeners {
		l(userID)
	}
}

// EntryToBlock переводит занятие в блок; строки времени разбираются парсером
func EntryToBlock(entry *model.TimetableEntry) (schedule.Block, error) {
	block, err := schedule.NewBlock(entry.Subject, entry.StartTime, entry.EndTime, schedule.ParseKind(entry.Type))
	if err != nil {
		return schedule.Block{}, err
	}
	block.ID = entry.ID
	block.Location = entry.Room
	block.Owner = entry.Professor
	return block, nil
}

// GetWeek расписание пользователя по дням Monday..Friday
func (s *TimetableService) GetWeek(ctx context.Context, userID int64) (model.Week, error) {
	entries, err := s.timetableRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get timetable: %w", err)
	}

	week := model.NewWeek()
	for _, entry := range entries {
		day := entry.Weekday.String()
		if _, ok := week[day]; !ok {
			continue
		}
		week[day] = append(week[day], entry)
	}
	return week, nil
}

// ReplaceWeek заменяет расписание целиком. Сначала проверяются все занятия,
// затем запись идёт одной транзакцией.
func (s *TimetableService) ReplaceWeek(ctx context.Context, userID int64, week model.Week) (model.Week, error) {
	var entries []*model.TimetableEntry

	for dayName, dayEntries := range week {
		weekday, ok := model.ParseSchoolDay(dayName)
		if !ok {
			return nil, validationError("Unknown day %q, expected Monday to Friday", dayName)
		}

		day := schedule.Day{Weekday: weekday}
		for _, entry := range dayEntries {
			if entry == nil {
				continue
			}
			entry.Weekday = weekday
			entry.UserID = userID
			if err := normalizeEntry(entry); err != nil {
				return nil, err
			}

			block, err := EntryToBlock(entry)
			if err != nil {
				return nil, fmt.Errorf("%s %q: %w", dayName, entry.Subject, err)
			}
			day.Blocks = append(day.Blocks, block)
			entries = append(entries, entry)
		}

		if err := schedule.ValidateDay(day); err != nil {
			return nil, err
		}
	}

	if err := s.timetableRepo.ReplaceWeek(ctx, userID, entries); err != nil {
		return nil, fmt.Errorf("replace timetable: %w", err)
	}

	s.notify(userID)

	return s.GetWeek(ctx, userID)
}

// AddEntry добавляет одно занятие, если оно не пересекается с остальными в этот день
func (s *TimetableService) AddEntry(ctx context.Context, userID int64, dayName string, entry *model.TimetableEntry) (*model.TimetableEntry, error) {
	weekday, ok := model.ParseSchoolDay(dayName)
	if !ok {
		return nil, validationError("Unknown day %q, expected Monday to Friday", dayName)
	}
	entry.Weekday = weekday
	entry.UserID = userID
	if err := normalizeEntry(entry); err != nil {
		return nil, err
	}

	block, err := EntryToBlock(entry)
	if err != nil {
		return nil, err
	}

	existing, err := s.timetableRepo.GetByWeekday(ctx, userID, weekday)
	if err != nil {
		return nil, fmt.Errorf("get day timetable: %w", err)
	}

	day := schedule.Day{Weekday: weekday, Blocks: []schedule.Block{block}}
	for _, e := range existing {
		b, err := EntryToBlock(e)
		if err != nil {
			// Старые некорректные записи не мешают добавлению
			continue
		}
		day.Blocks = append(day.Blocks, b)
	}
	if err := schedule.ValidateDay(day); err != nil {
		return nil, err
	}

	if err := s.timetableRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("create timetable entry: %w", err)
	}

	s.notify(userID)
	return entry, nil
}

// DeleteEntry удаляет занятие
func (s *TimetableService) DeleteEntry(ctx context.Context, userID, id int64) error {
	ok, err := s.timetableRepo.Delete(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("delete timetable entry: %w", err)
	}
	if !ok {
		return ErrNotFound
	}

	s.notify(userID)
	return nil
}

// Days блоки пользователя по дням недели. Занятия с некорректным временем
// пропускаются и возвращаются отдельно, остальные дни не страдают.
func (s *TimetableService) Days(ctx context.Context, userID int64) (map[time.Weekday]schedule.Day, []SkippedEntry, error) {
	entries, err := s.timetableRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("get timetable: %w", err)
	}

	days := make(map[time.Weekday]schedule.Day, len(model.SchoolDays))
	for _, wd := range model.SchoolDays {
		days[wd] = schedule.Day{Weekday: wd, Blocks: []schedule.Block{}}
	}

	var skipped []SkippedEntry
	for _, entry := range entries {
		day, ok := days[entry.Weekday]
		if !ok {
			continue
		}

		block, err := EntryToBlock(entry)
		if err != nil {
			s.logger.Warn("Skipping timetable entry",
				zap.Int64("user_id", userID),
				zap.Int64("entry_id", entry.ID),
				zap.String("weekday", entry.Weekday.String()),
				zap.String("time_range", entry.TimeRange()),
				zap.Error(err))
			skipped = append(skipped, SkippedEntry{
				EntryID: entry.ID,
				Weekday: entry.Weekday.String(),
				Subject: entry.Subject,
				Reason:  err.Error(),
			})
			continue
		}

		day.Blocks = append(day.Blocks, block)
		days[entry.Weekday] = day
	}

	return days, skipped, nil
}

// normalizeEntry приводит время к каноническому виду "8:00 AM" и проверяет обязательные поля
func normalizeEntry(entry *model.TimetableEntry) error {
	entry.Subject = strings.TrimSpace(entry.Subject)
	if entry.Subject == "" {
		return validationError("Subject is required for every class")
	}

	start, err := schedule.Normalize(entry.StartTime)
	if err != nil {
		return err
	}
	end, err := schedule.Normalize(entry.EndTime)
	if err != nil {
		return err
	}
	entry.StartTime, entry.EndTime = start, end

	if entry.Type == "" {
		entry.Type = string(schedule.KindLecture)
	}
	if kind := schedule.ParseKind(entry.Type); kind == schedule.KindTask || string(kind) != entry.Type {
		return validationError("Class type must be Lecture or Laboratory")
	}
	return nil
}

// IsScheduleError true для ошибок разбора и проверки расписания
func IsScheduleError(err error) bool {
	return errors.Is(err, schedule.ErrMalformedTime) ||
		errors.Is(err, schedule.ErrInvalidBlock) ||
		errors.Is(err, schedule.ErrOverlappingBlocks)
}
