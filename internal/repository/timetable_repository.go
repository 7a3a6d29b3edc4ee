package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type TimetableRepository struct {
	*base.Repository
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewTimetableRepository(pool *pgxpool.Pool, logger *zap.Logger) *TimetableRepository {
	return &TimetableRepository{
		Repository: base.NewRepository(pool),
		pool:       pool,
		logger:     logger,
	}
}

const entryColumns = `id, user_id, weekday, subject, start_time, end_time, room, professor, type, created_at`

func scanEntry(row interface{ Scan(...interface{}) error }) (*model.TimetableEntry, error) {
	var entry model.TimetableEntry
	var weekday int16
	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&weekday,
		&entry.Subject,
		&entry.StartTime,
		&entry.EndTime,
		&entry.Room,
		&entry.Professor,
		&entry.Type,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	entry.Weekday = time.Weekday(weekday)
	return &entry, nil
}

func insertEntry(ctx context.Context, db base.DB, entry *model.TimetableEntry) error {
	query := `
		INSERT INTO timetable_entries (user_id, weekday, subject, start_time, end_time, room, professor, type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	return db.QueryRow(
		ctx, query,
		entry.UserID,
		int16(entry.Weekday),
		entry.Subject,
		entry.StartTime,
		entry.EndTime,
		entry.Room,
		entry.Professor,
		entry.Type,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// Create добавляет одно занятие
func (r *TimetableRepository) Create(ctx context.Context, entry *model.TimetableEntry) error {
	if err := insertEntry(ctx, r.DB(), entry); err != nil {
		return fmt.Errorf("create timetable entry: %w", err)
	}
	return nil
}

// GetByUserID все занятия пользователя, по дням и времени ввода
func (r *TimetableRepository) GetByUserID(ctx context.Context, userID int64) ([]*model.TimetableEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM timetable_entries WHERE user_id = $1 ORDER BY weekday, id`
	return r.list(ctx, query, userID)
}

// GetByWeekday занятия пользователя в конкретный день
func (r *TimetableRepository) GetByWeekday(ctx context.Context, userID int64, weekday time.Weekday) ([]*model.TimetableEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM timetable_entries WHERE user_id = $1 AND weekday = $2 ORDER BY id`
	return r.list(ctx, query, userID, int16(weekday))
}

func (r *TimetableRepository) list(ctx context.Context, query string, args ...interface{}) ([]*model.TimetableEntry, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query timetable: %w", err)
	}
	defer rows.Close()

	entries := []*model.TimetableEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan timetable entry: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate timetable: %w", err)
	}

	return entries, nil
}

// ReplaceWeek атомарно заменяет всё расписание пользователя
func (r *TimetableRepository) ReplaceWeek(ctx context.Context, userID int64, entries []*model.TimetableEntry) error {
	err := base.InTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM timetable_entries WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("clear timetable: %w", err)
		}

		for _, entry := range entries {
			entry.UserID = userID
			if err := insertEntry(ctx, tx, entry); err != nil {
				return fmt.Errorf("insert timetable entry: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to replace timetable",
			zap.Int64("user_id", userID),
			zap.Int("entries", len(entries)),
			zap.Error(err))
		return err
	}

	r.logger.Info("Timetable replaced",
		zap.Int64("user_id", userID),
		zap.Int("entries", len(entries)))

	return nil
}

// Delete удаляет занятие
func (r *TimetableRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM timetable_entries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete timetable entry: %w", err)
	}

	return affected > 0, nil
}
