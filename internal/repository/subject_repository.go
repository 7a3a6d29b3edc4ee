package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/Freeeeeet/study_planner/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type SubjectRepository struct {
	*base.Repository
	logger *zap.Logger
}

func NewSubjectRepository(pool *pgxpool.Pool, logger *zap.Logger) *SubjectRepository {
	return &SubjectRepository{
		Repository: base.NewRepository(pool),
		logger:     logger,
	}
}

// Create создаёт новый предмет
func (r *SubjectRepository) Create(ctx context.Context, subject *model.Subject) error {
	r.logger.Info("SubjectRepository.Create called",
		zap.Int64("user_id", subject.UserID),
		zap.String("name", subject.Name),
		zap.String("color", subject.Color))

	query := `
		INSERT INTO subjects (user_id, name, description, color)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		subject.UserID,
		subject.Name,
		subject.Description,
		subject.Color,
	).Scan(&subject.ID, &subject.CreatedAt)

	if err != nil {
		r.logger.Error("Failed to insert subject into DB",
			zap.Int64("user_id", subject.UserID),
			zap.String("name", subject.Name),
			zap.Error(err))
		return fmt.Errorf("create subject: %w", err)
	}

	return nil
}

// GetByID получает предмет пользователя по ID
func (r *SubjectRepository) GetByID(ctx context.Context, userID, id int64) (*model.Subject, error) {
	query := `
		SELECT id, user_id, name, description, color, created_at
		FROM subjects
		WHERE id = $1 AND user_id = $2
	`

	var subject model.Subject
	err := r.QueryRow(ctx, query, id, userID).Scan(
		&subject.ID,
		&subject.UserID,
		&subject.Name,
		&subject.Description,
		&subject.Color,
		&subject.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get subject by id: %w", err)
	}

	return &subject, nil
}

// GetByUserID получает все предметы пользователя
func (r *SubjectRepository) GetByUserID(ctx context.Context, userID int64) ([]*model.Subject, error) {
	query := `
		SELECT id, user_id, name, description, color, created_at
		FROM subjects
		WHERE user_id = $1
		ORDER BY name
	`

	rows, err := r.Query(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to query subjects",
			zap.Int64("user_id", userID),
			zap.Error(err))
		return nil, fmt.Errorf("get subjects by user: %w", err)
	}
	defer rows.Close()

	subjects := []*model.Subject{}
	for rows.Next() {
		var subject model.Subject
		err := rows.Scan(
			&subject.ID,
			&subject.UserID,
			&subject.Name,
			&subject.Description,
			&subject.Color,
			&subject.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan subject: %w", err)
		}
		subjects = append(subjects, &subject)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate subjects: %w", err)
	}

	return subjects, nil
}

// Update обновляет предмет
func (r *SubjectRepository) Update(ctx context.Context, subject *model.Subject) (bool, error) {
	query := `
		UPDATE subjects
		SET name = $1, description = $2, color = $3
		WHERE id = $4 AND user_id = $5
	`

	affected, err := r.ExecAffected(
		ctx, query,
		subject.Name,
		subject.Description,
		subject.Color,
		subject.ID,
		subject.UserID,
	)
	if err != nil {
		return false, fmt.Errorf("update subject: %w", err)
	}

	return affected > 0, nil
}

// Delete удаляет предмет, возвращает false если его не было
func (r *SubjectRepository) Delete(ctx context.Context, userID, id int64) (bool, error) {
	affected, err := r.ExecAffected(ctx, `DELETE FROM subjects WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete subject: %w", err)
	}

	return affected > 0, nil
}
