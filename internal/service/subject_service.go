package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Freeeeeet/study_planner/internal/model"
	"go.uber.org/zap"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type SubjectService struct {
	subjectRepo SubjectStore
	logger      *zap.Logger
}

func NewSubjectService(subjectRepo SubjectStore, logger *zap.Logger) *SubjectService {
	return &SubjectService{
		subjectRepo: subjectRepo,
		logger:      logger,
	}
}

// SubjectInput поля предмета от клиента; nil значит "не менять"
type SubjectInput struct {
	Name        *string
	Description *string
	Color       *string
}

// Create создаёт предмет пользователя
func (s *SubjectService) Create(ctx context.Context, userID int64, in SubjectInput) (*model.Subject, error) {
	subject := &model.Subject{
		UserID: userID,
		Color:  model.DefaultSubjectColor,
	}
	if err := applySubjectInput(subject, in); err != nil {
		return nil, err
	}
	if subject.Name == "" {
		return nil, validationError("Subject name is required")
	}

	if err := s.subjectRepo.Create(ctx, subject); err != nil {
		return nil, fmt.Errorf("create subject: %w", err)
	}

	s.logger.Info("Subject created",
		zap.Int64("user_id", userID),
		zap.Int64("subject_id", subject.ID),
		zap.String("name", subject.Name))

	return subject, nil
}

// List предметы пользователя
func (s *SubjectService) List(ctx context.Context, userID int64) ([]*model.Subject, error) {
	subjects, err := s.subjectRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list subjects: %w", err)
	}
	return subjects, nil
}

// Update частично обновляет предмет
func (s *SubjectService) Update(ctx context.Context, userID, id int64, in SubjectInput) (*model.Subject, error) {
	subject, err := s.subjectRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("get subject: %w", err)
	}
	if subject == nil {
		return nil, ErrNotFound
	}

	if err := applySubjectInput(subject, in); err != nil {
		return nil, err
	}
	if subject.Name == "" {
		return nil, validationError("Subject name is required")
	}

	ok, err := s.subjectRepo.Update(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("update subject: %w", err)
	}
	if !ok {
		return nil, ErrNotFound
	}

	return subject, nil
}

// Delete удаляет предмет
func (s *SubjectService) Delete(ctx context.Context, userID, id int64) error {
	ok, err := s.subjectRepo.Delete(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("delete subject: %w", err)
	}
	if !ok {
		return ErrNotFound
	}

	s.logger.Info("Subject deleted", zap.Int64("user_id", userID), zap.Int64("subject_id", id))
	return nil
}

func applySubjectInput(subject *model.Subject, in SubjectInput) error {
	if in.Name != nil {
		subject.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		subject.Description = strings.TrimSpace(*in.Description)
	}
	if in.Color != nil && *in.Color != "" {
		if !hexColor.MatchString(*in.Color) {
			return validationError("Color must be a hex value like #FF4B6E")
		}
		subject.Color = *in.Color
	}
	return nil
}
