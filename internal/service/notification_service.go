package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/study_planner/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	notificationsLimit      = 50
	defaultNotificationType = "info"
)

type NotificationService struct {
	notificationRepo NotificationStore
	logger           *zap.Logger
}

func NewNotificationService(notificationRepo NotificationStore, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

// List последние уведомления пользователя, новые первыми
func (s *NotificationService) List(ctx context.Context, userID int64) ([]*model.Notification, error) {
	notifications, err := s.notificationRepo.GetByUserID(ctx, userID, notificationsLimit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// Create сохраняет уведомление
func (s *NotificationService) Create(ctx context.Context, userID int64, message, kind string) (*model.Notification, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, validationError("Notification message is required")
	}
	if kind == "" {
		kind = defaultNotificationType
	}

	n := &model.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Message: message,
		Type:    kind,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	s.logger.Info("Notification created",
		zap.Int64("user_id", userID),
		zap.String("notification_id", n.ID.String()),
		zap.String("type", kind))

	return n, nil
}
