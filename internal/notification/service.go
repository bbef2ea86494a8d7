// File: internal/notification/service.go
package notification

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Agnesa14/SkillCast/internal/common"
)

// Service defines the interface for notification business logic.
type Service interface {
	// Notify records a notification for a user. It satisfies the narrow
	// interfaces other packages declare for emitting notifications.
	Notify(ctx context.Context, userID, notificationType, message string, referenceID *uuid.UUID) error
	GetNotificationsForUser(ctx context.Context, userID string, page, pageSize int) ([]Notification, *common.Pagination, error)
	MarkNotificationAsRead(ctx context.Context, notificationID uuid.UUID, userID string) error
	MarkAllUserNotificationsAsRead(ctx context.Context, userID string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new notification service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &service{repo: repo, logger: logger}
}

func (s *service) Notify(ctx context.Context, userID, notificationType, message string, referenceID *uuid.UUID) error {
	notification := &Notification{
		UserID:      userID,
		Type:        notificationType,
		Message:     message,
		ReferenceID: referenceID,
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		s.logger.Error("Failed to create notification",
			zap.Error(err),
			zap.String("userID", userID),
			zap.String("type", notificationType))
		return common.ErrInternalServer.WithDetails("Could not create notification.")
	}

	s.logger.Info("Notification created",
		zap.String("notificationID", notification.ID.String()),
		zap.String("userID", userID),
		zap.String("type", notificationType))
	return nil
}

func (s *service) GetNotificationsForUser(ctx context.Context, userID string, page, pageSize int) ([]Notification, *common.Pagination, error) {
	notifications, pagination, err := s.repo.GetByUserID(ctx, userID, page, pageSize)
	if err != nil {
		s.logger.Error("Failed to retrieve notifications", zap.Error(err), zap.String("userID", userID))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve notifications.")
	}
	return notifications, pagination, nil
}

func (s *service) MarkNotificationAsRead(ctx context.Context, notificationID uuid.UUID, userID string) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *service) MarkAllUserNotificationsAsRead(ctx context.Context, userID string) (int64, error) {
	count, err := s.repo.MarkAllAsRead(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to mark all notifications as read", zap.Error(err), zap.String("userID", userID))
		return 0, common.ErrInternalServer.WithDetails("Could not mark all notifications as read.")
	}
	return count, nil
}

func (s *service) CountUnread(ctx context.Context, userID string) (int64, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to count unread notifications", zap.Error(err), zap.String("userID", userID))
		return 0, common.ErrInternalServer.WithDetails("Could not count unread notifications.")
	}
	return count, nil
}
