// File: internal/notification/service.go
package notification

import (
	"context"

	"parking_share_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for notification business logic.
type Service interface {
	// Notify records a notification for a user. Failures are logged and
	// swallowed so notification delivery never fails the triggering
	// operation.
	Notify(ctx context.Context, userID uuid.UUID, ntype Type, message string, listingID *uuid.UUID)
	List(ctx context.Context, userID uuid.UUID, query *common.PaginationQuery) ([]NotificationResponse, *common.Pagination, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type serviceImpl struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new notification service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &serviceImpl{repo: repo, logger: logger.Named("NotificationService")}
}

func (s *serviceImpl) Notify(ctx context.Context, userID uuid.UUID, ntype Type, message string, listingID *uuid.UUID) {
	n := &Notification{
		UserID:    userID,
		Type:      ntype,
		Message:   message,
		ListingID: listingID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("Failed to create notification",
			zap.String("userID", userID.String()),
			zap.String("type", string(ntype)),
			zap.Error(err))
	}
}

func (s *serviceImpl) List(ctx context.Context, userID uuid.UUID, query *common.PaginationQuery) ([]NotificationResponse, *common.Pagination, error) {
	notifications, total, err := s.repo.FindByUser(ctx, userID, query)
	if err != nil {
		s.logger.Error("Failed to list notifications", zap.String("userID", userID.String()), zap.Error(err))
		return nil, nil, common.ErrInternalServer.WithDetails("Could not retrieve notifications.")
	}

	responses := make([]NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, ToNotificationResponse(&notifications[i]))
	}
	return responses, common.NewPagination(total, query.Page, query.PageSize), nil
}

func (s *serviceImpl) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to count unread notifications", zap.String("userID", userID.String()), zap.Error(err))
		return 0, common.ErrInternalServer.WithDetails("Could not count notifications.")
	}
	return count, nil
}

func (s *serviceImpl) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return s.repo.MarkRead(ctx, userID, notificationID)
}

func (s *serviceImpl) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, userID)
}
