// File: internal/notification/repository.go
package notification

import (
	"context"
	"errors"
	"time"

	"parking_share_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for notification data operations.
type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	FindByUser(ctx context.Context, userID uuid.UUID, query *common.PaginationQuery) ([]Notification, int64, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM notification repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, notification *Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *gormRepository) FindByUser(ctx context.Context, userID uuid.UUID, query *common.PaginationQuery) ([]Notification, int64, error) {
	var notifications []Notification
	var total int64

	scope := r.db.WithContext(ctx).Model(&Notification{}).Where("user_id = ?", userID)
	if err := scope.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := scope.Order("created_at DESC").
		Offset(query.Offset()).
		Limit(query.Limit()).
		Find(&notifications).Error
	if err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *gormRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *gormRepository) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var existing Notification
		err := r.db.WithContext(ctx).First(&existing, "id = ? AND user_id = ?", notificationID, userID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.ErrNotFound.WithDetails("Notification not found.")
		}
		// Already read; nothing to do.
	}
	return nil
}

func (r *gormRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	now := time.Now()
	return r.db.WithContext(ctx).Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": &now}).Error
}
