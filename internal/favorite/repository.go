// File: internal/favorite/repository.go
package favorite

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for favorite data operations.
type Repository interface {
	Create(ctx context.Context, favorite *Favorite) error
	Delete(ctx context.Context, userID, parkingID uuid.UUID) (bool, error)
	Exists(ctx context.Context, userID, parkingID uuid.UUID) (bool, error)
	// FindParkingIDsByUser returns the user's favorited listing IDs,
	// most recently favorited first.
	FindParkingIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM favorite repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, favorite *Favorite) error {
	err := r.db.WithContext(ctx).Create(favorite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
			// A concurrent toggle won the race; the end state is the same.
			return nil
		}
		return err
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, userID, parkingID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND parking_id = ?", userID, parkingID).
		Delete(&Favorite{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *gormRepository) Exists(ctx context.Context, userID, parkingID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Favorite{}).
		Where("user_id = ? AND parking_id = ?", userID, parkingID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormRepository) FindParkingIDsByUser(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("parking_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
