// File: internal/review/repository.go
package review

import (
	"context"
	"errors"

	"parking_share_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for review data operations.
type Repository interface {
	Create(ctx context.Context, review *Review) error
	Update(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)
	FindByUserAndParking(ctx context.Context, userID, parkingID uuid.UUID) (*Review, error)
	FindByParking(ctx context.Context, parkingID uuid.UUID) ([]Review, error)
	// Aggregate returns the average rating and count for one listing.
	Aggregate(ctx context.Context, parkingID uuid.UUID) (float64, int, error)
	// ParkingIDsWithReviews lists every listing that has at least one
	// review; used by the nightly aggregate refresh.
	ParkingIDsWithReviews(ctx context.Context) ([]uuid.UUID, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM review repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, review *Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *gormRepository) Update(ctx context.Context, review *Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Review{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Review not found.")
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Review, error) {
	var review Review
	err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Review not found.")
		}
		return nil, err
	}
	return &review, nil
}

func (r *gormRepository) FindByUserAndParking(ctx context.Context, userID, parkingID uuid.UUID) (*Review, error) {
	var review Review
	err := r.db.WithContext(ctx).
		First(&review, "user_id = ? AND parking_id = ?", userID, parkingID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Review not found.")
		}
		return nil, err
	}
	return &review, nil
}

func (r *gormRepository) FindByParking(ctx context.Context, parkingID uuid.UUID) ([]Review, error) {
	var reviews []Review
	err := r.db.WithContext(ctx).
		Where("parking_id = ?", parkingID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *gormRepository) Aggregate(ctx context.Context, parkingID uuid.UUID) (float64, int, error) {
	var result struct {
		Average float64
		Count   int
	}
	err := r.db.WithContext(ctx).Model(&Review{}).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Where("parking_id = ?", parkingID).
		Scan(&result).Error
	if err != nil {
		return 0, 0, err
	}
	return result.Average, result.Count, nil
}

func (r *gormRepository) ParkingIDsWithReviews(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&Review{}).
		Distinct("parking_id").
		Pluck("parking_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
