// File: internal/parking/repository.go
package parking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"parking_share_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for parking listing data operations.
type Repository interface {
	Create(ctx context.Context, parking *Parking) error
	FindByID(ctx context.Context, id uuid.UUID) (*Parking, error)
	Update(ctx context.Context, parking *Parking) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindAll returns the full snapshot; visibility gating is the
	// pipeline's job, not the store's.
	FindAll(ctx context.Context) ([]Parking, error)
	FindByOwner(ctx context.Context, userID uuid.UUID) ([]Parking, error)
	// FindByIDs is a bounded membership query; callers chunk the ID set.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Parking, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error
	UpdateCategory(ctx context.Context, id uuid.UUID, category Category) error
	UpdateRatingAggregates(ctx context.Context, id uuid.UUID, averageRating float64, reviewCount int) error

	// RecordVerification inserts a ledger row and increments the counter
	// in one transaction. A repeat verification by the same user fails
	// with a conflict.
	RecordVerification(ctx context.Context, userID, parkingID uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM parking repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(strings.ToLower(err.Error()), "unique")
}

func (r *gormRepository) Create(ctx context.Context, parking *Parking) error {
	if err := r.db.WithContext(ctx).Create(parking).Error; err != nil {
		if isUniqueViolation(err) {
			return common.ErrConflict.WithDetails("A listing with conflicting identity already exists.")
		}
		return fmt.Errorf("failed to create parking listing: %w", err)
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Parking, error) {
	var parking Parking
	err := r.db.WithContext(ctx).First(&parking, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Parking listing not found.")
		}
		return nil, err
	}
	return &parking, nil
}

func (r *gormRepository) Update(ctx context.Context, parking *Parking) error {
	if err := r.db.WithContext(ctx).Save(parking).Error; err != nil {
		return fmt.Errorf("failed to update parking listing: %w", err)
	}
	return nil
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&Parking{BaseModel: common.BaseModel{ID: id}})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Parking listing not found or already deleted.")
	}
	return nil
}

func (r *gormRepository) FindAll(ctx context.Context) ([]Parking, error) {
	var parkings []Parking
	if err := r.db.WithContext(ctx).Find(&parkings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch parking snapshot: %w", err)
	}
	return parkings, nil
}

func (r *gormRepository) FindByOwner(ctx context.Context, userID uuid.UUID) ([]Parking, error) {
	var parkings []Parking
	err := r.db.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&parkings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listings for owner: %w", err)
	}
	return parkings, nil
}

func (r *gormRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Parking, error) {
	if len(ids) == 0 {
		return []Parking{}, nil
	}
	var parkings []Parking
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&parkings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch listings by IDs: %w", err)
	}
	return parkings, nil
}

func (r *gormRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) error {
	result := r.db.WithContext(ctx).Model(&Parking{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Parking listing not found.")
	}
	return nil
}

func (r *gormRepository) UpdateCategory(ctx context.Context, id uuid.UUID, category Category) error {
	result := r.db.WithContext(ctx).Model(&Parking{}).Where("id = ?", id).Update("category", category)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Parking listing not found.")
	}
	return nil
}

func (r *gormRepository) UpdateRatingAggregates(ctx context.Context, id uuid.UUID, averageRating float64, reviewCount int) error {
	result := r.db.WithContext(ctx).Model(&Parking{}).Where("id = ?", id).Updates(map[string]interface{}{
		"average_rating": averageRating,
		"review_count":   reviewCount,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Parking listing not found.")
	}
	return nil
}

func (r *gormRepository) RecordVerification(ctx context.Context, userID, parkingID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := &VerificationRecord{ID: uuid.New(), UserID: userID, ParkingID: parkingID}
		if err := tx.Create(record).Error; err != nil {
			if isUniqueViolation(err) {
				return common.ErrConflict.WithDetails("You have already verified this parking spot.")
			}
			return fmt.Errorf("failed to record verification: %w", err)
		}

		result := tx.Model(&Parking{}).Where("id = ?", parkingID).
			Update("verification_count", gorm.Expr("verification_count + 1"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.ErrNotFound.WithDetails("Parking listing not found.")
		}
		return nil
	})
}
