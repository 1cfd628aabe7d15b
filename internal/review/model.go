// File: internal/review/model.go
package review

import (
	"time"

	"parking_share_backend/internal/common"

	"github.com/google/uuid"
)

// Review is one user's rating of one listing. A user can review a listing
// once; resubmitting updates the existing review.
type Review struct {
	common.BaseModel
	ParkingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_user_parking"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_review_user_parking"`
	Rating    int       `gorm:"not null"`
	Comment   string    `gorm:"type:text"`
}

func (Review) TableName() string {
	return "reviews"
}

type SubmitReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,gte=1,lte=5"`
	Comment string `json:"comment" binding:"omitempty,max=1000"`
}

type ReviewResponse struct {
	ID        uuid.UUID `json:"id"`
	ParkingID uuid.UUID `json:"parking_id"`
	UserID    uuid.UUID `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToReviewResponse(r *Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		ParkingID: r.ParkingID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
