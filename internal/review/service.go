// File: internal/review/service.go
package review

import (
	"context"
	"fmt"
	"math"

	"parking_share_backend/internal/common"
	"parking_share_backend/internal/notification"
	"parking_share_backend/internal/parking"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for review business logic.
type Service interface {
	// Submit creates the user's review of a listing, or updates it if one
	// already exists, then refreshes the listing's rating aggregates.
	Submit(ctx context.Context, userID, parkingID uuid.UUID, req SubmitReviewRequest) (*ReviewResponse, error)
	Delete(ctx context.Context, userID, reviewID uuid.UUID, isAdmin bool) error
	ListForParking(ctx context.Context, parkingID uuid.UUID) ([]ReviewResponse, error)
	// RefreshAggregates recomputes average_rating and review_count for
	// one listing from its reviews.
	RefreshAggregates(ctx context.Context, parkingID uuid.UUID) error
}

type serviceImpl struct {
	repo        Repository
	parkingRepo parking.Repository
	notifier    notification.Service
	logger      *zap.Logger
}

// NewService creates a new review service.
func NewService(repo Repository, parkingRepo parking.Repository, notifier notification.Service, logger *zap.Logger) Service {
	return &serviceImpl{
		repo:        repo,
		parkingRepo: parkingRepo,
		notifier:    notifier,
		logger:      logger.Named("ReviewService"),
	}
}

func (s *serviceImpl) Submit(ctx context.Context, userID, parkingID uuid.UUID, req SubmitReviewRequest) (*ReviewResponse, error) {
	p, err := s.parkingRepo.FindByID(ctx, parkingID)
	if err != nil {
		return nil, err
	}
	if !p.Visible() {
		return nil, common.ErrNotFound.WithDetails("Parking listing not found.")
	}

	var review *Review
	existing, err := s.repo.FindByUserAndParking(ctx, userID, parkingID)
	switch {
	case err == nil:
		existing.Rating = req.Rating
		existing.Comment = req.Comment
		if err := s.repo.Update(ctx, existing); err != nil {
			s.logger.Error("Failed to update review", zap.String("reviewID", existing.ID.String()), zap.Error(err))
			return nil, common.ErrInternalServer.WithDetails("Could not save the review.")
		}
		review = existing
	default:
		if apiErr, ok := common.IsAPIError(err); !ok || apiErr.Code != common.ErrNotFound.Code {
			s.logger.Error("Failed to look up existing review", zap.Error(err))
			return nil, common.ErrInternalServer.WithDetails("Could not save the review.")
		}
		review = &Review{
			ParkingID: parkingID,
			UserID:    userID,
			Rating:    req.Rating,
			Comment:   req.Comment,
		}
		if err := s.repo.Create(ctx, review); err != nil {
			s.logger.Error("Failed to create review", zap.String("parkingID", parkingID.String()), zap.Error(err))
			return nil, common.ErrInternalServer.WithDetails("Could not save the review.")
		}
		if p.CreatedBy != userID {
			s.notifier.Notify(ctx, p.CreatedBy, notification.TypeListingReviewed,
				fmt.Sprintf("Your spot %q received a new %d-star review.", p.Name, req.Rating), &p.ID)
		}
	}

	if err := s.RefreshAggregates(ctx, parkingID); err != nil {
		// The review is saved; a stale aggregate self-heals on the next
		// write or the nightly refresh.
		s.logger.Warn("Failed to refresh rating aggregates after submit",
			zap.String("parkingID", parkingID.String()), zap.Error(err))
	}

	resp := ToReviewResponse(review)
	return &resp, nil
}

func (s *serviceImpl) Delete(ctx context.Context, userID, reviewID uuid.UUID, isAdmin bool) error {
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID && !isAdmin {
		return common.ErrForbidden.WithDetails("Only the author or a moderator can delete a review.")
	}

	if err := s.repo.Delete(ctx, reviewID); err != nil {
		return err
	}

	if err := s.RefreshAggregates(ctx, review.ParkingID); err != nil {
		s.logger.Warn("Failed to refresh rating aggregates after delete",
			zap.String("parkingID", review.ParkingID.String()), zap.Error(err))
	}
	return nil
}

func (s *serviceImpl) ListForParking(ctx context.Context, parkingID uuid.UUID) ([]ReviewResponse, error) {
	reviews, err := s.repo.FindByParking(ctx, parkingID)
	if err != nil {
		s.logger.Error("Failed to list reviews", zap.String("parkingID", parkingID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not load reviews.")
	}
	responses := make([]ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, ToReviewResponse(&reviews[i]))
	}
	return responses, nil
}

func (s *serviceImpl) RefreshAggregates(ctx context.Context, parkingID uuid.UUID) error {
	average, count, err := s.repo.Aggregate(ctx, parkingID)
	if err != nil {
		return err
	}
	// Round to 2 decimals so stored aggregates stay stable across
	// repeated recomputation.
	average = math.Round(average*100) / 100
	return s.parkingRepo.UpdateRatingAggregates(ctx, parkingID, average, count)
}
