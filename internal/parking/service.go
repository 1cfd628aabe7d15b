// File: internal/parking/service.go
package parking

import (
	"context"
	"fmt"
	"mime/multipart"

	"parking_share_backend/internal/common"
	"parking_share_backend/internal/filestorage"
	"parking_share_backend/internal/geo"
	"parking_share_backend/internal/notification"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Service defines the interface for parking listing business logic.
type Service interface {
	// ListView runs the aggregation pipeline over the full snapshot.
	ListView(ctx context.Context, query ViewQuery, includePending bool) ([]ParkingResponse, error)
	GetByID(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, isAdmin bool, origin *geo.Point) (*ParkingResponse, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]ParkingResponse, error)

	Create(ctx context.Context, userID uuid.UUID, isAdmin bool, req CreateParkingRequest, images []*multipart.FileHeader) (*ParkingResponse, error)
	Update(ctx context.Context, id, userID uuid.UUID, isAdmin bool, req UpdateParkingRequest) (*ParkingResponse, error)
	Delete(ctx context.Context, id, userID uuid.UUID, isAdmin bool) error

	Verify(ctx context.Context, id, userID uuid.UUID) (*ParkingResponse, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*ParkingResponse, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, category Category) (*ParkingResponse, error)
}

type serviceImpl struct {
	repo     Repository
	files    filestorage.Service
	notifier notification.Service
	logger   *zap.Logger
}

// NewService creates a new parking service.
func NewService(repo Repository, files filestorage.Service, notifier notification.Service, logger *zap.Logger) Service {
	return &serviceImpl{
		repo:     repo,
		files:    files,
		notifier: notifier,
		logger:   logger.Named("ParkingService"),
	}
}

func (s *serviceImpl) ListView(ctx context.Context, query ViewQuery, includePending bool) ([]ParkingResponse, error) {
	snapshot, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Failed to load listing snapshot", zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not load parking listings.")
	}

	cfg := ViewConfigFromQuery(query)
	cfg.IncludePending = includePending
	view := BuildView(snapshot, cfg)

	responses := make([]ParkingResponse, 0, len(view))
	for i := range view {
		responses = append(responses, ToParkingResponse(&view[i], cfg.Origin))
	}
	return responses, nil
}

func (s *serviceImpl) GetByID(ctx context.Context, id uuid.UUID, requesterID uuid.UUID, isAdmin bool, origin *geo.Point) (*ParkingResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Pending listings exist only for their owner and moderators.
	if !p.Visible() && !isAdmin && p.CreatedBy != requesterID {
		return nil, common.ErrNotFound.WithDetails("Parking listing not found.")
	}
	resp := ToParkingResponse(p, origin)
	return &resp, nil
}

func (s *serviceImpl) ListMine(ctx context.Context, userID uuid.UUID) ([]ParkingResponse, error) {
	listings, err := s.repo.FindByOwner(ctx, userID)
	if err != nil {
		s.logger.Error("Failed to load owner listings", zap.String("userID", userID.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not load your listings.")
	}
	responses := make([]ParkingResponse, 0, len(listings))
	for i := range listings {
		responses = append(responses, ToParkingResponse(&listings[i], nil))
	}
	return responses, nil
}

// validateCategoryRules enforces the submission rules that depend on the
// chosen category.
func validateCategoryRules(category Category, tip *string, description string, imageCount int) error {
	switch category {
	case CategoryHidden:
		if imageCount < 2 {
			return common.ErrBadRequest.WithDetails("Hidden spots need at least 2 photos as evidence.")
		}
		if tip == nil || *tip == "" {
			return common.ErrBadRequest.WithDetails("Hidden spots need a tip explaining how to use them.")
		}
	case CategoryConditional:
		if description == "" && (tip == nil || *tip == "") {
			return common.ErrBadRequest.WithDetails("Conditional spots must describe their condition.")
		}
	}
	return nil
}

func (s *serviceImpl) Create(ctx context.Context, userID uuid.UUID, isAdmin bool, req CreateParkingRequest, images []*multipart.FileHeader) (*ParkingResponse, error) {
	category := Category(req.Category)
	if err := validateCategoryRules(category, req.Tip, req.Description, len(images)); err != nil {
		return nil, err
	}
	if PricingType(req.Pricing) == PricingFree {
		req.FeePerHour = nil
	}

	// Public submissions enter moderation; admin submissions go live.
	status := StatusPending
	if isAdmin {
		status = StatusApproved
	}

	p := &Parking{
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		Address:     req.Address,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Pricing:     PricingType(req.Pricing),
		FeePerHour:  req.FeePerHour,
		Category:    category,
		Status:      status,
		TimeLimit:   req.TimeLimit,
		Description: req.Description,
		Tip:         req.Tip,
		Caution:     req.Caution,
		BestTime:    req.BestTime,
		CreatedBy:   userID,
	}
	p.ID = uuid.New()

	urls, err := s.files.SaveListingImages(ctx, p.ID, images)
	if err != nil {
		return nil, err
	}
	p.Images = pq.StringArray(urls)

	if err := s.repo.Create(ctx, p); err != nil {
		if cleanupErr := s.files.DeleteListingImages(ctx, urls); cleanupErr != nil {
			s.logger.Warn("Failed to clean up images after create failure",
				zap.String("parkingID", p.ID.String()), zap.Error(cleanupErr))
		}
		return nil, err
	}

	s.logger.Info("Created parking listing",
		zap.String("parkingID", p.ID.String()),
		zap.String("status", string(p.Status)),
		zap.String("createdBy", userID.String()))

	if p.Status == StatusPending {
		s.notifier.Notify(ctx, userID, notification.TypeListingPending,
			fmt.Sprintf("Your spot %q was submitted and is awaiting review.", p.Name), &p.ID)
	}

	resp := ToParkingResponse(p, nil)
	return &resp, nil
}

func (s *serviceImpl) Update(ctx context.Context, id, userID uuid.UUID, isAdmin bool, req UpdateParkingRequest) (*ParkingResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.CreatedBy != userID && !isAdmin {
		return nil, common.ErrForbidden.WithDetails("Only the owner or a moderator can edit a listing.")
	}

	if req.Name != nil {
		p.Name = *req.Name
		p.Slug = slug.Make(*req.Name)
	}
	if req.Address != nil {
		p.Address = *req.Address
	}
	if req.Latitude != nil {
		p.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		p.Longitude = *req.Longitude
	}
	if req.Pricing != nil {
		p.Pricing = PricingType(*req.Pricing)
	}
	if req.FeePerHour != nil {
		p.FeePerHour = req.FeePerHour
	}
	if p.Pricing == PricingFree {
		p.FeePerHour = nil
	}
	if req.TimeLimit != nil {
		p.TimeLimit = req.TimeLimit
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Tip != nil {
		p.Tip = req.Tip
	}
	if req.Caution != nil {
		p.Caution = req.Caution
	}
	if req.BestTime != nil {
		p.BestTime = req.BestTime
	}

	if err := validateCategoryRules(p.Category, p.Tip, p.Description, len(p.Images)); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("Failed to update listing", zap.String("parkingID", id.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not update the listing.")
	}

	resp := ToParkingResponse(p, nil)
	return &resp, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id, userID uuid.UUID, isAdmin bool) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p.CreatedBy != userID && !isAdmin {
		return common.ErrForbidden.WithDetails("Only the owner or a moderator can delete a listing.")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if len(p.Images) > 0 {
		if err := s.files.DeleteListingImages(ctx, p.Images); err != nil {
			s.logger.Warn("Failed to delete listing images",
				zap.String("parkingID", id.String()), zap.Error(err))
		}
	}

	s.logger.Info("Deleted parking listing",
		zap.String("parkingID", id.String()), zap.String("deletedBy", userID.String()))
	return nil
}

func (s *serviceImpl) Verify(ctx context.Context, id, userID uuid.UUID) (*ParkingResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Visible() {
		return nil, common.ErrNotFound.WithDetails("Parking listing not found.")
	}
	if p.CreatedBy == userID {
		return nil, common.ErrBadRequest.WithDetails("You cannot verify your own listing.")
	}

	if err := s.repo.RecordVerification(ctx, userID, id); err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.notifier.Notify(ctx, p.CreatedBy, notification.TypeListingVerified,
		fmt.Sprintf("Someone verified your spot %q. It now has %d verifications.", p.Name, updated.VerificationCount), &p.ID)

	resp := ToParkingResponse(updated, nil)
	return &resp, nil
}

func (s *serviceImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*ParkingResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	p.Status = status

	s.logger.Info("Moderated listing status",
		zap.String("parkingID", id.String()), zap.String("status", string(status)))

	switch status {
	case StatusApproved:
		s.notifier.Notify(ctx, p.CreatedBy, notification.TypeListingApproved,
			fmt.Sprintf("Your spot %q was approved and is now public.", p.Name), &p.ID)
	case StatusPending:
		s.notifier.Notify(ctx, p.CreatedBy, notification.TypeListingRejected,
			fmt.Sprintf("Your spot %q was sent back to review.", p.Name), &p.ID)
	}

	resp := ToParkingResponse(p, nil)
	return &resp, nil
}

func (s *serviceImpl) UpdateCategory(ctx context.Context, id uuid.UUID, category Category) (*ParkingResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCategory(ctx, id, category); err != nil {
		return nil, err
	}
	p.Category = category

	s.logger.Info("Moderated listing category",
		zap.String("parkingID", id.String()), zap.String("category", string(category)))

	resp := ToParkingResponse(p, nil)
	return &resp, nil
}
