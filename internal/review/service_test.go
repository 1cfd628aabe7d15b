// File: internal/review/service_test.go
package review

import (
	"context"
	"testing"
	"time"

	"parking_share_backend/internal/common"
	"parking_share_backend/internal/notification"
	"parking_share_backend/internal/parking"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, review *Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *MockRepository) Update(ctx context.Context, review *Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *MockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Review), args.Error(1)
}

func (m *MockRepository) FindByUserAndParking(ctx context.Context, userID, parkingID uuid.UUID) (*Review, error) {
	args := m.Called(ctx, userID, parkingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Review), args.Error(1)
}

func (m *MockRepository) FindByParking(ctx context.Context, parkingID uuid.UUID) ([]Review, error) {
	args := m.Called(ctx, parkingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Review), args.Error(1)
}

func (m *MockRepository) Aggregate(ctx context.Context, parkingID uuid.UUID) (float64, int, error) {
	args := m.Called(ctx, parkingID)
	return args.Get(0).(float64), args.Int(1), args.Error(2)
}

func (m *MockRepository) ParkingIDsWithReviews(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type MockParkingRepository struct {
	mock.Mock
}

func (m *MockParkingRepository) Create(ctx context.Context, p *parking.Parking) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockParkingRepository) FindByID(ctx context.Context, id uuid.UUID) (*parking.Parking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*parking.Parking), args.Error(1)
}

func (m *MockParkingRepository) Update(ctx context.Context, p *parking.Parking) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockParkingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockParkingRepository) FindAll(ctx context.Context) ([]parking.Parking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]parking.Parking), args.Error(1)
}

func (m *MockParkingRepository) FindByOwner(ctx context.Context, userID uuid.UUID) ([]parking.Parking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]parking.Parking), args.Error(1)
}

func (m *MockParkingRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]parking.Parking, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]parking.Parking), args.Error(1)
}

func (m *MockParkingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status parking.Status) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *MockParkingRepository) UpdateCategory(ctx context.Context, id uuid.UUID, category parking.Category) error {
	return m.Called(ctx, id, category).Error(0)
}

func (m *MockParkingRepository) UpdateRatingAggregates(ctx context.Context, id uuid.UUID, averageRating float64, reviewCount int) error {
	return m.Called(ctx, id, averageRating, reviewCount).Error(0)
}

func (m *MockParkingRepository) RecordVerification(ctx context.Context, userID, parkingID uuid.UUID) error {
	return m.Called(ctx, userID, parkingID).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, userID uuid.UUID, ntype notification.Type, message string, listingID *uuid.UUID) {
	m.Called(ctx, userID, ntype, message, listingID)
}

func (m *MockNotifier) List(ctx context.Context, userID uuid.UUID, query *common.PaginationQuery) ([]notification.NotificationResponse, *common.Pagination, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]notification.NotificationResponse), args.Get(1).(*common.Pagination), args.Error(2)
}

func (m *MockNotifier) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotifier) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

func (m *MockNotifier) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

type reviewTestSuite struct {
	repo        *MockRepository
	parkingRepo *MockParkingRepository
	notifier    *MockNotifier
	service     Service
}

func newReviewTestSuite() *reviewTestSuite {
	repo := new(MockRepository)
	parkingRepo := new(MockParkingRepository)
	notifier := new(MockNotifier)
	return &reviewTestSuite{
		repo:        repo,
		parkingRepo: parkingRepo,
		notifier:    notifier,
		service:     NewService(repo, parkingRepo, notifier, zap.NewNop()),
	}
}

func approvedListing(owner uuid.UUID) *parking.Parking {
	return &parking.Parking{
		BaseModel: common.BaseModel{ID: uuid.New(), CreatedAt: time.Now()},
		Name:      "역삼 공영주차장",
		Pricing:   parking.PricingFree,
		Category:  parking.CategoryOfficial,
		Status:    parking.StatusApproved,
		CreatedBy: owner,
	}
}

func notFoundErr() error {
	return common.ErrNotFound.WithDetails("Review not found.")
}

func TestSubmit_NewReviewNotifiesOwnerAndRefreshes(t *testing.T) {
	s := newReviewTestSuite()
	owner := uuid.New()
	reviewer := uuid.New()
	p := approvedListing(owner)

	s.parkingRepo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	s.repo.On("FindByUserAndParking", mock.Anything, reviewer, p.ID).Return(nil, notFoundErr())
	s.repo.On("Create", mock.Anything, mock.MatchedBy(func(r *Review) bool {
		return r.UserID == reviewer && r.ParkingID == p.ID && r.Rating == 4
	})).Return(nil)
	s.notifier.On("Notify", mock.Anything, owner, notification.TypeListingReviewed, mock.Anything, mock.Anything).Return()
	s.repo.On("Aggregate", mock.Anything, p.ID).Return(4.0, 1, nil)
	s.parkingRepo.On("UpdateRatingAggregates", mock.Anything, p.ID, 4.0, 1).Return(nil)

	resp, err := s.service.Submit(context.Background(), reviewer, p.ID, SubmitReviewRequest{Rating: 4, Comment: "good spot"})
	require.NoError(t, err)
	assert.Equal(t, 4, resp.Rating)
	s.repo.AssertExpectations(t)
	s.notifier.AssertExpectations(t)
	s.parkingRepo.AssertExpectations(t)
}

func TestSubmit_ResubmitUpdatesInsteadOfDuplicating(t *testing.T) {
	s := newReviewTestSuite()
	reviewer := uuid.New()
	p := approvedListing(uuid.New())
	existing := &Review{
		BaseModel: common.BaseModel{ID: uuid.New()},
		ParkingID: p.ID,
		UserID:    reviewer,
		Rating:    2,
	}

	s.parkingRepo.On("FindByID", mock.Anything, p.ID).Return(p, nil)
	s.repo.On("FindByUserAndParking", mock.Anything, reviewer, p.ID).Return(existing, nil)
	s.repo.On("Update", mock.Anything, mock.MatchedBy(func(r *Review) bool {
		return r.ID == existing.ID && r.Rating == 5
	})).Return(nil)
	s.repo.On("Aggregate", mock.Anything, p.ID).Return(5.0, 1, nil)
	s.parkingRepo.On("UpdateRatingAggregates", mock.Anything, p.ID, 5.0, 1).Return(nil)

	resp, err := s.service.Submit(context.Background(), reviewer, p.ID, SubmitReviewRequest{Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Rating)
	s.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	s.notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmit_PendingListingIsInvisible(t *testing.T) {
	s := newReviewTestSuite()
	p := approvedListing(uuid.New())
	p.Status = parking.StatusPending

	s.parkingRepo.On("FindByID", mock.Anything, p.ID).Return(p, nil)

	_, err := s.service.Submit(context.Background(), uuid.New(), p.ID, SubmitReviewRequest{Rating: 3})
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrNotFound.Code, apiErr.Code)
}

func TestRefreshAggregates_RoundsToTwoDecimals(t *testing.T) {
	s := newReviewTestSuite()
	parkingID := uuid.New()

	// 4, 4, 5 averages to 4.333...; stored as 4.33.
	s.repo.On("Aggregate", mock.Anything, parkingID).Return(4.333333333, 3, nil)
	s.parkingRepo.On("UpdateRatingAggregates", mock.Anything, parkingID, 4.33, 3).Return(nil)

	require.NoError(t, s.service.RefreshAggregates(context.Background(), parkingID))
	s.parkingRepo.AssertExpectations(t)
}

func TestDelete_AuthorDeletesAndAggregatesRefresh(t *testing.T) {
	s := newReviewTestSuite()
	author := uuid.New()
	parkingID := uuid.New()
	review := &Review{
		BaseModel: common.BaseModel{ID: uuid.New()},
		ParkingID: parkingID,
		UserID:    author,
		Rating:    5,
	}

	s.repo.On("FindByID", mock.Anything, review.ID).Return(review, nil)
	s.repo.On("Delete", mock.Anything, review.ID).Return(nil)
	s.repo.On("Aggregate", mock.Anything, parkingID).Return(0.0, 0, nil)
	s.parkingRepo.On("UpdateRatingAggregates", mock.Anything, parkingID, 0.0, 0).Return(nil)

	require.NoError(t, s.service.Delete(context.Background(), author, review.ID, false))
	s.parkingRepo.AssertExpectations(t)
}

func TestDelete_StrangerForbiddenAdminAllowed(t *testing.T) {
	s := newReviewTestSuite()
	review := &Review{
		BaseModel: common.BaseModel{ID: uuid.New()},
		ParkingID: uuid.New(),
		UserID:    uuid.New(),
		Rating:    1,
	}

	s.repo.On("FindByID", mock.Anything, review.ID).Return(review, nil)

	err := s.service.Delete(context.Background(), uuid.New(), review.ID, false)
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, common.ErrForbidden.Code, apiErr.Code)
	s.repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	s.repo.On("Delete", mock.Anything, review.ID).Return(nil)
	s.repo.On("Aggregate", mock.Anything, review.ParkingID).Return(0.0, 0, nil)
	s.parkingRepo.On("UpdateRatingAggregates", mock.Anything, review.ParkingID, 0.0, 0).Return(nil)

	require.NoError(t, s.service.Delete(context.Background(), uuid.New(), review.ID, true))
}
