// File: internal/notification/service_test.go
package notification

import (
	"context"
	"errors"
	"testing"

	"parking_share_backend/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, notification *Notification) error {
	return m.Called(ctx, notification).Error(0)
}

func (m *MockRepository) FindByUser(ctx context.Context, userID uuid.UUID, query *common.PaginationQuery) ([]Notification, int64, error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Notification), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return m.Called(ctx, userID, notificationID).Error(0)
}

func (m *MockRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return m.Called(ctx, userID).Error(0)
}

func TestNotify_SwallowsRepositoryFailures(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())
	userID := uuid.New()

	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	// Must not panic or surface the failure to the caller.
	service.Notify(context.Background(), userID, TypeListingApproved, "approved", nil)
	repo.AssertExpectations(t)
}

func TestNotify_PersistsTheMessage(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())
	userID := uuid.New()
	listingID := uuid.New()

	repo.On("Create", mock.Anything, mock.MatchedBy(func(n *Notification) bool {
		return n.UserID == userID && n.Type == TypeListingVerified && n.ListingID != nil && *n.ListingID == listingID && !n.IsRead
	})).Return(nil)

	service.Notify(context.Background(), userID, TypeListingVerified, "verified", &listingID)
	repo.AssertExpectations(t)
}

func TestList_ReturnsResponsesWithPagination(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())
	userID := uuid.New()

	notifications := []Notification{
		{BaseModel: common.BaseModel{ID: uuid.New()}, UserID: userID, Type: TypeListingApproved, Message: "a"},
		{BaseModel: common.BaseModel{ID: uuid.New()}, UserID: userID, Type: TypeListingReviewed, Message: "b"},
	}
	query := &common.PaginationQuery{Page: 1, PageSize: 20}
	repo.On("FindByUser", mock.Anything, userID, query).Return(notifications, int64(2), nil)

	responses, pagination, err := service.List(context.Background(), userID, query)
	require.NoError(t, err)
	assert.Len(t, responses, 2)
	assert.Equal(t, int64(2), pagination.TotalItems)
	assert.Equal(t, 1, pagination.CurrentPage)
}

func TestUnreadCount(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())
	userID := uuid.New()

	repo.On("CountUnread", mock.Anything, userID).Return(int64(3), nil)

	count, err := service.UnreadCount(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
