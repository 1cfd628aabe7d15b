// File: internal/user/service_test.go
package user

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

func (m *MockRepository) Create(ctx context.Context, user *User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockRepository) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) FindByFirebaseUID(ctx context.Context, firebaseUID string) (*User, error) {
	args := m.Called(ctx, firebaseUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*User), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, user *User) error {
	return m.Called(ctx, user).Error(0)
}

func notFoundErr() error {
	return common.ErrNotFound.WithDetails("User not found.")
}

func TestGetOrProvision_ExistingUserRefreshesLogin(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	existing := &User{
		BaseModel:   common.BaseModel{ID: uuid.New()},
		FirebaseUID: "fb-1",
		Email:       "kim@example.com",
		DisplayName: "Kim",
		Role:        common.RoleUser,
	}
	repo.On("FindByFirebaseUID", mock.Anything, "fb-1").Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.ID == existing.ID && u.LastLoginAt != nil
	})).Return(nil)

	u, err := service.GetOrProvision(context.Background(), "fb-1", "kim@example.com", "Kim")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, u.ID)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGetOrProvision_FirstSightCreatesProfile(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	repo.On("FindByFirebaseUID", mock.Anything, "fb-new").Return(nil, notFoundErr())
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.FirebaseUID == "fb-new" && u.Role == common.RoleUser && u.DisplayName == "Lee"
	})).Return(nil)

	u, err := service.GetOrProvision(context.Background(), "fb-new", "lee@example.com", "Lee")
	require.NoError(t, err)
	assert.Equal(t, "lee@example.com", u.Email)
	repo.AssertExpectations(t)
}

func TestGetOrProvision_DisplayNameFallsBackToEmailLocalPart(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	repo.On("FindByFirebaseUID", mock.Anything, "fb-anon").Return(nil, notFoundErr())
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.DisplayName == "park"
	})).Return(nil)

	_, err := service.GetOrProvision(context.Background(), "fb-anon", "park@example.com", "")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestGetOrProvision_ConcurrentFirstRequestRecovers(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	winner := &User{
		BaseModel:   common.BaseModel{ID: uuid.New()},
		FirebaseUID: "fb-race",
		Role:        common.RoleUser,
	}

	repo.On("FindByFirebaseUID", mock.Anything, "fb-race").Return(nil, notFoundErr()).Once()
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("duplicate key value violates unique constraint"))
	repo.On("FindByFirebaseUID", mock.Anything, "fb-race").Return(winner, nil).Once()

	u, err := service.GetOrProvision(context.Background(), "fb-race", "race@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, winner.ID, u.ID)
}

func TestUpdateProfile(t *testing.T) {
	repo := new(MockRepository)
	service := NewService(repo, zap.NewNop())

	existing := &User{
		BaseModel:   common.BaseModel{ID: uuid.New()},
		DisplayName: "Old",
		Role:        common.RoleUser,
	}
	repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.DisplayName == "New Name"
	})).Return(nil)

	u, err := service.UpdateProfile(context.Background(), existing.ID, UpdateProfileRequest{DisplayName: "New Name"})
	require.NoError(t, err)
	assert.Equal(t, "New Name", u.DisplayName)
}
