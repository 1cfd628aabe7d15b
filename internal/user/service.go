// File: internal/user/service.go
package user

import (
	"context"
	"strings"
	"time"

	"parking_share_backend/internal/common"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for user business logic.
type Service interface {
	// GetOrProvision resolves a Firebase identity to an application user,
	// creating the profile on first sight and refreshing last-login.
	GetOrProvision(ctx context.Context, firebaseUID, email, displayName string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*User, error)
}

type serviceImpl struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new user service.
func NewService(repo Repository, logger *zap.Logger) Service {
	return &serviceImpl{repo: repo, logger: logger.Named("UserService")}
}

func (s *serviceImpl) GetOrProvision(ctx context.Context, firebaseUID, email, displayName string) (*User, error) {
	existing, err := s.repo.FindByFirebaseUID(ctx, firebaseUID)
	if err == nil {
		now := time.Now()
		existing.LastLoginAt = &now
		if err := s.repo.Update(ctx, existing); err != nil {
			// Login-time bookkeeping must not block the request.
			s.logger.Warn("Failed to update last login time",
				zap.String("firebaseUID", firebaseUID), zap.Error(err))
		}
		return existing, nil
	}
	if apiErr, ok := common.IsAPIError(err); !ok || apiErr.Code != common.ErrNotFound.Code {
		s.logger.Error("Failed to look up user by Firebase UID",
			zap.String("firebaseUID", firebaseUID), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not resolve user identity.")
	}

	if displayName == "" {
		if at := strings.Index(email, "@"); at > 0 {
			displayName = email[:at]
		} else {
			displayName = "user"
		}
	}

	now := time.Now()
	newUser := &User{
		FirebaseUID: firebaseUID,
		Email:       email,
		DisplayName: displayName,
		Role:        common.RoleUser,
		LastLoginAt: &now,
	}
	if err := s.repo.Create(ctx, newUser); err != nil {
		// A concurrent first request may have provisioned the row already.
		if again, lookupErr := s.repo.FindByFirebaseUID(ctx, firebaseUID); lookupErr == nil {
			return again, nil
		}
		s.logger.Error("Failed to provision user", zap.String("firebaseUID", firebaseUID), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not provision user profile.")
	}

	s.logger.Info("Provisioned new user profile",
		zap.String("userID", newUser.ID.String()), zap.String("firebaseUID", firebaseUID))
	return newUser, nil
}

func (s *serviceImpl) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *serviceImpl) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	u.DisplayName = req.DisplayName
	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("Failed to update user profile", zap.String("userID", id.String()), zap.Error(err))
		return nil, common.ErrInternalServer.WithDetails("Could not update profile.")
	}
	return u, nil
}
