// File: internal/firebase/service.go
package firebase

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"parking_share_backend/internal/config"

	"go.uber.org/zap"
)

// TokenVerifier validates Firebase ID tokens. Extracted as an interface so
// the auth middleware can be tested without the Admin SDK.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// Service wraps the Firebase Admin SDK auth client.
type Service struct {
	client *auth.Client
	logger *zap.Logger
}

// NewService initializes the Firebase Admin app from the configured
// service-account credentials.
func NewService(cfg *config.Config, logger *zap.Logger) (*Service, error) {
	opt := option.WithCredentialsFile(cfg.FirebaseServiceAccountKeyPath)
	fbConfig := &firebase.Config{ProjectID: cfg.FirebaseProjectID}

	app, err := firebase.NewApp(context.Background(), fbConfig, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}
	client, err := app.Auth(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase auth client: %w", err)
	}

	logger.Info("Firebase Admin SDK initialized", zap.String("projectID", cfg.FirebaseProjectID))
	return &Service{client: client, logger: logger.Named("FirebaseService")}, nil
}

// VerifyIDToken checks the signature, expiry and audience of an ID token.
func (s *Service) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	token, err := s.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		s.logger.Debug("ID token verification failed", zap.Error(err))
		return nil, err
	}
	return token, nil
}
