// File: internal/firebase/service.go
// Package firebase wraps the Firebase Admin SDK pieces the rest of the
// application needs: ID token verification, account lookup, and refresh token
// revocation.
package firebase

import (
	"context"
	"fmt"
	"path/filepath"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/Agnesa14/SkillCast/internal/config"
	"github.com/Agnesa14/SkillCast/internal/shared"
)

// Service provides access to Firebase Auth through the Admin SDK.
type Service struct {
	authClient *auth.Client
	logger     *zap.Logger
}

// NewService initializes the Firebase Admin SDK from the configured service
// account key and returns a Service backed by its Auth client.
func NewService(cfg *config.Config, logger *zap.Logger) (*Service, error) {
	if cfg.FirebaseServiceAccountKeyPath == "" {
		logger.Error("Firebase service account key path is not configured.")
		return nil, fmt.Errorf("firebase service account key path is required")
	}

	cleanPath := filepath.Clean(cfg.FirebaseServiceAccountKeyPath)
	opt := option.WithCredentialsFile(cleanPath)

	var app *firebase.App
	var err error

	if cfg.FirebaseProjectID != "" {
		conf := &firebase.Config{ProjectID: cfg.FirebaseProjectID}
		app, err = firebase.NewApp(context.Background(), conf, opt)
	} else {
		// Let the SDK infer the project from the credentials file.
		app, err = firebase.NewApp(context.Background(), nil, opt)
	}
	if err != nil {
		logger.Error("Failed to initialize Firebase Admin SDK app", zap.Error(err), zap.String("keyPath", cleanPath))
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	authClient, err := app.Auth(context.Background())
	if err != nil {
		logger.Error("Failed to get Firebase Auth client", zap.Error(err))
		return nil, fmt.Errorf("error getting Firebase Auth client: %w", err)
	}

	logger.Info("Firebase Admin SDK initialized successfully.")
	return &Service{
		authClient: authClient,
		logger:     logger,
	}, nil
}

// VerifyIDToken verifies a Firebase ID token and returns its claims.
func (s *Service) VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error) {
	if idToken == "" {
		return nil, fmt.Errorf("ID token must not be empty")
	}

	token, err := s.authClient.VerifyIDToken(ctx, idToken)
	if err != nil {
		s.logger.Warn("Firebase ID token verification failed", zap.Error(err))
		return nil, fmt.Errorf("failed to verify Firebase ID token: %w", err)
	}

	s.logger.Debug("Firebase ID token verified successfully", zap.String("uid", token.UID))
	return token, nil
}

// GetIdentity fetches the current account record for a UID. This is the
// authoritative read for the email verification flag, which only flips after
// the user follows the verification link.
func (s *Service) GetIdentity(ctx context.Context, uid string) (*shared.Identity, error) {
	rec, err := s.authClient.GetUser(ctx, uid)
	if err != nil {
		s.logger.Warn("Firebase user lookup failed", zap.Error(err), zap.String("uid", uid))
		return nil, fmt.Errorf("failed to look up Firebase user %s: %w", uid, err)
	}
	return &shared.Identity{
		ID:            rec.UID,
		Email:         rec.Email,
		EmailVerified: rec.EmailVerified,
	}, nil
}

// RevokeRefreshTokens revokes every refresh token for a user, which signs the
// user out of all sessions once their current ID token expires.
func (s *Service) RevokeRefreshTokens(ctx context.Context, uid string) error {
	if err := s.authClient.RevokeRefreshTokens(ctx, uid); err != nil {
		s.logger.Error("Failed to revoke refresh tokens", zap.Error(err), zap.String("uid", uid))
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	s.logger.Info("Revoked refresh tokens for user", zap.String("uid", uid))
	return nil
}
