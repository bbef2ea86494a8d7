// File: internal/auth/firebase_provider.go
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Agnesa14/SkillCast/internal/common"
	"github.com/Agnesa14/SkillCast/internal/config"
	"github.com/Agnesa14/SkillCast/internal/shared"
)

// IdentityToolkitBaseURL is the Firebase Identity Toolkit endpoint. It is a
// variable so tests can point the provider at a local server.
var IdentityToolkitBaseURL = "https://identitytoolkit.googleapis.com/v1"

// AdminGateway is the slice of the Firebase Admin SDK the provider needs:
// the authoritative account lookup and session revocation. Implemented by
// firebase.Service.
type AdminGateway interface {
	GetIdentity(ctx context.Context, uid string) (*shared.Identity, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// FirebaseProvider implements Provider against the Firebase Identity Toolkit
// REST API for credential operations, and the Admin SDK for account lookup
// and sign-out.
type FirebaseProvider struct {
	apiKey     string
	httpClient *http.Client
	admin      AdminGateway
	logger     *zap.Logger
}

// NewFirebaseProvider builds the production Provider.
func NewFirebaseProvider(cfg *config.Config, admin AdminGateway, logger *zap.Logger) (*FirebaseProvider, error) {
	if cfg.FirebaseWebAPIKey == "" {
		return nil, fmt.Errorf("firebase web API key is required")
	}
	return &FirebaseProvider{
		apiKey:     cfg.FirebaseWebAPIKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		admin:      admin,
		logger:     logger,
	}, nil
}

type toolkitSessionResponse struct {
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
}

type toolkitErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateAccount registers an email/password account via accounts:signUp.
func (p *FirebaseProvider) CreateAccount(ctx context.Context, email, password string) (*Session, error) {
	var out toolkitSessionResponse
	err := p.post(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &out)
	if err != nil {
		return nil, err
	}

	return &Session{
		Identity: shared.Identity{
			ID:            out.LocalID,
			Email:         out.Email,
			EmailVerified: false,
		},
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
	}, nil
}

// SignIn exchanges credentials via accounts:signInWithPassword, then reloads
// the account record through the Admin SDK so EmailVerified reflects any
// verification link followed since the last sign-in.
func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	var out toolkitSessionResponse
	err := p.post(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	}, &out)
	if err != nil {
		return nil, err
	}

	identity, err := p.admin.GetIdentity(ctx, out.LocalID)
	if err != nil {
		p.logger.Error("Account lookup after sign-in failed", zap.Error(err), zap.String("uid", out.LocalID))
		return nil, common.ErrServiceUnavailable
	}

	return &Session{
		Identity:     *identity,
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
	}, nil
}

// SignOut revokes every refresh token for the identity.
func (p *FirebaseProvider) SignOut(ctx context.Context, uid string) error {
	return p.admin.RevokeRefreshTokens(ctx, uid)
}

// SendVerificationEmail requests a VERIFY_EMAIL message for the session.
func (p *FirebaseProvider) SendVerificationEmail(ctx context.Context, idToken string) error {
	return p.post(ctx, "accounts:sendOobCode", map[string]any{
		"requestType": "VERIFY_EMAIL",
		"idToken":     idToken,
	}, nil)
}

// SendPasswordReset requests a PASSWORD_RESET message for the address. An
// unknown address is reported as success so the endpoint cannot be used to
// probe which emails are registered.
func (p *FirebaseProvider) SendPasswordReset(ctx context.Context, email string) error {
	err := p.post(ctx, "accounts:sendOobCode", map[string]any{
		"requestType": "PASSWORD_RESET",
		"email":       email,
	}, nil)
	if errors.Is(err, ErrInvalidCredential) {
		return nil
	}
	return err
}

// post issues one Identity Toolkit call and decodes the response into out
// (when non-nil). Toolkit error codes are mapped to the package sentinels.
func (p *FirebaseProvider) post(ctx context.Context, action string, payload map[string]any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", action, err)
	}

	url := fmt.Sprintf("%s/%s?key=%s", IdentityToolkitBaseURL, action, p.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.logger.Error("Identity toolkit request failed", zap.String("action", action), zap.Error(err))
		return common.ErrServiceUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		var toolkitErr toolkitErrorResponse
		_ = json.Unmarshal(raw, &toolkitErr)
		mapped := mapToolkitError(toolkitErr.Error.Message)
		p.logger.Warn("Identity toolkit call rejected",
			zap.String("action", action),
			zap.Int("status", resp.StatusCode),
			zap.String("code", toolkitErr.Error.Message))
		return mapped
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		p.logger.Error("Failed to decode identity toolkit response", zap.String("action", action), zap.Error(err))
		return common.ErrServiceUnavailable
	}
	return nil
}

// mapToolkitError translates an Identity Toolkit error code into the package
// taxonomy. Codes may carry a trailing explanation after a colon, so matching
// is by prefix.
func mapToolkitError(code string) error {
	switch {
	case strings.HasPrefix(code, "EMAIL_EXISTS"):
		return ErrEmailAlreadyInUse
	case strings.HasPrefix(code, "EMAIL_NOT_FOUND"),
		strings.HasPrefix(code, "INVALID_PASSWORD"),
		strings.HasPrefix(code, "INVALID_LOGIN_CREDENTIALS"),
		strings.HasPrefix(code, "USER_DISABLED"):
		return ErrInvalidCredential
	case strings.HasPrefix(code, "INVALID_EMAIL"):
		return ErrInvalidEmail
	case strings.HasPrefix(code, "TOO_MANY_ATTEMPTS_TRY_LATER"):
		return ErrTooManyAttempts
	case strings.HasPrefix(code, "WEAK_PASSWORD"):
		return ErrWeakPassword
	default:
		return common.ErrServiceUnavailable
	}
}
