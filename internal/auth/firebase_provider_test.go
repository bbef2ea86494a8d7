// File: internal/auth/firebase_provider_test.go
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Agnesa14/SkillCast/internal/common"
	"github.com/Agnesa14/SkillCast/internal/platform/logger"
	"github.com/Agnesa14/SkillCast/internal/shared"
)

type mockAdminGateway struct {
	mock.Mock
}

func (m *mockAdminGateway) GetIdentity(ctx context.Context, uid string) (*shared.Identity, error) {
	args := m.Called(ctx, uid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Identity), args.Error(1)
}

func (m *mockAdminGateway) RevokeRefreshTokens(ctx context.Context, uid string) error {
	args := m.Called(ctx, uid)
	return args.Error(0)
}

// newToolkitServer points the provider at a stub Identity Toolkit server for
// the duration of the test.
func newToolkitServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	orig := IdentityToolkitBaseURL
	IdentityToolkitBaseURL = srv.URL
	t.Cleanup(func() {
		IdentityToolkitBaseURL = orig
		srv.Close()
	})
	return srv
}

func newTestProvider(admin AdminGateway) *FirebaseProvider {
	return &FirebaseProvider{
		apiKey:     "test-key",
		httpClient: http.DefaultClient,
		admin:      admin,
		logger:     logger.NewDefaultLogger(),
	}
}

func toolkitError(w http.ResponseWriter, status int, code string) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]any{"code": status, "message": code},
	})
}

func TestCreateAccount(t *testing.T) {
	newToolkitServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "accounts:signUp")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "new@umib.net", body["email"])

		_ = json.NewEncoder(w).Encode(toolkitSessionResponse{
			LocalID: "uid-new", Email: "new@umib.net", IDToken: "tok", RefreshToken: "ref",
		})
	})

	p := newTestProvider(new(mockAdminGateway))
	sess, err := p.CreateAccount(context.Background(), "new@umib.net", "Abc123")
	require.NoError(t, err)
	assert.Equal(t, "uid-new", sess.Identity.ID)
	assert.False(t, sess.Identity.EmailVerified)
	assert.Equal(t, "tok", sess.IDToken)
}

func TestCreateAccountEmailExists(t *testing.T) {
	newToolkitServer(t, func(w http.ResponseWriter, r *http.Request) {
		toolkitError(w, http.StatusBadRequest, "EMAIL_EXISTS")
	})

	p := newTestProvider(new(mockAdminGateway))
	_, err := p.CreateAccount(context.Background(), "dup@umib.net", "Abc123")
	assert.ErrorIs(t, err, ErrEmailAlreadyInUse)
}

func TestSignInReloadsVerificationFlag(t *testing.T) {
	newToolkitServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "accounts:signInWithPassword")
		_ = json.NewEncoder(w).Encode(toolkitSessionResponse{
			LocalID: "uid-1", Email: "s@umib.net", IDToken: "tok", RefreshToken: "ref",
		})
	})

	admin := new(mockAdminGateway)
	admin.On("GetIdentity", mock.Anything, "uid-1").
		Return(&shared.Identity{ID: "uid-1", Email: "s@umib.net", EmailVerified: true}, nil)

	p := newTestProvider(admin)
	sess, err := p.SignIn(context.Background(), "s@umib.net", "Abc123")
	require.NoError(t, err)
	assert.True(t, sess.Identity.EmailVerified)
	admin.AssertExpectations(t)
}

func TestSignInErrorMapping(t *testing.T) {
	tests := []struct {
		code    string
		wantErr error
	}{
		{"INVALID_LOGIN_CREDENTIALS", ErrInvalidCredential},
		{"EMAIL_NOT_FOUND", ErrInvalidCredential},
		{"INVALID_PASSWORD", ErrInvalidCredential},
		{"INVALID_EMAIL", ErrInvalidEmail},
		{"TOO_MANY_ATTEMPTS_TRY_LATER : access temporarily disabled", ErrTooManyAttempts},
		{"SOMETHING_NOVEL", common.ErrServiceUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.code, func(t *testing.T) {
			newToolkitServer(t, func(w http.ResponseWriter, r *http.Request) {
				toolkitError(w, http.StatusBadRequest, tc.code)
			})

			p := newTestProvider(new(mockAdminGateway))
			_, err := p.SignIn(context.Background(), "s@umib.net", "wrong")
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestSendPasswordResetHidesUnknownAddress(t *testing.T) {
	newToolkitServer(t, func(w http.ResponseWriter, r *http.Request) {
		toolkitError(w, http.StatusBadRequest, "EMAIL_NOT_FOUND")
	})

	p := newTestProvider(new(mockAdminGateway))
	assert.NoError(t, p.SendPasswordReset(context.Background(), "ghost@umib.net"))
}

func TestSendVerificationEmail(t *testing.T) {
	newToolkitServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "VERIFY_EMAIL", body["requestType"])
		assert.Equal(t, "tok", body["idToken"])
		_ = json.NewEncoder(w).Encode(map[string]any{"email": "s@umib.net"})
	})

	p := newTestProvider(new(mockAdminGateway))
	assert.NoError(t, p.SendVerificationEmail(context.Background(), "tok"))
}
