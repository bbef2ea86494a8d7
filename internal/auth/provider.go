// File: internal/auth/provider.go
package auth

import (
	"context"

	"github.com/Agnesa14/SkillCast/internal/shared"
)

// Session is the result of a successful credential exchange with the hosted
// auth provider. The IDToken is short-lived and only held in memory; it is
// what the verification email send is authorized with.
type Session struct {
	Identity     shared.Identity
	IDToken      string
	RefreshToken string
}

// Provider is the contract with the hosted authentication service. Failures
// map to the sentinels in errors.go where the provider reports a recognized
// condition, and to common.ErrServiceUnavailable otherwise.
type Provider interface {
	// CreateAccount registers a new email/password account. The returned
	// identity always has EmailVerified=false.
	CreateAccount(ctx context.Context, email, password string) (*Session, error)

	// SignIn exchanges credentials for a session. EmailVerified on the
	// returned identity reflects the account record at sign-in time.
	SignIn(ctx context.Context, email, password string) (*Session, error)

	// SignOut invalidates every outstanding session for the identity.
	SignOut(ctx context.Context, uid string) error

	// SendVerificationEmail asks the provider to deliver a verification
	// link to the session's address. Best effort.
	SendVerificationEmail(ctx context.Context, idToken string) error

	// SendPasswordReset asks the provider to deliver a reset link. Best
	// effort; absence of the account is not reported to the caller.
	SendPasswordReset(ctx context.Context, email string) error
}
