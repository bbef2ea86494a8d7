// File: internal/common/context_keys.go
package common

const (
	// AuthorizationHeader is the header name for the bearer token.
	AuthorizationHeader = "Authorization"
	// AuthorizationTypeBearer is the prefix for Bearer tokens.
	AuthorizationTypeBearer = "Bearer"
	// UserIDKey is the context key for the authenticated user's ID
	// (the auth provider UID, which is also the profile record key).
	UserIDKey = "userID"
	// UserEmailKey is the context key for the authenticated user's email.
	UserEmailKey = "userEmail"
	// UserRoleKey is the context key for the authenticated user's role.
	UserRoleKey = "userRole"
	// EmailVerifiedKey is the context key for the verified-email flag.
	EmailVerifiedKey = "emailVerified"
	// ProfileCompleteKey is the context key for the profile-completion flag.
	ProfileCompleteKey = "profileComplete"
)
