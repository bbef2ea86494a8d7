// File: internal/auth/model.go
package auth

// SignUpRequest is the payload for account registration.
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required,oneof=student employer"`
}

// LoginRequest is the payload for credential sign-in.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// PasswordResetRequest asks for a reset link to be emailed.
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// SessionResponse is returned on successful login.
type SessionResponse struct {
	UserID        string `json:"user_id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	IDToken       string `json:"id_token"`
	RefreshToken  string `json:"refresh_token"`
}
