// File: internal/auth/errors.go
package auth

import (
	"net/http"

	"github.com/Agnesa14/SkillCast/internal/common"
)

// Credential and gate errors surfaced by the auth endpoints. Wrong-password
// and unknown-account cases share one sentinel so responses do not reveal
// which of the two failed.
var (
	ErrInvalidCredential = common.NewAPIError(http.StatusUnauthorized, "INVALID_CREDENTIAL", "Incorrect email or password.")
	ErrEmailAlreadyInUse = common.NewAPIError(http.StatusConflict, "EMAIL_ALREADY_IN_USE", "An account with this email address already exists.")
	ErrInvalidEmail      = common.NewAPIError(http.StatusBadRequest, "INVALID_EMAIL", "The email address is badly formatted.")
	ErrTooManyAttempts   = common.NewAPIError(http.StatusTooManyRequests, "TOO_MANY_ATTEMPTS", "Too many attempts. Please try again later.")
	ErrUnverifiedEmail   = common.NewAPIError(http.StatusForbidden, "UNVERIFIED_EMAIL", "Your email address has not been verified. Please check your inbox.")

	ErrWeakPassword = common.NewAPIError(http.StatusUnprocessableEntity, "WEAK_PASSWORD",
		"Password must be at least 6 characters long and contain an uppercase letter and a digit.")
	ErrEmailDomainNotAllowed = common.NewAPIError(http.StatusUnprocessableEntity, "EMAIL_DOMAIN_NOT_ALLOWED",
		"Student accounts must use an institutional email address.")
)
