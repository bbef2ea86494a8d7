// File: internal/auth/validate.go
package auth

import (
	"strings"
	"unicode"

	"github.com/Agnesa14/SkillCast/internal/common"
)

// ValidatePassword enforces the password policy before any network call:
// at least 6 characters, one uppercase letter, and one digit.
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return ErrWeakPassword
	}
	var hasUpper, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasDigit {
		return ErrWeakPassword
	}
	return nil
}

// ValidateStudentEmailDomain checks that a student address ends in the
// institutional domain. Employers may register with any address.
func ValidateStudentEmailDomain(email, role, studentDomain string) error {
	if role != common.RoleStudent || studentDomain == "" {
		return nil
	}
	if !strings.HasSuffix(strings.ToLower(email), "@"+studentDomain) {
		return ErrEmailDomainNotAllowed
	}
	return nil
}

// ValidateSignUp runs every pre-flight registration check. These are local
// checks only; nothing here talks to the auth provider.
func ValidateSignUp(email, password, role, studentDomain string) error {
	if !common.IsValidRole(role) {
		return common.ErrBadRequest.WithDetails("role must be student or employer")
	}
	if err := ValidatePassword(password); err != nil {
		return err
	}
	return ValidateStudentEmailDomain(email, role, studentDomain)
}
