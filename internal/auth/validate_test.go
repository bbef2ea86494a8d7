// File: internal/auth/validate_test.go
package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Agnesa14/SkillCast/internal/common"
)

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{"too short", "Ab1", ErrWeakPassword},
		{"no uppercase", "abc123", ErrWeakPassword},
		{"no digit", "Abcdef", ErrWeakPassword},
		{"meets policy", "Abc123", nil},
		{"longer valid password", "S0mePassword", nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateStudentEmailDomain(t *testing.T) {
	require.NoError(t, ValidateStudentEmailDomain("anyone@gmail.com", common.RoleEmployer, "umib.net"))
	require.NoError(t, ValidateStudentEmailDomain("student@umib.net", common.RoleStudent, "umib.net"))
	require.NoError(t, ValidateStudentEmailDomain("Student@UMIB.NET", common.RoleStudent, "umib.net"))

	err := ValidateStudentEmailDomain("student@gmail.com", common.RoleStudent, "umib.net")
	assert.ErrorIs(t, err, ErrEmailDomainNotAllowed)
}

func TestValidateSignUp(t *testing.T) {
	assert.ErrorIs(t, ValidateSignUp("student@gmail.com", "Abc123", common.RoleStudent, "umib.net"), ErrEmailDomainNotAllowed)
	assert.ErrorIs(t, ValidateSignUp("student@umib.net", "abc", common.RoleStudent, "umib.net"), ErrWeakPassword)
	assert.Error(t, ValidateSignUp("someone@umib.net", "Abc123", "admin", "umib.net"))
	assert.NoError(t, ValidateSignUp("student@umib.net", "Abc123", common.RoleStudent, "umib.net"))
	assert.NoError(t, ValidateSignUp("boss@acme.com", "Abc123", common.RoleEmployer, "umib.net"))
}
