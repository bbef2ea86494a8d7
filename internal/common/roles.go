// File: internal/common/roles.go
package common

// Account roles. A role is fixed at registration and never changes in-app.
const (
	RoleStudent  = "student"
	RoleEmployer = "employer"
)

// IsValidRole reports whether s is a recognised account role.
func IsValidRole(s string) bool {
	return s == RoleStudent || s == RoleEmployer
}
