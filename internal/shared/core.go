// File: internal/shared/core.go
// Package shared holds the cross-module types and interfaces that the
// middleware, session, and user packages exchange. Keeping them here avoids
// import cycles between the domain packages.
package shared

import (
	"context"
	"time"
)

// Identity is an account as known to the hosted auth provider. The ID is the
// provider UID; it is opaque, stable, and doubles as the profile record key.
type Identity struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// Profile is the cross-module view of a profile record from the users
// collection. Role-specific fields are populated according to Role.
type Profile struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	Role              string    `json:"role"`
	IsProfileComplete bool      `json:"is_profile_complete"`
	DisplayName       string    `json:"display_name"`
	About             string    `json:"about"`

	// Student fields
	FirstName string   `json:"first_name,omitempty"`
	LastName  string   `json:"last_name,omitempty"`
	Headline  string   `json:"headline,omitempty"`
	Skills    []string `json:"skills,omitempty"`

	// Employer fields
	CompanyName string `json:"company_name,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Location    string `json:"location,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileService is the read surface of the user module that other modules
// depend on.
type ProfileService interface {
	GetProfile(ctx context.Context, id string) (*Profile, error)
}

// ProfileWatcher yields live profile snapshots for one identity. The first
// snapshot is delivered as soon as the current record is read; subsequent
// snapshots follow every write. The returned cancel function tears the
// subscription down and must always be called; after cancel the channel is
// closed.
type ProfileWatcher interface {
	WatchProfile(ctx context.Context, id string) (<-chan *Profile, func(), error)
}
