// File: internal/user/model.go
package user

import (
	"time"

	"github.com/lib/pq"

	"github.com/Agnesa14/SkillCast/internal/shared"
)

// Profile is a user's profile record. The primary key is the auth provider's
// UID, so each identity owns at most one profile by construction. The record
// is created at registration with the role fixed and IsProfileComplete false;
// the completion screens flip the flag.
type Profile struct {
	ID                string `gorm:"type:varchar(128);primaryKey"`
	Email             string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Role              string `gorm:"type:varchar(20);not null"`
	IsProfileComplete bool   `gorm:"not null;default:false"`
	DisplayName       string `gorm:"type:varchar(150)"`
	About             string `gorm:"type:text"`

	// Student fields
	FirstName string         `gorm:"type:varchar(100)"`
	LastName  string         `gorm:"type:varchar(100)"`
	Headline  string         `gorm:"type:varchar(150)"`
	Skills    pq.StringArray `gorm:"type:text[]"`

	// Employer fields
	CompanyName string `gorm:"type:varchar(150)"`
	Industry    string `gorm:"type:varchar(100)"`
	Location    string `gorm:"type:varchar(150)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName specifies the table name for the Profile model.
func (Profile) TableName() string {
	return "users"
}

// ToShared converts the record to the cross-module view.
func (p *Profile) ToShared() *shared.Profile {
	return &shared.Profile{
		ID:                p.ID,
		Email:             p.Email,
		Role:              p.Role,
		IsProfileComplete: p.IsProfileComplete,
		DisplayName:       p.DisplayName,
		About:             p.About,
		FirstName:         p.FirstName,
		LastName:          p.LastName,
		Headline:          p.Headline,
		Skills:            []string(p.Skills),
		CompanyName:       p.CompanyName,
		Industry:          p.Industry,
		Location:          p.Location,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

// --- DTOs ---

// CompleteStudentProfileRequest fills in the student fields and marks the
// profile complete.
type CompleteStudentProfileRequest struct {
	FirstName string   `json:"first_name" binding:"required,max=100"`
	LastName  string   `json:"last_name" binding:"required,max=100"`
	Headline  string   `json:"headline" binding:"required,max=150"`
	About     string   `json:"about" binding:"omitempty,max=2000"`
	Skills    []string `json:"skills" binding:"required,min=1,max=20,dive,max=50"`
}

// CompleteEmployerProfileRequest fills in the employer fields and marks the
// profile complete.
type CompleteEmployerProfileRequest struct {
	CompanyName string `json:"company_name" binding:"required,max=150"`
	Industry    string `json:"industry" binding:"required,max=100"`
	Location    string `json:"location" binding:"required,max=150"`
	About       string `json:"about" binding:"required,max=2000"`
}

// UpdateProfileRequest is the edit-screen payload. All fields are optional;
// only provided ones are changed and the completion flag is untouched.
type UpdateProfileRequest struct {
	DisplayName *string   `json:"display_name" binding:"omitempty,max=150"`
	About       *string   `json:"about" binding:"omitempty,max=2000"`
	Headline    *string   `json:"headline" binding:"omitempty,max=150"`
	Skills      *[]string `json:"skills" binding:"omitempty,dive,max=50"`
	CompanyName *string   `json:"company_name" binding:"omitempty,max=150"`
	Industry    *string   `json:"industry" binding:"omitempty,max=100"`
	Location    *string   `json:"location" binding:"omitempty,max=150"`
}
