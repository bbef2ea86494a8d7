// File: internal/notification/model.go
package notification

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Well-known notification types.
const (
	TypeNewApplicant      = "new_applicant"
	TypeApplicationStatus = "application_status"
)

// Notification is a message delivered to a user's in-app inbox.
type Notification struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID      string     `gorm:"type:varchar(128);not null;index:idx_notification_user_status" json:"user_id"`
	Type        string     `gorm:"type:varchar(100);not null" json:"type"`
	Message     string     `gorm:"type:text;not null" json:"message"`
	ReferenceID *uuid.UUID `gorm:"type:uuid" json:"reference_id,omitempty"`
	IsRead      bool       `gorm:"not null;default:false;index:idx_notification_user_status" json:"is_read"`
	CreatedAt   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_notification_user_status" json:"created_at"`
}

// BeforeCreate will set a UUID rather than relying on a database default.
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for GORM.
func (Notification) TableName() string {
	return "notifications"
}
