// internal/models/audit.go
package models

import (
	"github.com/google/uuid"
)

type AuditLog struct {
	BaseModel
	UserID     *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Action     string     `json:"action" gorm:"size:100;not null;index"`
	Path       string     `json:"path" gorm:"size:255;not null"`
	StatusCode int        `json:"status_code" gorm:"not null"`
	Request    JSONB      `json:"request" gorm:"type:jsonb"`
	IPAddress  string     `json:"ip_address" gorm:"size:45"`
	UserAgent  string     `json:"user_agent" gorm:"type:text"`

	// Relationships
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}
