package models

import "time"

// Security alert event types. These are account-facing notifications
// (login, device, location, settings events) decoupled from transaction
// scoring.
const (
	SecurityEventLogin    = "login"
	SecurityEventDevice   = "device"
	SecurityEventLocation = "location"
	SecurityEventSettings = "settings"
)

// Security alert statuses
const (
	SecurityAlertStatusNew          = "new"
	SecurityAlertStatusAcknowledged = "acknowledged"
)

type SecurityAlert struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	AccountID string `gorm:"index;not null" json:"account_id"`
	EventType string `gorm:"not null" json:"event_type"`
	Severity  string `gorm:"not null;default:'low'" json:"severity"`
	Status    string `gorm:"not null;default:'new'" json:"status"`
	Details   JSON   `gorm:"type:jsonb" json:"details,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
