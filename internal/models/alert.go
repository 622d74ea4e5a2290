package models

import "time"

// Alert type tags.
const (
	AlertTypeLowMoisture = "low_moisture"
)

// Alert is an immutable log entry for a dispatched notification. Rows
// are written only after the notification was queued for send, so
// IsSent is always 1 in practice. There is no link back to the reading
// that triggered it.
type Alert struct {
	ID        uint   `gorm:"primaryKey"`
	FieldID   string `gorm:"not null;index"`
	AlertType string `gorm:"not null"`
	Message   string
	IsSent    int `gorm:"not null;default:0"`
	CreatedAt time.Time
}
