package models

import "time"

// Field is a monitored plot. OwnerPhone references User.PhoneNumber by
// convention only; there is no foreign key, and orphan fields are valid.
// MoistureThreshold overrides the global alert threshold when set.
type Field struct {
	ID                uint   `gorm:"primaryKey"`
	FieldName         string `gorm:"uniqueIndex;not null"`
	CropType          string `gorm:"not null;default:'unknown'"`
	OwnerPhone        string
	MoistureThreshold *int
	CreatedAt         time.Time
}
