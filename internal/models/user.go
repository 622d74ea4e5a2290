package models

import "time"

// User represents a registered farmer, captured from the landing page
// lead form or registered directly. The Telegram fields stay empty until
// the user links their account through the bot's contact handshake.
type User struct {
	ID               uint   `gorm:"primaryKey"`
	FullName         string `gorm:"not null;default:''"`
	PhoneNumber      string `gorm:"uniqueIndex;not null"`
	TelegramID       *int64 `gorm:"uniqueIndex"`
	TelegramUsername string
	CreatedAt        time.Time
}
