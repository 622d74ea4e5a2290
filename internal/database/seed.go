package database

import (
	"log"
	"time"

	"github.com/aqllidala/fieldwatch/internal/models"
	"gorm.io/gorm"
)

// SeedDevData populates the database with development test data.
// Idempotent: skips if data already exists.
func SeedDevData(db *gorm.DB) error {
	// Check if seed data already exists
	var existingUser models.User
	result := db.Where("phone_number = ?", "+998901234567").First(&existingUser)
	if result.Error == nil {
		log.Println("Seed data already exists, skipping")
		return nil
	}

	// Create test user
	user := models.User{
		FullName:    "Dev Fermer",
		PhoneNumber: "+998901234567",
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}

	// One owned field with a per-field threshold override and one
	// field owned by nobody.
	threshold := 30
	fields := []models.Field{
		{FieldName: "demo-paxta-1", CropType: "cotton", OwnerPhone: user.PhoneNumber, MoistureThreshold: &threshold},
		{FieldName: "demo-bugdoy-1", CropType: "wheat"},
	}
	for i := range fields {
		if err := db.Create(&fields[i]).Error; err != nil {
			return err
		}
	}

	// A short reading history for the owned field, newest last
	now := time.Now().UTC()
	readings := []models.TelemetryReading{
		{FieldID: "demo-paxta-1", Moisture: 42, Temperature: 24.5, BatteryLevel: 97, Timestamp: now.Add(-2 * time.Hour)},
		{FieldID: "demo-paxta-1", Moisture: 35, Temperature: 27.0, BatteryLevel: 96, Timestamp: now.Add(-time.Hour)},
		{FieldID: "demo-paxta-1", Moisture: 28, Temperature: 29.5, BatteryLevel: 95, Timestamp: now},
	}
	for i := range readings {
		if err := db.Create(&readings[i]).Error; err != nil {
			return err
		}
	}

	log.Println("Seeded dev data: 1 user, 2 fields, 3 telemetry readings")
	return nil
}
