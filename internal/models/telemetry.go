package models

import "time"

// TelemetryReading is one append-only sensor sample. FieldID is an
// opaque string shared with Field.FieldName but not constrained to it;
// readings for unknown fields are accepted and kept. Rows are never
// updated or deleted.
type TelemetryReading struct {
	ID           uint   `gorm:"primaryKey"`
	FieldID      string `gorm:"not null;index:idx_telemetry_field_ts"`
	Moisture     int    `gorm:"not null"`
	Temperature  float64
	BatteryLevel int
	Timestamp    time.Time `gorm:"index:idx_telemetry_field_ts"`
}

// TableName keeps the historical table name from before readings grew
// their own model type.
func (TelemetryReading) TableName() string {
	return "telemetry"
}
