package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aqllidala/fieldwatch/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Sentinel errors so callers can tell "no such row" apart from an
// infrastructure failure.
var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("already exists")
)

// Store is the persistence service object. All components receive it
// explicitly; nothing reaches for a package-level database handle.
type Store struct {
	db *gorm.DB
}

// New wraps an initialized GORM connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// SaveTelemetry appends one reading. The timestamp is server-assigned
// when the caller leaves it zero. No validation is performed and
// unknown field ids are accepted; readings are opaque facts.
func (s *Store) SaveTelemetry(ctx context.Context, r *models.TelemetryReading) error {
	if r.Timestamp.IsZero() {
		r.Timestamp = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("failed to save telemetry: %w", err)
	}
	return nil
}

// LatestTelemetry returns the reading with the maximum timestamp for
// the field, or ErrNotFound when the field has no readings at all.
func (s *Store) LatestTelemetry(ctx context.Context, fieldID string) (*models.TelemetryReading, error) {
	var r models.TelemetryReading
	err := s.db.WithContext(ctx).
		Where("field_id = ?", fieldID).
		Order("timestamp DESC").
		First(&r).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query latest telemetry: %w", err)
	}
	return &r, nil
}

// AddField registers a new field. The owner phone is not checked
// against the users table; orphan fields are valid.
func (s *Store) AddField(ctx context.Context, f *models.Field) error {
	if err := s.db.WithContext(ctx).Create(f).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("field %q: %w", f.FieldName, ErrDuplicate)
		}
		return fmt.Errorf("failed to add field: %w", err)
	}
	return nil
}

// ListFields returns every registered field. Order is not part of the
// contract.
func (s *Store) ListFields(ctx context.Context) ([]models.Field, error) {
	var fields []models.Field
	if err := s.db.WithContext(ctx).Find(&fields).Error; err != nil {
		return nil, fmt.Errorf("failed to list fields: %w", err)
	}
	return fields, nil
}

// RegisterUser creates a user keyed by phone number. Idempotent: a
// repeated phone number is ignored and the existing name is kept.
func (s *Store) RegisterUser(ctx context.Context, fullName, phoneNumber string) error {
	user := models.User{FullName: fullName, PhoneNumber: phoneNumber}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "phone_number"}},
			DoNothing: true,
		}).
		Create(&user).Error
	if err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// UserByPhone looks a user up by phone number.
func (s *Store) UserByPhone(ctx context.Context, phoneNumber string) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("phone_number = ?", phoneNumber).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

// UserByTelegramID looks a user up by their linked Telegram identity.
func (s *Store) UserByTelegramID(ctx context.Context, telegramID int64) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("telegram_id = ?", telegramID).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user: %w", err)
	}
	return &u, nil
}

// SyncTelegram attaches a Telegram identity to the user registered
// under phoneNumber. Returns ErrNotFound when no user has that phone
// number, so callers can tell a bad phone from a store failure.
func (s *Store) SyncTelegram(ctx context.Context, phoneNumber string, telegramID int64, username string) error {
	res := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("phone_number = ?", phoneNumber).
		Updates(map[string]interface{}{
			"telegram_id":       telegramID,
			"telegram_username": username,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to sync telegram identity: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("phone %s: %w", phoneNumber, ErrNotFound)
	}
	return nil
}

// FieldsByTelegramID returns the fields owned by the user linked to
// the given Telegram identity, joining users and fields by phone.
// Readings for field ids outside the fields table never show up here.
func (s *Store) FieldsByTelegramID(ctx context.Context, telegramID int64) ([]models.Field, error) {
	var fields []models.Field
	err := s.db.WithContext(ctx).
		Joins("JOIN users ON users.phone_number = fields.owner_phone").
		Where("users.telegram_id = ?", telegramID).
		Find(&fields).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query fields by telegram id: %w", err)
	}
	return fields, nil
}

// AlertCandidate is one field whose latest reading sits under its
// effective moisture threshold.
type AlertCandidate struct {
	FieldID   string
	Moisture  int
	Timestamp time.Time
	Threshold int
}

// FieldsNeedingAlert finds, per distinct field id in telemetry, the
// most recent reading and selects those below threshold. A field row
// with a moisture_threshold overrides the global value; readings for
// field ids absent from the fields table fall back to it.
func (s *Store) FieldsNeedingAlert(ctx context.Context, globalThreshold int) ([]AlertCandidate, error) {
	var candidates []AlertCandidate
	err := s.db.WithContext(ctx).Raw(`
		SELECT t.field_id,
		       t.moisture,
		       t.timestamp,
		       COALESCE(f.moisture_threshold, ?) AS threshold
		FROM telemetry t
		INNER JOIN (
			SELECT field_id, MAX(timestamp) AS max_ts
			FROM telemetry
			GROUP BY field_id
		) latest ON t.field_id = latest.field_id AND t.timestamp = latest.max_ts
		LEFT JOIN fields f ON f.field_name = t.field_id
		WHERE t.moisture < COALESCE(f.moisture_threshold, ?)`,
		globalThreshold, globalThreshold,
	).Scan(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query alert candidates: %w", err)
	}
	return candidates, nil
}

// RecordAlert appends an alert log entry. Called only after the
// notification was handed to the transport, so the row is written with
// is_sent already set.
func (s *Store) RecordAlert(ctx context.Context, fieldID, alertType, message string) error {
	alert := models.Alert{
		FieldID:   fieldID,
		AlertType: alertType,
		Message:   message,
		IsSent:    1,
	}
	if err := s.db.WithContext(ctx).Create(&alert).Error; err != nil {
		return fmt.Errorf("failed to record alert: %w", err)
	}
	return nil
}

// AlertsByField returns the alert log for one field, newest first.
func (s *Store) AlertsByField(ctx context.Context, fieldID string) ([]models.Alert, error) {
	var alerts []models.Alert
	err := s.db.WithContext(ctx).
		Where("field_id = ?", fieldID).
		Order("created_at DESC").
		Find(&alerts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	return alerts, nil
}
