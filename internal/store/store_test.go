package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aqllidala/fieldwatch/internal/database"
	"github.com/aqllidala/fieldwatch/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := database.Init(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })

	return New(db)
}

func TestRegisterUserIdempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.RegisterUser(ctx, "Alisher Fermer", "+998901112233"); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if err := s.RegisterUser(ctx, "Someone Else", "+998901112233"); err != nil {
		t.Fatalf("repeated registration should not error: %v", err)
	}

	var count int64
	if err := s.db.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly 1 user row, got %d", count)
	}

	user, err := s.UserByPhone(ctx, "+998901112233")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if user.FullName != "Alisher Fermer" {
		t.Errorf("repeated registration must not update the name, got %q", user.FullName)
	}
}

func TestLatestTelemetry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first := models.TelemetryReading{FieldID: "F1", Moisture: 10, Temperature: 22.5, BatteryLevel: 80, Timestamp: base}
	second := models.TelemetryReading{FieldID: "F1", Moisture: 40, Temperature: 23.0, BatteryLevel: 79, Timestamp: base.Add(time.Second)}
	for _, r := range []models.TelemetryReading{first, second} {
		if err := s.SaveTelemetry(ctx, &r); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	latest, err := s.LatestTelemetry(ctx, "F1")
	if err != nil {
		t.Fatalf("latest lookup failed: %v", err)
	}
	if latest.Moisture != 40 {
		t.Errorf("expected latest moisture 40, got %d", latest.Moisture)
	}
}

func TestLatestTelemetryNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LatestTelemetry(context.Background(), "never-reported")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSaveTelemetryAssignsTimestamp(t *testing.T) {
	s := newTestStore(t)

	r := models.TelemetryReading{FieldID: "F1", Moisture: 55}
	if err := s.SaveTelemetry(context.Background(), &r); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if r.Timestamp.IsZero() {
		t.Error("expected server-assigned timestamp")
	}
}

func TestAddFieldDuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.AddField(ctx, &models.Field{FieldName: "north-40", CropType: "cotton"}); err != nil {
		t.Fatalf("first add failed: %v", err)
	}

	err := s.AddField(ctx, &models.Field{FieldName: "north-40", CropType: "wheat"})
	if !errors.Is(err, ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestSyncTelegram(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	err := s.SyncTelegram(ctx, "+998000000000", 42, "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown phone, got %v", err)
	}

	if err := s.RegisterUser(ctx, "Bobur", "+998901112233"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	if err := s.SyncTelegram(ctx, "+998901112233", 42, "bobur"); err != nil {
		t.Fatalf("sync failed: %v", err)
	}

	user, err := s.UserByTelegramID(ctx, 42)
	if err != nil {
		t.Fatalf("lookup by telegram id failed: %v", err)
	}
	if user.PhoneNumber != "+998901112233" {
		t.Errorf("expected linked phone, got %q", user.PhoneNumber)
	}
	if user.TelegramUsername != "bobur" {
		t.Errorf("expected username to be stored, got %q", user.TelegramUsername)
	}
}

func TestFieldsNeedingAlert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	perField := 50
	if err := s.AddField(ctx, &models.Field{FieldName: "custom", CropType: "rice", MoistureThreshold: &perField}); err != nil {
		t.Fatalf("add field failed: %v", err)
	}

	readings := []models.TelemetryReading{
		// F1 is dry, then recovers: must not alert.
		{FieldID: "F1", Moisture: 10, Timestamp: base},
		{FieldID: "F1", Moisture: 40, Timestamp: base.Add(time.Minute)},
		// F2 stays dry under the global threshold. No fields row, so
		// it alerts as an orphan reading.
		{FieldID: "F2", Moisture: 12, Timestamp: base},
		// "custom" is above the global threshold but under its own.
		{FieldID: "custom", Moisture: 45, Timestamp: base},
	}
	for i := range readings {
		if err := s.SaveTelemetry(ctx, &readings[i]); err != nil {
			t.Fatalf("save failed: %v", err)
		}
	}

	candidates, err := s.FieldsNeedingAlert(ctx, 25)
	if err != nil {
		t.Fatalf("alert query failed: %v", err)
	}

	got := map[string]AlertCandidate{}
	for _, c := range candidates {
		got[c.FieldID] = c
	}

	if _, ok := got["F1"]; ok {
		t.Error("F1 recovered and must not be in the alert set")
	}
	f2, ok := got["F2"]
	if !ok {
		t.Fatal("F2 expected in the alert set")
	}
	if f2.Moisture != 12 || f2.Threshold != 25 {
		t.Errorf("unexpected F2 candidate: %+v", f2)
	}
	custom, ok := got["custom"]
	if !ok {
		t.Fatal("field with per-field threshold expected in the alert set")
	}
	if custom.Threshold != 50 {
		t.Errorf("expected per-field threshold 50, got %d", custom.Threshold)
	}
}

func TestDirectoryJoinExcludesOrphanReadings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.RegisterUser(ctx, "Dilnoza", "+998905556677"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}
	if err := s.SyncTelegram(ctx, "+998905556677", 77, "dilnoza"); err != nil {
		t.Fatalf("sync failed: %v", err)
	}
	if err := s.AddField(ctx, &models.Field{FieldName: "owned", CropType: "cotton", OwnerPhone: "+998905556677"}); err != nil {
		t.Fatalf("add field failed: %v", err)
	}

	// A reading for a field id nobody registered.
	orphan := models.TelemetryReading{FieldID: "ghost-field", Moisture: 33}
	if err := s.SaveTelemetry(ctx, &orphan); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	fields, err := s.FieldsByTelegramID(ctx, 77)
	if err != nil {
		t.Fatalf("join query failed: %v", err)
	}
	if len(fields) != 1 || fields[0].FieldName != "owned" {
		t.Errorf("expected only the owned field, got %+v", fields)
	}

	// Direct telemetry lookup still sees the orphan reading.
	if _, err := s.LatestTelemetry(ctx, "ghost-field"); err != nil {
		t.Errorf("orphan reading must stay retrievable: %v", err)
	}
}

func TestRecordAlert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.RecordAlert(ctx, "F1", models.AlertTypeLowMoisture, "namlik past"); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	alerts, err := s.AlertsByField(ctx, "F1")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected 1 alert, got %d", len(alerts))
	}
	if alerts[0].IsSent != 1 {
		t.Errorf("expected is_sent=1, got %d", alerts[0].IsSent)
	}
	if alerts[0].AlertType != models.AlertTypeLowMoisture {
		t.Errorf("unexpected alert type %q", alerts[0].AlertType)
	}
}
