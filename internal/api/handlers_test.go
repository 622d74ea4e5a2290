package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aqllidala/fieldwatch/internal/database"
	"github.com/aqllidala/fieldwatch/internal/store"
	"github.com/gin-gonic/gin"
)

// recordingNotifier counts deliveries and can be switched to fail.
type recordingNotifier struct {
	sent []string
	fail bool
}

func (n *recordingNotifier) Notify(text string) error {
	if n.fail {
		return errors.New("telegram unreachable")
	}
	n.sent = append(n.sent, text)
	return nil
}

func newTestRouter(t *testing.T, notifier *recordingNotifier) (*gin.Engine, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Init(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })

	st := store.New(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRouter(logger, st, notifier, nil), st
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func getJSON(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode body %q: %v", w.Body.String(), err)
	}
	return out
}

func TestTelemetryRoundtrip(t *testing.T) {
	r, _ := newTestRouter(t, &recordingNotifier{})

	w := postJSON(t, r, "/api/telemetry", map[string]interface{}{
		"field_id": "F1", "moisture": 10, "temperature": 22.5, "battery": 80,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("first ingest: expected 200, got %d", w.Code)
	}

	w = postJSON(t, r, "/api/telemetry", map[string]interface{}{
		"field_id": "F1", "moisture": 40, "temperature": 23.0, "battery": 79,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("second ingest: expected 200, got %d", w.Code)
	}

	w = getJSON(t, r, "/api/telemetry/F1")
	if w.Code != http.StatusOK {
		t.Fatalf("lookup: expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["moisture"].(float64) != 40 {
		t.Errorf("expected the most recent moisture 40, got %v", body["moisture"])
	}
	if body["field_id"] != "F1" {
		t.Errorf("expected field_id F1, got %v", body["field_id"])
	}
}

func TestTelemetryDefaultBattery(t *testing.T) {
	r, _ := newTestRouter(t, &recordingNotifier{})

	postJSON(t, r, "/api/telemetry", map[string]interface{}{
		"field_id": "F2", "moisture": 50,
	})

	w := getJSON(t, r, "/api/telemetry/F2")
	body := decodeBody(t, w)
	if body["battery"].(float64) != 100 {
		t.Errorf("expected battery to default to 100, got %v", body["battery"])
	}
}

func TestTelemetryNotFound(t *testing.T) {
	r, _ := newTestRouter(t, &recordingNotifier{})

	w := getJSON(t, r, "/api/telemetry/never-reported")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for a field with no readings, got %d", w.Code)
	}
}

func TestAddFieldDuplicateReportsErrorStatus(t *testing.T) {
	r, _ := newTestRouter(t, &recordingNotifier{})

	w := postJSON(t, r, "/api/fields", map[string]interface{}{
		"field_name": "north-40", "crop_type": "cotton",
	})
	if w.Code != http.StatusOK || decodeBody(t, w)["status"] != "success" {
		t.Fatalf("first add should succeed, got %d %s", w.Code, w.Body.String())
	}

	w = postJSON(t, r, "/api/fields", map[string]interface{}{
		"field_name": "north-40",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("duplicate is not an HTTP error, got %d", w.Code)
	}
	if decodeBody(t, w)["status"] != "error" {
		t.Errorf("expected error status in body, got %s", w.Body.String())
	}
}

func TestListFields(t *testing.T) {
	r, _ := newTestRouter(t, &recordingNotifier{})

	postJSON(t, r, "/api/fields", map[string]interface{}{"field_name": "a", "crop_type": "rice"})
	postJSON(t, r, "/api/fields", map[string]interface{}{"field_name": "b"})

	w := getJSON(t, r, "/api/fields")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	fields := body["fields"].([]interface{})
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}
	crops := map[string]string{}
	for _, f := range fields {
		m := f.(map[string]interface{})
		crops[m["name"].(string)] = m["crop"].(string)
	}
	if crops["a"] != "rice" || crops["b"] != "unknown" {
		t.Errorf("unexpected listing: %v", crops)
	}
}

func TestLeadSucceedsDespiteNotifierFailure(t *testing.T) {
	notifier := &recordingNotifier{fail: true}
	r, st := newTestRouter(t, notifier)

	w := postJSON(t, r, "/api/lead", map[string]interface{}{
		"name": "Karim", "contact": "+998907778899", "region": "Fergana",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("lead capture must succeed once the row is written, got %d", w.Code)
	}
	if decodeBody(t, w)["ok"] != true {
		t.Errorf("expected ok:true, got %s", w.Body.String())
	}

	if _, err := st.UserByPhone(context.Background(), "+998907778899"); err != nil {
		t.Errorf("lead should be registered as a user: %v", err)
	}
}

func TestSyncBot(t *testing.T) {
	r, st := newTestRouter(t, &recordingNotifier{})

	w := postJSON(t, r, "/api/sync_bot", map[string]interface{}{
		"phone_number": "+998900000000", "telegram_id": 5,
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown phone is a 404, got %d", w.Code)
	}

	if err := st.RegisterUser(context.Background(), "Karim", "+998900000000"); err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	w = postJSON(t, r, "/api/sync_bot", map[string]interface{}{
		"phone_number": "+998900000000", "telegram_id": 5, "username": "karim",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d %s", w.Code, w.Body.String())
	}
	if decodeBody(t, w)["ok"] != true {
		t.Errorf("expected ok:true, got %s", w.Body.String())
	}
}

func TestRootLiveness(t *testing.T) {
	r, _ := newTestRouter(t, &recordingNotifier{})

	w := getJSON(t, r, "/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if decodeBody(t, w)["status"] != "online" {
		t.Errorf("expected online status, got %s", w.Body.String())
	}
}
