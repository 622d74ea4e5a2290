package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aqllidala/fieldwatch/internal/models"
	"github.com/aqllidala/fieldwatch/internal/notify"
	"github.com/aqllidala/fieldwatch/internal/store"
	"github.com/aqllidala/fieldwatch/internal/streams"
	"github.com/gin-gonic/gin"
)

// telemetryRequest mirrors the sensor firmware payload. Battery
// defaults to full when the sensor omits it.
type telemetryRequest struct {
	FieldID     string  `json:"field_id"`
	Moisture    int     `json:"moisture"`
	Temperature float64 `json:"temperature"`
	Battery     int     `json:"battery"`
}

type fieldRequest struct {
	FieldName  string `json:"field_name"`
	CropType   string `json:"crop_type"`
	OwnerPhone string `json:"owner_phone"`
}

type leadRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Region  string `json:"region"`
	Message string `json:"message"`
}

type syncRequest struct {
	PhoneNumber string `json:"phone_number"`
	TelegramID  int64  `json:"telegram_id"`
	Username    string `json:"username"`
}

// RootHandler reports liveness for the landing page.
func RootHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Aqlli Dala API работает",
			"status":  "online",
		})
	}
}

// IngestTelemetryHandler accepts one sensor reading and appends it.
// Values are persisted as-is, with no range checks, and an unknown field id
// is not an error. The accepted reading is also published to the event
// stream when a publisher is configured, best-effort.
func IngestTelemetryHandler(logger *slog.Logger, st *store.Store, publisher *streams.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := telemetryRequest{Battery: 100}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid payload"})
			return
		}

		reading := models.TelemetryReading{
			FieldID:      req.FieldID,
			Moisture:     req.Moisture,
			Temperature:  req.Temperature,
			BatteryLevel: req.Battery,
		}
		if err := st.SaveTelemetry(c.Request.Context(), &reading); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to save telemetry"})
			return
		}

		if publisher != nil {
			if _, err := publisher.PublishReading(c.Request.Context(), reading); err != nil {
				logger.Warn("Failed to publish reading event",
					"field_id", reading.FieldID,
					"error", err,
				)
			}
		}

		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Данные получены"})
	}
}

// GetTelemetryHandler returns the latest reading for a field, or 404
// when the field has never reported.
func GetTelemetryHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		fieldID := c.Param("field_id")

		reading, err := st.LatestTelemetry(c.Request.Context(), fieldID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "Данные не найдены"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to query telemetry"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"field_id":    fieldID,
			"moisture":    reading.Moisture,
			"temperature": reading.Temperature,
			"battery":     reading.BatteryLevel,
			"timestamp":   reading.Timestamp,
		})
	}
}

// AddFieldHandler registers a field. A duplicate name reports an
// error status in the body, not an HTTP error.
func AddFieldHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := fieldRequest{CropType: "unknown"}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid payload"})
			return
		}

		field := models.Field{
			FieldName:  req.FieldName,
			CropType:   req.CropType,
			OwnerPhone: req.OwnerPhone,
		}
		if err := st.AddField(c.Request.Context(), &field); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				c.JSON(http.StatusOK, gin.H{"status": "error", "message": "Поле уже существует"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "failed to add field"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": fmt.Sprintf("Поле %s добавлено", req.FieldName),
		})
	}
}

// ListFieldsHandler returns every registered field.
func ListFieldsHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		fields, err := st.ListFields(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "failed to list fields"})
			return
		}

		out := make([]gin.H, 0, len(fields))
		for _, f := range fields {
			out = append(out, gin.H{"name": f.FieldName, "crop": f.CropType})
		}
		c.JSON(http.StatusOK, gin.H{"fields": out})
	}
}

// LeadHandler registers a landing-page lead and pings the operator
// channel. The notification is best-effort: once the user row is
// written, the caller gets a success regardless of delivery.
func LeadHandler(logger *slog.Logger, st *store.Store, notifier notify.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req leadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid payload"})
			return
		}

		if err := st.RegisterUser(c.Request.Context(), req.Name, req.Contact); err != nil {
			logger.Error("Failed to register lead", "contact", req.Contact, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal Server Error"})
			return
		}

		if err := notifier.Notify(notify.RenderLead(req.Name, req.Contact, req.Region, req.Message)); err != nil {
			logger.Warn("Lead notification failed", "contact", req.Contact, "error", err)
		}

		c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Заявка принята и сохранена в базе"})
	}
}

// SyncBotHandler links a Telegram identity to a registered phone
// number. An unknown phone is the caller's problem (404); everything
// else is an infrastructure failure (500).
func SyncBotHandler(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req syncRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid payload"})
			return
		}

		err := st.SyncTelegram(c.Request.Context(), req.PhoneNumber, req.TelegramID, req.Username)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"detail": "User not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to sync"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}
