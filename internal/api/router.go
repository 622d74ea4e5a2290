// Package api exposes the HTTP surface: telemetry ingest, the
// field/user directory, lead capture, and the bot sync endpoint.
package api

import (
	"log/slog"

	"github.com/aqllidala/fieldwatch/internal/health"
	"github.com/aqllidala/fieldwatch/internal/notify"
	"github.com/aqllidala/fieldwatch/internal/store"
	"github.com/aqllidala/fieldwatch/internal/streams"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter builds the gin engine with all routes attached. The stream
// publisher may be nil; ingest then skips event publishing.
func NewRouter(logger *slog.Logger, st *store.Store, notifier notify.Notifier, publisher *streams.Publisher) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// The landing page runs on its own origin.
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowCredentials = false
	r.Use(cors.New(corsCfg))

	r.GET("/", RootHandler())
	r.GET("/health", gin.WrapF(health.Handler))

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/telemetry", IngestTelemetryHandler(logger, st, publisher))
		apiGroup.GET("/telemetry/:field_id", GetTelemetryHandler(st))
		apiGroup.POST("/fields", AddFieldHandler(st))
		apiGroup.GET("/fields", ListFieldsHandler(st))
		apiGroup.POST("/lead", LeadHandler(logger, st, notifier))
		apiGroup.POST("/sync_bot", SyncBotHandler(st))
	}

	return r
}
