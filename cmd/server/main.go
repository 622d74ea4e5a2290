package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aqllidala/fieldwatch/internal/api"
	"github.com/aqllidala/fieldwatch/internal/bot"
	"github.com/aqllidala/fieldwatch/internal/config"
	"github.com/aqllidala/fieldwatch/internal/database"
	"github.com/aqllidala/fieldwatch/internal/logging"
	"github.com/aqllidala/fieldwatch/internal/notify"
	"github.com/aqllidala/fieldwatch/internal/store"
	"github.com/aqllidala/fieldwatch/internal/streams"
	"github.com/aqllidala/fieldwatch/internal/worker"
	"github.com/gin-gonic/gin"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Store init is the only fatal failure in the process.
	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	if err := database.RunMigrations(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	if cfg.Env == "development" {
		if err := database.SeedDevData(db); err != nil {
			logger.Warn("Failed to seed dev data", "error", err)
		}
	}

	st := store.New(db)

	// Telegram client is shared by the operator notifier and the bot.
	// Without a token both degrade: notifications fail soft and the
	// bot stays off.
	var notifier notify.Notifier = notify.Disabled{}
	var botAPI *tgbotapi.BotAPI
	if cfg.TelegramBotToken != "" {
		botAPI, err = tgbotapi.NewBotAPI(cfg.TelegramBotToken)
		if err != nil {
			logger.Error("Failed to authorize Telegram bot", "error", err)
			botAPI = nil
		} else {
			notifier = notify.NewTelegram(botAPI, cfg.TelegramChatID)
		}
	}

	// Optional Redis wiring: event fan-out, gateway ingest bridge, and
	// the distributed scanner.
	var publisher *streams.Publisher
	var consumerStop func()
	if cfg.RedisURL != "" {
		publisher, err = streams.NewPublisher(cfg.RedisURL)
		if err != nil {
			logger.Warn("Failed to create stream publisher", "error", err)
			publisher = nil
		}

		hostname, _ := os.Hostname()
		if hostname == "" {
			hostname = "fieldwatch"
		}
		consumer, err := streams.NewReadingConsumer(cfg.RedisURL, hostname)
		if err != nil {
			logger.Warn("Failed to create stream consumer", "error", err)
		} else {
			consumerCtx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				defer close(done)
				if err := consumer.Consume(consumerCtx, streams.HandleReadingEvent(st)); err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("Stream consumer stopped", "error", err)
				}
			}()
			consumerStop = func() {
				cancel()
				<-done
				consumer.Close()
			}
		}
	}

	// Alert scanner: asynq-backed when Redis is available, plain
	// in-process loop otherwise.
	var workerStop, schedulerStop func()
	if cfg.RedisURL != "" {
		workerStop, err = worker.Start(cfg, logger, st, notifier)
		if err != nil {
			logger.Error("Failed to start worker, falling back to in-process scanner", "error", err)
			workerStop = worker.StartLoop(cfg, logger, st, notifier)
		} else {
			schedulerStop, err = worker.StartScheduler(cfg, logger)
			if err != nil {
				logger.Error("Failed to start scheduler", "error", err)
			}
		}
	} else {
		workerStop = worker.StartLoop(cfg, logger, st, notifier)
	}

	var botStop func()
	if botAPI != nil {
		botStop = bot.New(botAPI, logger, st, cfg.MoistureThreshold).Start()
	}

	router := api.NewRouter(logger, st, notifier, publisher)
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
		}
	}()
	logger.Info("HTTP server listening", "addr", cfg.Addr(), "env", cfg.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	if botStop != nil {
		botStop()
	}
	if schedulerStop != nil {
		schedulerStop()
	}
	if workerStop != nil {
		workerStop()
	}
	if consumerStop != nil {
		consumerStop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}

	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Warn("Failed to close stream publisher", "error", err)
		}
	}
	if err := database.Close(db); err != nil {
		logger.Error("Failed to close database", "error", err)
	}

	logger.Info("Shutdown complete")
}
