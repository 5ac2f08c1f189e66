package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dashboard/internal/configuration"
	"dashboard/internal/core"
	"dashboard/internal/database"
	"dashboard/internal/messaging"
	"dashboard/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	zap.ReplaceGlobals(zap.Must(zap.NewProduction()))

	config := configuration.Read()
	core.NewLogger(config.App.LogLevel)

	profile := configuration.GetProfile(config.App.Profile)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := core.NewTracerProvider(ctx, config.Telemetry)
	if err != nil {
		zap.L().Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			zap.L().Error("Failed to flush traces", zap.Error(err))
		}
	}()

	db := database.InitDB(config.Database)
	cache := core.NewCache(config.Cache)
	activityLogger := core.NewActivityLogger(config.Activity)

	var eventsManager *core.EventsManager
	var publisher messaging.IPublisher
	if profile.NeedsEvents() {
		eventsManager = core.NewEventsManager(configuration.EventsActivity)
		publisher = eventsManager.GetPublisher(configuration.EventsActivity)
		defer eventsManager.Close()
	}

	appIdentity := uuid.New().String()

	if cache != nil {
		go cache.StartIdentityTicker(appIdentity)
		zap.L().Info("Cache identity ticker started")
	}

	if profile.Workers.AnyEnabled() {
		core.StartWorkers(
			ctx,
			profile,
			eventsManager,
			activityLogger,
			config,
			cache,
			appIdentity,
		)
	}

	if profile.HTTPServer {
		sessions := session.NewManager(cache, config.App.JWTSecret, time.Duration(config.App.SessionTTL)*time.Minute)
		router := core.NewRouter(config, db, cache, sessions, activityLogger, publisher)
		core.StartHTTPServer(ctx, config, router)
	} else if profile.Workers.AnyEnabled() {
		zap.L().Info("Running in worker-only mode")
		<-ctx.Done()
	}
}
