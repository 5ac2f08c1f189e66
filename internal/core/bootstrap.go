package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"dashboard/internal/activity"
	"dashboard/internal/backend"
	c "dashboard/internal/cache"
	"dashboard/internal/configuration"
	"dashboard/internal/events"
	m "dashboard/internal/middlewares"
	"dashboard/internal/messaging"
	"dashboard/internal/models"
	"dashboard/internal/services"
	"dashboard/internal/session"
	"dashboard/internal/workers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const activityRetentionInterval = 24 * time.Hour

func StartWorkers(
	ctx context.Context,
	profile models.Profile,
	eventsManager *EventsManager,
	activityLogger activity.IActivityLogger,
	config models.Configuration,
	cache c.ICache,
	appIdentity string,
) {
	eventParams := &events.EventParams{
		ActivityLogger: activityLogger,
		Cache:          cache,
	}

	if profile.Workers.ActivityEvents != models.WorkerModeDisabled {
		// The in-memory topic drops messages nobody is subscribed to yet, so the
		// stream is opened before any handler can publish.
		if subscriber := eventsManager.GetSubscriber(configuration.EventsActivity); subscriber != nil {
			stream := subscriber.Subscribe(ctx)
			startWorker(ctx, profile.Workers.ActivityEvents, "activity_events", cache, appIdentity, func(ctx context.Context) {
				events.HandleEvents(ctx, eventParams, stream)
			})
		}
	}

	startWorker(ctx, profile.Workers.ActivityRetention, workers.ActivityRetentionWorkerName, cache, appIdentity,
		func(ctx context.Context) {
			worker := &workers.ActivityRetentionWorker{
				ActivityLogger: activityLogger,
				RetentionDays:  config.Activity.RetentionDays,
				RunInterval:    activityRetentionInterval,
			}
			worker.Start(ctx)
		})
}

func startWorker(
	ctx context.Context,
	mode models.WorkerMode,
	workerName string,
	cache c.ICache,
	appIdentity string,
	runWorker func(context.Context),
) {
	if mode == models.WorkerModeDisabled {
		return
	}

	if mode == models.WorkerModeSingleton {
		go startSingletonWorker(ctx, cache, appIdentity, workerName, runWorker)
	} else {
		go runWorker(ctx)
		zap.L().Info("Started worker", zap.String("worker", workerName))
	}
}

func startSingletonWorker(
	ctx context.Context,
	cache c.ICache,
	instanceID string,
	workerName string,
	runWorker func(context.Context),
) {
	lockKey := fmt.Sprintf(configuration.CacheAppWorkerLockKey, workerName)
	ticker := time.NewTicker(time.Duration(configuration.CacheAppWorkerLockRefresh) * time.Second)
	defer ticker.Stop()

	var workerStarted bool
	var cancelWorker context.CancelFunc
	defer func() {
		if cancelWorker != nil {
			cancelWorker()
		}
	}()

	for {
		if !workerStarted {
			acquired, err := cache.TryAcquireLock(lockKey, instanceID, configuration.CacheAppWorkerLockTTL)
			if err != nil {
				zap.L().Error("Failed to acquire worker lock", zap.String("worker", workerName), zap.Error(err))
			}

			if acquired {
				zap.L().Info("Acquired worker lock, starting worker", zap.String("worker", workerName))
				workerStarted = true
				var workerCtx context.Context
				workerCtx, cancelWorker = context.WithCancel(ctx)
				go runWorker(workerCtx)
			}
		} else {
			refreshed, err := cache.RefreshLock(lockKey, instanceID, configuration.CacheAppWorkerLockTTL)
			if err != nil || !refreshed {
				zap.L().Warn("Lost worker lock, stopping worker", zap.String("worker", workerName))
				workerStarted = false
				if cancelWorker != nil {
					cancelWorker()
					cancelWorker = nil
				}
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// NewRouter wires every dashboard service under /api/v1.
func NewRouter(
	config models.Configuration,
	db *gorm.DB,
	cache c.ICache,
	sessions *session.Manager,
	activityLogger activity.IActivityLogger,
	publisher messaging.IPublisher,
) http.Handler {
	m.InitValidator()

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(m.Timeout(time.Duration(config.App.RequestTimeout) * time.Second))
	r.Use(m.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.App.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Content-Disposition", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	dashboardConfig := config.App.GetDashboardConfig()
	location, err := time.LoadLocation(dashboardConfig.Timezone)
	if err != nil {
		zap.L().Fatal("Invalid timezone", zap.String("timezone", dashboardConfig.Timezone), zap.Error(err))
	}
	settings := services.Settings{
		Locale:          dashboardConfig.Locale,
		Location:        location,
		DefaultPageSize: dashboardConfig.DefaultPageSize,
	}

	client := backend.NewClient(config.Backend)
	stats := services.StatsService{
		Backend:  client,
		Cache:    cache,
		Settings: settings,
		CacheTTL: time.Duration(dashboardConfig.StatsCacheTTL) * time.Second,
	}

	r.Route("/api", func(apiRouter chi.Router) {
		apiRouter.Use(m.Authenticate(sessions))
		apiRouter.Use(m.RateLimit(cache, config.App.TrustedProxies, config.App.RateLimitPerMinute))

		apiRouter.Mount("/v1/auth", services.AuthService{
			Backend:   client,
			Sessions:  sessions,
			Publisher: publisher,
			Settings:  settings,
		}.Routes())

		apiRouter.Mount("/v1/admin", stats.AdminRoutes())
		apiRouter.Mount("/v1/sharer", stats.SharerRoutes())

		apiRouter.Mount("/v1/sharers", services.SharerService{
			Backend:   client,
			Publisher: publisher,
			Settings:  settings,
		}.Routes())

		apiRouter.Mount("/v1/viewers", services.ViewerService{
			Backend:   client,
			Publisher: publisher,
			Settings:  settings,
			Limits:    services.NewExtractLimits(dashboardConfig),
		}.Routes())

		apiRouter.Mount("/v1/batches", services.BatchService{
			Backend:  client,
			Settings: settings,
		}.Routes())

		apiRouter.Mount("/v1/documents", services.DocumentService{
			Backend:  client,
			Settings: settings,
		}.Routes())

		apiRouter.Mount("/v1/document-classes", services.DocumentClassService{
			Backend:   client,
			Publisher: publisher,
		}.Routes())

		apiRouter.Mount("/v1/files", services.FileService{
			Backend:   client,
			Publisher: publisher,
		}.Routes())

		apiRouter.Mount("/v1/views", services.SavedViewService{
			DB:       db,
			Settings: settings,
		}.Routes())

		apiRouter.Mount("/v1/activity", services.ActivityService{
			ActivityLogger: activityLogger,
		}.Routes())

		apiRouter.Mount("/v1/health", services.HealthService{
			Cache: cache,
			DB:    db,
		}.Routes())
	})

	return otelhttp.NewHandler(r, configuration.AppName, ServerSpanName)
}

// StartHTTPServer serves the dashboard API until ctx is cancelled, then
// drains in-flight requests.
func StartHTTPServer(ctx context.Context, config models.Configuration, handler http.Handler) {
	zap.L().Info("HTTP server starting", zap.Int("port", config.App.Port))

	requestTimeout := time.Duration(config.App.RequestTimeout) * time.Second
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", config.App.Port),
		Handler:      handler,
		ReadTimeout:  requestTimeout,
		WriteTimeout: 2 * requestTimeout,
		IdleTimeout:  requestTimeout,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			zap.L().Error("Failed to shut down the HTTP server", zap.Error(err))
		}
	}()

	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		zap.L().Error("Failed to start the app", zap.Error(err))
	}
}
