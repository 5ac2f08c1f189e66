package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"dashboard/internal/aggregate"
	"dashboard/internal/backend"
	c "dashboard/internal/cache"
	"dashboard/internal/configuration"
	"dashboard/internal/events"
	"dashboard/internal/handlers"
	m "dashboard/internal/middlewares"
	"dashboard/internal/models"
	"dashboard/internal/table"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StatsService serves the admin and sharer dashboards. Responses are cached
// per scope for CacheTTL; a zero TTL disables the cache.
type StatsService struct {
	Backend  *backend.Client
	Cache    c.ICache
	Settings Settings
	CacheTTL time.Duration
	Now      func() time.Time
}

// statsSource fetches the raw stats of one dashboard scope.
type statsSource struct {
	scope  string
	totals func(ctx context.Context) (models.TotalStats, error)
	daily  func(ctx context.Context, from, to models.Date) ([]models.DailyStat, error)
}

func (s StatsService) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(m.AuthorizeExactRole(models.RoleAdmin))

	r.With(m.ValidateQuery[models.DashboardQueryParams]).
		Get("/dashboard", handlers.GetOneWithQueryHandler(s.AdminDashboard))
	r.Get("/monthly", handlers.GetOneHandler(s.Monthly))
	r.With(m.ValidateQuery[models.DashboardQueryParams]).
		Get("/logins", handlers.GetOneWithQueryHandler(s.Logins))
	r.With(m.ValidateQuery[models.DashboardQueryParams]).
		Get("/top-sharers", handlers.GetOneWithQueryHandler(s.TopSharers))

	return r
}

func (s StatsService) SharerRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(m.AuthorizeExactRole(models.RoleSharer))

	r.With(m.ValidateQuery[models.DashboardQueryParams]).
		Get("/dashboard", handlers.GetOneWithQueryHandler(s.SharerDashboard))

	return r
}

func (s StatsService) now() time.Time {
	if s.Now != nil {
		return s.Now().In(s.Settings.location())
	}
	return time.Now().In(s.Settings.location())
}

func (s StatsService) adminSource(token string) statsSource {
	return statsSource{
		scope: events.AdminScope(),
		totals: func(ctx context.Context) (models.TotalStats, error) {
			return s.Backend.GetTotalStats(ctx, token)
		},
		daily: func(ctx context.Context, from, to models.Date) ([]models.DailyStat, error) {
			return s.Backend.GetDailyStats(ctx, token, from, to)
		},
	}
}

func (s StatsService) sharerSource(current models.Session) statsSource {
	token := current.BackendToken
	return statsSource{
		scope: events.SharerScope(current.User.ID),
		totals: func(ctx context.Context) (models.TotalStats, error) {
			return s.Backend.GetSharerTotalStats(ctx, token)
		},
		daily: func(ctx context.Context, from, to models.Date) ([]models.DailyStat, error) {
			return s.Backend.GetSharerDailyStats(ctx, token, from, to)
		},
	}
}

func (s StatsService) AdminDashboard(
	ctx context.Context,
	logger *zap.Logger,
	current models.Session,
	_ []int64,
	query models.DashboardQueryParams,
) (models.DashboardResponse, error) {
	return s.dashboard(ctx, logger, current, s.adminSource(current.BackendToken), query)
}

func (s StatsService) SharerDashboard(
	ctx context.Context,
	logger *zap.Logger,
	current models.Session,
	_ []int64,
	query models.DashboardQueryParams,
) (models.DashboardResponse, error) {
	return s.dashboard(ctx, logger, current, s.sharerSource(current), query)
}

func (s StatsService) resolve(query models.DashboardQueryParams, now time.Time) (aggregate.Range, error) {
	preset, err := aggregate.ParsePreset(query.Preset)
	if err != nil {
		return aggregate.Range{}, err
	}
	return aggregate.ResolvePreset(preset, query.From, query.To, models.NewDate(now))
}

// fetchWindow is the span of daily stats a range needs: the current period
// and the one it is compared against, or the monthly window for the total preset.
func fetchWindow(rng aggregate.Range, now time.Time) aggregate.Period {
	if rng.IsTotal() {
		return aggregate.MonthlyWindow(now)
	}
	return aggregate.Period{From: aggregate.PreviousPeriod(*rng.Period).From, To: rng.Period.To}
}

func (s StatsService) dashboard(
	ctx context.Context,
	logger *zap.Logger,
	current models.Session,
	source statsSource,
	query models.DashboardQueryParams,
) (models.DashboardResponse, error) {
	now := s.now()
	rng, err := s.resolve(query, now)
	if err != nil {
		return models.DashboardResponse{}, err
	}
	locale := s.Settings.localeOf(current)

	variant := fmt.Sprintf("dashboard:%s:%s:%s:%t:%s:%s",
		rng.Preset, query.From, query.To, query.ZeroFill, locale, models.NewDate(now))

	return cached(ctx, s, logger, source.scope, variant, func(ctx context.Context) (models.DashboardResponse, error) {
		window := fetchWindow(rng, now)

		var (
			totals models.TotalStats
			daily  []models.DailyStat
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			totals, err = source.totals(gctx)
			return err
		})
		g.Go(func() (err error) {
			daily, err = source.daily(gctx, window.From, window.To)
			return err
		})
		if err := g.Wait(); err != nil {
			return models.DashboardResponse{}, err
		}

		return buildDashboard(rng, totals, daily, now, locale, query.ZeroFill), nil
	})
}

func buildDashboard(
	rng aggregate.Range,
	totals models.TotalStats,
	daily []models.DailyStat,
	now time.Time,
	locale string,
	zeroFill bool,
) models.DashboardResponse {
	label := aggregate.ComparisonLabel(rng.Preset, locale)
	response := models.DashboardResponse{
		Period: rng.DashboardPeriod(),
		Totals: totals,
	}

	if rng.IsTotal() {
		response.Chart = aggregate.BucketMonthly(daily, now, locale)

		recent := aggregate.TotalComparisonPeriod(models.NewDate(now))
		prevFiles, prevBatches := aggregate.SumDaily(daily, aggregate.PreviousPeriod(recent))
		response.Comparison = models.Comparison{
			Files:   aggregate.Compare(totals.FilesLast30Days, prevFiles),
			Batches: aggregate.Compare(totals.BatchesLast30Days, prevBatches),
			Label:   label,
		}
		return response
	}

	period := *rng.Period
	inPeriod := table.Filter(daily, func(stat models.DailyStat) bool { return period.Contains(stat.Date) })
	response.Chart = aggregate.BucketDaily(inPeriod, period.Days(), locale, aggregate.BucketOptions{
		ZeroFill: zeroFill,
		From:     period.From,
		To:       period.To,
	})
	response.Comparison = aggregate.CompareDaily(daily, period, label)
	return response
}

// Monthly returns the backend's pre-aggregated monthly stats with the totals.
func (s StatsService) Monthly(
	ctx context.Context,
	logger *zap.Logger,
	current models.Session,
	_ []int64,
) (models.MonthlyResponse, error) {
	token := current.BackendToken
	variant := "monthly:" + models.NewDate(s.now()).String()

	return cached(ctx, s, logger, events.AdminScope(), variant, func(ctx context.Context) (models.MonthlyResponse, error) {
		var response models.MonthlyResponse
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			response.Totals, err = s.Backend.GetTotalStats(gctx, token)
			return err
		})
		g.Go(func() (err error) {
			response.Monthly, err = s.Backend.GetMonthlyStats(gctx, token)
			return err
		})
		if err := g.Wait(); err != nil {
			return models.MonthlyResponse{}, err
		}
		if response.Monthly == nil {
			response.Monthly = []models.MonthlyStat{}
		}
		return response, nil
	})
}

// Logins charts login activity over the selected period, compares total
// logins with the preceding period and ranks sharers by logins.
func (s StatsService) Logins(
	ctx context.Context,
	logger *zap.Logger,
	current models.Session,
	_ []int64,
	query models.DashboardQueryParams,
) (models.LoginDashboardResponse, error) {
	now := s.now()
	rng, err := s.resolve(query, now)
	if err != nil {
		return models.LoginDashboardResponse{}, err
	}
	locale := s.Settings.localeOf(current)
	token := current.BackendToken

	variant := fmt.Sprintf("logins:%s:%s:%s:%t:%s:%s",
		rng.Preset, query.From, query.To, query.ZeroFill, locale, models.NewDate(now))

	return cached(ctx, s, logger, events.AdminScope(), variant, func(ctx context.Context) (models.LoginDashboardResponse, error) {
		window := fetchWindow(rng, now)
		ranked := window
		if !rng.IsTotal() {
			ranked = *rng.Period
		}

		var (
			logins []models.LoginStat
			top    []models.TopSharerLogins
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			logins, err = s.Backend.GetDailyLoginStats(gctx, token, window.From, window.To)
			return err
		})
		g.Go(func() (err error) {
			top, err = s.Backend.GetTopSharerLogins(gctx, token, ranked.From, ranked.To)
			return err
		})
		if err := g.Wait(); err != nil {
			return models.LoginDashboardResponse{}, err
		}

		return buildLoginDashboard(rng, logins, top, now, locale, query.ZeroFill), nil
	})
}

func buildLoginDashboard(
	rng aggregate.Range,
	logins []models.LoginStat,
	top []models.TopSharerLogins,
	now time.Time,
	locale string,
	zeroFill bool,
) models.LoginDashboardResponse {
	label := aggregate.ComparisonLabel(rng.Preset, locale)
	if top == nil {
		top = []models.TopSharerLogins{}
	}
	response := models.LoginDashboardResponse{
		Period:     rng.DashboardPeriod(),
		TopSharers: top,
	}

	if rng.IsTotal() {
		response.Chart = aggregate.BucketLoginsMonthly(logins, now, locale)
		response.Comparison = aggregate.CompareLogins(logins, aggregate.TotalComparisonPeriod(models.NewDate(now)), label)
		return response
	}

	period := *rng.Period
	inPeriod := table.Filter(logins, func(stat models.LoginStat) bool { return period.Contains(stat.Date) })
	response.Chart = aggregate.BucketLogins(inPeriod, period.Days(), locale, aggregate.BucketOptions{
		ZeroFill: zeroFill,
		From:     period.From,
		To:       period.To,
	})
	response.Comparison = aggregate.CompareLogins(logins, period, label)
	return response
}

func (s StatsService) TopSharers(
	ctx context.Context,
	_ *zap.Logger,
	current models.Session,
	_ []int64,
	query models.DashboardQueryParams,
) (models.TopSharersResponse, error) {
	now := s.now()
	rng, err := s.resolve(query, now)
	if err != nil {
		return models.TopSharersResponse{}, err
	}

	ranked := aggregate.MonthlyWindow(now)
	if !rng.IsTotal() {
		ranked = *rng.Period
	}

	top, err := s.Backend.GetTopSharerLogins(ctx, current.BackendToken, ranked.From, ranked.To)
	if err != nil {
		return models.TopSharersResponse{}, err
	}
	if top == nil {
		top = []models.TopSharerLogins{}
	}
	return models.TopSharersResponse{Period: rng.DashboardPeriod(), TopSharers: top}, nil
}

// cached serves variant of scope from the cache, computing and storing it on
// a miss. Cache failures only cost a recomputation.
func cached[T any](
	ctx context.Context,
	s StatsService,
	logger *zap.Logger,
	scope, variant string,
	compute func(ctx context.Context) (T, error),
) (T, error) {
	if s.Cache == nil || s.CacheTTL <= 0 {
		return compute(ctx)
	}

	key := fmt.Sprintf(configuration.CacheStatsKey, scope, variant)
	if payload, err := s.Cache.Get(ctx, key); err == nil {
		var hit T
		if err = json.Unmarshal(payload, &hit); err == nil {
			return hit, nil
		}
		logger.Warn("Discarding unreadable cached stats", zap.String("key", key), zap.Error(err))
	} else if !errors.Is(err, c.ErrCacheMiss) {
		logger.Warn("Stats cache unavailable", zap.String("key", key), zap.Error(err))
	}

	value, err := compute(ctx)
	if err != nil {
		return value, err
	}

	if payload, err := json.Marshal(value); err == nil {
		if err = s.Cache.Set(ctx, key, payload, s.CacheTTL); err != nil {
			logger.Warn("Failed to cache stats", zap.String("key", key), zap.Error(err))
		}
	}
	return value, nil
}
