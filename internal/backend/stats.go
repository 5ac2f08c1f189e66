package backend

import (
	"context"

	"dashboard/internal/models"
)

func (c *Client) GetTotalStats(ctx context.Context, token string) (models.TotalStats, error) {
	return get[models.TotalStats](ctx, c, token, pathTotalStats, nil)
}

func (c *Client) GetMonthlyStats(ctx context.Context, token string) ([]models.MonthlyStat, error) {
	return list[models.MonthlyStat](ctx, c, token, pathMonthlyStats, nil)
}

// GetDailyStats returns one record per day with activity between from and to, inclusive.
func (c *Client) GetDailyStats(ctx context.Context, token string, from, to models.Date) ([]models.DailyStat, error) {
	return list[models.DailyStat](ctx, c, token, pathDailyStats, dateRange(from, to))
}

func (c *Client) GetDailyLoginStats(ctx context.Context, token string, from, to models.Date) ([]models.LoginStat, error) {
	return list[models.LoginStat](ctx, c, token, pathDailyLoginStats, dateRange(from, to))
}

func (c *Client) GetTopSharerLogins(ctx context.Context, token string, from, to models.Date) ([]models.TopSharerLogins, error) {
	return list[models.TopSharerLogins](ctx, c, token, pathTopSharerLogins, dateRange(from, to))
}

// GetSharerTotalStats is GetTotalStats scoped to the authenticated sharer.
func (c *Client) GetSharerTotalStats(ctx context.Context, token string) (models.TotalStats, error) {
	return get[models.TotalStats](ctx, c, token, pathSharerTotalStats, nil)
}

func (c *Client) GetSharerDailyStats(ctx context.Context, token string, from, to models.Date) ([]models.DailyStat, error) {
	return list[models.DailyStat](ctx, c, token, pathSharerDailyStats, dateRange(from, to))
}
