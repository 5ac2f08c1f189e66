package activity

import (
	"time"

	"dashboard/internal/models"
)

// IActivityLogger defines a common interface for all logs.
type IActivityLogger interface {
	Search(searchCriteria map[string][]string, days int) ([]map[string]interface{}, error)
	Send(message models.Activity) error
	CountByDay(searchCriteria map[string][]string, days int) ([]models.TimeSeriesPoint, error)
	// DeleteOlderThan removes entries recorded before cutoff and returns how many were removed.
	DeleteOlderThan(cutoff time.Time) (int, error)
	Close() error
}

// DefaultSearchDays is the window searched when no explicit one is requested.
const DefaultSearchDays = 30
