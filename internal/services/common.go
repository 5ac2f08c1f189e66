package services

import (
	"strconv"
	"time"

	"dashboard/internal/activity"
	"dashboard/internal/aggregate"
	"dashboard/internal/events"
	"dashboard/internal/messaging"
	"dashboard/internal/models"
)

// Settings carries the dashboard-wide knobs shared by the services.
type Settings struct {
	Locale          string
	Location        *time.Location
	DefaultPageSize int
}

func (s Settings) location() *time.Location {
	if s.Location == nil {
		return time.UTC
	}
	return s.Location
}

// localeOf picks the session's locale, falling back to the configured one.
func (s Settings) localeOf(session models.Session) string {
	return aggregate.MatchLocale(session.Locale, s.Locale)
}

func (s Settings) pageSize(requested int) int {
	if requested > 0 {
		return requested
	}
	return s.DefaultPageSize
}

// recordActivity publishes an audit entry for an action of the session user.
// scopes name the stats cache entries the action made stale.
func recordActivity(
	publisher messaging.IPublisher,
	session models.Session,
	message, action, objectType string,
	objectID int64,
	object any,
	scopes ...string,
) {
	fields := activity.SessionFields(session, action, objectType, strconv.FormatInt(objectID, 10))
	if len(scopes) > 0 {
		fields["scope"] = scopes[0]
	}

	events.NewActivityEvent(publisher, models.Activity{
		Message: message,
		Object:  object,
		Filter:  activity.NewLogFilter(fields),
	}, scopes...).Trigger()
}

// parseBounds reads optional "yyyy-MM-dd" from/to query values. Both may be
// empty; when both are set from must not be after to.
func parseBounds(from, to string) (models.Date, models.Date, error) {
	var lower, upper models.Date
	var err error
	if from != "" {
		if lower, err = models.ParseDate(from); err != nil {
			return models.Date{}, models.Date{}, aggregate.ErrInvalidDateRange
		}
	}
	if to != "" {
		if upper, err = models.ParseDate(to); err != nil {
			return models.Date{}, models.Date{}, aggregate.ErrInvalidDateRange
		}
	}
	if !lower.IsZero() && !upper.IsZero() && upper.Before(lower) {
		return models.Date{}, models.Date{}, aggregate.ErrInvalidDateRange
	}
	return lower, upper, nil
}
