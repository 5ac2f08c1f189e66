package aggregate

import (
	"slices"
	"time"

	"dashboard/internal/models"
)

// MaxDailyRangeDays is the longest range still charted one bucket per day.
const MaxDailyRangeDays = 30

// MonthlyBuckets is the number of months shown by the "total" chart.
const MonthlyBuckets = 12

type Granularity int

const (
	GranularityDay Granularity = iota
	GranularityWeek
	GranularityMonth
)

// GranularityFor returns the chart granularity of a range of rangeDays days.
func GranularityFor(rangeDays int) Granularity {
	if rangeDays <= MaxDailyRangeDays {
		return GranularityDay
	}
	return GranularityWeek
}

// BucketOptions tunes the bucketing. Gaps are only synthesized when ZeroFill
// is set and both bounds are known; otherwise only days present in the input
// produce buckets.
type BucketOptions struct {
	ZeroFill bool
	From     models.Date
	To       models.Date
}

func (o BucketOptions) fills() bool {
	return o.ZeroFill && !o.From.IsZero() && !o.To.IsZero() && !o.To.Before(o.From)
}

// WeekStart returns the Sunday starting the week of d.
func WeekStart(d models.Date) models.Date {
	return d.AddDays(-int(d.Weekday()))
}

func monthStart(d models.Date) models.Date {
	return models.DateOf(d.Year(), d.Month(), 1)
}

func bucketSpan(d models.Date, g Granularity) (models.Date, models.Date) {
	switch g {
	case GranularityWeek:
		start := WeekStart(d)
		return start, start.AddDays(6)
	case GranularityMonth:
		start := monthStart(d)
		return start, models.NewDate(start.AddDate(0, 1, -1))
	default:
		return d, d
	}
}

func bucketLabel(start, end models.Date, g Granularity, locale string) string {
	switch g {
	case GranularityWeek:
		return FormatWeekLabel(start, end, locale)
	case GranularityMonth:
		return FormatMonthLabel(start, locale)
	default:
		return FormatDayLabel(start, locale)
	}
}

type group[S any] struct {
	start   models.Date
	end     models.Date
	members []S
}

// groupByDate collects records into buckets ordered by bucket start.
// seeds are bucket starts that must exist even without records.
func groupByDate[S any](records []S, dateOf func(S) models.Date, g Granularity, seeds []models.Date) []*group[S] {
	index := make(map[string]*group[S])
	var groups []*group[S]

	ensure := func(d models.Date) *group[S] {
		start, end := bucketSpan(d, g)
		key := start.String()
		if existing, ok := index[key]; ok {
			return existing
		}
		created := &group[S]{start: start, end: end}
		index[key] = created
		groups = append(groups, created)
		return created
	}

	for _, seed := range seeds {
		ensure(seed)
	}
	for _, record := range records {
		d := dateOf(record)
		if d.IsZero() {
			continue
		}
		bucket := ensure(d)
		bucket.members = append(bucket.members, record)
	}

	slices.SortStableFunc(groups, func(a, b *group[S]) int {
		return a.start.Compare(b.start.Time)
	})
	return groups
}

func daySeeds(opts BucketOptions) []models.Date {
	if !opts.fills() {
		return nil
	}
	var seeds []models.Date
	for d := opts.From; !d.After(opts.To); d = d.AddDays(1) {
		seeds = append(seeds, d)
	}
	return seeds
}

func monthSeeds(now time.Time) []models.Date {
	last := monthStart(models.NewDate(now))
	seeds := make([]models.Date, 0, MonthlyBuckets)
	for i := MonthlyBuckets - 1; i >= 0; i-- {
		seeds = append(seeds, models.NewDate(last.AddDate(0, -i, 0)))
	}
	return seeds
}

// MonthlyWindow is the period covered by the "total" chart: the first day of
// the month eleven months before now through now.
func MonthlyWindow(now time.Time) Period {
	seeds := monthSeeds(now)
	return Period{From: seeds[0], To: models.NewDate(now)}
}

func dailyDate(s models.DailyStat) models.Date { return s.Date }
func loginDate(s models.LoginStat) models.Date { return s.Date }

func toChartBuckets(groups []*group[models.DailyStat], g Granularity, locale string) []models.ChartBucket {
	buckets := make([]models.ChartBucket, 0, len(groups))
	for _, grp := range groups {
		bucket := models.ChartBucket{
			Label: bucketLabel(grp.start, grp.end, g, locale),
			Start: grp.start,
			End:   grp.end,
		}
		for _, stat := range grp.members {
			bucket.FileCount += stat.FileCount
			bucket.BatchCount += stat.BatchCount
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

func toLoginBuckets(groups []*group[models.LoginStat], g Granularity, locale string) []models.LoginBucket {
	buckets := make([]models.LoginBucket, 0, len(groups))
	for _, grp := range groups {
		bucket := models.LoginBucket{
			Label: bucketLabel(grp.start, grp.end, g, locale),
			Start: grp.start,
			End:   grp.end,
		}
		for _, stat := range grp.members {
			bucket.TotalLogins += stat.TotalLogins
			bucket.QRLogins += stat.QRLogins
			bucket.ClassicLogins += stat.ClassicLogins
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}

// BucketDaily groups daily stats per day when rangeDays <= 30 and per
// Sunday-started week otherwise, summing file and batch counts.
func BucketDaily(stats []models.DailyStat, rangeDays int, locale string, opts BucketOptions) []models.ChartBucket {
	g := GranularityFor(rangeDays)
	return toChartBuckets(groupByDate(stats, dailyDate, g, daySeeds(opts)), g, locale)
}

// BucketLogins is BucketDaily for login statistics.
func BucketLogins(stats []models.LoginStat, rangeDays int, locale string, opts BucketOptions) []models.LoginBucket {
	g := GranularityFor(rangeDays)
	return toLoginBuckets(groupByDate(stats, loginDate, g, daySeeds(opts)), g, locale)
}

// BucketMonthly builds the twelve calendar-month buckets ending with the
// month of now. Records outside that window are ignored.
func BucketMonthly(stats []models.DailyStat, now time.Time, locale string) []models.ChartBucket {
	window := MonthlyWindow(now)
	inWindow := slices.DeleteFunc(slices.Clone(stats), func(s models.DailyStat) bool {
		return !window.Contains(s.Date)
	})
	groups := groupByDate(inWindow, dailyDate, GranularityMonth, monthSeeds(now))
	return toChartBuckets(groups, GranularityMonth, locale)
}

// BucketLoginsMonthly is BucketMonthly for login statistics.
func BucketLoginsMonthly(stats []models.LoginStat, now time.Time, locale string) []models.LoginBucket {
	window := MonthlyWindow(now)
	inWindow := slices.DeleteFunc(slices.Clone(stats), func(s models.LoginStat) bool {
		return !window.Contains(s.Date)
	})
	groups := groupByDate(inWindow, loginDate, GranularityMonth, monthSeeds(now))
	return toLoginBuckets(groups, GranularityMonth, locale)
}
