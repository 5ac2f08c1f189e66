package aggregate

import (
	"strconv"

	"dashboard/internal/models"

	"github.com/shopspring/decimal"
)

// Period is an inclusive range of calendar days.
type Period struct {
	From models.Date
	To   models.Date
}

// Days returns the number of calendar days in p, bounds included.
func (p Period) Days() int {
	return p.From.DaysUntil(p.To) + 1
}

func (p Period) Contains(d models.Date) bool {
	return !d.Before(p.From) && !d.After(p.To)
}

// PreviousPeriod returns the period of equal length ending the day before p starts.
func PreviousPeriod(p Period) Period {
	prevEnd := p.From.AddDays(-1)
	return Period{From: prevEnd.AddDays(-(p.Days() - 1)), To: prevEnd}
}

// Compare computes the signed difference between current and previous.
// Percent is left nil when previous is zero.
func Compare(current, previous int64) models.Delta {
	value := current - previous
	delta := models.Delta{
		Current:  current,
		Previous: previous,
		Value:    value,
		Display:  FormatDelta(value),
		Trend:    TrendOf(value),
	}

	if previous != 0 {
		percent := decimal.NewFromInt(value).
			Div(decimal.NewFromInt(previous)).
			Mul(decimal.NewFromInt(100)).
			Round(1).
			InexactFloat64()
		delta.Percent = &percent
	}
	return delta
}

// FormatDelta prefixes positive values with "+". Zero and negative values
// are rendered as plain integers.
func FormatDelta(value int64) string {
	if value > 0 {
		return "+" + strconv.FormatInt(value, 10)
	}
	return strconv.FormatInt(value, 10)
}

func TrendOf(value int64) models.Trend {
	switch {
	case value > 0:
		return models.TrendUp
	case value < 0:
		return models.TrendDown
	default:
		return models.TrendNeutral
	}
}

// SumDaily totals file and batch counts of the stats falling inside p.
func SumDaily(stats []models.DailyStat, p Period) (files int64, batches int64) {
	for _, stat := range stats {
		if p.Contains(stat.Date) {
			files += stat.FileCount
			batches += stat.BatchCount
		}
	}
	return files, batches
}

// SumLogins totals the logins falling inside p.
func SumLogins(stats []models.LoginStat, p Period) int64 {
	var total int64
	for _, stat := range stats {
		if p.Contains(stat.Date) {
			total += stat.TotalLogins
		}
	}
	return total
}

// CompareDaily compares the current period against the one preceding it.
// stats must cover both periods.
func CompareDaily(stats []models.DailyStat, current Period, label string) models.Comparison {
	previous := PreviousPeriod(current)
	curFiles, curBatches := SumDaily(stats, current)
	prevFiles, prevBatches := SumDaily(stats, previous)
	return models.Comparison{
		Files:   Compare(curFiles, prevFiles),
		Batches: Compare(curBatches, prevBatches),
		Label:   label,
	}
}

func CompareLogins(stats []models.LoginStat, current Period, label string) models.LoginComparison {
	previous := PreviousPeriod(current)
	return models.LoginComparison{
		Logins: Compare(SumLogins(stats, current), SumLogins(stats, previous)),
		Label:  label,
	}
}
