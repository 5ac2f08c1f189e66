package aggregate

import (
	apierrors "dashboard/internal/errors"
	"dashboard/internal/models"
)

type Preset string

const (
	PresetLast7Days    Preset = "last7days"
	PresetLast30Days   Preset = "last30days"
	PresetLast3Months  Preset = "last3months"
	PresetLast6Months  Preset = "last6months"
	PresetLast12Months Preset = "last12months"
	PresetTotal        Preset = "total"
	PresetCustom       Preset = "custom"
)

// DefaultPreset is used when a dashboard is requested without one.
const DefaultPreset = PresetLast30Days

// TotalComparisonDays is the window the backend reports in its *_last_30_days totals.
const TotalComparisonDays = 30

var (
	ErrInvalidPreset    = apierrors.NewAPIError(400, apierrors.ErrCodeInvalidPreset)
	ErrInvalidDateRange = apierrors.NewAPIError(400, apierrors.ErrCodeInvalidDateRange)
)

func ParsePreset(value string) (Preset, error) {
	switch p := Preset(value); p {
	case "":
		return DefaultPreset, nil
	case PresetLast7Days, PresetLast30Days, PresetLast3Months, PresetLast6Months,
		PresetLast12Months, PresetTotal, PresetCustom:
		return p, nil
	}
	return "", ErrInvalidPreset
}

// Range is a resolved preset. Period is nil for the total preset, which has
// no explicit bounds.
type Range struct {
	Preset Preset
	Period *Period
}

func (r Range) IsTotal() bool {
	return r.Period == nil
}

// DashboardPeriod renders r for API responses.
func (r Range) DashboardPeriod() models.DashboardPeriod {
	out := models.DashboardPeriod{Preset: string(r.Preset)}
	if r.Period != nil {
		from, to := r.Period.From, r.Period.To
		out.From = &from
		out.To = &to
		out.Days = r.Period.Days()
	}
	return out
}

// ResolvePreset turns a preset into the current period relative to today.
// from and to are only read for the custom preset and must satisfy from <= to.
func ResolvePreset(preset Preset, from, to string, today models.Date) (Range, error) {
	lastDays := func(n int) Range {
		return Range{Preset: preset, Period: &Period{From: today.AddDays(-(n - 1)), To: today}}
	}
	lastMonths := func(n int) Range {
		start := models.NewDate(today.AddDate(0, -n, 0)).AddDays(1)
		return Range{Preset: preset, Period: &Period{From: start, To: today}}
	}

	switch preset {
	case PresetLast7Days:
		return lastDays(7), nil
	case PresetLast30Days:
		return lastDays(30), nil
	case PresetLast3Months:
		return lastMonths(3), nil
	case PresetLast6Months:
		return lastMonths(6), nil
	case PresetLast12Months:
		return lastMonths(12), nil
	case PresetTotal:
		return Range{Preset: preset}, nil
	case PresetCustom:
		if from == "" || to == "" {
			return Range{}, ErrInvalidDateRange
		}
		start, err := models.ParseDate(from)
		if err != nil {
			return Range{}, ErrInvalidDateRange
		}
		end, err := models.ParseDate(to)
		if err != nil {
			return Range{}, ErrInvalidDateRange
		}
		if end.Before(start) {
			return Range{}, ErrInvalidDateRange
		}
		return Range{Preset: preset, Period: &Period{From: start, To: end}}, nil
	}
	return Range{}, ErrInvalidPreset
}

// TotalComparisonPeriod is the window the total preset compares, ending today.
func TotalComparisonPeriod(today models.Date) Period {
	return Period{From: today.AddDays(-(TotalComparisonDays - 1)), To: today}
}

var comparisonLabels = map[string]map[Preset]string{
	"it": {
		PresetLast7Days:    "rispetto ai 7 giorni precedenti",
		PresetLast30Days:   "rispetto ai 30 giorni precedenti",
		PresetLast3Months:  "rispetto ai 3 mesi precedenti",
		PresetLast6Months:  "rispetto ai 6 mesi precedenti",
		PresetLast12Months: "rispetto ai 12 mesi precedenti",
		PresetTotal:        "ultimi 30 giorni rispetto ai 30 precedenti",
		PresetCustom:       "rispetto al periodo precedente",
	},
	"en": {
		PresetLast7Days:    "vs previous 7 days",
		PresetLast30Days:   "vs previous 30 days",
		PresetLast3Months:  "vs previous 3 months",
		PresetLast6Months:  "vs previous 6 months",
		PresetLast12Months: "vs previous 12 months",
		PresetTotal:        "last 30 days vs previous 30 days",
		PresetCustom:       "vs previous period",
	},
}

// ComparisonLabel is the caption shown next to a comparison.
func ComparisonLabel(preset Preset, locale string) string {
	labels, ok := comparisonLabels[locale]
	if !ok {
		labels = comparisonLabels[DefaultLocale]
	}
	if label, ok := labels[preset]; ok {
		return label
	}
	return string(preset)
}
