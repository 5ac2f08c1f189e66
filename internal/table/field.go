package table

import (
	"cmp"
	"strings"
	"time"

	"dashboard/internal/models"
)

// FieldKeyPrefix marks sort keys and filters addressing a document-class field.
const FieldKeyPrefix = "field."

// DateRangeSeparator splits "from..to" date filters. Either side may be empty.
const DateRangeSeparator = ".."

// FieldFilter builds the predicate of one dynamic field column, dispatching
// on the field's strategy. values returns the record's field values keyed by nome.
func FieldFilter[T any](field models.DocumentClassField, values func(T) map[string]any, raw []string, loc *time.Location) (Predicate[T], error) {
	get := func(record T) any { return values(record)[field.Nome] }

	switch field.Tipo.Strategy() {
	case models.StrategyBoolean:
		return BooleanFilter(get, raw), nil
	case models.StrategyEnum:
		return EnumFilter(get, raw), nil
	case models.StrategyNumber:
		return NumberEqualsFilter(get, firstValue(raw)), nil
	case models.StrategyDate:
		return dateFieldFilter(get, firstValue(raw), loc)
	case models.StrategyText:
		return TextContainsFilter(func(record T) string { return FormatValue(get(record)) }, firstValue(raw)), nil
	}
	return nil, ErrInvalidFilter
}

func firstValue(raw []string) string {
	for _, value := range raw {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

// dateFieldFilter reads "yyyy-MM-dd" as a day and "from..to" as an inclusive range.
func dateFieldFilter[T any](get func(T) any, raw string, loc *time.Location) (Predicate[T], error) {
	if raw == "" {
		return nil, nil
	}
	getTime := func(record T) (time.Time, bool) { return AsTime(get(record), loc) }

	if !strings.Contains(raw, DateRangeSeparator) {
		day, err := models.ParseDate(raw)
		if err != nil {
			return nil, ErrInvalidFilter
		}
		return DateEqualsFilter(getTime, day, loc), nil
	}

	from, to, err := ParseDateRange(raw)
	if err != nil {
		return nil, err
	}
	return DateRangeFilter(getTime, from, to, loc), nil
}

// ParseDateRange parses "from..to" where either bound may be omitted.
func ParseDateRange(raw string) (models.Date, models.Date, error) {
	left, right, _ := strings.Cut(raw, DateRangeSeparator)

	var from, to models.Date
	var err error
	if strings.TrimSpace(left) != "" {
		if from, err = models.ParseDate(left); err != nil {
			return models.Date{}, models.Date{}, ErrInvalidFilter
		}
	}
	if strings.TrimSpace(right) != "" {
		if to, err = models.ParseDate(right); err != nil {
			return models.Date{}, models.Date{}, ErrInvalidFilter
		}
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return models.Date{}, models.Date{}, ErrInvalidFilter
	}
	return from, to, nil
}

// FieldComparator orders records by one dynamic field using its strategy.
// Records missing the value sort after the others in ascending order.
func FieldComparator[T any](field models.DocumentClassField, values func(T) map[string]any, locale string, loc *time.Location) Comparator[T] {
	get := func(record T) any { return values(record)[field.Nome] }

	switch field.Tipo.Strategy() {
	case models.StrategyNumber:
		return missingLast(func(record T) (float64, bool) { return AsFloat(get(record)) }, cmp.Compare[float64])
	case models.StrategyDate:
		return missingLast(func(record T) (int64, bool) {
			t, ok := AsTime(get(record), loc)
			return t.UnixMilli(), ok
		}, cmp.Compare[int64])
	case models.StrategyBoolean:
		return missingLast(func(record T) (int, bool) {
			switch NormalizeBool(get(record)) {
			case TagTrue:
				return 1, true
			case TagFalse:
				return 0, true
			}
			return 0, false
		}, cmp.Compare[int])
	default:
		text := StringKey(func(record T) string { return FormatValue(get(record)) }, locale)
		return func(a, b T) int {
			aMissing, bMissing := FormatValue(get(a)) == "", FormatValue(get(b)) == ""
			switch {
			case aMissing && bMissing:
				return 0
			case aMissing:
				return 1
			case bMissing:
				return -1
			}
			return text(a, b)
		}
	}
}

func missingLast[T any, K any](key func(T) (K, bool), compare func(a, b K) int) Comparator[T] {
	return func(a, b T) int {
		ka, okA := key(a)
		kb, okB := key(b)
		switch {
		case !okA && !okB:
			return 0
		case !okA:
			return 1
		case !okB:
			return -1
		}
		return compare(ka, kb)
	}
}

// FieldByKey finds the field addressed by a "field.<nome>" key.
func FieldByKey(fields []models.DocumentClassField, key string) (models.DocumentClassField, bool) {
	nome, ok := strings.CutPrefix(key, FieldKeyPrefix)
	if !ok {
		return models.DocumentClassField{}, false
	}
	for _, field := range fields {
		if field.Nome == nome {
			return field, true
		}
	}
	return models.DocumentClassField{}, false
}
