package table

import (
	"slices"
	"strconv"
	"strings"
	"time"

	apierrors "dashboard/internal/errors"
	"dashboard/internal/models"

	"golang.org/x/text/cases"
)

var ErrInvalidFilter = apierrors.NewAPIError(400, apierrors.ErrCodeInvalidFilter)

// Predicate decides whether a record is part of the filtered view.
// A nil Predicate accepts every record.
type Predicate[T any] func(T) bool

// All combines predicates with logical AND. Nil predicates are skipped.
func All[T any](predicates ...Predicate[T]) Predicate[T] {
	active := slices.DeleteFunc(slices.Clone(predicates), func(p Predicate[T]) bool { return p == nil })
	if len(active) == 0 {
		return nil
	}
	return func(record T) bool {
		for _, p := range active {
			if !p(record) {
				return false
			}
		}
		return true
	}
}

// Filter returns the records accepted by predicate in a new slice.
func Filter[T any](records []T, predicate Predicate[T]) []T {
	out := make([]T, 0, len(records))
	for _, record := range records {
		if predicate == nil || predicate(record) {
			out = append(out, record)
		}
	}
	return out
}

// Tri-state tags of boolean filters.
const (
	TagTrue  = "true"
	TagFalse = "false"
	TagNull  = "null"
)

// NormalizeBool maps a raw value to its tri-state tag. Only booleans and the
// strings "true"/"false" are booleans: 0, 1, empty strings and nil are all "null".
func NormalizeBool(value any) string {
	switch v := value.(type) {
	case bool:
		if v {
			return TagTrue
		}
		return TagFalse
	case *bool:
		if v == nil {
			return TagNull
		}
		return NormalizeBool(*v)
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case TagTrue:
			return TagTrue
		case TagFalse:
			return TagFalse
		}
	}
	return TagNull
}

// BooleanFilter keeps records whose tri-state value is in allowed. An empty
// set, or one holding all three tags, filters nothing.
func BooleanFilter[T any](get func(T) any, allowed []string) Predicate[T] {
	if len(allowed) == 0 {
		return nil
	}
	if slices.Contains(allowed, TagTrue) && slices.Contains(allowed, TagFalse) && slices.Contains(allowed, TagNull) {
		return nil
	}
	return func(record T) bool {
		return slices.Contains(allowed, NormalizeBool(get(record)))
	}
}

// ActiveStatusFilter filters a derived active flag. Like BooleanFilter, an
// empty or complete selection shows every record.
func ActiveStatusFilter[T any](active func(T) bool, allowed []string) Predicate[T] {
	return BooleanFilter(func(record T) any { return active(record) }, allowed)
}

// EnumFilter keeps records whose value is in allowed; missing values match "null".
func EnumFilter[T any](get func(T) any, allowed []string) Predicate[T] {
	if len(allowed) == 0 {
		return nil
	}
	return func(record T) bool {
		value := FormatValue(get(record))
		if value == "" {
			value = TagNull
		}
		return slices.Contains(allowed, value)
	}
}

// NumberEqualsFilter keeps records whose numeric value equals raw exactly,
// after both sides are parsed as IEEE-754 doubles. A non-numeric raw value
// filters nothing.
func NumberEqualsFilter[T any](get func(T) any, raw string) Predicate[T] {
	target, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil
	}
	return func(record T) bool {
		value, ok := AsFloat(get(record))
		return ok && value == target
	}
}

// DateEqualsFilter keeps records falling on day, as seen in loc.
func DateEqualsFilter[T any](get func(T) (time.Time, bool), day models.Date, loc *time.Location) Predicate[T] {
	if day.IsZero() {
		return nil
	}
	return func(record T) bool {
		value, ok := get(record)
		return ok && models.NewDate(value.In(loc)).Equal(day)
	}
}

// endOfDay is the last millisecond of d in loc.
func endOfDay(d models.Date, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
}

func startOfDay(d models.Date, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}

// DateRangeFilter keeps records between from and to, both inclusive. Either
// bound may be zero for a one-sided range. The upper bound covers the whole
// of its day.
func DateRangeFilter[T any](get func(T) (time.Time, bool), from, to models.Date, loc *time.Location) Predicate[T] {
	if from.IsZero() && to.IsZero() {
		return nil
	}
	return func(record T) bool {
		value, ok := get(record)
		if !ok {
			return false
		}
		if !from.IsZero() && value.Before(startOfDay(from, loc)) {
			return false
		}
		if !to.IsZero() && value.After(endOfDay(to, loc)) {
			return false
		}
		return true
	}
}

// TextContainsFilter is a case-insensitive substring match. Records with an
// empty value never match.
func TextContainsFilter[T any](get func(T) string, needle string) Predicate[T] {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return nil
	}
	folder := cases.Fold()
	folded := folder.String(needle)
	return func(record T) bool {
		value := get(record)
		if value == "" {
			return false
		}
		return strings.Contains(folder.String(value), folded)
	}
}

// ViewerMembershipFilter keeps records shared with at least one of the selected viewers.
func ViewerMembershipFilter[T any](viewers func(T) []int64, selected []int64) Predicate[T] {
	if len(selected) == 0 {
		return nil
	}
	return func(record T) bool {
		for _, id := range viewers(record) {
			if slices.Contains(selected, id) {
				return true
			}
		}
		return false
	}
}

// GlobalTextFilter matches needle against every searchable field of a record.
func GlobalTextFilter[T any](fields func(T) []string, needle string) Predicate[T] {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return nil
	}
	folder := cases.Fold()
	folded := folder.String(needle)
	return func(record T) bool {
		for _, value := range fields(record) {
			if value != "" && strings.Contains(folder.String(value), folded) {
				return true
			}
		}
		return false
	}
}
