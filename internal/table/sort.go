package table

import (
	"cmp"
	"slices"
	"strings"
	"time"

	apierrors "dashboard/internal/errors"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

var ErrInvalidSort = apierrors.NewAPIError(400, apierrors.ErrCodeInvalidSort)

// Comparator orders two records. It returns a negative number when a sorts before b.
type Comparator[T any] func(a, b T) int

// Sort returns a sorted copy of records. The sort is stable in both
// directions: descending swaps the comparator arguments instead of
// reversing the result, so records with equal keys keep their input order.
func Sort[T any](records []T, compare Comparator[T], direction Direction) []T {
	sorted := slices.Clone(records)
	if compare == nil {
		return sorted
	}
	if direction == Descending {
		slices.SortStableFunc(sorted, func(a, b T) int { return compare(b, a) })
		return sorted
	}
	slices.SortStableFunc(sorted, compare)
	return sorted
}

// StringKey compares strings with the collation rules of locale.
func StringKey[T any](get func(T) string, locale string) Comparator[T] {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.Italian
	}
	collator := collate.New(tag)
	return func(a, b T) int {
		return collator.CompareString(get(a), get(b))
	}
}

func NumberKey[T any, N cmp.Ordered](get func(T) N) Comparator[T] {
	return func(a, b T) int {
		return cmp.Compare(get(a), get(b))
	}
}

// DateKey compares timestamps at millisecond precision.
func DateKey[T any](get func(T) time.Time) Comparator[T] {
	return func(a, b T) int {
		return cmp.Compare(get(a).UnixMilli(), get(b).UnixMilli())
	}
}

// ParseSort splits a "<key>_<asc|desc>" sort parameter.
func ParseSort(param string) (string, Direction, error) {
	idx := strings.LastIndex(param, "_")
	if idx <= 0 || idx == len(param)-1 {
		return "", Ascending, ErrInvalidSort
	}

	key, suffix := param[:idx], param[idx+1:]
	switch suffix {
	case "asc":
		return key, Ascending, nil
	case "desc":
		return key, Descending, nil
	}
	return "", Ascending, ErrInvalidSort
}

type comparatorFactory[T any] func(locale string) Comparator[T]

// Sorter is the registry of sortable columns of one table.
type Sorter[T any] struct {
	keys    map[string]comparatorFactory[T]
	dynamic func(key string, locale string) (Comparator[T], bool)
}

func NewSorter[T any]() *Sorter[T] {
	return &Sorter[T]{keys: make(map[string]comparatorFactory[T])}
}

func (s *Sorter[T]) Text(name string, get func(T) string) *Sorter[T] {
	s.keys[name] = func(locale string) Comparator[T] { return StringKey(get, locale) }
	return s
}

func (s *Sorter[T]) Number(name string, get func(T) float64) *Sorter[T] {
	s.keys[name] = func(string) Comparator[T] { return NumberKey(get) }
	return s
}

func (s *Sorter[T]) Date(name string, get func(T) time.Time) *Sorter[T] {
	s.keys[name] = func(string) Comparator[T] { return DateKey(get) }
	return s
}

// Dynamic resolves keys that are not registered up front, such as
// per-document-class field columns.
func (s *Sorter[T]) Dynamic(resolve func(key string, locale string) (Comparator[T], bool)) *Sorter[T] {
	s.dynamic = resolve
	return s
}

func (s *Sorter[T]) Keys() []string {
	keys := make([]string, 0, len(s.keys))
	for key := range s.keys {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

func (s *Sorter[T]) comparator(key string, locale string) (Comparator[T], bool) {
	if factory, ok := s.keys[key]; ok {
		return factory(locale), true
	}
	if s.dynamic != nil {
		return s.dynamic(key, locale)
	}
	return nil, false
}

// Apply sorts a copy of records by the sort parameter. An empty parameter
// keeps the input order.
func (s *Sorter[T]) Apply(records []T, param string, locale string) ([]T, error) {
	if param == "" {
		return slices.Clone(records), nil
	}

	key, direction, err := ParseSort(param)
	if err != nil {
		return nil, err
	}

	compare, ok := s.comparator(key, locale)
	if !ok {
		return nil, ErrInvalidSort
	}
	return Sort(records, compare, direction), nil
}
