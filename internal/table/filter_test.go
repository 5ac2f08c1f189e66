package table

import (
	"testing"
	"time"

	"dashboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userRow struct {
	ID         int
	Nominativo string
	Email      string
	Active     *bool
	SentAt     time.Time
	Viewers    []int64
	Amount     any
	Category   any
}

func boolPtr(b bool) *bool { return &b }

func sampleUsers() []userRow {
	return []userRow{
		{ID: 1, Nominativo: "acme corp", Email: "info@acme.it", Active: boolPtr(true), Viewers: []int64{1, 2}, Amount: 10.5, Category: "a"},
		{ID: 2, Nominativo: "Beta Srl", Email: "", Active: boolPtr(false), Viewers: []int64{3}, Amount: "7", Category: nil},
		{ID: 3, Nominativo: "", Email: "gamma@example.com", Active: nil, Viewers: nil, Amount: nil, Category: "b"},
	}
}

func userIDs(rows []userRow) []int {
	out := make([]int, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

func active(u userRow) any { return u.Active }

func TestAllAndFilter(t *testing.T) {
	t.Run("should accept everything without predicates", func(t *testing.T) {
		assert.Equal(t, []int{1, 2, 3}, userIDs(Filter(sampleUsers(), All[userRow]())))
	})

	t.Run("should never grow the result when a filter is added", func(t *testing.T) {
		rows := sampleUsers()
		predicates := []Predicate[userRow]{
			BooleanFilter(active, []string{TagTrue, TagFalse}),
			TextContainsFilter(func(u userRow) string { return u.Nominativo }, "a"),
			ViewerMembershipFilter(func(u userRow) []int64 { return u.Viewers }, []int64{1}),
		}

		previous := len(rows)
		for i := range predicates {
			size := len(Filter(rows, All(predicates[:i+1]...)))
			assert.LessOrEqual(t, size, previous)
			previous = size
		}
		assert.Equal(t, 1, previous)
	})

	t.Run("should not mutate the input", func(t *testing.T) {
		rows := sampleUsers()

		filtered := Filter(rows, BooleanFilter(active, []string{TagNull}))

		require.Len(t, filtered, 1)
		assert.Len(t, rows, 3)
		assert.Equal(t, 1, rows[0].ID)
	})
}

func TestBooleanFilter(t *testing.T) {
	rows := sampleUsers()

	t.Run("should pass everything for an empty or complete selection", func(t *testing.T) {
		assert.Len(t, Filter(rows, BooleanFilter(active, nil)), 3)
		assert.Len(t, Filter(rows, BooleanFilter(active, []string{TagNull, TagTrue, TagFalse})), 3)
	})

	t.Run("should keep only the selected tags", func(t *testing.T) {
		assert.Equal(t, []int{1}, userIDs(Filter(rows, BooleanFilter(active, []string{TagTrue}))))
		assert.Equal(t, []int{2, 3}, userIDs(Filter(rows, BooleanFilter(active, []string{TagFalse, TagNull}))))
	})
}

func TestNormalizeBool(t *testing.T) {
	assert.Equal(t, TagTrue, NormalizeBool(true))
	assert.Equal(t, TagFalse, NormalizeBool(false))
	assert.Equal(t, TagTrue, NormalizeBool("TRUE"))
	assert.Equal(t, TagFalse, NormalizeBool(boolPtr(false)))
	assert.Equal(t, TagNull, NormalizeBool(nil))
	assert.Equal(t, TagNull, NormalizeBool((*bool)(nil)))
	assert.Equal(t, TagNull, NormalizeBool(0.0))
	assert.Equal(t, TagNull, NormalizeBool(""))
}

func TestActiveStatusFilter(t *testing.T) {
	rows := []userRow{{ID: 1, Active: boolPtr(true)}, {ID: 2, Active: boolPtr(false)}}
	isActive := func(u userRow) bool { return u.Active != nil && *u.Active }

	assert.Len(t, Filter(rows, ActiveStatusFilter(isActive, nil)), 2)
	assert.Len(t, Filter(rows, ActiveStatusFilter(isActive, []string{TagTrue, TagFalse, TagNull})), 2)
	assert.Equal(t, []int{2}, userIDs(Filter(rows, ActiveStatusFilter(isActive, []string{TagFalse}))))
}

func TestEnumFilter(t *testing.T) {
	rows := sampleUsers()
	category := func(u userRow) any { return u.Category }

	assert.Len(t, Filter(rows, EnumFilter(category, nil)), 3)
	assert.Equal(t, []int{1, 3}, userIDs(Filter(rows, EnumFilter(category, []string{"a", "b"}))))
	assert.Equal(t, []int{2}, userIDs(Filter(rows, EnumFilter(category, []string{TagNull}))))
}

func TestNumberEqualsFilter(t *testing.T) {
	rows := sampleUsers()
	amount := func(u userRow) any { return u.Amount }

	t.Run("should compare numbers and numeric strings exactly", func(t *testing.T) {
		assert.Equal(t, []int{1}, userIDs(Filter(rows, NumberEqualsFilter(amount, "10.50"))))
		assert.Equal(t, []int{2}, userIDs(Filter(rows, NumberEqualsFilter(amount, "7"))))
	})

	t.Run("should pass everything for a non-numeric filter", func(t *testing.T) {
		assert.Len(t, Filter(rows, NumberEqualsFilter(amount, "abc")), 3)
		assert.Len(t, Filter(rows, NumberEqualsFilter(amount, "")), 3)
	})
}

func TestDateFilters(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)

	rows := []userRow{
		{ID: 1, SentAt: time.Date(2025, time.January, 10, 0, 0, 0, 0, rome)},
		{ID: 2, SentAt: time.Date(2025, time.January, 31, 23, 59, 59, 0, rome)},
		{ID: 3, SentAt: time.Date(2025, time.February, 1, 0, 0, 0, 0, rome)},
		{ID: 4},
	}
	sentAt := func(u userRow) (time.Time, bool) { return u.SentAt, !u.SentAt.IsZero() }
	jan10 := models.DateOf(2025, time.January, 10)
	jan31 := models.DateOf(2025, time.January, 31)

	t.Run("should include a record at any time of the upper bound day", func(t *testing.T) {
		filtered := Filter(rows, DateRangeFilter(sentAt, jan10, jan31, rome))

		assert.Equal(t, []int{1, 2}, userIDs(filtered))
	})

	t.Run("should support one-sided ranges", func(t *testing.T) {
		assert.Equal(t, []int{2, 3}, userIDs(Filter(rows, DateRangeFilter(sentAt, jan31, models.Date{}, rome))))
		assert.Equal(t, []int{1}, userIDs(Filter(rows, DateRangeFilter(sentAt, models.Date{}, jan10, rome))))
	})

	t.Run("should pass everything without bounds", func(t *testing.T) {
		assert.Len(t, Filter(rows, DateRangeFilter(sentAt, models.Date{}, models.Date{}, rome)), 4)
	})

	t.Run("should compare calendar days for equality", func(t *testing.T) {
		assert.Equal(t, []int{2}, userIDs(Filter(rows, DateEqualsFilter(sentAt, jan31, rome))))
	})

	t.Run("should read the calendar day in the configured location", func(t *testing.T) {
		late := []userRow{{ID: 1, SentAt: time.Date(2025, time.January, 30, 23, 30, 0, 0, time.UTC)}}

		assert.Len(t, Filter(late, DateEqualsFilter(sentAt, jan31, rome)), 1)
		assert.Empty(t, Filter(late, DateEqualsFilter(sentAt, jan31, time.UTC)))
	})
}

func TestTextContainsFilter(t *testing.T) {
	rows := sampleUsers()
	nominativo := func(u userRow) string { return u.Nominativo }

	t.Run("should match case-insensitively", func(t *testing.T) {
		assert.Equal(t, []int{1}, userIDs(Filter(rows, TextContainsFilter(nominativo, "ACME"))))
	})

	t.Run("should fail records without a value", func(t *testing.T) {
		filtered := Filter(rows, TextContainsFilter(nominativo, "a"))

		assert.NotContains(t, userIDs(filtered), 3)
	})

	t.Run("should pass everything for an empty needle", func(t *testing.T) {
		assert.Len(t, Filter(rows, TextContainsFilter(nominativo, "  ")), 3)
	})
}

func TestViewerMembershipFilter(t *testing.T) {
	rows := sampleUsers()
	viewers := func(u userRow) []int64 { return u.Viewers }

	assert.Len(t, Filter(rows, ViewerMembershipFilter(viewers, nil)), 3)
	assert.Equal(t, []int{1, 2}, userIDs(Filter(rows, ViewerMembershipFilter(viewers, []int64{2, 3}))))
	assert.Empty(t, Filter(rows, ViewerMembershipFilter(viewers, []int64{99})))
}

func TestGlobalTextFilter(t *testing.T) {
	rows := sampleUsers()
	fields := func(u userRow) []string { return []string{u.Nominativo, u.Email} }

	assert.Equal(t, []int{3}, userIDs(Filter(rows, GlobalTextFilter(fields, "EXAMPLE.com"))))
	assert.Equal(t, []int{1, 2}, userIDs(Filter(rows, GlobalTextFilter(fields, "r"))))
	assert.Len(t, Filter(rows, GlobalTextFilter(fields, "")), 3)
}
