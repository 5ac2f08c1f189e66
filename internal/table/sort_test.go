package table

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fileRow struct {
	ID      int
	Name    string
	Size    int64
	Created time.Time
}

func fileSorter() *Sorter[fileRow] {
	return NewSorter[fileRow]().
		Text("name", func(f fileRow) string { return f.Name }).
		Number("size", func(f fileRow) float64 { return float64(f.Size) }).
		Date("date", func(f fileRow) time.Time { return f.Created })
}

func ids(rows []fileRow) []int {
	out := make([]int, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ID)
	}
	return out
}

var base = time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)

func sampleFiles() []fileRow {
	return []fileRow{
		{ID: 1, Name: "zeta.pdf", Size: 300, Created: base.Add(2 * time.Hour)},
		{ID: 2, Name: "Alpha.pdf", Size: 100, Created: base},
		{ID: 3, Name: "beta.pdf", Size: 200, Created: base.Add(time.Hour)},
		{ID: 4, Name: "èlite.pdf", Size: 250, Created: base.Add(3 * time.Hour)},
	}
}

func TestSort(t *testing.T) {
	t.Run("should not mutate the input", func(t *testing.T) {
		rows := sampleFiles()
		original := slices.Clone(rows)

		_ = Sort(rows, NumberKey(func(f fileRow) int64 { return f.Size }), Ascending)

		assert.Equal(t, original, rows)
	})

	t.Run("should sort numbers in both directions", func(t *testing.T) {
		key := NumberKey(func(f fileRow) int64 { return f.Size })

		assert.Equal(t, []int{2, 3, 4, 1}, ids(Sort(sampleFiles(), key, Ascending)))
		assert.Equal(t, []int{1, 4, 3, 2}, ids(Sort(sampleFiles(), key, Descending)))
	})

	t.Run("should sort dates by epoch milliseconds", func(t *testing.T) {
		key := DateKey(func(f fileRow) time.Time { return f.Created })

		assert.Equal(t, []int{2, 3, 1, 4}, ids(Sort(sampleFiles(), key, Ascending)))
	})

	t.Run("should compare strings with locale rules", func(t *testing.T) {
		key := StringKey(func(f fileRow) string { return f.Name }, "it")

		assert.Equal(t, []int{2, 3, 4, 1}, ids(Sort(sampleFiles(), key, Ascending)))
	})

	t.Run("should keep insertion order of equal keys in both directions", func(t *testing.T) {
		rows := []fileRow{
			{ID: 1, Size: 10},
			{ID: 2, Size: 5},
			{ID: 3, Size: 10},
			{ID: 4, Size: 5},
		}
		key := NumberKey(func(f fileRow) int64 { return f.Size })

		assert.Equal(t, []int{2, 4, 1, 3}, ids(Sort(rows, key, Ascending)))
		assert.Equal(t, []int{1, 3, 2, 4}, ids(Sort(rows, key, Descending)))
	})

	t.Run("should be idempotent", func(t *testing.T) {
		key := StringKey(func(f fileRow) string { return f.Name }, "it")

		once := Sort(sampleFiles(), key, Ascending)
		twice := Sort(once, key, Ascending)

		assert.Equal(t, once, twice)
	})

	t.Run("should reverse a strictly ordered input when the direction flips", func(t *testing.T) {
		key := NumberKey(func(f fileRow) int64 { return f.Size })

		asc := Sort(sampleFiles(), key, Ascending)
		desc := Sort(sampleFiles(), key, Descending)

		reversed := slices.Clone(asc)
		slices.Reverse(reversed)
		assert.Equal(t, reversed, desc)
	})

	t.Run("should return a copy when no comparator is given", func(t *testing.T) {
		rows := sampleFiles()

		sorted := Sort(rows, nil, Ascending)

		assert.Equal(t, rows, sorted)
	})
}

func TestParseSort(t *testing.T) {
	t.Run("should split key and direction", func(t *testing.T) {
		key, dir, err := ParseSort("created_at_desc")

		require.NoError(t, err)
		assert.Equal(t, "created_at", key)
		assert.Equal(t, Descending, dir)
	})

	t.Run("should accept field keys", func(t *testing.T) {
		key, dir, err := ParseSort("field.importo_asc")

		require.NoError(t, err)
		assert.Equal(t, "field.importo", key)
		assert.Equal(t, Ascending, dir)
	})

	for _, param := range []string{"name", "name_", "_asc", "name_up"} {
		t.Run("should reject "+param, func(t *testing.T) {
			_, _, err := ParseSort(param)

			assert.ErrorIs(t, err, ErrInvalidSort)
		})
	}
}

func TestSorterApply(t *testing.T) {
	sorter := fileSorter()

	t.Run("should sort by a registered key", func(t *testing.T) {
		sorted, err := sorter.Apply(sampleFiles(), "size_desc", "it")

		require.NoError(t, err)
		assert.Equal(t, []int{1, 4, 3, 2}, ids(sorted))
	})

	t.Run("should keep the input order without a sort parameter", func(t *testing.T) {
		sorted, err := sorter.Apply(sampleFiles(), "", "it")

		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4}, ids(sorted))
	})

	t.Run("should reject unknown keys", func(t *testing.T) {
		_, err := sorter.Apply(sampleFiles(), "owner_asc", "it")

		assert.ErrorIs(t, err, ErrInvalidSort)
	})

	t.Run("should resolve dynamic keys", func(t *testing.T) {
		dynamic := fileSorter().Dynamic(func(key string, _ string) (Comparator[fileRow], bool) {
			if key != "field.id" {
				return nil, false
			}
			return NumberKey(func(f fileRow) int { return f.ID }), true
		})

		sorted, err := dynamic.Apply(sampleFiles(), "field.id_desc", "it")

		require.NoError(t, err)
		assert.Equal(t, []int{4, 3, 2, 1}, ids(sorted))

		_, err = dynamic.Apply(sampleFiles(), "field.other_desc", "it")
		assert.ErrorIs(t, err, ErrInvalidSort)
	})

	t.Run("should list registered keys", func(t *testing.T) {
		assert.Equal(t, []string{"date", "name", "size"}, sorter.Keys())
	})
}
