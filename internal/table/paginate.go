package table

import (
	"slices"

	"dashboard/internal/models"
)

const DefaultPageSize = 10

// Paginate slices items into the page at pageIndex. The index is clamped
// into the valid range so out-of-range requests return the nearest page.
func Paginate[T any](items []T, pageIndex, pageSize int) models.Page[T] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := len(items)
	totalPages := (total + pageSize - 1) / pageSize
	pageIndex = max(0, min(pageIndex, totalPages-1))

	start := min(pageIndex*pageSize, total)
	end := min(start+pageSize, total)

	page := slices.Clone(items[start:end])
	if page == nil {
		page = []T{}
	}

	return models.Page[T]{
		Items:      page,
		PageIndex:  pageIndex,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
