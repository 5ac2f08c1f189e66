package models

type Error struct {
	Status int      `json:"status"`
	Error  []string `json:"error"`
}

// Page is the response envelope of every paginated table.
type Page[T any] struct {
	Items      []T `json:"items"`
	PageIndex  int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}
