// Package pagination windows item slices for list endpoints. The result
// splits into the item window and a paginator descriptor that response
// builders attach as separate envelope fields.
package pagination

// DefaultPerPage is used when the requested page size is not positive.
const DefaultPerPage = 25

// Paginator describes the window position within the full item set.
type Paginator struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

// Page is one window of items plus its paginator.
type Page[T any] struct {
	Items     []T       `json:"items"`
	Paginator Paginator `json:"paginator"`
}

// Paginate returns the requested page of items. Pages are 1-based; a page
// past the end clamps to the last page, and a page below 1 clamps to the
// first. A non-positive perPage falls back to DefaultPerPage.
func Paginate[T any](items []T, page, perPage int) Page[T] {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	total := len(items)
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}
	if page < 1 {
		page = 1
	}
	if page > lastPage {
		page = lastPage
	}

	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	window := items[start:end]
	if window == nil {
		window = []T{}
	}
	return Page[T]{
		Items: window,
		Paginator: Paginator{
			CurrentPage: page,
			LastPage:    lastPage,
			PerPage:     perPage,
			Total:       total,
		},
	}
}
