package gallery

// Page is one slice of a paginated list.
type Page[T any] struct {
	Items     []T
	Page      int // effective page, 0-based
	PageCount int
	Total     int
}

// PageCount returns ceil(total/pageSize), or 0 for an empty list.
func PageCount(total, pageSize int) int {
	if total <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Paginate returns page requested of items. A requested page outside
// [0, PageCount) falls back to page 0. pageSize must be positive.
func Paginate[T any](items []T, pageSize, requested int) Page[T] {
	total := len(items)
	count := PageCount(total, pageSize)

	page := requested
	if page < 0 || page >= count {
		page = 0
	}

	start := min(page*pageSize, total)
	end := min(start+pageSize, total)

	return Page[T]{
		Items:     items[start:end:end],
		Page:      page,
		PageCount: count,
		Total:     total,
	}
}
