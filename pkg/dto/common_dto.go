package dto

type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	Limit       int   `json:"limit"`
}

type Paginated[T any] struct {
	Data []T           `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// Paginate slices items to one page. Page and limit fall back to the
// defaults when not positive.
func Paginate[T any](items []T, page, limit int) Paginated[T] {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	total := len(items)
	totalPages := (total + limit - 1) / limit
	start := min((page-1)*limit, total)
	end := min(start+limit, total)

	data := make([]T, 0, end-start)
	data = append(data, items[start:end]...)

	return Paginated[T]{
		Data: data,
		Meta: PaginationMeta{
			CurrentPage: page,
			TotalPages:  totalPages,
			TotalItems:  int64(total),
			Limit:       limit,
		},
	}
}
