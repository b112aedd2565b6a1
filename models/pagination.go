package models

// Per-page ceilings. Leaderboard rows are heavier to render than listing
// rows, so the two read paths clamp differently.
const (
	LeaderboardMaxPerPage        = 50
	AutopaymentListingMaxPerPage = 100

	DefaultPerPage = 20
)

type PageMeta struct {
	CurrentPage int `json:"current_page"`
	LastPage    int `json:"last_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
}

type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}

func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// ClampPerPage bounds a requested page size to [1, ceiling]. A missing or
// non-positive request means "no preference" and gets the default page size,
// not the minimum bound; only explicit in-range values pass through.
func ClampPerPage(perPage int, ceiling int) int {
	if perPage < 1 {
		return DefaultPerPage
	}
	if perPage > ceiling {
		return ceiling
	}
	return perPage
}

// Paginate slices an already-sorted sequence into one page. Callers never
// re-sort: ordering is the producer's contract. last_page is at least 1 even
// for an empty sequence, and the data slice is always non-nil.
func Paginate[T any](items []T, page int, perPage int, ceiling int) Page[T] {
	page = ClampPage(page)
	perPage = ClampPerPage(perPage, ceiling)

	total := len(items)
	lastPage := (total + perPage - 1) / perPage
	if lastPage < 1 {
		lastPage = 1
	}

	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}

	data := make([]T, end-start)
	copy(data, items[start:end])

	return Page[T]{
		Data: data,
		Meta: PageMeta{
			CurrentPage: page,
			LastPage:    lastPage,
			PerPage:     perPage,
			Total:       total,
		},
	}
}
