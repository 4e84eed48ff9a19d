package models

// Pagination defaults and bounds for list queries.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListQuery holds the caller's list options. Zero values mean "not supplied".
type ListQuery struct {
	Page  int
	Limit int
	Query string
}

// Pagination describes the page returned by a list query.
type Pagination struct {
	Page       int
	Limit      int
	Total      int
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// ListResult is one page of items plus its pagination block.
type ListResult struct {
	Items      []*Item
	Pagination Pagination
}
