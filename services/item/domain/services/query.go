package services

import (
	"strings"

	"github.com/ghuser/itemstore/services/item/domain/models"
)

// NormalizeListQuery clamps page and limit into their allowed ranges and
// trims the search string.
//
//   - Page below 1 becomes 1.
//   - Limit 0 (not supplied) becomes DefaultLimit; negative becomes 1;
//     anything above MaxLimit becomes MaxLimit.
func NormalizeListQuery(q models.ListQuery) models.ListQuery {
	if q.Page < 1 {
		q.Page = models.DefaultPage
	}
	switch {
	case q.Limit == 0:
		q.Limit = models.DefaultLimit
	case q.Limit < 1:
		q.Limit = 1
	case q.Limit > models.MaxLimit:
		q.Limit = models.MaxLimit
	}
	q.Query = strings.TrimSpace(q.Query)
	return q
}

// Records drops placeholders for stored elements that are not items.
func Records(items []*models.Item) []*models.Item {
	out := make([]*models.Item, 0, len(items))
	for _, it := range items {
		if it.IsRecord() {
			out = append(out, it)
		}
	}
	return out
}

// FilterByName keeps the items whose name contains query, case-insensitively.
// An empty query returns items unchanged. Storage order is preserved.
func FilterByName(items []*models.Item, query string) []*models.Item {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return items
	}
	out := make([]*models.Item, 0, len(items))
	for _, it := range items {
		if it != nil && it.Name.ContainsFold(needle) {
			out = append(out, it)
		}
	}
	return out
}

// Paginate slices items for the given page and limit, which must already be
// normalized. TotalPages is never below 1, even for an empty set.
func Paginate(items []*models.Item, page, limit int) models.ListResult {
	total := len(items)
	pages := (total + limit - 1) / limit

	// Past-the-end pages are compared before multiplying so a huge page
	// cannot overflow.
	start := total
	if page-1 < pages {
		start = (page - 1) * limit
	}
	end := start + limit
	if end > total {
		end = total
	}

	totalPages := pages
	if totalPages < 1 {
		totalPages = 1
	}

	return models.ListResult{
		Items: items[start:end],
		Pagination: models.Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < pages,
			HasPrev:    page > 1,
		},
	}
}
