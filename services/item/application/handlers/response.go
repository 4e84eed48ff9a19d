package handlers

import (
	"github.com/ghuser/itemstore/services/item/domain/models"
)

// ItemResponse is the wire form of an item.
type ItemResponse struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	CreatedAt string   `json:"createdAt,omitempty"`
	Category  string   `json:"category,omitempty"`
	Price     *float64 `json:"price,omitempty"`
}

// PaginationResponse describes the returned page.
type PaginationResponse struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// ListItemsResponse is returned by GET /items.
type ListItemsResponse struct {
	Items      []ItemResponse     `json:"items"`
	Pagination PaginationResponse `json:"pagination"`
}

// StatsResponse is returned by GET /stats.
type StatsResponse struct {
	Total        int     `json:"total"`
	AveragePrice float64 `json:"averagePrice"`
}

func toItemResponse(it *models.Item) ItemResponse {
	return ItemResponse{
		ID:        it.ID,
		Name:      it.Name.String(),
		CreatedAt: it.CreatedAtString(),
		Category:  it.Category,
		Price:     it.Price,
	}
}

func toListItemsResponse(res *models.ListResult) ListItemsResponse {
	items := make([]ItemResponse, 0, len(res.Items))
	for _, it := range res.Items {
		items = append(items, toItemResponse(it))
	}
	p := res.Pagination
	return ListItemsResponse{
		Items: items,
		Pagination: PaginationResponse{
			Page:       p.Page,
			Limit:      p.Limit,
			Total:      p.Total,
			TotalPages: p.TotalPages,
			HasNext:    p.HasNext,
			HasPrev:    p.HasPrev,
		},
	}
}
