package services

import "github.com/ghuser/itemstore/services/item/domain/models"

// ComputeStats summarizes the collection. AveragePrice only counts items that
// carry a price and is 0 when none do.
func ComputeStats(items []*models.Item) models.Stats {
	items = Records(items)
	var (
		sum    float64
		priced int
	)
	for _, it := range items {
		if it.Price == nil {
			continue
		}
		sum += *it.Price
		priced++
	}
	s := models.Stats{Total: len(items)}
	if priced > 0 {
		s.AveragePrice = sum / float64(priced)
	}
	return s
}
