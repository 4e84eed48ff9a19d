// Package services contains stateless domain services for the item bounded context.
// Domain services enforce business rules that operate purely on domain types
// and have zero external dependencies beyond stdlib and the domain layer.
package services

import (
	"fmt"
	"time"

	"github.com/ghuser/itemstore/services/item/domain/models"
)

// NameTaken reports whether any existing item already uses name under
// case-insensitive comparison.
func NameTaken(existing []*models.Item, name models.ItemName) bool {
	for _, it := range existing {
		if it != nil && it.Name.EqualFold(name) {
			return true
		}
	}
	return false
}

// NextID returns the ID for a new item created at now.
//
// IDs are millisecond timestamps, bumped past the largest existing ID so two
// creations in the same millisecond still get distinct values.
func NextID(existing []*models.Item, now time.Time) int64 {
	id := now.UnixMilli()
	for _, it := range existing {
		if it != nil && it.ID >= id {
			id = it.ID + 1
		}
	}
	return id
}

// ValidateItemForCreation performs collection-level checks on a fully
// constructed Item before it is appended to existing. It assumes the Item was
// built via models.NewItem, so structural constraints are already satisfied.
func ValidateItemForCreation(item *models.Item, existing []*models.Item) error {
	if item == nil {
		return fmt.Errorf("item cannot be nil")
	}
	if item.ID <= 0 {
		return fmt.Errorf("id must be set")
	}
	for _, it := range existing {
		if it != nil && it.ID == item.ID {
			return fmt.Errorf("id %d already in use", item.ID)
		}
	}
	return nil
}
