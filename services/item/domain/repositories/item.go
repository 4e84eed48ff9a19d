package repositories

import (
	"context"

	"github.com/ghuser/itemstore/services/item/domain/models"
)

// UpdateFunc receives the full current collection and returns the collection
// to persist. Returning an error aborts the write.
type UpdateFunc func(items []*models.Item) ([]*models.Item, error)

// ItemRepository is the persistence interface for the Item collection.
// The domain layer owns this interface; infrastructure implements it.
//
// The collection is always handled whole: Load returns every item in storage
// order and Save replaces the persisted collection.
type ItemRepository interface {
	Load(ctx context.Context) ([]*models.Item, error)
	Save(ctx context.Context, items []*models.Item) error

	// Update runs a load-modify-save cycle under the repository's exclusive
	// lock. Concurrent Update calls never observe each other's intermediate state.
	Update(ctx context.Context, fn UpdateFunc) error

	// Version returns an opaque token that changes whenever the persisted
	// collection changes.
	Version(ctx context.Context) (string, error)
}
