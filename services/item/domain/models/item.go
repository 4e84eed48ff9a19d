package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the ISO-8601 layout used for CreatedAt on the wire and on disk.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Item is the core aggregate for this bounded context.
// Items are append-only: nothing mutates an Item once it has been persisted.
type Item struct {
	ID        int64
	Name      ItemName
	CreatedAt time.Time

	// Category and Price are only present on externally seeded records.
	// They are carried through rewrites untouched.
	Category string
	Price    *float64

	// Extra holds stored fields the item does not model, and modeled fields
	// whose stored value has the wrong type (a numeric name, say). They are
	// written back verbatim.
	Extra map[string]json.RawMessage

	// Raw is set when the stored element is not a JSON object at all. Such
	// an element keeps its place in the file but is not part of the
	// collection.
	Raw json.RawMessage
}

// IsRecord reports whether i is a real item rather than a placeholder for
// a stored element that is not an object.
func (i *Item) IsRecord() bool {
	return i != nil && i.Raw == nil
}

// NewItem constructs a valid Item aggregate. createdAt is normalized to UTC
// with millisecond precision so it survives a round trip through the store.
func NewItem(id int64, name ItemName, createdAt time.Time) (*Item, error) {
	if id <= 0 {
		return nil, fmt.Errorf("item id must be positive, got %d", id)
	}
	return &Item{
		ID:        id,
		Name:      name,
		CreatedAt: createdAt.UTC().Truncate(time.Millisecond),
	}, nil
}

// CreatedAtString formats CreatedAt with TimestampLayout, or "" if unset.
func (i *Item) CreatedAtString() string {
	if i.CreatedAt.IsZero() {
		return ""
	}
	return i.CreatedAt.UTC().Format(TimestampLayout)
}
