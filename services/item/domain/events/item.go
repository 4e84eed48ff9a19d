package events

import (
	"time"

	"github.com/google/uuid"
)

// TopicItemCreated is the Watermill topic published when an Item is created.
const TopicItemCreated = "item.created"

// ItemCreatedVersion is the current ItemCreatedEvent schema version.
const ItemCreatedVersion = 1

// ItemCreatedEvent is published after a new Item is persisted.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicItemCreated).
type ItemCreatedEvent struct {
	EventID    uuid.UUID `json:"event_id"` // Unique publish-time identifier for deduplication
	Version    int       `json:"version"`  // Schema version; increment on breaking changes
	ItemID     int64     `json:"item_id"`
	Name       string    `json:"name"`
	OccurredAt time.Time `json:"occurred_at"`
}
