// Package subscribers wires in-process handlers for item domain events.
package subscribers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/itemstore/pkg/app"
	"github.com/ghuser/itemstore/pkg/cache"
	"github.com/ghuser/itemstore/pkg/events"
	"github.com/ghuser/itemstore/pkg/logger"
	itemEvents "github.com/ghuser/itemstore/services/item/domain/events"
)

// Register subscribes all item event handlers on a.EventBus.
// Subscriber errors are drained and logged until the bus closes.
func Register(ctx context.Context, a *app.Application) error {
	errCh, err := a.EventBus.Subscribe(ctx, itemEvents.TopicItemCreated, HandleItemCreated(a.StatsCache, a.Logger))
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", itemEvents.TopicItemCreated, err)
	}

	go func() {
		for err := range errCh {
			a.Logger.ErrorContext(ctx, "subscriber error",
				"topic", itemEvents.TopicItemCreated,
				"error", err,
			)
		}
	}()

	a.Logger.Info("event subscribers registered", "topics", []string{itemEvents.TopicItemCreated})
	return nil
}

// HandleItemCreated returns a handler for item.created events that drops the
// cached stats aggregate. Safe to run more than once per event.
func HandleItemCreated(statsCache cache.StatsCache, log logger.Logger) events.Handler {
	return func(ctx context.Context, msg *message.Message) error {
		var evt itemEvents.ItemCreatedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			// Redelivery cannot fix a malformed payload.
			log.WarnContext(ctx, "dropping malformed item.created payload", "error", err)
			return nil
		}
		if statsCache == nil {
			return nil
		}
		if err := statsCache.Invalidate(ctx); err != nil {
			return fmt.Errorf("invalidate stats cache: %w", err)
		}
		log.DebugContext(ctx, "stats cache invalidated", "item_id", evt.ItemID)
		return nil
	}
}
