// Package messaging publishes item domain events on the process event bus.
package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	domainevents "github.com/ghuser/itemstore/services/item/domain/events"
	"github.com/ghuser/itemstore/services/item/domain/models"
)

// Publisher is the subset of events.EventBus used here.
type Publisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// ItemPublisher turns persisted items into domain event messages.
type ItemPublisher struct {
	bus Publisher
}

func NewItemPublisher(bus Publisher) *ItemPublisher {
	return &ItemPublisher{bus: bus}
}

// PublishItemCreated publishes an ItemCreatedEvent for item.
func (p *ItemPublisher) PublishItemCreated(ctx context.Context, item *models.Item) error {
	event := domainevents.ItemCreatedEvent{
		EventID:    uuid.New(),
		Version:    domainevents.ItemCreatedVersion,
		ItemID:     item.ID,
		Name:       item.Name.String(),
		OccurredAt: item.CreatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("event_id", event.EventID.String())
	msg.Metadata.Set("event_version", strconv.Itoa(event.Version))
	return p.bus.Publish(ctx, domainevents.TopicItemCreated, msg)
}
