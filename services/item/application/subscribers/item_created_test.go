package subscribers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/itemstore/pkg/app"
	"github.com/ghuser/itemstore/pkg/cache"
	"github.com/ghuser/itemstore/pkg/config"
	"github.com/ghuser/itemstore/pkg/events"
	"github.com/ghuser/itemstore/pkg/logger"
	itemEvents "github.com/ghuser/itemstore/services/item/domain/events"
)

type failingCache struct{ cache.StatsCache }

func (failingCache) Invalidate(context.Context) error { return errors.New("redis down") }

func testLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

func eventMessage(t *testing.T) *message.Message {
	t.Helper()
	payload, err := json.Marshal(itemEvents.ItemCreatedEvent{
		EventID:    uuid.New(),
		Version:    itemEvents.ItemCreatedVersion,
		ItemID:     42,
		Name:       "Widget",
		OccurredAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return message.NewMessage(uuid.NewString(), payload)
}

func TestHandleItemCreated_InvalidatesCache(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemoryStatsCache(0)
	require.NoError(t, c.Set(ctx, &cache.CachedStats{Version: "v", Total: 1}))

	require.NoError(t, HandleItemCreated(c, testLogger())(ctx, eventMessage(t)))

	got, err := c.Get(ctx, "v")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHandleItemCreated_MalformedPayloadIsDropped(t *testing.T) {
	err := HandleItemCreated(cache.NewMemoryStatsCache(0), testLogger())(context.Background(), message.NewMessage("x", []byte("{")))
	assert.NoError(t, err)
}

func TestHandleItemCreated_NilCache(t *testing.T) {
	assert.NoError(t, HandleItemCreated(nil, testLogger())(context.Background(), eventMessage(t)))
}

func TestHandleItemCreated_CacheErrorIsRetried(t *testing.T) {
	err := HandleItemCreated(failingCache{}, testLogger())(context.Background(), eventMessage(t))
	assert.Error(t, err)
}

func TestRegister_InvalidatesOnPublishedEvent(t *testing.T) {
	ctx := context.Background()
	log := testLogger()
	bus := events.NewEventBus(log)
	defer bus.Close() //nolint:errcheck

	c := cache.NewMemoryStatsCache(0)
	require.NoError(t, c.Set(ctx, &cache.CachedStats{Version: "v", Total: 1}))

	require.NoError(t, Register(ctx, &app.Application{Logger: log, EventBus: bus, StatsCache: c}))
	require.NoError(t, bus.Publish(ctx, itemEvents.TopicItemCreated, eventMessage(t)))

	assert.Eventually(t, func() bool {
		got, err := c.Get(ctx, "v")
		return err == nil && got == nil
	}, 2*time.Second, 10*time.Millisecond)
}
