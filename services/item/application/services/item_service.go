package services

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	pkgcache "github.com/ghuser/itemstore/pkg/cache"
	"github.com/ghuser/itemstore/pkg/logger"
	itemdomain "github.com/ghuser/itemstore/services/item/domain"
	"github.com/ghuser/itemstore/services/item/domain/models"
	"github.com/ghuser/itemstore/services/item/domain/repositories"
	domainsvcs "github.com/ghuser/itemstore/services/item/domain/services"
)

const meterName = "github.com/ghuser/itemstore/services/item/application/services"

// EventPublisher announces newly persisted items.
type EventPublisher interface {
	PublishItemCreated(ctx context.Context, item *models.Item) error
}

// Option configures an ItemService.
type Option func(*ItemService)

// WithClock overrides the time source used for IDs and timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *ItemService) { s.now = now }
}

// WithPublisher sets the publisher notified after each successful create.
func WithPublisher(p EventPublisher) Option {
	return func(s *ItemService) { s.publisher = p }
}

// WithStatsCache sets the cache used by Stats.
func WithStatsCache(c pkgcache.StatsCache) Option {
	return func(s *ItemService) { s.stats = c }
}

// ItemService orchestrates listing, lookup, creation and summary of Items.
// Every call reloads the collection from the repository; the stats cache is
// the only state held between calls.
type ItemService struct {
	repo      repositories.ItemRepository
	log       logger.Logger
	now       func() time.Time
	publisher EventPublisher
	stats     pkgcache.StatsCache
	created   metric.Int64Counter
}

// NewItemService returns an ItemService backed by repo.
func NewItemService(repo repositories.ItemRepository, log logger.Logger, opts ...Option) *ItemService {
	s := &ItemService{
		repo: repo,
		log:  log,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	counter, err := otel.Meter(meterName).Int64Counter("items_created_total",
		metric.WithDescription("Number of items created"),
	)
	if err != nil {
		log.Warn("failed to create items_created_total counter", "error", err)
	}
	s.created = counter
	return s
}

// List returns one page of items whose name contains q.Query, in storage order.
func (s *ItemService) List(ctx context.Context, q models.ListQuery) (*models.ListResult, error) {
	q = domainsvcs.NormalizeListQuery(q)

	items, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	res := domainsvcs.Paginate(domainsvcs.FilterByName(domainsvcs.Records(items), q.Query), q.Page, q.Limit)
	return &res, nil
}

// GetByID returns the item with the given id.
// Returns ErrInvalidItemID for non-positive ids and ErrItemNotFound when absent.
func (s *ItemService) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: %d", itemdomain.ErrInvalidItemID, id)
	}

	items, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	for _, it := range items {
		if it.IsRecord() && it.ID == id {
			return it, nil
		}
	}
	return nil, fmt.Errorf("get item %d: %w", id, itemdomain.ErrItemNotFound)
}

// Create validates rawName, appends a new item and persists the collection.
// The duplicate check, ID assignment and save run inside one repository
// Update, so concurrent creates cannot lose items or share an ID.
func (s *ItemService) Create(ctx context.Context, rawName string) (*models.Item, error) {
	name, err := models.NewItemName(rawName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", itemdomain.ErrInvalidItemName, err)
	}

	var created *models.Item
	err = s.repo.Update(ctx, func(items []*models.Item) ([]*models.Item, error) {
		if domainsvcs.NameTaken(items, name) {
			return nil, fmt.Errorf("%w: %q", itemdomain.ErrItemAlreadyExists, name.String())
		}

		now := s.now()
		item, err := models.NewItem(domainsvcs.NextID(items, now), name, now)
		if err != nil {
			return nil, err
		}
		if err := domainsvcs.ValidateItemForCreation(item, items); err != nil {
			return nil, err
		}

		created = item
		return append(items, item), nil
	})
	if err != nil {
		return nil, fmt.Errorf("create item: %w", err)
	}

	if s.created != nil {
		s.created.Add(ctx, 1)
	}
	if s.publisher != nil {
		if err := s.publisher.PublishItemCreated(ctx, created); err != nil {
			s.log.WarnContext(ctx, "failed to publish item.created",
				"item_id", created.ID, "error", err)
		}
	}

	s.log.InfoContext(ctx, "item created", "item_id", created.ID)
	return created, nil
}

// Stats summarizes the collection. Results are cached against the store's
// version token, so any write to the file (by this process or another)
// forces a recompute.
func (s *ItemService) Stats(ctx context.Context) (*models.Stats, error) {
	version, err := s.repo.Version(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}

	if s.stats != nil {
		cached, err := s.stats.Get(ctx, version)
		if err != nil {
			s.log.WarnContext(ctx, "stats cache read failed", "error", err)
		} else if cached != nil {
			return &models.Stats{Total: cached.Total, AveragePrice: cached.AveragePrice}, nil
		}
	}

	items, err := s.repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}
	stats := domainsvcs.ComputeStats(items)

	if s.stats != nil {
		if err := s.stats.Set(ctx, &pkgcache.CachedStats{
			Version:      version,
			Total:        stats.Total,
			AveragePrice: stats.AveragePrice,
		}); err != nil {
			s.log.WarnContext(ctx, "stats cache write failed", "error", err)
		}
	}
	return &stats, nil
}
