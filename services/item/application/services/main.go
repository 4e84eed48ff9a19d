package services

import (
	"github.com/ghuser/itemstore/pkg/app"
	"github.com/ghuser/itemstore/services/item/infrastructure/messaging"
	"github.com/ghuser/itemstore/services/item/infrastructure/persistence/jsonfile"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Item  *ItemService
	Store *jsonfile.ItemStore
}

// New wires all item application services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	store := jsonfile.NewItemStore(a.Config.DataPath, a.Logger,
		jsonfile.WithAtomicWrites(a.Config.StoreAtomicWrites),
	)

	opts := []Option{WithStatsCache(a.StatsCache)}
	if a.EventBus != nil {
		opts = append(opts, WithPublisher(messaging.NewItemPublisher(a.EventBus)))
	}

	return &Services{
		Item:  NewItemService(store, a.Logger.With("component", "item"), opts...),
		Store: store,
	}
}
