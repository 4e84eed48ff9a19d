package app

import (
	"github.com/ghuser/itemstore/pkg/cache"
	"github.com/ghuser/itemstore/pkg/config"
	"github.com/ghuser/itemstore/pkg/events"
	"github.com/ghuser/itemstore/pkg/logger"
)

// Application bundles the infrastructure shared by every service. It is
// built once in cmd/api and handed to each service's New and route
// functions. Log through the *Context methods inside requests so records
// pick up trace and request ids.
type Application struct {
	Config     *config.Config
	Logger     logger.Logger
	EventBus   *events.EventBus
	StatsCache cache.StatsCache
	Redis      *cache.RedisClient // nil when REDIS_URL is unset
}

// IsProduction reports whether the process runs with ENVIRONMENT=production.
func (a *Application) IsProduction() bool {
	return a.Config != nil && a.Config.Environment == config.EnvProduction
}
