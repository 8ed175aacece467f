package app

import (
	"github.com/gorilla/sessions"

	"github.com/ghuser/gamercart/pkg/cache"
	"github.com/ghuser/gamercart/pkg/config"
	"github.com/ghuser/gamercart/pkg/database"
	"github.com/ghuser/gamercart/pkg/events"
	"github.com/ghuser/gamercart/pkg/logger"
	"github.com/ghuser/gamercart/pkg/telemetry"
	"github.com/ghuser/gamercart/pkg/view"
)

// Application holds the shared infrastructure handed to every route module
// factory and to the worker's subscribers. It is built once in main.
//
// Optional parts are nil when their backend was unavailable at startup:
// Redis (no product cache, no best-seller ranking) and EventBus (writes
// commit without events). Consumers check before use.
//
// Logging: Logger is backed by a trace-aware handler; use the context methods
// so trace_id, span_id and request_id are attached:
//
//	a.Logger.InfoContext(ctx, "order placed", "order_id", id)
type Application struct {
	Config       *config.Config
	Db           *database.Database
	Logger       logger.Logger
	EventBus     *events.EventBus
	Redis        *cache.RedisClient
	SessionStore sessions.Store // nil in the worker process
	Views        *view.Renderer // nil in the worker process
	Metrics      *telemetry.StorefrontMetrics
}
