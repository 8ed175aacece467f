package httpx

import (
	"context"
	"net/http"
	"time"
)

// HealthChecker is satisfied by any infrastructure dependency that exposes
// a Ping method (database.Database, cache.RedisClient, events.EventBus).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks holds the dependencies probed by /health. A nil field is not
// probed and is omitted from the response.
type HealthChecks struct {
	Environment string
	Database    HealthChecker
	Redis       HealthChecker
	EventBus    HealthChecker
}

// Connectivity labels reported per dependency.
const (
	StatusConnected    = "Connected"
	StatusDisconnected = "Disconnected"
)

type healthResponse struct {
	Status      string `json:"status"`
	Message     string `json:"message"`
	Timestamp   string `json:"timestamp"`
	Environment string `json:"environment"`
	Database    string `json:"database,omitempty"`
	DBError     string `json:"dbError,omitempty"`
	Redis       string `json:"redis,omitempty"`
	EventBus    string `json:"eventBus,omitempty"`
}

// HealthHandler reports process status. It always answers 200 with status
// "OK": a failed probe is reported in its own field, never as a failed check.
//
//	@Summary		Health check
//	@Description	Process status plus database, Redis and event bus reachability
//	@Tags			ops
//	@Produce		json
//	@Success		200	{object}	healthResponse
//	@Router			/health [get]
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := healthResponse{
			Status:      "OK",
			Message:     "Servidor funcionando",
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
			Environment: checks.Environment,
		}

		if checks.Database != nil {
			resp.Database = StatusConnected
			if err := checks.Database.Ping(ctx); err != nil {
				resp.Database = StatusDisconnected
				resp.DBError = err.Error()
			}
		}
		if checks.Redis != nil {
			resp.Redis = probe(ctx, checks.Redis)
		}
		if checks.EventBus != nil {
			resp.EventBus = probe(ctx, checks.EventBus)
		}

		JSON(w, http.StatusOK, resp)
	}
}

func probe(ctx context.Context, c HealthChecker) string {
	if err := c.Ping(ctx); err != nil {
		return StatusDisconnected
	}
	return StatusConnected
}
