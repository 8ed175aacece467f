package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ghuser/gamercart/pkg/cache"
	"github.com/ghuser/gamercart/pkg/config"
	"github.com/ghuser/gamercart/pkg/database"
	"github.com/ghuser/gamercart/pkg/events"
	"github.com/ghuser/gamercart/pkg/logger"
	"github.com/ghuser/gamercart/pkg/telemetry"
	catalogEvents "github.com/ghuser/gamercart/services/catalog/domain/events"
	orderEvents "github.com/ghuser/gamercart/services/orders/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	db, err := database.NewPool(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	eventBus, err := events.NewEventBus(db.DB(), "gamercart-worker", log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	if err := eventBus.StartForwarder(ctx); err != nil {
		log.Error("failed to start event forwarder", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	subscriptions := []subscription{
		{
			topic:   catalogEvents.TopicProductChanged,
			handler: handleProductChanged(cache.NewProductCache(redisClient), log),
		},
		{
			topic:   orderEvents.TopicOrderPlaced,
			handler: handleOrderPlaced(cache.NewBestSellers(redisClient), log),
		},
	}
	if err := registerSubscribers(ctx, eventBus, subscriptions, log); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	cancel()

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

type subscription struct {
	topic   string
	handler events.Handler
}

// registerSubscribers subscribes every handler and drains each error channel
// in the background so it never blocks.
func registerSubscribers(ctx context.Context, bus *events.EventBus, subs []subscription, log logger.Logger) error {
	topics := make([]string, 0, len(subs))
	for _, s := range subs {
		errCh, err := bus.Subscribe(ctx, s.topic, s.handler)
		if err != nil {
			return err
		}
		go func(topic string) {
			for err := range errCh {
				log.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}(s.topic)
		topics = append(topics, s.topic)
	}
	log.Info("event subscribers registered", "topics", topics)
	return nil
}
