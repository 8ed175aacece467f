package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/ghuser/gamercart/docs/swagger"
	"github.com/ghuser/gamercart/pkg/app"
	"github.com/ghuser/gamercart/pkg/auth"
	"github.com/ghuser/gamercart/pkg/cache"
	"github.com/ghuser/gamercart/pkg/config"
	"github.com/ghuser/gamercart/pkg/database"
	"github.com/ghuser/gamercart/pkg/events"
	"github.com/ghuser/gamercart/pkg/httpx"
	"github.com/ghuser/gamercart/pkg/logger"
	"github.com/ghuser/gamercart/pkg/telemetry"
	"github.com/ghuser/gamercart/pkg/view"
	"github.com/ghuser/gamercart/pkg/webctx"
	accountApi "github.com/ghuser/gamercart/services/account/application/api"
	adminApi "github.com/ghuser/gamercart/services/admin/application/api"
	cartApi "github.com/ghuser/gamercart/services/cart/application/api"
	cartServices "github.com/ghuser/gamercart/services/cart/application/services"
	catalogApi "github.com/ghuser/gamercart/services/catalog/application/api"
	ordersApi "github.com/ghuser/gamercart/services/orders/application/api"
)

// @title			Carrito Gamer API
// @version		1.0
// @description	JSON endpoints of the Carrito Gamer storefront.
// @BasePath		/
// @schemes		http https
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
	log.Debug("configuration loaded", "config", config.String(cfg))

	ctx := context.Background()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	// An unreachable database is logged by NewPool; the server still starts
	// and the homepage serves the sample catalog until it recovers.
	db, err := database.NewPool(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open database", "error", err)
		os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
	}
	defer db.Close() //nolint:errcheck

	var redisClient *cache.RedisClient
	if rc, err := cache.NewRedisClient(ctx, cfg); err != nil {
		log.Warn("redis unavailable, using cookie sessions and no product cache", "error", err)
	} else {
		redisClient = rc
		defer redisClient.Close() //nolint:errcheck
		log.Info("redis connected")
	}

	authKey, encryptionKey, err := cfg.SessionKeys()
	if err != nil {
		log.Error("failed to derive session keys", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	var sessionStore sessions.Store
	if redisClient != nil {
		sessionStore = auth.NewSessionStore(redisClient.Client(), authKey, encryptionKey, cfg.SecureTransport())
		log.Info("session store initialized", "backend", "redis")
	} else {
		sessionStore = auth.NewCookieStore(authKey, encryptionKey, cfg.SecureTransport())
		log.Info("session store initialized", "backend", "cookie")
	}

	eventBus, err := events.NewEventBus(db.DB(), "gamercart-api", log)
	if err != nil {
		log.Warn("event bus unavailable, writes commit without domain events", "error", err)
		eventBus = nil
	} else {
		defer eventBus.Close() //nolint:errcheck
	}

	views, err := view.New(log, cfg.IsProduction())
	if err != nil {
		log.Error("failed to load templates", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	metrics, err := telemetry.NewStorefrontMetrics()
	if err != nil {
		log.Warn("storefront metrics unavailable", "error", err)
	}

	appConfig := &app.Application{
		Config:       cfg,
		Db:           db,
		Logger:       log,
		EventBus:     eventBus,
		Redis:        redisClient,
		SessionStore: sessionStore,
		Views:        views,
		Metrics:      metrics,
	}

	r := httpx.NewRouter(
		httpx.ServerConfig{
			IsDevelopment:      !cfg.IsProduction(),
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		},
		httpx.Middlewares{
			Recovery: logger.Recovery(log, views.ServerError),
			Sentry:   telemetry.SentryMiddleware(),
			Otel:     otelhttp.NewMiddleware(cfg.ServiceName),
			Logger:   logger.Middleware(log),
		},
	)
	r.Use(webctx.Middleware(sessionStore, cartServices.New(appConfig).Cart, metrics, log))

	r.Get("/health", httpx.HealthHandler(healthChecks(cfg, db, redisClient, eventBus)))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	if err := mountRoutes(r, appConfig); err != nil {
		log.Error("failed to build homepage", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	srv := httpx.NewServer(cfg.Addr(), r)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// mountRoutes installs the 404 page, the homepage and every route module.
// The 404 page is set first so mounted sub-routers inherit it.
func mountRoutes(r chi.Router, a *app.Application) error {
	r.NotFound(a.Views.NotFound)
	home, err := catalogApi.Home(a)
	if err != nil {
		return err
	}
	r.Get("/", home)
	httpx.MountModules(r, a.Logger, routeModules(a))
	return nil
}

// routeModules is the route table. A module whose factory fails is skipped
// and the rest of the site keeps working. The account module owns the root
// prefix and must stay last.
func routeModules(a *app.Application) []httpx.Module {
	return []httpx.Module{
		{Name: "products", Prefix: "/products", Build: func() (http.Handler, error) { return catalogApi.ProductRoutes(a) }},
		{Name: "cart", Prefix: "/cart", Build: func() (http.Handler, error) { return cartApi.CartRoutes(a) }},
		{Name: "orders", Prefix: "/orders", Build: func() (http.Handler, error) { return ordersApi.OrderRoutes(a) }},
		{Name: "admin", Prefix: "/admin", Build: func() (http.Handler, error) { return adminApi.AdminRoutes(a) }},
		{Name: "account", Prefix: "/", Build: func() (http.Handler, error) { return accountApi.AccountRoutes(a) }},
	}
}

// healthChecks only sets the probes that exist, so an absent Redis or bus is
// left out of the response instead of being reported as a typed nil.
func healthChecks(cfg *config.Config, db *database.Database, rc *cache.RedisClient, bus *events.EventBus) httpx.HealthChecks {
	checks := httpx.HealthChecks{Environment: cfg.Environment, Database: db}
	if rc != nil {
		checks.Redis = rc
	}
	if bus != nil {
		checks.EventBus = bus
	}
	return checks
}
