// Package server is the HTTP entry point: request validation, workflow
// invocation, and mapping of workflow outcomes to the response envelope.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/mohammad-safakhou/askgate/config"
	"github.com/mohammad-safakhou/askgate/internal/ask"
	"github.com/mohammad-safakhou/askgate/internal/entitlement"
	"github.com/mohammad-safakhou/askgate/internal/entitlement/memberful"
	"github.com/mohammad-safakhou/askgate/internal/entitlement/stripe"
	"github.com/mohammad-safakhou/askgate/internal/plan"
	"github.com/mohammad-safakhou/askgate/internal/ratelimit"
	"github.com/mohammad-safakhou/askgate/internal/telemetry"
	"github.com/mohammad-safakhou/askgate/internal/tool"
	"github.com/mohammad-safakhou/askgate/provider"
)

// Run wires the dependencies and serves until the listener fails.
func Run(cfg *config.Config) error {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	baseLogger := log.New(log.Writer(), "[HTTP] ", log.LstdFlags)
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if he.Message != nil {
				msg = fmt.Sprint(he.Message)
			}
		}
		req := c.Request()
		baseLogger.Printf("%d %s %s from %s: %v", code, req.Method, req.URL.Path, c.RealIP(), err)
		if !c.Response().Committed {
			_ = c.JSON(code, map[string]interface{}{"error": msg})
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	ctx := context.Background()

	var redisClient *redis.Client
	if cfg.Storage.Redis.Configured() {
		var err error
		redisClient, err = redisConn(ctx, cfg.Storage.Redis)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
	}

	var sink telemetry.Sink
	if s := telemetry.NewHTTPSink(cfg.Telemetry.AnalyticsURL); s != nil {
		sink = s
	}
	var alerts telemetry.AlertSink
	if s := telemetry.NewHTTPAlertSink(cfg.Telemetry.AlertsURL); s != nil {
		alerts = s
	}
	tele := telemetry.New(cfg.Telemetry, sink, alerts, nil)

	entStore, rlStore := buildStores(redisClient)
	entCache := entitlement.NewCache(buildProviders(cfg.Entitlements), entStore, cfg.Entitlements.CacheTTL, nil)
	limiter := ratelimit.New(ratelimit.Config{
		MaxPerWindow: cfg.RateLimit.MaxPerWindow,
		Window:       cfg.RateLimit.Window,
	}, rlStore, nil)

	registry, err := buildRegistry(cfg.Tools)
	if err != nil {
		return fmt.Errorf("building tool registry: %w", err)
	}

	backend, err := provider.New(provider.Client(cfg.Backend.Type), provider.Options{
		APIKey:      cfg.Backend.APIKey,
		BaseURL:     cfg.Backend.BaseURL,
		Model:       cfg.Backend.Model,
		Temperature: cfg.Backend.Temperature,
		Timeout:     cfg.Backend.Timeout,
	})
	if err != nil {
		return fmt.Errorf("building answer backend: %w", err)
	}

	orch := ask.NewOrchestrator(
		nil,
		tele,
		entCache,
		limiter,
		plan.NewResolver(cfg.Plans),
		registry,
		tool.NewRunner(nil),
		backend,
	)

	h := &AskHandler{Orchestrator: orch, Telemetry: tele}
	h.Register(e.Group("/v1"))

	return e.Start(cfg.Server.Address)
}

func buildStores(client *redis.Client) (entitlement.Store, ratelimit.Store) {
	if client != nil {
		return entitlement.NewRedisStore(client), ratelimit.NewRedisStore(client)
	}
	return entitlement.NewMemoryStore(), ratelimit.NewMemoryStore()
}

// buildProviders returns the configured entitlement providers in priority
// order: memberful first, stripe second. Unconfigured providers are
// skipped.
func buildProviders(cfg config.EntitlementsConfig) []entitlement.Provider {
	var providers []entitlement.Provider
	if cfg.Memberful.APIKey != "" {
		providers = append(providers, memberful.New(cfg.Memberful.APIKey, cfg.Memberful.Endpoint, cfg.Memberful.Timeout))
	}
	if cfg.Stripe.APIKey != "" {
		providers = append(providers, stripe.New(cfg.Stripe.APIKey, cfg.Stripe.Endpoint, cfg.Stripe.Timeout))
	}
	return providers
}
