package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.temporal.io/sdk/worker"

	"github.com/ghuser/basketctx/pkg/app"
	"github.com/ghuser/basketctx/pkg/cache"
	"github.com/ghuser/basketctx/pkg/config"
	"github.com/ghuser/basketctx/pkg/database"
	"github.com/ghuser/basketctx/pkg/events"
	"github.com/ghuser/basketctx/pkg/logger"
	"github.com/ghuser/basketctx/pkg/telemetry"
	pkgworkflows "github.com/ghuser/basketctx/pkg/workflows"
	appsvcs "github.com/ghuser/basketctx/services/basket/application/services"
	basketworkflows "github.com/ghuser/basketctx/services/basket/application/workflows"
	basketEvents "github.com/ghuser/basketctx/services/basket/domain/events"
	"github.com/ghuser/basketctx/services/basket/domain/models"
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

	ctx := context.Background()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(ctx) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	temporalClient, err := pkgworkflows.NewTemporalClient(ctx, cfg.TemporalHostPort, cfg.TemporalNamespace, log)
	if err != nil {
		log.Error("failed to initialize temporal client", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer temporalClient.Close()

	appConfig := &app.Application{
		Config:         cfg,
		Db:             pool,
		Logger:         log,
		EventBus:       eventBus,
		Redis:          redisClient,
		TemporalClient: temporalClient,
	}

	svcs, err := appsvcs.New(appConfig)
	if err != nil {
		log.Error("failed to wire basket services", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	if err := registerSubscribers(ctx, appConfig, svcs); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	w, err := startCouponExpiryWorker(ctx, appConfig, svcs)
	if err != nil {
		log.Error("failed to start coupon expiry worker", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer w.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all integration event handlers.
// Add new topics here as more events are published.
func registerSubscribers(ctx context.Context, a *app.Application, svcs *appsvcs.Services) error {
	subscriptions := map[string]func(context.Context, *message.Message) error{
		basketEvents.TopicBasketCreated:         handleBasketCreated(a),
		basketEvents.TopicBasketTotalCalculated: handleTotalCalculated(a, svcs),
		basketEvents.TopicCouponDeactivated:     handleCouponDeactivated(a),
	}

	topics := make([]string, 0, len(subscriptions))
	for topic, handler := range subscriptions {
		errCh, err := a.EventBus.Subscribe(ctx, topic, handler)
		if err != nil {
			return err
		}
		topics = append(topics, topic)

		// Drain subscriber errors in background so the channel never blocks.
		go func(topic string) {
			for err := range errCh {
				a.Logger.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
			}
		}(topic)
	}

	a.Logger.Info("event subscribers registered", "topics", topics)
	return nil
}

// handleBasketCreated returns a handler for basket.created events.
// Handlers must be idempotent: EventBus retries up to 3× on failure.
func handleBasketCreated(a *app.Application) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt basketEvents.BasketCreated
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}
		a.Logger.InfoContext(ctx, "basket created",
			"basket_id", evt.Aggregate, "customer_id", evt.CustomerID)
		return nil
	}
}

// handleTotalCalculated warms the Redis summary cache so subsequent summary
// reads are served without touching Postgres.
func handleTotalCalculated(a *app.Application, svcs *appsvcs.Services) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt basketEvents.TotalAmountCalculated
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}
		basketID, err := models.BasketIDFromUUID(evt.Aggregate)
		if err != nil {
			return err
		}

		if err := svcs.Basket.RefreshSummary(ctx, basketID); err != nil {
			// Cache warming is best-effort; log but do not fail the handler.
			a.Logger.WarnContext(ctx, "cache warm failed for basket.total_calculated",
				"basket_id", basketID, "error", err)
			return nil
		}
		a.Logger.InfoContext(ctx, "basket summary cache warmed",
			"basket_id", basketID, "total", evt.Total)
		return nil
	}
}

// handleCouponDeactivated logs deactivations so operators can correlate
// basket reprices with the expiry sweep.
func handleCouponDeactivated(a *app.Application) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt basketEvents.CouponDeactivated
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			return err
		}
		a.Logger.InfoContext(ctx, "coupon deactivated", "coupon_id", evt.Aggregate)
		return nil
	}
}

// startCouponExpiryWorker runs the Temporal worker for the coupon expiry
// sweep and kicks off its cron schedule.
func startCouponExpiryWorker(ctx context.Context, a *app.Application, svcs *appsvcs.Services) (worker.Worker, error) {
	w := worker.New(a.TemporalClient.Client, basketworkflows.CouponExpiryTaskQueue, worker.Options{})
	basketworkflows.RegisterCouponExpiry(w, basketworkflows.NewCouponExpiryActivities(svcs.Coupon))

	if err := w.Start(); err != nil {
		return nil, err
	}

	if err := basketworkflows.StartCouponExpirySchedule(ctx, a.TemporalClient.Client); err != nil {
		a.Logger.Warn("coupon expiry schedule not started, assuming already running", "error", err)
	}
	return w, nil
}
