package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"comercial_backend/internal/adapters"
	"comercial_backend/internal/catalog"
	"comercial_backend/internal/customers"
	custservice "comercial_backend/internal/customers/service"
	"comercial_backend/internal/embedding"
	"comercial_backend/internal/events"
	"comercial_backend/internal/functions"
	apphttp "comercial_backend/internal/http"
	"comercial_backend/internal/http/router"
	"comercial_backend/internal/scheduler"
	"comercial_backend/internal/sells"
	"comercial_backend/internal/vendors"
	"comercial_backend/migrations"
	"comercial_backend/platform/ai/embeddings"
	"comercial_backend/platform/cache"
	"comercial_backend/platform/config"
	"comercial_backend/platform/db"
	"comercial_backend/platform/logger"
	"comercial_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	if cfg.GetMigrationsEnabled() {
		if err := db.RunMigrations(ctx, pool, migrations.FS); err != nil {
			log.Error("failed to run database migrations", "error", err)
			panic("failed to run database migrations: " + err.Error())
		}
		log.Info("database migrations complete")
	}

	embedder, err := embeddings.New(cfg)
	if err != nil {
		panic("failed to initialize embedder: " + err.Error())
	}

	redisClient := initRedis(ctx, cfg, log)
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	// Query embeddings are cached; entity writes always call the provider.
	var queryEmbedder embeddings.Embedder = embedder
	if redisClient != nil {
		queryEmbedder = cache.NewEmbeddingCache(embedder, redisClient, cfg.GetEmbeddingCacheTTL(), log)
	}

	eventBus := events.NewInMemoryBus(log)

	queue, closeQueue := initEmbeddingQueue(cfg, log)
	if closeQueue != nil {
		defer closeQueue()
	}
	refresher := embedding.NewRefresher(embedder, embedding.NewRepo(pool), queue, log)
	refresher.RegisterHandlers(eventBus)

	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	catalogModule := catalog.NewModule(pool, eventBus, val, log)
	customersModule := customers.NewModule(pool, eventBus, custservice.Options{
		PhoneRegion: cfg.GetDefaultPhoneRegion(),
		FoldAccents: cfg.GetAccentFoldLocations(),
	}, val, log)
	vendorsModule := vendors.NewModule(pool, eventBus, val, log)

	// Sells ingestion depends on the other modules only through its ports.
	sellsModule := sells.NewModule(pool,
		adapters.NewSellsComClientResolver(customersModule.Service()),
		adapters.NewSellsProductReader(catalogModule.Service()),
		adapters.NewSellsVendorUpserter(vendorsModule.Service()),
		val, log)

	functionsModule, err := functions.NewModule(functions.Deps{
		Pool:      pool,
		Embedder:  queryEmbedder,
		Catalog:   catalogModule,
		Customers: customersModule,
		Vendors:   vendorsModule,
		Config:    cfg,
	}, log)
	if err != nil {
		log.Error("failed to initialize functions module", "error", err)
		panic("failed to initialize functions module: " + err.Error())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   pool,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			catalogModule,
			customersModule,
			vendorsModule,
			sellsModule,
			functionsModule,
		},
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router.New(app),
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initRedis(ctx context.Context, cfg config.SchedulerConfig, log *logger.Logger) *redis.Client {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; embedding cache disabled")
		return nil
	}

	client, err := cache.NewRedisClient(ctx, cfg.GetRedisURL(), cfg.GetRedisTLSInsecure())
	if err != nil {
		log.Error("failed to connect to redis; embedding cache disabled", "error", err)
		return nil
	}
	return client
}

func initEmbeddingQueue(cfg config.SchedulerConfig, log *logger.Logger) (scheduler.EmbeddingScheduler, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; embeddings refresh inline")
		return nil, nil
	}

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize embedding queue client", "error", err)
		return nil, nil
	}

	return client, func() {
		_ = client.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
