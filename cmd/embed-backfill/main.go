package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"comercial_backend/internal/embedding"
	"comercial_backend/internal/events"
	"comercial_backend/platform/ai/embeddings"
	"comercial_backend/platform/config"
	"comercial_backend/platform/db"
	"comercial_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting embedding backfill")

	if err := run(cfg, log); err != nil {
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		return err
	}
	defer pool.Close()

	embedder, err := embeddings.New(cfg)
	if err != nil {
		log.Error("failed to initialize embedder", "error", err)
		return err
	}

	store := embedding.NewRepo(pool)
	refresher := embedding.NewRefresher(embedder, store, nil, log)
	backfill := embedding.NewBackfill(store, refresher, getPositiveIntEnv("BACKFILL_CONCURRENCY", 4), log)

	kinds := parseKinds(os.Getenv("BACKFILL_KINDS"))
	done, err := backfill.Run(ctx, kinds)
	if err != nil {
		log.Error("embedding backfill aborted", "embedded", done, "error", err)
		return err
	}
	log.Info("embedding backfill complete", "embedded", done)
	return nil
}

// parseKinds reads a comma-separated kind list; empty means every kind.
func parseKinds(value string) []events.EntityKind {
	if strings.TrimSpace(value) == "" {
		return embedding.Kinds
	}
	var kinds []events.EntityKind
	for _, part := range strings.Split(value, ",") {
		if kind := strings.TrimSpace(part); kind != "" {
			kinds = append(kinds, events.EntityKind(kind))
		}
	}
	return kinds
}

func getPositiveIntEnv(key string, fallback int) int {
	value, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || value < 1 {
		return fallback
	}
	return value
}
