package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/Spok95/print-stock/internal/accounting"
	"github.com/Spok95/print-stock/internal/config"
	"github.com/Spok95/print-stock/internal/domain/agencies"
	"github.com/Spok95/print-stock/internal/domain/customers"
	"github.com/Spok95/print-stock/internal/domain/materials"
	"github.com/Spok95/print-stock/internal/domain/orders"
	"github.com/Spok95/print-stock/internal/domain/products"
	"github.com/Spok95/print-stock/internal/domain/rolls"
	"github.com/Spok95/print-stock/internal/infra/db"
	httpx "github.com/Spok95/print-stock/internal/infra/http"
	"github.com/Spok95/print-stock/internal/infra/logger"
	"github.com/Spok95/print-stock/internal/ordering"
	"github.com/Spok95/print-stock/internal/reports"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("postgres", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	rollsRepo := rolls.NewRepo(pool)
	agenciesRepo := agencies.NewRepo(pool)
	customersRepo := customers.NewRepo(pool)
	materialsRepo := materials.NewRepo(pool)
	productsRepo := products.NewRepo(pool)
	ordersRepo := orders.NewRepo(pool)

	engine := accounting.NewEngine(pool, log)
	orderingSvc := ordering.NewService(pool, log, productsRepo, customersRepo)
	reportsSvc := reports.NewService(ordersRepo, productsRepo, materialsRepo)

	handlers := httpx.NewHandlers(log, engine, orderingSvc, reportsSvc,
		rollsRepo, agenciesRepo, customersRepo, materialsRepo, productsRepo, ordersRepo)

	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, handlers)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}
