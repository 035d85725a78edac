package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/seatstack/backoffice/api/routes"
	"github.com/seatstack/backoffice/internal/banks"
	"github.com/seatstack/backoffice/internal/fixtures"
	"github.com/seatstack/backoffice/internal/members"
	"github.com/seatstack/backoffice/internal/reconcile"
	"github.com/seatstack/backoffice/internal/records"
	"github.com/seatstack/backoffice/internal/transactions"
	"github.com/seatstack/backoffice/internal/vendors"
	"github.com/seatstack/backoffice/pkg/config"
	"github.com/seatstack/backoffice/pkg/db"
	"github.com/seatstack/backoffice/pkg/logger"
	"github.com/seatstack/backoffice/pkg/metrics"
	"github.com/seatstack/backoffice/pkg/migrate"
	"github.com/seatstack/backoffice/pkg/redis"
	"github.com/seatstack/backoffice/pkg/sportsdata"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sportsClient, err := sportsdata.New(cfg.SportsData, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create sportsdata client", err)
		os.Exit(1)
	}

	recordsRepo := records.NewRepository(dbClient.DB())
	txnsRepo := transactions.NewRepository(dbClient.DB())

	recordsService, err := records.NewService(recordsRepo, txnsRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create records service", err)
		os.Exit(1)
	}
	reconcileService, err := reconcile.NewService(recordsRepo, txnsRepo, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create reconcile service", err)
		os.Exit(1)
	}
	txnsService, err := transactions.NewService(txnsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create transactions service", err)
		os.Exit(1)
	}
	vendorsService, err := vendors.NewService(vendors.NewRepository(dbClient.DB()), txnsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create vendors service", err)
		os.Exit(1)
	}
	membersService, err := members.NewService(members.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create members service", err)
		os.Exit(1)
	}
	banksService, err := banks.NewService(banks.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create banks service", err)
		os.Exit(1)
	}
	fixturesService, err := fixtures.NewService(sportsClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create fixtures service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, redisClient, registry, httpMetrics, routes.Services{
			Records:      recordsService,
			Reconcile:    reconcileService,
			Transactions: txnsService,
			Vendors:      vendorsService,
			Members:      membersService,
			Banks:        banksService,
			Fixtures:     fixturesService,
		}),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithFields(ctx, map[string]any{"signal": sig.String()}), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}
