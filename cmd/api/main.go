package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jyl33/cardscanner-backend/api/routes"
	"github.com/jyl33/cardscanner-backend/internal/buyers"
	"github.com/jyl33/cardscanner-backend/internal/cards"
	"github.com/jyl33/cardscanner-backend/internal/orders"
	"github.com/jyl33/cardscanner-backend/internal/psa"
	"github.com/jyl33/cardscanner-backend/pkg/config"
	"github.com/jyl33/cardscanner-backend/pkg/db"
	"github.com/jyl33/cardscanner-backend/pkg/logger"
	"github.com/jyl33/cardscanner-backend/pkg/metrics"
	"github.com/jyl33/cardscanner-backend/pkg/migrate"
	"github.com/jyl33/cardscanner-backend/pkg/redis"
)

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

	dbClient, err := db.New(context.Background(), cfg.DB, cfg.FeatureFlags.UseSQLite, logg)
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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	apiMetrics := metrics.NewAPIMetrics(registry)

	psaClient, err := psa.NewClient(cfg.PSA, logg,
		psa.WithCache(redisClient),
		psa.WithMetrics(apiMetrics),
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create certification client", err)
		os.Exit(1)
	}

	cardsRepo := cards.NewRepository(dbClient.DB())
	cardsService, err := cards.NewService(cardsRepo, psaClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create cards service", err)
		os.Exit(1)
	}

	buyersRepo := buyers.NewRepository(dbClient.DB())
	buyersService, err := buyers.NewService(buyersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create buyers service", err)
		os.Exit(1)
	}

	sessionStore, err := orders.NewSessionStore(redisClient, cfg.Orders.SessionTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create session store", err)
		os.Exit(1)
	}
	ordersService, err := orders.NewService(
		orders.NewRepository(dbClient.DB()),
		cardsRepo,
		buyersRepo,
		sessionStore,
		logg,
		apiMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

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
		Handler: routes.NewRouter(routes.Deps{
			Config:   cfg,
			Logger:   logg,
			DB:       dbClient,
			Redis:    redisClient,
			Cards:    cardsService,
			Buyers:   buyersService,
			Orders:   ordersService,
			Registry: registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
