package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dineline-app/dineline-backend/api/routes"
	"github.com/dineline-app/dineline-backend/internal/authz"
	"github.com/dineline-app/dineline-backend/internal/menu"
	"github.com/dineline-app/dineline-backend/internal/notifications"
	"github.com/dineline-app/dineline-backend/internal/orders"
	"github.com/dineline-app/dineline-backend/internal/restaurants"
	"github.com/dineline-app/dineline-backend/internal/reviews"
	"github.com/dineline-app/dineline-backend/internal/users"
	"github.com/dineline-app/dineline-backend/pkg/config"
	"github.com/dineline-app/dineline-backend/pkg/db"
	"github.com/dineline-app/dineline-backend/pkg/logger"
	"github.com/dineline-app/dineline-backend/pkg/metrics"
	"github.com/dineline-app/dineline-backend/pkg/migrate"
	"github.com/dineline-app/dineline-backend/pkg/redis"
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

	restaurantsRepo := restaurants.NewRepository(dbClient.DB())
	menuRepo := menu.NewRepository(dbClient.DB())
	reviewsRepo := reviews.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())
	notificationsRepo := notifications.NewRepository(dbClient.DB())

	authorizer, err := authz.NewAuthorizer(users.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create authorizer", err)
		os.Exit(1)
	}

	menuCache, err := menu.NewCache(redisClient, cfg.Menu.CacheTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create menu cache", err)
		os.Exit(1)
	}

	restaurantsService, err := restaurants.NewService(restaurantsRepo, authorizer)
	if err != nil {
		logg.Error(context.Background(), "failed to create restaurants service", err)
		os.Exit(1)
	}

	menuService, err := menu.NewService(menuRepo, restaurantsRepo, authorizer, menuCache, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create menu service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notificationsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	reviewsService, err := reviews.NewService(reviewsRepo, restaurantsRepo, ordersRepo, notificationsRepo, authorizer, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create reviews service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo, restaurantsRepo, menuRepo, notificationsRepo, authorizer, dbClient, cfg.Orders.TaxRate)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry, "api")

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	id := os.Getenv("DYNO")
	if id == "" {
		id = "local"
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			httpMetrics,
			restaurantsService,
			menuService,
			reviewsService,
			ordersService,
			notificationsService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
