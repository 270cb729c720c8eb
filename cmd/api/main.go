package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angelmondragon/ayurcart-backend/api/routes"
	"github.com/angelmondragon/ayurcart-backend/api/validators"
	"github.com/angelmondragon/ayurcart-backend/internal/admin"
	"github.com/angelmondragon/ayurcart-backend/internal/auth"
	"github.com/angelmondragon/ayurcart-backend/internal/cart"
	"github.com/angelmondragon/ayurcart-backend/internal/catalog"
	"github.com/angelmondragon/ayurcart-backend/internal/imports"
	"github.com/angelmondragon/ayurcart-backend/internal/media"
	"github.com/angelmondragon/ayurcart-backend/internal/users"
	"github.com/angelmondragon/ayurcart-backend/pkg/config"
	"github.com/angelmondragon/ayurcart-backend/pkg/db"
	"github.com/angelmondragon/ayurcart-backend/pkg/logger"
	"github.com/angelmondragon/ayurcart-backend/pkg/metrics"
	"github.com/angelmondragon/ayurcart-backend/pkg/migrate"
	"github.com/angelmondragon/ayurcart-backend/pkg/redis"
	"github.com/angelmondragon/ayurcart-backend/pkg/security"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
)

const shutdownTimeout = 15 * time.Second

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api exited with error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) (err error) {
	dbClient, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, dbClient.Close())
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		client, redisErr := redis.New(ctx, cfg.Redis, logg)
		if redisErr != nil {
			logg.Warn(logg.WithField(ctx, "error", redisErr.Error()), "redis unavailable, continuing without cache")
		} else {
			redisClient = client
			defer func() {
				err = multierr.Append(err, redisClient.Close())
			}()
		}
	} else {
		logg.Warn(ctx, "redis not configured, carts are kept in memory")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	importMetrics := metrics.NewImportMetrics(registry)
	cartMetrics := metrics.NewCartMetrics(registry)

	conn := dbClient.DB()
	hasher := security.NewHasher(cfg.Password)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  users.NewRepository(conn),
		Hasher:    hasher,
		JWTConfig: cfg.JWT,
		Now:       time.Now,
	})
	if err != nil {
		return err
	}

	catalogService, err := catalog.NewService(catalog.NewRepository(conn))
	if err != nil {
		return err
	}

	storage := cart.MemoryFactory()
	if redisClient != nil {
		storage = cart.RedisFactory(redisClient, cfg.Cart.TTL)
	}
	cartService, err := cart.NewService(storage, catalogService, cartMetrics, logg)
	if err != nil {
		return err
	}

	resources, err := admin.NewRegistry(conn, validators.ValidateVar, hasher)
	if err != nil {
		return err
	}

	importService, err := imports.NewService(dbClient, importMetrics, logg)
	if err != nil {
		return err
	}

	diskStore, err := media.NewDiskStore(cfg.Media.UploadDir)
	if err != nil {
		return err
	}
	mediaService, err := media.NewService(diskStore, cfg.Media, time.Now)
	if err != nil {
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}

	server := &http.Server{
		Addr: ":" + port,
		Handler: routes.NewRouter(routes.Dependencies{
			Config:      cfg,
			Logger:      logg,
			DB:          dbClient,
			Redis:       redisClient,
			Gatherer:    registry,
			HTTPMetrics: httpMetrics,
			Auth:        authService,
			Catalog:     catalogService,
			Cart:        cartService,
			Resources:   resources,
			Imports:     importService,
			Media:       mediaService,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(logg.WithField(ctx, "port", port), "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logg.Info(context.Background(), "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
