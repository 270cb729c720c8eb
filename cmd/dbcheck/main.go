package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/angelmondragon/ayurcart-backend/pkg/config"
	"github.com/angelmondragon/ayurcart-backend/pkg/db"
	"github.com/angelmondragon/ayurcart-backend/pkg/logger"
	"github.com/joho/godotenv"
)

const checkTimeout = 10 * time.Second

// dbcheck opens the configured database, pings it and exits 0 on success, 1 otherwise.
func main() {
	logg := logger.New(logger.Options{ServiceName: "dbcheck"})
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "dbcheck",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	if err := check(ctx, cfg, logg); err != nil {
		logg.Error(ctx, "database check failed", err)
		fmt.Fprintln(os.Stderr, "database connection failed:", err)
		os.Exit(1)
	}
	fmt.Println("database connection ok")
}

func check(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	client, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx = logg.WithField(ctx, "dialect", client.Dialect())
	if err := client.Ping(ctx); err != nil {
		return err
	}
	logg.Info(ctx, "database reachable")
	return nil
}
