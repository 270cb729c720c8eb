package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/angelmondragon/ayurcart-backend/pkg/config"
	"github.com/angelmondragon/ayurcart-backend/pkg/db"
	"github.com/angelmondragon/ayurcart-backend/pkg/logger"
	"github.com/angelmondragon/ayurcart-backend/pkg/migrate"
	"github.com/joho/godotenv"
)

// dbsync reconciles the schema with the models. Production only creates missing tables.
func main() {
	logg := logger.New(logger.Options{ServiceName: "dbsync"})
	_ = godotenv.Load()

	forceSafe := flag.Bool("safe", false, "only create missing tables, even outside production")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "dbsync",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	production := cfg.App.IsProd() || *forceSafe
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":        cfg.App.Env,
		"production": production,
	})

	client, err := db.New(ctx, cfg.DB, cfg.FeatureFlags, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer client.Close()

	report, err := migrate.SyncSchema(ctx, client.DB(), production)
	if err != nil {
		logg.Error(ctx, "schema sync failed", err)
		client.Close()
		os.Exit(1)
	}

	logg.Info(logg.WithFields(ctx, map[string]any{
		"tables":  report.Tables,
		"created": report.Created,
		"altered": report.Altered,
	}), "schema sync complete")

	if len(report.Created) > 0 {
		fmt.Println("created tables:", strings.Join(report.Created, ", "))
	}
	if report.Altered {
		fmt.Println("existing tables altered to match models")
	}
	fmt.Printf("schema sync complete (%d models)\n", report.Tables)
}
