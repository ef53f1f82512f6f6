package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/bookaro-backend/internal/catalog"
	"github.com/angelmondragon/bookaro-backend/internal/identity"
	"github.com/angelmondragon/bookaro-backend/internal/users"
	"github.com/angelmondragon/bookaro-backend/pkg/config"
	"github.com/angelmondragon/bookaro-backend/pkg/db"
	"github.com/angelmondragon/bookaro-backend/pkg/logger"
	"github.com/angelmondragon/bookaro-backend/pkg/migrate"
)

// seed loads identities and sample vendors from a JSON file of the form
// {"identities": [...], "vendors": [...]}. Reruns are safe.
func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})
	_ = godotenv.Load()

	file := flag.String("file", "", "seed file (defaults to BOOKARO_IDENTITY_SEED_FILE)")
	skipCatalog := flag.Bool("identities-only", false, "seed identities but not vendors and services")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	path := *file
	if path == "" {
		path = cfg.Identity.SeedFile
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "missing -file and BOOKARO_IDENTITY_SEED_FILE")
		os.Exit(1)
	}
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"file": path,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	requireResource(ctx, logg, "dev migrations", migrate.MaybeRunDev(ctx, cfg, logg, dbClient))

	identities, err := identity.LoadSeedIdentities(path)
	requireResource(ctx, logg, "identity seed file", err)

	userRepo := users.NewRepository(dbClient.DB())
	seeder, err := identity.NewSeeder(userRepo, cfg.Password, logg)
	requireResource(ctx, logg, "identity seeder", err)

	identityResult, err := seeder.Seed(ctx, identities)
	requireResource(ctx, logg, "identity seeding", err)
	logg.Info(logg.WithFields(ctx, map[string]any{
		"created": identityResult.Created,
		"updated": identityResult.Updated,
	}), "identities seeded")

	if *skipCatalog {
		return
	}

	vendors, err := catalog.LoadSeedVendors(path)
	requireResource(ctx, logg, "catalog seed file", err)

	catalogResult, err := catalog.Seed(ctx, catalog.NewRepository(dbClient.DB()), userRepo, vendors, logg)
	requireResource(ctx, logg, "catalog seeding", err)
	logg.Info(logg.WithFields(ctx, map[string]any{
		"vendors":  catalogResult.Vendors,
		"services": catalogResult.Services,
	}), "catalog seeded")
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
