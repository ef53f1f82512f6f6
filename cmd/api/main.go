package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/bookaro-backend/api"
	"github.com/angelmondragon/bookaro-backend/api/routes"
	"github.com/angelmondragon/bookaro-backend/internal/addresses"
	"github.com/angelmondragon/bookaro-backend/internal/auth"
	"github.com/angelmondragon/bookaro-backend/internal/bookings"
	"github.com/angelmondragon/bookaro-backend/internal/catalog"
	"github.com/angelmondragon/bookaro-backend/internal/favorites"
	"github.com/angelmondragon/bookaro-backend/internal/identity"
	"github.com/angelmondragon/bookaro-backend/internal/reviews"
	"github.com/angelmondragon/bookaro-backend/internal/users"
	"github.com/angelmondragon/bookaro-backend/pkg/config"
	"github.com/angelmondragon/bookaro-backend/pkg/db"
	"github.com/angelmondragon/bookaro-backend/pkg/instance"
	"github.com/angelmondragon/bookaro-backend/pkg/logger"
	"github.com/angelmondragon/bookaro-backend/pkg/metrics"
	"github.com/angelmondragon/bookaro-backend/pkg/migrate"
	"github.com/angelmondragon/bookaro-backend/pkg/redis"
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
		Env:         cfg.App.Env,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			logg.Error(ctx, "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(ctx, "redis not configured; aggregate locks, login rate limiting and idempotent replay disabled")
	}

	userRepo := users.NewRepository(dbClient.DB())
	if cfg.Identity.SeedFile != "" {
		if cfg.App.IsProd() {
			logg.Warn(logg.WithField(ctx, "seed_file", cfg.Identity.SeedFile), "seeding identities in production")
		}
		if err := seedIdentities(ctx, cfg, logg, userRepo); err != nil {
			logg.Error(ctx, "failed to seed identities", err)
			os.Exit(1)
		}
	}

	location, err := cfg.Booking.Location()
	if err != nil {
		logg.Error(ctx, "invalid booking timezone", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	gate, err := identity.NewGate(userRepo)
	exitOnErr(ctx, logg, "identity gate", err)

	catalogRepo := catalog.NewRepository(dbClient.DB())
	catalogService, err := catalog.NewService(catalogRepo)
	exitOnErr(ctx, logg, "catalog service", err)

	addressRepo := addresses.NewRepository(dbClient.DB())
	bookingRepo := bookings.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  userRepo,
		JWTConfig: cfg.JWT,
	})
	exitOnErr(ctx, logg, "auth service", err)

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
		JWTConfig:      cfg.JWT,
		Logger:         logg,
	})
	exitOnErr(ctx, logg, "register service", err)

	userService, err := users.NewService(users.ServiceParams{
		Repo:     userRepo,
		Identity: gate,
		Password: cfg.Password,
		Logger:   logg,
	})
	exitOnErr(ctx, logg, "users service", err)

	bookingService, err := bookings.NewService(bookings.ServiceParams{
		DB:          dbClient,
		Repo:        bookingRepo,
		Identity:    gate,
		Catalog:     catalogService,
		Addresses:   addressRepo,
		Metrics:     metrics.NewBookingMetrics(registry),
		Logger:      logg,
		MinLeadTime: cfg.Booking.MinLeadTime,
		Location:    location,
	})
	exitOnErr(ctx, logg, "bookings service", err)

	reviewParams := reviews.ServiceParams{
		DB:       dbClient,
		Repo:     reviews.NewRepository(dbClient.DB()),
		Catalog:  catalogRepo,
		Services: catalogService,
		Bookings: bookingRepo,
		Identity: gate,
		LockTTL:  cfg.Reviews.AggregateLockTTL,
		LockWait: cfg.Reviews.AggregateLockWait,
		Metrics:  metrics.NewReviewMetrics(registry),
		Logger:   logg,
	}
	if redisClient != nil {
		reviewParams.Locker = redisClient
	}
	reviewService, err := reviews.NewService(reviewParams)
	exitOnErr(ctx, logg, "reviews service", err)

	addressService, err := addresses.NewService(addresses.ServiceParams{
		DB:       dbClient,
		Repo:     addressRepo,
		Users:    userRepo,
		Identity: gate,
	})
	exitOnErr(ctx, logg, "addresses service", err)

	favoriteService, err := favorites.NewService(favorites.ServiceParams{
		Repo:     favorites.NewRepository(dbClient.DB()),
		Catalog:  catalogService,
		Identity: gate,
	})
	exitOnErr(ctx, logg, "favorites service", err)

	router := routes.NewRouter(cfg, logg, routes.Dependencies{
		DB:        dbClient,
		Redis:     redisClient,
		Gatherer:  registry,
		HTTP:      metrics.NewHTTPMetrics(registry),
		Auth:      authService,
		Register:  registerService,
		Users:     userService,
		Catalog:   catalogService,
		Bookings:  bookingService,
		Reviews:   reviewService,
		Addresses: addressService,
		Favorites: favoriteService,
	})

	server := api.NewServer(cfg, router)
	startCtx := logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     server.Addr,
		"instance": instance.GetID(),
	})
	logg.Info(startCtx, "starting api server")

	if err := api.Serve(ctx, server, logg); err != nil {
		logg.Error(startCtx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func seedIdentities(ctx context.Context, cfg *config.Config, logg *logger.Logger, userRepo *users.Repository) error {
	identities, err := identity.LoadSeedIdentities(cfg.Identity.SeedFile)
	if err != nil {
		return err
	}
	seeder, err := identity.NewSeeder(userRepo, cfg.Password, logg)
	if err != nil {
		return err
	}
	result, err := seeder.Seed(ctx, identities)
	if err != nil {
		return err
	}
	logg.Info(logg.WithFields(ctx, map[string]any{
		"created": result.Created,
		"updated": result.Updated,
	}), "identities seeded")
	return nil
}

func exitOnErr(ctx context.Context, logg *logger.Logger, component string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, "failed to create "+component, err)
	os.Exit(1)
}
