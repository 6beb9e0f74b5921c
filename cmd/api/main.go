// Package main is the entry point for the packing-list API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pkordes/packing-list/backend/internal/config"
	"github.com/pkordes/packing-list/backend/internal/handler"
	"github.com/pkordes/packing-list/backend/internal/middleware"
	"github.com/pkordes/packing-list/backend/internal/repo"
	"github.com/pkordes/packing-list/backend/internal/service"
	"github.com/pkordes/packing-list/backend/internal/weather"
	"github.com/pkordes/packing-list/backend/migrations"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	// --- Config -----------------------------------------------------------
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	var logLevel slog.Level
	if err := logLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		logLevel = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// --- Store ------------------------------------------------------------
	trips, closeStore, err := openStore(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open trip store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	slog.Info("trip store ready", "driver", cfg.StoreDriver)

	// --- Services ---------------------------------------------------------
	forecaster := weather.NewClient(cfg.WeatherGeocodingURL, cfg.WeatherForecastURL, cfg.WeatherTimeout)
	srvHandler := handler.NewServer(handler.Services{
		Trips:      service.NewTripService(trips),
		Items:      service.NewItemService(trips),
		Categories: service.NewCategoryService(trips),
		Weather:    service.NewWeatherService(trips, forecaster),
		Export:     service.NewExportService(trips),
	}, logger)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Mount("/", srvHandler.Routes())

	// --- HTTP Server ------------------------------------------------------
	// WriteTimeout leaves room for the weather refresh round trip.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.WeatherTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStore connects the configured trip store and returns it with a close func.
func openStore(ctx context.Context, cfg config.Config) (repo.TripRepo, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		return openMongo(ctx, cfg)
	default:
		return openPostgres(ctx, cfg)
	}
}

// openPostgres opens a pgx pool, verifies connectivity and applies pending
// goose migrations before any request is served.
func openPostgres(ctx context.Context, cfg config.Config) (repo.TripRepo, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}

	// goose needs database/sql; borrow a *sql.DB backed by the same pool.
	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("create goose provider: %w", err)
	}
	results, err := provider.Up(ctx)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	for _, res := range results {
		slog.Info("migration applied", "version", res.Source.Version, "duration_ms", res.Duration.Milliseconds())
	}

	return repo.NewTripRepo(pool), pool.Close, nil
}

// openMongo connects to MongoDB and makes sure the trips indexes exist.
func openMongo(ctx context.Context, cfg config.Config) (repo.TripRepo, func(), error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect: %w", err)
	}
	disconnect := func() {
		dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dcancel()
		if err := client.Disconnect(dctx); err != nil {
			slog.Error("mongo disconnect", "error", err)
		}
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		disconnect()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}

	db := client.Database(cfg.MongoDatabase)
	if err := repo.EnsureMongoIndexes(connectCtx, db); err != nil {
		disconnect()
		return nil, nil, fmt.Errorf("ensure indexes: %w", err)
	}
	n, err := repo.BackfillMongoItemIDs(ctx, db)
	if err != nil {
		disconnect()
		return nil, nil, fmt.Errorf("backfill item ids: %w", err)
	}
	if n > 0 {
		slog.Info("backfilled item ids", "trips", n)
	}
	return repo.NewMongoTripRepo(db), disconnect, nil
}
