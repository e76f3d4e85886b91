package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	cartHTTP "github.com/tair/storefront-state/internal/cart/delivery/http"
	cartdomain "github.com/tair/storefront-state/internal/cart/domain"
	compareHTTP "github.com/tair/storefront-state/internal/compare/delivery/http"
	comparedomain "github.com/tair/storefront-state/internal/compare/domain"
	wishlistHTTP "github.com/tair/storefront-state/internal/wishlist/delivery/http"
	wishlistdomain "github.com/tair/storefront-state/internal/wishlist/domain"
	"github.com/tair/storefront-state/kafka"
	"github.com/tair/storefront-state/pkg/config"
	"github.com/tair/storefront-state/pkg/database"
	"github.com/tair/storefront-state/pkg/logger"
	"github.com/tair/storefront-state/pkg/state"
	"github.com/tair/storefront-state/pkg/storage"
	"github.com/tair/storefront-state/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("storefront-state", true)
		logger.Logger.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.ServiceName, cfg.IsDevelopment())
	logger.SetLevel(cfg.LogLevel)

	logger.Logger.Info().
		Str("service", cfg.ServiceName).
		Str("environment", cfg.Environment).
		Str("snapshot_backend", cfg.SnapshotBackend).
		Msg("Starting storefront state service")

	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(cfg.ServiceName, cfg.JaegerEndpoint)
		if err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to initialize tracer")
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Warn().Err(err).Msg("Tracer shutdown failed")
			}
		}()
	}

	snapshots, sqlDB := newSnapshotStore(cfg)
	if sqlDB != nil {
		defer sqlDB.Close()
	}

	cartHandler, err := cartHTTP.InitializeCartHandler(snapshots)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize cart handler")
	}
	defer cartHandler.Store().Close()

	wishlistHandler, err := wishlistHTTP.InitializeWishlistHandler(snapshots)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize wishlist handler")
	}
	defer wishlistHandler.Store().Close()

	compareHandler, err := compareHTTP.InitializeCompareHandler(snapshots)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize compare handler")
	}
	defer compareHandler.Store().Close()

	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := kafka.NewPublisher(cfg.KafkaBrokers)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka unavailable, mutation events disabled")
		} else {
			defer publisher.Close()
			publishStoreChanges(publisher, cartHandler, wishlistHandler, compareHandler)
		}
	}

	router := mux.NewRouter()
	cartHandler.RegisterRoutes(router)
	wishlistHandler.RegisterRoutes(router)
	compareHandler.RegisterRoutes(router)
	registerHealthCheck(router, sqlDB)
	router.Handle("/metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: otelhttp.NewHandler(c.Handler(router), "storefront-state"),
	}

	go func() {
		logger.Logger.Info().
			Str("port", cfg.HTTPPort).
			Str("metrics_endpoint", "/metrics").
			Msg("HTTP server started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Logger.Warn().Err(err).Msg("HTTP server shutdown failed")
	}
}

// newSnapshotStore selects the durable medium for store snapshots. When the
// configured medium is unreachable the service degrades to in-memory
// snapshots instead of refusing to start. The returned *sql.DB is non-nil
// only for the postgres backend and feeds the health check.
func newSnapshotStore(cfg *config.Config) (storage.SnapshotStore, *sql.DB) {
	switch cfg.SnapshotBackend {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Logger.Warn().
				Err(err).
				Str("addr", cfg.RedisAddr).
				Msg("Redis unavailable, falling back to in-memory snapshots")
			return storage.NewMemoryStore(), nil
		}

		logger.Logger.Info().Str("addr", cfg.RedisAddr).Msg("Using redis snapshot backend")
		return storage.NewTracedStore(storage.NewRedisStore(client)), nil

	case "postgres":
		sqlDB, err := database.NewPostgresConnection(database.Config{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
			SSLMode:  cfg.DBSSLMode,
		})
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Postgres unavailable, falling back to in-memory snapshots")
			return storage.NewMemoryStore(), nil
		}

		db, err := database.NewGormConnection(sqlDB)
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Postgres unavailable, falling back to in-memory snapshots")
			sqlDB.Close()
			return storage.NewMemoryStore(), nil
		}

		store := storage.NewGormStore(db)
		if err := store.AutoMigrate(); err != nil {
			logger.Logger.Fatal().Err(err).Msg("Failed to run snapshot migrations")
		}

		logger.Logger.Info().Str("database", cfg.DBName).Msg("Using postgres snapshot backend")
		return storage.NewTracedStore(store), sqlDB

	case "memory":
		logger.Logger.Info().Msg("Using in-memory snapshot backend")
		return storage.NewMemoryStore(), nil

	default:
		store, err := storage.NewFileStore(cfg.SnapshotDir)
		if err != nil {
			logger.Logger.Warn().
				Err(err).
				Str("dir", cfg.SnapshotDir).
				Msg("Snapshot directory unavailable, falling back to in-memory snapshots")
			return storage.NewMemoryStore(), nil
		}

		logger.Logger.Info().Str("dir", cfg.SnapshotDir).Msg("Using file snapshot backend")
		return storage.NewTracedStore(store), nil
	}
}

// publishStoreChanges forwards aggregate changes to Kafka through each
// store's subscription layer, so only commits that move an aggregate produce
// an event.
func publishStoreChanges(publisher *kafka.Publisher, cart *cartHTTP.CartHandler, wishlist *wishlistHTTP.WishlistHandler, compare *compareHTTP.CompareHandler) {
	type cartTotals struct {
		Items int
		Count int
		Price float64
	}

	state.Subscribe(cart.Store().Core(), func(s cartdomain.Snapshot) cartTotals {
		return cartTotals{Items: s.TotalItems, Count: len(s.Items), Price: s.TotalPrice}
	}, func(t cartTotals) {
		_ = publisher.PublishStoreChanged(context.Background(), kafka.TopicCartChanged, kafka.StoreChangedEvent{
			Store:      "cart",
			ItemCount:  t.Count,
			TotalItems: t.Items,
			TotalPrice: t.Price,
		})
	})

	state.Subscribe(wishlist.Store().Core(), func(s wishlistdomain.Snapshot) int {
		return s.TotalItems
	}, func(total int) {
		_ = publisher.PublishStoreChanged(context.Background(), kafka.TopicWishlistChanged, kafka.StoreChangedEvent{
			Store:      "wishlist",
			ItemCount:  total,
			TotalItems: total,
		})
	})

	state.Subscribe(compare.Store().Core(), func(s comparedomain.Snapshot) int {
		return len(s.Items)
	}, func(count int) {
		_ = publisher.PublishStoreChanged(context.Background(), kafka.TopicCompareChanged, kafka.StoreChangedEvent{
			Store:     "compare",
			ItemCount: count,
		})
	})
}

func registerHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"success":false,"error":"Database unavailable"}`))
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success":true,"message":"Storefront state service is healthy"}`))
	}).Methods("GET")
}
