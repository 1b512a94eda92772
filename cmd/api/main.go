// cmd/api/main.go

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"cityscout/internal/adapter/storage"
	"cityscout/internal/config"
	"cityscout/internal/domain/resource"
	"cityscout/internal/events"
	"cityscout/internal/logger"
	"cityscout/internal/migrate"
	"cityscout/internal/server"
	"cityscout/internal/service/cache"
	"cityscout/internal/service/resolver"
	"cityscout/internal/upstream"
)

func main() {
	// Load environment variables from a .env file when one exists
	_ = godotenv.Load()

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Named("main")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("Failed to load configuration", "error", err)
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize dependencies
	db, err := initDatabase(ctx, cfg.Database)
	if err != nil {
		log.Fatalw("Failed to initialize database", "error", err)
	}
	defer db.Close()

	if err := migrate.EnsureSchema(ctx, db); err != nil {
		log.Fatalw("Failed to ensure schema", "error", err)
	}

	// NATS is optional: without it the service runs, just without refresh
	// events or the websocket stream.
	var natsConn *nats.Conn
	if cfg.NATS.URL != "" {
		natsConn, err = initNATS(cfg.NATS)
		if err != nil {
			log.Fatalw("Failed to connect to NATS", "error", err)
		}
		defer natsConn.Close()
	}

	// Initialize storage adapters
	locationStore := storage.NewLocationStore(db)
	resourceStore := storage.NewResourceStore(db)

	// Initialize the resolver over the upstream geocoder
	geocoder := upstream.NewGeocodeClient(cfg.Providers)
	locationResolver := resolver.New(locationStore, geocoder)

	// Initialize the cache coordinator and register one adapter per kind
	var publisher *events.Publisher
	if natsConn != nil {
		publisher = events.NewPublisher(natsConn, cfg.NATS.RefreshSubject)
	}

	coordinator := cache.NewCoordinator(resourceStore, freshnessPolicy(cfg.Cache), publisher)
	coordinator.Register(upstream.NewWeatherClient(cfg.Providers))
	coordinator.Register(upstream.NewYelpClient(cfg.Providers))
	coordinator.Register(upstream.NewMovieClient(cfg.Providers))
	coordinator.Register(upstream.NewMeetupClient(cfg.Providers))
	coordinator.Register(upstream.NewTrailClient(cfg.Providers))

	// Initialize HTTP server
	httpServer := server.NewServer(cfg.Server, natsConn, cfg.NATS.RefreshSubject, locationResolver, coordinator)

	// Start HTTP server
	go func() {
		log.Infow("Starting HTTP server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("HTTP server error", "error", err)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	log.Infow("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warnw("HTTP server shutdown error", "error", err)
	}

	log.Infow("Shutdown complete")
}

// freshnessPolicy builds the per-kind TTL policy from configuration.
func freshnessPolicy(cfg config.CacheConfig) resource.FreshnessPolicy {
	return resource.NewFreshnessPolicy(map[resource.Kind]time.Duration{
		resource.Weather:     cfg.WeatherTTL,
		resource.Restaurants: cfg.RestaurantsTTL,
		resource.Movies:      cfg.MoviesTTL,
		resource.Meetups:     cfg.MeetupsTTL,
		resource.Trails:      cfg.TrailsTTL,
	})
}

// Initialize database connection
func initDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Database, cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return db, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	log := logger.Named("nats")

	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warnw("NATS disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Infow("NATS reconnected", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Infow("NATS connection closed")
		}),
	}

	nc, err := nats.Connect(cfg.URL, options...)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to NATS: %w", err)
	}

	return nc, nil
}
