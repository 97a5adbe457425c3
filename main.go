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

	"eventlisting/api"
	"eventlisting/booking"
	"eventlisting/cache"
	"eventlisting/config"
	"eventlisting/database"
	"eventlisting/database/mongostore"
	"eventlisting/database/postgres"
	"eventlisting/event"
)

type eventStore interface {
	event.Store
	booking.EventChecker
}

// stores bundles the gateways for the configured driver.
type stores struct {
	events   eventStore
	bookings booking.Store
	ping     func(ctx context.Context) error
	close    func() error
}

func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		handle := database.NewMongoHandle(cfg.MongoURI)
		if err := mongostore.EnsureIndexes(ctx, handle, cfg.MongoDatabase); err != nil {
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		logger.Info("connected to mongodb", "database", cfg.MongoDatabase)
		return &stores{
			events:   mongostore.NewEventStore(handle, cfg.MongoDatabase),
			bookings: mongostore.NewBookingStore(handle, cfg.MongoDatabase),
			ping: func(ctx context.Context) error {
				client, err := handle.Get(ctx)
				if err != nil {
					return err
				}
				return client.Ping(ctx, nil)
			},
			close: handle.Close,
		}, nil

	default:
		handle := database.NewPostgresHandle(cfg.PostgresDSN)
		if err := postgres.Migrate(ctx, handle); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("connected to postgres")
		return &stores{
			events:   postgres.NewEventStore(handle),
			bookings: postgres.NewBookingStore(handle),
			ping: func(ctx context.Context) error {
				db, err := handle.Get(ctx)
				if err != nil {
					return err
				}
				return db.PingContext(ctx)
			},
			close: handle.Close,
		}, nil
	}
}

func openCache(ctx context.Context, cfg *config.Config, logger *slog.Logger) (event.Cache, func() error) {
	if cfg.RedisAddr == "" {
		logger.Info("event cache disabled")
		return event.NopCache{}, func() error { return nil }
	}

	client, err := cache.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		// The slug cache is an optimization; run without it.
		logger.Warn("event cache unavailable", "addr", cfg.RedisAddr, "err", err)
		return event.NopCache{}, func() error { return nil }
	}
	logger.Info("event cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	return cache.NewRedis(client, cfg.CacheTTL), client.Close
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger.Info("attempting to connect to store", "driver", cfg.StoreDriver)
	s, err := openStores(startCtx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := s.close(); err != nil {
			logger.Error("close store", "err", err)
		}
	}()

	eventCache, closeCache := openCache(startCtx, cfg, logger)
	defer func() { _ = closeCache() }()

	var limiter *api.RateLimiter
	if cfg.BookingRatePerMinute > 0 {
		limiter = api.NewRateLimiter(cfg.BookingRatePerMinute)
	}

	service := api.NewAPI(
		event.NewAccessor(s.events, eventCache, logger),
		booking.NewAccessor(s.bookings, s.events, logger),
		limiter,
		logger,
	)
	service.SetHealthCheck(s.ping)
	service.RegisterRoutes()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           service.Handler(),
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-sigCh:
	}

	logger.Info("shutdown signal received; shutting down gracefully")
	ctx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped cleanly")
	return nil
}

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}
