package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"posts-api/api/router"
	"posts-api/config"
	"posts-api/db"
	"posts-api/eventbus"
	"posts-api/internal/logger"
	"posts-api/repositories"
	"posts-api/services"
)

// @title           Posts API
// @version         1.0
// @description     Create, filter, update and delete posts
// @BasePath        /api/v1
func main() {
	if err := run(); err != nil {
		logger.Log.Errorf("posts-api exited: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Logging)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	bus, err := openEventBus(cfg.Kafka)
	if err != nil {
		return err
	}
	defer bus.Close()

	postSvc := services.NewPostService(repo, eventbus.NewPostEventPublisher(bus, eventbus.NewTopic(cfg.Kafka.Topic)))
	engine := router.New(router.Deps{Posts: postSvc, Storage: cfg.Storage.Driver})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.WithCORS(engine, cfg.CORS),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	logger.InfoWithFields("posts-api started", logger.Fields{
		"addr":    srv.Addr,
		"storage": cfg.Storage.Driver,
		"kafka":   cfg.Kafka.Enabled,
	})

	select {
	case sig := <-sigChan:
		logger.Log.Infof("received signal %s, shutting down", sig)
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	logger.Log.Info("posts-api stopped")
	return nil
}

// openStore selects the post repository for the configured driver and
// returns a function that releases its connections.
func openStore(ctx context.Context, cfg *config.AppConfig) (repositories.PostRepository, func(), error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		gdb, err := db.OpenPostgres(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewGormPostRepository(gdb), func() {
			if err := db.ClosePostgres(gdb); err != nil {
				logger.Log.Errorf("close postgres: %v", err)
			}
		}, nil
	case config.DriverMongo:
		client, database, err := db.OpenMongo(ctx, cfg.Mongo)
		if err != nil {
			return nil, nil, err
		}
		return repositories.NewMongoPostRepository(database), func() {
			if err := client.Disconnect(context.Background()); err != nil {
				logger.Log.Errorf("disconnect mongo: %v", err)
			}
		}, nil
	case config.DriverMemory:
		logger.Log.Warn("using in-memory post store, data is lost on restart")
		return repositories.NewMemoryPostRepository(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

func openEventBus(cfg config.KafkaConfig) (eventbus.EventBus, error) {
	if !cfg.Enabled {
		return eventbus.NopEventBus{}, nil
	}
	if err := eventbus.EnsureTopics(cfg.Brokers, eventbus.NewTopic(cfg.Topic), cfg.Partitions); err != nil {
		logger.Log.Errorf("failed to ensure eventbus topics: %v", err)
	}
	bus, err := eventbus.NewKafkaEventBus(cfg.Brokers)
	if err != nil {
		return nil, fmt.Errorf("create event bus: %w", err)
	}
	return bus, nil
}
