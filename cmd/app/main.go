package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sharedcab/cmd"
	httpin "sharedcab/internal/adapters/in/http"
	"sharedcab/internal/adapters/out/inmem"
	"sharedcab/internal/adapters/out/kafka"
	"sharedcab/internal/adapters/out/postgres"
	"sharedcab/internal/adapters/out/redisstore"

	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configs, err := cmd.LoadConfig(".env")
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: configs.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, closeDB := mustOpenDatabase(configs)
	defer closeDB()

	infra, closeInfra := mustBuildInfrastructure(ctx, configs, logger)
	defer closeInfra()

	app := cmd.NewCompositionRoot(configs, gormDB, infra, logger)

	jobManager := app.JobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return app.Reactor().Run(gctx)
	})
	g.Go(func() error {
		return startWebServer(gctx, app, configs.HTTPPort, logger)
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("service stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("service stopped")
}

func mustOpenDatabase(configs cmd.Config) (*gorm.DB, func()) {
	sqlDB, err := sql.Open("postgres", configs.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := postgres.Migrate(gormDB); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	return gormDB, func() { _ = sqlDB.Close() }
}

// mustBuildInfrastructure picks the lock and cache backend and the event sink.
func mustBuildInfrastructure(ctx context.Context, configs cmd.Config, logger *slog.Logger) (cmd.Infrastructure, func()) {
	var (
		infra   cmd.Infrastructure
		closers []func() error
	)

	switch configs.LockBackend {
	case cmd.LockBackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     configs.RedisAddr,
			Password: configs.RedisPassword,
			DB:       configs.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect redis at %s: %v", configs.RedisAddr, err)
		}
		infra.Locker = redisstore.NewLocker(client)
		infra.SurgeCache = redisstore.NewSurgeCache(client)
		closers = append(closers, client.Close)
	default:
		logger.Warn("using in-process locks; run a single instance only")
		infra.Locker = inmem.NewLocker()
		infra.SurgeCache = inmem.NewSurgeCache()
	}

	if configs.KafkaHost != "" {
		publisher, err := kafka.NewPublisher(configs.KafkaHost, configs.KafkaBookingEventsTopic)
		if err != nil {
			log.Fatalf("failed to create kafka publisher: %v", err)
		}
		infra.Publisher = publisher
		closers = append(closers, publisher.Close)
	} else {
		infra.Publisher = kafka.NewLoggingPublisher(logger)
	}

	return infra, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Warn("failed to close resource", "error", err)
			}
		}
	}
}

func startWebServer(ctx context.Context, app *cmd.CompositionRoot, port string, logger *slog.Logger) error {
	e := httpin.NewEcho(httpin.NewServer(app.HTTPHandlers(), logger))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "port", port)
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}
