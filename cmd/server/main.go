package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"barbershop/internal/auth"
	"barbershop/internal/bootstrap"
	"barbershop/internal/config"
	"barbershop/internal/domain"
	"barbershop/internal/infrastructure/logger"
	"barbershop/internal/infrastructure/mysql"
	"barbershop/internal/infrastructure/tracing"
	"barbershop/internal/order"
	"barbershop/internal/review"
	"barbershop/internal/server"
	"barbershop/internal/store"
	"barbershop/internal/store/file"
	"barbershop/internal/store/memory"
	mysqlstore "barbershop/internal/store/mysql"
	"barbershop/internal/validation"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.App.Name)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	if err := run(cfg, zapLogger); err != nil {
		zapLogger.Fatal("server error", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}

func run(cfg *config.Config, zapLogger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, zapLogger)
	if err != nil {
		return fmt.Errorf("initialising tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			zapLogger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	backend, closeBackend, err := newBackend(ctx, cfg, zapLogger)
	if err != nil {
		return err
	}
	defer closeBackend()

	orders := store.NewCollection[domain.Order]("orders", backend, zapLogger)
	reviews := store.NewCollection[domain.Review]("reviews", backend, zapLogger)

	if cfg.Storage.SeedOnBoot {
		seed, err := bootstrap.DefaultSeed()
		if err != nil {
			return err
		}
		if err := bootstrap.Seed(ctx, seed, orders, reviews, zapLogger); err != nil {
			return err
		}
	}

	sessions, closeSessions, err := newSessionStore(ctx, cfg, zapLogger)
	if err != nil {
		return err
	}
	defer closeSessions()

	if cfg.UsesDefaultAdminPassword() {
		zapLogger.Warn("ADMIN_PASSWORD is not set, using the built-in default")
	}

	gate := auth.NewGate(sessions, cfg.Auth.AdminPassword, cfg.Auth.SessionTTL, zapLogger.With(zap.String("module", "auth")))
	v := validation.New()

	router := server.NewRouter(server.Handlers{
		Orders:  order.NewModule(orders, gate, v, zapLogger),
		Reviews: review.NewModule(reviews, gate, v, zapLogger),
		Auth:    auth.NewController(gate, cfg.Auth, zapLogger),
	}, gate, server.RouterConfig{
		ServiceName: cfg.App.Name,
		CookieName:  cfg.Auth.CookieName,
		LoginPath:   cfg.Auth.LoginPath,
	}, zapLogger)

	srv := server.New(cfg.Server, router, zapLogger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.Start)
	g.Go(func() error {
		<-gctx.Done()
		zapLogger.Info("received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}

func newBackend(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) (store.Backend, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverMySQL:
		db, err := mysql.NewConnection(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to database: %w", err)
		}
		zapLogger.Info("database connected")

		backend := mysqlstore.New(db)
		if err := backend.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("creating schema: %w", err)
		}
		return backend, func() { db.Close() }, nil

	case config.StorageDriverMemory:
		zapLogger.Warn("using in-memory storage, data will not survive a restart")
		return memory.New(), func() {}, nil

	default:
		backend, err := file.New(cfg.Storage.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("opening data directory: %w", err)
		}
		zapLogger.Info("using file storage", zap.String("dir", cfg.Storage.DataDir))
		return backend, func() {}, nil
	}
}

func newSessionStore(ctx context.Context, cfg *config.Config, zapLogger *zap.Logger) (auth.SessionStore, func(), error) {
	if cfg.Auth.SessionDriver != config.SessionDriverRedis {
		return auth.NewMemoryStore(), func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connecting to redis: %w", err)
	}
	zapLogger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))

	return auth.NewRedisStore(client), func() { client.Close() }, nil
}
