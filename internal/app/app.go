package app

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

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/kirinyoku/tixlife/internal/clock"
	"github.com/kirinyoku/tixlife/internal/config"
	"github.com/kirinyoku/tixlife/internal/postgres"
	"github.com/kirinyoku/tixlife/internal/reconcile"
	"github.com/kirinyoku/tixlife/internal/redis"
	postgresrepo "github.com/kirinyoku/tixlife/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/tixlife/internal/repository/redis"
	"github.com/kirinyoku/tixlife/internal/service"
	"github.com/kirinyoku/tixlife/internal/service/events"
	"github.com/kirinyoku/tixlife/internal/service/reservations"
	httpgin "github.com/kirinyoku/tixlife/internal/transport/http/gin"
	"github.com/kirinyoku/tixlife/migrations"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	pool       *pgxpool.Pool
	rdb        *goredis.Client
	pubsub     *redisrepo.EventsPubSub
	hub        *httpgin.EventHub
	trigger    *reconcile.Trigger
	scheduler  *reconcile.Scheduler
	httpServer *http.Server
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.New"

	pgxPool, err := postgres.New(ctx, postgres.Config{
		DSN:             cfg.Postgres.DSN(),
		MaxConns:        int32(cfg.Postgres.MaxConns),
		ConnectAttempts: cfg.Postgres.ConnectAttempts,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := migrations.Apply(ctx, pgxPool); err != nil {
		pgxPool.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rdb, err := redis.New(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		pgxPool.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	clk := clock.NewSystem()

	// Repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	pubsub := redisrepo.NewEventsPubSub(rdb, clk)
	limiter := redisrepo.NewSlidingWindowLimiter(
		rdb, clk, redisrepo.KeyRateLimit("holds"), cfg.Holds.RateLimit, cfg.Holds.RateWindow,
	)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, 2*time.Hour)

	// Services
	services := service.NewServices(store, cache, pubsub, limiter, clk, logger, service.Config{
		Events: events.Config{},
		Reservations: reservations.Config{
			DefaultHoldTTL: cfg.Holds.TTL,
		},
	})

	// Reconciliation: the admin endpoint always runs in-process, the scheduler
	// and the opportunistic trigger may delegate to a remote instance.
	local := reconcile.NewLocal(services.Lifecycle)
	var background reconcile.Reconciler = local
	if cfg.Reconcile.Endpoint != "" {
		background = reconcile.NewClient(cfg.Reconcile.Endpoint, cfg.Reconcile.Timeout)
		logger.Info("reconciliation delegated", "endpoint", cfg.Reconcile.Endpoint)
	}

	trigger := reconcile.NewTrigger(background, logger, cfg.Reconcile.Timeout)
	scheduler := reconcile.NewScheduler(background, clk, cfg.Reconcile.Interval, cfg.Reconcile.Timeout, logger)
	hub := httpgin.NewEventHub()

	router := httpgin.NewRouter(httpgin.Deps{
		Venues:       services.Venues,
		Events:       services.Events,
		Reservations: services.Reservations,
		Reconciler:   local,
		Trigger:      trigger,
		Idempotency:  idempotencyStore,
		Hub:          hub,
		Clock:        clk,
	}, logger)

	return &App{
		cfg:       cfg,
		logger:    logger,
		pool:      pgxPool,
		rdb:       rdb,
		pubsub:    pubsub,
		hub:       hub,
		trigger:   trigger,
		scheduler: scheduler,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	defer a.close()

	g, gCtx := errgroup.WithContext(ctx)

	// HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.httpServer.Shutdown(ctx)
	})

	// Scheduled status reconciliation
	g.Go(func() error {
		return a.scheduler.Run(gCtx)
	})

	// Fan-out of event changes to countdown streams
	g.Go(func() error {
		err := a.pubsub.Subscribe(gCtx, a.hub.Notify)
		if err != nil && gCtx.Err() == nil {
			return err
		}
		return nil
	})

	return g.Wait()
}

func (a *App) close() {
	a.trigger.Wait()
	a.pool.Close()
	if err := a.rdb.Close(); err != nil {
		a.logger.Warn("redis close", "error", err)
	}
}
