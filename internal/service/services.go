package service

import (
	"log/slog"

	"github.com/kirinyoku/tixlife/internal/clock"
	postgresrepo "github.com/kirinyoku/tixlife/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/tixlife/internal/repository/redis"
	"github.com/kirinyoku/tixlife/internal/service/events"
	"github.com/kirinyoku/tixlife/internal/service/lifecycle"
	"github.com/kirinyoku/tixlife/internal/service/reservations"
	"github.com/kirinyoku/tixlife/internal/service/venues"
)

type Services struct {
	Venues       *venues.Service
	Events       *events.Service
	Reservations *reservations.Service
	Lifecycle    *lifecycle.Service
}

type Config struct {
	Events       events.Config
	Reservations reservations.Config
}

func NewServices(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisrepo.EventsPubSub,
	limiter *redisrepo.SlidingWindowLimiter,
	clk clock.Clock,
	log *slog.Logger,
	cfg Config,
) *Services {
	return &Services{
		Venues:       venues.New(store),
		Events:       events.New(store, cache, clk, cfg.Events),
		Reservations: reservations.New(store, cache, pubsub, limiter, clk, cfg.Reservations),
		Lifecycle:    lifecycle.New(store, cache, pubsub, clk, log),
	}
}
