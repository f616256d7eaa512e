package redisrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/kirinyoku/tixlife/internal/clock"
)

// EventsPubSub fans out "event changed" notifications to every instance.
type EventsPubSub struct {
	rdb     *redis.Client
	clk     clock.Clock
	channel string
}

func NewEventsPubSub(rdb *redis.Client, clk clock.Clock) *EventsPubSub {
	return &EventsPubSub{
		rdb:     rdb,
		clk:     clk,
		channel: ChannelEventsChanged(),
	}
}

// EventChanged is the payload published on the events channel.
type EventChanged struct {
	Type    string `json:"type"`
	EventID int64  `json:"event_id"`
	Reason  string `json:"reason,omitempty"`
	TsUnix  int64  `json:"ts_unix"`
}

// PublishEventChanged notifies subscribers that eventID changed. A nil
// EventsPubSub is a no-op.
func (p *EventsPubSub) PublishEventChanged(ctx context.Context, eventID int64, reason string) error {
	const op = "redisrepo.EventsPubSub.PublishEventChanged"

	if p == nil {
		return nil
	}

	b, err := json.Marshal(EventChanged{
		Type:    "event_changed",
		EventID: eventID,
		Reason:  reason,
		TsUnix:  p.clk.Now().Unix(),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := p.rdb.Publish(ctx, p.channel, b).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Subscribe calls handler for every well-formed message until ctx is done.
func (p *EventsPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, msg EventChanged)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	// Block until the server confirms the subscription.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("redisrepo.EventsPubSub.Subscribe: %w", err)
	}

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev EventChanged
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil && ev.EventID != 0 {
				handler(ctx, ev)
			}
		}
	}
}
