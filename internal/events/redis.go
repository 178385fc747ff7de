package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

// Redis: olayı pub/sub kanalına basar; canlı dashboard bu kanalı dinler.
type Redis struct {
	client  *redis.Client
	channel string
}

func NewRedis(addr, channel string) *Redis {
	return &Redis{
		client:  redis.NewClient(&redis.Options{Addr: addr}),
		channel: channel,
	}
}

func (r *Redis) Publish(ctx context.Context, ev OrderEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, r.channel, payload).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}
