// Package cache keeps events by slug in Redis for the slug lookup path.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"eventlisting/event"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "event:slug:"

func Key(slug string) string {
	return keyPrefix + slug
}

// Redis implements event.Cache.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Connect builds a client for addr and checks that the server answers.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password, // Empty if no password
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Get returns nil, nil on a miss.
func (r *Redis) Get(ctx context.Context, slug string) (*event.Event, error) {
	data, err := r.client.Get(ctx, Key(slug)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", Key(slug), err)
	}

	var e event.Event
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("decode %s: %w", Key(slug), err)
	}
	return &e, nil
}

func (r *Redis) Set(ctx context.Context, e event.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := r.client.Set(ctx, Key(e.Slug), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", Key(e.Slug), err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, slug string) error {
	if err := r.client.Del(ctx, Key(slug)).Err(); err != nil {
		return fmt.Errorf("del %s: %w", Key(slug), err)
	}
	return nil
}
