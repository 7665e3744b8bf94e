package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Redis talks to a redis server over its native protocol.
type Redis struct {
	client *redis.Client
}

// NewRedis parses a redis:// or rediss:// url, token (when not empty) overrides the password in
// the url.
func NewRedis(url, token string) (Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return Redis{}, fmt.Errorf("parse redis url: %w", err)
	}
	if token != "" {
		opts.Password = token
	}
	return Redis{client: redis.NewClient(opts)}, nil
}

func (r Redis) Name() string {
	return "redis"
}

func (r Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r Redis) Close() error {
	return r.client.Close()
}

func (r Redis) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, span := tracer.Start(ctx, "redis:get", trace.WithAttributes(
		attribute.String("cache_key", key),
	))
	defer span.End()

	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		span.SetStatus(codes.Ok, "CACHE MISS")
		return "", false, nil
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get key")
		return "", false, err
	}
	return value, true, nil
}

func (r Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	ctx, span := tracer.Start(ctx, "redis:set", trace.WithAttributes(
		attribute.String("cache_key", key),
	))
	defer span.End()

	err := r.client.Set(ctx, key, value, time.Duration(ttlSeconds(ttl))*time.Second).Err()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to set key")
	}
	return err
}
