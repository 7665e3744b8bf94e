package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"pcsolotto-backend/internal/components/assert"

	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Upstash talks to an Upstash redis database over its REST api, every command is a POST of the
// command as a json array.
type Upstash struct {
	client *resty.Client
}

type upstashReply struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error"`
}

func NewUpstash(url, token string, timeout time.Duration) Upstash {
	assert.NotEmptyStr(url, "url")
	client := resty.New()
	client.SetBaseURL(url)
	client.SetAuthToken(token)
	client.SetHeader("content-type", "application/json")
	client.SetTimeout(timeout)
	return Upstash{client: client}
}

func (u Upstash) Name() string {
	return "upstash"
}

func (u Upstash) do(ctx context.Context, command ...string) (json.RawMessage, error) {
	var reply upstashReply
	res, err := u.client.R().
		SetContext(ctx).
		SetBody(command).
		SetResult(&reply).
		SetError(&reply).
		Post("")
	if err != nil {
		return nil, err
	}
	if reply.Error != "" {
		return nil, fmt.Errorf("upstash %s: %s", command[0], reply.Error)
	}
	if res.IsError() {
		return nil, fmt.Errorf("upstash %s: %s", command[0], res.Status())
	}
	return reply.Result, nil
}

func (u Upstash) Ping(ctx context.Context) error {
	_, err := u.do(ctx, "PING")
	return err
}

func (u Upstash) Get(ctx context.Context, key string) (string, bool, error) {
	ctx, span := tracer.Start(ctx, "upstash:get", trace.WithAttributes(
		attribute.String("cache_key", key),
	))
	defer span.End()

	result, err := u.do(ctx, "GET", key)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get key")
		return "", false, err
	}
	if len(result) == 0 || string(result) == "null" {
		span.SetStatus(codes.Ok, "CACHE MISS")
		return "", false, nil
	}

	var value string
	err = json.Unmarshal(result, &value)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to decode value")
		return "", false, err
	}
	return value, true, nil
}

func (u Upstash) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	ctx, span := tracer.Start(ctx, "upstash:set", trace.WithAttributes(
		attribute.String("cache_key", key),
	))
	defer span.End()

	_, err := u.do(ctx, "SET", key, value, "EX", strconv.FormatInt(ttlSeconds(ttl), 10))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to set key")
	}
	return err
}
