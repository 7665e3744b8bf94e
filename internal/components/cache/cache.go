// Package cache is a string key/value store with per entry TTLs. The backend is picked once at
// startup: a remote redis (native protocol or Upstash REST) when it answers, otherwise an
// in-process map.
package cache

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("internal/components/cache")

// API is implemented by every backend.
//
// A missing or expired key is reported as found == false with a nil error, err is reserved for
// the backend itself failing.
type API interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Name identifies the backend in logs and the health route.
	Name() string
}

// ttlSeconds rounds ttl up to whole seconds, redis EX does not accept 0.
func ttlSeconds(ttl time.Duration) int64 {
	secs := int64((ttl + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
