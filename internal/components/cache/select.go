package cache

import (
	"context"
	"io"
	"net/url"
	"time"

	"pcsolotto-backend/internal/components/chrono"
	"pcsolotto-backend/internal/components/telemetry"
)

const (
	report_select_remote   = "select.remote"
	report_select_fallback = "select.fallback"
)

// PingTimeout bounds the connectivity check Select makes against a remote backend.
const PingTimeout = 2 * time.Second

// Credentials locate a remote backend, both fields must be set for one to be tried.
type Credentials struct {
	URL   string
	Token string
}

type remote interface {
	API
	Ping(ctx context.Context) error
}

// Select returns a remote backend when creds are complete and it answers a PING within
// PingTimeout, otherwise a Local cache.
//
// redis:// and rediss:// urls use the native protocol, anything else goes over Upstash REST.
func Select(ctx context.Context, creds Credentials, clock chrono.API, tel telemetry.API) API {
	tel = telemetry.NewScopedAPI("cache", tel)

	if creds.URL == "" || creds.Token == "" {
		tel.ReportDebug("no remote cache credentials, using local cache")
		return NewLocal(clock, tel)
	}

	r, err := newRemote(creds)
	if err != nil {
		tel.ReportWarning(report_select_fallback, err)
		return NewLocal(clock, tel)
	}

	pingCtx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()
	err = r.Ping(pingCtx)
	if err != nil {
		tel.ReportWarning(report_select_fallback, r.Name(), err)
		if closer, ok := r.(io.Closer); ok {
			_ = closer.Close()
		}
		return NewLocal(clock, tel)
	}

	tel.ReportDebug(report_select_remote, r.Name())
	return r
}

func newRemote(creds Credentials) (remote, error) {
	parsed, err := url.Parse(creds.URL)
	if err != nil {
		return nil, err
	}
	switch parsed.Scheme {
	case "redis", "rediss":
		return NewRedis(creds.URL, creds.Token)
	default:
		return NewUpstash(creds.URL, creds.Token, PingTimeout), nil
	}
}
