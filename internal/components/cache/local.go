package cache

import (
	"context"
	"sync"
	"time"

	"pcsolotto-backend/internal/components/assert"
	"pcsolotto-backend/internal/components/chrono"
	"pcsolotto-backend/internal/components/telemetry"
)

const report_local_sweep = "local.sweep"

type entry struct {
	value string
	// zero means the entry never expires
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

// Local is an in-process cache, entries are only visible to this process.
type Local struct {
	clock chrono.API
	tel   telemetry.API

	mutex   sync.Mutex
	entries map[string]entry
}

func NewLocal(clock chrono.API, tel telemetry.API) *Local {
	assert.NotNil(clock, "clock")
	assert.NotNil(tel, "tel")
	return &Local{
		clock:   clock,
		tel:     tel,
		entries: map[string]entry{},
	}
}

func (l *Local) Name() string {
	return "local"
}

// Get deletes the entry and reports a miss if it has expired.
func (l *Local) Get(_ context.Context, key string) (string, bool, error) {
	now := l.clock.Now()

	l.mutex.Lock()
	defer l.mutex.Unlock()

	e, ok := l.entries[key]
	if !ok {
		return "", false, nil
	}
	if e.expired(now) {
		delete(l.entries, key)
		return "", false, nil
	}
	return e.value, true, nil
}

// Set stores value until ttl has passed, a ttl <= 0 never expires.
func (l *Local) Set(_ context.Context, key, value string, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = l.clock.Now().Add(ttl)
	}

	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.entries[key] = e
	return nil
}

// Sweep drops every expired entry and returns how many were dropped.
func (l *Local) Sweep() int {
	now := l.clock.Now()

	l.mutex.Lock()
	defer l.mutex.Unlock()

	dropped := 0
	for key, e := range l.entries {
		if e.expired(now) {
			delete(l.entries, key)
			dropped++
		}
	}
	l.tel.ReportCount(report_local_sweep, int64(len(l.entries)))
	return dropped
}

// Len returns the number of entries, expired ones included.
func (l *Local) Len() int {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return len(l.entries)
}

// ScheduleSweep runs Sweep on the given cron spec.
func (l *Local) ScheduleSweep(cron chrono.CronAPI, spec string) error {
	return cron.Cron(spec, func() {
		l.Sweep()
	})
}
