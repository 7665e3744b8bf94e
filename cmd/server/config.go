package main

import (
	"os"
	"strconv"
	"time"

	"pcsolotto-backend/internal/components/cache"
	"pcsolotto-backend/internal/scrapers/pcso"
	"pcsolotto-backend/lib/configutil"
)

type CacheConfig struct {
	// URL is an Upstash REST endpoint (https://...) or a redis url (redis://, rediss://).
	URL   string `json:"url"`
	Token string `json:"token"`
	// SweepCron is how often the local fallback cache drops expired entries.
	SweepCron string `json:"sweep_cron"`
}

type UpstreamConfig struct {
	BaseURL           string  `json:"base_url"`
	TimeoutSeconds    int     `json:"timeout_seconds"`
	MaxConcurrency    int     `json:"max_concurrency"`
	RequestsPerSecond float64 `json:"requests_per_second"`
	BypassCloudflare  *bool   `json:"bypass_cloudflare"`
}

type Config struct {
	Port     int            `json:"port"`
	Cache    CacheConfig    `json:"cache"`
	Upstream UpstreamConfig `json:"upstream"`
}

func defaultConfig() Config {
	bypass := true
	return Config{
		Port: 8000,
		Cache: CacheConfig{
			SweepCron: "@every 5m",
		},
		Upstream: UpstreamConfig{
			BaseURL:          pcso.DefaultSearchURL,
			TimeoutSeconds:   30,
			MaxConcurrency:   pcso.MaxConcurrentRequests,
			BypassCloudflare: &bypass,
		},
	}
}

// loadConfig reads the config file (missing is fine) and applies environment overrides.
func loadConfig(path string) (Config, error) {
	cfg, err := configutil.ReadWithDefaults(path, defaultConfig())
	if err != nil {
		return Config{}, err
	}

	if url := os.Getenv("UPSTASH_REDIS_REST_URL"); url != "" {
		cfg.Cache.URL = url
	}
	if token := os.Getenv("UPSTASH_REDIS_REST_TOKEN"); token != "" {
		cfg.Cache.Token = token
	}
	if port := os.Getenv("PORT"); port != "" {
		parsed, err := strconv.Atoi(port)
		if err != nil {
			return Config{}, err
		}
		cfg.Port = parsed
	}
	return cfg, nil
}

func (c Config) cacheCredentials() cache.Credentials {
	return cache.Credentials{URL: c.Cache.URL, Token: c.Cache.Token}
}

func (c UpstreamConfig) options() pcso.Options {
	return pcso.Options{
		SearchURL:         c.BaseURL,
		Timeout:           time.Duration(c.TimeoutSeconds) * time.Second,
		RequestsPerSecond: c.RequestsPerSecond,
		BypassCloudflare:  c.BypassCloudflare != nil && *c.BypassCloudflare,
	}
}
