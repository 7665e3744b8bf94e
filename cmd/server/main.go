package main

import (
	"flag"
	"fmt"
	"time"

	"pcsolotto-backend/internal/components/cache"
	"pcsolotto-backend/internal/components/chrono"
	"pcsolotto-backend/internal/components/telemetry"
	"pcsolotto-backend/internal/httpapi"
	"pcsolotto-backend/internal/lotto"
	"pcsolotto-backend/internal/scrapers/pcso"
	"pcsolotto-backend/lib/restyutil"
	"pcsolotto-backend/lib/serviceutil"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"
)

func main() {
	verbose := flag.Bool("v", false, "Enable verbose logging/instrumentation.")
	configPath := flag.String("config", "config.json5", "The config file to read.")
	flag.Parse()

	ctx := serviceutil.SignalContext()

	initSlog(*verbose)
	shutdownTelemetry := initTelemetry(ctx)
	defer shutdownTelemetry()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		serviceutil.Fatal("read config", err)
	}

	clock, err := chrono.NewStandardImpl()
	if err != nil {
		serviceutil.Fatal("load timezone", err)
	}
	tel := telemetry.SlogAPI{}

	cron := chrono.NewStandardCron(clock, tel)
	defer cron.Stop()

	backend := cache.Select(ctx, cfg.cacheCredentials(), clock, tel)
	if local, ok := backend.(*cache.Local); ok {
		err = local.ScheduleSweep(cron, cfg.Cache.SweepCron)
		if err != nil {
			serviceutil.Fatal("schedule local cache sweep", err)
		}
	}

	opts := cfg.Upstream.options()
	if *verbose {
		dump, err := restyutil.NewFilesystemOutput(".dev/resty/pcso")
		if err != nil {
			serviceutil.Fatal("create resty dump directory", err)
		}
		opts.Dump = dump
	}
	client, err := pcso.NewClient(
		opts,
		backend,
		semaphore.NewWeighted(int64(cfg.Upstream.MaxConcurrency)),
		tel,
	)
	if err != nil {
		serviceutil.Fatal("init pcso client", err)
	}

	service := lotto.NewService(client, clock, tel)

	gin.SetMode(gin.ReleaseMode)
	router := httpapi.NewRouter(httpapi.NewHandler(service, backend.Name(), tel))

	err = serviceutil.StartHttpServer(ctx, cfg.Port, router, 10*time.Second)
	if err != nil {
		serviceutil.Fatal(fmt.Sprintf("serve on port %d", cfg.Port), err)
	}
}
