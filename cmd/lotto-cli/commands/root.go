package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"pcsolotto-backend/internal/components/cache"
	"pcsolotto-backend/internal/components/chrono"
	"pcsolotto-backend/internal/components/telemetry"
	"pcsolotto-backend/internal/scrapers/pcso"
	"pcsolotto-backend/lib/restyutil"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"
)

var (
	searchURL string
	timeout   time.Duration
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "lotto-cli",
	Short: "lotto-cli queries PCSO draw results straight from the PCSO site.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !verbose {
			return
		}
		slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		})))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&searchURL, "url", pcso.DefaultSearchURL, "The PCSO results search page.")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Timeout of each request to the PCSO site.")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output and dump upstream exchanges to .dev/resty/lotto-cli.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newClient builds a pcso client backed by an in-process cache.
func newClient(clock chrono.API) (*pcso.Client, error) {
	tel := telemetry.SlogAPI{}
	opts := pcso.Options{
		SearchURL:        searchURL,
		Timeout:          timeout,
		BypassCloudflare: true,
	}
	if verbose {
		dump, err := restyutil.NewFilesystemOutput(".dev/resty/lotto-cli")
		if err != nil {
			return nil, err
		}
		opts.Dump = dump
	}
	return pcso.NewClient(
		opts,
		cache.NewLocal(clock, tel),
		semaphore.NewWeighted(pcso.MaxConcurrentRequests),
		tel,
	)
}
