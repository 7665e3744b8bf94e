package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"pcsolotto-backend/cmd/lotto-cli/commands"

	"github.com/lmittmann/tint"
)

func main() {
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelWarn,
		TimeFormat: time.Kitchen,
	})))
	commands.ExecuteContext(context.Background())
}
