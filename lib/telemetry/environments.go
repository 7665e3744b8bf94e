package telemetry

import (
	"context"

	"pcsolotto-backend/lib/configutil"
)

// SetupFromEnv searches up the filesystem from the cwd for a telemetry.json5 and sets up telemetry
// with it. os.ErrNotExist is returned when there is no such file.
func SetupFromEnv(ctx context.Context, serviceName string) (Telemetry, error) {
	cfg, err := configutil.ReadRecursively[Config]("telemetry.json5")
	if err != nil {
		return Telemetry{}, err
	}
	return Setup(ctx, serviceName, cfg)
}
