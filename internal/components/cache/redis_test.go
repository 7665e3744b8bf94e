package cache

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"pcsolotto-backend/internal/components/chrono"
	"pcsolotto-backend/internal/components/telemetry"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) string {
	if testing.Short() {
		t.Skip("redis container tests are skipped in short mode")
	}

	testcontainers.Logger = log.New(io.Discard, "", 0)

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(
		ctx,
		testcontainers.GenericContainerRequest{
			Started: true,
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:7-alpine",
				Cmd:          []string{"redis-server", "--requirepass", "secret"},
				ExposedPorts: []string{"6379/tcp"},
				WaitingFor:   wait.ForLog("Ready to accept connections"),
			},
		},
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		err := container.Terminate(context.Background())
		if err != nil {
			t.Fatal(err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	return "redis://" + endpoint
}

func TestRedisGetSetExpiry(t *testing.T) {
	url := setupRedis(t)
	ctx := context.Background()

	backend := Select(
		ctx,
		Credentials{URL: url, Token: "secret"},
		chrono.NewFixedImpl(time.Now()),
		&telemetry.RecordingAPI{},
	)
	require.Equal(t, "redis", backend.Name())

	_, found, err := backend.Get(ctx, "pcso:event_fields")
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, backend.Set(ctx, "pcso:event_fields", "tokens", time.Second))
	value, found, err := backend.Get(ctx, "pcso:event_fields")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "tokens", value)

	require.Eventually(t, func() bool {
		_, found, err := backend.Get(ctx, "pcso:event_fields")
		return err == nil && !found
	}, 5*time.Second, 100*time.Millisecond)
}

func TestRedisWrongPasswordFallsBack(t *testing.T) {
	url := setupRedis(t)
	backend := Select(
		context.Background(),
		Credentials{URL: url, Token: "wrong"},
		chrono.NewFixedImpl(time.Now()),
		&telemetry.RecordingAPI{},
	)
	require.Equal(t, "local", backend.Name())
}
