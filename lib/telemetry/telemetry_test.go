package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestSetupWithoutEndpoints(t *testing.T) {
	tel, err := Setup(context.Background(), "pcsolotto-test", Config{})
	require.NoError(t, err)
	require.NotNil(t, tel.TracerProvider)
	require.NotNil(t, tel.MeterProvider)

	_, span := otel.Tracer("test").Start(context.Background(), "span")
	span.End()

	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestPerfGaugesRecord(t *testing.T) {
	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	otel.SetMeterProvider(provider)
	t.Cleanup(func() {
		_ = provider.Shutdown(context.Background())
	})

	gauges, err := newPerfGauges()
	require.NoError(t, err)
	gauges.record(context.Background(), 10*time.Millisecond)

	var data metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &data))
	require.Len(t, data.ScopeMetrics, 1)

	names := map[string]bool{}
	for _, m := range data.ScopeMetrics[0].Metrics {
		names[m.Name] = true
	}
	require.True(t, names["goroutine_count"])
	require.True(t, names["allocated_mb"])
}
