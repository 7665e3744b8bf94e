package chrono

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStandardImplIsInManila(t *testing.T) {
	clock, err := NewStandardImpl()
	require.NoError(t, err)

	_, offset := clock.Now().Zone()
	require.Equal(t, 8*60*60, offset)
}

func TestFixedImpl(t *testing.T) {
	start := time.Date(2025, time.September, 4, 16, 30, 0, 0, time.UTC)
	clock := NewFixedImpl(start)

	// 16:30 UTC is already the next day in Manila
	require.Equal(t, 5, clock.Now().Day())

	clock.Advance(time.Hour)
	require.True(t, clock.Now().Equal(start.Add(time.Hour)))
}
