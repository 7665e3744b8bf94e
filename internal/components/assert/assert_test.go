package assert

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssertions(t *testing.T) {
	require.PanicsWithValue(t, "expected clock to be not nil", func() {
		NotNil(nil, "clock")
	})
	require.PanicsWithValue(t, "expected value to be a non-empty string", func() {
		NotEmptyStr("")
	})
	require.PanicsWithValue(t, "expected perPage to be positive, got 0", func() {
		Positive(0, "perPage")
	})
	require.PanicsWithValue(t, "expected perPage to be at most 50, got 51", func() {
		AtMost(51, 50, "perPage")
	})

	require.NotPanics(t, func() {
		NotNil(struct{}{})
		NotEmptyStr("x")
		Positive(1)
		AtMost(50, 50)
	})
}
