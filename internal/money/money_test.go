package money

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSum(t *testing.T) {
	require.Equal(t, 0.3, Sum([]float64{0.1, 0.2}))
	require.Equal(t, 0.0, Sum(nil))
	require.Equal(t, 900.0, Sum([]float64{600, 300}))
}

func TestWithinTolerance(t *testing.T) {
	require.True(t, WithinTolerance(900, 900.01, 0.01))
	require.True(t, WithinTolerance(900.01, 900, 0.01))
	require.False(t, WithinTolerance(900, 850, 0.01))
	require.False(t, WithinTolerance(900, 900.02, 0.01))
}

func TestShare(t *testing.T) {
	require.Equal(t, 400.0, Share(1000, 40))
	require.Equal(t, 0.0, Share(1000, 0))
	require.Equal(t, 1000.0, Share(1000, 100))
	// 1/3 split keeps 15 significant digits before converting back.
	require.InDelta(t, 333.333333, Share(1000, 33.3333333), 1e-4)
}
