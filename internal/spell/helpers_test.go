package spell

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/spell/internal/metrics"
	"github.com/roach88/spell/internal/store"
	"github.com/roach88/spell/internal/testutil"
)

func createTestService(t *testing.T) (*Service, *metrics.Metrics) {
	t.Helper()
	return createTestServiceWith(t, store.Capacities{})
}

func createTestServiceWith(t *testing.T, caps store.Capacities) (*Service, *metrics.Metrics) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "spell.db"), store.Options{
		Capacities: caps,
		Clock:      testutil.NewClock(),
	})
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	m := metrics.New(nil)
	return New(st, WithMetrics(m)), m
}
