package spell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/spell/internal/auth"
	"github.com/roach88/spell/internal/logging"
	"github.com/roach88/spell/internal/metrics"
	"github.com/roach88/spell/internal/store"
	"github.com/roach88/spell/internal/testutil"
)

func TestMetrics_OutcomesAndDenials(t *testing.T) {
	ctx := context.Background()
	svc, m := createTestService(t)

	svc.SetString(ctx, testutil.SpellCall(0), "k", "v")
	svc.GetString(ctx, testutil.HostCall(), "k")
	svc.GetString(ctx, testutil.HostCall(), "missing")
	svc.SetString(ctx, testutil.HostCall(), "k", "x")
	svc.SetString(ctx, testutil.OutsideCall(), "k", "x")

	ops := m.OperationsTotal
	assert.Equal(t, 1.0, promtest.ToFloat64(ops.WithLabelValues(OpSetString, metrics.OutcomeOK)))
	assert.Equal(t, 2.0, promtest.ToFloat64(ops.WithLabelValues(OpSetString, metrics.OutcomeForbidden)))
	assert.Equal(t, 1.0, promtest.ToFloat64(ops.WithLabelValues(OpGetString, metrics.OutcomeOK)))
	assert.Equal(t, 1.0, promtest.ToFloat64(ops.WithLabelValues(OpGetString, metrics.OutcomeAbsent)))

	assert.Equal(t, 1.0, promtest.ToFloat64(m.WriteDenied.WithLabelValues("host")))
	assert.Equal(t, 1.0, promtest.ToFloat64(m.WriteDenied.WithLabelValues("none")))
}

func TestLogger_DenialsAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.DebugLevel, JSONOutput: true, Output: &buf})

	base, _ := createTestService(t)
	svc := New(base.Store(), WithLogger(logger))

	svc.SetString(context.Background(), testutil.HostCall(), "private", "v")
	assert.Contains(t, buf.String(), `"message":"write denied"`)
	assert.Contains(t, buf.String(), `"key":"private"`)
	assert.Contains(t, buf.String(), `"roles":"host"`)
}

func TestStorageFailureBecomesResult(t *testing.T) {
	svc, m := createTestService(t)
	require.NoError(t, svc.Store().Close())

	res := svc.GetString(context.Background(), testutil.HostCall(), "k")
	assert.False(t, res.Success)
	assert.Equal(t, CodeStorage, res.Code)
	assert.NotEmpty(t, res.Error)
	assert.Equal(t, 1.0, promtest.ToFloat64(m.OperationsTotal.WithLabelValues(OpGetString, metrics.OutcomeError)))
}

func TestAsError_Classification(t *testing.T) {
	tests := []struct {
		err  error
		want ErrorCode
	}{
		{&auth.ForbiddenError{Key: "k"}, CodeForbidden},
		{fmt.Errorf("wrapped: %w", store.ErrRelayAlreadySet), CodeAlreadySet},
		{store.ErrNoRelay, CodeNotFound},
		{store.ErrNoTriggerConfig, CodeNotFound},
		{store.ErrNoScript, CodeNotFound},
		{store.ErrChecksumMismatch, CodeStorage},
		{errors.New("disk I/O error"), CodeStorage},
		{malformed(nil, "bad"), CodeMalformedInput},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, AsError(tt.err).Code)
		})
	}
}

func TestErrorHelpers(t *testing.T) {
	assert.True(t, IsForbidden(&auth.ForbiddenError{Key: "k"}))
	assert.True(t, IsForbidden(forbidden("x")))
	assert.True(t, IsNotFound(AsError(store.ErrNoScript)))
	assert.True(t, IsMalformedInput(malformed(nil, "x")))
	assert.False(t, IsAlreadySet(errors.New("x")))
}

func TestResult_Err(t *testing.T) {
	assert.NoError(t, Ok(1).Err())
	assert.NoError(t, Absent[int]().Err())

	r := Fail[int](forbidden("no"))
	err := r.Err()
	require.Error(t, err)
	assert.True(t, IsForbidden(err))
	assert.Equal(t, "no", err.Error())
}
