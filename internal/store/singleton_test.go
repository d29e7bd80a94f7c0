package store

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/spell/internal/ir"
)

func TestRelay_WriteOnce(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	has, err := s.HasRelay(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	_, err = s.Relay(ctx)
	assert.ErrorIs(t, err, ErrNoRelay)

	require.NoError(t, s.SetRelay(ctx, "relay-1"))

	err = s.SetRelay(ctx, "relay-2")
	assert.ErrorIs(t, err, ErrRelayAlreadySet)

	relay, err := s.Relay(ctx)
	require.NoError(t, err)
	assert.Equal(t, "relay-1", relay)
}

func TestTriggerConfig_Replace(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	_, err := s.TriggerConfig(ctx)
	assert.ErrorIs(t, err, ErrNoTriggerConfig)

	first := ir.TriggerConfig{
		Clock:       ir.ClockConfig{StartSec: 1, EndSec: 100, PeriodSec: 5},
		Connections: ir.ConnectionPoolConfig{Connect: true},
		Blockchain:  ir.BlockChainConfig{StartBlock: 10, EndBlock: 20},
	}
	require.NoError(t, s.SetTriggerConfig(ctx, first))

	got, err := s.TriggerConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, got)

	second := ir.TriggerConfig{Connections: ir.ConnectionPoolConfig{Disconnect: true}}
	require.NoError(t, s.SetTriggerConfig(ctx, second))

	got, err = s.TriggerConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, got)

	var rows int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM trigger_config").Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestScript_RoundTripCompressed(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	_, err := s.Script(ctx)
	assert.ErrorIs(t, err, ErrNoScript)

	source := strings.Repeat("(call relay (\"op\" \"noop\") [])\n", 200)
	require.NoError(t, s.SetScript(ctx, source))

	got, err := s.Script(ctx)
	require.NoError(t, err)
	assert.Equal(t, source, got)

	var stored []byte
	require.NoError(t, s.db.QueryRow("SELECT source FROM script").Scan(&stored))
	assert.Less(t, len(stored), len(source), "source is stored compressed")
}

func TestScript_Replace(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	require.NoError(t, s.SetScript(ctx, "(null)"))
	require.NoError(t, s.SetScript(ctx, "(seq (null) (null))"))

	got, err := s.Script(ctx)
	require.NoError(t, err)
	assert.Equal(t, "(seq (null) (null))", got)
}

func TestScript_EmptySource(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	require.NoError(t, s.SetScript(ctx, ""))
	got, err := s.Script(ctx)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestScript_ChecksumMismatch(t *testing.T) {
	ctx := context.Background()
	s := createTestStore(t)

	require.NoError(t, s.SetScript(ctx, "(null)"))
	_, err := s.db.Exec("UPDATE script SET checksum = 'bad'")
	require.NoError(t, err)

	_, err = s.Script(ctx)
	assert.ErrorIs(t, err, ErrChecksumMismatch)
}
