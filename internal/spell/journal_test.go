package spell

import (
	"context"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/spell/internal/ir"
	"github.com/roach88/spell/internal/store"
	fixtures "github.com/roach88/spell/internal/testutil"
)

func TestStoreLog_SpellOnly(t *testing.T) {
	ctx := context.Background()
	svc, _ := createTestService(t)

	for _, cc := range []ir.CallContext{fixtures.WorkerCall(), fixtures.HostCall(), fixtures.OutsideCall()} {
		res := svc.StoreLog(ctx, cc, "nope")
		assert.Equal(t, CodeForbidden, res.Code)
	}

	require.True(t, svc.StoreLog(ctx, fixtures.SpellCall(0), "hello").Success)

	logs := svc.GetLogs(ctx, fixtures.OutsideCall())
	require.True(t, logs.Success)
	require.Len(t, logs.Value, 1)
	assert.Equal(t, "hello", logs.Value[0].Message)
}

func TestStoreLog_ForgedParticleRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := createTestService(t)

	// Right particle shape, wrong caller
	forged := fixtures.WithParticle(fixtures.HostCall(), "spell_test-spell_0")
	res := svc.StoreLog(ctx, forged, "x")
	assert.Equal(t, CodeForbidden, res.Code)
}

func TestStoreLog_CapacityEviction(t *testing.T) {
	ctx := context.Background()
	svc, m := createTestService(t)
	spell := fixtures.SpellCall(0)

	for i := 0; i < 55; i++ {
		require.True(t, svc.StoreLog(ctx, spell, fmt.Sprintf("log %d", i)).Success)
	}

	logs := svc.GetLogs(ctx, spell).Value
	require.Len(t, logs, 50)
	assert.Equal(t, "log 5", logs[0].Message)
	assert.Equal(t, "log 54", logs[49].Message)

	assert.Equal(t, 5.0, testutil.ToFloat64(m.Evictions.WithLabelValues(string(store.JournalLogs))))
}

func TestMailbox_PushAnyPopSpell(t *testing.T) {
	ctx := context.Background()
	svc, _ := createTestService(t)

	require.True(t, svc.PushMailbox(ctx, fixtures.OutsideCall(), "from outside").Success)
	require.True(t, svc.PushMailbox(ctx, fixtures.HostCall(), "from host").Success)

	box := svc.GetMailbox(ctx, fixtures.OutsideCall()).Value
	require.Len(t, box, 2)
	assert.Equal(t, "from host", box[0].Message)
	assert.Equal(t, fixtures.HostPeerID, box[0].InitPeerID)
	assert.Equal(t, fixtures.OutsidePeerID, box[1].InitPeerID)

	res := svc.PopMailbox(ctx, fixtures.HostCall())
	assert.Equal(t, CodeForbidden, res.Code)

	res = svc.PopMailbox(ctx, fixtures.SpellCall(1))
	require.True(t, res.Success)
	assert.Equal(t, "from host", res.Value.Message)

	res = svc.PopMailbox(ctx, fixtures.SpellCall(1))
	require.True(t, res.Success)
	assert.Equal(t, "from outside", res.Value.Message)

	res = svc.PopMailbox(ctx, fixtures.SpellCall(1))
	assert.True(t, res.Success)
	assert.True(t, res.Absent)
}

func TestStoreError_GroupedByParticle(t *testing.T) {
	ctx := context.Background()
	svc, _ := createTestService(t)

	le := ir.LastError{ErrorCode: 10002, Instruction: "call %init_peer_id% (\"srv\" \"fn\") []", Message: "no such service", PeerID: "peer-x"}

	res := svc.StoreError(ctx, fixtures.HostCall(), le, 0, 1)
	assert.Equal(t, CodeForbidden, res.Code)

	require.True(t, svc.StoreError(ctx, fixtures.SpellCall(0), le, 0, 100).Success)
	require.True(t, svc.StoreError(ctx, fixtures.SpellCall(0), le, 1, 100).Success)
	require.True(t, svc.StoreError(ctx, fixtures.SpellCall(1), le, 0, 200).Success)

	got := svc.GetErrors(ctx, fixtures.OutsideCall(), "spell_test-spell_0")
	require.True(t, got.Success)
	assert.Equal(t, []ir.LastErrorEntry{{LastError: le, ErrorIdx: 0}, {LastError: le, ErrorIdx: 1}}, got.Value)

	all := svc.GetAllErrors(ctx, fixtures.OutsideCall())
	require.True(t, all.Success)
	require.Len(t, all.Value, 2)
	assert.Equal(t, "spell_test-spell_0", all.Value[0].ParticleID)
	assert.Equal(t, "spell_test-spell_1", all.Value[1].ParticleID)
}

func TestStoreError_EvictsOldestParticle(t *testing.T) {
	ctx := context.Background()
	svc, m := createTestServiceWith(t, store.Capacities{ErrorParticles: 2})

	for seq := 0; seq < 3; seq++ {
		cc := fixtures.SpellCall(seq)
		for idx := uint32(0); idx < 2; idx++ {
			require.True(t, svc.StoreError(ctx, cc, ir.LastError{Message: "e"}, idx, uint64(seq)).Success)
		}
	}

	all := svc.GetAllErrors(ctx, fixtures.OutsideCall()).Value
	require.Len(t, all, 2)
	assert.Equal(t, "spell_test-spell_1", all[0].ParticleID)
	assert.Len(t, all[0].Errors, 2)
	assert.Empty(t, svc.GetErrors(ctx, fixtures.OutsideCall(), "spell_test-spell_0").Value)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Evictions.WithLabelValues(string(store.JournalErrors))))
}
