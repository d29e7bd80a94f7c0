package spell

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/spell/internal/ir"
	"github.com/roach88/spell/internal/testutil"
)

func TestSetRelayPeerID_WriteOnceCreatorOnly(t *testing.T) {
	ctx := context.Background()
	svc, _ := createTestService(t)

	res := svc.GetLocation(ctx, testutil.HostCall())
	assert.Equal(t, CodeNotFound, res.Code)

	res2 := svc.SetRelayPeerID(ctx, testutil.HostCall(), "relay-x")
	assert.Equal(t, CodeForbidden, res2.Code, "host is not the creator")

	require.True(t, svc.SetRelayPeerID(ctx, testutil.WorkerCall(), "relay-1").Success)

	for _, cc := range []ir.CallContext{testutil.WorkerCall(), testutil.HostCall(), testutil.OutsideCall(), testutil.SpellCall(0)} {
		again := svc.SetRelayPeerID(ctx, cc, "relay-2")
		assert.Equal(t, CodeAlreadySet, again.Code)
		assert.True(t, IsAlreadySet(again.Err()))
	}

	loc := svc.GetLocation(ctx, testutil.HostCall())
	require.True(t, loc.Success)
	assert.Equal(t, ir.Location{
		Relay:     "relay-1",
		HostID:    testutil.HostPeerID,
		WorkerID:  testutil.WorkerPeerID,
		ServiceID: testutil.TestSpellID,
	}, loc.Value)
}

func TestTriggerConfig_CreatorOnlyFullReplace(t *testing.T) {
	ctx := context.Background()
	svc, _ := createTestService(t)

	get := svc.GetTriggerConfig(ctx, testutil.OutsideCall())
	assert.Equal(t, CodeNotFound, get.Code)
	assert.Equal(t, "trigger config is not set", get.Error)

	cfg := ir.TriggerConfig{Clock: ir.ClockConfig{StartSec: 1, PeriodSec: 60}}

	res := svc.SetTriggerConfig(ctx, testutil.HostCall(), cfg)
	assert.Equal(t, CodeForbidden, res.Code)

	require.True(t, svc.SetTriggerConfig(ctx, testutil.WorkerCall(), cfg).Success)
	assert.Equal(t, cfg, svc.GetTriggerConfig(ctx, testutil.OutsideCall()).Value)

	next := ir.TriggerConfig{Blockchain: ir.BlockChainConfig{StartBlock: 7}}
	require.True(t, svc.SetTriggerConfig(ctx, testutil.SpellCall(0), next).Success)
	assert.Equal(t, next, svc.GetTriggerConfig(ctx, testutil.OutsideCall()).Value)
}

func TestScript_CreatorOnlyAndCID(t *testing.T) {
	ctx := context.Background()
	svc, _ := createTestService(t)

	assert.Equal(t, CodeNotFound, svc.GetScript(ctx, testutil.HostCall()).Code)
	assert.Equal(t, CodeNotFound, svc.ScriptCID(ctx, testutil.HostCall()).Code)

	assert.Equal(t, CodeForbidden, svc.SetScript(ctx, testutil.HostCall(), "(null)").Code)

	require.True(t, svc.SetScript(ctx, testutil.WorkerCall(), "(null)").Success)
	assert.Equal(t, "(null)", svc.GetScript(ctx, testutil.HostCall()).Value)

	want, err := ir.ScriptCID([]byte("(null)"))
	require.NoError(t, err)
	assert.Equal(t, want, svc.ScriptCID(ctx, testutil.HostCall()).Value)
}
