package testutil

import "github.com/roach88/spell/internal/ir"

// Peer ids of the standard test topology: one host running one worker
// that created the spell TestSpellID.
const (
	HostPeerID    = "12D3KooWHost"
	WorkerPeerID  = "12D3KooWWorker"
	OutsidePeerID = "12D3KooWOutsider"
	TestSpellID   = "test-spell"
)

func baseContext(caller, particle string) ir.CallContext {
	return ir.CallContext{
		CallerPeerID:         caller,
		ParticleID:           particle,
		ServiceID:            TestSpellID,
		ServiceCreatorPeerID: WorkerPeerID,
		WorkerID:             WorkerPeerID,
		HostID:               HostPeerID,
	}
}

// SpellCall is a call from the spell itself, run seq.
func SpellCall(seq int) ir.CallContext {
	return baseContext(WorkerPeerID, NewSpellParticleGenerator(TestSpellID).nth(seq))
}

// WorkerCall is a call from the worker on a particle that is not the spell's.
func WorkerCall() ir.CallContext {
	return baseContext(WorkerPeerID, "worker-particle")
}

// HostCall is a call from the host peer.
func HostCall() ir.CallContext {
	return baseContext(HostPeerID, "host-particle")
}

// OutsideCall is a call from a peer with no relation to the spell.
func OutsideCall() ir.CallContext {
	return baseContext(OutsidePeerID, "outside-particle")
}

// WithParticle returns cc with the particle id replaced.
func WithParticle(cc ir.CallContext, particleID string) ir.CallContext {
	cc.ParticleID = particleID
	return cc
}
