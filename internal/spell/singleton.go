package spell

import (
	"context"

	"github.com/roach88/spell/internal/ir"
	"github.com/roach88/spell/internal/store"
)

const (
	OpSetRelayPeerID   = "set_relay_peer_id"
	OpGetLocation      = "get_location"
	OpSetTriggerConfig = "set_trigger_config"
	OpGetTriggerConfig = "get_trigger_config"
	OpSetScript        = "set_script"
	OpGetScript        = "get_script"
	OpScriptCID        = "script_cid"
)

// SetRelayPeerID records the relay of this spell. Write-once, creator only.
// Once set, every call fails with ALREADY_SET whoever the caller is.
func (s *Service) SetRelayPeerID(ctx context.Context, cc ir.CallContext, relay string) Result[Unit] {
	set, err := s.store.HasRelay(ctx)
	if err != nil {
		return fail[Unit](s, OpSetRelayPeerID, err)
	}
	if set {
		return fail[Unit](s, OpSetRelayPeerID, store.ErrRelayAlreadySet)
	}
	if err := s.requireCreator(OpSetRelayPeerID, cc); err != nil {
		return fail[Unit](s, OpSetRelayPeerID, err)
	}
	return done(s, OpSetRelayPeerID, Unit{}, s.store.SetRelay(ctx, relay))
}

// GetLocation returns where this spell lives. Fails with NOT_FOUND until
// the relay is set.
func (s *Service) GetLocation(ctx context.Context, cc ir.CallContext) Result[ir.Location] {
	relay, err := s.store.Relay(ctx)
	if err != nil {
		return fail[ir.Location](s, OpGetLocation, err)
	}
	return done(s, OpGetLocation, ir.Location{
		Relay:     relay,
		HostID:    cc.HostID,
		WorkerID:  cc.WorkerID,
		ServiceID: cc.ServiceID,
	}, nil)
}

// SetTriggerConfig replaces the trigger config. Creator only.
func (s *Service) SetTriggerConfig(ctx context.Context, cc ir.CallContext, cfg ir.TriggerConfig) Result[Unit] {
	if err := s.requireCreator(OpSetTriggerConfig, cc); err != nil {
		return fail[Unit](s, OpSetTriggerConfig, err)
	}
	return done(s, OpSetTriggerConfig, Unit{}, s.store.SetTriggerConfig(ctx, cfg))
}

// GetTriggerConfig returns the trigger config, NOT_FOUND when unset.
func (s *Service) GetTriggerConfig(ctx context.Context, _ ir.CallContext) Result[ir.TriggerConfig] {
	v, err := s.store.TriggerConfig(ctx)
	return done(s, OpGetTriggerConfig, v, err)
}

// SetScript replaces the spell's script. Creator only.
func (s *Service) SetScript(ctx context.Context, cc ir.CallContext, source string) Result[Unit] {
	if err := s.requireCreator(OpSetScript, cc); err != nil {
		return fail[Unit](s, OpSetScript, err)
	}
	return done(s, OpSetScript, Unit{}, s.store.SetScript(ctx, source))
}

// GetScript returns the script source, NOT_FOUND when unset.
func (s *Service) GetScript(ctx context.Context, _ ir.CallContext) Result[string] {
	v, err := s.store.Script(ctx)
	return done(s, OpGetScript, v, err)
}

// ScriptCID returns the content identifier of the stored script.
func (s *Service) ScriptCID(ctx context.Context, _ ir.CallContext) Result[string] {
	source, err := s.store.Script(ctx)
	if err != nil {
		return fail[string](s, OpScriptCID, err)
	}
	cid, err := ir.ScriptCID([]byte(source))
	return done(s, OpScriptCID, cid, err)
}
