package auth

import (
	"strings"

	"github.com/roach88/spell/internal/ir"
)

// spellParticlePrefix starts every particle id a spell emits for itself.
const spellParticlePrefix = "spell_"

// SpellParticle is the decoded form of a spell particle id: spell_<spell_id>_<seq>.
type SpellParticle struct {
	SpellID string
	Seq     string
}

// ParseSpellParticle decodes a particle id of the form spell_<spell_id>_<seq>.
//
// The spell id is everything between the prefix and the last underscore, so
// ids that contain underscores still parse. Both parts must be non-empty.
func ParseSpellParticle(particleID string) (SpellParticle, bool) {
	rest, ok := strings.CutPrefix(particleID, spellParticlePrefix)
	if !ok {
		return SpellParticle{}, false
	}
	i := strings.LastIndexByte(rest, '_')
	if i <= 0 || i == len(rest)-1 {
		return SpellParticle{}, false
	}
	return SpellParticle{SpellID: rest[:i], Seq: rest[i+1:]}, true
}

// IsCreator reports whether the caller created the spell service.
func IsCreator(cc ir.CallContext) bool {
	return cc.CallerPeerID != "" && cc.CallerPeerID == cc.ServiceCreatorPeerID
}

// IsSpell reports whether the call comes from the spell script itself.
//
// All of the following must hold:
//   - the particle id is spell_<service_id>_<seq> for THIS service
//   - the caller is the worker hosting the spell
//   - the caller created the service
//
// The particle id alone is chosen by whoever sends the particle, so it only
// counts once the caller identity is tied to the worker and the creator.
func IsSpell(cc ir.CallContext) bool {
	p, ok := ParseSpellParticle(cc.ParticleID)
	if !ok || p.SpellID != cc.ServiceID {
		return false
	}
	return isByWorker(cc) && IsCreator(cc)
}

func isByHost(cc ir.CallContext) bool {
	return cc.CallerPeerID != "" && cc.CallerPeerID == cc.HostID
}

func isByWorker(cc ir.CallContext) bool {
	return cc.CallerPeerID != "" && cc.CallerPeerID == cc.WorkerID
}

// Resolve returns the roles a call carries.
//
// Spell is checked first and returned alone. Otherwise the set holds Host
// when the caller is the host and Worker when the caller is the worker; both
// when host and worker coincide. An empty set means an outside caller.
func Resolve(cc ir.CallContext) ir.RoleSet {
	if IsSpell(cc) {
		return ir.NewRoleSet(ir.RoleSpell)
	}

	var roles ir.RoleSet
	if isByHost(cc) {
		roles |= ir.NewRoleSet(ir.RoleHost)
	}
	if isByWorker(cc) {
		roles |= ir.NewRoleSet(ir.RoleWorker)
	}
	return roles
}
