package ir

import "strings"

// CallContext is the identity/provenance metadata the host supplies with every call.
// It is never persisted; the host rebuilds it for each invocation.
type CallContext struct {
	CallerPeerID         string `json:"caller_peer_id" yaml:"caller"`
	ParticleID           string `json:"particle_id" yaml:"particle"`
	ServiceID            string `json:"service_id" yaml:"service_id"`
	ServiceCreatorPeerID string `json:"service_creator_peer_id" yaml:"creator"`
	WorkerID             string `json:"worker_id" yaml:"worker"`
	HostID               string `json:"host_id" yaml:"host"`
}

// Role is a capacity in which a caller acts on a spell's store.
type Role int

const (
	// RoleSpell is the spell script itself, running on its own worker.
	RoleSpell Role = iota + 1
	// RoleHost is the peer hosting the worker.
	RoleHost
	// RoleWorker is the worker owning the spell (or another spell on it).
	RoleWorker
)

// String returns the lower-case role name.
func (r Role) String() string {
	switch r {
	case RoleSpell:
		return "spell"
	case RoleHost:
		return "host"
	case RoleWorker:
		return "worker"
	default:
		return "unknown"
	}
}

// RoleSet is a set of roles. The zero value is the empty set ("other" caller).
type RoleSet uint8

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s |= roleBit(r)
	}
	return s
}

func roleBit(r Role) RoleSet {
	if r < RoleSpell || r > RoleWorker {
		return 0
	}
	return 1 << (r - 1)
}

// Has reports whether r is in the set.
func (s RoleSet) Has(r Role) bool {
	b := roleBit(r)
	return b != 0 && s&b != 0
}

// IsEmpty reports whether the set holds no role.
func (s RoleSet) IsEmpty() bool {
	return s == 0
}

// Intersects reports whether the two sets share at least one role.
func (s RoleSet) Intersects(other RoleSet) bool {
	return s&other != 0
}

// Roles returns the members in Spell, Host, Worker order.
func (s RoleSet) Roles() []Role {
	roles := []Role{}
	for _, r := range []Role{RoleSpell, RoleHost, RoleWorker} {
		if s.Has(r) {
			roles = append(roles, r)
		}
	}
	return roles
}

// String renders the set as "none", "host", "host+worker", ...
func (s RoleSet) String() string {
	roles := s.Roles()
	if len(roles) == 0 {
		return "none"
	}
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return strings.Join(names, "+")
}

// Location describes where a spell lives.
type Location struct {
	Relay     string `json:"relay"`
	HostID    string `json:"host_id"`
	WorkerID  string `json:"worker_id"`
	ServiceID string `json:"service_id"`
}
