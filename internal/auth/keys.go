package auth

import (
	"strings"

	"github.com/roach88/spell/internal/ir"
)

// ParsePermission returns the non-spell roles allowed to write key.
//
// Format: {prefix}_{name}. The prefix before the first underscore must be
// exactly one of:
//   - h  -- writable by the host
//   - w  -- writable by the worker
//   - hw -- writable by both
//
// Anything else, including "wh", "hword" or a key without an underscore,
// yields the empty set: only the spell may write it.
//
//	ParsePermission("h_worker_def_cid")      // {Host}
//	ParsePermission("hw_artificial_mailbox") // {Host, Worker}
//	ParsePermission("wh_count")              // {}
func ParsePermission(key string) ir.RoleSet {
	prefix, _, ok := strings.Cut(key, "_")
	if !ok {
		return 0
	}
	switch prefix {
	case "h":
		return ir.NewRoleSet(ir.RoleHost)
	case "w":
		return ir.NewRoleSet(ir.RoleWorker)
	case "hw":
		return ir.NewRoleSet(ir.RoleHost, ir.RoleWorker)
	default:
		return 0
	}
}
