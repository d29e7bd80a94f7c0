// Package auth decides who may write what in a spell's store.
//
// A call carries one of three capacities, resolved from its ir.CallContext:
//   - Spell: the spell script itself, running on the worker that created it
//   - Host: the peer that hosts the worker
//   - Worker: the worker that owns the spell, or another spell on that worker
//
// Host and Worker may hold at the same time (a host calling a spell that runs
// directly on the host). Spell is exclusive: once a call is the spell itself,
// no other role is considered.
//
// Keys encode which non-spell roles may write them through a name prefix
// (see ParsePermission). Everyone may read every key; only writes are guarded.
//
// Every function in this package is pure.
package auth
