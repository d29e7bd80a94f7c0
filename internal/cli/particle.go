package cli

import "github.com/google/uuid"

// ParticleIDGenerator supplies particle ids for calls made without --particle.
type ParticleIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 particle ids.
// Such ids never parse as spell particles, so an anonymous call never
// acts as the spell.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
