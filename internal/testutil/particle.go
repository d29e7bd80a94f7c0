package testutil

import (
	"fmt"
	"sync"
)

// FixedParticleGenerator generates the same particle id every time.
//
// Thread-safety: FixedParticleGenerator is stateless and safe for concurrent use.
type FixedParticleGenerator struct {
	id string
}

// NewFixedParticleGenerator creates a generator returning id.
// If id is empty, Generate() returns "test-particle".
func NewFixedParticleGenerator(id string) *FixedParticleGenerator {
	if id == "" {
		id = "test-particle"
	}
	return &FixedParticleGenerator{id: id}
}

// Generate returns the fixed particle id.
func (g *FixedParticleGenerator) Generate() string {
	return g.id
}

// SpellParticleGenerator generates spell_<spell_id>_<seq> ids with seq
// counting up from 0, the way a spell numbers its own runs.
type SpellParticleGenerator struct {
	mu      sync.Mutex
	spellID string
	seq     int
}

// NewSpellParticleGenerator creates a generator for spellID.
func NewSpellParticleGenerator(spellID string) *SpellParticleGenerator {
	return &SpellParticleGenerator{spellID: spellID}
}

// Generate returns the next spell particle id.
func (g *SpellParticleGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.nth(g.seq)
	g.seq++
	return id
}

func (g *SpellParticleGenerator) nth(seq int) string {
	return fmt.Sprintf("spell_%s_%d", g.spellID, seq)
}
