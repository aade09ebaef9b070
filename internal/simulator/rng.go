package simulator

import (
	"hash/fnv"
	"math/rand"
)

// SimulationKey identifies a reproducible run: the same key, config and input
// always produce the same shelf history.
type SimulationKey int64

func NewSimulationKey(seed int64) SimulationKey {
	return SimulationKey(seed)
}

const (
	// SubsystemPickup draws courier pickup delays. Uses the master seed directly.
	SubsystemPickup = "pickup"

	// SubsystemEviction chooses which overflow order to discard under congestion.
	SubsystemEviction = "eviction"
)

// PartitionedRNG hands out an isolated *rand.Rand per subsystem, so drawing
// from one stream never shifts another. Not safe for concurrent use.
type PartitionedRNG struct {
	key        SimulationKey
	subsystems map[string]*rand.Rand
}

func NewPartitionedRNG(key SimulationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns the cached RNG for name, creating it on first use.
// Derived seed: masterSeed for SubsystemPickup, masterSeed XOR fnv1a64(name) otherwise.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derivedSeed := int64(p.key)
	if name != SubsystemPickup {
		derivedSeed ^= fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

func (p *PartitionedRNG) Key() SimulationKey {
	return p.key
}

func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
