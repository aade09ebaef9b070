package simulator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionedRNG_PickupUsesMasterSeed(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(42))
	want := rand.New(rand.NewSource(42))

	pickup := rng.ForSubsystem(SubsystemPickup)
	for i := 0; i < 10; i++ {
		assert.Equal(t, want.Int63(), pickup.Int63())
	}
}

func TestPartitionedRNG_SubsystemsAreIsolated(t *testing.T) {
	a := NewPartitionedRNG(NewSimulationKey(7))
	b := NewPartitionedRNG(NewSimulationKey(7))

	// draining eviction on a must not shift pickup on a
	for i := 0; i < 100; i++ {
		a.ForSubsystem(SubsystemEviction).Intn(10)
	}
	for i := 0; i < 10; i++ {
		assert.Equal(t, b.ForSubsystem(SubsystemPickup).Int63(), a.ForSubsystem(SubsystemPickup).Int63())
	}

	fresh := NewPartitionedRNG(NewSimulationKey(7))
	assert.NotEqual(t, fresh.ForSubsystem(SubsystemPickup).Int63(), fresh.ForSubsystem(SubsystemEviction).Int63())
}

func TestPartitionedRNG_CachesPerSubsystem(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(1))
	assert.Same(t, rng.ForSubsystem(SubsystemEviction), rng.ForSubsystem(SubsystemEviction))
	assert.Equal(t, SimulationKey(1), rng.Key())
}
