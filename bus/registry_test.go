package bus_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bnb-chain/threshold-signer/bus"
)

func TestRegistryGetOrCreateReturnsSameRoom(t *testing.T) {
	reg := bus.NewRegistry()
	a := reg.GetOrCreate("session-1")
	b := reg.GetOrCreate("session-1")
	assert.Same(t, a, b)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistryGetOrCreateConcurrent(t *testing.T) {
	reg := bus.NewRegistry()
	const n = 32
	rooms := make([]*bus.Room, n)
	done := make(chan struct{})
	for i := 0; i < n; i++ {
		i := i
		go func() {
			rooms[i] = reg.GetOrCreate("shared")
			done <- struct{}{}
		}()
	}
	for i := 0; i < n; i++ {
		<-done
	}
	for i := 1; i < n; i++ {
		assert.Same(t, rooms[0], rooms[i])
	}
	assert.Equal(t, 1, reg.Len())
}

func TestRegistrySweepRemovesOnlyIdleUnsubscribedRooms(t *testing.T) {
	reg := bus.NewRegistry()
	busy := reg.GetOrCreate("busy")
	sub := busy.Subscribe(-1)
	defer sub.Close()

	reg.GetOrCreate("idle")

	removed := reg.Sweep(0) // everything older than "now" is eligible
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistrySweepHonoursIdleWindow(t *testing.T) {
	reg := bus.NewRegistry()
	reg.GetOrCreate("fresh")
	removed := reg.Sweep(time.Hour)
	assert.Equal(t, 0, removed)
	assert.Equal(t, 1, reg.Len())
}
