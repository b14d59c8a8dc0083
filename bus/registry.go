package bus

import (
	"sync"
	"time"
)

// Registry is the process-wide room_id -> Room map (spec §5 "Room
// registry"; spec §9 "Global mutable state"). It is constructed once at
// server startup and lives until shutdown; nothing outside this package
// should reach into it directly.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*roomEntry
}

type roomEntry struct {
	room       *Room
	lastActive time.Time
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*roomEntry)}
}

// GetOrCreate returns the room named id, creating it on first reference.
// Concurrent creation is serialised: exactly one Room per room_id is ever
// constructed (spec §4.A "Room lifecycle"), via the double-checked-locking
// pattern of original_source/sse/src/lib.rs's get_room_or_create_for_index.
func (reg *Registry) GetOrCreate(id string) *Room {
	reg.mu.RLock()
	if e, ok := reg.rooms[id]; ok {
		reg.mu.RUnlock()
		reg.touch(id)
		return e.room
	}
	reg.mu.RUnlock()

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if e, ok := reg.rooms[id]; ok {
		return e.room
	}
	e := &roomEntry{room: NewRoom(), lastActive: time.Now()}
	reg.rooms[id] = e
	return e.room
}

func (reg *Registry) touch(id string) {
	reg.mu.Lock()
	if e, ok := reg.rooms[id]; ok {
		e.lastActive = time.Now()
	}
	reg.mu.Unlock()
}

// Sweep removes rooms with zero subscribers whose last reference was more
// than idleFor ago. Not called by default anywhere in this module (spec §9
// open question: "Rooms are never garbage-collected ... an implementation
// SHOULD add a reaper"); exposed as the extension point, wired to nothing.
func (reg *Registry) Sweep(idleFor time.Duration) int {
	cutoff := time.Now().Add(-idleFor)
	reg.mu.Lock()
	defer reg.mu.Unlock()
	removed := 0
	for id, e := range reg.rooms {
		if e.room.Subscribers() == 0 && e.lastActive.Before(cutoff) {
			delete(reg.rooms, id)
			removed++
		}
	}
	return removed
}

// Len reports the number of live rooms, used by tests and health checks.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.rooms)
}
