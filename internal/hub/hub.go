// Package hub holds the chat relay core: the connection registry, the
// presence tracker derived from it, and the per-room broadcaster that
// serializes every membership change and fan-out into one consistent
// order.
package hub

import "sync"

// DefaultRoom is the single room the server wires up. The model
// supports any number of named rooms; the relay currently uses one.
const DefaultRoom = "chat"

// Hub owns the set of rooms. Each room serializes its own state; the
// hub itself only hands out room instances.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]*Room)}
}

// Room returns the named room, creating it on first use.
func (h *Hub) Room(name string) *Room {
	h.mu.RLock()
	room, ok := h.rooms[name]
	h.mu.RUnlock()
	if ok {
		return room
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok = h.rooms[name]; ok {
		return room
	}
	room = NewRoom(name)
	h.rooms[name] = room
	return room
}
