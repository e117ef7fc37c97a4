package hub

import (
	"sort"
	"sync"

	"github.com/samber/lo"
)

// connState tracks the per-connection lifecycle:
// Connected (unauthenticated) -> Authenticated -> Disconnected.
// Disconnected is terminal; the entry is removed from the registry and
// stale events referencing its id are rejected.
type connState int

const (
	stateConnected connState = iota
	stateAuthenticated
)

type conn struct {
	client   *Client
	username string
	state    connState
}

// Registry tracks live connections and their association to an
// authenticated identity. It owns every conn entry; transport code
// only ever holds the Client handle.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]*conn
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]*conn)}
}

// Register records a new, unauthenticated connection.
func (r *Registry) Register(c *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c.ID] = &conn{client: c, state: stateConnected}
}

// BindIdentity attaches an identity to a registered connection. It
// fails with ErrAlreadyBound if the connection already has one and
// ErrUnknownConnection if the id was never registered or has already
// disconnected. A connection binds at most one identity in its life.
func (r *Registry) BindIdentity(id, username string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ent, ok := r.conns[id]
	if !ok {
		return ErrUnknownConnection
	}
	if ent.state == stateAuthenticated {
		return ErrAlreadyBound
	}

	ent.username = username
	ent.state = stateAuthenticated
	return nil
}

// Unregister removes the connection, returning the username that was
// bound to it, if any. Disconnect events can be delivered more than
// once; a second call for the same id is a no-op returning false.
func (r *Registry) Unregister(id string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ent, ok := r.conns[id]
	if !ok {
		return "", false
	}
	delete(r.conns, id)

	if ent.state != stateAuthenticated {
		return "", false
	}
	return ent.username, true
}

// Identity returns the username bound to a connection, if any.
func (r *Registry) Identity(id string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ent, ok := r.conns[id]
	if !ok || ent.state != stateAuthenticated {
		return "", false
	}
	return ent.username, true
}

// Identities returns a consistent copy of all bound usernames, sorted
// for stable presentation. The result is a set: a username bound on
// several connections (the same session in two tabs) appears once.
func (r *Registry) Identities() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := lo.Uniq(lo.FilterMap(lo.Values(r.conns), func(ent *conn, _ int) (string, bool) {
		return ent.username, ent.state == stateAuthenticated
	}))
	sort.Strings(names)
	return names
}

// members returns the clients of all authenticated connections; only
// they receive room broadcasts.
func (r *Registry) members() []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.FilterMap(lo.Values(r.conns), func(ent *conn, _ int) (*Client, bool) {
		return ent.client, ent.state == stateAuthenticated
	})
}
