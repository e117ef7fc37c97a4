package hub

// DeltaKind distinguishes membership changes.
type DeltaKind int

const (
	Joined DeltaKind = iota
	Left
)

// Delta is a single membership change.
type Delta struct {
	Kind     DeltaKind
	Username string
}

// Tracker derives room membership from the connection registry. A bind
// produces exactly one Joined delta and a disconnect at most one Left
// delta per connection lifetime; the full snapshot is always recomputed
// from the registry rather than maintained incrementally, so it cannot
// drift.
type Tracker struct {
	reg *Registry
}

func NewTracker(reg *Registry) *Tracker {
	return &Tracker{reg: reg}
}

// Bind authenticates the connection and reports the Joined delta.
func (t *Tracker) Bind(id, username string) (Delta, error) {
	if err := t.reg.BindIdentity(id, username); err != nil {
		return Delta{}, err
	}
	return Delta{Kind: Joined, Username: username}, nil
}

// Drop removes the connection. A Left delta is reported only when an
// identity was bound, so unauthenticated and duplicate disconnects
// produce nothing.
func (t *Tracker) Drop(id string) (Delta, bool) {
	username, bound := t.reg.Unregister(id)
	if !bound {
		return Delta{}, false
	}
	return Delta{Kind: Left, Username: username}, true
}

// Snapshot recomputes the current membership from the registry.
func (t *Tracker) Snapshot() []string {
	return t.reg.Identities()
}
