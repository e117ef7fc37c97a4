package hub

import (
	"encoding/json"
	"sync"

	"github.com/Mummayiz/Multi-user-Chat-app/internal/domain"
	"github.com/Mummayiz/Multi-user-Chat-app/pkg/log"
)

// Room is the serialization point for one broadcast stream. Every
// mutation of membership and every fan-out for the room happens under
// one lock, so "mutate, snapshot, fan-out" is atomic from any
// observer's perspective and all members see broadcasts in the same
// relative order.
type Room struct {
	name     string
	mu       sync.Mutex
	reg      *Registry
	presence *Tracker
}

func NewRoom(name string) *Room {
	reg := NewRegistry()
	return &Room{
		name:     name,
		reg:      reg,
		presence: NewTracker(reg),
	}
}

func (r *Room) Name() string {
	return r.name
}

// Attach records a freshly connected, unauthenticated client. It does
// not broadcast anything; the client becomes a member only on Join.
func (r *Room) Attach(c *Client) {
	r.reg.Register(c)
	log.L().Debug().Str(log.FieldClientID, c.ID).Str(log.FieldRoom, r.name).Msg("client attached")
}

// Join binds username to the client's connection, then broadcasts the
// updated roster followed by the given notice. The membership used for
// delivery is captured after the bind, so the joiner receives both
// frames. Returns ErrAlreadyBound for a second join on the same
// connection and ErrUnknownConnection for a disconnected one; nothing
// is broadcast on failure.
func (r *Room) Join(c *Client, username string, notice *domain.MessageOut) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delta, err := r.presence.Bind(c.ID, username)
	if err != nil {
		return err
	}

	r.deliver(r.userUpdate())
	r.deliver(notice)
	log.L().Info().Str(log.FieldClientID, c.ID).Str(log.FieldUsername, delta.Username).Str(log.FieldRoom, r.name).Msg("client joined")
	return nil
}

// Leave removes the client's connection. If an identity was bound, the
// remaining members receive the updated roster and the notice built by
// noticeFor; otherwise nothing is broadcast. Duplicate leaves are
// no-ops.
func (r *Room) Leave(c *Client, noticeFor func(username string) *domain.MessageOut) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delta, ok := r.presence.Drop(c.ID)
	if !ok {
		return "", false
	}

	r.deliver(r.userUpdate())
	r.deliver(noticeFor(delta.Username))
	log.L().Info().Str(log.FieldClientID, c.ID).Str(log.FieldUsername, delta.Username).Str(log.FieldRoom, r.name).Msg("client left")
	return delta.Username, true
}

// Broadcast fans one frame out to every current member, in room order.
func (r *Room) Broadcast(v interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliver(v)
}

// Snapshot returns the current membership.
func (r *Room) Snapshot() []string {
	return r.presence.Snapshot()
}

// Identity returns the username bound to a connection, if any.
func (r *Room) Identity(connID string) (string, bool) {
	return r.reg.Identity(connID)
}

func (r *Room) userUpdate() *domain.UserUpdate {
	return &domain.UserUpdate{
		Type:  domain.MsgTypeUserUpdate,
		Users: r.presence.Snapshot(),
	}
}

// deliver marshals v once and queues it for every member. Callers hold
// r.mu. A member whose queue is full misses this one frame; delivery to
// the others is unaffected.
func (r *Room) deliver(v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		log.L().Error().Err(err).Str(log.FieldRoom, r.name).Msg("failed to marshal broadcast frame")
		return
	}

	for _, member := range r.reg.members() {
		select {
		case member.Send <- data:
		default:
			log.L().Debug().Str(log.FieldClientID, member.ID).Str(log.FieldRoom, r.name).Msg("member queue full, frame dropped")
		}
	}
}
