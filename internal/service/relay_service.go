package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mummayiz/Multi-user-Chat-app/internal/clock"
	"github.com/Mummayiz/Multi-user-Chat-app/internal/domain"
	"github.com/Mummayiz/Multi-user-Chat-app/internal/hub"
	"github.com/Mummayiz/Multi-user-Chat-app/pkg/log"
)

// ErrAlreadyJoined is returned for a join on a connection that already
// has an identity.
var ErrAlreadyJoined = errors.New("connection already joined")

type relayService struct {
	room  *hub.Room
	clock clock.Clock
}

// NewRelayService creates the session event handler for one room.
func NewRelayService(room *hub.Room, clk clock.Clock) RelayService {
	return &relayService{room: room, clock: clk}
}

// HandleJoin binds the username and announces the join. The timestamp
// on the notice is taken now, at acceptance; the roster and the notice
// go out as one atomic step so no observer sees them interleaved with
// other events.
func (s *relayService) HandleJoin(ctx context.Context, c *hub.Client, username string) error {
	if username == "" {
		c.SendJSON(domain.NewErrorFrame(domain.ErrCodeBadRequest, "username required"))
		return hub.ErrEmptyUsername
	}

	notice := s.systemNotice(fmt.Sprintf("%s has joined the chat.", username))
	if err := s.room.Join(c, username, notice); err != nil {
		if errors.Is(err, hub.ErrAlreadyBound) {
			c.SendJSON(domain.NewErrorFrame(domain.ErrCodeAlreadyJoined, "already joined"))
			return ErrAlreadyJoined
		}
		// Unknown connection: the transport already went away. Nothing
		// to tell anyone.
		log.Ctx(ctx).Debug().Err(err).Str(log.FieldClientID, c.ID).Msg("join rejected")
		return err
	}
	return nil
}

// HandleMessage relays a text message from an authenticated sender.
// Events from unauthenticated connections are rejected silently: no
// broadcast, no state change.
func (s *relayService) HandleMessage(ctx context.Context, c *hub.Client, text string) error {
	sender, ok := s.room.Identity(c.ID)
	if !ok {
		log.Ctx(ctx).Debug().Str(log.FieldClientID, c.ID).Msg("message from unauthenticated connection dropped")
		return nil
	}

	msg := domain.Message{
		Sender: sender,
		Body:   text,
		Kind:   domain.KindText,
		Time:   s.clock.Stamp(),
	}
	s.room.Broadcast(msg.Out())
	return nil
}

// HandleFileMessage relays a file message. The file reference was
// produced by the upload store; the relay never opens the content.
func (s *relayService) HandleFileMessage(ctx context.Context, c *hub.Client, text string, ref domain.FileRef) error {
	sender, ok := s.room.Identity(c.ID)
	if !ok {
		log.Ctx(ctx).Debug().Str(log.FieldClientID, c.ID).Msg("file message from unauthenticated connection dropped")
		return nil
	}

	msg := domain.Message{
		Sender: sender,
		Body:   text,
		Kind:   domain.KindFile,
		File:   &ref,
		Time:   s.clock.Stamp(),
	}
	s.room.Broadcast(msg.Out())
	return nil
}

// HandleDisconnect removes the connection. If it was authenticated the
// remaining members get the updated roster and a leave notice, exactly
// once per connection lifetime regardless of how many times the
// transport delivers the disconnect.
func (s *relayService) HandleDisconnect(ctx context.Context, c *hub.Client) error {
	s.room.Leave(c, func(username string) *domain.MessageOut {
		return s.systemNotice(fmt.Sprintf("%s has left the chat.", username))
	})
	return nil
}

func (s *relayService) systemNotice(text string) *domain.MessageOut {
	return &domain.MessageOut{
		Type: domain.MsgTypeMessage,
		User: domain.SystemUser,
		Text: text,
		Time: s.clock.Stamp(),
	}
}
