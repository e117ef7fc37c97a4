package service

import (
	"context"

	"github.com/Mummayiz/Multi-user-Chat-app/internal/domain"
	"github.com/Mummayiz/Multi-user-Chat-app/internal/hub"
)

// RelayService is the session event handler: it validates inbound
// events against the room's registry and turns them into broadcasts.
type RelayService interface {
	HandleJoin(ctx context.Context, c *hub.Client, username string) error
	HandleMessage(ctx context.Context, c *hub.Client, text string) error
	HandleFileMessage(ctx context.Context, c *hub.Client, text string, ref domain.FileRef) error
	HandleDisconnect(ctx context.Context, c *hub.Client) error
}
