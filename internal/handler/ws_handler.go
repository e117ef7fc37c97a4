package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Mummayiz/Multi-user-Chat-app/internal/config"
	"github.com/Mummayiz/Multi-user-Chat-app/internal/domain"
	"github.com/Mummayiz/Multi-user-Chat-app/internal/hub"
	"github.com/Mummayiz/Multi-user-Chat-app/internal/identity"
	"github.com/Mummayiz/Multi-user-Chat-app/internal/service"
	"github.com/Mummayiz/Multi-user-Chat-app/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WSHandler upgrades HTTP requests to WebSocket connections and feeds
// inbound frames to the relay service.
type WSHandler struct {
	room     *hub.Room
	service  service.RelayService
	identity *identity.Service
	wsCfg    config.WebSocketConfig
}

func NewWSHandler(room *hub.Room, svc service.RelayService, idsvc *identity.Service, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		room:     room,
		service:  svc,
		identity: idsvc,
		wsCfg:    wsCfg,
	}
}

func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.L().Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	// A valid session token binds the connection to the account's
	// username; the join frame's username field is then ignored.
	sessionUser := h.identity.SessionUsername(c.Query("token"))

	client := hub.NewClient(uuid.New().String(), conn, h.wsCfg)
	h.room.Attach(client)

	log.L().Debug().
		Str(log.FieldClientID, client.ID).
		Str(log.FieldRoom, h.room.Name()).
		Msg("client connected")

	go client.WritePump()
	go client.ReadPump(
		func(cl *hub.Client, message []byte) {
			h.handleFrame(cl, sessionUser, message)
		},
		h.handleClosed,
	)
}

func (h *WSHandler) handleFrame(client *hub.Client, sessionUser string, message []byte) {
	var base domain.BaseFrame
	if err := json.Unmarshal(message, &base); err != nil {
		client.SendJSON(domain.NewErrorFrame(domain.ErrCodeBadRequest, "Invalid frame format"))
		return
	}

	ctx := log.WithClient(context.Background(), client.ID, sessionUser)

	switch base.Type {
	case domain.MsgTypeJoin:
		var msg domain.JoinFrame
		if err := json.Unmarshal(message, &msg); err != nil {
			client.SendJSON(domain.NewErrorFrame(domain.ErrCodeBadRequest, "Invalid join frame"))
			return
		}
		username := msg.Username
		if sessionUser != "" {
			username = sessionUser
		}
		if err := h.service.HandleJoin(ctx, client, username); err != nil {
			log.L().Debug().
				Str(log.FieldClientID, client.ID).
				Err(err).
				Msg("join rejected")
		}

	case domain.MsgTypeMessage:
		var msg domain.MessageFrame
		if err := json.Unmarshal(message, &msg); err != nil {
			client.SendJSON(domain.NewErrorFrame(domain.ErrCodeBadRequest, "Invalid message frame"))
			return
		}
		if err := h.service.HandleMessage(ctx, client, msg.Text); err != nil {
			log.L().Debug().
				Str(log.FieldClientID, client.ID).
				Err(err).
				Msg("message dropped")
		}

	case domain.MsgTypeFileMessage:
		var msg domain.FileMessageFrame
		if err := json.Unmarshal(message, &msg); err != nil {
			client.SendJSON(domain.NewErrorFrame(domain.ErrCodeBadRequest, "Invalid file_message frame"))
			return
		}
		ref := domain.FileRef{StoredName: msg.Filename, DisplayName: msg.OriginalName}
		if err := h.service.HandleFileMessage(ctx, client, msg.Text, ref); err != nil {
			log.L().Debug().
				Str(log.FieldClientID, client.ID).
				Err(err).
				Msg("file message dropped")
		}

	default:
		client.SendJSON(domain.NewErrorFrame(domain.ErrCodeBadRequest, "Unknown frame type"))
	}
}

func (h *WSHandler) handleClosed(client *hub.Client) {
	ctx := log.WithClient(context.Background(), client.ID, "")
	if err := h.service.HandleDisconnect(ctx, client); err != nil {
		log.L().Warn().
			Str(log.FieldClientID, client.ID).
			Err(err).
			Msg("disconnect handling failed")
	}
	client.Close()

	log.L().Debug().
		Str(log.FieldClientID, client.ID).
		Msg("client disconnected")
}

func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/chat/ws", h.HandleWebSocket)
}
