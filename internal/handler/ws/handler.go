// Package ws pushes appended chat messages to clients over a websocket,
// surfacing the message store's subscribe-by-chat contract.
package ws

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/mindhaven/backend/internal/model/chat"
	"github.com/mindhaven/backend/internal/store"
	"github.com/mindhaven/backend/pkg/utils"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	// sendBuffer bounds how far a slow client may fall behind before the
	// connection is dropped.
	sendBuffer = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Handler upgrades chat subscriptions to websocket push.
type Handler struct {
	messages store.MessageStore
	log      zerolog.Logger
}

// New creates the websocket handler.
func New(messages store.MessageStore, log zerolog.Logger) *Handler {
	return &Handler{messages: messages, log: log}
}

// RegisterRoutes mounts the websocket route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/chats/{chatID}/ws", h.handleSubscribe)
}

func (h *Handler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	if _, err := h.messages.GetChat(r.Context(), chatID); err != nil {
		utils.RespondError(w, http.StatusNotFound, "chat not found")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Str("chat_id", chatID).Msg("websocket upgrade failed")
		return
	}

	send := make(chan chat.Message, sendBuffer)
	unsubscribe := h.messages.Subscribe(chatID, func(msg chat.Message) {
		select {
		case send <- msg:
		default:
			// Buffer full: drop the message for this slow client rather
			// than block Append.
		}
	})
	defer unsubscribe()

	done := make(chan struct{})
	go h.readLoop(conn, done)
	h.writeLoop(conn, send, done, chatID)
}

// readLoop drains control frames and signals when the client goes away.
func (h *Handler) readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) writeLoop(conn *websocket.Conn, send <-chan chat.Message, done <-chan struct{}, chatID string) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case <-done:
			return
		case msg := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				h.log.Debug().Err(err).Str("chat_id", chatID).Msg("websocket write failed")
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
