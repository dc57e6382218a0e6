// Package notifications pushes CRM events to connected browsers over
// websockets.
package notifications

import (
	"crm/middlewares"
	"crm/schemas"
	"crm/utils"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeTimeout = 5 * time.Second
	sendBuffer   = 16
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type subscriber struct {
	conn *websocket.Conn
	user middlewares.AuthUser
	send chan schemas.Event
}

type Hub struct {
	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subscribers: make(map[*subscriber]struct{})}
}

// Default is the hub served on /v1/ws/notifications.
var Default = NewHub()

func Publish(event schemas.Event) {
	Default.Publish(event)
}

func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Publish queues event for every subscriber allowed to see it. It never
// waits on a socket: a subscriber whose queue is full is dropped.
func (h *Hub) Publish(event schemas.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subscribers {
		if !canReceive(sub.user, event) {
			continue
		}

		select {
		case sub.send <- event:
		default:
			zap.L().Debug("dropping slow websocket subscriber", zap.String("user", sub.user.ID.Hex()))
			h.remove(sub)
		}
	}
}

// remove unregisters sub and closes its queue. h.mu must be held.
func (h *Hub) remove(sub *subscriber) {
	if _, ok := h.subscribers[sub]; !ok {
		return
	}
	delete(h.subscribers, sub)
	close(sub.send)
}

// writePump writes queued events until the queue is closed or a write
// fails, then closes the connection.
func (h *Hub) writePump(sub *subscriber) {
	defer sub.conn.Close()

	for event := range sub.send {
		sub.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := sub.conn.WriteJSON(event); err != nil {
			zap.L().Debug("dropping websocket subscriber", zap.String("user", sub.user.ID.Hex()), zap.Error(err))
			h.mu.Lock()
			h.remove(sub)
			h.mu.Unlock()
			return
		}
	}
}

func canReceive(user middlewares.AuthUser, event schemas.Event) bool {
	if user.Role == schemas.ROLE_CLIENT {
		return event.ClientID != "" && event.ClientID == user.ClientID.Hex()
	}
	if len(event.Audience) == 0 {
		return user.IsStaff()
	}
	return slices.Contains(event.Audience, user.Role)
}

// ServeWS authenticates the caller from the token query parameter or the
// Authorization header, then holds the connection open until the client
// goes away. Incoming frames are discarded.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("token")
	if raw == "" {
		raw, _ = strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if raw == "" {
		utils.SendResponse(w, http.StatusUnauthorized, "Jeton non fourni", nil, 0)
		return
	}

	user, status, problem := middlewares.Authenticate(r.Context(), raw)
	if status != 0 {
		utils.SendResponse(w, status, problem, nil, 0)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	sub := &subscriber{conn: conn, user: user, send: make(chan schemas.Event, sendBuffer)}

	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()

	go h.writePump(sub)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.mu.Lock()
	h.remove(sub)
	h.mu.Unlock()
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers {
		h.remove(sub)
	}
}
