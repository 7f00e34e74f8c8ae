package ws

import (
	"encoding/json"
	"fmt"
	"sync"

	"internportal/logutils"
	"internportal/model"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub tracks websocket subscribers by room and fans status updates out to
// them. It is the only caller of the transport; the services only see the
// Publisher interface.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*client]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*client]struct{})}
}

// Publish delivers the update to every subscriber of every matched room.
// Delivery is at-most-once per room: a slow subscriber's full buffer drops
// the message rather than blocking the caller.
func (h *Hub) Publish(update StatusUpdate) {
	payload, err := json.Marshal(update)
	if err != nil {
		logutils.Log.WithError(err).Warn("Failed to encode status update")
		return
	}

	for _, room := range Channels(update) {
		for _, cl := range h.snapshot(room) {
			select {
			case cl.send <- payload:
			default:
				logutils.Log.WithFields(logutils.Fields{
					"room": room,
					"type": update.Type,
				}).Warn("Dropped status update for slow subscriber")
			}
		}
	}
}

// RoomSize returns the current number of subscribers in a room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) snapshot(room string) []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients := make([]*client, 0, len(h.rooms[room]))
	for cl := range h.rooms[room] {
		clients = append(clients, cl)
	}
	return clients
}

func (h *Hub) join(cl *client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*client]struct{})
	}
	h.rooms[room][cl] = struct{}{}
}

func (h *Hub) leave(cl *client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms[room], cl)
	if len(h.rooms[room]) == 0 {
		delete(h.rooms, room)
	}
}

func (h *Hub) remove(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for room, members := range h.rooms {
		delete(members, cl)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
}

// UpgradeRequired gates the websocket route: plain HTTP requests get 426.
func UpgradeRequired(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// clientMessage is the small control protocol subscribers may send.
type clientMessage struct {
	Action string `json:"action"`
	Room   string `json:"room"`
}

// Handler upgrades the connection and subscribes it to the caller's rooms:
// their role room, their personal user room, and the intern/mentor room
// matching their employee id. Must run behind JWTMiddleware.
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals("user_id").(uint)
		empID, _ := conn.Locals("emp_id").(string)
		role, _ := conn.Locals("role").(string)

		cl := &client{conn: conn, send: make(chan []byte, 16)}

		if role != "" {
			h.join(cl, "role:"+role)
		}
		if userID != 0 {
			h.join(cl, UserRoom(fmt.Sprint(userID)))
		}
		if role == model.RoleIntern && empID != "" {
			h.join(cl, InternRoom(empID))
		}
		if role == model.RoleMentor && empID != "" {
			h.join(cl, MentorRoom(empID))
		}

		logutils.Log.WithFields(logutils.Fields{
			"user_id": userID,
			"role":    role,
		}).Info("WebSocket connected")

		done := make(chan struct{})
		go func() {
			for {
				select {
				case payload := <-cl.send:
					if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, raw, err := conn.ReadMessage()
			if err != nil {
				break
			}
			var msg clientMessage
			if err := json.Unmarshal(raw, &msg); err != nil || msg.Room == "" {
				continue
			}
			switch msg.Action {
			case "join_room":
				h.join(cl, msg.Room)
			case "leave_room":
				h.leave(cl, msg.Room)
			}
		}

		close(done)
		h.remove(cl)

		logutils.Log.WithFields(logutils.Fields{
			"user_id": userID,
		}).Info("WebSocket disconnected")
	})
}
