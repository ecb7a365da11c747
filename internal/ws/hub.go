package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"CalAssist/entity"
)

// Event represents a WebSocket event pushed to connected clients.
type Event struct {
	Type string      `json:"type"` // "reminder", "appointment_update"
	Data interface{} `json:"data"`
}

type reminderPayload struct {
	UserUUID    string             `json:"user_uuid"`
	Appointment entity.Appointment `json:"appointment"`
}

// Hub maintains the set of active WebSocket clients and broadcasts events.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	log        *slog.Logger
}

// NewHub creates a new Hub instance.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		log:        log,
	}
}

// Run starts the hub's event loop. Should be called in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			h.mu.Lock()
			for client := range h.clients {
				if !client.wants(event) {
					continue
				}
				select {
				case client.send <- data:
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// NotifyReminder pushes a reminder event to the user's connected clients.
func (h *Hub) NotifyReminder(user *entity.User, appointment entity.Appointment) {
	h.broadcast <- &Event{
		Type: "reminder",
		Data: reminderPayload{
			UserUUID:    user.UUID,
			Appointment: appointment,
		},
	}
}

// BroadcastAppointment pushes an appointment_update event, so open chat
// views refresh after a tool call changed the schedule.
func (h *Hub) BroadcastAppointment(userUUID string, appointment entity.Appointment) {
	h.broadcast <- &Event{
		Type: "appointment_update",
		Data: reminderPayload{
			UserUUID:    userUUID,
			Appointment: appointment,
		},
	}
}
