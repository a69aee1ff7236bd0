// Package websocket pushes ticket collection changes to connected
// dashboards. Every event goes to every connected client: the dashboard
// shows the whole collection, so there is no per-ticket subscription model.
package websocket

import (
	"log/slog"
	"sync"

	"github.com/itsupport-id/helpdesk-backend/internal/core/domain"
	"github.com/itsupport-id/helpdesk-backend/internal/core/ports"
)

// Hub maintains the set of active clients and fans ticket events out to them.
type Hub struct {
	clients map[*Client]bool

	// Broadcast channel for events
	broadcast chan domain.Event

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	mu     sync.RWMutex
	logger *slog.Logger
}

var _ ports.EventBroadcaster = (*Hub)(nil)

// NewHub creates a new WebSocket hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan domain.Event, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		logger:     logger.With("component", "websocket_hub"),
	}
}

// Broadcast queues an event for delivery to all connected clients. A full
// queue drops the event rather than blocking a ticket mutation.
func (h *Hub) Broadcast(event domain.Event) error {
	select {
	case h.broadcast <- event:
		return nil
	default:
		h.logger.Warn("broadcast channel full, dropping event",
			"event_type", event.Type,
			"ticket_id", event.TicketID,
		)
		return nil
	}
}

// Run starts the hub's event loop. This MUST be run as a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.Unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.broadcastEvent(event)
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true

	h.logger.Info("client registered",
		"remote_addr", client.RemoteAddr,
		"total_connections", len(h.clients),
	)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.CloseSend()
	}

	h.logger.Info("client unregistered",
		"remote_addr", client.RemoteAddr,
		"total_connections", len(h.clients),
	)
}

// broadcastEvent sends an event to every connected client
func (h *Hub) broadcastEvent(event domain.Event) {
	h.mu.RLock()
	// Copy the client list to avoid holding the lock while sending
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	h.logger.Debug("broadcasting event",
		"event_type", event.Type,
		"ticket_id", event.TicketID,
		"client_count", len(clients),
	)

	for _, client := range clients {
		select {
		case client.Send <- event:
			// Successfully queued
		default:
			// Client's send buffer is full, drop the connection. Done inline:
			// pushing to h.Unregister here would block the hub loop on itself.
			h.logger.Warn("client send buffer full, unregistering",
				"remote_addr", client.RemoteAddr,
			)
			h.unregisterClient(client)
		}
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
