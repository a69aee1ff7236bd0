package domain

// EventType identifies the kind of real-time ticket event.
type EventType string

const (
	EventTicketCreated EventType = "ticket.created"
	EventTicketUpdated EventType = "ticket.updated"
)

// Event is a real-time notification pushed to connected dashboards whenever
// the collection changes.
type Event struct {
	Type     EventType `json:"type"`
	TicketID string    `json:"ticketId"`
	Payload  *Ticket   `json:"payload,omitempty"`
}
