package ports

import (
	"bytes"
	"context"

	"github.com/itsupport-id/helpdesk-backend/internal/core/domain"
)

// CreateTicketParams defines the required input for creating a new ticket.
type CreateTicketParams struct {
	Name        string
	Email       string
	Division    string
	Category    string
	Urgency     domain.Urgency
	Description string
	FileName    string
}

// UpdateTicketParams defines the input for a partial ticket update. Nil
// pointer fields are left untouched; an empty AssignedTo clears the
// assignment. NewNoteText, when non-blank after trimming, appends one note.
type UpdateTicketParams struct {
	TicketID    string
	Status      *domain.TicketStatus
	AssignedTo  *string
	NewNoteText string
}

// ReportParams defines the input for selecting a report window. Month is
// zero-based and only consulted for the monthly period.
type ReportParams struct {
	Period domain.ReportPeriod
	Year   int
	Month  int
}

// TicketService defines the core store operations over one ticket
// collection.
type TicketService interface {
	Create(ctx context.Context, params CreateTicketParams) (*domain.Ticket, error)
	Get(ctx context.Context, id string) (*domain.Ticket, error)
	List(ctx context.Context, criteria domain.FilterCriteria) ([]*domain.Ticket, error)
	ListByEmail(ctx context.Context, email string) ([]*domain.Ticket, error)
	Update(ctx context.Context, params UpdateTicketParams) (*domain.Ticket, error)
	Statistics(ctx context.Context) (domain.Statistics, error)
}

// ReportService derives report views and exports from the collection.
type ReportService interface {
	Select(ctx context.Context, params ReportParams) ([]*domain.Ticket, error)
	Summary(tickets []*domain.Ticket) domain.ReportSummary
	ExportCSV(tickets []*domain.Ticket) string
	ExportXLSX(tickets []*domain.Ticket) (*bytes.Buffer, error)
}

// EventBroadcaster pushes collection-change events to connected dashboards.
type EventBroadcaster interface {
	Broadcast(event domain.Event) error
}
