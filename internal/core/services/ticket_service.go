package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/itsupport-id/helpdesk-backend/internal/core/domain"
	"github.com/itsupport-id/helpdesk-backend/internal/core/ports"
)

// TicketService implements the store operations over the ticket collection.
type TicketService struct {
	repo        ports.TicketRepository
	broadcaster ports.EventBroadcaster
	logger      *slog.Logger
	now         func() time.Time
}

var _ ports.TicketService = (*TicketService)(nil)

// NewTicketService creates a new ticket service.
func NewTicketService(
	repo ports.TicketRepository,
	broadcaster ports.EventBroadcaster,
	logger *slog.Logger,
) *TicketService {
	return &TicketService{
		repo:        repo,
		broadcaster: broadcaster,
		logger:      logger.With("service", "ticket"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the service's notion of the current time. Tests use it
// to pin timestamps.
func (s *TicketService) WithClock(now func() time.Time) *TicketService {
	s.now = now
	return s
}

// Create handles the use case for submitting a new ticket. The id is
// recomputed by max-scan over the persisted ids on every call, so the
// sequence stays monotone even across store reconstruction or out-of-band
// edits to the persisted collection.
func (s *TicketService) Create(ctx context.Context, params ports.CreateTicketParams) (*domain.Ticket, error) {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		return nil, err
	}

	ticket, err := domain.NewTicket(domain.NextTicketID(ids), domain.TicketParams{
		Name:        params.Name,
		Email:       params.Email,
		Division:    params.Division,
		Category:    params.Category,
		Urgency:     params.Urgency,
		Description: params.Description,
		FileName:    params.FileName,
	}, s.now())
	if err != nil {
		return nil, err // Validation errors are returned here
	}

	if err := s.repo.Insert(ctx, ticket); err != nil {
		return nil, err
	}

	s.broadcast(domain.Event{
		Type:     domain.EventTicketCreated,
		TicketID: ticket.ID,
		Payload:  ticket,
	})

	return ticket, nil
}

// Get retrieves a single ticket by id.
func (s *TicketService) Get(ctx context.Context, id string) (*domain.Ticket, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns the collection narrowed by the given criteria, in insertion
// order. Empty criteria return the full collection.
func (s *TicketService) List(ctx context.Context, criteria domain.FilterCriteria) ([]*domain.Ticket, error) {
	tickets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.Filter(tickets, criteria), nil
}

// ListByEmail returns the requester's own tickets: exact, case-sensitive
// match on the email field.
func (s *TicketService) ListByEmail(ctx context.Context, email string) ([]*domain.Ticket, error) {
	return s.repo.GetByEmail(ctx, email)
}

// Update applies a partial update to an existing ticket. The update
// timestamp is refreshed unconditionally; a note is appended only when the
// trimmed note text is non-empty. An unknown id fails with ErrTicketNotFound
// and leaves the collection untouched.
func (s *TicketService) Update(ctx context.Context, params ports.UpdateTicketParams) (*domain.Ticket, error) {
	ticket, err := s.repo.GetByID(ctx, params.TicketID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	if params.Status != nil {
		if err := ticket.SetStatus(*params.Status, now); err != nil {
			return nil, err
		}
	}
	if params.AssignedTo != nil {
		ticket.Assign(*params.AssignedTo, now)
	}
	ticket.AddNote(params.NewNoteText, now)
	ticket.UpdatedAt = now

	if err := s.repo.Update(ctx, ticket); err != nil {
		return nil, err
	}

	s.broadcast(domain.Event{
		Type:     domain.EventTicketUpdated,
		TicketID: ticket.ID,
		Payload:  ticket,
	})

	return ticket, nil
}

// Statistics returns the dashboard counters for the whole collection.
func (s *TicketService) Statistics(ctx context.Context) (domain.Statistics, error) {
	tickets, err := s.repo.List(ctx)
	if err != nil {
		return domain.Statistics{}, err
	}
	return domain.Collect(tickets), nil
}

// broadcast pushes an event to connected dashboards. Delivery is best
// effort: a failed broadcast is logged, never surfaced to the caller.
func (s *TicketService) broadcast(event domain.Event) {
	if s.broadcaster == nil {
		return
	}
	if err := s.broadcaster.Broadcast(event); err != nil {
		s.logger.Warn("event broadcast failed",
			"event_type", event.Type,
			"ticket_id", event.TicketID,
			"error", err,
		)
	}
}
