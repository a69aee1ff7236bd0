package ports

import (
	"context"

	"github.com/itsupport-id/helpdesk-backend/internal/core/domain"
)

// TicketRepository is the persistence port for the ticket collection.
// Implementations must preserve insertion order in List and GetByEmail and
// return apperrors.ErrTicketNotFound for unknown ids.
type TicketRepository interface {
	// Insert appends a new ticket to the collection.
	Insert(ctx context.Context, ticket *domain.Ticket) error

	// Update replaces the stored record with the given id.
	Update(ctx context.Context, ticket *domain.Ticket) error

	// GetByID returns the single matching record.
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)

	// GetByEmail returns all tickets with an exact, case-sensitive email
	// match, in insertion order.
	GetByEmail(ctx context.Context, email string) ([]*domain.Ticket, error)

	// List returns the full collection in insertion order.
	List(ctx context.Context) ([]*domain.Ticket, error)

	// ListIDs returns every ticket id. Used by the store's id assignment
	// max-scan, which must see the collection as currently persisted.
	ListIDs(ctx context.Context) ([]string, error)
}
