// Package jsonfile persists the ticket collection as a single JSON array in
// one file, mirroring the browser-local blob the dashboard originally used:
// the whole collection is read at startup and rewritten wholesale after
// every mutation.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/itsupport-id/helpdesk-backend/internal/core/domain"
	apperrors "github.com/itsupport-id/helpdesk-backend/internal/core/errors"
	"github.com/itsupport-id/helpdesk-backend/internal/core/ports"
)

// TicketRepository is the file-backed secondary adapter for ticket
// persistence. A mutex serializes all access: the deployment model is a
// single store instance owning its own blob.
type TicketRepository struct {
	path    string
	logger  *slog.Logger
	mu      sync.Mutex
	tickets []*domain.Ticket
}

var _ ports.TicketRepository = (*TicketRepository)(nil)

// NewTicketRepository loads the collection from the given path. A missing,
// empty, or unparseable blob is treated as an empty collection; parse
// failures are logged rather than propagated so a corrupt blob never stops
// the service from starting.
func NewTicketRepository(path string, logger *slog.Logger) (*TicketRepository, error) {
	r := &TicketRepository{
		path:   path,
		logger: logger.With("repository", "jsonfile"),
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		r.tickets = []*domain.Ticket{}
	case err != nil:
		return nil, err
	default:
		if jsonErr := json.Unmarshal(data, &r.tickets); jsonErr != nil {
			r.logger.Warn("ticket blob is not valid JSON, starting with an empty collection",
				"path", path,
				"error", jsonErr,
			)
			r.tickets = []*domain.Ticket{}
		}
	}
	if r.tickets == nil {
		r.tickets = []*domain.Ticket{}
	}

	return r, nil
}

// clone copies a record including its Notes slice, so a caller appending to
// a returned ticket can never write into the stored record's backing array.
func clone(t *domain.Ticket) *domain.Ticket {
	copied := *t
	copied.Notes = make([]domain.Note, len(t.Notes))
	copy(copied.Notes, t.Notes)
	return &copied
}

// save rewrites the whole blob. Written to a temp file first and renamed
// into place so a crash mid-write never leaves a truncated collection.
func (r *TicketRepository) save() error {
	data, err := json.MarshalIndent(r.tickets, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "tickets-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}

	return os.Rename(tmp.Name(), r.path)
}

// Insert appends a new ticket and persists the collection.
func (r *TicketRepository) Insert(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tickets = append(r.tickets, clone(ticket))
	if err := r.save(); err != nil {
		r.tickets = r.tickets[:len(r.tickets)-1]
		return err
	}
	return nil
}

// Update replaces the stored record with the same id and persists.
func (r *TicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.tickets {
		if existing.ID == ticket.ID {
			previous := r.tickets[i]
			r.tickets[i] = clone(ticket)
			if err := r.save(); err != nil {
				r.tickets[i] = previous
				return err
			}
			return nil
		}
	}
	return apperrors.ErrTicketNotFound
}

// GetByID returns the single matching record.
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range r.tickets {
		if t.ID == id {
			return clone(t), nil
		}
	}
	return nil, apperrors.ErrTicketNotFound
}

// GetByEmail returns all tickets with an exact email match, in insertion
// order.
func (r *TicketRepository) GetByEmail(ctx context.Context, email string) ([]*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	matches := make([]*domain.Ticket, 0)
	for _, t := range r.tickets {
		if t.Email == email {
			matches = append(matches, clone(t))
		}
	}
	return matches, nil
}

// List returns the full collection in insertion order.
func (r *TicketRepository) List(ctx context.Context) ([]*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tickets := make([]*domain.Ticket, len(r.tickets))
	for i, t := range r.tickets {
		tickets[i] = clone(t)
	}
	return tickets, nil
}

// ListIDs returns every ticket id in insertion order.
func (r *TicketRepository) ListIDs(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, len(r.tickets))
	for i, t := range r.tickets {
		ids[i] = t.ID
	}
	return ids, nil
}

// Ping reports whether the blob's directory is writable. Used by the health
// endpoints.
func (r *TicketRepository) Ping(ctx context.Context) error {
	dir := filepath.Dir(r.path)
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return os.MkdirAll(dir, 0o755)
		}
		return err
	}
	if !info.IsDir() {
		return errors.New("storage path parent is not a directory")
	}
	return nil
}
