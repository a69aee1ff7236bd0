package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/itsupport-id/helpdesk-backend/internal/core/domain"
	apperrors "github.com/itsupport-id/helpdesk-backend/internal/core/errors"
	"github.com/itsupport-id/helpdesk-backend/internal/core/ports"
)

// TicketRepository implements ticket persistence on PostgreSQL. Notes are
// stored as a jsonb document alongside the row; the collection's insertion
// order is preserved by an internal sequence column.
type TicketRepository struct {
	pool *pgxpool.Pool
}

var _ ports.TicketRepository = (*TicketRepository)(nil)

func NewTicketRepository(pool *pgxpool.Pool) *TicketRepository {
	return &TicketRepository{pool: pool}
}

const ticketColumns = `id, name, email, division, category, urgency, description,
	file_name, status, assigned_to, notes, created_at, updated_at`

func (r *TicketRepository) Insert(ctx context.Context, ticket *domain.Ticket) error {
	notes, err := json.Marshal(ticket.Notes)
	if err != nil {
		return fmt.Errorf("marshaling notes: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO tickets (id, name, email, division, category, urgency, description,
			file_name, status, assigned_to, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		ticket.ID, ticket.Name, ticket.Email, ticket.Division, ticket.Category,
		ticket.Urgency, ticket.Description, ticket.FileName, ticket.Status,
		ticket.AssignedTo, notes, ticket.CreatedAt, ticket.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting ticket %s: %w", ticket.ID, err)
	}
	return nil
}

func (r *TicketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	notes, err := json.Marshal(ticket.Notes)
	if err != nil {
		return fmt.Errorf("marshaling notes: %w", err)
	}

	tag, err := r.pool.Exec(ctx, `
		UPDATE tickets
		SET name = $2, email = $3, division = $4, category = $5, urgency = $6,
			description = $7, file_name = $8, status = $9, assigned_to = $10,
			notes = $11, updated_at = $12
		WHERE id = $1`,
		ticket.ID, ticket.Name, ticket.Email, ticket.Division, ticket.Category,
		ticket.Urgency, ticket.Description, ticket.FileName, ticket.Status,
		ticket.AssignedTo, notes, ticket.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating ticket %s: %w", ticket.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrTicketNotFound
	}
	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id)
	ticket, err := scanTicket(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTicketNotFound
		}
		return nil, fmt.Errorf("fetching ticket %s: %w", id, err)
	}
	return ticket, nil
}

func (r *TicketRepository) GetByEmail(ctx context.Context, email string) ([]*domain.Ticket, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+ticketColumns+` FROM tickets WHERE email = $1 ORDER BY seq`, email)
	if err != nil {
		return nil, fmt.Errorf("fetching tickets by email: %w", err)
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *TicketRepository) List(ctx context.Context) ([]*domain.Ticket, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+ticketColumns+` FROM tickets ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("listing tickets: %w", err)
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *TicketRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM tickets ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("listing ticket ids: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning ticket id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ticket ids: %w", err)
	}
	return ids, nil
}

// Ping reports database reachability for the health endpoints.
func (r *TicketRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTicket(row rowScanner) (*domain.Ticket, error) {
	var (
		t     domain.Ticket
		notes []byte
	)
	err := row.Scan(
		&t.ID, &t.Name, &t.Email, &t.Division, &t.Category, &t.Urgency,
		&t.Description, &t.FileName, &t.Status, &t.AssignedTo, &notes,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(notes) > 0 {
		if err := json.Unmarshal(notes, &t.Notes); err != nil {
			return nil, fmt.Errorf("unmarshaling notes for %s: %w", t.ID, err)
		}
	}
	if t.Notes == nil {
		t.Notes = []domain.Note{}
	}
	return &t, nil
}

func scanTickets(rows pgx.Rows) ([]*domain.Ticket, error) {
	tickets := make([]*domain.Ticket, 0)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning ticket: %w", err)
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tickets: %w", err)
	}
	return tickets, nil
}
