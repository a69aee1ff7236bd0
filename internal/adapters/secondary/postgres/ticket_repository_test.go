package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsupport-id/helpdesk-backend/internal/core/domain"
	apperrors "github.com/itsupport-id/helpdesk-backend/internal/core/errors"
)

func pgTicket(t *testing.T, id string) *domain.Ticket {
	t.Helper()
	ticket, err := domain.NewTicket(id, domain.TicketParams{
		Name:        "Budi Santoso",
		Email:       "budi@example.com",
		Division:    "Keuangan",
		Category:    "Hardware",
		Urgency:     domain.UrgencyMedium,
		Description: "Printer tidak menyala",
	}, time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	return ticket
}

func TestTicketRepository_InsertGet(t *testing.T) {
	truncateTickets(t)
	ctx := context.Background()
	repo := NewTicketRepository(testPool)

	require.NoError(t, repo.Insert(ctx, pgTicket(t, "T0001")))

	found, err := repo.GetByID(ctx, "T0001")
	require.NoError(t, err)
	assert.Equal(t, "Budi Santoso", found.Name)
	assert.Equal(t, domain.StatusOpen, found.Status)
	assert.Empty(t, found.Notes)
	assert.Nil(t, found.AssignedTo)

	_, err = repo.GetByID(ctx, "T9999")
	assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
}

func TestTicketRepository_ListPreservesInsertionOrder(t *testing.T) {
	truncateTickets(t)
	ctx := context.Background()
	repo := NewTicketRepository(testPool)

	require.NoError(t, repo.Insert(ctx, pgTicket(t, "T0002")))
	require.NoError(t, repo.Insert(ctx, pgTicket(t, "T0001")))

	tickets, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	assert.Equal(t, "T0002", tickets[0].ID)
	assert.Equal(t, "T0001", tickets[1].ID)

	ids, err := repo.ListIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"T0002", "T0001"}, ids)
}

func TestTicketRepository_UpdateRoundTripsNotes(t *testing.T) {
	truncateTickets(t)
	ctx := context.Background()
	repo := NewTicketRepository(testPool)

	ticket := pgTicket(t, "T0001")
	require.NoError(t, repo.Insert(ctx, ticket))

	now := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	require.NoError(t, ticket.SetStatus(domain.StatusInProgress, now))
	ticket.Assign("Rina", now)
	require.True(t, ticket.AddNote("Sedang dicek", now))

	require.NoError(t, repo.Update(ctx, ticket))

	found, err := repo.GetByID(ctx, "T0001")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusInProgress, found.Status)
	require.NotNil(t, found.AssignedTo)
	assert.Equal(t, "Rina", *found.AssignedTo)
	require.Len(t, found.Notes, 1)
	assert.Equal(t, "Sedang dicek", found.Notes[0].Body)
	assert.Equal(t, domain.NoteAuthor, found.Notes[0].Author)
}

func TestTicketRepository_AssignmentRoundTripsNull(t *testing.T) {
	truncateTickets(t)
	ctx := context.Background()
	repo := NewTicketRepository(testPool)

	// New tickets carry a nil assignee, which must survive the insert as
	// SQL NULL rather than tripping a constraint.
	require.NoError(t, repo.Insert(ctx, pgTicket(t, "T0001")))

	found, err := repo.GetByID(ctx, "T0001")
	require.NoError(t, err)
	assert.Nil(t, found.AssignedTo)

	now := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)
	found.Assign("Rina", now)
	require.NoError(t, repo.Update(ctx, found))

	// Clearing the assignment writes NULL back, not an empty string.
	found.Assign("", now.Add(time.Hour))
	require.NoError(t, repo.Update(ctx, found))

	cleared, err := repo.GetByID(ctx, "T0001")
	require.NoError(t, err)
	assert.Nil(t, cleared.AssignedTo)
}

func TestTicketRepository_UpdateUnknownID(t *testing.T) {
	truncateTickets(t)
	ctx := context.Background()
	repo := NewTicketRepository(testPool)

	err := repo.Update(ctx, pgTicket(t, "T9999"))
	assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
}

func TestTicketRepository_GetByEmail(t *testing.T) {
	truncateTickets(t)
	ctx := context.Background()
	repo := NewTicketRepository(testPool)

	mine := pgTicket(t, "T0001")
	other := pgTicket(t, "T0002")
	other.Email = "siti@example.com"

	require.NoError(t, repo.Insert(ctx, mine))
	require.NoError(t, repo.Insert(ctx, other))

	tickets, err := repo.GetByEmail(ctx, "budi@example.com")
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "T0001", tickets[0].ID)
}

func TestTicketRepository_Ping(t *testing.T) {
	repo := NewTicketRepository(testPool)
	assert.NoError(t, repo.Ping(context.Background()))
}
