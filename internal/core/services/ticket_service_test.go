package services_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/itsupport-id/helpdesk-backend/internal/core/domain"
	apperrors "github.com/itsupport-id/helpdesk-backend/internal/core/errors"
	"github.com/itsupport-id/helpdesk-backend/internal/core/mocks"
	"github.com/itsupport-id/helpdesk-backend/internal/core/ports"
	"github.com/itsupport-id/helpdesk-backend/internal/core/services"
)

var testTime = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestService(repo *mocks.MockTicketRepository, broadcaster *mocks.MockEventBroadcaster) *services.TicketService {
	return services.NewTicketService(repo, broadcaster, slog.Default()).
		WithClock(func() time.Time { return testTime })
}

func createParams() ports.CreateTicketParams {
	return ports.CreateTicketParams{
		Name:        "Budi Santoso",
		Email:       "budi@example.com",
		Division:    "Keuangan",
		Category:    "Hardware",
		Urgency:     domain.UrgencyMedium,
		Description: "Printer tidak menyala",
	}
}

func storedTicket(t *testing.T, id string) *domain.Ticket {
	t.Helper()
	ticket, err := domain.NewTicket(id, domain.TicketParams{
		Name:        "Budi Santoso",
		Email:       "budi@example.com",
		Division:    "Keuangan",
		Category:    "Hardware",
		Urgency:     domain.UrgencyMedium,
		Description: "Printer tidak menyala",
	}, testTime.Add(-24*time.Hour))
	require.NoError(t, err)
	return ticket
}

func TestTicketService_Create(t *testing.T) {
	t.Run("assigns next id and broadcasts", func(t *testing.T) {
		repo := mocks.NewMockTicketRepository()
		broadcaster := mocks.NewMockEventBroadcaster()
		svc := newTestService(repo, broadcaster)

		repo.On("ListIDs", mock.Anything).Return([]string{"T0001", "T0007"}, nil)
		repo.On("Insert", mock.Anything, mock.MatchedBy(func(ticket *domain.Ticket) bool {
			return ticket.ID == "T0008"
		})).Return(nil)
		broadcaster.On("Broadcast", mock.MatchedBy(func(event domain.Event) bool {
			return event.Type == domain.EventTicketCreated && event.TicketID == "T0008"
		})).Return(nil)

		ticket, err := svc.Create(context.Background(), createParams())

		require.NoError(t, err)
		assert.Equal(t, "T0008", ticket.ID)
		assert.Equal(t, domain.StatusOpen, ticket.Status)
		assert.Equal(t, testTime, ticket.CreatedAt)
		repo.AssertExpectations(t)
		broadcaster.AssertExpectations(t)
	})

	t.Run("empty collection starts at T0001", func(t *testing.T) {
		repo := mocks.NewMockTicketRepository()
		broadcaster := mocks.NewMockEventBroadcaster()
		svc := newTestService(repo, broadcaster)

		repo.On("ListIDs", mock.Anything).Return([]string{}, nil)
		repo.On("Insert", mock.Anything, mock.Anything).Return(nil)
		broadcaster.On("Broadcast", mock.Anything).Return(nil)

		ticket, err := svc.Create(context.Background(), createParams())

		require.NoError(t, err)
		assert.Equal(t, "T0001", ticket.ID)
	})

	t.Run("validation failure inserts nothing", func(t *testing.T) {
		repo := mocks.NewMockTicketRepository()
		broadcaster := mocks.NewMockEventBroadcaster()
		svc := newTestService(repo, broadcaster)

		repo.On("ListIDs", mock.Anything).Return([]string{}, nil)

		params := createParams()
		params.Email = "not-an-email"

		_, err := svc.Create(context.Background(), params)

		var validationErrs *apperrors.ValidationErrors
		require.ErrorAs(t, err, &validationErrs)
		repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		broadcaster.AssertNotCalled(t, "Broadcast", mock.Anything)
	})

	t.Run("broadcast failure does not fail the create", func(t *testing.T) {
		repo := mocks.NewMockTicketRepository()
		broadcaster := mocks.NewMockEventBroadcaster()
		svc := newTestService(repo, broadcaster)

		repo.On("ListIDs", mock.Anything).Return([]string{}, nil)
		repo.On("Insert", mock.Anything, mock.Anything).Return(nil)
		broadcaster.On("Broadcast", mock.Anything).Return(errors.New("hub down"))

		_, err := svc.Create(context.Background(), createParams())

		assert.NoError(t, err)
	})
}

func TestTicketService_Update(t *testing.T) {
	t.Run("unknown id leaves collection untouched", func(t *testing.T) {
		repo := mocks.NewMockTicketRepository()
		broadcaster := mocks.NewMockEventBroadcaster()
		svc := newTestService(repo, broadcaster)

		repo.On("GetByID", mock.Anything, "T9999").Return(nil, apperrors.ErrTicketNotFound)

		_, err := svc.Update(context.Background(), ports.UpdateTicketParams{TicketID: "T9999"})

		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("status change refreshes update timestamp", func(t *testing.T) {
		repo := mocks.NewMockTicketRepository()
		broadcaster := mocks.NewMockEventBroadcaster()
		svc := newTestService(repo, broadcaster)

		existing := storedTicket(t, "T0001")
		repo.On("GetByID", mock.Anything, "T0001").Return(existing, nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(nil)
		broadcaster.On("Broadcast", mock.MatchedBy(func(event domain.Event) bool {
			return event.Type == domain.EventTicketUpdated && event.TicketID == "T0001"
		})).Return(nil)

		status := domain.StatusResolved
		ticket, err := svc.Update(context.Background(), ports.UpdateTicketParams{
			TicketID: "T0001",
			Status:   &status,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.StatusResolved, ticket.Status)
		assert.Equal(t, testTime, ticket.UpdatedAt)
		broadcaster.AssertExpectations(t)
	})

	t.Run("invalid status is rejected before persisting", func(t *testing.T) {
		repo := mocks.NewMockTicketRepository()
		broadcaster := mocks.NewMockEventBroadcaster()
		svc := newTestService(repo, broadcaster)

		existing := storedTicket(t, "T0001")
		repo.On("GetByID", mock.Anything, "T0001").Return(existing, nil)

		status := domain.TicketStatus("bogus")
		_, err := svc.Update(context.Background(), ports.UpdateTicketParams{
			TicketID: "T0001",
			Status:   &status,
		})

		assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("note-only update appends exactly one note", func(t *testing.T) {
		repo := mocks.NewMockTicketRepository()
		broadcaster := mocks.NewMockEventBroadcaster()
		svc := newTestService(repo, broadcaster)

		existing := storedTicket(t, "T0001")
		repo.On("GetByID", mock.Anything, "T0001").Return(existing, nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(nil)
		broadcaster.On("Broadcast", mock.Anything).Return(nil)

		ticket, err := svc.Update(context.Background(), ports.UpdateTicketParams{
			TicketID:    "T0001",
			NewNoteText: "Spare part dipesan",
		})

		require.NoError(t, err)
		require.Len(t, ticket.Notes, 1)
		assert.Equal(t, "Spare part dipesan", ticket.Notes[0].Body)
		assert.Equal(t, domain.NoteAuthor, ticket.Notes[0].Author)
		// Other fields untouched
		assert.Equal(t, domain.StatusOpen, ticket.Status)
		assert.Nil(t, ticket.AssignedTo)
	})

	t.Run("empty assignedTo clears the assignment", func(t *testing.T) {
		repo := mocks.NewMockTicketRepository()
		broadcaster := mocks.NewMockEventBroadcaster()
		svc := newTestService(repo, broadcaster)

		existing := storedTicket(t, "T0001")
		existing.Assign("Rina", testTime.Add(-time.Hour))
		repo.On("GetByID", mock.Anything, "T0001").Return(existing, nil)
		repo.On("Update", mock.Anything, mock.Anything).Return(nil)
		broadcaster.On("Broadcast", mock.Anything).Return(nil)

		empty := ""
		ticket, err := svc.Update(context.Background(), ports.UpdateTicketParams{
			TicketID:   "T0001",
			AssignedTo: &empty,
		})

		require.NoError(t, err)
		assert.Nil(t, ticket.AssignedTo)
	})
}

func TestTicketService_List(t *testing.T) {
	repo := mocks.NewMockTicketRepository()
	broadcaster := mocks.NewMockEventBroadcaster()
	svc := newTestService(repo, broadcaster)

	a := storedTicket(t, "T0001")
	b := storedTicket(t, "T0002")
	require.NoError(t, b.SetStatus(domain.StatusResolved, testTime))

	repo.On("List", mock.Anything).Return([]*domain.Ticket{a, b}, nil)

	got, err := svc.List(context.Background(), domain.FilterCriteria{Status: "resolved"})

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "T0002", got[0].ID)
}

func TestTicketService_Statistics(t *testing.T) {
	repo := mocks.NewMockTicketRepository()
	broadcaster := mocks.NewMockEventBroadcaster()
	svc := newTestService(repo, broadcaster)

	a := storedTicket(t, "T0001")
	b := storedTicket(t, "T0002")
	require.NoError(t, b.SetStatus(domain.StatusClosed, testTime))

	repo.On("List", mock.Anything).Return([]*domain.Ticket{a, b}, nil)

	stats, err := svc.Statistics(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Open)
	assert.Equal(t, 1, stats.Closed)
}
