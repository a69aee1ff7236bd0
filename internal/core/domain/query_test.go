package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsupport-id/helpdesk-backend/internal/core/domain"
)

func makeTicket(t *testing.T, id string, mutate func(*domain.TicketParams), createdAt time.Time) *domain.Ticket {
	t.Helper()
	params := validParams()
	if mutate != nil {
		mutate(&params)
	}
	ticket, err := domain.NewTicket(id, params, createdAt)
	require.NoError(t, err)
	return ticket
}

func TestFilter_NoCriteriaPassesThrough(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	tickets := []*domain.Ticket{
		makeTicket(t, "T0001", nil, now),
		makeTicket(t, "T0002", nil, now),
	}

	got := domain.Filter(tickets, domain.FilterCriteria{})

	assert.Equal(t, tickets, got)
}

func TestFilter_CriteriaAreANDCombined(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	hardware := makeTicket(t, "T0001", func(p *domain.TicketParams) {
		p.Category = "Hardware"
		p.Division = "Keuangan"
	}, now)
	software := makeTicket(t, "T0002", func(p *domain.TicketParams) {
		p.Category = "Software"
		p.Division = "Keuangan"
	}, now)
	otherDivision := makeTicket(t, "T0003", func(p *domain.TicketParams) {
		p.Category = "Hardware"
		p.Division = "HRD"
	}, now)

	tickets := []*domain.Ticket{hardware, software, otherDivision}

	got := domain.Filter(tickets, domain.FilterCriteria{
		Category: "Hardware",
		Division: "Keuangan",
	})

	require.Len(t, got, 1)
	assert.Equal(t, "T0001", got[0].ID)
}

func TestFilter_ByStatus(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	open := makeTicket(t, "T0001", nil, now)
	resolved := makeTicket(t, "T0002", nil, now)
	require.NoError(t, resolved.SetStatus(domain.StatusResolved, now))

	got := domain.Filter([]*domain.Ticket{open, resolved}, domain.FilterCriteria{
		Status: "resolved",
	})

	require.Len(t, got, 1)
	assert.Equal(t, "T0002", got[0].ID)
}

func TestFilter_SearchIsCaseInsensitiveSubstring(t *testing.T) {
	now := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	budi := makeTicket(t, "T0001", func(p *domain.TicketParams) {
		p.Name = "Budi Santoso"
	}, now)
	siti := makeTicket(t, "T0002", func(p *domain.TicketParams) {
		p.Name = "Siti Aminah"
		p.Email = "siti@example.com"
		p.Description = "VPN putus terus"
	}, now)

	tickets := []*domain.Ticket{budi, siti}

	tests := []struct {
		name   string
		search string
		wantID string
	}{
		{"matches nama", "bUdI", "T0001"},
		{"matches email", "SITI@", "T0002"},
		{"matches deskripsi", "vpn", "T0002"},
		{"matches id", "t0001", "T0001"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.Filter(tickets, domain.FilterCriteria{Search: tt.search})
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantID, got[0].ID)
		})
	}
}

func TestFilter_DateRangeEndInclusive(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	lastMinute := makeTicket(t, "T0001", nil, time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC))
	justAfter := makeTicket(t, "T0002", nil, time.Date(2024, 2, 1, 0, 0, 1, 0, time.UTC))
	justBefore := makeTicket(t, "T0003", nil, time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC))

	got := domain.Filter([]*domain.Ticket{lastMinute, justAfter, justBefore}, domain.FilterCriteria{
		StartDate: &start,
		EndDate:   &end,
	})

	require.Len(t, got, 1)
	assert.Equal(t, "T0001", got[0].ID)
}

func TestFilter_DateRangeRequiresBothBounds(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	outside := makeTicket(t, "T0001", nil, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))

	// Only one bound set: the range is ignored
	got := domain.Filter([]*domain.Ticket{outside}, domain.FilterCriteria{StartDate: &start})

	assert.Len(t, got, 1)
}

func TestSelectForReport(t *testing.T) {
	january := makeTicket(t, "T0001", nil, time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC))
	february := makeTicket(t, "T0002", nil, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC))
	lastYear := makeTicket(t, "T0003", nil, time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC))

	tickets := []*domain.Ticket{january, february, lastYear}

	t.Run("monthly uses zero-based month", func(t *testing.T) {
		got := domain.SelectForReport(tickets, domain.PeriodMonthly, 2024, 0)
		require.Len(t, got, 1)
		assert.Equal(t, "T0001", got[0].ID)
	})

	t.Run("yearly keeps every month of the year", func(t *testing.T) {
		got := domain.SelectForReport(tickets, domain.PeriodYearly, 2024, 5)
		require.Len(t, got, 2)
	})

	t.Run("unknown period selects nothing", func(t *testing.T) {
		got := domain.SelectForReport(tickets, domain.ReportPeriod("weekly"), 2024, 0)
		assert.Empty(t, got)
	})
}
