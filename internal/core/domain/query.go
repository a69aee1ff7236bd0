package domain

import (
	"strings"
	"time"
)

// ReportPeriod selects the granularity of a report.
type ReportPeriod string

const (
	PeriodMonthly ReportPeriod = "monthly"
	PeriodYearly  ReportPeriod = "yearly"
)

// IsValid reports whether the period is a known value.
func (p ReportPeriod) IsValid() bool {
	return p == PeriodMonthly || p == PeriodYearly
}

// FilterCriteria describes an AND-combined ticket filter. Zero-valued
// fields are ignored, so the zero criteria passes every ticket through.
type FilterCriteria struct {
	Status   string
	Category string
	Division string
	// Search matches case-insensitively as a substring of nama, email,
	// deskripsi, or id.
	Search string
	// StartDate and EndDate bound the creation timestamp. The range is only
	// applied when both are set. The end date is inclusive of the whole day:
	// a ticket created at any time on EndDate matches.
	StartDate *time.Time
	EndDate   *time.Time
}

func (c FilterCriteria) isZero() bool {
	return c.Status == "" && c.Category == "" && c.Division == "" &&
		c.Search == "" && (c.StartDate == nil || c.EndDate == nil)
}

func (c FilterCriteria) matches(t *Ticket) bool {
	if c.Status != "" && string(t.Status) != c.Status {
		return false
	}
	if c.Category != "" && t.Category != c.Category {
		return false
	}
	if c.Division != "" && t.Division != c.Division {
		return false
	}
	if c.Search != "" {
		term := strings.ToLower(c.Search)
		if !strings.Contains(strings.ToLower(t.Name), term) &&
			!strings.Contains(strings.ToLower(t.Email), term) &&
			!strings.Contains(strings.ToLower(t.Description), term) &&
			!strings.Contains(strings.ToLower(t.ID), term) {
			return false
		}
	}
	if c.StartDate != nil && c.EndDate != nil {
		end := c.EndDate.AddDate(0, 0, 1)
		if t.CreatedAt.Before(*c.StartDate) || !t.CreatedAt.Before(end) {
			return false
		}
	}
	return true
}

// Filter returns the tickets matching every supplied criterion, preserving
// input order. With no criteria the input slice is returned as-is.
func Filter(tickets []*Ticket, criteria FilterCriteria) []*Ticket {
	if criteria.isZero() {
		return tickets
	}

	filtered := make([]*Ticket, 0, len(tickets))
	for _, t := range tickets {
		if criteria.matches(t) {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// SelectForReport narrows the collection to the report window. Monthly keeps
// tickets created in the given year and month (month is zero-based, January
// is 0); yearly keeps tickets created in the given year. Callers are
// expected to validate the period first; an unknown period selects nothing.
func SelectForReport(tickets []*Ticket, period ReportPeriod, year, month int) []*Ticket {
	selected := make([]*Ticket, 0, len(tickets))
	for _, t := range tickets {
		switch period {
		case PeriodMonthly:
			if t.CreatedAt.Year() == year && int(t.CreatedAt.Month())-1 == month {
				selected = append(selected, t)
			}
		case PeriodYearly:
			if t.CreatedAt.Year() == year {
				selected = append(selected, t)
			}
		}
	}
	return selected
}
