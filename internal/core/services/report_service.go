package services

import (
	"bytes"
	"context"

	"github.com/itsupport-id/helpdesk-backend/internal/core/domain"
	apperrors "github.com/itsupport-id/helpdesk-backend/internal/core/errors"
	"github.com/itsupport-id/helpdesk-backend/internal/core/export"
	"github.com/itsupport-id/helpdesk-backend/internal/core/ports"
)

// ReportService derives report views and exports from the collection.
type ReportService struct {
	repo ports.TicketRepository
}

var _ ports.ReportService = (*ReportService)(nil)

// NewReportService creates a new report service.
func NewReportService(repo ports.TicketRepository) *ReportService {
	return &ReportService{repo: repo}
}

// Select returns the tickets created inside the report window. An unknown
// period is rejected with a validation error rather than silently returning
// the whole collection.
func (s *ReportService) Select(ctx context.Context, params ports.ReportParams) ([]*domain.Ticket, error) {
	if !params.Period.IsValid() {
		return nil, apperrors.NewValidationError(
			apperrors.ErrInvalidReportPeriod,
			"period must be monthly or yearly",
			map[string]interface{}{"period": params.Period},
		)
	}
	if params.Period == domain.PeriodMonthly && (params.Month < 0 || params.Month > 11) {
		return nil, apperrors.NewValidationError(
			apperrors.ErrInvalidReportMonth,
			"month must be between 0 and 11",
			map[string]interface{}{"month": params.Month},
		)
	}

	tickets, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return domain.SelectForReport(tickets, params.Period, params.Year, params.Month), nil
}

// Summary aggregates a report-filtered collection.
func (s *ReportService) Summary(tickets []*domain.Ticket) domain.ReportSummary {
	return domain.Summarize(tickets)
}

// ExportCSV renders the collection as comma-separated text.
func (s *ReportService) ExportCSV(tickets []*domain.Ticket) string {
	return export.CSV(tickets)
}

// ExportXLSX renders the collection as a spreadsheet.
func (s *ReportService) ExportXLSX(tickets []*domain.Ticket) (*bytes.Buffer, error) {
	return export.XLSX(tickets)
}
