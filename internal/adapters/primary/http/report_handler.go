package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/itsupport-id/helpdesk-backend/internal/adapters/primary/validation"
	"github.com/itsupport-id/helpdesk-backend/internal/core/domain"
	apperrors "github.com/itsupport-id/helpdesk-backend/internal/core/errors"
	"github.com/itsupport-id/helpdesk-backend/internal/core/ports"
)

// ReportHandler serves the dashboard statistics and the periodic reports,
// including file exports.
type ReportHandler struct {
	ticketService ports.TicketService
	reportService ports.ReportService
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewReportHandler creates a new report handler
func NewReportHandler(
	ticketService ports.TicketService,
	reportService ports.ReportService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *ReportHandler {
	return &ReportHandler{
		ticketService: ticketService,
		reportService: reportService,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "report"),
	}
}

// RegisterRoutes sets up the routing for statistics and report endpoints.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/statistics", h.HandleStatistics)
	r.Get("/reports", h.HandleReport)
	r.Get("/reports/export", h.HandleExport)
}

// ReportResponse carries the selected tickets together with their summary.
type ReportResponse struct {
	Summary domain.ReportSummary `json:"summary"`
	Tickets []*domain.Ticket     `json:"tickets"`
}

// HandleStatistics handles GET /statistics
func (h *ReportHandler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ticketService.Statistics(r.Context())
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}

// reportParams reads period/year/month from the query string. Year defaults
// to the current year and month to the current month (zero-based, matching
// the report window convention).
func (h *ReportHandler) reportParams(r *http.Request) (ports.ReportParams, error) {
	now := time.Now()

	year, err := validation.ParseIntQueryParam(r, "year", now.Year())
	if err != nil {
		return ports.ReportParams{}, err
	}
	month, err := validation.ParseIntQueryParam(r, "month", int(now.Month())-1)
	if err != nil {
		return ports.ReportParams{}, err
	}

	return ports.ReportParams{
		Period: domain.ReportPeriod(r.URL.Query().Get("period")),
		Year:   year,
		Month:  month,
	}, nil
}

// HandleReport handles GET /reports
func (h *ReportHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	params, err := h.reportParams(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	tickets, err := h.reportService.Select(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, ReportResponse{
		Summary: h.reportService.Summary(tickets),
		Tickets: tickets,
	})
}

// HandleExport handles GET /reports/export?format=csv|xlsx
func (h *ReportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	params, err := h.reportParams(r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	tickets, err := h.reportService.Select(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}

	filename := "laporan-tiket-" + time.Now().Format("2006-01-02")

	switch format {
	case "csv":
		body := h.reportService.ExportCSV(tickets)
		WriteAttachment(w, "text/csv; charset=utf-8", filename+".csv", []byte(body))
	case "xlsx":
		buf, err := h.reportService.ExportXLSX(tickets)
		if err != nil {
			h.errorHandler.Handle(w, r, err)
			return
		}
		WriteAttachment(w,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			filename+".xlsx", buf.Bytes())
	default:
		h.errorHandler.Handle(w, r,
			apperrors.NewBadRequestError(apperrors.ErrBadRequest, "Unknown export format: "+format))
		return
	}

	h.logger.Info("report exported",
		"format", format,
		"tickets", len(tickets),
	)
}
