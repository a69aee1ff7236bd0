package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/itsupport-id/helpdesk-backend/internal/adapters/primary/validation"
	"github.com/itsupport-id/helpdesk-backend/internal/core/domain"
	"github.com/itsupport-id/helpdesk-backend/internal/core/ports"
)

// TicketHandler handles HTTP requests for tickets
type TicketHandler struct {
	ticketService ports.TicketService
	errorHandler  *ErrorHandler
	logger        *slog.Logger
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(
	ticketService ports.TicketService,
	errorHandler *ErrorHandler,
	logger *slog.Logger,
) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
		errorHandler:  errorHandler,
		logger:        logger.With("handler", "ticket"),
	}
}

// RegisterRoutes sets up the routing for all ticket endpoints.
func (h *TicketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleListTickets)
	r.Post("/", h.HandleCreateTicket)

	r.Route("/{ticketID}", func(r chi.Router) {
		r.Get("/", h.HandleGetTicket)
		r.Patch("/", h.HandleUpdateTicket)
	})
}

// --- Request DTOs ---

// CreateTicketRequest defines the expected JSON body for creating a ticket.
// Field names match the form the dashboard submits.
type CreateTicketRequest struct {
	Name        string `json:"nama"`
	Email       string `json:"email"`
	Division    string `json:"divisi"`
	Category    string `json:"kategori"`
	Urgency     string `json:"urgensi"`
	Description string `json:"deskripsi"`
	FileName    string `json:"file"`
}

// Validate validates the create ticket request
func (r *CreateTicketRequest) Validate() error {
	v := validation.NewValidator()

	v.Required("nama", r.Name)
	v.Required("email", r.Email)
	v.Required("divisi", r.Division)
	v.Required("kategori", r.Category)
	v.Required("urgensi", r.Urgency).
		OneOf("urgensi", r.Urgency, []string{"rendah", "sedang", "tinggi", "kritis"})
	v.Required("deskripsi", r.Description)

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// UpdateTicketRequest defines the expected JSON body for a partial ticket
// update. Absent fields are left untouched; an empty assignedTo clears the
// assignment; a non-blank catatanBaru appends one staff note.
type UpdateTicketRequest struct {
	Status     *string `json:"status"`
	AssignedTo *string `json:"assignedTo"`
	NewNote    string  `json:"catatanBaru"`
}

// Validate validates the update ticket request
func (r *UpdateTicketRequest) Validate() error {
	v := validation.NewValidator()

	if r.Status != nil {
		statuses := make([]string, 0, len(domain.Statuses))
		for _, s := range domain.Statuses {
			statuses = append(statuses, string(s))
		}
		v.OneOf("status", *r.Status, statuses)
		v.Custom("status", *r.Status != "", "Must not be empty")
	}

	if v.HasErrors() {
		return v.Errors()
	}
	return nil
}

// --- Handlers ---

// HandleListTickets handles GET /tickets. With an email query parameter the
// collection is narrowed to that requester's tickets; otherwise the optional
// filter parameters are AND-combined.
func (h *TicketHandler) HandleListTickets(w http.ResponseWriter, r *http.Request) {
	if email := validation.ParseStringQueryParam(r, "email"); email != nil {
		tickets, err := h.ticketService.ListByEmail(r.Context(), *email)
		if err != nil {
			h.errorHandler.Handle(w, r, err)
			return
		}
		WriteList(w, tickets)
		return
	}

	criteria := domain.FilterCriteria{
		Status:   r.URL.Query().Get("status"),
		Category: r.URL.Query().Get("kategori"),
		Division: r.URL.Query().Get("divisi"),
		Search:   r.URL.Query().Get("search"),
	}

	startDate, err := validation.ParseDateQueryParam(r, "startDate")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	endDate, err := validation.ParseDateQueryParam(r, "endDate")
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}
	criteria.StartDate = startDate
	criteria.EndDate = endDate

	tickets, err := h.ticketService.List(r.Context(), criteria)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteList(w, tickets)
}

// HandleCreateTicket handles POST /tickets
func (h *TicketHandler) HandleCreateTicket(w http.ResponseWriter, r *http.Request) {
	req, err := validation.DecodeAndValidate[CreateTicketRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.CreateTicketParams{
		Name:        req.Name,
		Email:       req.Email,
		Division:    req.Division,
		Category:    req.Category,
		Urgency:     domain.Urgency(req.Urgency),
		Description: req.Description,
		FileName:    req.FileName,
	}

	ticket, err := h.ticketService.Create(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("ticket created",
		"ticket_id", ticket.ID,
		"division", ticket.Division,
	)

	WriteCreated(w, ticket)
}

// HandleGetTicket handles GET /tickets/{ticketID}
func (h *TicketHandler) HandleGetTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketID")

	ticket, err := h.ticketService.Get(r.Context(), ticketID)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	WriteJSON(w, http.StatusOK, ticket)
}

// HandleUpdateTicket handles PATCH /tickets/{ticketID}
func (h *TicketHandler) HandleUpdateTicket(w http.ResponseWriter, r *http.Request) {
	ticketID := chi.URLParam(r, "ticketID")

	req, err := validation.DecodeAndValidate[UpdateTicketRequest](r)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	if err := req.Validate(); err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	params := ports.UpdateTicketParams{
		TicketID:    ticketID,
		AssignedTo:  req.AssignedTo,
		NewNoteText: req.NewNote,
	}
	if req.Status != nil {
		status := domain.TicketStatus(*req.Status)
		params.Status = &status
	}

	ticket, err := h.ticketService.Update(r.Context(), params)
	if err != nil {
		h.errorHandler.Handle(w, r, err)
		return
	}

	h.logger.Info("ticket updated",
		"ticket_id", ticket.ID,
		"status", ticket.Status,
	)

	WriteJSON(w, http.StatusOK, ticket)
}
