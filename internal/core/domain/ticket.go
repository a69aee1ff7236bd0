package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	apperrors "github.com/itsupport-id/helpdesk-backend/internal/core/errors"
)

// NoteAuthor is the fixed author tag for notes added by support staff.
const NoteAuthor = "IT Support"

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// TicketStatus represents the possible states of a ticket.
type TicketStatus string

const (
	StatusOpen       TicketStatus = "open"
	StatusInProgress TicketStatus = "in-progress"
	StatusNeedInfo   TicketStatus = "need-info"
	StatusResolved   TicketStatus = "resolved"
	StatusClosed     TicketStatus = "closed"
)

// Statuses lists every valid status in display order.
var Statuses = []TicketStatus{
	StatusOpen,
	StatusInProgress,
	StatusNeedInfo,
	StatusResolved,
	StatusClosed,
}

// IsValid reports whether the status is one of the known values.
func (s TicketStatus) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusNeedInfo, StatusResolved, StatusClosed:
		return true
	}
	return false
}

// Urgency represents how urgent a ticket is, from the requester's view.
type Urgency string

const (
	UrgencyLow      Urgency = "rendah"
	UrgencyMedium   Urgency = "sedang"
	UrgencyHigh     Urgency = "tinggi"
	UrgencyCritical Urgency = "kritis"
)

// IsValid reports whether the urgency is one of the known values.
func (u Urgency) IsValid() bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// Note is a staff remark attached to a ticket. Notes are append-only and
// never edited or removed once written.
type Note struct {
	ID        string    `json:"id"`
	Body      string    `json:"isi"`
	CreatedAt time.Time `json:"tanggal"`
	Author    string    `json:"dibuatOleh"`
}

// Ticket is the core domain entity. JSON field names match the wire format
// the dashboard front-end consumes.
type Ticket struct {
	ID          string       `json:"id"`
	Name        string       `json:"nama"`
	Email       string       `json:"email"`
	Division    string       `json:"divisi"`
	Category    string       `json:"kategori"`
	Urgency     Urgency      `json:"urgensi"`
	Description string       `json:"deskripsi"`
	FileName    string       `json:"file,omitempty"`
	Status      TicketStatus `json:"status"`
	CreatedAt   time.Time    `json:"tanggalDibuat"`
	UpdatedAt   time.Time    `json:"tanggalDiupdate"`
	Notes       []Note       `json:"catatan"`
	AssignedTo  *string      `json:"assignedTo"`
}

// TicketParams carries the caller-supplied fields for a new ticket.
type TicketParams struct {
	Name        string
	Email       string
	Division    string
	Category    string
	Urgency     Urgency
	Description string
	FileName    string
}

// NewTicket builds a valid new ticket with the given id and creation time.
// The id is assigned by the store (see NextTicketID); the factory only
// validates the caller-supplied fields.
func NewTicket(id string, params TicketParams, now time.Time) (*Ticket, error) {
	v := apperrors.NewValidationErrors()

	if strings.TrimSpace(params.Name) == "" {
		v.Add("nama", "This field is required")
	}
	if strings.TrimSpace(params.Email) == "" {
		v.Add("email", "This field is required")
	} else if !emailRegex.MatchString(params.Email) {
		v.Add("email", "Must be a valid email address")
	}
	if strings.TrimSpace(params.Division) == "" {
		v.Add("divisi", "This field is required")
	}
	if strings.TrimSpace(params.Category) == "" {
		v.Add("kategori", "This field is required")
	}
	if !params.Urgency.IsValid() {
		v.Add("urgensi", "Must be one of: rendah, sedang, tinggi, kritis")
	}
	if strings.TrimSpace(params.Description) == "" {
		v.Add("deskripsi", "This field is required")
	}

	if v.HasErrors() {
		return nil, v
	}

	return &Ticket{
		ID:          id,
		Name:        params.Name,
		Email:       params.Email,
		Division:    params.Division,
		Category:    params.Category,
		Urgency:     params.Urgency,
		Description: params.Description,
		FileName:    params.FileName,
		Status:      StatusOpen,
		CreatedAt:   now,
		UpdatedAt:   now,
		Notes:       []Note{},
		AssignedTo:  nil,
	}, nil
}

// SetStatus changes the ticket's status and refreshes the update timestamp.
func (t *Ticket) SetStatus(status TicketStatus, now time.Time) error {
	if !status.IsValid() {
		return apperrors.ErrInvalidStatus
	}
	t.Status = status
	t.UpdatedAt = now
	return nil
}

// Assign sets or clears the assignee. An empty name clears the assignment.
func (t *Ticket) Assign(name string, now time.Time) {
	if name == "" {
		t.AssignedTo = nil
	} else {
		t.AssignedTo = &name
	}
	t.UpdatedAt = now
}

// AddNote appends a staff note. Blank text (after trimming) is ignored so a
// status-only update never produces an empty note.
func (t *Ticket) AddNote(body string, now time.Time) bool {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return false
	}
	t.Notes = append(t.Notes, Note{
		ID:        uuid.NewString(),
		Body:      trimmed,
		CreatedAt: now,
		Author:    NoteAuthor,
	})
	t.UpdatedAt = now
	return true
}

// IsResolved reports whether the ticket counts as resolved for reporting
// purposes (resolved or closed).
func (t *Ticket) IsResolved() bool {
	return t.Status == StatusResolved || t.Status == StatusClosed
}

// ResolutionHours is the whole number of hours between creation and the last
// update, truncated.
func (t *Ticket) ResolutionHours() int {
	return int(t.UpdatedAt.Sub(t.CreatedAt).Hours())
}

// NextTicketID computes the next ticket id from the ids already in the
// collection: one past the maximum numeric suffix, zero-padded to at least
// four digits. Ids with a missing or malformed suffix count as zero. The
// max-scan tolerates out-of-band deletions from the persisted collection
// without ever reusing an id.
func NextTicketID(ids []string) string {
	max := 0
	for _, id := range ids {
		n, err := strconv.Atoi(strings.TrimPrefix(id, "T"))
		if err != nil || n < 0 {
			continue
		}
		if n > max {
			max = n
		}
	}
	return fmt.Sprintf("T%04d", max+1)
}
