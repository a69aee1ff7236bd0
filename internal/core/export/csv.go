// Package export serializes ticket collections for download: CSV for the
// report page's plain export and XLSX for spreadsheet consumers.
package export

import (
	"encoding/csv"
	"strings"

	"github.com/itsupport-id/helpdesk-backend/internal/core/domain"
)

// dateLayout renders calendar dates the way the dashboard does: day first,
// no time component.
const dateLayout = "02/01/2006"

// csvHeader is the fixed column set of the ticket export.
var csvHeader = []string{
	"ID", "Nama", "Email", "Divisi", "Kategori", "Urgensi", "Status",
	"Tanggal Dibuat", "Tanggal Diupdate",
}

// CSV renders the collection as comma-separated text. An empty collection
// yields the empty string rather than a header-only file. Every field is
// escaped per RFC 4180, so embedded commas and quotes survive a round trip
// regardless of which column they appear in. The result carries no trailing
// newline.
func CSV(tickets []*domain.Ticket) string {
	if len(tickets) == 0 {
		return ""
	}

	var sb strings.Builder
	w := csv.NewWriter(&sb)

	_ = w.Write(csvHeader)
	for _, t := range tickets {
		_ = w.Write([]string{
			t.ID,
			t.Name,
			t.Email,
			t.Division,
			t.Category,
			string(t.Urgency),
			string(t.Status),
			t.CreatedAt.Format(dateLayout),
			t.UpdatedAt.Format(dateLayout),
		})
	}
	w.Flush()

	return strings.TrimSuffix(sb.String(), "\n")
}
