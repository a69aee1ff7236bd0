package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/itsupport-id/helpdesk-backend/internal/core/domain"
)

const sheetName = "Laporan Tiket"

// XLSX renders the collection as a spreadsheet with the same columns as the
// CSV export plus the per-ticket resolution time the report table shows.
// Unresolved tickets get a dash in the resolution column.
func XLSX(tickets []*domain.Ticket) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	header := append(append([]string{}, csvHeader...), "Waktu Penyelesaian")
	for col, title := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, title); err != nil {
			return nil, err
		}
	}

	for row, t := range tickets {
		resolution := "-"
		if t.IsResolved() {
			resolution = fmt.Sprintf("%d jam", t.ResolutionHours())
		}

		values := []any{
			t.ID,
			t.Name,
			t.Email,
			t.Division,
			t.Category,
			string(t.Urgency),
			string(t.Status),
			t.CreatedAt.Format(dateLayout),
			t.UpdatedAt.Format(dateLayout),
			resolution,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return f.WriteToBuffer()
}
