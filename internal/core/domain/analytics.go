package domain

import "math"

// Statistics holds the dashboard counters: the collection total and one
// count per status.
type Statistics struct {
	Total      int `json:"total"`
	Open       int `json:"open"`
	InProgress int `json:"inProgress"`
	NeedInfo   int `json:"needInfo"`
	Resolved   int `json:"resolved"`
	Closed     int `json:"closed"`
}

// ReportSummary aggregates a report-filtered collection.
type ReportSummary struct {
	Total    int `json:"total"`
	Resolved int `json:"resolved"`
	// AvgResolutionHours is the mean per-ticket resolution time in whole
	// hours over resolved and closed tickets, rounded to the nearest hour.
	// Zero when the subset has no resolved tickets.
	AvgResolutionHours int `json:"avgResolutionHours"`
	Pending            int `json:"pending"`
}

// Collect counts tickets by status. Pure count, no time weighting.
func Collect(tickets []*Ticket) Statistics {
	stats := Statistics{Total: len(tickets)}
	for _, t := range tickets {
		switch t.Status {
		case StatusOpen:
			stats.Open++
		case StatusInProgress:
			stats.InProgress++
		case StatusNeedInfo:
			stats.NeedInfo++
		case StatusResolved:
			stats.Resolved++
		case StatusClosed:
			stats.Closed++
		}
	}
	return stats
}

// Summarize computes the report summary for a (typically report-filtered)
// collection. Each resolved ticket contributes its resolution time floored
// to whole hours; the average is rounded to the nearest integer and defined
// as zero when nothing is resolved.
func Summarize(tickets []*Ticket) ReportSummary {
	summary := ReportSummary{Total: len(tickets)}

	totalHours := 0
	for _, t := range tickets {
		if t.IsResolved() {
			summary.Resolved++
			totalHours += t.ResolutionHours()
		}
	}

	if summary.Resolved > 0 {
		summary.AvgResolutionHours = int(math.Round(float64(totalHours) / float64(summary.Resolved)))
	}
	summary.Pending = summary.Total - summary.Resolved

	return summary
}
