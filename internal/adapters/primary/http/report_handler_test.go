package http_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsupport-id/helpdesk-backend/internal/core/domain"
)

func TestStatistics(t *testing.T) {
	srv := newTestServer(t)
	postJSON(t, srv.URL+"/tickets", createBody())
	postJSON(t, srv.URL+"/tickets", createBody())
	patchJSON(t, srv.URL+"/tickets/T0002", map[string]any{"status": "resolved"})

	resp, err := http.Get(srv.URL + "/statistics")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats domain.Statistics
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Open)
	assert.Equal(t, 1, stats.Resolved)
}

func TestReport(t *testing.T) {
	srv := newTestServer(t)
	postJSON(t, srv.URL+"/tickets", createBody())

	now := time.Now()
	url := fmt.Sprintf("%s/reports?period=monthly&year=%d&month=%d",
		srv.URL, now.Year(), int(now.Month())-1)

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report struct {
		Summary domain.ReportSummary `json:"summary"`
		Tickets []domain.Ticket      `json:"tickets"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	assert.Equal(t, 1, report.Summary.Total)
	assert.Equal(t, 1, report.Summary.Pending)
	assert.Len(t, report.Tickets, 1)
}

func TestReport_MalformedYearAndMonth(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name  string
		query string
	}{
		{"negative month", "period=monthly&month=-2"},
		{"non-numeric month", "period=monthly&month=march"},
		{"non-numeric year", "period=yearly&year=nineteen"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + "/reports?" + tt.query)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestReport_UnknownPeriod(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/reports?period=weekly")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestReportExport_CSV(t *testing.T) {
	srv := newTestServer(t)
	postJSON(t, srv.URL+"/tickets", createBody())

	resp, err := http.Get(srv.URL + "/reports/export?period=yearly&year=" +
		fmt.Sprint(time.Now().Year()))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".csv")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	lines := strings.Split(string(body), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID,Nama,Email"))
	assert.True(t, strings.HasPrefix(lines[1], "T0001,"))
}

func TestReportExport_EmptyCSVIsEmptyBody(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/reports/export?period=yearly&year=1999")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Empty(t, body)
}

func TestReportExport_XLSX(t *testing.T) {
	srv := newTestServer(t)
	postJSON(t, srv.URL+"/tickets", createBody())

	resp, err := http.Get(srv.URL + "/reports/export?format=xlsx&period=yearly&year=" +
		fmt.Sprint(time.Now().Year()))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "spreadsheetml")
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, body)
}

func TestReportExport_UnknownFormat(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/reports/export?format=pdf&period=yearly&year=2024")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
