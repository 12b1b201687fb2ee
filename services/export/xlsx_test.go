package exportsvc

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pgmhostel/pgm/core/hostel"
	"github.com/pgmhostel/pgm/core/report"
	"github.com/pgmhostel/pgm/tests"
)

func readSheets(t *testing.T, buf *bytes.Buffer) map[string][][]string {
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	sheets := make(map[string][][]string)
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		require.NoError(t, err)
		sheets[name] = rows
	}
	return sheets
}

func TestWriteXLSX(t *testing.T) {
	j := report.NewJoiner(testutil.HostelSnapshot())

	tests := []struct {
		name       string
		rpt        interface{}
		dataSheet  string
		wantHeader string
		wantRows   int
	}{
		{name: "students", rpt: report.BuildStudentReport(j, report.StudentQuery{}), dataSheet: rowsSheet, wantHeader: "Name", wantRows: 4},
		{name: "dues", rpt: report.BuildDueReport(j, report.DueQuery{Status: report.DueStatusHas}), dataSheet: rowsSheet, wantHeader: "Name", wantRows: 2},
		{name: "rooms", rpt: report.BuildRoomReport(j, report.RoomQuery{}), dataSheet: rowsSheet, wantHeader: "Room", wantRows: 4},
		{name: "occupancy", rpt: report.BuildOccupancyReport(j, report.OccupancyQuery{}), dataSheet: rowsSheet, wantHeader: "Room", wantRows: 4},
		{name: "payments", rpt: report.BuildPaymentReport(j, report.PaymentQuery{}), dataSheet: rowsSheet, wantHeader: "Date", wantRows: 3},
		{
			name:       "dashboard",
			rpt:        report.DashboardReport{Dashboard: report.BuildDashboard(j, hostel.NewDate(2024, 3, 2)), Issues: j.Issues()},
			dataSheet:  "Issues",
			wantHeader: "Kind",
			wantRows:   len(j.Issues()),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteXLSX(&buf, tt.rpt))

			sheets := readSheets(t, &buf)
			require.Contains(t, sheets, tt.dataSheet)
			require.Contains(t, sheets, totalsSheet)

			data := sheets[tt.dataSheet]
			require.NotEmpty(t, data)
			assert.Equal(t, tt.wantHeader, data[0][0])
			assert.Len(t, data, tt.wantRows+1)
			assert.Equal(t, []string{"Figure", "Value"}, sheets[totalsSheet][0])
		})
	}
}

func TestWriteXLSX_dueTotals(t *testing.T) {
	j := report.NewJoiner(testutil.HostelSnapshot())

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, report.BuildDueReport(j, report.DueQuery{})))

	totals := readSheets(t, &buf)[totalsSheet]
	assert.Equal(t, []string{"Total Outstanding", "2500"}, totals[1])
	assert.Equal(t, []string{"Students With Dues", "2"}, totals[2])
	assert.Equal(t, []string{"Fully Paid", "2"}, totals[3])
}

func TestWriteXLSX_unsupported(t *testing.T) {
	var buf bytes.Buffer
	err := WriteXLSX(&buf, "lol")
	assert.ErrorIs(t, err, ErrUnsupportedReport)
	assert.Zero(t, buf.Len())
}
