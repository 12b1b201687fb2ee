// Package exportsvc renders the console reports as Excel workbooks.
package exportsvc

import (
	"io"
	"sort"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/pgmhostel/pgm/core/report"
)

const (
	rowsSheet   = "Rows"
	totalsSheet = "Totals"
)

var ErrUnsupportedReport = errors.New("unsupported report type")

// ContentType is the MIME type of the written workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// sheet is a header row followed by data rows.
type sheet struct {
	name   string
	header []interface{}
	rows   [][]interface{}
}

// WriteXLSX writes rpt as a workbook: one sheet of rows (join issues for the dashboard) and a Totals sheet.
// rpt must be one of the report types or a report.DashboardReport.
func WriteXLSX(w io.Writer, rpt interface{}) error {
	sheets, err := sheetsFor(rpt)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}

	for i, sh := range sheets {
		if i == 0 {
			if err = f.SetSheetName("Sheet1", sh.name); err != nil {
				return errors.Wrapf(err, "naming sheet %s", sh.name)
			}
		} else if _, err = f.NewSheet(sh.name); err != nil {
			return errors.Wrapf(err, "creating sheet %s", sh.name)
		}
		if err = writeSheet(f, sh, bold); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	return errors.Wrap(f.Write(w), "writing workbook")
}

func writeSheet(f *excelize.File, sh sheet, headerStyle int) error {
	if err := f.SetSheetRow(sh.name, "A1", &sh.header); err != nil {
		return errors.Wrapf(err, "writing %s header", sh.name)
	}
	if err := f.SetRowStyle(sh.name, 1, 1, headerStyle); err != nil {
		return errors.Wrapf(err, "styling %s header", sh.name)
	}
	for i := range sh.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err = f.SetSheetRow(sh.name, cell, &sh.rows[i]); err != nil {
			return errors.Wrapf(err, "writing %s row %d", sh.name, i+1)
		}
	}
	return nil
}

func sheetsFor(rpt interface{}) ([]sheet, error) {
	switch r := rpt.(type) {
	case report.StudentReport:
		return []sheet{studentRows(r.Rows), totals(
			"Total Students", r.Totals.TotalStudents,
			"Total Collected", r.Totals.TotalCollected,
			"Total Due", r.Totals.TotalDue,
		)}, nil
	case report.DueReport:
		return []sheet{studentRows(r.Rows), totals(
			"Total Outstanding", r.Totals.TotalOutstanding,
			"Students With Dues", r.Totals.StudentsWithDuesCount,
			"Fully Paid", r.Totals.FullyPaidCount,
		)}, nil
	case report.RoomReport:
		return []sheet{roomRows(r.Rows), totals(
			"Total Revenue", r.Totals.TotalRevenue,
			"Total Occupied", r.Totals.TotalOccupied,
			"Total Capacity", r.Totals.TotalCapacity,
		)}, nil
	case report.OccupancyReport:
		return []sheet{occupancyRows(r.Rows), totals(
			"Overall Occupancy Rate", r.Totals.OverallOccupancyRate,
			"Full Rooms", r.Totals.FullRoomsCount,
			"Partially Occupied Rooms", r.Totals.PartiallyOccupiedCount,
			"Empty Rooms", r.Totals.EmptyRoomsCount,
			"Available Beds", r.Totals.TotalAvailableBeds,
			"Total Capacity", r.Totals.TotalCapacity,
			"Total Occupied", r.Totals.TotalOccupied,
		)}, nil
	case report.PaymentReport:
		return []sheet{paymentRows(r), paymentTotals(r.Totals)}, nil
	case report.DashboardReport:
		return []sheet{issueRows(r.Issues), totals(
			"Total Students", r.TotalStudents,
			"Total Rooms", r.TotalRooms,
			"Occupied Rooms", r.OccupiedRooms,
			"Available Rooms", r.AvailableRooms,
			"Full Rooms", r.FullRooms,
			"Total Revenue", r.TotalRevenue,
			"Month Revenue", r.MonthRevenue,
			"Present Today", r.PresentToday,
			"Absent Today", r.AbsentToday,
			"Occupancy Rate", r.OccupancyRate,
			"Students With Dues", r.StudentsWithDues,
			"Total Outstanding", r.TotalOutstanding,
		)}, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedReport, "%T", rpt)
	}
}

// totals lays label/value pairs out as a two columns sheet.
func totals(pairs ...interface{}) sheet {
	sh := sheet{name: totalsSheet, header: []interface{}{"Figure", "Value"}}
	for i := 0; i+1 < len(pairs); i += 2 {
		sh.rows = append(sh.rows, []interface{}{pairs[i], pairs[i+1]})
	}
	return sh
}

func studentRows(rows []report.StudentRow) sheet {
	sh := sheet{
		name: rowsSheet,
		header: []interface{}{
			"Name", "Email", "Phone", "Room", "Monthly Rent", "Total Paid", "Total Due",
			"Payments", "Last Payment", "Present Days", "Absent Days", "Attendance %",
		},
	}
	for _, r := range rows {
		var last string
		if r.LastPayment != nil {
			last = r.LastPayment.PaymentDate.String()
		}
		sh.rows = append(sh.rows, []interface{}{
			r.Name, r.Email, r.Phone, r.RoomLabel, r.MonthlyRent, r.TotalPaid, r.TotalDue,
			r.PaymentCount, last, r.PresentDays, r.AbsentDays, r.AttendancePercentage,
		})
	}
	return sh
}

func occupancyRows(rows []report.OccupancyRow) sheet {
	sh := sheet{
		name: rowsSheet,
		header: []interface{}{
			"Room", "Type", "Capacity", "Occupied Beds", "Available Beds", "Students", "Occupancy %", "Status",
		},
	}
	for _, r := range rows {
		sh.rows = append(sh.rows, []interface{}{
			r.RoomNumber, r.Type, r.Capacity, r.OccupiedBeds, r.AvailableBeds, r.StudentCount,
			r.OccupancyRate, string(r.RoomOccupancySummary.Status),
		})
	}
	return sh
}

func roomRows(rows []report.RoomRow) sheet {
	sh := sheet{
		name: rowsSheet,
		header: []interface{}{
			"Room", "Type", "Rent", "Capacity", "Occupied Beds", "Available Beds", "Status", "Revenue", "Residents",
		},
	}
	for _, r := range rows {
		sh.rows = append(sh.rows, []interface{}{
			r.RoomNumber, r.Type, r.Rent, r.Capacity, r.OccupiedBeds, r.AvailableBeds,
			string(r.Status), r.Revenue, len(r.Students),
		})
	}
	return sh
}

func paymentRows(rpt report.PaymentReport) sheet {
	sh := sheet{name: rowsSheet, header: []interface{}{"Date", "Student", "Amount", "Method"}}
	for _, p := range rpt.Payments {
		sh.rows = append(sh.rows, []interface{}{p.PaymentDate.String(), p.Payer(), p.Amount, p.Method})
	}
	return sh
}

func paymentTotals(t report.PaymentTotals) sheet {
	sh := totals(
		"Total Revenue", t.TotalRevenue,
		"Transactions", t.TransactionCount,
		"Average Payment", t.AveragePayment,
	)
	methods := make([]string, 0, len(t.PerMethodBreakdown))
	for m := range t.PerMethodBreakdown {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	for _, m := range methods {
		mt := t.PerMethodBreakdown[m]
		sh.rows = append(sh.rows, []interface{}{m + " (count)", mt.Count}, []interface{}{m + " (total)", mt.Total})
	}
	return sh
}

func issueRows(issues []report.JoinIssue) sheet {
	sh := sheet{name: "Issues", header: []interface{}{"Kind", "Key", "Count", "Student", "Suggestion"}}
	for _, is := range issues {
		sh.rows = append(sh.rows, []interface{}{is.Kind, is.Key, is.Count, is.Student, is.Suggestion})
	}
	return sh
}
