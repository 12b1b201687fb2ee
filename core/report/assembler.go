package report

import (
	"sort"
	"strings"

	"github.com/pgmhostel/pgm/core/hostel"
)

const recentPaymentsLimit = 5

type (
	// StudentRow is a student joined with its financial & attendance summaries.
	StudentRow struct {
		hostel.Student
		StudentFinancialSummary
		StudentAttendanceSummary

		StudentID      string           `json:"studentId"`
		RoomLabel      string           `json:"roomLabel"`
		RecentPayments []hostel.Payment `json:"recentPayments"`
	}

	StudentTotals struct {
		TotalStudents  int     `json:"totalStudents"`
		TotalCollected float64 `json:"totalCollected"`
		TotalDue       float64 `json:"totalDue"`
	}

	StudentReport struct {
		Rows   []StudentRow  `json:"rows"`
		Totals StudentTotals `json:"totals"`
		Rooms  []string      `json:"rooms"` // distinct assigned room numbers, for the room filter
	}

	DueTotals struct {
		TotalOutstanding      float64 `json:"totalOutstanding"`
		StudentsWithDuesCount int     `json:"studentsWithDuesCount"`
		FullyPaidCount        int     `json:"fullyPaidCount"`
	}

	DueReport struct {
		Rows   []StudentRow `json:"rows"`
		Totals DueTotals    `json:"totals"`
	}

	// OccupancyRow is a room joined with its occupancy summary.
	OccupancyRow struct {
		hostel.Room
		RoomOccupancySummary

		RoomNumber string `json:"roomNumber"`
	}

	OccupancyTotals struct {
		OverallOccupancyRate   float64 `json:"overallOccupancyRate"`
		FullRoomsCount         int     `json:"fullRoomsCount"`
		PartiallyOccupiedCount int     `json:"partiallyOccupiedCount"`
		EmptyRoomsCount        int     `json:"emptyRoomsCount"`
		TotalAvailableBeds     int     `json:"totalAvailableBeds"`
		TotalCapacity          int     `json:"totalCapacity"`
		TotalOccupied          int     `json:"totalOccupied"`
	}

	OccupancyReport struct {
		Rows   []OccupancyRow  `json:"rows"`
		Totals OccupancyTotals `json:"totals"`
		Types  []string        `json:"types"` // distinct room types, for the type filter
	}

	// RoomRow is an OccupancyRow with the room's residents and the revenue they paid.
	// Status uses the room report wording: an empty room reads "Available".
	RoomRow struct {
		OccupancyRow

		Status   OccupancyStatus  `json:"status"`
		Revenue  float64          `json:"revenue"`
		Students []hostel.Student `json:"students"`
	}

	RoomTotals struct {
		TotalRevenue  float64 `json:"totalRevenue"`
		TotalOccupied int     `json:"totalOccupied"`
		TotalCapacity int     `json:"totalCapacity"`
	}

	RoomReport struct {
		Rows   []RoomRow  `json:"rows"`
		Totals RoomTotals `json:"totals"`
	}

	MethodTotal struct {
		Count int     `json:"count"`
		Total float64 `json:"total"`
	}

	PaymentTotals struct {
		TotalRevenue       float64                `json:"totalRevenue"`
		TransactionCount   int                    `json:"transactionCount"`
		AveragePayment     float64                `json:"averagePayment"`
		PerMethodBreakdown map[string]MethodTotal `json:"perMethodBreakdown"`
	}

	PaymentReport struct {
		Payments []hostel.Payment `json:"payments"`
		Totals   PaymentTotals    `json:"totals"`
		Months   []string         `json:"months"`  // distinct YYYY-MM months, latest first
		Methods  []string         `json:"methods"` // distinct methods, in order of appearance
	}
)

// StudentRowFor joins one student with its summaries.
func StudentRowFor(s hostel.Student, j *Joiner) StudentRow {
	fin := Financials(s, j)
	recent := SortPaymentsByDateDesc(j.PaymentsForStudent(s))
	if len(recent) > recentPaymentsLimit {
		recent = recent[:recentPaymentsLimit]
	}
	label := s.RoomNumber
	if label == "" {
		label = unassignedLabel
	}
	return StudentRow{
		Student:                  s,
		StudentFinancialSummary:  fin,
		StudentAttendanceSummary: Attendance(s, j),
		StudentID:                s.ID,
		RoomLabel:                label,
		RecentPayments:           recent,
	}
}

// BuildStudentReport lists every student matching the query, in collection order.
func BuildStudentReport(j *Joiner, q StudentQuery) StudentReport {
	snap := j.Snapshot()
	rpt := StudentReport{Rows: make([]StudentRow, 0, len(snap.Students))}

	seenRooms := make(map[string]bool)
	for _, s := range snap.Students {
		if s.RoomNumber != "" && !seenRooms[s.RoomNumber] {
			seenRooms[s.RoomNumber] = true
			rpt.Rooms = append(rpt.Rooms, s.RoomNumber)
		}

		if q.Search != "" && !(containsFold(s.Name, q.Search) || containsFold(s.Email, q.Search) || strings.Contains(s.Phone, q.Search)) {
			continue
		}
		if !isAll(q.Room) && s.RoomNumber != q.Room {
			continue
		}
		row := StudentRowFor(s, j)
		rpt.Rows = append(rpt.Rows, row)
		rpt.Totals.TotalCollected += row.TotalPaid
		rpt.Totals.TotalDue += row.TotalDue
	}
	rpt.Totals.TotalStudents = len(rpt.Rows)
	return rpt
}

// BuildDueReport lists the students matching the query, largest due first.
func BuildDueReport(j *Joiner, q DueQuery) DueReport {
	snap := j.Snapshot()
	rpt := DueReport{Rows: make([]StudentRow, 0, len(snap.Students))}

	for _, s := range snap.Students {
		if q.Search != "" && !(containsFold(s.Name, q.Search) || containsFold(s.RoomNumber, q.Search)) {
			continue
		}
		row := StudentRowFor(s, j)
		switch q.Status {
		case DueStatusHas:
			if !row.HasDue {
				continue
			}
		case DueStatusNone:
			if row.HasDue {
				continue
			}
		}
		rpt.Rows = append(rpt.Rows, row)

		rpt.Totals.TotalOutstanding += row.TotalDue
		if row.HasDue {
			rpt.Totals.StudentsWithDuesCount++
		} else {
			rpt.Totals.FullyPaidCount++
		}
	}
	sort.SliceStable(rpt.Rows, func(i, k int) bool { return rpt.Rows[i].TotalDue > rpt.Rows[k].TotalDue })
	return rpt
}

// OccupancyRowFor joins one room with its occupancy summary.
func OccupancyRowFor(room hostel.Room, j *Joiner) OccupancyRow {
	return OccupancyRow{
		Room:                 room,
		RoomOccupancySummary: Occupancy(room, j),
		RoomNumber:           room.RoomNumber,
	}
}

// BuildOccupancyReport lists the rooms matching the query, highest occupancy first.
func BuildOccupancyReport(j *Joiner, q OccupancyQuery) OccupancyReport {
	snap := j.Snapshot()
	rpt := OccupancyReport{Rows: make([]OccupancyRow, 0, len(snap.Rooms))}

	seenTypes := make(map[string]bool)
	for _, room := range snap.Rooms {
		if room.Type != "" && !seenTypes[room.Type] {
			seenTypes[room.Type] = true
			rpt.Types = append(rpt.Types, room.Type)
		}

		if q.Search != "" && !containsFold(room.RoomNumber, q.Search) {
			continue
		}
		if !isAll(q.Type) && room.Type != q.Type {
			continue
		}
		row := OccupancyRowFor(room, j)
		rpt.Rows = append(rpt.Rows, row)

		rpt.Totals.TotalCapacity += room.Capacity
		rpt.Totals.TotalOccupied += room.OccupiedBeds
		switch row.Status {
		case StatusFull:
			rpt.Totals.FullRoomsCount++
		case StatusPartiallyOccupied:
			rpt.Totals.PartiallyOccupiedCount++
		default:
			rpt.Totals.EmptyRoomsCount++
		}
	}
	rpt.Totals.TotalAvailableBeds = rpt.Totals.TotalCapacity - rpt.Totals.TotalOccupied
	rpt.Totals.OverallOccupancyRate = OverallOccupancyRate(rpt.Totals.TotalOccupied, rpt.Totals.TotalCapacity)

	sort.SliceStable(rpt.Rows, func(i, k int) bool { return rpt.Rows[i].OccupancyRate > rpt.Rows[k].OccupancyRate })
	return rpt
}

// RoomRowFor joins one room with its residents and their payments.
func RoomRowFor(room hostel.Room, j *Joiner) RoomRow {
	row := RoomRow{
		OccupancyRow: OccupancyRowFor(room, j),
		Students:     j.StudentsForRoom(room),
		Revenue:      roomRevenue(room, j),
	}
	row.Status = row.RoomOccupancySummary.Status
	if row.Status == StatusEmpty {
		row.Status = StatusAvailable
	}
	return row
}

// roomRevenue sums the payments made by the room's students; each payment counts once.
func roomRevenue(room hostel.Room, j *Joiner) float64 {
	counted := make(map[int]bool)
	var revenue float64
	for _, s := range j.StudentsForRoom(room) {
		for _, i := range j.paymentIndices(s) {
			if !counted[i] {
				counted[i] = true
				revenue += hostel.Finite(j.snap.Payments[i].Amount)
			}
		}
	}
	return revenue
}

// BuildRoomReport lists the rooms matching the query, in collection order.
func BuildRoomReport(j *Joiner, q RoomQuery) RoomReport {
	snap := j.Snapshot()
	rpt := RoomReport{Rows: make([]RoomRow, 0, len(snap.Rooms))}

	for _, room := range snap.Rooms {
		if q.Search != "" && !containsFold(room.RoomNumber, q.Search) {
			continue
		}
		row := RoomRowFor(room, j)
		if !isAll(q.Status) && string(row.Status) != q.Status {
			continue
		}
		rpt.Rows = append(rpt.Rows, row)

		rpt.Totals.TotalRevenue += row.Revenue
		rpt.Totals.TotalOccupied += room.OccupiedBeds
		rpt.Totals.TotalCapacity += room.Capacity
	}
	return rpt
}

// BuildPaymentReport lists the payments matching the query, latest first.
func BuildPaymentReport(j *Joiner, q PaymentQuery) PaymentReport {
	snap := j.Snapshot()
	rpt := PaymentReport{
		Payments: make([]hostel.Payment, 0, len(snap.Payments)),
		Totals:   PaymentTotals{PerMethodBreakdown: make(map[string]MethodTotal)},
	}

	seenMonths := make(map[string]bool)
	seenMethods := make(map[string]bool)
	for _, p := range snap.Payments {
		if month := p.Month(); month != "" && !seenMonths[month] {
			seenMonths[month] = true
			rpt.Months = append(rpt.Months, month)
		}
		method := methodKey(p.Method)
		if !seenMethods[method] {
			seenMethods[method] = true
			rpt.Methods = append(rpt.Methods, method)
		}

		if q.Search != "" && !(containsFold(p.Student, q.Search) || containsFold(p.StudentName, q.Search)) {
			continue
		}
		if !isAll(q.Month) && p.Month() != q.Month {
			continue
		}
		if !isAll(q.Method) && p.Method != q.Method {
			continue
		}
		rpt.Payments = append(rpt.Payments, p)

		amt := hostel.Finite(p.Amount)
		rpt.Totals.TotalRevenue += amt
		mt := rpt.Totals.PerMethodBreakdown[method]
		mt.Count++
		mt.Total += amt
		rpt.Totals.PerMethodBreakdown[method] = mt
	}
	sort.Sort(sort.Reverse(sort.StringSlice(rpt.Months)))

	rpt.Payments = SortPaymentsByDateDesc(rpt.Payments)
	rpt.Totals.TransactionCount = len(rpt.Payments)
	if rpt.Totals.TransactionCount > 0 {
		rpt.Totals.AveragePayment = rpt.Totals.TotalRevenue / float64(rpt.Totals.TransactionCount)
	}
	return rpt
}

func methodKey(method string) string {
	if method == "" {
		return noMethodLabel
	}
	return method
}
