package report

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgmhostel/pgm/core/hostel"
)

func TestFinancials(t *testing.T) {
	tests := []struct {
		name     string
		snap     hostel.Snapshot
		wantPaid float64
		wantDue  float64
		wantRent float64
	}{
		{
			name: "partial payment",
			snap: hostel.Snapshot{
				Students: []hostel.Student{{Name: "A", RoomNumber: "R101"}},
				Rooms:    []hostel.Room{{RoomNumber: "R101", Capacity: 2, OccupiedBeds: 2, Rent: 5000}},
				Payments: []hostel.Payment{{Student: "A", Amount: 3000}},
			},
			wantRent: 5000, wantPaid: 3000, wantDue: 2000,
		},
		{
			name: "overpayment is not carried as credit",
			snap: hostel.Snapshot{
				Students: []hostel.Student{{Name: "A", RoomNumber: "R101"}},
				Rooms:    []hostel.Room{{RoomNumber: "R101", Rent: 5000}},
				Payments: []hostel.Payment{{Student: "A", Amount: 4000}, {StudentName: "A", Amount: 2000}},
			},
			wantRent: 5000, wantPaid: 6000, wantDue: 0,
		},
		{
			name: "no room means no rent",
			snap: hostel.Snapshot{
				Students: []hostel.Student{{Name: "A"}},
				Payments: []hostel.Payment{{Student: "A", Amount: 100}},
			},
			wantPaid: 100,
		},
		{
			name: "unusable amounts count as zero",
			snap: hostel.Snapshot{
				Students: []hostel.Student{{Name: "A", RoomNumber: "R101"}},
				Rooms:    []hostel.Room{{RoomNumber: "R101", Rent: math.NaN()}},
				Payments: []hostel.Payment{{Student: "A", Amount: math.Inf(1)}, {Student: "A", Amount: 10}},
			},
			wantPaid: 10,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Financials(tt.snap.Students[0], NewJoiner(tt.snap))
			assert.Equal(t, tt.wantRent, got.MonthlyRent)
			assert.Equal(t, tt.wantPaid, got.TotalPaid)
			assert.Equal(t, tt.wantDue, got.TotalDue)
			assert.Equal(t, tt.wantDue > 0, got.HasDue)
			assert.Equal(t, len(tt.snap.Payments), got.PaymentCount)
		})
	}
}

func TestFinancials_dueIsNeverNegative(t *testing.T) {
	for _, rent := range []float64{0, 1, 999.5, 5000} {
		for _, paid := range []float64{0, 1, 999.5, 5000, 12000} {
			snap := hostel.Snapshot{
				Students: []hostel.Student{{Name: "A", RoomNumber: "R1"}},
				Rooms:    []hostel.Room{{RoomNumber: "R1", Rent: rent}},
				Payments: []hostel.Payment{{Student: "A", Amount: paid}},
			}
			got := Financials(snap.Students[0], NewJoiner(snap))
			assert.GreaterOrEqual(t, got.TotalDue, 0.0)
			assert.Equal(t, got.TotalDue > 0, got.HasDue)
		}
	}
}

func TestLastPayment(t *testing.T) {
	payments := []hostel.Payment{
		{Amount: 1, PaymentDate: date("2024-01-05")},
		{Amount: 4},
		{Amount: 2, PaymentDate: date("2024-01-10")},
		{Amount: 3, PaymentDate: date("2024-01-10")},
	}

	last, ok := LastPayment(payments)
	require.True(t, ok)
	assert.Equal(t, 2.0, last.Amount, "equal dates resolve to collection order")

	var order []float64
	for _, p := range SortPaymentsByDateDesc(payments) {
		order = append(order, p.Amount)
	}
	assert.Equal(t, []float64{2, 3, 1, 4}, order)
	assert.Equal(t, 1.0, payments[0].Amount, "input is left untouched")

	_, ok = LastPayment(nil)
	assert.False(t, ok)
}

func TestOccupancy(t *testing.T) {
	tests := []struct {
		name          string
		room          hostel.Room
		wantRate      float64
		wantAvailable int
		wantStatus    OccupancyStatus
	}{
		{name: "full", room: hostel.Room{Capacity: 2, OccupiedBeds: 2}, wantRate: 100, wantStatus: StatusFull},
		{name: "zero capacity", room: hostel.Room{Capacity: 0, OccupiedBeds: 0, Rent: 1000}, wantRate: 0, wantStatus: StatusEmpty},
		{name: "one third", room: hostel.Room{Capacity: 3, OccupiedBeds: 1}, wantRate: 33, wantAvailable: 2, wantStatus: StatusPartiallyOccupied},
		{name: "two thirds", room: hostel.Room{Capacity: 3, OccupiedBeds: 2}, wantRate: 67, wantAvailable: 1, wantStatus: StatusPartiallyOccupied},
		{name: "rounds to 100 but not full", room: hostel.Room{Capacity: 1000, OccupiedBeds: 999}, wantRate: 100, wantAvailable: 1, wantStatus: StatusPartiallyOccupied},
		{name: "over-booked", room: hostel.Room{Capacity: 2, OccupiedBeds: 3}, wantRate: 100, wantAvailable: -1, wantStatus: StatusFull},
		{name: "occupied without capacity", room: hostel.Room{Capacity: 0, OccupiedBeds: 1}, wantRate: 0, wantAvailable: -1, wantStatus: StatusFull},
		{name: "empty", room: hostel.Room{Capacity: 4}, wantRate: 0, wantAvailable: 4, wantStatus: StatusEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Occupancy(tt.room, NewJoiner(hostel.Snapshot{}))
			assert.Equal(t, tt.wantRate, got.OccupancyRate)
			assert.Equal(t, tt.wantAvailable, got.AvailableBeds)
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}

func TestOccupancy_bounds(t *testing.T) {
	for capacity := 0; capacity <= 6; capacity++ {
		for occupied := -1; occupied <= 8; occupied++ {
			rate := OccupancyRate(occupied, capacity)
			assert.True(t, rate >= 0 && rate <= 100, "rate %v for %d/%d", rate, occupied, capacity)

			status := ClassifyOccupancy(occupied, capacity)
			assert.Contains(t, []OccupancyStatus{StatusFull, StatusPartiallyOccupied, StatusEmpty}, status)
			assert.Equal(t, occupied >= capacity && occupied > 0, status == StatusFull, "%d/%d", occupied, capacity)
		}
	}
}

func TestOverallOccupancyRate(t *testing.T) {
	assert.Equal(t, 33.3, OverallOccupancyRate(1, 3))
	assert.Equal(t, 66.7, OverallOccupancyRate(2, 3))
	assert.Equal(t, 0.0, OverallOccupancyRate(5, 0))
}

func TestOccupancy_countsStudents(t *testing.T) {
	snap := hostel.Snapshot{
		Students: []hostel.Student{{Name: "A", RoomNumber: "R1"}, {Name: "B", RoomNumber: "R1"}, {Name: "C", RoomNumber: "R2"}},
		Rooms:    []hostel.Room{{RoomNumber: "R1", Capacity: 3, OccupiedBeds: 2}},
	}
	got := Occupancy(snap.Rooms[0], NewJoiner(snap))
	assert.Equal(t, 2, got.StudentCount)
	assert.Equal(t, "R1", got.RoomNumber)
}

func TestAttendance(t *testing.T) {
	snap := hostel.Snapshot{
		Students: []hostel.Student{{Name: "A"}, {Name: "B"}},
		Attendance: []hostel.AttendanceRecord{
			{StudentName: "A", Status: "Present"},
			{StudentName: "A", Status: "present"},
			{StudentName: "A", Status: "Absent"},
			{StudentName: "A", Status: "Unknown"},
			{StudentName: "C", Status: "PRESENT"},
		},
	}
	j := NewJoiner(snap)

	got := Attendance(snap.Students[0], j)
	assert.Equal(t, StudentAttendanceSummary{PresentDays: 2, AbsentDays: 1, TotalDays: 4, AttendancePercentage: 50}, got)

	got = Attendance(snap.Students[1], j)
	assert.Equal(t, StudentAttendanceSummary{}, got)
}

func TestAttendance_percentageRounding(t *testing.T) {
	records := []hostel.AttendanceRecord{{Status: "PRESENT"}, {Status: "PRESENT"}, {Status: "ABSENT"}}
	got := summarizeAttendance("s1", records)
	assert.Equal(t, 66.7, got.AttendancePercentage)
	assert.Equal(t, "s1", got.StudentID)
	assert.LessOrEqual(t, got.PresentDays+got.AbsentDays, got.TotalDays)
}
