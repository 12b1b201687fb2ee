package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pgmhostel/pgm/core/hostel"
)

func TestBuildDashboard(t *testing.T) {
	snap := hostelSnapshot()
	snap.Attendance = append(snap.Attendance,
		hostel.AttendanceRecord{StudentID: "2", Status: "present", Date: date("2023-12-02")},
		hostel.AttendanceRecord{StudentID: "3", Status: "On Leave", Date: date("2023-12-02")},
	)

	got := BuildDashboard(NewJoiner(snap), date("2023-12-02"))
	assert.Equal(t, Dashboard{
		TotalStudents:    4,
		TotalRooms:       4,
		OccupiedRooms:    3,
		AvailableRooms:   3,
		FullRooms:        1,
		TotalRevenue:     1250,
		MonthRevenue:     650,
		PresentToday:     1,
		AbsentToday:      1,
		OccupancyRate:    42.9,
		StudentsWithDues: 2,
		TotalOutstanding: 2500,
	}, got)
}

func TestBuildDashboard_empty(t *testing.T) {
	got := BuildDashboard(NewJoiner(hostel.Snapshot{}), date("2024-01-01"))
	assert.Equal(t, Dashboard{}, got)
}
