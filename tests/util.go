package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/pgmhostel/pgm/core/hostel"
	"github.com/pgmhostel/pgm/core/staff"
)

func CreateStaff(
	t *testing.T,
	repo staff.Repository,
	id, name, email, pwd, role string,
	isActive bool,
	createdAt ...time.Time,
) staff.Staff {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	s := staff.Staff{
		ID:        id,
		Name:      name,
		Email:     email,
		Role:      role,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := s.SetPassword(pwd); err != nil {
			t.Fatalf("createStaff() failed: %v", err)
		}
	}
	s, err := repo.CreateStaff(context.Background(), s)
	if err != nil {
		t.Fatalf("createStaff() failed: %v", err)
	}
	return s
}

// HostelSnapshot is a small hostel: four rooms, four students, payments over two months & two days of attendance.
//
//	Xavier  R1 (rent 500)  paid 0     due 500
//	Yamini  R2 (rent 1000) paid 1000  due 0
//	Zoya    R3 (rent 2000) paid 0     due 2000
//	Wasim   no room        paid 250   due 0
func HostelSnapshot() hostel.Snapshot {
	return hostel.Snapshot{
		Students: []hostel.Student{
			{ID: "1", Name: "Xavier", RoomNumber: "R1", Email: "xavier@pg.in", Phone: "9000000001", AdmissionDate: hostel.NewDate(2023, 6, 1)},
			{ID: "2", Name: "Yamini", RoomNumber: "R2", Email: "yamini@pg.in", Phone: "9000000002", AdmissionDate: hostel.NewDate(2023, 7, 1)},
			{ID: "3", Name: "Zoya", RoomNumber: "R3", Email: "zoya@pg.in", Phone: "9000000003", AdmissionDate: hostel.NewDate(2023, 8, 1)},
			{ID: "4", Name: "Wasim", Email: "wasim@pg.in", Phone: "9000000004"},
		},
		Rooms: []hostel.Room{
			{ID: "r1", RoomNumber: "R1", Type: "Double", Capacity: 2, OccupiedBeds: 1, Rent: 500},
			{ID: "r2", RoomNumber: "R2", Type: "Single", Capacity: 1, OccupiedBeds: 1, Rent: 1000},
			{ID: "r3", RoomNumber: "R3", Type: "Triple", Capacity: 3, OccupiedBeds: 1, Rent: 2000},
			{ID: "r4", RoomNumber: "R4", Type: "Single", Capacity: 1, OccupiedBeds: 0, Rent: 900},
		},
		Payments: []hostel.Payment{
			{ID: "p1", StudentID: "2", Student: "Yamini", Amount: 600, PaymentDate: hostel.NewDate(2023, 11, 20), Method: "UPI"},
			{ID: "p2", StudentID: "2", Student: "Yamini", Amount: 400, PaymentDate: hostel.NewDate(2023, 12, 1), Method: "Cash"},
			{ID: "p3", StudentID: "4", StudentName: "Wasim", Amount: 250, PaymentDate: hostel.NewDate(2023, 12, 1)},
		},
		Attendance: []hostel.AttendanceRecord{
			{ID: "a1", StudentID: "1", StudentName: "Xavier", RoomNumber: "R1", Status: "PRESENT", Date: hostel.NewDate(2023, 12, 1)},
			{ID: "a2", StudentID: "1", StudentName: "Xavier", RoomNumber: "R1", Status: "ABSENT", Date: hostel.NewDate(2023, 12, 2)},
		},
	}
}
