package sqlxrepos

import (
	"context"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/pgmhostel/pgm/core"
	"github.com/pgmhostel/pgm/core/hostel"
	"github.com/pgmhostel/pgm/core/report"
)

// Rows are read in insertion order (seq), which is the collection order the reports rely on.
const (
	selectStudents = `SELECT id, name, room_number, room_id, email, phone, age, gender, admission_date
		FROM students ORDER BY seq`
	selectRooms = `SELECT id, room_number, type, capacity, occupied_beds, rent
		FROM rooms ORDER BY seq`
	selectPayments = `SELECT id, student_id, student, student_name, amount, payment_date, method
		FROM payments ORDER BY seq`
	selectAttendance = `SELECT id, student_id, student_name, room_number, status, date
		FROM attendance ORDER BY seq`
)

type (
	studentRow struct {
		ID            null.String `db:"id"`
		Name          string      `db:"name"`
		RoomNumber    null.String `db:"room_number"`
		RoomID        null.String `db:"room_id"`
		Email         null.String `db:"email"`
		Phone         null.String `db:"phone"`
		Age           null.Int    `db:"age"`
		Gender        null.String `db:"gender"`
		AdmissionDate null.Time   `db:"admission_date"`
	}

	roomRow struct {
		ID           null.String  `db:"id"`
		RoomNumber   string       `db:"room_number"`
		Type         null.String  `db:"type"`
		Capacity     int          `db:"capacity"`
		OccupiedBeds int          `db:"occupied_beds"`
		Rent         null.Float64 `db:"rent"`
	}

	paymentRow struct {
		ID          null.String  `db:"id"`
		StudentID   null.String  `db:"student_id"`
		Student     null.String  `db:"student"`
		StudentName null.String  `db:"student_name"`
		Amount      null.Float64 `db:"amount"`
		PaymentDate null.Time    `db:"payment_date"`
		Method      null.String  `db:"method"`
	}

	attendanceRow struct {
		ID          null.String `db:"id"`
		StudentID   null.String `db:"student_id"`
		StudentName null.String `db:"student_name"`
		RoomNumber  null.String `db:"room_number"`
		Status      string      `db:"status"`
		Date        null.Time   `db:"date"`
	}
)

func date(t null.Time) hostel.Date {
	if !t.Valid {
		return hostel.Date{}
	}
	return hostel.Date{Time: t.Time.UTC()}
}

// Source reads the hostel collections from Postgres.
type Source struct {
	exec core.DBExecutor
}

var _ report.Source = (*Source)(nil) // interface compliance check

func NewSource(exec core.DBExecutor) *Source {
	return &Source{exec: exec}
}

func (src *Source) Students(ctx context.Context) ([]hostel.Student, error) {
	var rows []studentRow
	if err := src.exec.SelectContext(ctx, &rows, selectStudents); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}
	students := make([]hostel.Student, 0, len(rows))
	for _, r := range rows {
		students = append(students, hostel.Student{
			ID:            r.ID.String,
			Name:          r.Name,
			RoomNumber:    r.RoomNumber.String,
			RoomID:        r.RoomID.String,
			Email:         r.Email.String,
			Phone:         r.Phone.String,
			Age:           r.Age.Int,
			Gender:        r.Gender.String,
			AdmissionDate: date(r.AdmissionDate),
		})
	}
	return students, nil
}

func (src *Source) Rooms(ctx context.Context) ([]hostel.Room, error) {
	var rows []roomRow
	if err := src.exec.SelectContext(ctx, &rows, selectRooms); err != nil {
		return nil, errors.Wrap(err, "selecting rooms")
	}
	rooms := make([]hostel.Room, 0, len(rows))
	for _, r := range rows {
		rooms = append(rooms, hostel.Room{
			ID:           r.ID.String,
			RoomNumber:   r.RoomNumber,
			Type:         r.Type.String,
			Capacity:     r.Capacity,
			OccupiedBeds: r.OccupiedBeds,
			Rent:         hostel.Finite(r.Rent.Float64), // numeric columns may hold NaN
		})
	}
	return rooms, nil
}

func (src *Source) Payments(ctx context.Context) ([]hostel.Payment, error) {
	var rows []paymentRow
	if err := src.exec.SelectContext(ctx, &rows, selectPayments); err != nil {
		return nil, errors.Wrap(err, "selecting payments")
	}
	payments := make([]hostel.Payment, 0, len(rows))
	for _, r := range rows {
		payments = append(payments, hostel.Payment{
			ID:          r.ID.String,
			StudentID:   r.StudentID.String,
			Student:     r.Student.String,
			StudentName: r.StudentName.String,
			Amount:      hostel.Finite(r.Amount.Float64),
			PaymentDate: date(r.PaymentDate),
			Method:      r.Method.String,
		})
	}
	return payments, nil
}

func (src *Source) Attendance(ctx context.Context) ([]hostel.AttendanceRecord, error) {
	var rows []attendanceRow
	if err := src.exec.SelectContext(ctx, &rows, selectAttendance); err != nil {
		return nil, errors.Wrap(err, "selecting attendance")
	}
	records := make([]hostel.AttendanceRecord, 0, len(rows))
	for _, r := range rows {
		records = append(records, hostel.AttendanceRecord{
			ID:          r.ID.String,
			StudentID:   r.StudentID.String,
			StudentName: r.StudentName.String,
			RoomNumber:  r.RoomNumber.String,
			Status:      r.Status,
			Date:        date(r.Date),
		})
	}
	return records, nil
}
