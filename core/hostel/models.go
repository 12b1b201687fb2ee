// Package hostel holds the raw collections supplied by the backend: students, rooms, payments & attendance.
// Every collection is a snapshot; nothing in here is mutated once loaded.
package hostel

import (
	"strings"
	"time"
)

// Attendance statuses (matched case-insensitively)
const (
	StatusPresent = "PRESENT"
	StatusAbsent  = "ABSENT"
)

const dateLayout = "2006-01-02"

type Student struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	RoomNumber    string `json:"roomNumber"`
	RoomID        string `json:"roomId,omitempty"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Age           int    `json:"age,omitempty"`
	Gender        string `json:"gender,omitempty"`
	AdmissionDate Date   `json:"admissionDate"`
}

type Room struct {
	ID           string  `json:"id,omitempty"`
	RoomNumber   string  `json:"roomNumber"`
	Type         string  `json:"type"`
	Capacity     int     `json:"capacity"`
	OccupiedBeds int     `json:"occupiedBeds"`
	Rent         float64 `json:"rent"`
}

// Payment may name its payer through `student` or `studentName`; both are kept as received.
type Payment struct {
	ID          string  `json:"id,omitempty"`
	StudentID   string  `json:"studentId,omitempty"`
	Student     string  `json:"student,omitempty"`
	StudentName string  `json:"studentName,omitempty"`
	Amount      float64 `json:"amount"`
	PaymentDate Date    `json:"paymentDate"`
	Method      string  `json:"method,omitempty"`
}

// Payer returns whichever payer name the backend filled in, `student` first.
func (p Payment) Payer() string {
	if p.Student != "" {
		return p.Student
	}
	return p.StudentName
}

// Month returns the YYYY-MM month of the payment, or "" if the payment has no date.
func (p Payment) Month() string {
	if p.PaymentDate.IsZero() {
		return ""
	}
	return p.PaymentDate.Format("2006-01")
}

type AttendanceRecord struct {
	ID          string `json:"id,omitempty"`
	StudentID   string `json:"studentId,omitempty"`
	StudentName string `json:"studentName"`
	RoomNumber  string `json:"roomNumber,omitempty"`
	Status      string `json:"status"`
	Date        Date   `json:"date"`
}

func (a AttendanceRecord) IsPresent() bool { return strings.ToUpper(a.Status) == StatusPresent }
func (a AttendanceRecord) IsAbsent() bool  { return strings.ToUpper(a.Status) == StatusAbsent }

// Snapshot is one fully loaded set of the four raw collections.
type Snapshot struct {
	Students   []Student
	Rooms      []Room
	Payments   []Payment
	Attendance []AttendanceRecord
}

// Date is a calendar date (or timestamp) that serializes as YYYY-MM-DD and null when unset.
type Date struct {
	time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// MustParseDate parses a date or panics; handy for fixtures.
func MustParseDate(s string) Date {
	d, ok := parseDate(s)
	if !ok {
		panic("hostel: invalid date " + s)
	}
	return d
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON never fails: unknown formats leave the date unset.
func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if parsed, ok := parseDate(s); ok {
		*d = parsed
	} else {
		*d = Date{}
	}
	return nil
}

// SameDay reports whether both dates fall on the same calendar day.
func (d Date) SameDay(other Date) bool {
	y1, m1, d1 := d.Date()
	y2, m2, d2 := other.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

var dateLayouts = []string{
	dateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func parseDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "null" {
		return Date{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{t}, true
		}
	}
	return Date{}, false
}
