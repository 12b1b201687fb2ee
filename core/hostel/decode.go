package hostel

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformedCollection is returned when a document is neither an array nor a {status, data} envelope.
var ErrMalformedCollection = errors.New("malformed collection: expected an array or a {status, data} envelope")

// envelope is the wrapped form some backend endpoints answer with.
type envelope struct {
	Status interface{}     `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// unwrap returns the raw array held by `data`, which may be a bare array or an envelope.
func unwrap(data []byte) ([]byte, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return []byte("[]"), nil
	}
	switch data[0] {
	case '[':
		return data, nil
	case '{':
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, errors.Wrap(ErrMalformedCollection, err.Error())
		}
		inner := bytes.TrimSpace(env.Data)
		if len(inner) == 0 || bytes.Equal(inner, []byte("null")) {
			return []byte("[]"), nil
		}
		if inner[0] != '[' {
			return nil, ErrMalformedCollection
		}
		return inner, nil
	default:
		return nil, ErrMalformedCollection
	}
}

func decodeList(data []byte, dst interface{}, name string) error {
	arr, err := unwrap(data)
	if err != nil {
		return errors.Wrapf(err, "decoding %s", name)
	}
	if err := json.Unmarshal(arr, dst); err != nil {
		return errors.Wrapf(ErrMalformedCollection, "decoding %s: %v", name, err)
	}
	return nil
}

// maxCount bounds the integer fields (capacity, beds, age); larger values are treated as malformed.
const maxCount = math.MaxInt32

// flexNumber accepts numbers, numeric strings, booleans and null; anything unusable
// (including NaN and ±Inf) becomes 0.
type flexNumber float64

// count converts n to an int, truncating; values outside ±maxCount become 0.
func (n flexNumber) count() int {
	if math.Abs(float64(n)) > maxCount {
		return 0
	}
	return int(n)
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	*n = 0
	s := strings.TrimSpace(string(data))
	if s == "" || s == "null" {
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return nil
		}
		s = strings.TrimSpace(str)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		*n = flexNumber(Finite(f))
	}
	return nil
}

// flexString accepts strings, numbers (eg. numeric IDs) and null.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	*s = ""
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		return nil
	}
	if raw[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err == nil {
			*s = flexString(str)
		}
		return nil
	}
	if raw[0] == '{' || raw[0] == '[' {
		return nil
	}
	*s = flexString(raw)
	return nil
}

type (
	rawStudent struct {
		ID            flexString `json:"id"`
		Name          flexString `json:"name"`
		RoomNumber    flexString `json:"roomNumber"`
		RoomID        flexString `json:"roomId"`
		Email         flexString `json:"email"`
		Phone         flexString `json:"phone"`
		Contact       flexString `json:"contact"`
		Age           flexNumber `json:"age"`
		Gender        flexString `json:"gender"`
		AdmissionDate Date       `json:"admissionDate"`
		JoiningDate   Date       `json:"joiningDate"`
	}

	rawRoom struct {
		ID           flexString `json:"id"`
		RoomNumber   flexString `json:"roomNumber"`
		Type         flexString `json:"type"`
		Capacity     flexNumber `json:"capacity"`
		OccupiedBeds flexNumber `json:"occupiedBeds"`
		Rent         flexNumber `json:"rent"`
	}

	rawPayment struct {
		ID           flexString `json:"id"`
		StudentID    flexString `json:"studentId"`
		TenantID     flexString `json:"tenantId"`
		Student      flexString `json:"student"`
		StudentTitle flexString `json:"Student"`
		StudentName  flexString `json:"studentName"`
		Amount       flexNumber `json:"amount"`
		PaymentDate  Date       `json:"paymentDate"`
		Date         Date       `json:"date"`
		Method       flexString `json:"method"`
	}

	rawAttendance struct {
		ID          flexString `json:"id"`
		StudentID   flexString `json:"studentId"`
		StudentName flexString `json:"studentName"`
		RoomNumber  flexString `json:"roomNumber"`
		Status      flexString `json:"status"`
		StatusTitle flexString `json:"Status"`
		Date        Date       `json:"date"`
	}
)

// DecodeStudents normalizes a students document.
func DecodeStudents(data []byte) ([]Student, error) {
	var raws []rawStudent
	if err := decodeList(data, &raws, "students"); err != nil {
		return nil, err
	}
	students := make([]Student, 0, len(raws))
	for _, r := range raws {
		phone := string(r.Phone)
		if phone == "" {
			phone = string(r.Contact)
		}
		admission := r.AdmissionDate
		if admission.IsZero() {
			admission = r.JoiningDate
		}
		students = append(students, Student{
			ID:            string(r.ID),
			Name:          string(r.Name),
			RoomNumber:    string(r.RoomNumber),
			RoomID:        string(r.RoomID),
			Email:         string(r.Email),
			Phone:         phone,
			Age:           r.Age.count(),
			Gender:        string(r.Gender),
			AdmissionDate: admission,
		})
	}
	return students, nil
}

// DecodeRooms normalizes a rooms document.
func DecodeRooms(data []byte) ([]Room, error) {
	var raws []rawRoom
	if err := decodeList(data, &raws, "rooms"); err != nil {
		return nil, err
	}
	rooms := make([]Room, 0, len(raws))
	for _, r := range raws {
		rooms = append(rooms, Room{
			ID:           string(r.ID),
			RoomNumber:   string(r.RoomNumber),
			Type:         string(r.Type),
			Capacity:     r.Capacity.count(),
			OccupiedBeds: r.OccupiedBeds.count(),
			Rent:         float64(r.Rent),
		})
	}
	return rooms, nil
}

// DecodePayments normalizes a payments document.
// The payer may be sent as `student`, `Student` or `studentName`, the date as `paymentDate` or `date`.
func DecodePayments(data []byte) ([]Payment, error) {
	var raws []rawPayment
	if err := decodeList(data, &raws, "payments"); err != nil {
		return nil, err
	}
	payments := make([]Payment, 0, len(raws))
	for _, r := range raws {
		student := r.Student
		if student == "" {
			student = r.StudentTitle
		}
		studentID := r.StudentID
		if studentID == "" {
			studentID = r.TenantID
		}
		date := r.PaymentDate
		if date.IsZero() {
			date = r.Date
		}
		payments = append(payments, Payment{
			ID:          string(r.ID),
			StudentID:   string(studentID),
			Student:     string(student),
			StudentName: string(r.StudentName),
			Amount:      float64(r.Amount),
			PaymentDate: date,
			Method:      string(r.Method),
		})
	}
	return payments, nil
}

// DecodeAttendance normalizes an attendance document.
func DecodeAttendance(data []byte) ([]AttendanceRecord, error) {
	var raws []rawAttendance
	if err := decodeList(data, &raws, "attendance"); err != nil {
		return nil, err
	}
	records := make([]AttendanceRecord, 0, len(raws))
	for _, r := range raws {
		status := r.Status
		if status == "" {
			status = r.StatusTitle
		}
		records = append(records, AttendanceRecord{
			ID:          string(r.ID),
			StudentID:   string(r.StudentID),
			StudentName: string(r.StudentName),
			RoomNumber:  string(r.RoomNumber),
			Status:      string(status),
			Date:        r.Date,
		})
	}
	return records, nil
}

// Finite returns v, or 0 when v is NaN or infinite.
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
