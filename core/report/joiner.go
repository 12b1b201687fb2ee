// Package report computes the derived metrics shown by the console reports:
// per student dues & attendance, per room occupancy & revenue, and the report totals.
//
// Everything in here is a pure function of one hostel.Snapshot.
package report

import (
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/pgmhostel/pgm/core/hostel"
)

// Join issue kinds
const (
	IssueRoomNotFound     = "room_not_found"
	IssueRoomMismatch     = "room_id_number_mismatch"
	IssueDuplicateName    = "duplicate_student_name"
	IssueDuplicateRoom    = "duplicate_room_number"
	IssueOrphanPayment    = "orphan_payment"
	IssueOrphanAttendance = "orphan_attendance"
)

const suggestionMinRatio = .6

// JoinIssue describes a join key that resolved to zero or to several records.
type JoinIssue struct {
	Kind       string `json:"kind"`
	Key        string `json:"key"`
	Count      int    `json:"count"`
	Student    string `json:"student,omitempty"`    // student holding a dangling or mismatched room reference
	Suggestion string `json:"suggestion,omitempty"` // closest student name for orphans, resolved room number for mismatches
}

// Joiner resolves the relations between the raw collections.
// Students are related to rooms by room number, and to payments & attendance by student ID when
// both sides carry one, falling back to exact (case & whitespace sensitive) name equality.
type Joiner struct {
	snap hostel.Snapshot

	roomByNumber     map[string]int
	roomByID         map[string]int
	studentsByRoom   map[int][]int // by resolved room index
	paymentsByName   map[string][]int
	paymentsByID     map[string][]int
	attendanceByName map[string][]int
	attendanceByID   map[string][]int

	issues []JoinIssue
}

func NewJoiner(snap hostel.Snapshot) *Joiner {
	j := &Joiner{
		snap:             snap,
		roomByNumber:     make(map[string]int, len(snap.Rooms)),
		roomByID:         make(map[string]int, len(snap.Rooms)),
		studentsByRoom:   make(map[int][]int),
		paymentsByName:   make(map[string][]int),
		paymentsByID:     make(map[string][]int),
		attendanceByName: make(map[string][]int),
		attendanceByID:   make(map[string][]int),
	}

	roomCounts := make(map[string]int)
	for i, room := range snap.Rooms {
		roomCounts[room.RoomNumber]++
		if _, ok := j.roomByNumber[room.RoomNumber]; !ok { // first one wins
			j.roomByNumber[room.RoomNumber] = i
		}
		if room.ID != "" {
			if _, ok := j.roomByID[room.ID]; !ok {
				j.roomByID[room.ID] = i
			}
		}
	}
	for i, s := range snap.Students {
		if r, ok := j.roomIndex(s); ok {
			j.studentsByRoom[r] = append(j.studentsByRoom[r], i)
		}
	}
	for i, p := range snap.Payments {
		if p.StudentID != "" {
			j.paymentsByID[p.StudentID] = append(j.paymentsByID[p.StudentID], i)
		}
		if p.Student != "" {
			j.paymentsByName[p.Student] = append(j.paymentsByName[p.Student], i)
		}
		if p.StudentName != "" && p.StudentName != p.Student {
			j.paymentsByName[p.StudentName] = append(j.paymentsByName[p.StudentName], i)
		}
	}
	for i, a := range snap.Attendance {
		if a.StudentID != "" {
			j.attendanceByID[a.StudentID] = append(j.attendanceByID[a.StudentID], i)
		}
		if a.StudentName != "" {
			j.attendanceByName[a.StudentName] = append(j.attendanceByName[a.StudentName], i)
		}
	}

	j.collectIssues(roomCounts)
	return j
}

// Snapshot returns the collections the Joiner was built from.
func (j *Joiner) Snapshot() hostel.Snapshot { return j.snap }

// Issues returns the join keys that resolved to zero or several records.
func (j *Joiner) Issues() []JoinIssue { return j.issues }

// RoomForStudent returns the student's room. A student's roomId is used when rooms carry IDs.
func (j *Joiner) RoomForStudent(s hostel.Student) (hostel.Room, bool) {
	if i, ok := j.roomIndex(s); ok {
		return j.snap.Rooms[i], true
	}
	return hostel.Room{}, false
}

func (j *Joiner) roomIndex(s hostel.Student) (int, bool) {
	if s.RoomID != "" {
		if i, ok := j.roomByID[s.RoomID]; ok {
			return i, true
		}
	}
	if s.RoomNumber == "" {
		return 0, false
	}
	i, ok := j.roomByNumber[s.RoomNumber]
	return i, ok
}

// StudentsForRoom returns the students whose room resolves to room, in collection order.
// A student is resident in exactly the room RoomForStudent returns for them.
func (j *Joiner) StudentsForRoom(room hostel.Room) []hostel.Student {
	r, ok := j.roomByID[room.ID]
	if room.ID == "" || !ok {
		if room.RoomNumber == "" {
			return nil
		}
		if r, ok = j.roomByNumber[room.RoomNumber]; !ok {
			return nil
		}
	}
	idxs := j.studentsByRoom[r]
	if len(idxs) == 0 {
		return nil
	}
	students := make([]hostel.Student, 0, len(idxs))
	for _, i := range idxs {
		students = append(students, j.snap.Students[i])
	}
	return students
}

// PaymentsForStudent returns the student's payments, in collection order.
func (j *Joiner) PaymentsForStudent(s hostel.Student) []hostel.Payment {
	idxs := j.paymentIndices(s)
	if len(idxs) == 0 {
		return nil
	}
	payments := make([]hostel.Payment, 0, len(idxs))
	for _, i := range idxs {
		payments = append(payments, j.snap.Payments[i])
	}
	return payments
}

// AttendanceForStudent returns the student's attendance records, in collection order.
func (j *Joiner) AttendanceForStudent(s hostel.Student) []hostel.AttendanceRecord {
	idxs := j.attendanceIndices(s)
	if len(idxs) == 0 {
		return nil
	}
	records := make([]hostel.AttendanceRecord, 0, len(idxs))
	for _, i := range idxs {
		records = append(records, j.snap.Attendance[i])
	}
	return records
}

func (j *Joiner) paymentIndices(s hostel.Student) []int {
	return matchIndices(s, j.paymentsByID, j.paymentsByName, func(i int) string {
		return j.snap.Payments[i].StudentID
	})
}

func (j *Joiner) attendanceIndices(s hostel.Student) []int {
	return matchIndices(s, j.attendanceByID, j.attendanceByName, func(i int) string {
		return j.snap.Attendance[i].StudentID
	})
}

// matchIndices merges ID matches with name matches. A name match only counts when
// the record or the student has no ID to compare.
func matchIndices(s hostel.Student, byID, byName map[string][]int, recordID func(int) string) []int {
	var idxs []int
	if s.ID != "" {
		idxs = append(idxs, byID[s.ID]...)
	}
	if s.Name != "" {
		for _, i := range byName[s.Name] {
			if s.ID == "" || recordID(i) == "" {
				idxs = append(idxs, i)
			}
		}
	}
	if len(idxs) < 2 {
		return idxs
	}
	sort.Ints(idxs)
	uniq := idxs[:1]
	for _, i := range idxs[1:] {
		if i != uniq[len(uniq)-1] {
			uniq = append(uniq, i)
		}
	}
	return uniq
}

func (j *Joiner) collectIssues(roomCounts map[string]int) {
	for _, room := range j.snap.Rooms {
		if n := roomCounts[room.RoomNumber]; n > 1 {
			j.issues = append(j.issues, JoinIssue{Kind: IssueDuplicateRoom, Key: room.RoomNumber, Count: n})
			roomCounts[room.RoomNumber] = 0 // report once
		}
	}

	nameCounts := make(map[string]int, len(j.snap.Students))
	names := make([]string, 0, len(j.snap.Students))
	for _, s := range j.snap.Students {
		if s.Name == "" {
			continue
		}
		if nameCounts[s.Name] == 0 {
			names = append(names, s.Name)
		}
		nameCounts[s.Name]++
	}
	for _, name := range names {
		if n := nameCounts[name]; n > 1 {
			j.issues = append(j.issues, JoinIssue{Kind: IssueDuplicateName, Key: name, Count: n})
		}
	}

	matchedPayments := make([]bool, len(j.snap.Payments))
	matchedAttendance := make([]bool, len(j.snap.Attendance))
	for _, s := range j.snap.Students {
		if s.RoomNumber != "" || s.RoomID != "" {
			room, ok := j.RoomForStudent(s)
			switch {
			case !ok:
				key := s.RoomNumber
				if key == "" {
					key = s.RoomID
				}
				j.issues = append(j.issues, JoinIssue{Kind: IssueRoomNotFound, Key: key, Student: s.Name})
			case s.RoomNumber != "" && room.RoomNumber != s.RoomNumber:
				j.issues = append(j.issues, JoinIssue{Kind: IssueRoomMismatch, Key: s.RoomNumber, Student: s.Name, Suggestion: room.RoomNumber})
			}
		}
		for _, i := range j.paymentIndices(s) {
			matchedPayments[i] = true
		}
		for _, i := range j.attendanceIndices(s) {
			matchedAttendance[i] = true
		}
	}

	paymentKeys := make([]string, 0)
	for i, p := range j.snap.Payments {
		if !matchedPayments[i] {
			key := p.Payer()
			if key == "" {
				key = p.StudentID
			}
			paymentKeys = append(paymentKeys, key)
		}
	}
	j.addOrphans(IssueOrphanPayment, paymentKeys, names)

	attendanceKeys := make([]string, 0)
	for i, a := range j.snap.Attendance {
		if !matchedAttendance[i] {
			key := a.StudentName
			if key == "" {
				key = a.StudentID
			}
			attendanceKeys = append(attendanceKeys, key)
		}
	}
	j.addOrphans(IssueOrphanAttendance, attendanceKeys, names)
}

// addOrphans records one issue per distinct unmatched key, sorted by key.
func (j *Joiner) addOrphans(kind string, keys, names []string) {
	counts := make(map[string]int, len(keys))
	uniq := make([]string, 0, len(keys))
	for _, key := range keys {
		if counts[key] == 0 {
			uniq = append(uniq, key)
		}
		counts[key]++
	}
	sort.Strings(uniq)
	for _, key := range uniq {
		j.issues = append(j.issues, JoinIssue{Kind: kind, Key: key, Count: counts[key], Suggestion: closestName(key, names)})
	}
}

// closestName returns the known student name most similar to key, if similar enough.
func closestName(key string, names []string) string {
	var (
		best      string
		bestRatio float64
	)
	lkey := strings.Split(strings.ToLower(key), "")
	for _, name := range names {
		ratio := difflib.NewMatcher(lkey, strings.Split(strings.ToLower(name), "")).Ratio()
		if ratio > bestRatio {
			best, bestRatio = name, ratio
		}
	}
	if bestRatio < suggestionMinRatio {
		return ""
	}
	return best
}
