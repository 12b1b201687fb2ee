package report

import "github.com/pgmhostel/pgm/core/hostel"

// StudentAttendanceSummary counts a student's attendance records.
// Records with a status other than present/absent count toward TotalDays only,
// so AttendancePercentage is present/total.
type StudentAttendanceSummary struct {
	StudentID            string  `json:"studentId"`
	PresentDays          int     `json:"presentDays"`
	AbsentDays           int     `json:"absentDays"`
	TotalDays            int     `json:"totalDays"`
	AttendancePercentage float64 `json:"attendancePercentage"`
}

func Attendance(s hostel.Student, j *Joiner) StudentAttendanceSummary {
	return summarizeAttendance(s.ID, j.AttendanceForStudent(s))
}

func summarizeAttendance(studentID string, records []hostel.AttendanceRecord) StudentAttendanceSummary {
	summary := StudentAttendanceSummary{
		StudentID: studentID,
		TotalDays: len(records),
	}
	for _, rec := range records {
		switch {
		case rec.IsPresent():
			summary.PresentDays++
		case rec.IsAbsent():
			summary.AbsentDays++
		}
	}
	if summary.TotalDays > 0 {
		summary.AttendancePercentage = roundTo1(float64(summary.PresentDays) / float64(summary.TotalDays) * 100)
	}
	return summary
}
