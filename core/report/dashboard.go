package report

import "github.com/pgmhostel/pgm/core/hostel"

// Dashboard holds the headline figures of the console home page.
type Dashboard struct {
	TotalStudents    int     `json:"totalStudents"`
	TotalRooms       int     `json:"totalRooms"`
	OccupiedRooms    int     `json:"occupiedRooms"`  // rooms with at least one occupied bed
	AvailableRooms   int     `json:"availableRooms"` // rooms with at least one free bed
	FullRooms        int     `json:"fullRooms"`
	TotalRevenue     float64 `json:"totalRevenue"`
	MonthRevenue     float64 `json:"monthRevenue"`
	PresentToday     int     `json:"presentToday"`
	AbsentToday      int     `json:"absentToday"`
	OccupancyRate    float64 `json:"occupancyRate"`
	StudentsWithDues int     `json:"studentsWithDues"`
	TotalOutstanding float64 `json:"totalOutstanding"`
}

// BuildDashboard computes the dashboard figures as of day.
func BuildDashboard(j *Joiner, day hostel.Date) Dashboard {
	snap := j.Snapshot()
	dash := Dashboard{
		TotalStudents: len(snap.Students),
		TotalRooms:    len(snap.Rooms),
	}

	var capacity, occupied int
	for _, room := range snap.Rooms {
		capacity += room.Capacity
		occupied += room.OccupiedBeds
		if room.OccupiedBeds > 0 {
			dash.OccupiedRooms++
		}
		if room.OccupiedBeds < room.Capacity {
			dash.AvailableRooms++
		}
		if ClassifyOccupancy(room.OccupiedBeds, room.Capacity) == StatusFull {
			dash.FullRooms++
		}
	}
	dash.OccupancyRate = OverallOccupancyRate(occupied, capacity)

	month := day.Format("2006-01")
	for _, p := range snap.Payments {
		amt := hostel.Finite(p.Amount)
		dash.TotalRevenue += amt
		if p.Month() == month {
			dash.MonthRevenue += amt
		}
	}

	for _, rec := range snap.Attendance {
		if !rec.Date.SameDay(day) {
			continue
		}
		switch {
		case rec.IsPresent():
			dash.PresentToday++
		case rec.IsAbsent():
			dash.AbsentToday++
		}
	}

	for _, s := range snap.Students {
		fin := Financials(s, j)
		if fin.HasDue {
			dash.StudentsWithDues++
			dash.TotalOutstanding += fin.TotalDue
		}
	}
	return dash
}
