package report

import (
	"math"

	"github.com/pgmhostel/pgm/core/hostel"
)

type OccupancyStatus string

// Occupancy statuses
const (
	StatusFull              OccupancyStatus = "Full"
	StatusPartiallyOccupied OccupancyStatus = "Partially Occupied"
	StatusEmpty             OccupancyStatus = "Empty"
	// StatusAvailable is how the room report labels an empty room.
	StatusAvailable OccupancyStatus = "Available"
)

type RoomOccupancySummary struct {
	RoomNumber    string          `json:"roomNumber"`
	StudentCount  int             `json:"studentCount"`
	OccupancyRate float64         `json:"occupancyRate"`
	AvailableBeds int             `json:"availableBeds"`
	Status        OccupancyStatus `json:"status"`
}

// Occupancy computes the room's occupancy summary. The rate is a whole percentage.
func Occupancy(room hostel.Room, j *Joiner) RoomOccupancySummary {
	return RoomOccupancySummary{
		RoomNumber:    room.RoomNumber,
		StudentCount:  len(j.StudentsForRoom(room)),
		OccupancyRate: OccupancyRate(room.OccupiedBeds, room.Capacity),
		AvailableBeds: room.Capacity - room.OccupiedBeds,
		Status:        ClassifyOccupancy(room.OccupiedBeds, room.Capacity),
	}
}

// OccupancyRate is occupied/capacity as a whole percentage, used for room level figures.
func OccupancyRate(occupied, capacity int) float64 {
	return math.Round(occupancyRatio(occupied, capacity))
}

// OverallOccupancyRate is occupied/capacity as a percentage with one decimal, used for report totals.
func OverallOccupancyRate(occupied, capacity int) float64 {
	return roundTo1(occupancyRatio(occupied, capacity))
}

// occupancyRatio returns the percentage clamped to [0, 100]; 0 when capacity is 0.
func occupancyRatio(occupied, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	ratio := float64(occupied) / float64(capacity) * 100
	return math.Min(math.Max(ratio, 0), 100)
}

// ClassifyOccupancy decides the room status from bed counts only, never from the rounded rate.
// A room with no occupied beds is Empty, even when its capacity is 0.
// occupied > capacity (over-booking) reads as Full.
func ClassifyOccupancy(occupied, capacity int) OccupancyStatus {
	switch {
	case occupied <= 0:
		return StatusEmpty
	case occupied >= capacity:
		return StatusFull
	default:
		return StatusPartiallyOccupied
	}
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
