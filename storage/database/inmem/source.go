package inmemdb

import (
	"context"

	"github.com/pgmhostel/pgm/core/hostel"
	"github.com/pgmhostel/pgm/core/report"
)

// Source serves the hostel collections held by a DB.
// Every call returns a copy, so callers never share the stored slices.
type Source struct {
	db *hostelTables
}

var _ report.Source = (*Source)(nil)

func NewSource(db *DB) *Source {
	return &Source{db: db.hostel}
}

// Load replaces the stored collections.
func (src *Source) Load(snap hostel.Snapshot) {
	src.db.Lock()
	defer src.db.Unlock()
	src.db.snap = snap
}

func (src *Source) Students(ctx context.Context) ([]hostel.Student, error) {
	src.db.RLock()
	defer src.db.RUnlock()
	return append([]hostel.Student{}, src.db.snap.Students...), ctx.Err()
}

func (src *Source) Rooms(ctx context.Context) ([]hostel.Room, error) {
	src.db.RLock()
	defer src.db.RUnlock()
	return append([]hostel.Room{}, src.db.snap.Rooms...), ctx.Err()
}

func (src *Source) Payments(ctx context.Context) ([]hostel.Payment, error) {
	src.db.RLock()
	defer src.db.RUnlock()
	return append([]hostel.Payment{}, src.db.snap.Payments...), ctx.Err()
}

func (src *Source) Attendance(ctx context.Context) ([]hostel.AttendanceRecord, error) {
	src.db.RLock()
	defer src.db.RUnlock()
	return append([]hostel.AttendanceRecord{}, src.db.snap.Attendance...), ctx.Err()
}
