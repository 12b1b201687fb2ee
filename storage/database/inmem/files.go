package inmemdb

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/pgmhostel/pgm/core/hostel"
)

// LoadDir replaces the stored collections with the documents found in dir:
// students.json, rooms.json, payments.json & attendance.json. A missing document is an empty collection.
func (src *Source) LoadDir(dir string) error {
	read := func(name string) ([]byte, error) {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if os.IsNotExist(err) {
			return nil, nil
		}
		return data, errors.Wrapf(err, "reading %s", name)
	}

	var snap hostel.Snapshot
	var data []byte
	var err error

	if data, err = read("students.json"); err != nil {
		return err
	}
	if snap.Students, err = hostel.DecodeStudents(data); err != nil {
		return err
	}
	if data, err = read("rooms.json"); err != nil {
		return err
	}
	if snap.Rooms, err = hostel.DecodeRooms(data); err != nil {
		return err
	}
	if data, err = read("payments.json"); err != nil {
		return err
	}
	if snap.Payments, err = hostel.DecodePayments(data); err != nil {
		return err
	}
	if data, err = read("attendance.json"); err != nil {
		return err
	}
	if snap.Attendance, err = hostel.DecodeAttendance(data); err != nil {
		return err
	}

	src.Load(snap)
	return nil
}
