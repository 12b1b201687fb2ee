// Package inmemdb keeps the hostel collections & staff accounts in memory.
// It backs the tests and the `memory` backend source.
package inmemdb

import (
	"sync"

	"github.com/pgmhostel/pgm/core/hostel"
	"github.com/pgmhostel/pgm/core/staff"
)

type (
	DB struct {
		staff  *staffTable
		hostel *hostelTables
	}

	staffTable struct {
		sync.RWMutex
		table map[string]*staff.Staff
		order []string
	}

	hostelTables struct {
		sync.RWMutex
		snap hostel.Snapshot
	}
)

func Open() *DB {
	return &DB{
		staff:  &staffTable{table: make(map[string]*staff.Staff)},
		hostel: &hostelTables{},
	}
}
