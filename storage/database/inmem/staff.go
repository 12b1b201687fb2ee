package inmemdb

import (
	"context"
	"time"

	"github.com/pgmhostel/pgm/core/staff"
)

type staffRepository struct {
	db *staffTable
}

var _ staff.Repository = (*staffRepository)(nil) // interface compliance check

func NewStaffRepository(db *DB) staff.Repository {
	return &staffRepository{db: db.staff}
}

func (repo *staffRepository) CreateStaff(_ context.Context, s staff.Staff) (staff.Staff, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, other := range repo.db.table {
		if other.Email == s.Email {
			return staff.Staff{}, staff.ErrEmailExists
		}
	}
	if _, ok := repo.db.table[s.ID]; !ok {
		repo.db.order = append(repo.db.order, s.ID)
	}
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *staffRepository) QueryAllStaff(context.Context) ([]staff.Staff, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	all := make([]staff.Staff, 0, len(repo.db.order))
	for _, id := range repo.db.order {
		all = append(all, *repo.db.table[id])
	}
	return all, nil
}

func (repo *staffRepository) GetStaffByID(_ context.Context, id string) (staff.Staff, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return staff.Staff{}, staff.ErrNotFound
}

func (repo *staffRepository) GetStaffByEmail(_ context.Context, email string) (staff.Staff, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, s := range repo.db.table {
		if s.Email == email {
			return *s, nil
		}
	}
	return staff.Staff{}, staff.ErrNotFound
}

func (repo *staffRepository) SetLastLogin(_ context.Context, id string, at time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	s, ok := repo.db.table[id]
	if !ok {
		return staff.ErrNotFound
	}
	s.LastLogin = at.UTC()
	return nil
}

func (repo *staffRepository) SetPassword(_ context.Context, id string, hash []byte, at time.Time) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	s, ok := repo.db.table[id]
	if !ok {
		return staff.ErrNotFound
	}
	s.PasswordHash = hash
	s.UpdatedAt = at.UTC()
	return nil
}
