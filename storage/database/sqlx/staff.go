package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/pgmhostel/pgm/core"
	"github.com/pgmhostel/pgm/core/staff"
)

const (
	staffColumns = `id, name, email, role, is_active, password_hash, created_at, updated_at, last_login`

	insertStaff = `INSERT INTO staff (` + staffColumns + `)
		VALUES (:id, :name, :email, :role, :is_active, :password_hash, :created_at, :updated_at, :last_login)`
	uniqueViolation = "23505"
)

type staffRow struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	Role         string    `db:"role"`
	IsActive     bool      `db:"is_active"`
	PasswordHash []byte    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
	LastLogin    null.Time `db:"last_login"`
}

type staffRepository struct {
	exec core.DBExecutor
}

var _ staff.Repository = (*staffRepository)(nil) // interface compliance check

func NewStaffRepository(exec core.DBExecutor) staff.Repository {
	return &staffRepository{exec: exec}
}

func (repo staffRepository) toRow(s staff.Staff) staffRow {
	return staffRow{
		ID:           s.ID,
		Name:         s.Name,
		Email:        s.Email,
		Role:         s.Role,
		IsActive:     s.IsActive,
		PasswordHash: s.PasswordHash,
		CreatedAt:    s.CreatedAt.UTC(),
		UpdatedAt:    s.UpdatedAt.UTC(),
		LastLogin:    null.NewTime(s.LastLogin.UTC(), !s.LastLogin.IsZero()),
	}
}

func (repo staffRepository) fromRow(r staffRow) staff.Staff {
	return staff.Staff{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		Role:         r.Role,
		IsActive:     r.IsActive,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
		LastLogin:    r.LastLogin.Time,
	}
}

// trapNoRowsErr maps psql "no rows" err to staff.ErrNotFound
func (repo staffRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return staff.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo staffRepository) CreateStaff(ctx context.Context, s staff.Staff) (staff.Staff, error) {
	query, args, err := namedQuery(insertStaff, repo.toRow(s))
	if err != nil {
		return staff.Staff{}, errors.Wrap(err, "binding staff")
	}
	if _, err = repo.exec.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return staff.Staff{}, staff.ErrEmailExists
		}
		return staff.Staff{}, errors.Wrap(err, "inserting staff")
	}
	return s, nil
}

func (repo staffRepository) QueryAllStaff(ctx context.Context) ([]staff.Staff, error) {
	var rows []staffRow
	if err := repo.exec.SelectContext(ctx, &rows, `SELECT `+staffColumns+` FROM staff ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "selecting staff")
	}
	all := make([]staff.Staff, 0, len(rows))
	for _, r := range rows {
		all = append(all, repo.fromRow(r))
	}
	return all, nil
}

func (repo staffRepository) GetStaffByID(ctx context.Context, id string) (staff.Staff, error) {
	var r staffRow
	if err := repo.exec.GetContext(ctx, &r, `SELECT `+staffColumns+` FROM staff WHERE id = $1`, id); err != nil {
		return staff.Staff{}, repo.trapNoRowsErr(err, "getting staff by id")
	}
	return repo.fromRow(r), nil
}

func (repo staffRepository) GetStaffByEmail(ctx context.Context, email string) (staff.Staff, error) {
	var r staffRow
	if err := repo.exec.GetContext(ctx, &r, `SELECT `+staffColumns+` FROM staff WHERE email = $1`, email); err != nil {
		return staff.Staff{}, repo.trapNoRowsErr(err, "getting staff by email")
	}
	return repo.fromRow(r), nil
}

func (repo staffRepository) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	res, err := repo.exec.ExecContext(ctx, `UPDATE staff SET last_login = $1 WHERE id = $2`, at.UTC(), id)
	if err != nil {
		return errors.Wrap(err, "setting last_login")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return staff.ErrNotFound
	}
	return nil
}

func (repo staffRepository) SetPassword(ctx context.Context, id string, hash []byte, at time.Time) error {
	res, err := repo.exec.ExecContext(ctx, `UPDATE staff SET password_hash = $1, updated_at = $2 WHERE id = $3`, hash, at.UTC(), id)
	if err != nil {
		return errors.Wrap(err, "setting password_hash")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return staff.ErrNotFound
	}
	return nil
}

// isUniqueViolation recognizes unique constraint errors from both drivers.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == uniqueViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	return false
}
