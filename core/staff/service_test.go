package staff_test

import (
	"context"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgmhostel/pgm/core"
	"github.com/pgmhostel/pgm/core/staff"
	inmemdb "github.com/pgmhostel/pgm/storage/database/inmem"
	testutil "github.com/pgmhostel/pgm/tests"
)

func newService(t *testing.T) (*staff.Service, staff.Repository) {
	t.Helper()
	translator := core.NewTranslator()
	validate := core.NewValidator(translator)
	staff.InitValidators(validate, translator)

	repo := inmemdb.NewStaffRepository(inmemdb.Open())
	return staff.NewService(repo, validate), repo
}

func TestService_Create(t *testing.T) {
	svc, repo := newService(t)
	testutil.CreateStaff(t, repo, "taken", "Taken", "taken@pg.in", "", staff.RoleManager, true)

	tests := []struct {
		name      string
		ns        staff.NewStaff
		wantField string
	}{
		{name: "missing name", ns: staff.NewStaff{Email: "a@pg.in", Password: "s3cure-pwd", PasswordConfirm: "s3cure-pwd"}, wantField: "name"},
		{name: "invalid email", ns: staff.NewStaff{Name: "A", Email: "a", Password: "s3cure-pwd", PasswordConfirm: "s3cure-pwd"}, wantField: "email"},
		{name: "invalid role", ns: staff.NewStaff{Name: "A", Email: "a@pg.in", Role: "cook", Password: "s3cure-pwd", PasswordConfirm: "s3cure-pwd"}, wantField: "role"},
		{name: "password mismatch", ns: staff.NewStaff{Name: "A", Email: "a@pg.in", Password: "s3cure-pwd", PasswordConfirm: "other-pwd"}, wantField: "password_confirm"},
		{name: "short password", ns: staff.NewStaff{Name: "A", Email: "a@pg.in", Password: "abc12", PasswordConfirm: "abc12"}, wantField: "password"},
		{name: "numeric password", ns: staff.NewStaff{Name: "A", Email: "a@pg.in", Password: "12345678", PasswordConfirm: "12345678"}, wantField: "password"},
		{name: "password with space", ns: staff.NewStaff{Name: "A", Email: "a@pg.in", Password: "abc 12345", PasswordConfirm: "abc 12345"}, wantField: "password"},
		{name: "password like the email", ns: staff.NewStaff{Name: "A", Email: "priya.nair@pg.in", Password: "priya.nair@pg", PasswordConfirm: "priya.nair@pg"}, wantField: "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.ns)
			require.Error(t, err)
			var vErrs validator.ValidationErrors
			require.True(t, errors.As(err, &vErrs), "got %v", err)
			assert.Equal(t, tt.wantField, vErrs[0].Field())
		})
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Create(context.Background(), staff.NewStaff{
			Name: "Other", Email: " TAKEN@pg.in ", Password: "s3cure-pwd", PasswordConfirm: "s3cure-pwd",
		})
		var vErr *core.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Equal(t, map[string]string{"email": staff.ErrEmailExists.Error()}, vErr.FieldMap())
	})

	t.Run("ok", func(t *testing.T) {
		s, err := svc.Create(context.Background(), staff.NewStaff{
			Name: " Priya ", Email: "Priya@PG.in", Password: "s3cure-pwd", PasswordConfirm: "s3cure-pwd",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, s.ID)
		assert.Equal(t, "Priya", s.Name)
		assert.Equal(t, "priya@pg.in", s.Email)
		assert.Equal(t, staff.RoleManager, s.Role)
		assert.True(t, s.IsActive)
		assert.NoError(t, s.CheckPassword("s3cure-pwd"))

		stored, err := svc.GetByID(context.Background(), s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.Email, stored.Email)
	})
}

func TestService_Authenticate(t *testing.T) {
	svc, repo := newService(t)
	active := testutil.CreateStaff(t, repo, "s1", "Active", "active@pg.in", "s3cure-pwd", staff.RoleAdmin, true)
	testutil.CreateStaff(t, repo, "s2", "Inactive", "inactive@pg.in", "s3cure-pwd", staff.RoleManager, false)

	tests := []struct {
		name    string
		login   staff.Login
		wantErr error
	}{
		{name: "unknown email", login: staff.Login{Email: "who@pg.in", Password: "s3cure-pwd"}, wantErr: staff.ErrAuthenticationFailed},
		{name: "wrong password", login: staff.Login{Email: "active@pg.in", Password: "wrong-pwd"}, wantErr: staff.ErrAuthenticationFailed},
		{name: "deactivated", login: staff.Login{Email: "inactive@pg.in", Password: "s3cure-pwd"}, wantErr: staff.ErrAccountDeactivated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Authenticate(context.Background(), tt.login)
			assert.Equal(t, tt.wantErr, err)
		})
	}

	t.Run("ok", func(t *testing.T) {
		s, err := svc.Authenticate(context.Background(), staff.Login{Email: " ACTIVE@pg.in", Password: "s3cure-pwd"})
		require.NoError(t, err)
		assert.Equal(t, active.ID, s.ID)

		stored, err := svc.GetByID(context.Background(), active.ID)
		require.NoError(t, err)
		assert.False(t, stored.LastLogin.IsZero())
	})

	t.Run("missing password", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), staff.Login{Email: "active@pg.in"})
		var vErrs validator.ValidationErrors
		assert.True(t, errors.As(err, &vErrs))
	})

	all, err := svc.QueryAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestService_ResetPassword(t *testing.T) {
	svc, repo := newService(t)
	s := testutil.CreateStaff(t, repo, "s1", "Meera", "meera@pg.in", "old-password-1", staff.RoleManager, true)

	tests := []struct {
		name      string
		rp        staff.ResetPassword
		wantErr   error
		wantField string
	}{
		{name: "unknown email", rp: staff.ResetPassword{Email: "who@pg.in", Password: "fresh-ledger-9"}, wantErr: staff.ErrNotFound},
		{name: "too short", rp: staff.ResetPassword{Email: "meera@pg.in", Password: "short"}, wantField: "password"},
		{name: "like the email", rp: staff.ResetPassword{Email: "meera@pg.in", Password: "meera@pg.in1"}, wantField: "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ResetPassword(context.Background(), tt.rp)
			if tt.wantErr != nil {
				assert.Equal(t, tt.wantErr, errors.Cause(err))
				return
			}
			var vErrs validator.ValidationErrors
			require.True(t, errors.As(err, &vErrs))
			assert.Equal(t, tt.wantField, vErrs[0].Field())
		})
	}

	t.Run("ok", func(t *testing.T) {
		require.NoError(t, svc.ResetPassword(context.Background(), staff.ResetPassword{Email: " MEERA@pg.in", Password: "fresh-ledger-9"}))

		stored, err := svc.GetByID(context.Background(), s.ID)
		require.NoError(t, err)
		assert.NoError(t, stored.CheckPassword("fresh-ledger-9"))
		assert.Error(t, stored.CheckPassword("old-password-1"))
	})
}
