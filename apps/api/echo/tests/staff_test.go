package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgmhostel/pgm/core/staff"
	"github.com/pgmhostel/pgm/tests"
)

func Test_home(t *testing.T) {
	app := setup(t)

	req, rec := newRequest(http.MethodGet, "/")
	app.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to PGM Console API!", rec.Body.String())
}

func Test_staffApi_login(t *testing.T) {
	app := setup(t)

	pwd := "rent-ledger-42"
	admin := testutil.CreateStaff(t, app.staffRepo, "s1", "Asha Rao", "asha@pg.in", pwd, staff.RoleAdmin, true)
	testutil.CreateStaff(t, app.staffRepo, "s2", "Old Warden", "old@pg.in", pwd, staff.RoleWarden, false)

	login := func(email, password string) []byte {
		return marshalObj(t, staff.Login{Email: email, Password: password})
	}
	authFailed := marshalObj(t, httpErr{Error: "authentication failed"})

	tests := []httpTest{
		{
			name: "missing fields", body: []byte("{}"), wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"email": "this field is required", "password": "this field is required"}),
		},
		{
			name: "invalid email", body: login("lol", pwd), wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
		{name: "unknown email", body: login("nobody@pg.in", pwd), wantCode: http.StatusBadRequest, wantData: authFailed},
		{name: "wrong password", body: login(admin.Email, "nope-nope-nope"), wantCode: http.StatusBadRequest, wantData: authFailed},
		{
			name: "deactivated", body: login("old@pg.in", pwd), wantCode: http.StatusForbidden,
			wantData: marshalObj(t, httpErr{Error: "account deactivated"}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/auth/login"
		tt.run(t, app)
	}

	t.Run("success", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/auth/login", login("  ASHA@pg.in ", pwd))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.Token)

		// the token opens the authed routes
		req, rec = newAuthRequest(http.MethodGet, "/v1/staff/me", resp.Token)
		app.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)

		refreshed, err := app.staffRepo.GetStaffByID(context.Background(), admin.ID)
		require.NoError(t, err)
		assert.False(t, refreshed.LastLogin.IsZero())
	})
}

func Test_staffApi_tokenRefresh(t *testing.T) {
	app := setup(t)

	manager := testutil.CreateStaff(t, app.staffRepo, "s1", "Meera", "meera@pg.in", "", staff.RoleManager, true)

	req, rec := newAuthRequest(http.MethodPost, "/v1/auth/token-refresh", getToken(t, manager))
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"token":"`)

	req, rec = newRequest(http.MethodPost, "/v1/auth/token-refresh")
	app.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func Test_staffApi_query(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateStaff(t, app.staffRepo, "s1", "Asha Rao", "asha@pg.in", "", staff.RoleAdmin, true)
	warden := testutil.CreateStaff(t, app.staffRepo, "s2", "Vikram", "vikram@pg.in", "", staff.RoleWarden, true)

	tests := []httpTest{
		{name: "auth required", path: "/v1/staff", wantCode: http.StatusUnauthorized, wantData: marshalObj(t, errMissingToken)},
		{
			name: "admin required", path: "/v1/staff", token: getToken(t, warden), wantCode: http.StatusForbidden,
			wantData: marshalObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "all staff", path: "/v1/staff", token: getToken(t, admin), wantCode: http.StatusOK,
			wantData: marshalObj(t, []staff.Staff{admin, warden}),
		},
		{name: "me", path: "/v1/staff/me", token: getToken(t, warden), wantCode: http.StatusOK, wantData: marshalObj(t, warden)},
		{
			name: "me (unknown staff)", path: "/v1/staff/me", token: getToken(t, staff.Staff{ID: "ghost"}),
			wantCode: http.StatusUnauthorized, wantData: marshalObj(t, httpErr{Error: "staff not authenticated"}),
		},
	}
	for _, tt := range tests {
		tt.run(t, app)
	}
}

func Test_staffApi_create(t *testing.T) {
	app := setup(t)

	admin := testutil.CreateStaff(t, app.staffRepo, "s1", "Asha Rao", "asha@pg.in", "", staff.RoleAdmin, true)
	token := getToken(t, admin)

	newStaff := func(name, email, role, pwd string) []byte {
		return marshalObj(t, staff.NewStaff{Name: name, Email: email, Role: role, Password: pwd, PasswordConfirm: pwd})
	}

	tests := []httpTest{
		{
			name: "short password", body: newStaff("Vikram", "vikram@pg.in", "", "short"), wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"password": "password must contain at least 8 characters"}),
		},
		{
			name: "unknown role", body: newStaff("Vikram", "vikram@pg.in", "owner", "night-shift-07"), wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"role": "role must be one of admin, manager, warden"}),
		},
		{
			name: "email taken", body: newStaff("Asha", "asha@pg.in", "", "night-shift-07"), wantCode: http.StatusBadRequest,
			wantData: marshalObj(t, map[string]string{"email": staff.ErrEmailExists.Error()}),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPost
		tt.path = "/v1/staff"
		tt.token = token
		tt.run(t, app)
	}

	t.Run("created", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/staff", token, newStaff("Vikram", "Vikram@PG.in", "warden", "night-shift-07"))
		app.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var created staff.Staff
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, "vikram@pg.in", created.Email)
		assert.Equal(t, staff.RoleWarden, created.Role)
		assert.True(t, created.IsActive)

		stored, err := app.staffRepo.GetStaffByEmail(context.Background(), "vikram@pg.in")
		require.NoError(t, err)
		assert.NoError(t, stored.CheckPassword("night-shift-07"))
	})
}
