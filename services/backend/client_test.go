package backendsvc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgmhostel/pgm/core"
	"github.com/pgmhostel/pgm/core/hostel"
	"github.com/pgmhostel/pgm/core/report"
)

var collections = map[string]string{
	"/api/students":   `[{"id": 1, "name": "A", "roomNumber": "R101", "email": "a@pg.in"}]`,
	"/api/rooms":      `{"status": "success", "data": [{"roomNumber": "R101", "capacity": "2", "occupiedBeds": 2, "rent": 5000}]}`,
	"/api/payments":   `[{"studentName": "A", "amount": "3000", "date": "2023-12-05", "method": "UPI"}]`,
	"/api/attendance": `{"status": 200, "data": [{"studentName": "A", "status": "Present", "date": "2023-12-05"}]}`,
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(&core.Config{Backend: core.BackendConfig{BaseURL: srv.URL + "/api/", Token: "t0k3n"}})
}

func TestClient(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer t0k3n" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, ok := collections[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	})

	snap, err := report.LoadSnapshot(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, hostel.Snapshot{
		Students:   []hostel.Student{{ID: "1", Name: "A", RoomNumber: "R101", Email: "a@pg.in"}},
		Rooms:      []hostel.Room{{RoomNumber: "R101", Capacity: 2, OccupiedBeds: 2, Rent: 5000}},
		Payments:   []hostel.Payment{{StudentName: "A", Amount: 3000, PaymentDate: hostel.NewDate(2023, 12, 5), Method: "UPI"}},
		Attendance: []hostel.AttendanceRecord{{StudentName: "A", Status: "Present", Date: hostel.NewDate(2023, 12, 5)}},
	}, snap)

	fin := report.Financials(snap.Students[0], report.NewJoiner(snap))
	assert.Equal(t, 2000.0, fin.TotalDue)
}

func TestClient_errors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name:    "server error",
			handler: func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusBadGateway) },
			check: func(t *testing.T, err error) {
				var sErr StatusError
				require.True(t, errors.As(err, &sErr))
				assert.Equal(t, http.StatusBadGateway, sErr.Code)
			},
		},
		{
			name:    "malformed collection",
			handler: func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`"oops"`)) },
			check: func(t *testing.T, err error) {
				assert.Equal(t, hostel.ErrMalformedCollection, errors.Cause(err))
			},
		},
		{
			name: "body over the limit",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`[` + strings.Repeat(`{"name": "A"},`, 10) + `{"name": "A"}]`))
			},
			check: func(t *testing.T, err error) {
				assert.Equal(t, ErrBodyTooLarge, errors.Cause(err))
			},
		},
	}

	t.Run("body at the limit", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[{"name": "A"}]`))
		})
		c.maxBody = int64(len(`[{"name": "A"}]`))
		students, err := c.Students(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []hostel.Student{{Name: "A"}}, students)
	})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			c.maxBody = 64
			_, err := report.LoadSnapshot(context.Background(), c)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}
