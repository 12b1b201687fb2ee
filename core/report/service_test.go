package report

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgmhostel/pgm/core/hostel"
)

func TestLoadSnapshot(t *testing.T) {
	want := hostelSnapshot()
	got, err := LoadSnapshot(context.Background(), stubSource{snap: want})
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadSnapshot_failsWhole(t *testing.T) {
	errDown := errors.New("backend down")
	for _, coll := range []string{"students", "rooms", "payments", "attendance"} {
		t.Run(coll, func(t *testing.T) {
			src := stubSource{snap: hostelSnapshot(), err: map[string]error{coll: errDown}}
			got, err := LoadSnapshot(context.Background(), src)
			require.Error(t, err)
			assert.Equal(t, errDown, errors.Cause(err))
			assert.Contains(t, err.Error(), "loading "+coll)
			assert.Equal(t, hostel.Snapshot{}, got)
		})
	}
}

func TestService_reports(t *testing.T) {
	logger := new(spyLogger)
	svc := NewService(stubSource{snap: messySnapshot()}, logger, new(spyMailer))
	ctx := context.Background()

	students, err := svc.Students(ctx, StudentQuery{})
	require.NoError(t, err)
	assert.Len(t, students.Rows, 3)
	assert.Len(t, logger.warns, 5, "one warning per join issue")

	dues, err := svc.Dues(ctx, DueQuery{Status: DueStatusHas})
	require.NoError(t, err)
	assert.Equal(t, []string{"Asha", "Asha"}, studentNames(dues.Rows))

	rooms, err := svc.Rooms(ctx, RoomQuery{})
	require.NoError(t, err)
	assert.Len(t, rooms.Rows, 3)

	occupancy, err := svc.Occupancy(ctx, OccupancyQuery{})
	require.NoError(t, err)
	assert.Equal(t, 33.3, occupancy.Totals.OverallOccupancyRate)

	payments, err := svc.Payments(ctx, PaymentQuery{})
	require.NoError(t, err)
	assert.Equal(t, 240.0, payments.Totals.TotalRevenue)

	dash, err := svc.Dashboard(ctx, date("2024-01-01"))
	require.NoError(t, err)
	assert.Equal(t, 3, dash.TotalStudents)
	assert.Len(t, dash.Issues, 5)
}

func TestService_sourceError(t *testing.T) {
	errDown := errors.New("backend down")
	svc := NewService(stubSource{err: map[string]error{"payments": errDown}}, new(spyLogger), new(spyMailer))

	_, err := svc.Dues(context.Background(), DueQuery{})
	require.Error(t, err)
	assert.Equal(t, errDown, errors.Cause(err))

	_, err = svc.Dashboard(context.Background(), hostel.Date{})
	assert.Error(t, err)
}

func TestService_SendDueReminders(t *testing.T) {
	mailer := new(spyMailer)
	logger := new(spyLogger)
	svc := NewService(stubSource{snap: hostelSnapshot()}, logger, mailer)

	n, err := svc.SendDueReminders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, mailer.sent, 2)
	assert.Equal(t, "zoya@pg.in", mailer.sent[0].To[0].Address)
	assert.Equal(t, "xavier@pg.in", mailer.sent[1].To[0].Address)
	assert.Equal(t, []string{"due reminders: 2 sent, 2 students with dues"}, logger.infos)
}
