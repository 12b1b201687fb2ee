package report

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/pgmhostel/pgm/core"
	"github.com/pgmhostel/pgm/core/hostel"
)

// Source supplies the raw collections. Implementations only fetch; they never aggregate.
type Source interface {
	Students(ctx context.Context) ([]hostel.Student, error)
	Rooms(ctx context.Context) ([]hostel.Room, error)
	Payments(ctx context.Context) ([]hostel.Payment, error)
	Attendance(ctx context.Context) ([]hostel.AttendanceRecord, error)
}

// LoadSnapshot fetches the four collections concurrently.
// It only returns a snapshot once every fetch succeeded: partial data is never aggregated.
func LoadSnapshot(ctx context.Context, src Source) (hostel.Snapshot, error) {
	var snap hostel.Snapshot
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snap.Students, err = src.Students(gctx)
		return errors.Wrap(err, "loading students")
	})
	g.Go(func() (err error) {
		snap.Rooms, err = src.Rooms(gctx)
		return errors.Wrap(err, "loading rooms")
	})
	g.Go(func() (err error) {
		snap.Payments, err = src.Payments(gctx)
		return errors.Wrap(err, "loading payments")
	})
	g.Go(func() (err error) {
		snap.Attendance, err = src.Attendance(gctx)
		return errors.Wrap(err, "loading attendance")
	})
	if err := g.Wait(); err != nil {
		return hostel.Snapshot{}, err
	}
	return snap, nil
}

type (
	ServiceInterface interface {
		Students(ctx context.Context, q StudentQuery) (StudentReport, error)
		Dues(ctx context.Context, q DueQuery) (DueReport, error)
		Rooms(ctx context.Context, q RoomQuery) (RoomReport, error)
		Occupancy(ctx context.Context, q OccupancyQuery) (OccupancyReport, error)
		Payments(ctx context.Context, q PaymentQuery) (PaymentReport, error)
		Dashboard(ctx context.Context, day hostel.Date) (DashboardReport, error)
		SendDueReminders(ctx context.Context) (int, error)
	}

	// DashboardReport pairs the dashboard figures with the join problems found in the data.
	DashboardReport struct {
		Dashboard
		Issues []JoinIssue `json:"issues"`
	}

	Service struct {
		src     Source
		logger  core.Logger
		mailSvc core.EmailService
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(src Source, logger core.Logger, mailSvc core.EmailService) *Service {
	return &Service{src: src, logger: logger, mailSvc: mailSvc}
}

// join loads a fresh snapshot and logs the join keys that did not resolve cleanly.
func (svc *Service) join(ctx context.Context) (*Joiner, error) {
	snap, err := LoadSnapshot(ctx, svc.src)
	if err != nil {
		return nil, err
	}
	j := NewJoiner(snap)
	for _, issue := range j.Issues() {
		svc.logger.Warn(fmt.Sprintf("report join: %s %q", issue.Kind, issue.Key), map[string]interface{}{
			"count":      issue.Count,
			"student":    issue.Student,
			"suggestion": issue.Suggestion,
		})
	}
	return j, nil
}

func (svc *Service) Students(ctx context.Context, q StudentQuery) (StudentReport, error) {
	j, err := svc.join(ctx)
	if err != nil {
		return StudentReport{}, errors.Wrap(err, "building student report")
	}
	return BuildStudentReport(j, q), nil
}

func (svc *Service) Dues(ctx context.Context, q DueQuery) (DueReport, error) {
	j, err := svc.join(ctx)
	if err != nil {
		return DueReport{}, errors.Wrap(err, "building due report")
	}
	return BuildDueReport(j, q), nil
}

func (svc *Service) Rooms(ctx context.Context, q RoomQuery) (RoomReport, error) {
	j, err := svc.join(ctx)
	if err != nil {
		return RoomReport{}, errors.Wrap(err, "building room report")
	}
	return BuildRoomReport(j, q), nil
}

func (svc *Service) Occupancy(ctx context.Context, q OccupancyQuery) (OccupancyReport, error) {
	j, err := svc.join(ctx)
	if err != nil {
		return OccupancyReport{}, errors.Wrap(err, "building occupancy report")
	}
	return BuildOccupancyReport(j, q), nil
}

func (svc *Service) Payments(ctx context.Context, q PaymentQuery) (PaymentReport, error) {
	j, err := svc.join(ctx)
	if err != nil {
		return PaymentReport{}, errors.Wrap(err, "building payment report")
	}
	return BuildPaymentReport(j, q), nil
}

// Dashboard computes the dashboard as of day; the current UTC date is used if day is unset.
func (svc *Service) Dashboard(ctx context.Context, day hostel.Date) (DashboardReport, error) {
	j, err := svc.join(ctx)
	if err != nil {
		return DashboardReport{}, errors.Wrap(err, "building dashboard")
	}
	if day.IsZero() {
		now := time.Now().UTC()
		day = hostel.NewDate(now.Year(), now.Month(), now.Day())
	}
	issues := j.Issues()
	if issues == nil {
		issues = []JoinIssue{}
	}
	return DashboardReport{Dashboard: BuildDashboard(j, day), Issues: issues}, nil
}

// SendDueReminders emails every student with an outstanding due and returns the number of reminders sent.
func (svc *Service) SendDueReminders(ctx context.Context) (int, error) {
	rpt, err := svc.Dues(ctx, DueQuery{Status: DueStatusHas})
	if err != nil {
		return 0, errors.Wrap(err, "sending due reminders")
	}
	messages := DueReminders(rpt.Rows)
	if len(messages) > 0 {
		svc.mailSvc.SendMessages(messages...)
	}
	svc.logger.Info(fmt.Sprintf("due reminders: %d sent, %d students with dues", len(messages), len(rpt.Rows)))
	return len(messages), nil
}
