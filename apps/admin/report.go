package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/pgmhostel/pgm/core/hostel"
	"github.com/pgmhostel/pgm/core/report"
	exportsvc "github.com/pgmhostel/pgm/services/export"
)

// report kinds
const (
	kindStudents  = "students"
	kindDues      = "dues"
	kindRooms     = "rooms"
	kindOccupancy = "occupancy"
	kindPayments  = "payments"
	kindDashboard = "dashboard"
)

var errUnknownKind = errors.New("unknown report kind")

type reportFlags struct {
	kind   string
	search string
	room   string
	status string
	typ    string
	month  string
	method string
	date   string
	out    string
}

func (rf *reportFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&rf.kind, "kind", "", "One of students, dues, rooms, occupancy, payments, dashboard.")
	fs.StringVar(&rf.search, "search", "", "Search text.")
	fs.StringVar(&rf.room, "room", "", "Room number (students).")
	fs.StringVar(&rf.status, "status", "", "Due status (dues) or occupancy status (rooms).")
	fs.StringVar(&rf.typ, "type", "", "Room type (occupancy).")
	fs.StringVar(&rf.month, "month", "", "YYYY-MM month (payments).")
	fs.StringVar(&rf.method, "method", "", "Payment method (payments).")
	fs.StringVar(&rf.date, "date", "", "YYYY-MM-DD day (dashboard), today if empty.")
	fs.StringVar(&rf.out, "out", "", "Write an XLSX workbook to this file instead of printing JSON.")
}

type cleaner interface {
	Clean()
}

func (cli *commandLine) checkQuery(q cleaner) error {
	q.Clean()
	return cli.validate.Struct(q)
}

func (cli *commandLine) buildReport(ctx context.Context, rf reportFlags) (interface{}, error) {
	switch rf.kind {
	case kindStudents:
		q := report.StudentQuery{Search: rf.search, Room: rf.room}
		if err := cli.checkQuery(&q); err != nil {
			return nil, err
		}
		return cli.reportSvc.Students(ctx, q)
	case kindDues:
		q := report.DueQuery{Search: rf.search, Status: rf.status}
		if err := cli.checkQuery(&q); err != nil {
			return nil, err
		}
		return cli.reportSvc.Dues(ctx, q)
	case kindRooms:
		q := report.RoomQuery{Search: rf.search, Status: rf.status}
		if err := cli.checkQuery(&q); err != nil {
			return nil, err
		}
		return cli.reportSvc.Rooms(ctx, q)
	case kindOccupancy:
		q := report.OccupancyQuery{Search: rf.search, Type: rf.typ}
		if err := cli.checkQuery(&q); err != nil {
			return nil, err
		}
		return cli.reportSvc.Occupancy(ctx, q)
	case kindPayments:
		q := report.PaymentQuery{Search: rf.search, Month: rf.month, Method: rf.method}
		if err := cli.checkQuery(&q); err != nil {
			return nil, err
		}
		return cli.reportSvc.Payments(ctx, q)
	case kindDashboard:
		var day hostel.Date
		if rf.date != "" {
			t, err := time.Parse("2006-01-02", rf.date)
			if err != nil {
				return nil, errors.Wrap(err, "parsing -date")
			}
			day = hostel.Date{Time: t}
		}
		return cli.reportSvc.Dashboard(ctx, day)
	default:
		return nil, errors.Wrapf(errUnknownKind, "%q", rf.kind)
	}
}

func (cli *commandLine) report(rf reportFlags) error {
	rpt, err := cli.buildReport(context.Background(), rf)
	if err != nil {
		return err
	}

	if rf.out == "" {
		enc := json.NewEncoder(cli.out)
		enc.SetIndent("", "  ")
		return enc.Encode(rpt)
	}

	f, err := os.Create(rf.out)
	if err != nil {
		return errors.Wrap(err, "creating export file")
	}
	if err = exportsvc.WriteXLSX(f, rpt); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return errors.Wrap(err, "closing export file")
	}
	fmt.Fprintf(cli.out, "%s report written to %s\n", rf.kind, rf.out)
	return nil
}

func (cli *commandLine) remind() error {
	sent, err := cli.reportSvc.SendDueReminders(context.Background())
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%d reminders sent\n", sent)
	return nil
}
