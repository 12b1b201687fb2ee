package report

import (
	"context"
	"sync"

	"github.com/pgmhostel/pgm/core"
	"github.com/pgmhostel/pgm/core/hostel"
)

func date(s string) hostel.Date { return hostel.MustParseDate(s) }

type stubSource struct {
	snap hostel.Snapshot
	err  map[string]error
}

func (s stubSource) Students(context.Context) ([]hostel.Student, error) {
	return s.snap.Students, s.err["students"]
}

func (s stubSource) Rooms(context.Context) ([]hostel.Room, error) {
	return s.snap.Rooms, s.err["rooms"]
}

func (s stubSource) Payments(context.Context) ([]hostel.Payment, error) {
	return s.snap.Payments, s.err["payments"]
}

func (s stubSource) Attendance(context.Context) ([]hostel.AttendanceRecord, error) {
	return s.snap.Attendance, s.err["attendance"]
}

type spyLogger struct {
	mu    sync.Mutex
	warns []string
	infos []string
}

var _ core.Logger = (*spyLogger)(nil)

func (l *spyLogger) Debug(string, ...interface{}) {}
func (l *spyLogger) Error(string, ...interface{}) {}
func (l *spyLogger) Fatal(string, ...interface{}) {}

func (l *spyLogger) Info(msg string, _ ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *spyLogger) Warn(msg string, _ ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

type spyMailer struct {
	sent []*core.EmailMessage
}

func (m *spyMailer) SendMessages(messages ...*core.EmailMessage) {
	m.sent = append(m.sent, messages...)
}
