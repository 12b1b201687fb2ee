// Package logsvc provides the application core.Logger.
package logsvc

import (
	"log"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/pgmhostel/pgm/core"
	"github.com/pgmhostel/pgm/core/staff"
)

// RollbarLogger prints every event to a std logger and reports it to Rollbar when enabled.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// report sends one event to Rollbar and mirrors it on the std logger.
// args may hold errors, extra data maps and at most one staff.Staff, which becomes the Rollbar person.
func (l RollbarLogger) report(level, msg string, args []interface{}) {
	rollbar.Log(level, l.prepare(msg, args)...)
	l.print(msg, args)
}

func (l RollbarLogger) prepare(msg string, args []interface{}) []interface{} {
	person := false
	extras := make([]interface{}, 0, len(args)+1)
	extras = append(extras, msg)
	for _, arg := range args {
		s, ok := arg.(staff.Staff)
		switch {
		case !ok:
			extras = append(extras, arg)
		case !person:
			rollbar.SetPerson(s.ID, s.Name, s.Email)
			person = true
		}
	}
	if !person {
		rollbar.ClearPerson()
	}
	return extras
}

// print skips staff members; their details only go to Rollbar.
func (l RollbarLogger) print(msg string, args []interface{}) {
	l.std.Println(msg)
	for _, arg := range args {
		if _, ok := arg.(staff.Staff); !ok {
			l.std.Printf("%+v\n", arg)
		}
	}
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) { l.report(rollbar.DEBUG, msg, args) }
func (l RollbarLogger) Info(msg string, args ...interface{})  { l.report(rollbar.INFO, msg, args) }
func (l RollbarLogger) Warn(msg string, args ...interface{})  { l.report(rollbar.WARN, msg, args) }
func (l RollbarLogger) Error(msg string, args ...interface{}) { l.report(rollbar.ERR, msg, args) }

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.report(rollbar.CRIT, msg, args)
	l.std.Fatal(msg)
}
