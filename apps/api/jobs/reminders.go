// Package jobs schedules the background work of the API process.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"

	"github.com/pgmhostel/pgm/core"
)

const reminderTimeout = 2 * time.Minute

// Reminder sends the due reminders.
type Reminder interface {
	SendDueReminders(ctx context.Context) (int, error)
}

// NewScheduler returns a stopped cron scheduler running the due reminders on conf.Reminders.Schedule.
// No job is registered when the schedule is empty.
func NewScheduler(conf *core.Config, logger core.Logger, reminder Reminder) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.Recover(cronLogger{logger}), cron.SkipIfStillRunning(cronLogger{logger})))
	if conf.Reminders.Schedule == "" {
		return c, nil
	}
	if _, err := c.AddFunc(conf.Reminders.Schedule, remindJob(logger, reminder)); err != nil {
		return nil, errors.Wrapf(err, "scheduling reminders %q", conf.Reminders.Schedule)
	}
	logger.Info(fmt.Sprintf("due reminders scheduled: %q", conf.Reminders.Schedule))
	return c, nil
}

func remindJob(logger core.Logger, reminder Reminder) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), reminderTimeout)
		defer cancel()

		if _, err := reminder.SendDueReminders(ctx); err != nil {
			logger.Error(fmt.Sprintf("scheduled reminders: %v", err), err)
		}
	}
}

// cronLogger adapts core.Logger to cron.Logger.
type cronLogger struct {
	logger core.Logger
}

var _ cron.Logger = cronLogger{}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, kvMap(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, err, kvMap(keysAndValues))
}

func kvMap(keysAndValues []interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		m[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return m
}
