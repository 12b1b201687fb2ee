// Command admin runs the console maintenance tasks: migrations, staff accounts, reports & reminders.
package main

import (
	"fmt"
	"log"
	"os"

	dig_container "github.com/pgmhostel/pgm/apps/api/di/dig"
	"github.com/pgmhostel/pgm/core"
	"github.com/pgmhostel/pgm/core/report"
	"github.com/pgmhostel/pgm/core/staff"
	emailsvc "github.com/pgmhostel/pgm/services/email"
	logsvc "github.com/pgmhostel/pgm/services/logger"
	"github.com/pgmhostel/pgm/storage/database"
	sqlxrepos "github.com/pgmhostel/pgm/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)
	logger.Enable(!conf.Debug)

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal(fmt.Sprintf("creating database: %v", err), err)
	}
	db, err := database.Open(conf) // not migrated: that is the migrate command's job
	if err != nil {
		logger.Fatal(fmt.Sprintf("opening database: %v", err), err)
	}

	// set up services
	src, err := dig_container.NewSource(conf, db)
	if err != nil {
		_ = db.Close()
		logger.Fatal(fmt.Sprintf("setting up backend source: %v", err), err)
	}
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	validate := dig_container.NewValidator(core.NewTranslator())

	// start CLI
	cli := commandLine{
		db:        db.DB,
		staffSvc:  staff.NewService(sqlxrepos.NewStaffRepository(db), validate),
		reportSvc: report.NewService(src, logger, mailSvc),
		validate:  validate,
		out:       os.Stdout,
	}
	err = cli.run(os.Args)
	if w, ok := mailSvc.(emailsvc.Waiter); ok {
		w.Wait() // let the reminders go out
	}
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error(fmt.Sprintf("error: %v", err), err)
		}
		os.Exit(1)
	}
}
