// Package dig_container wires the API process with go.uber.org/dig.
package dig_container

import (
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"go.uber.org/dig"

	echoapi "github.com/pgmhostel/pgm/apps/api/echo"
	"github.com/pgmhostel/pgm/apps/api/jobs"
	"github.com/pgmhostel/pgm/core"
	"github.com/pgmhostel/pgm/core/report"
	"github.com/pgmhostel/pgm/core/staff"
	backendsvc "github.com/pgmhostel/pgm/services/backend"
	emailsvc "github.com/pgmhostel/pgm/services/email"
	logsvc "github.com/pgmhostel/pgm/services/logger"
	"github.com/pgmhostel/pgm/storage/database"
	inmemdb "github.com/pgmhostel/pgm/storage/database/inmem"
	sqlxrepos "github.com/pgmhostel/pgm/storage/database/sqlx"
)

// Backend sources
const (
	SourceHTTP   = "http"
	SourceDB     = "db"
	SourceMemory = "memory"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

// SetUpDB creates, opens & migrates the application database.
func SetUpDB(conf *core.Config) (*sqlx.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) *sqlx.DB {
	db, err := SetUpDB(conf)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db
}

// NewSource returns the hostel collections source selected by conf.Backend.Source.
func NewSource(conf *core.Config, db *sqlx.DB) (report.Source, error) {
	switch conf.Backend.Source {
	case "", SourceHTTP:
		return backendsvc.NewClient(conf), nil
	case SourceDB:
		return sqlxrepos.NewSource(db), nil
	case SourceMemory:
		src := inmemdb.NewSource(inmemdb.Open())
		if err := src.LoadDir(conf.Backend.DataDir); err != nil {
			return nil, errors.Wrap(err, "loading memory source")
		}
		return src, nil
	default:
		return nil, errors.Errorf("unknown backend source %q", conf.Backend.Source)
	}
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, logger)
	}
	return emailsvc.NewSendgridService(conf, logger)
}

// NewValidator returns a validator knowing every validation of the app.
func NewValidator(translator ut.Translator) *validator.Validate {
	validate := core.NewValidator(translator)
	staff.InitValidators(validate, translator)
	report.InitValidators(validate, translator)
	return validate
}

func newStaffRepository(db *sqlx.DB) staff.Repository {
	return sqlxrepos.NewStaffRepository(db)
}

func newServer(
	conf *core.Config,
	logger core.Logger,
	staffSvc staff.ServiceInterface,
	reportSvc report.ServiceInterface,
	validate *validator.Validate,
	translator ut.Translator,
) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		StaffSvc:   staffSvc,
		ReportSvc:  reportSvc,
		Validate:   validate,
		Translator: translator,
	})
}

func newScheduler(conf *core.Config, logger core.Logger, reportSvc report.ServiceInterface) (*cron.Cron, error) {
	return jobs.NewScheduler(conf, logger, reportSvc)
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(NewSource))
	must(c.Provide(newEmailService))
	must(c.Provide(newStaffRepository))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(NewValidator))
	must(c.Provide(staff.NewService, dig.As(new(staff.ServiceInterface))))
	must(c.Provide(report.NewService, dig.As(new(report.ServiceInterface))))
	must(c.Provide(newServer))
	must(c.Provide(newScheduler))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
