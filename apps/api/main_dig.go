package main

import (
	"context"
	"expvar"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof" // /debug/pprof on the default mux

	"github.com/jmoiron/sqlx"
	"github.com/robfig/cron/v3"

	dig_container "github.com/pgmhostel/pgm/apps/api/di/dig"
	echoapi "github.com/pgmhostel/pgm/apps/api/echo"
	"github.com/pgmhostel/pgm/core"
)

func startWithDig() {
	c := dig_container.New()

	must(c.Invoke(func(
		conf *core.Config,
		apiLogger core.Logger,
		dbLoggerParam dig_container.DBLoggerParam,
		db *sqlx.DB,
		server *echoapi.Server,
		scheduler *cron.Cron,
	) {
		apiLogger.Info(fmt.Sprintf("PGM console starting : version %q, hostel data from %q", conf.Build, conf.Backend.Source))
		defer apiLogger.Info("PGM console stopped")

		defer func() {
			if err := db.Close(); err != nil {
				dbLoggerParam.Logger.Fatal("closing staff database", err)
			}
		}()

		serveDebug(conf, apiLogger)

		// reminders run beside the API; stopping waits for a running job
		scheduler.Start()
		defer func() { <-scheduler.Stop().Done() }()

		go server.Start()

		awaitShutdown(conf, apiLogger, server)
	}))
}

// serveDebug exposes /debug/pprof and /debug/vars on the debug host.
func serveDebug(conf *core.Config, logger core.Logger) {
	expvar.NewString("build").Set(conf.Build)
	expvar.NewString("env").Set(conf.Env)
	expvar.NewString("hostelSource").Set(conf.Backend.Source)
	expvar.NewString("reminderSchedule").Set(conf.Reminders.Schedule)

	go func() {
		if err := http.ListenAndServe(conf.Server.DebugHost, http.DefaultServeMux); err != nil {
			logger.Error(fmt.Sprintf("debug server closed: %v", err), err)
		}
	}()
}

// awaitShutdown blocks until the server fails or a stop signal arrives, then drains in-flight requests.
func awaitShutdown(conf *core.Config, logger core.Logger, server *echoapi.Server) {
	select {
	case err := <-server.Errors():
		logger.Error(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: shutting down within %s", sig, conf.Server.ShutdownTimeout))

		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("graceful shutdown failed: %v", err), err)
			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop server: %v", err), err)
			}
		}
	}
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
