package echoapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pgmhostel/pgm/core"
	"github.com/pgmhostel/pgm/core/hostel"
	"github.com/pgmhostel/pgm/core/report"
	"github.com/pgmhostel/pgm/core/staff"
	exportsvc "github.com/pgmhostel/pgm/services/export"
)

const (
	formatParam = "format"
	formatJSON  = "json"
	formatXLSX  = "xlsx"
	dateParam   = "date"
)

var (
	errInvalidFormat = core.NewValidationError(nil, core.FieldError{Field: formatParam, Error: "format must be one of json, xlsx"})
	errInvalidDate   = core.NewValidationError(nil, core.FieldError{Field: dateParam, Error: "date must be formatted as YYYY-MM-DD"})
)

type reportApi struct {
	svc      report.ServiceInterface
	staffSvc staff.ServiceInterface
	validate *validator.Validate
}

func registerReportAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc report.ServiceInterface,
	staffSvc staff.ServiceInterface,
	validate *validator.Validate,
) {
	api := reportApi{svc: svc, staffSvc: staffSvc, validate: validate}

	rg := g.Group("/reports", jwt, api.activeStaffMiddleware)
	rg.GET("/students", api.students)
	rg.GET("/dues", api.dues)
	rg.GET("/rooms", api.rooms)
	rg.GET("/occupancy", api.occupancy)
	rg.GET("/payments", api.payments)
	rg.GET("/dashboard", api.dashboard)
	rg.POST("/dues/reminders", api.sendDueReminders, roleMiddleware(staff.RoleAdmin, staff.RoleManager))
}

// activeStaffMiddleware rejects the tokens of deactivated staff members.
func (api *reportApi) activeStaffMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		s, err := getContextStaff(ctx, api.staffSvc)
		if err != nil {
			return errors.Wrap(err, "getting context staff")
		}
		if !s.IsActive {
			return errAccountDeactivated
		}
		return next(ctx)
	}
}

type cleaner interface {
	Clean()
}

// bindQuery binds, cleans & validates the report query parameters.
func (api *reportApi) bindQuery(ctx echo.Context, q cleaner) error {
	if err := ctx.Bind(q); err != nil {
		return errors.Wrap(err, "binding query")
	}
	q.Clean()
	return api.validate.Struct(q)
}

// render writes rpt as JSON, or as an XLSX attachment named after the report when `format=xlsx`.
func render(ctx echo.Context, name string, rpt interface{}) error {
	switch ctx.QueryParam(formatParam) {
	case "", formatJSON:
		return ctx.JSON(http.StatusOK, rpt)
	case formatXLSX:
		var buf bytes.Buffer
		if err := exportsvc.WriteXLSX(&buf, rpt); err != nil {
			return errors.Wrapf(err, "exporting %s report", name)
		}
		ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name+"-report.xlsx"))
		return ctx.Blob(http.StatusOK, exportsvc.ContentType, buf.Bytes())
	default:
		return errInvalidFormat
	}
}

// Handlers

func (api *reportApi) students(ctx echo.Context) error {
	var q report.StudentQuery
	if err := api.bindQuery(ctx, &q); err != nil {
		return err
	}
	rpt, err := api.svc.Students(ctx.Request().Context(), q)
	if err != nil {
		return errors.Wrap(err, "querying student report")
	}
	return render(ctx, "students", rpt)
}

func (api *reportApi) dues(ctx echo.Context) error {
	var q report.DueQuery
	if err := api.bindQuery(ctx, &q); err != nil {
		return err
	}
	rpt, err := api.svc.Dues(ctx.Request().Context(), q)
	if err != nil {
		return errors.Wrap(err, "querying due report")
	}
	return render(ctx, "dues", rpt)
}

func (api *reportApi) rooms(ctx echo.Context) error {
	var q report.RoomQuery
	if err := api.bindQuery(ctx, &q); err != nil {
		return err
	}
	rpt, err := api.svc.Rooms(ctx.Request().Context(), q)
	if err != nil {
		return errors.Wrap(err, "querying room report")
	}
	return render(ctx, "rooms", rpt)
}

func (api *reportApi) occupancy(ctx echo.Context) error {
	var q report.OccupancyQuery
	if err := api.bindQuery(ctx, &q); err != nil {
		return err
	}
	rpt, err := api.svc.Occupancy(ctx.Request().Context(), q)
	if err != nil {
		return errors.Wrap(err, "querying occupancy report")
	}
	return render(ctx, "occupancy", rpt)
}

func (api *reportApi) payments(ctx echo.Context) error {
	var q report.PaymentQuery
	if err := api.bindQuery(ctx, &q); err != nil {
		return err
	}
	rpt, err := api.svc.Payments(ctx.Request().Context(), q)
	if err != nil {
		return errors.Wrap(err, "querying payment report")
	}
	return render(ctx, "payments", rpt)
}

func (api *reportApi) dashboard(ctx echo.Context) error {
	var day hostel.Date
	if s := core.CleanString(ctx.QueryParam(dateParam)); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return errInvalidDate
		}
		day = hostel.Date{Time: t}
	}

	dash, err := api.svc.Dashboard(ctx.Request().Context(), day)
	if err != nil {
		return errors.Wrap(err, "querying dashboard")
	}
	return render(ctx, "dashboard", dash)
}

type RemindersResponse struct {
	Sent int `json:"sent"`
}

func (api *reportApi) sendDueReminders(ctx echo.Context) error {
	sent, err := api.svc.SendDueReminders(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "sending due reminders")
	}
	return ctx.JSON(http.StatusOK, RemindersResponse{Sent: sent})
}
