package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/pgmhostel/pgm/core"
	"github.com/pgmhostel/pgm/core/staff"
)

type staffApi struct {
	conf *core.Config
	svc  staff.ServiceInterface
}

func registerStaffAPI(g *echo.Group, jwt echo.MiddlewareFunc, conf *core.Config, svc staff.ServiceInterface) {
	api := staffApi{conf: conf, svc: svc}

	// un-authed endpoints
	g.POST("/auth/login", api.login)

	// authed endpoints
	g.POST("/auth/token-refresh", api.refreshToken, jwt)

	sg := g.Group("/staff", jwt)
	sg.GET("/me", api.me)
	sg.GET("", api.query, roleMiddleware(staff.RoleAdmin))
	sg.POST("", api.create, roleMiddleware(staff.RoleAdmin))
}

type LoginResponse struct {
	Token string `json:"token"`
}

// Handlers

func (api *staffApi) login(ctx echo.Context) error {
	var data staff.Login
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Login")
	}

	s, err := api.svc.Authenticate(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(api.conf, NewClaims(api.conf, s))
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *staffApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.conf, api.svc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token})
}

func (api *staffApi) me(ctx echo.Context) error {
	s, err := getContextStaff(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "getting context staff")
	}
	return ctx.JSON(http.StatusOK, s)
}

func (api *staffApi) query(ctx echo.Context) error {
	members, err := api.svc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying staff")
	}
	if members == nil {
		members = []staff.Staff{}
	}
	return ctx.JSON(http.StatusOK, members)
}

func (api *staffApi) create(ctx echo.Context) error {
	var data staff.NewStaff
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStaff")
	}

	s, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating staff")
	}
	return ctx.JSON(http.StatusCreated, s)
}
