package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edumanage/core/user"
)

type accountApi struct {
	srv *Server
	svc *user.Service
}

func registerAccountAPI(g *echo.Group, jwt echo.MiddlewareFunc, srv *Server) {
	api := accountApi{srv: srv, svc: srv.deps.UserSvc}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/signup/validate", api.validateSignup)
	ag.POST("/signup", api.signup)
	ag.GET("/signup/:id", api.signupStatus)
	ag.DELETE("/signup/:id", api.cancelSignup)

	g.GET("/me", api.me, jwt)
}

type (
	LoginResponse struct {
		Token string    `json:"token"`
		User  user.User `json:"user"`
	}

	RegistrationResponse struct {
		ID    string                 `json:"id"`
		State user.RegistrationState `json:"state"`
		User  *user.User             `json:"user,omitempty"`
		Token string                 `json:"token,omitempty"`
		Error string                 `json:"error,omitempty"`
	}
)

// Handlers

func (api *accountApi) login(ctx echo.Context) error {
	var data user.LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}

	usr, err := api.svc.Login(data)
	if err != nil {
		return err
	}
	token, err := api.srv.Token(usr)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, User: usr})
}

func (api *accountApi) validateSignup(ctx echo.Context) error {
	var form user.SignupForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to SignupForm")
	}
	return ctx.JSON(http.StatusOK, api.svc.EvaluateSignup(form))
}

func (api *accountApi) signup(ctx echo.Context) error {
	var form user.SignupForm
	if err := ctx.Bind(&form); err != nil {
		return errors.Wrap(err, "binding to SignupForm")
	}

	// the registration outlives the request
	reg, err := api.svc.Signup(api.srv.ctx, form, nil)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusAccepted, RegistrationResponse{ID: reg.ID, State: reg.State()})
}

func (api *accountApi) signupStatus(ctx echo.Context) error {
	reg, err := api.svc.GetRegistration(ctx.Param("id"))
	if err != nil {
		return err
	}
	resp, err := api.registrationResponse(reg)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, resp)
}

func (api *accountApi) cancelSignup(ctx echo.Context) error {
	reg, err := api.svc.CancelRegistration(ctx.Param("id"))
	if err != nil {
		return err
	}
	resp, err := api.registrationResponse(reg)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, resp)
}

// registrationResponse signs the new user in once the registration has completed.
func (api *accountApi) registrationResponse(reg *user.Registration) (RegistrationResponse, error) {
	resp := RegistrationResponse{ID: reg.ID, State: reg.State()}
	if usr, ok := reg.User(); ok {
		token, err := api.srv.Token(usr)
		if err != nil {
			return resp, errors.Wrap(err, "generating token")
		}
		resp.State = user.RegistrationCompleted
		resp.User = &usr
		resp.Token = token
	}
	if resp.State == user.RegistrationFailed {
		if err := reg.Err(); err != nil {
			resp.Error = err.Error()
		}
	}
	return resp, nil
}

func (api *accountApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, usr)
}
