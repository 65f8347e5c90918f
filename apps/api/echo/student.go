package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edumanage/core/academy"
	"github.com/trezcool/edumanage/core/stats"
)

type studentApi struct {
	deps ServerDeps
}

func registerStudentAPI(g *echo.Group, srv *Server) {
	api := studentApi{deps: srv.deps}

	g.GET("/overview", api.overview)
	g.GET("/tasks", api.queryTasks)
	g.POST("/tasks/:id/submit", api.submitTask)
	g.GET("/attendance", api.queryAttendance)
	g.GET("/payments", api.queryPayments)
	g.GET("/placements", api.queryPlacements)
}

// Handlers

func (api *studentApi) overview(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, stats.StudentOverview(api.deps.Stats.Snapshot(), actor.ID))
}

func (api *studentApi) queryTasks(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, studentTaskViews(api.deps.Stats.Snapshot(), actor.ID))
}

func (api *studentApi) submitTask(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	sub, err := api.deps.AcademySvc.SubmitTask(actor, academy.TaskID(ctx.Param("id")))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, sub)
}

func (api *studentApi) queryAttendance(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	snap := api.deps.Stats.Snapshot()
	return ctx.JSON(http.StatusOK, stats.AttendanceForStudent(snap.Attendance, actor.ID))
}

func (api *studentApi) queryPayments(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	snap := api.deps.Stats.Snapshot()
	return ctx.JSON(http.StatusOK, stats.PaymentsForStudent(snap.Payments, actor.ID))
}

func (api *studentApi) queryPlacements(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	snap := api.deps.Stats.Snapshot()
	return ctx.JSON(http.StatusOK, stats.PlacementsForStudent(snap.Placements, actor.ID))
}
