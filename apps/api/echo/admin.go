package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edumanage/core/academy"
	"github.com/trezcool/edumanage/core/insight"
	"github.com/trezcool/edumanage/core/stats"
	"github.com/trezcool/edumanage/core/user"
)

type adminApi struct {
	deps ServerDeps
}

func registerAdminAPI(g *echo.Group, srv *Server) {
	api := adminApi{deps: srv.deps}

	g.GET("/overview", api.overview)

	g.GET("/users", api.queryUsers)
	g.POST("/trainers", api.addTrainer)
	g.DELETE("/users/:id", api.deleteUser)

	g.GET("/batches", api.queryBatches)
	g.POST("/batches", api.addBatch)
	g.GET("/tasks", api.queryTasks)
	g.POST("/tasks", api.addTask)
	g.GET("/attendance", api.queryAttendance)
	g.GET("/payments", api.queryPayments)
	g.POST("/payments", api.addPayment)
	g.GET("/placements", api.queryPlacements)
	g.POST("/placements", api.addPlacement)
}

type InstituteOverviewResponse struct {
	Stats   stats.Institute `json:"stats"`
	Summary string          `json:"summary"`
}

// Handlers

func (api *adminApi) overview(ctx echo.Context) error {
	ov := stats.InstituteOverview(api.deps.Stats.Snapshot())
	summary := api.deps.InsightSvc.Summary(ctx.Request().Context(), insight.InstituteFacts{
		TotalStudents:  ov.Students,
		TotalBatches:   ov.Batches,
		AttendanceRate: ov.AttendanceRate,
	})
	return ctx.JSON(http.StatusOK, InstituteOverviewResponse{Stats: ov, Summary: summary})
}

func (api *adminApi) queryUsers(ctx echo.Context) error {
	var filter user.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	users, err := api.deps.UserSvc.Filter(filter)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, users)
}

func (api *adminApi) addTrainer(ctx echo.Context) error {
	var data user.NewTrainer
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTrainer")
	}
	usr, err := api.deps.UserSvc.AddTrainer(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, usr)
}

// deleteUser requires ?confirm=true; without it nothing is removed.
func (api *adminApi) deleteUser(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	confirmed, _ := strconv.ParseBool(ctx.QueryParam("confirm"))

	err = api.deps.UserSvc.Delete(actor, user.ID(ctx.Param("id")), func(user.User) bool { return confirmed })
	if err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *adminApi) queryBatches(ctx echo.Context) error {
	snap := api.deps.Stats.Snapshot()
	return ctx.JSON(http.StatusOK, batchViews(snap, snap.Batches))
}

func (api *adminApi) addBatch(ctx echo.Context) error {
	var data academy.NewBatch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBatch")
	}
	b, err := api.deps.AcademySvc.AddBatch(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, b)
}

func (api *adminApi) queryTasks(ctx echo.Context) error {
	tasks, err := api.deps.AcademySvc.Tasks()
	if err != nil {
		return errors.Wrap(err, "querying tasks")
	}
	return ctx.JSON(http.StatusOK, tasks)
}

func (api *adminApi) addTask(ctx echo.Context) error {
	return addTask(ctx, api.deps.AcademySvc)
}

func (api *adminApi) queryAttendance(ctx echo.Context) error {
	snap := api.deps.Stats.Snapshot()
	return ctx.JSON(http.StatusOK, attendanceViews(snap.Users, snap.Attendance))
}

func (api *adminApi) queryPayments(ctx echo.Context) error {
	snap := api.deps.Stats.Snapshot()
	return ctx.JSON(http.StatusOK, paymentViews(snap.Users, snap.Payments))
}

func (api *adminApi) addPayment(ctx echo.Context) error {
	var data academy.NewPayment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPayment")
	}
	p, err := api.deps.AcademySvc.AddPayment(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *adminApi) queryPlacements(ctx echo.Context) error {
	snap := api.deps.Stats.Snapshot()
	return ctx.JSON(http.StatusOK, placementViews(snap.Users, snap.Placements))
}

func (api *adminApi) addPlacement(ctx echo.Context) error {
	var data academy.NewPlacement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPlacement")
	}
	p, err := api.deps.AcademySvc.AddPlacement(data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, p)
}

// addTask is shared by the admin and trainer views; trainers may only add tasks to their batches.
func addTask(ctx echo.Context, svc *academy.Service) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	var data academy.NewTask
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTask")
	}
	t, err := svc.AddTask(actor, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, t)
}
