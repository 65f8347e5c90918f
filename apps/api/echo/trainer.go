package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/edumanage/core/academy"
	"github.com/trezcool/edumanage/core/insight"
	"github.com/trezcool/edumanage/core/stats"
)

type trainerApi struct {
	deps ServerDeps
}

func registerTrainerAPI(g *echo.Group, srv *Server) {
	api := trainerApi{deps: srv.deps}

	g.GET("/overview", api.overview)
	g.GET("/batches", api.queryBatches)
	g.GET("/tasks", api.queryTasks)
	g.POST("/tasks", api.addTask)
	g.POST("/attendance", api.recordAttendance)
	g.GET("/submissions", api.querySubmissions)
	g.PUT("/submissions/:id", api.grade)
	g.POST("/submissions/:id/feedback", api.suggestFeedback)
}

type (
	FeedbackRequest struct {
		Grade int `json:"grade" validate:"min=0,max=100"`
	}

	FeedbackResponse struct {
		Feedback string `json:"feedback"`
	}
)

// Handlers

func (api *trainerApi) overview(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	return ctx.JSON(http.StatusOK, stats.TrainerOverview(api.deps.Stats.Snapshot(), actor.ID))
}

func (api *trainerApi) queryBatches(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	snap := api.deps.Stats.Snapshot()
	return ctx.JSON(http.StatusOK, batchViews(snap, stats.BatchesForTrainer(snap.Batches, actor.ID)))
}

func (api *trainerApi) queryTasks(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	snap := api.deps.Stats.Snapshot()
	return ctx.JSON(http.StatusOK, stats.TasksForBatches(snap.Tasks, stats.BatchesForTrainer(snap.Batches, actor.ID)))
}

func (api *trainerApi) addTask(ctx echo.Context) error {
	return addTask(ctx, api.deps.AcademySvc)
}

func (api *trainerApi) recordAttendance(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	var data academy.NewAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAttendance")
	}
	records, err := api.deps.AcademySvc.RecordAttendance(actor, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, records)
}

func (api *trainerApi) querySubmissions(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	snap := api.deps.Stats.Snapshot()
	return ctx.JSON(http.StatusOK, submissionViews(snap, stats.SubmissionsForTrainer(snap, actor.ID)))
}

func (api *trainerApi) grade(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	var data academy.GradeSubmission
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeSubmission")
	}
	sub, err := api.deps.AcademySvc.Grade(actor, academy.SubmissionID(ctx.Param("id")), data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sub)
}

// suggestFeedback drafts a feedback comment for a grade; nothing is saved.
func (api *trainerApi) suggestFeedback(ctx echo.Context) error {
	actor, err := getContextUser(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	var data FeedbackRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to FeedbackRequest")
	}
	if err := api.deps.Validate.Struct(data); err != nil {
		return err
	}

	snap := api.deps.Stats.Snapshot()
	var view *SubmissionView
	for _, v := range submissionViews(snap, stats.SubmissionsForTrainer(snap, actor.ID)) {
		if v.ID == academy.SubmissionID(ctx.Param("id")) {
			v := v
			view = &v
			break
		}
	}
	if view == nil {
		return academy.ErrSubmissionNotFound
	}

	feedback := api.deps.InsightSvc.Feedback(ctx.Request().Context(), insight.FeedbackRequest{
		TaskTitle:   view.TaskTitle,
		StudentName: view.StudentName,
		Grade:       data.Grade,
	})
	return ctx.JSON(http.StatusOK, FeedbackResponse{Feedback: feedback})
}
