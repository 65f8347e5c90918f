package echoapi_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/edumanage/apps/api/echo"
	"github.com/trezcool/edumanage/core/academy"
	"github.com/trezcool/edumanage/core/stats"
	"github.com/trezcool/edumanage/core/user"
)

func TestStudentOverview(t *testing.T) {
	app := setup(t)

	runHTTPTests(t, app, []httpTest{
		{
			name:     "trainer is not a student",
			path:     "/v1/student/overview",
			token:    app.token(t, "u2"),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "mike",
			path:     "/v1/student/overview",
			token:    app.token(t, "u4"),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, stats.Student{Attendance: 50, PendingTasks: 0, FeeStatus: stats.FeesPaid, Placements: 1}),
		},
		{
			name:     "lisa",
			path:     "/v1/student/overview",
			token:    app.token(t, "u5"),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, stats.Student{Attendance: 100, PendingTasks: 1, FeeStatus: stats.FeesPending, Placements: 0}),
		},
		{
			name:     "tom",
			path:     "/v1/student/overview",
			token:    app.token(t, "u6"),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, stats.Student{Attendance: 0, PendingTasks: 0, FeeStatus: stats.FeesOverdue, Placements: 1}),
		},
	})
}

func TestStudentRecords(t *testing.T) {
	app := setup(t)
	token := app.token(t, "u4")

	t.Run("attendance", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/v1/student/attendance", token)
		require.Equal(t, http.StatusOK, rec.Code)
		var records []academy.AttendanceRecord
		unmarshal(t, rec, &records)
		require.Len(t, records, 2)
		for _, r := range records {
			assert.Equal(t, user.ID("u4"), r.StudentID)
		}
	})

	t.Run("payments", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/v1/student/payments", token)
		require.Equal(t, http.StatusOK, rec.Code)
		var payments []academy.Payment
		unmarshal(t, rec, &payments)
		require.Len(t, payments, 1)
		assert.Equal(t, academy.PaymentID("p1"), payments[0].ID)
	})

	t.Run("placements", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/v1/student/placements", token)
		require.Equal(t, http.StatusOK, rec.Code)
		var placements []academy.Placement
		unmarshal(t, rec, &placements)
		require.Len(t, placements, 1)
		assert.Equal(t, "TechSolutions Inc", placements[0].Company)
	})

	t.Run("empty", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/v1/student/placements", app.token(t, "u5"))
		checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: []byte(`[]`)}, rec)
	})
}

func TestStudentTasks(t *testing.T) {
	app := setup(t)
	token := app.token(t, "u5")

	rec := app.do(http.MethodGet, "/v1/student/tasks", token)
	require.Equal(t, http.StatusOK, rec.Code)

	var tasks []echoapi.StudentTaskView
	unmarshal(t, rec, &tasks)
	require.Len(t, tasks, 2)
	assert.Equal(t, academy.TaskID("t1"), tasks[0].ID)
	assert.Nil(t, tasks[0].Submission, "t1 is pending")
	assert.Equal(t, academy.TaskID("t2"), tasks[1].ID)
	require.NotNil(t, tasks[1].Submission)
	assert.Equal(t, academy.SubmissionID("s2"), tasks[1].Submission.ID)
}

func TestStudentSubmitTask(t *testing.T) {
	app := setup(t)
	token := app.token(t, "u5")

	runHTTPTests(t, app, []httpTest{
		{
			name:     "unknown task",
			method:   http.MethodPost,
			path:     "/v1/student/tasks/t9/submit",
			token:    token,
			wantCode: http.StatusNotFound,
		},
		{
			name:     "already submitted",
			method:   http.MethodPost,
			path:     "/v1/student/tasks/t2/submit",
			token:    token,
			wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Error: academy.ErrAlreadySubmitted.Error()}),
		},
		{
			name:     "not enrolled",
			method:   http.MethodPost,
			path:     "/v1/student/tasks/t1/submit",
			token:    app.token(t, "u6"),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: academy.ErrNotEnrolled.Error()}),
		},
	})

	t.Run("submit", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/v1/student/tasks/t1/submit", token)
		require.Equal(t, http.StatusCreated, rec.Code)

		var sub academy.Submission
		unmarshal(t, rec, &sub)
		assert.NotEmpty(t, sub.ID)
		assert.Equal(t, academy.TaskID("t1"), sub.TaskID)
		assert.Equal(t, user.ID("u5"), sub.StudentID)
		assert.Nil(t, sub.Grade)
		assert.False(t, sub.SubmittedAt.IsZero())

		rec = app.do(http.MethodGet, "/v1/student/overview", token)
		var ov stats.Student
		unmarshal(t, rec, &ov)
		assert.Equal(t, 0, ov.PendingTasks)

		// it shows up for the batch trainer
		rec = app.do(http.MethodGet, "/v1/trainer/submissions", app.token(t, "u2"))
		var subs []echoapi.SubmissionView
		unmarshal(t, rec, &subs)
		require.Len(t, subs, 2)
		assert.Equal(t, sub.ID, subs[1].ID)
		assert.Equal(t, "Lisa Learner", subs[1].StudentName)

		rec = app.do(http.MethodPost, "/v1/student/tasks/t1/submit", token)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
