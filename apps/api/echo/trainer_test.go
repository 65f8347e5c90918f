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

func TestTrainerOverview(t *testing.T) {
	app := setup(t)

	runHTTPTests(t, app, []httpTest{
		{
			name:     "admin is not a trainer",
			path:     "/v1/trainer/overview",
			token:    app.token(t, "u1"),
			wantCode: http.StatusForbidden,
		},
		{
			name:     "john",
			path:     "/v1/trainer/overview",
			token:    app.token(t, "u2"),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, stats.Trainer{Batches: 1, Students: 2, Tasks: 1, PendingSubmissions: 0, GradedSubmissions: 1}),
		},
		{
			name:     "emily",
			path:     "/v1/trainer/overview",
			token:    app.token(t, "u3"),
			wantCode: http.StatusOK,
			wantData: marchallObj(t, stats.Trainer{Batches: 1, Students: 2, Tasks: 1, PendingSubmissions: 1, GradedSubmissions: 1}),
		},
	})
}

func TestTrainerBatchesAndTasks(t *testing.T) {
	app := setup(t)
	token := app.token(t, "u3")

	rec := app.do(http.MethodGet, "/v1/trainer/batches", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var batches []echoapi.BatchView
	unmarshal(t, rec, &batches)
	require.Len(t, batches, 1)
	assert.Equal(t, academy.BatchID("b2"), batches[0].ID)
	assert.Equal(t, "Emily Educator", batches[0].TrainerName)

	rec = app.do(http.MethodGet, "/v1/trainer/tasks", token)
	require.Equal(t, http.StatusOK, rec.Code)
	var tasks []academy.Task
	unmarshal(t, rec, &tasks)
	require.Len(t, tasks, 1)
	assert.Equal(t, academy.TaskID("t2"), tasks[0].ID)

	runHTTPTests(t, app, []httpTest{
		{
			name:     "add to another trainer's batch",
			method:   http.MethodPost,
			path:     "/v1/trainer/tasks",
			body:     []byte(`{"batchId": "b1", "title": "Sneaky", "dueDate": "2023-12-01"}`),
			token:    token,
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: academy.ErrNotBatchTrainer.Error()}),
		},
		{
			name:     "add to own batch",
			method:   http.MethodPost,
			path:     "/v1/trainer/tasks",
			body:     []byte(`{"batchId": "b2", "title": "State", "dueDate": "2023-12-01"}`),
			token:    token,
			wantCode: http.StatusCreated,
		},
	})

	rec = app.do(http.MethodGet, "/v1/trainer/tasks", token)
	unmarshal(t, rec, &tasks)
	assert.Len(t, tasks, 2)
}

func TestTrainerRecordAttendance(t *testing.T) {
	app := setup(t)
	token := app.token(t, "u2")

	runHTTPTests(t, app, []httpTest{
		{
			name:     "no entries",
			method:   http.MethodPost,
			path:     "/v1/trainer/attendance",
			body:     []byte(`{"batchId": "b1", "entries": []}`),
			token:    token,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "student marked twice",
			method:   http.MethodPost,
			path:     "/v1/trainer/attendance",
			body:     []byte(`{"batchId": "b1", "entries": [{"studentId": "u4", "status": "PRESENT"}, {"studentId": "u4", "status": "LATE"}]}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"entries": "a student can only be marked once per date"}),
		},
		{
			name:     "unknown batch",
			method:   http.MethodPost,
			path:     "/v1/trainer/attendance",
			body:     []byte(`{"batchId": "b9", "entries": [{"studentId": "u4", "status": "PRESENT"}]}`),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"batchId": "unknown batch"}),
		},
		{
			name:     "another trainer's batch",
			method:   http.MethodPost,
			path:     "/v1/trainer/attendance",
			body:     []byte(`{"batchId": "b2", "entries": [{"studentId": "u6", "status": "PRESENT"}]}`),
			token:    token,
			wantCode: http.StatusForbidden,
		},
	})

	t.Run("record", func(t *testing.T) {
		rec := app.do(http.MethodPost, "/v1/trainer/attendance", token,
			[]byte(`{"batchId": "b1", "date": "2023-11-06", "entries": [{"studentId": "u4", "status": "PRESENT"}, {"studentId": "u5", "status": "LATE"}]}`))
		require.Equal(t, http.StatusCreated, rec.Code)

		var records []academy.AttendanceRecord
		unmarshal(t, rec, &records)
		require.Len(t, records, 2)
		for _, r := range records {
			assert.NotEmpty(t, r.ID)
			assert.Equal(t, academy.BatchID("b1"), r.BatchID)
			assert.Equal(t, "2023-11-06", r.Date.String())
		}

		// u4 is now present 2 times out of 3
		rec = app.do(http.MethodGet, "/v1/student/overview", app.token(t, "u4"))
		var ov stats.Student
		unmarshal(t, rec, &ov)
		assert.Equal(t, 67, ov.Attendance)
	})
}

func TestTrainerSubmissions(t *testing.T) {
	app := setup(t)
	token := app.token(t, "u3")

	t.Run("query", func(t *testing.T) {
		rec := app.do(http.MethodGet, "/v1/trainer/submissions", token)
		require.Equal(t, http.StatusOK, rec.Code)

		var subs []echoapi.SubmissionView
		unmarshal(t, rec, &subs)
		require.Len(t, subs, 2)
		assert.Equal(t, academy.SubmissionID("s2"), subs[0].ID)
		assert.Equal(t, "Component Composition", subs[0].TaskTitle)
		assert.Equal(t, "Lisa Learner", subs[0].StudentName)
		assert.Nil(t, subs[0].Grade)
		assert.Equal(t, "Tom Techie", subs[1].StudentName)
	})

	runHTTPTests(t, app, []httpTest{
		{
			name:     "grade out of range",
			method:   http.MethodPut,
			path:     "/v1/trainer/submissions/s2",
			body:     marchallObj(t, academy.GradeSubmission{Grade: 101}),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"grade": "grade must be 100 or less"}),
		},
		{
			name:     "grade another trainer's submission",
			method:   http.MethodPut,
			path:     "/v1/trainer/submissions/s1",
			body:     marchallObj(t, academy.GradeSubmission{Grade: 50}),
			token:    token,
			wantCode: http.StatusForbidden,
		},
		{
			name:     "grade unknown submission",
			method:   http.MethodPut,
			path:     "/v1/trainer/submissions/s9",
			body:     marchallObj(t, academy.GradeSubmission{Grade: 50}),
			token:    token,
			wantCode: http.StatusNotFound,
		},
	})

	t.Run("grade", func(t *testing.T) {
		rec := app.do(http.MethodPut, "/v1/trainer/submissions/s2", token,
			marchallObj(t, academy.GradeSubmission{Grade: 72, Feedback: " Solid. "}))
		require.Equal(t, http.StatusOK, rec.Code)

		var sub academy.Submission
		unmarshal(t, rec, &sub)
		require.NotNil(t, sub.Grade)
		assert.Equal(t, 72, *sub.Grade)
		assert.Equal(t, "Solid.", sub.Feedback)
		assert.Equal(t, user.ID("u5"), sub.StudentID)

		rec = app.do(http.MethodGet, "/v1/trainer/overview", token)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, stats.Trainer{Batches: 1, Students: 2, Tasks: 1, PendingSubmissions: 0, GradedSubmissions: 2}),
		}, rec)
	})
}

func TestTrainerSuggestFeedback(t *testing.T) {
	app := setup(t)
	token := app.token(t, "u3")

	runHTTPTests(t, app, []httpTest{
		{
			name:     "own submission",
			method:   http.MethodPost,
			path:     "/v1/trainer/submissions/s3/feedback",
			body:     marchallObj(t, echoapi.FeedbackRequest{Grade: 90}),
			token:    token,
			wantCode: http.StatusOK,
			wantData: marchallObj(t, echoapi.FeedbackResponse{Feedback: "Nice work!"}),
		},
		{
			name:     "invalid grade",
			method:   http.MethodPost,
			path:     "/v1/trainer/submissions/s3/feedback",
			body:     marchallObj(t, echoapi.FeedbackRequest{Grade: -1}),
			token:    token,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"grade": "grade must be 0 or greater"}),
		},
		{
			name:     "another trainer's submission",
			method:   http.MethodPost,
			path:     "/v1/trainer/submissions/s1/feedback",
			body:     marchallObj(t, echoapi.FeedbackRequest{Grade: 90}),
			token:    token,
			wantCode: http.StatusNotFound,
		},
	})
}
