package echoapi

import (
	"github.com/trezcool/edumanage/core/academy"
	"github.com/trezcool/edumanage/core/stats"
	"github.com/trezcool/edumanage/core/user"
)

// Row views resolve the weak references to display names.
type (
	BatchView struct {
		academy.Batch
		TrainerName string `json:"trainerName"`
	}

	AttendanceView struct {
		academy.AttendanceRecord
		StudentName string `json:"studentName"`
	}

	PaymentView struct {
		academy.Payment
		StudentName string `json:"studentName"`
	}

	PlacementView struct {
		academy.Placement
		StudentName string `json:"studentName"`
	}

	SubmissionView struct {
		academy.Submission
		TaskTitle   string `json:"taskTitle"`
		StudentName string `json:"studentName"`
	}

	StudentTaskView struct {
		academy.Task
		Submission *academy.Submission `json:"submission,omitempty"`
	}
)

func batchViews(snap stats.Snapshot, batches []academy.Batch) []BatchView {
	views := make([]BatchView, 0, len(batches))
	for _, b := range batches {
		views = append(views, BatchView{Batch: b, TrainerName: stats.TrainerName(snap.Users, b.TrainerID)})
	}
	return views
}

func attendanceViews(users []user.User, records []academy.AttendanceRecord) []AttendanceView {
	views := make([]AttendanceView, 0, len(records))
	for _, r := range records {
		views = append(views, AttendanceView{AttendanceRecord: r, StudentName: stats.UserName(users, r.StudentID)})
	}
	return views
}

func paymentViews(users []user.User, payments []academy.Payment) []PaymentView {
	views := make([]PaymentView, 0, len(payments))
	for _, p := range payments {
		views = append(views, PaymentView{Payment: p, StudentName: stats.UserName(users, p.StudentID)})
	}
	return views
}

func placementViews(users []user.User, placements []academy.Placement) []PlacementView {
	views := make([]PlacementView, 0, len(placements))
	for _, p := range placements {
		views = append(views, PlacementView{Placement: p, StudentName: stats.UserName(users, p.StudentID)})
	}
	return views
}

func submissionViews(snap stats.Snapshot, subs []academy.Submission) []SubmissionView {
	titles := make(map[academy.TaskID]string, len(snap.Tasks))
	for _, t := range snap.Tasks {
		titles[t.ID] = t.Title
	}

	views := make([]SubmissionView, 0, len(subs))
	for _, s := range subs {
		views = append(views, SubmissionView{
			Submission:  s,
			TaskTitle:   titles[s.TaskID],
			StudentName: stats.UserName(snap.Users, s.StudentID),
		})
	}
	return views
}

func studentTaskViews(snap stats.Snapshot, studentID user.ID) []StudentTaskView {
	subs := stats.SubmissionsForStudent(snap.Submissions, studentID)
	tasks := stats.TasksForStudent(snap.Tasks, snap.Batches, studentID)

	views := make([]StudentTaskView, 0, len(tasks))
	for _, t := range tasks {
		v := StudentTaskView{Task: t}
		for i := range subs {
			if subs[i].TaskID == t.ID {
				v.Submission = &subs[i]
				break
			}
		}
		views = append(views, v)
	}
	return views
}
