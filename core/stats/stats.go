// Package stats computes the role-scoped aggregates shown on the dashboards.
// Every function is pure: it only reads the slices it is given.
package stats

import (
	"math"

	"github.com/trezcool/edumanage/core/academy"
	"github.com/trezcool/edumanage/core/user"
)

// UnassignedTrainer is displayed for batches whose trainer does not exist.
const (
	UnassignedTrainer = "Unassigned"
	UnknownUser       = "Unknown"
)

// Fee statuses
const (
	FeesPaid    FeeStatus = "Paid"
	FeesPending FeeStatus = "Pending"
	FeesOverdue FeeStatus = "Overdue"
)

type FeeStatus string

// Snapshot is a point-in-time copy of every collection.
type Snapshot struct {
	Users       []user.User
	Batches     []academy.Batch
	Tasks       []academy.Task
	Attendance  []academy.AttendanceRecord
	Payments    []academy.Payment
	Placements  []academy.Placement
	Submissions []academy.Submission
}

// Source hands out snapshots of the current data.
type Source interface {
	Snapshot() Snapshot
}

type (
	Institute struct {
		Students       int     `json:"totalStudents"`
		Trainers       int     `json:"totalTrainers"`
		Batches        int     `json:"activeBatches"`
		Revenue        float64 `json:"revenue"`
		AttendanceRate int     `json:"attendanceRate"`
	}

	Trainer struct {
		Batches            int `json:"batches"`
		Students           int `json:"students"`
		Tasks              int `json:"tasks"`
		PendingSubmissions int `json:"pendingSubmissions"`
		GradedSubmissions  int `json:"gradedSubmissions"`
	}

	Student struct {
		Attendance   int       `json:"attendance"`
		PendingTasks int       `json:"pendingTasks"`
		FeeStatus    FeeStatus `json:"feeStatus"`
		Placements   int       `json:"placements"`
	}
)

// AttendancePercentage returns round(100 * present / total), or 0 without records.
func AttendancePercentage(records []academy.AttendanceRecord) int {
	if len(records) == 0 {
		return 0
	}
	var present int
	for _, r := range records {
		if r.Status == academy.Present {
			present++
		}
	}
	return int(math.Round(float64(present) / float64(len(records)) * 100))
}

func CountByRole(users []user.User, role user.Role) int {
	var n int
	for _, u := range users {
		if u.Role == role {
			n++
		}
	}
	return n
}

func UsersByRole(users []user.User, role user.Role) []user.User {
	return filter(users, func(u user.User) bool { return u.Role == role })
}

// Revenue sums the amounts of payments in one of statuses, or of every payment when none is given.
func Revenue(payments []academy.Payment, statuses ...academy.PaymentStatus) float64 {
	var total float64
	for _, p := range payments {
		if len(statuses) == 0 || containsStatus(statuses, p.Status) {
			total += p.Amount
		}
	}
	return total
}

func containsStatus(statuses []academy.PaymentStatus, s academy.PaymentStatus) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

// Scoped filters

func BatchesForTrainer(batches []academy.Batch, trainerID user.ID) []academy.Batch {
	return filter(batches, func(b academy.Batch) bool { return b.TrainerID == trainerID })
}

func BatchesForStudent(batches []academy.Batch, studentID user.ID) []academy.Batch {
	return filter(batches, func(b academy.Batch) bool { return b.HasStudent(studentID) })
}

func TasksForBatches(tasks []academy.Task, batches []academy.Batch) []academy.Task {
	ids := make(map[academy.BatchID]bool, len(batches))
	for _, b := range batches {
		ids[b.ID] = true
	}
	return filter(tasks, func(t academy.Task) bool { return ids[t.BatchID] })
}

func TasksForStudent(tasks []academy.Task, batches []academy.Batch, studentID user.ID) []academy.Task {
	return TasksForBatches(tasks, BatchesForStudent(batches, studentID))
}

func AttendanceForStudent(records []academy.AttendanceRecord, studentID user.ID) []academy.AttendanceRecord {
	return filter(records, func(r academy.AttendanceRecord) bool { return r.StudentID == studentID })
}

func AttendanceForBatches(records []academy.AttendanceRecord, batches []academy.Batch) []academy.AttendanceRecord {
	ids := make(map[academy.BatchID]bool, len(batches))
	for _, b := range batches {
		ids[b.ID] = true
	}
	return filter(records, func(r academy.AttendanceRecord) bool { return ids[r.BatchID] })
}

func PaymentsForStudent(payments []academy.Payment, studentID user.ID) []academy.Payment {
	return filter(payments, func(p academy.Payment) bool { return p.StudentID == studentID })
}

func PlacementsForStudent(placements []academy.Placement, studentID user.ID) []academy.Placement {
	return filter(placements, func(p academy.Placement) bool { return p.StudentID == studentID })
}

func SubmissionsForStudent(subs []academy.Submission, studentID user.ID) []academy.Submission {
	return filter(subs, func(s academy.Submission) bool { return s.StudentID == studentID })
}

func SubmissionsForTasks(subs []academy.Submission, tasks []academy.Task) []academy.Submission {
	ids := make(map[academy.TaskID]bool, len(tasks))
	for _, t := range tasks {
		ids[t.ID] = true
	}
	return filter(subs, func(s academy.Submission) bool { return ids[s.TaskID] })
}

// SubmissionsForTrainer returns the submissions to tasks of the trainer's batches.
func SubmissionsForTrainer(snap Snapshot, trainerID user.ID) []academy.Submission {
	return SubmissionsForTasks(snap.Submissions, TasksForBatches(snap.Tasks, BatchesForTrainer(snap.Batches, trainerID)))
}

// Name resolution

// TrainerName returns the name of the batch trainer, or UnassignedTrainer on a dangling reference.
func TrainerName(users []user.User, trainerID user.ID) string {
	for _, u := range users {
		if u.ID == trainerID && u.IsTrainer() {
			return u.Name
		}
	}
	return UnassignedTrainer
}

// UserName returns the name of the user with id, or UnknownUser on a dangling reference.
func UserName(users []user.User, id user.ID) string {
	for _, u := range users {
		if u.ID == id {
			return u.Name
		}
	}
	return UnknownUser
}

// Overviews

func InstituteOverview(snap Snapshot) Institute {
	return Institute{
		Students:       CountByRole(snap.Users, user.RoleStudent),
		Trainers:       CountByRole(snap.Users, user.RoleTrainer),
		Batches:        len(snap.Batches),
		Revenue:        Revenue(snap.Payments, academy.Paid),
		AttendanceRate: AttendancePercentage(snap.Attendance),
	}
}

func TrainerOverview(snap Snapshot, trainerID user.ID) Trainer {
	batches := BatchesForTrainer(snap.Batches, trainerID)
	tasks := TasksForBatches(snap.Tasks, batches)
	subs := SubmissionsForTasks(snap.Submissions, tasks)

	students := make(map[user.ID]bool)
	for _, b := range batches {
		for _, sid := range b.StudentIDs {
			students[sid] = true
		}
	}

	ov := Trainer{
		Batches:  len(batches),
		Students: len(students),
		Tasks:    len(tasks),
	}
	for _, s := range subs {
		if s.IsGraded() {
			ov.GradedSubmissions++
		} else {
			ov.PendingSubmissions++
		}
	}
	return ov
}

func StudentOverview(snap Snapshot, studentID user.ID) Student {
	return Student{
		Attendance:   AttendancePercentage(AttendanceForStudent(snap.Attendance, studentID)),
		PendingTasks: len(PendingTasks(snap, studentID)),
		FeeStatus:    Fees(PaymentsForStudent(snap.Payments, studentID)),
		Placements:   len(PlacementsForStudent(snap.Placements, studentID)),
	}
}

// PendingTasks returns the tasks of the student's batches they have not submitted yet.
func PendingTasks(snap Snapshot, studentID user.ID) []academy.Task {
	submitted := make(map[academy.TaskID]bool)
	for _, s := range SubmissionsForStudent(snap.Submissions, studentID) {
		submitted[s.TaskID] = true
	}
	return filter(TasksForStudent(snap.Tasks, snap.Batches, studentID), func(t academy.Task) bool {
		return !submitted[t.ID]
	})
}

// Fees summarizes a student's payments: any overdue payment wins over a pending one.
func Fees(payments []academy.Payment) FeeStatus {
	status := FeesPaid
	for _, p := range payments {
		switch p.Status {
		case academy.Overdue:
			return FeesOverdue
		case academy.Pending:
			status = FeesPending
		}
	}
	return status
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
