package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/trezcool/edumanage/core/academy"
	"github.com/trezcool/edumanage/core/insight"
	"github.com/trezcool/edumanage/core/stats"
	"github.com/trezcool/edumanage/core/user"
)

// dashboard prints the role-scoped view of the logged in user.
func (cli *commandLine) dashboard() error {
	usr, err := cli.currentUser()
	if err != nil {
		return err
	}

	snap := cli.stats.Snapshot()
	fmt.Fprintf(cli.out, "%s Dashboard (%s theme)\n", roleTitle(usr.Role), cli.state.Theme())
	fmt.Fprintf(cli.out, "Welcome back, %s\n\n", usr.Name)

	switch usr.Role {
	case user.RoleAdmin:
		cli.adminDashboard(snap)
	case user.RoleTrainer:
		cli.trainerDashboard(snap, usr)
	case user.RoleStudent:
		cli.studentDashboard(snap, usr)
	}
	return nil
}

func (cli *commandLine) adminDashboard(snap stats.Snapshot) {
	ov := stats.InstituteOverview(snap)
	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Students\t%d\n", ov.Students)
	fmt.Fprintf(w, "Trainers\t%d\n", ov.Trainers)
	fmt.Fprintf(w, "Active batches\t%d\n", ov.Batches)
	fmt.Fprintf(w, "Revenue\t%.2f\n", ov.Revenue)
	fmt.Fprintf(w, "Attendance\t%d%%\n", ov.AttendanceRate)
	_ = w.Flush()

	summary := cli.insight.Summary(cli.ctx, insight.InstituteFacts{
		TotalStudents:  ov.Students,
		TotalBatches:   ov.Batches,
		AttendanceRate: ov.AttendanceRate,
	})
	fmt.Fprintf(cli.out, "\nAI summary: %s\n", summary)

	fmt.Fprintln(cli.out, "\nBatches")
	w = tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTRAINER\tSTUDENTS\tSCHEDULE")
	for _, b := range snap.Batches {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", b.ID, b.Name, stats.TrainerName(snap.Users, b.TrainerID), len(b.StudentIDs), b.Schedule)
	}
	_ = w.Flush()

	fmt.Fprintln(cli.out, "\nPayments")
	w = tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STUDENT\tAMOUNT\tTYPE\tSTATUS\tDATE")
	for _, p := range snap.Payments {
		fmt.Fprintf(w, "%s\t%.2f\t%s\t%s\t%s\n", stats.UserName(snap.Users, p.StudentID), p.Amount, p.Type, p.Status, p.Date)
	}
	_ = w.Flush()
}

func (cli *commandLine) trainerDashboard(snap stats.Snapshot, usr user.User) {
	ov := stats.TrainerOverview(snap, usr.ID)
	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Batches\t%d\n", ov.Batches)
	fmt.Fprintf(w, "Students\t%d\n", ov.Students)
	fmt.Fprintf(w, "Tasks\t%d\n", ov.Tasks)
	fmt.Fprintf(w, "Pending reviews\t%d\n", ov.PendingSubmissions)
	fmt.Fprintf(w, "Graded\t%d\n", ov.GradedSubmissions)
	_ = w.Flush()

	titles := make(map[academy.TaskID]string, len(snap.Tasks))
	for _, t := range snap.Tasks {
		titles[t.ID] = t.Title
	}

	fmt.Fprintln(cli.out, "\nSubmissions")
	w = tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTASK\tSTUDENT\tGRADE")
	for _, s := range stats.SubmissionsForTrainer(snap, usr.ID) {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.ID, titles[s.TaskID], stats.UserName(snap.Users, s.StudentID), gradeText(s))
	}
	_ = w.Flush()
}

func (cli *commandLine) studentDashboard(snap stats.Snapshot, usr user.User) {
	ov := stats.StudentOverview(snap, usr.ID)
	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Attendance\t%d%%\n", ov.Attendance)
	fmt.Fprintf(w, "Pending tasks\t%d\n", ov.PendingTasks)
	fmt.Fprintf(w, "Fees\t%s\n", ov.FeeStatus)
	fmt.Fprintf(w, "Placements\t%d\n", ov.Placements)
	_ = w.Flush()

	subs := stats.SubmissionsForStudent(snap.Submissions, usr.ID)
	fmt.Fprintln(cli.out, "\nTasks")
	w = tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tDUE\tSTATUS")
	for _, t := range stats.TasksForStudent(snap.Tasks, snap.Batches, usr.ID) {
		status := "pending"
		for _, s := range subs {
			if s.TaskID == t.ID {
				status = "submitted, " + gradeText(s)
				break
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Title, t.DueDate, status)
	}
	_ = w.Flush()
}

func gradeText(s academy.Submission) string {
	if !s.IsGraded() {
		return "not graded"
	}
	return fmt.Sprintf("%d/100", *s.Grade)
}

func roleTitle(r user.Role) string {
	s := strings.ToLower(string(r))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (cli *commandLine) submit(taskID academy.TaskID) error {
	student, err := cli.currentUser(user.RoleStudent)
	if err != nil {
		return err
	}
	sub, err := cli.academy.SubmitTask(student, taskID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Submitted task %s (%s)\n", sub.TaskID, sub.ID)
	return nil
}
