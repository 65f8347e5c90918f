package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/edumanage/core/stats"
	"github.com/trezcool/edumanage/core/user"
)

type sheet struct {
	name   string
	header []interface{}
	rows   [][]interface{}
}

// export writes one sheet per collection to path.
func (cli *commandLine) export(path string) error {
	if _, err := cli.currentUser(user.RoleAdmin); err != nil {
		return err
	}

	sheets := exportSheets(cli.stats.Snapshot())
	if err := writeWorkbook(path, sheets); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Exported %d sheets to %s\n", len(sheets), path)
	return nil
}

func exportSheets(snap stats.Snapshot) []sheet {
	users := sheet{name: "Users", header: []interface{}{"ID", "Name", "Email", "Role", "Course / Expertise"}}
	for _, u := range snap.Users {
		users.rows = append(users.rows, []interface{}{string(u.ID), u.Name, u.Email, string(u.Role), u.CourseOrExpertise})
	}

	batches := sheet{name: "Batches", header: []interface{}{"ID", "Name", "Course", "Trainer", "Students", "Schedule"}}
	for _, b := range snap.Batches {
		batches.rows = append(batches.rows, []interface{}{
			string(b.ID), b.Name, b.Course, stats.TrainerName(snap.Users, b.TrainerID), len(b.StudentIDs), b.Schedule,
		})
	}

	tasks := sheet{name: "Tasks", header: []interface{}{"ID", "Batch", "Title", "Due date", "Assigned by"}}
	for _, t := range snap.Tasks {
		tasks.rows = append(tasks.rows, []interface{}{
			string(t.ID), string(t.BatchID), t.Title, t.DueDate.String(), stats.UserName(snap.Users, t.AssignedBy),
		})
	}

	attendance := sheet{name: "Attendance", header: []interface{}{"ID", "Batch", "Student", "Date", "Status"}}
	for _, r := range snap.Attendance {
		attendance.rows = append(attendance.rows, []interface{}{
			string(r.ID), string(r.BatchID), stats.UserName(snap.Users, r.StudentID), r.Date.String(), string(r.Status),
		})
	}

	payments := sheet{name: "Payments", header: []interface{}{"ID", "Student", "Amount", "Type", "Status", "Date"}}
	for _, p := range snap.Payments {
		payments.rows = append(payments.rows, []interface{}{
			string(p.ID), stats.UserName(snap.Users, p.StudentID), p.Amount, string(p.Type), string(p.Status), p.Date.String(),
		})
	}

	placements := sheet{name: "Placements", header: []interface{}{"ID", "Student", "Company", "Role", "Package", "Status", "Date"}}
	for _, p := range snap.Placements {
		placements.rows = append(placements.rows, []interface{}{
			string(p.ID), stats.UserName(snap.Users, p.StudentID), p.Company, p.Role, p.Package, string(p.Status), p.Date.String(),
		})
	}

	submissions := sheet{name: "Submissions", header: []interface{}{"ID", "Task", "Student", "Submitted at", "Grade", "Feedback"}}
	for _, s := range snap.Submissions {
		grade := ""
		if s.IsGraded() {
			grade = strconv.Itoa(*s.Grade)
		}
		submissions.rows = append(submissions.rows, []interface{}{
			string(s.ID), string(s.TaskID), stats.UserName(snap.Users, s.StudentID), s.SubmittedAt.Format("2006-01-02 15:04"), grade, s.Feedback,
		})
	}

	return []sheet{users, batches, tasks, attendance, payments, placements, submissions}
}

func writeWorkbook(path string, sheets []sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}

	for i, sh := range sheets {
		if i == 0 {
			// reuse the default sheet
			if err := f.SetSheetName(f.GetSheetName(0), sh.name); err != nil {
				return errors.Wrapf(err, "renaming sheet to %s", sh.name)
			}
		} else if _, err := f.NewSheet(sh.name); err != nil {
			return errors.Wrapf(err, "creating sheet %s", sh.name)
		}

		if err := f.SetSheetRow(sh.name, "A1", &sh.header); err != nil {
			return errors.Wrapf(err, "writing %s header", sh.name)
		}
		last, err := excelize.CoordinatesToCellName(len(sh.header), 1)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sh.name, "A1", last, bold); err != nil {
			return errors.Wrapf(err, "styling %s header", sh.name)
		}

		for r, row := range sh.rows {
			row := row
			cell, err := excelize.CoordinatesToCellName(1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
				return errors.Wrapf(err, "writing %s row %d", sh.name, r+1)
			}
		}
	}

	f.SetActiveSheet(0)
	return errors.Wrapf(f.SaveAs(path), "saving %s", path)
}
