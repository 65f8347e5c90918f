package inmemdb

import (
	"time"

	"github.com/trezcool/edumanage/core"
	"github.com/trezcool/edumanage/core/academy"
	"github.com/trezcool/edumanage/core/user"
)

func seedUsers() []user.User {
	avatar := func(n string) string { return "https://picsum.photos/100/100?random=" + n }
	return []user.User{
		{ID: "u1", Name: "Sarah Admin", Email: "admin@edumanage.com", Role: user.RoleAdmin, Avatar: avatar("1")},
		{ID: "u2", Name: "John Trainer", Email: "john@edumanage.com", Role: user.RoleTrainer, Avatar: avatar("2")},
		{ID: "u3", Name: "Emily Educator", Email: "emily@edumanage.com", Role: user.RoleTrainer, Avatar: avatar("3")},
		{ID: "u4", Name: "Mike Student", Email: "mike@edumanage.com", Role: user.RoleStudent, Avatar: avatar("4")},
		{ID: "u5", Name: "Lisa Learner", Email: "lisa@edumanage.com", Role: user.RoleStudent, Avatar: avatar("5")},
		{ID: "u6", Name: "Tom Techie", Email: "tom@edumanage.com", Role: user.RoleStudent, Avatar: avatar("6")},
	}
}

func seedBatches() []academy.Batch {
	return []academy.Batch{
		{ID: "b1", Name: "Spring Boot 101", TrainerID: "u2", StudentIDs: []user.ID{"u4", "u5"}, Schedule: "Mon-Wed-Fri 10:00 AM", Course: "Java Backend"},
		{ID: "b2", Name: "React Mastery", TrainerID: "u3", StudentIDs: []user.ID{"u5", "u6"}, Schedule: "Tue-Thu 2:00 PM", Course: "Frontend Dev"},
	}
}

func seedTasks() []academy.Task {
	return []academy.Task{
		{
			ID:          "t1",
			BatchID:     "b1",
			Title:       "Build a REST API",
			Description: "Create a CRUD API using Spring Data JPA.",
			DueDate:     core.NewDate(2023, time.November, 15),
			AssignedBy:  "u2",
		},
		{
			ID:          "t2",
			BatchID:     "b2",
			Title:       "Component Composition",
			Description: "Build a dashboard layout using composed components.",
			DueDate:     core.NewDate(2023, time.November, 20),
			AssignedBy:  "u3",
		},
	}
}

func seedAttendance() []academy.AttendanceRecord {
	nov1, nov3 := core.NewDate(2023, time.November, 1), core.NewDate(2023, time.November, 3)
	return []academy.AttendanceRecord{
		{ID: "a1", BatchID: "b1", StudentID: "u4", Date: nov1, Status: academy.Present},
		{ID: "a2", BatchID: "b1", StudentID: "u5", Date: nov1, Status: academy.Present},
		{ID: "a3", BatchID: "b1", StudentID: "u4", Date: nov3, Status: academy.Absent},
		{ID: "a4", BatchID: "b1", StudentID: "u5", Date: nov3, Status: academy.Present},
	}
}

func seedSubmissions() []academy.Submission {
	grade := func(g int) *int { return &g }
	return []academy.Submission{
		{
			ID:          "s1",
			TaskID:      "t1",
			StudentID:   "u4",
			SubmittedAt: time.Date(2023, time.November, 14, 10, 0, 0, 0, time.UTC),
			Grade:       grade(85),
			Feedback:    "Good structure, but missed one endpoint.",
		},
		{
			ID:          "s2",
			TaskID:      "t2",
			StudentID:   "u5",
			SubmittedAt: time.Date(2023, time.November, 18, 16, 30, 0, 0, time.UTC),
		},
		{
			ID:          "s3",
			TaskID:      "t2",
			StudentID:   "u6",
			SubmittedAt: time.Date(2023, time.November, 19, 9, 15, 0, 0, time.UTC),
			Grade:       grade(90),
			Feedback:    "Excellent work!",
		},
	}
}

func seedPayments() []academy.Payment {
	return []academy.Payment{
		{ID: "p1", StudentID: "u4", Amount: 5000, Date: core.NewDate(2023, time.October, 1), Status: academy.Paid, Type: academy.Tuition},
		{ID: "p2", StudentID: "u5", Amount: 5000, Date: core.NewDate(2023, time.October, 5), Status: academy.Pending, Type: academy.Tuition},
		{ID: "p3", StudentID: "u6", Amount: 2500, Date: core.NewDate(2023, time.October, 10), Status: academy.Overdue, Type: academy.Exam},
	}
}

func seedPlacements() []academy.Placement {
	return []academy.Placement{
		{
			ID:        "pl1",
			StudentID: "u4",
			Company:   "TechSolutions Inc",
			Role:      "Java Developer",
			Package:   "8 LPA",
			Status:    academy.OfferReceived,
			Date:      core.NewDate(2023, time.November, 10),
		},
		{
			ID:        "pl2",
			StudentID: "u6",
			Company:   "WebWizards",
			Role:      "Frontend Engineer",
			Package:   "12 LPA",
			Status:    academy.Interviewing,
			Date:      core.NewDate(2023, time.November, 12),
		},
	}
}
