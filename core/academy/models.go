package academy

import (
	"time"

	"github.com/trezcool/edumanage/core"
	"github.com/trezcool/edumanage/core/user"
)

type (
	BatchID      string
	TaskID       string
	AttendanceID string
	PaymentID    string
	PlacementID  string
	SubmissionID string
)

// Attendance statuses
const (
	Present AttendanceStatus = "PRESENT"
	Absent  AttendanceStatus = "ABSENT"
	Late    AttendanceStatus = "LATE"
)

// Payment statuses
const (
	Paid    PaymentStatus = "PAID"
	Pending PaymentStatus = "PENDING"
	Overdue PaymentStatus = "OVERDUE"
)

// Payment types
const (
	Tuition PaymentType = "TUITION"
	Exam    PaymentType = "EXAM"
	Other   PaymentType = "OTHER"
)

// Placement statuses
const (
	Interviewing  PlacementStatus = "INTERVIEWING"
	OfferReceived PlacementStatus = "OFFER_RECEIVED"
	Placed        PlacementStatus = "PLACED"
)

type (
	AttendanceStatus string
	PaymentStatus    string
	PaymentType      string
	PlacementStatus  string
)

type (
	Batch struct {
		ID         BatchID   `json:"id"`
		Name       string    `json:"name"`
		TrainerID  user.ID   `json:"trainerId"`
		StudentIDs []user.ID `json:"studentIds"`
		Schedule   string    `json:"schedule"`
		Course     string    `json:"course"`
	}

	Task struct {
		ID          TaskID    `json:"id"`
		BatchID     BatchID   `json:"batchId"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		DueDate     core.Date `json:"dueDate"`
		AssignedBy  user.ID   `json:"assignedBy"`
	}

	AttendanceRecord struct {
		ID        AttendanceID     `json:"id"`
		BatchID   BatchID          `json:"batchId"`
		StudentID user.ID          `json:"studentId"`
		Date      core.Date        `json:"date"`
		Status    AttendanceStatus `json:"status"`
	}

	Payment struct {
		ID        PaymentID     `json:"id"`
		StudentID user.ID       `json:"studentId"`
		Amount    float64       `json:"amount"`
		Date      core.Date     `json:"date"`
		Status    PaymentStatus `json:"status"`
		Type      PaymentType   `json:"type"`
	}

	Placement struct {
		ID        PlacementID     `json:"id"`
		StudentID user.ID         `json:"studentId"`
		Company   string          `json:"company"`
		Role      string          `json:"role"`
		Package   string          `json:"package"`
		Status    PlacementStatus `json:"status"`
		Date      core.Date       `json:"date"`
	}

	Submission struct {
		ID          SubmissionID `json:"id"`
		TaskID      TaskID       `json:"taskId"`
		StudentID   user.ID      `json:"studentId"`
		SubmittedAt time.Time    `json:"submittedAt"`
		Grade       *int         `json:"grade"`
		Feedback    string       `json:"feedback,omitempty"`
	}
)

func (b Batch) HasStudent(id user.ID) bool {
	for _, sid := range b.StudentIDs {
		if sid == id {
			return true
		}
	}
	return false
}

func (s Submission) IsGraded() bool { return s.Grade != nil }

// Inputs

type (
	NewBatch struct {
		Name       string    `json:"name" validate:"notblank"`
		TrainerID  user.ID   `json:"trainerId" validate:"required"`
		StudentIDs []user.ID `json:"studentIds" validate:"unique"`
		Schedule   string    `json:"schedule" validate:"notblank"`
		Course     string    `json:"course"` // defaults to Name
	}

	NewTask struct {
		BatchID     BatchID   `json:"batchId" validate:"required"`
		Title       string    `json:"title" validate:"notblank"`
		Description string    `json:"description"`
		DueDate     core.Date `json:"dueDate" validate:"required"`
	}

	AttendanceEntry struct {
		StudentID user.ID          `json:"studentId" validate:"required"`
		Status    AttendanceStatus `json:"status" validate:"oneof=PRESENT ABSENT LATE"`
	}

	// NewAttendance marks attendance for several students of a batch on one date (today if unset).
	NewAttendance struct {
		BatchID BatchID           `json:"batchId" validate:"required"`
		Date    core.Date         `json:"date"`
		Entries []AttendanceEntry `json:"entries" validate:"required,min=1,dive"`
	}

	// NewPayment is keyed by student name, as typed on the admin form.
	NewPayment struct {
		StudentName string        `json:"studentName" validate:"notblank"`
		Amount      float64       `json:"amount" validate:"gt=0"`
		Type        PaymentType   `json:"type" validate:"omitempty,oneof=TUITION EXAM OTHER"`
		Status      PaymentStatus `json:"status" validate:"omitempty,oneof=PAID PENDING OVERDUE"`
	}

	NewPlacement struct {
		StudentName string          `json:"studentName" validate:"notblank"`
		Company     string          `json:"company" validate:"notblank"`
		Role        string          `json:"role" validate:"notblank"`
		Package     string          `json:"package" validate:"notblank"`
		Status      PlacementStatus `json:"status" validate:"oneof=INTERVIEWING OFFER_RECEIVED PLACED"`
	}

	GradeSubmission struct {
		Grade    int    `json:"grade" validate:"min=0,max=100"`
		Feedback string `json:"feedback"`
	}
)

func (nb *NewBatch) clean() {
	nb.Name = core.CleanString(nb.Name)
	nb.Schedule = core.CleanString(nb.Schedule)
	nb.Course = core.CleanString(nb.Course)
	if nb.Course == "" {
		nb.Course = nb.Name
	}
}

func (nt *NewTask) clean() {
	nt.Title = core.CleanString(nt.Title)
	nt.Description = core.CleanString(nt.Description)
}

func (np *NewPayment) clean() {
	np.StudentName = core.CleanString(np.StudentName)
	if np.Type == "" {
		np.Type = Tuition
	}
	if np.Status == "" {
		np.Status = Pending
	}
}

func (np *NewPlacement) clean() {
	np.StudentName = core.CleanString(np.StudentName)
	np.Company = core.CleanString(np.Company)
	np.Role = core.CleanString(np.Role)
	np.Package = core.CleanString(np.Package)
}

func (gs *GradeSubmission) clean() {
	gs.Feedback = core.CleanString(gs.Feedback)
}
