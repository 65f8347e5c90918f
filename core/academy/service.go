package academy

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/edumanage/core"
	"github.com/trezcool/edumanage/core/user"
)

var (
	// errors
	ErrNotFound           = errors.New("not found")
	ErrBatchNotFound      = errors.WithMessage(ErrNotFound, "batch")
	ErrTaskNotFound       = errors.WithMessage(ErrNotFound, "task")
	ErrSubmissionNotFound = errors.WithMessage(ErrNotFound, "submission")
	ErrNotBatchTrainer    = errors.New("you do not train this batch")
	ErrNotEnrolled        = errors.New("student is not enrolled in this batch")
	ErrAlreadySubmitted   = errors.New("task already submitted")
)

type (
	// Repository stores the academy collections. Create* methods assign fresh ids.
	Repository interface {
		CreateBatch(b Batch) (Batch, error)
		QueryBatches() ([]Batch, error)
		GetBatchByID(id BatchID) (Batch, error)

		CreateTask(t Task) (Task, error)
		QueryTasks() ([]Task, error)
		GetTaskByID(id TaskID) (Task, error)

		CreateAttendance(records ...AttendanceRecord) ([]AttendanceRecord, error)
		QueryAttendance() ([]AttendanceRecord, error)

		CreatePayment(p Payment) (Payment, error)
		QueryPayments() ([]Payment, error)

		CreatePlacement(p Placement) (Placement, error)
		QueryPlacements() ([]Placement, error)

		// CreateSubmission fails with ErrAlreadySubmitted when the student already submitted the task.
		CreateSubmission(s Submission) (Submission, error)
		QuerySubmissions() ([]Submission, error)
		GetSubmissionByID(id SubmissionID) (Submission, error)
		// UpdateSubmission replaces the grade and feedback, keeping every other field.
		UpdateSubmission(id SubmissionID, grade *int, feedback string) (Submission, error)
	}

	// StudentDirectory resolves students typed by name on the admin forms.
	StudentDirectory interface {
		FindStudentByName(name string) (user.User, error)
	}

	Service struct {
		repo     Repository
		users    StudentDirectory
		validate *validator.Validate
		now      func() time.Time
	}
)

func NewService(repo Repository, users StudentDirectory, validate *validator.Validate) *Service {
	return &Service{
		repo:     repo,
		users:    users,
		validate: validate,
		now:      time.Now,
	}
}

func (svc *Service) today() core.Date {
	y, m, d := svc.now().UTC().Date()
	return core.NewDate(y, m, d)
}

// canManage reports whether actor may act on a batch: admins always, trainers on their own batches.
func canManage(actor user.User, b Batch) bool {
	return actor.IsAdmin() || (actor.IsTrainer() && b.TrainerID == actor.ID)
}

// Batches

func (svc *Service) AddBatch(nb NewBatch) (Batch, error) {
	nb.clean()
	if err := svc.validate.Struct(nb); err != nil {
		return Batch{}, err
	}

	studentIDs := make([]user.ID, 0, len(nb.StudentIDs))
	studentIDs = append(studentIDs, nb.StudentIDs...)
	return svc.repo.CreateBatch(Batch{
		Name:       nb.Name,
		TrainerID:  nb.TrainerID,
		StudentIDs: studentIDs,
		Schedule:   nb.Schedule,
		Course:     nb.Course,
	})
}

func (svc *Service) Batches() ([]Batch, error) {
	return svc.repo.QueryBatches()
}

func (svc *Service) GetBatch(id BatchID) (Batch, error) {
	return svc.repo.GetBatchByID(id)
}

// Tasks

// AddTask assigns a task to a batch on behalf of actor.
func (svc *Service) AddTask(actor user.User, nt NewTask) (Task, error) {
	nt.clean()
	if err := svc.validate.Struct(nt); err != nil {
		return Task{}, err
	}

	b, err := svc.repo.GetBatchByID(nt.BatchID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Task{}, core.NewValidationError(err, core.FieldError{Field: "batchId", Error: "unknown batch"})
		}
		return Task{}, errors.Wrap(err, "getting batch")
	}
	if !canManage(actor, b) {
		return Task{}, ErrNotBatchTrainer
	}

	return svc.repo.CreateTask(Task{
		BatchID:     nt.BatchID,
		Title:       nt.Title,
		Description: nt.Description,
		DueDate:     nt.DueDate,
		AssignedBy:  actor.ID,
	})
}

func (svc *Service) Tasks() ([]Task, error) {
	return svc.repo.QueryTasks()
}

// Attendance

// RecordAttendance marks the given students of a batch on behalf of actor.
func (svc *Service) RecordAttendance(actor user.User, na NewAttendance) ([]AttendanceRecord, error) {
	if err := svc.validate.Struct(na); err != nil {
		return nil, err
	}

	b, err := svc.repo.GetBatchByID(na.BatchID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, core.NewValidationError(err, core.FieldError{Field: "batchId", Error: "unknown batch"})
		}
		return nil, errors.Wrap(err, "getting batch")
	}
	if !canManage(actor, b) {
		return nil, ErrNotBatchTrainer
	}

	date := na.Date
	if date.IsZero() {
		date = svc.today()
	}
	records := make([]AttendanceRecord, 0, len(na.Entries))
	for _, e := range na.Entries {
		records = append(records, AttendanceRecord{
			BatchID:   b.ID,
			StudentID: e.StudentID,
			Date:      date,
			Status:    e.Status,
		})
	}
	return svc.repo.CreateAttendance(records...)
}

func (svc *Service) Attendance() ([]AttendanceRecord, error) {
	return svc.repo.QueryAttendance()
}

// Payments & placements

// findStudent turns a name lookup miss into a field error listing the closest names.
func (svc *Service) findStudent(name string) (user.User, error) {
	usr, err := svc.users.FindStudentByName(name)
	if err == nil {
		return usr, nil
	}

	var nfErr *user.NameNotFoundError
	if errors.As(err, &nfErr) {
		return user.User{}, core.NewValidationError(err, core.FieldError{Field: "studentName", Error: nfErr.Error()})
	}
	return user.User{}, errors.Wrap(err, "finding student")
}

func (svc *Service) AddPayment(np NewPayment) (Payment, error) {
	np.clean()
	if err := svc.validate.Struct(np); err != nil {
		return Payment{}, err
	}
	student, err := svc.findStudent(np.StudentName)
	if err != nil {
		return Payment{}, err
	}
	return svc.repo.CreatePayment(Payment{
		StudentID: student.ID,
		Amount:    np.Amount,
		Date:      svc.today(),
		Status:    np.Status,
		Type:      np.Type,
	})
}

func (svc *Service) Payments() ([]Payment, error) {
	return svc.repo.QueryPayments()
}

func (svc *Service) AddPlacement(np NewPlacement) (Placement, error) {
	np.clean()
	if err := svc.validate.Struct(np); err != nil {
		return Placement{}, err
	}
	student, err := svc.findStudent(np.StudentName)
	if err != nil {
		return Placement{}, err
	}
	return svc.repo.CreatePlacement(Placement{
		StudentID: student.ID,
		Company:   np.Company,
		Role:      np.Role,
		Package:   np.Package,
		Status:    np.Status,
		Date:      svc.today(),
	})
}

func (svc *Service) Placements() ([]Placement, error) {
	return svc.repo.QueryPlacements()
}

// Submissions

func (svc *Service) Submissions() ([]Submission, error) {
	return svc.repo.QuerySubmissions()
}

func (svc *Service) GetSubmission(id SubmissionID) (Submission, error) {
	return svc.repo.GetSubmissionByID(id)
}

// SubmitTask records student's submission for a task of one of their batches.
func (svc *Service) SubmitTask(student user.User, taskID TaskID) (Submission, error) {
	t, err := svc.repo.GetTaskByID(taskID)
	if err != nil {
		return Submission{}, err
	}
	b, err := svc.repo.GetBatchByID(t.BatchID)
	if err != nil {
		return Submission{}, errors.Wrap(err, "getting task batch")
	}
	if !b.HasStudent(student.ID) {
		return Submission{}, ErrNotEnrolled
	}

	return svc.repo.CreateSubmission(Submission{
		TaskID:      taskID,
		StudentID:   student.ID,
		SubmittedAt: svc.now().UTC(),
	})
}

// Grade sets the grade and feedback of a submission to one of actor's tasks.
func (svc *Service) Grade(actor user.User, id SubmissionID, gs GradeSubmission) (Submission, error) {
	gs.clean()
	if err := svc.validate.Struct(gs); err != nil {
		return Submission{}, err
	}

	sub, err := svc.repo.GetSubmissionByID(id)
	if err != nil {
		return Submission{}, err
	}
	t, err := svc.repo.GetTaskByID(sub.TaskID)
	if err != nil {
		return Submission{}, errors.Wrap(err, "getting submission task")
	}
	b, err := svc.repo.GetBatchByID(t.BatchID)
	if err != nil {
		return Submission{}, errors.Wrap(err, "getting task batch")
	}
	if !canManage(actor, b) {
		return Submission{}, ErrNotBatchTrainer
	}

	grade := gs.Grade
	return svc.repo.UpdateSubmission(id, &grade, gs.Feedback)
}
