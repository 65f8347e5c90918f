package inmemdb

import (
	"github.com/trezcool/edumanage/core/academy"
)

const (
	batchIDPrefix      = "b"
	taskIDPrefix       = "t"
	attendanceIDPrefix = "a"
	paymentIDPrefix    = "p"
	placementIDPrefix  = "pl"
	submissionIDPrefix = "s"
)

type academyRepository struct {
	db *DB
}

var _ academy.Repository = (*academyRepository)(nil)

func NewAcademyRepository(db *DB) academy.Repository {
	return &academyRepository{db: db}
}

func (repo *academyRepository) CreateBatch(b academy.Batch) (academy.Batch, error) {
	b = copyBatch(b)
	b.ID = academy.BatchID(repo.db.ids.Next(batchIDPrefix))
	repo.db.batch.append(b)
	return copyBatch(b), nil
}

func (repo *academyRepository) QueryBatches() ([]academy.Batch, error) {
	return copyBatches(repo.db.batch.all()), nil
}

func (repo *academyRepository) GetBatchByID(id academy.BatchID) (academy.Batch, error) {
	if b, ok := repo.db.batch.find(func(b academy.Batch) bool { return b.ID == id }); ok {
		return copyBatch(b), nil
	}
	return academy.Batch{}, academy.ErrBatchNotFound
}

func (repo *academyRepository) CreateTask(t academy.Task) (academy.Task, error) {
	t.ID = academy.TaskID(repo.db.ids.Next(taskIDPrefix))
	repo.db.task.append(t)
	return t, nil
}

func (repo *academyRepository) QueryTasks() ([]academy.Task, error) {
	return repo.db.task.all(), nil
}

func (repo *academyRepository) GetTaskByID(id academy.TaskID) (academy.Task, error) {
	if t, ok := repo.db.task.find(func(t academy.Task) bool { return t.ID == id }); ok {
		return t, nil
	}
	return academy.Task{}, academy.ErrTaskNotFound
}

func (repo *academyRepository) CreateAttendance(records ...academy.AttendanceRecord) ([]academy.AttendanceRecord, error) {
	created := make([]academy.AttendanceRecord, 0, len(records))
	for _, r := range records {
		r.ID = academy.AttendanceID(repo.db.ids.Next(attendanceIDPrefix))
		created = append(created, r)
	}
	repo.db.attendance.append(created...)

	out := make([]academy.AttendanceRecord, len(created))
	copy(out, created)
	return out, nil
}

func (repo *academyRepository) QueryAttendance() ([]academy.AttendanceRecord, error) {
	return repo.db.attendance.all(), nil
}

func (repo *academyRepository) CreatePayment(p academy.Payment) (academy.Payment, error) {
	p.ID = academy.PaymentID(repo.db.ids.Next(paymentIDPrefix))
	repo.db.payment.append(p)
	return p, nil
}

func (repo *academyRepository) QueryPayments() ([]academy.Payment, error) {
	return repo.db.payment.all(), nil
}

func (repo *academyRepository) CreatePlacement(p academy.Placement) (academy.Placement, error) {
	p.ID = academy.PlacementID(repo.db.ids.Next(placementIDPrefix))
	repo.db.placement.append(p)
	return p, nil
}

func (repo *academyRepository) QueryPlacements() ([]academy.Placement, error) {
	return repo.db.placement.all(), nil
}

func (repo *academyRepository) CreateSubmission(s academy.Submission) (academy.Submission, error) {
	s = copySubmission(s)
	s.ID = academy.SubmissionID(repo.db.ids.Next(submissionIDPrefix))
	dup := func(stored academy.Submission) bool {
		return stored.TaskID == s.TaskID && stored.StudentID == s.StudentID
	}
	if !repo.db.submission.appendUnless(dup, s) {
		return academy.Submission{}, academy.ErrAlreadySubmitted
	}
	return copySubmission(s), nil
}

func (repo *academyRepository) QuerySubmissions() ([]academy.Submission, error) {
	return copySubmissions(repo.db.submission.all()), nil
}

func (repo *academyRepository) GetSubmissionByID(id academy.SubmissionID) (academy.Submission, error) {
	if s, ok := repo.db.submission.find(func(s academy.Submission) bool { return s.ID == id }); ok {
		return copySubmission(s), nil
	}
	return academy.Submission{}, academy.ErrSubmissionNotFound
}

func (repo *academyRepository) UpdateSubmission(id academy.SubmissionID, grade *int, feedback string) (academy.Submission, error) {
	s, ok := repo.db.submission.update(
		func(s academy.Submission) bool { return s.ID == id },
		func(s *academy.Submission) {
			s.Grade = nil
			if grade != nil {
				g := *grade
				s.Grade = &g
			}
			s.Feedback = feedback
		},
	)
	if !ok {
		return academy.Submission{}, academy.ErrSubmissionNotFound
	}
	return copySubmission(s), nil
}
