package inmemdb

import (
	"sync"

	"github.com/trezcool/edumanage/core"
	"github.com/trezcool/edumanage/core/academy"
	"github.com/trezcool/edumanage/core/stats"
	"github.com/trezcool/edumanage/core/user"
)

type (
	DB struct {
		ids *core.IDGenerator

		user       *table[user.User]
		batch      *table[academy.Batch]
		task       *table[academy.Task]
		attendance *table[academy.AttendanceRecord]
		payment    *table[academy.Payment]
		placement  *table[academy.Placement]
		submission *table[academy.Submission]
	}

	// table is a locked collection; rows keep their insertion order.
	table[T any] struct {
		sync.RWMutex
		rows []T
	}
)

var _ stats.Source = (*DB)(nil)

// Open returns a DB loaded with the seed data. Every call starts from a fresh copy.
func Open() (*DB, error) {
	db := &DB{
		ids:        core.NewIDGenerator(),
		user:       &table[user.User]{rows: seedUsers()},
		batch:      &table[academy.Batch]{rows: seedBatches()},
		task:       &table[academy.Task]{rows: seedTasks()},
		attendance: &table[academy.AttendanceRecord]{rows: seedAttendance()},
		payment:    &table[academy.Payment]{rows: seedPayments()},
		placement:  &table[academy.Placement]{rows: seedPlacements()},
		submission: &table[academy.Submission]{rows: seedSubmissions()},
	}
	return db, nil
}

// Snapshot copies every collection for the stats functions.
func (db *DB) Snapshot() stats.Snapshot {
	return stats.Snapshot{
		Users:       db.user.all(),
		Batches:     copyBatches(db.batch.all()),
		Tasks:       db.task.all(),
		Attendance:  db.attendance.all(),
		Payments:    db.payment.all(),
		Placements:  db.placement.all(),
		Submissions: copySubmissions(db.submission.all()),
	}
}

func (t *table[T]) all() []T {
	t.RLock()
	defer t.RUnlock()
	rows := make([]T, len(t.rows))
	copy(rows, t.rows)
	return rows
}

func (t *table[T]) append(rows ...T) {
	t.Lock()
	defer t.Unlock()
	t.rows = append(t.rows, rows...)
}

// appendUnless appends row when no stored row matches pred.
func (t *table[T]) appendUnless(pred func(T) bool, row T) bool {
	t.Lock()
	defer t.Unlock()
	for _, r := range t.rows {
		if pred(r) {
			return false
		}
	}
	t.rows = append(t.rows, row)
	return true
}

// find returns the first row matching pred.
func (t *table[T]) find(pred func(T) bool) (T, bool) {
	t.RLock()
	defer t.RUnlock()
	for _, r := range t.rows {
		if pred(r) {
			return r, true
		}
	}
	var zero T
	return zero, false
}

// update applies fn to the first row matching pred.
func (t *table[T]) update(pred func(T) bool, fn func(*T)) (T, bool) {
	t.Lock()
	defer t.Unlock()
	for i := range t.rows {
		if pred(t.rows[i]) {
			fn(&t.rows[i])
			return t.rows[i], true
		}
	}
	var zero T
	return zero, false
}

// remove deletes the first row matching pred.
func (t *table[T]) remove(pred func(T) bool) bool {
	t.Lock()
	defer t.Unlock()
	for i, r := range t.rows {
		if pred(r) {
			t.rows = append(t.rows[:i:i], t.rows[i+1:]...)
			return true
		}
	}
	return false
}

func copyBatches(batches []academy.Batch) []academy.Batch {
	for i := range batches {
		batches[i] = copyBatch(batches[i])
	}
	return batches
}

func copyBatch(b academy.Batch) academy.Batch {
	ids := make([]user.ID, len(b.StudentIDs))
	copy(ids, b.StudentIDs)
	b.StudentIDs = ids
	return b
}

func copySubmissions(subs []academy.Submission) []academy.Submission {
	for i := range subs {
		subs[i] = copySubmission(subs[i])
	}
	return subs
}

func copySubmission(s academy.Submission) academy.Submission {
	if s.Grade != nil {
		g := *s.Grade
		s.Grade = &g
	}
	return s
}
