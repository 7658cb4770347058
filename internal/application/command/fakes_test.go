package command

import (
	"context"
	"errors"
	"time"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/instructor"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/session"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/student"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/subject"
)

// ══════════════════════════════════════════════════════════════════════════════
// IN-MEMORY FAKES
// The command handlers only see interfaces; these fakes back them with
// slices so tests can assert on exactly what was committed.
// ══════════════════════════════════════════════════════════════════════════════

type fakeInstructorRepo struct {
	items []*instructor.Instructor
}

func (r *fakeInstructorRepo) GetAll(ctx context.Context) ([]*instructor.Instructor, error) {
	return r.items, nil
}

func (r *fakeInstructorRepo) GetByID(ctx context.Context, id int64) (*instructor.Instructor, error) {
	for _, i := range r.items {
		if i.ID == id {
			return i, nil
		}
	}
	return nil, instructor.ErrInstructorNotFound
}

func (r *fakeInstructorRepo) Create(ctx context.Context, i *instructor.Instructor) error {
	i.ID = int64(len(r.items) + 1)
	r.items = append(r.items, i)
	return nil
}

type fakeStudentRepo struct {
	items []*student.Student
}

func (r *fakeStudentRepo) GetAll(ctx context.Context) ([]*student.Student, error) {
	return r.items, nil
}

func (r *fakeStudentRepo) GetByID(ctx context.Context, id int64) (*student.Student, error) {
	for _, s := range r.items {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, student.ErrStudentNotFound
}

func (r *fakeStudentRepo) Create(ctx context.Context, s *student.Student) error {
	s.ID = int64(len(r.items) + 1)
	r.items = append(r.items, s)
	return nil
}

type fakeSubjectRepo struct {
	items []*subject.Subject
}

func (r *fakeSubjectRepo) GetAll(ctx context.Context) ([]*subject.Subject, error) {
	return r.items, nil
}

func (r *fakeSubjectRepo) GetByID(ctx context.Context, id int64) (*subject.Subject, error) {
	for _, s := range r.items {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, subject.ErrSubjectNotFound
}

func (r *fakeSubjectRepo) Create(ctx context.Context, s *subject.Subject) error {
	for _, existing := range r.items {
		if existing.Name == s.Name {
			return subject.ErrSubjectAlreadyExists
		}
	}
	s.ID = int64(len(r.items) + 1)
	r.items = append(r.items, s)
	return nil
}

// fakeSessionStore is both the read repository and the unit of work over
// one shared in-memory session table.
type fakeSessionStore struct {
	committed []*session.Session
	nextID    int64

	// failEnrollmentAt makes the Nth InsertEnrollment across a unit fail,
	// for atomicity tests. Zero disables the fault.
	failEnrollmentAt int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{nextID: 1}
}

func (f *fakeSessionStore) ListByDate(ctx context.Context, date time.Time) ([]*session.Session, error) {
	date = shared.NormalizeDate(date)
	var out []*session.Session
	for _, s := range f.committed {
		if s.Date.Equal(date) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) InstructorBusyAt(ctx context.Context, date time.Time, slot shared.TimeSlot, instructorID int64) (bool, error) {
	date = shared.NormalizeDate(date)
	for _, s := range f.committed {
		if s.Date.Equal(date) && s.Slot == slot && s.InstructorID == instructorID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSessionStore) StudentBusyAt(ctx context.Context, date time.Time, slot shared.TimeSlot, studentID int64) (bool, error) {
	return studentBusyIn(f.committed, date, slot, studentID), nil
}

// WithinTx implements session.UnitOfWork. Writes collect in a pending
// list and land in committed only when fn returns nil.
func (f *fakeSessionStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx session.TxStore) error) error {
	tx := &fakeTx{store: f}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	f.committed = append(f.committed, tx.pending...)
	return nil
}

type fakeTx struct {
	store       *fakeSessionStore
	pending     []*session.Session
	enrollCount int
}

func (t *fakeTx) InsertSession(ctx context.Context, s *session.Session) error {
	s.ID = t.store.nextID
	t.store.nextID++
	t.pending = append(t.pending, s)
	return nil
}

func (t *fakeTx) InsertEnrollment(ctx context.Context, s *session.Session, studentID int64) error {
	t.enrollCount++
	if t.store.failEnrollmentAt > 0 && t.enrollCount == t.store.failEnrollmentAt {
		return errors.New("simulated storage failure")
	}
	return nil
}

func (t *fakeTx) StudentBusyAt(ctx context.Context, date time.Time, slot shared.TimeSlot, studentID int64) (bool, error) {
	if studentBusyIn(t.store.committed, date, slot, studentID) {
		return true, nil
	}
	// Same-unit writes are visible, as in a real transaction.
	return studentBusyIn(t.pending, date, slot, studentID), nil
}

func studentBusyIn(sessions []*session.Session, date time.Time, slot shared.TimeSlot, studentID int64) bool {
	date = shared.NormalizeDate(date)
	for _, s := range sessions {
		if s.Date.Equal(date) && s.Slot == slot && s.HasStudent(studentID) {
			return true
		}
	}
	return false
}

// fakePublisher records published events.
type fakePublisher struct {
	events []shared.Event
}

func (p *fakePublisher) Publish(event shared.Event) error {
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) byType(eventType shared.EventType) []shared.Event {
	var out []shared.Event
	for _, e := range p.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}
