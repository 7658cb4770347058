package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/session"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// SESSION REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// SessionRepository implements session.Repository for PostgreSQL.
type SessionRepository struct {
	conn *Connection
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(conn *Connection) *SessionRepository {
	return &SessionRepository{conn: conn}
}

// ListByDate returns every session on the given date with its roster,
// ordered by time slot then session ID.
func (r *SessionRepository) ListByDate(ctx context.Context, date time.Time) ([]*session.Session, error) {
	date = shared.NormalizeDate(date)

	query := `
		SELECT ls.id, ls.session_date, ls.time_slot, ls.instructor_id, ls.subject_id,
			   COALESCE(array_agg(ss.student_id ORDER BY ss.student_id)
					FILTER (WHERE ss.student_id IS NOT NULL), '{}')
		FROM lesson_sessions ls
		LEFT JOIN session_students ss ON ss.session_id = ls.id
		WHERE ls.session_date = $1
		GROUP BY ls.id
		ORDER BY ls.time_slot, ls.id
	`

	rows, err := r.conn.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*session.Session
	for rows.Next() {
		var (
			s    session.Session
			slot int
		)
		err := rows.Scan(&s.ID, &s.Date, &slot, &s.InstructorID, &s.SubjectID, &s.StudentIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session row: %w", err)
		}
		s.Slot = shared.TimeSlot(slot)
		s.Date = shared.NormalizeDate(s.Date)
		sessions = append(sessions, &s)
	}

	return sessions, rows.Err()
}

// InstructorBusyAt reports whether the instructor already has a session at
// the given date and slot.
func (r *SessionRepository) InstructorBusyAt(ctx context.Context, date time.Time, slot shared.TimeSlot, instructorID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM lesson_sessions
			WHERE session_date = $1 AND time_slot = $2 AND instructor_id = $3
		)
	`

	var busy bool
	err := r.conn.QueryRow(ctx, query, shared.NormalizeDate(date), slot.Int(), instructorID).Scan(&busy)
	if err != nil {
		return false, fmt.Errorf("failed to check instructor availability: %w", err)
	}

	return busy, nil
}

// StudentBusyAt reports whether the student is already enrolled in a session
// at the given date and slot.
func (r *SessionRepository) StudentBusyAt(ctx context.Context, date time.Time, slot shared.TimeSlot, studentID int64) (bool, error) {
	return studentBusyAt(ctx, r.conn, date, slot, studentID)
}

func studentBusyAt(ctx context.Context, q Querier, date time.Time, slot shared.TimeSlot, studentID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM session_students
			WHERE session_date = $1 AND time_slot = $2 AND student_id = $3
		)
	`

	var busy bool
	err := q.QueryRow(ctx, query, shared.NormalizeDate(date), slot.Int(), studentID).Scan(&busy)
	if err != nil {
		return false, fmt.Errorf("failed to check student availability: %w", err)
	}

	return busy, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// UNIT OF WORK
// Scheduling writes observe and mutate the same transaction, so the mid-commit
// student availability check sees rows inserted earlier in the same unit.
// ══════════════════════════════════════════════════════════════════════════════

// TxManager implements session.UnitOfWork on top of a pgx transaction.
type TxManager struct {
	conn *Connection
}

// NewTxManager creates a new TxManager.
func NewTxManager(conn *Connection) *TxManager {
	return &TxManager{conn: conn}
}

// WithinTx runs fn inside a single transaction. Any error from fn rolls the
// whole unit back, including sessions already inserted by fn.
func (m *TxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, tx session.TxStore) error) error {
	return m.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		return fn(ctx, &txStore{tx: tx})
	})
}

// txStore implements session.TxStore against one open transaction.
type txStore struct {
	tx pgx.Tx
}

// InsertSession inserts the session row and assigns its ID.
func (s *txStore) InsertSession(ctx context.Context, sess *session.Session) error {
	query := `
		INSERT INTO lesson_sessions (session_date, time_slot, instructor_id, subject_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := s.tx.QueryRow(ctx, query,
		shared.NormalizeDate(sess.Date),
		sess.Slot.Int(),
		sess.InstructorID,
		sess.SubjectID,
	).Scan(&sess.ID)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("instructor %d at slot %d: %w", sess.InstructorID, sess.Slot.Int(), shared.ErrSlotTaken)
		}
		return fmt.Errorf("failed to insert session: %w", err)
	}

	return nil
}

// InsertEnrollment inserts one roster row. The date and slot are denormalized
// so the unique constraint can reject a double-booked student.
func (s *txStore) InsertEnrollment(ctx context.Context, sess *session.Session, studentID int64) error {
	query := `
		INSERT INTO session_students (session_id, student_id, session_date, time_slot)
		VALUES ($1, $2, $3, $4)
	`

	_, err := s.tx.Exec(ctx, query,
		sess.ID,
		studentID,
		shared.NormalizeDate(sess.Date),
		sess.Slot.Int(),
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("student %d at slot %d: %w", studentID, sess.Slot.Int(), shared.ErrSlotTaken)
		}
		return fmt.Errorf("failed to insert enrollment: %w", err)
	}

	return nil
}

// StudentBusyAt checks availability within the open transaction.
func (s *txStore) StudentBusyAt(ctx context.Context, date time.Time, slot shared.TimeSlot, studentID int64) (bool, error) {
	return studentBusyAt(ctx, s.tx, date, slot, studentID)
}
