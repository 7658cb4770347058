package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

// GetAll returns every student with subject tags and preference marks,
// ordered by ID so the auto-assignment engine sees a stable pool order.
func (r *StudentRepository) GetAll(ctx context.Context) ([]*student.Student, error) {
	query := `
		SELECT s.id, s.name, s.grade, s.preferred_slots,
			   COALESCE(array_agg(ss.subject_id ORDER BY ss.position, ss.subject_id)
					FILTER (WHERE ss.subject_id IS NOT NULL), '{}')
		FROM students s
		LEFT JOIN student_subjects ss ON ss.student_id = s.id
		GROUP BY s.id
		ORDER BY s.id
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}

	byID := make(map[int64]*student.Student)
	var students []*student.Student
	for rows.Next() {
		std, err := scanStudent(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		byID[std.ID] = std
		students = append(students, std)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Preference marks come in a second pass to avoid a fan-out join.
	prefRows, err := r.conn.Query(ctx,
		`SELECT student_id, instructor_id, preference FROM student_instructor_preferences`)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer prefRows.Close()

	for prefRows.Next() {
		var (
			studentID    int64
			instructorID int64
			pref         int
		)
		if err := prefRows.Scan(&studentID, &instructorID, &pref); err != nil {
			return nil, fmt.Errorf("failed to scan preference row: %w", err)
		}
		if std, ok := byID[studentID]; ok {
			if std.Preferences == nil {
				std.Preferences = make(map[int64]student.PreferenceType)
			}
			std.Preferences[instructorID] = student.PreferenceType(pref)
		}
	}

	return students, prefRows.Err()
}

// GetByID returns a student with subject tags and preference marks.
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*student.Student, error) {
	query := `
		SELECT s.id, s.name, s.grade, s.preferred_slots,
			   COALESCE(array_agg(ss.subject_id ORDER BY ss.position, ss.subject_id)
					FILTER (WHERE ss.subject_id IS NOT NULL), '{}')
		FROM students s
		LEFT JOIN student_subjects ss ON ss.student_id = s.id
		WHERE s.id = $1
		GROUP BY s.id
	`

	std, err := scanStudent(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, student.ErrStudentNotFound
		}
		return nil, err
	}

	prefRows, err := r.conn.Query(ctx,
		`SELECT instructor_id, preference FROM student_instructor_preferences WHERE student_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer prefRows.Close()

	for prefRows.Next() {
		var (
			instructorID int64
			pref         int
		)
		if err := prefRows.Scan(&instructorID, &pref); err != nil {
			return nil, fmt.Errorf("failed to scan preference row: %w", err)
		}
		if std.Preferences == nil {
			std.Preferences = make(map[int64]student.PreferenceType)
		}
		std.Preferences[instructorID] = student.PreferenceType(pref)
	}

	return std, prefRows.Err()
}

// Create inserts a student together with subject tags and preference marks.
func (r *StudentRepository) Create(ctx context.Context, std *student.Student) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		insertQuery := `
			INSERT INTO students (name, grade, preferred_slots)
			VALUES ($1, $2, $3)
			RETURNING id
		`
		err := tx.QueryRow(ctx, insertQuery,
			std.Name,
			int(std.Grade),
			std.PreferredSlots.String(),
		).Scan(&std.ID)
		if err != nil {
			return fmt.Errorf("failed to create student: %w", err)
		}

		for pos, subjectID := range std.SubjectIDs {
			_, err := tx.Exec(ctx,
				`INSERT INTO student_subjects (student_id, subject_id, position) VALUES ($1, $2, $3)`,
				std.ID, subjectID, pos,
			)
			if err != nil {
				if IsForeignKeyViolation(err) {
					return fmt.Errorf("subject %d: %w", subjectID, shared.ErrNotFound)
				}
				return fmt.Errorf("failed to tag subject %d: %w", subjectID, err)
			}
		}

		for instructorID, pref := range std.Preferences {
			_, err := tx.Exec(ctx,
				`INSERT INTO student_instructor_preferences (student_id, instructor_id, preference) VALUES ($1, $2, $3)`,
				std.ID, instructorID, int(pref),
			)
			if err != nil {
				if IsForeignKeyViolation(err) {
					return fmt.Errorf("instructor %d: %w", instructorID, shared.ErrNotFound)
				}
				return fmt.Errorf("failed to store preference for instructor %d: %w", instructorID, err)
			}
		}

		return nil
	})
}

func scanStudent(row pgx.Row) (*student.Student, error) {
	var (
		std      student.Student
		grade    int
		slotsCSV string
	)
	err := row.Scan(
		&std.ID,
		&std.Name,
		&grade,
		&slotsCSV,
		&std.SubjectIDs,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan student row: %w", err)
	}

	std.Grade = student.Grade(grade)
	std.PreferredSlots = shared.ParseSlotSet(slotsCSV)
	return &std, nil
}
