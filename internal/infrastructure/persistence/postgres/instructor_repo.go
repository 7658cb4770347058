package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/instructor"
	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// INSTRUCTOR REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// InstructorRepository implements instructor.Repository for PostgreSQL.
type InstructorRepository struct {
	conn *Connection
}

// NewInstructorRepository creates a new InstructorRepository.
func NewInstructorRepository(conn *Connection) *InstructorRepository {
	return &InstructorRepository{conn: conn}
}

// GetAll returns every instructor with subject tags, ordered by ID. The
// ordering matters: the auto-assignment engine walks instructors in
// registration order.
func (r *InstructorRepository) GetAll(ctx context.Context) ([]*instructor.Instructor, error) {
	query := `
		SELECT i.id, i.name, i.education, i.phone, i.notes, i.preferred_slots,
			   COALESCE(array_agg(isub.subject_id ORDER BY isub.position, isub.subject_id)
					FILTER (WHERE isub.subject_id IS NOT NULL), '{}')
		FROM instructors i
		LEFT JOIN instructor_subjects isub ON isub.instructor_id = i.id
		GROUP BY i.id
		ORDER BY i.id
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query instructors: %w", err)
	}
	defer rows.Close()

	var instructors []*instructor.Instructor
	for rows.Next() {
		inst, err := scanInstructor(rows)
		if err != nil {
			return nil, err
		}
		instructors = append(instructors, inst)
	}

	return instructors, rows.Err()
}

// GetByID returns an instructor with subject tags.
func (r *InstructorRepository) GetByID(ctx context.Context, id int64) (*instructor.Instructor, error) {
	query := `
		SELECT i.id, i.name, i.education, i.phone, i.notes, i.preferred_slots,
			   COALESCE(array_agg(isub.subject_id ORDER BY isub.position, isub.subject_id)
					FILTER (WHERE isub.subject_id IS NOT NULL), '{}')
		FROM instructors i
		LEFT JOIN instructor_subjects isub ON isub.instructor_id = i.id
		WHERE i.id = $1
		GROUP BY i.id
	`

	row := r.conn.QueryRow(ctx, query, id)
	inst, err := scanInstructor(row)
	if err != nil {
		if IsNoRows(err) {
			return nil, instructor.ErrInstructorNotFound
		}
		return nil, err
	}

	return inst, nil
}

// Create inserts an instructor together with its subject associations.
func (r *InstructorRepository) Create(ctx context.Context, inst *instructor.Instructor) error {
	return r.conn.WithTx(ctx, DefaultTxOptions(), func(tx pgx.Tx) error {
		insertQuery := `
			INSERT INTO instructors (name, education, phone, notes, preferred_slots)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`
		err := tx.QueryRow(ctx, insertQuery,
			inst.Name,
			inst.Education,
			inst.Phone,
			inst.Notes,
			inst.PreferredSlots.String(),
		).Scan(&inst.ID)
		if err != nil {
			return fmt.Errorf("failed to create instructor: %w", err)
		}

		for pos, subjectID := range inst.SubjectIDs {
			_, err := tx.Exec(ctx,
				`INSERT INTO instructor_subjects (instructor_id, subject_id, position) VALUES ($1, $2, $3)`,
				inst.ID, subjectID, pos,
			)
			if err != nil {
				if IsForeignKeyViolation(err) {
					return fmt.Errorf("subject %d: %w", subjectID, shared.ErrNotFound)
				}
				return fmt.Errorf("failed to tag subject %d: %w", subjectID, err)
			}
		}

		return nil
	})
}

func scanInstructor(row pgx.Row) (*instructor.Instructor, error) {
	var (
		inst     instructor.Instructor
		slotsCSV string
	)
	err := row.Scan(
		&inst.ID,
		&inst.Name,
		&inst.Education,
		&inst.Phone,
		&inst.Notes,
		&slotsCSV,
		&inst.SubjectIDs,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan instructor row: %w", err)
	}

	inst.PreferredSlots = shared.ParseSlotSet(slotsCSV)
	return &inst, nil
}
