package postgres

import (
	"context"
	"fmt"

	"github.com/tutorhub/tutor-scheduling-hub/internal/domain/subject"
)

// ══════════════════════════════════════════════════════════════════════════════
// SUBJECT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// SubjectRepository implements subject.Repository for PostgreSQL.
type SubjectRepository struct {
	conn *Connection
}

// NewSubjectRepository creates a new SubjectRepository.
func NewSubjectRepository(conn *Connection) *SubjectRepository {
	return &SubjectRepository{conn: conn}
}

// GetAll returns every subject ordered by ID.
func (r *SubjectRepository) GetAll(ctx context.Context) ([]*subject.Subject, error) {
	query := `SELECT id, name FROM subjects ORDER BY id`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query subjects: %w", err)
	}
	defer rows.Close()

	var subjects []*subject.Subject
	for rows.Next() {
		var s subject.Subject
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("failed to scan subject row: %w", err)
		}
		subjects = append(subjects, &s)
	}

	return subjects, rows.Err()
}

// GetByID returns a subject by ID.
func (r *SubjectRepository) GetByID(ctx context.Context, id int64) (*subject.Subject, error) {
	query := `SELECT id, name FROM subjects WHERE id = $1`

	var s subject.Subject
	if err := r.conn.QueryRow(ctx, query, id).Scan(&s.ID, &s.Name); err != nil {
		if IsNoRows(err) {
			return nil, subject.ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to get subject: %w", err)
	}

	return &s, nil
}

// Create inserts a new subject and assigns its ID.
func (r *SubjectRepository) Create(ctx context.Context, s *subject.Subject) error {
	query := `INSERT INTO subjects (name) VALUES ($1) RETURNING id`

	if err := r.conn.QueryRow(ctx, query, s.Name).Scan(&s.ID); err != nil {
		if IsUniqueViolation(err) {
			return subject.ErrSubjectAlreadyExists
		}
		return fmt.Errorf("failed to create subject: %w", err)
	}

	return nil
}
