package student

import "context"

// Repository defines storage operations for students.
// GetAll returns students in stable load order (by ID) with subject
// associations and instructor preferences populated; the auto-assignment
// engine's candidate ranking depends on both.
type Repository interface {
	// GetAll returns all students with subject IDs and preferences, ordered by ID.
	GetAll(ctx context.Context) ([]*Student, error)

	// GetByID returns a student with subject IDs and preferences populated.
	// Returns ErrStudentNotFound if the student does not exist.
	GetByID(ctx context.Context, id int64) (*Student, error)

	// Create inserts a new student together with its subject associations
	// and instructor preferences as one atomic unit, and sets the generated ID.
	Create(ctx context.Context, s *Student) error
}
