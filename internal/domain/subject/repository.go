package subject

import "context"

// Repository defines storage operations for subjects.
// Subjects are read-only inputs for the scheduling core; writes happen
// only through the registration command.
type Repository interface {
	// GetAll returns all subjects ordered by ID.
	GetAll(ctx context.Context) ([]*Subject, error)

	// GetByID returns a subject by ID.
	// Returns ErrSubjectNotFound if the subject does not exist.
	GetByID(ctx context.Context, id int64) (*Subject, error)

	// Create inserts a new subject and sets its generated ID.
	// Returns ErrSubjectAlreadyExists on a duplicate name.
	Create(ctx context.Context, s *Subject) error
}
