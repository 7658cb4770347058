package instructor

import "context"

// Repository defines storage operations for instructors.
// GetAll returns instructors in stable load order (by ID) with subject
// associations populated; the auto-assignment engine depends on both.
type Repository interface {
	// GetAll returns all instructors with their subject IDs, ordered by ID.
	GetAll(ctx context.Context) ([]*Instructor, error)

	// GetByID returns an instructor with subject IDs populated.
	// Returns ErrInstructorNotFound if the instructor does not exist.
	GetByID(ctx context.Context, id int64) (*Instructor, error)

	// Create inserts a new instructor together with its subject
	// associations as one atomic unit, and sets the generated ID.
	Create(ctx context.Context, i *Instructor) error
}
