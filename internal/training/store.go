package training

import "context"

// Store persists course assignments. Implementations return
// sentinel.ErrNotFound for unknown ids and sentinel.ErrAlreadyUsed when the
// (employee, course) pair already exists.
type Store interface {
	Create(ctx context.Context, a *CourseAssignment) error
	Get(ctx context.Context, id int64) (*CourseAssignment, error)
	List(ctx context.Context) ([]CourseAssignment, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]CourseAssignment, error)
	Update(ctx context.Context, a *CourseAssignment) error
	Delete(ctx context.Context, id int64) error

	// HasCompleted reports whether the employee has a completed assignment
	// for the course.
	HasCompleted(ctx context.Context, employeeID, courseID int64) (bool, error)
}
