package assignment

import "context"

// Store persists test assignments.
//
// Error contract: implementations return sentinel.ErrNotFound for unknown
// ids and sentinel.ErrAlreadyUsed when the (employee, test) pair already
// exists. Infrastructure failures are returned wrapped with context.
type Store interface {
	Create(ctx context.Context, a *TestAssignment) error
	Get(ctx context.Context, id int64) (*TestAssignment, error)
	List(ctx context.Context) ([]TestAssignment, error)
	ListByEmployee(ctx context.Context, employeeID int64) ([]TestAssignment, error)
	Delete(ctx context.Context, id int64) error

	// Execute runs a validate-then-mutate cycle on one assignment while
	// holding the per-assignment lock (mutex in memory, SELECT ... FOR
	// UPDATE in PostgreSQL), so no concurrent transition can interleave
	// between the check and the write. When validate fails the assignment
	// is left untouched and the returned snapshot reflects the stored
	// state.
	Execute(ctx context.Context, id int64, validate func(a *TestAssignment) error, mutate func(a *TestAssignment)) (*TestAssignment, error)
}
