package assignment

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"trainhub/pkg/platform/sentinel"
)

// PostgresStore persists test assignments in PostgreSQL. Execute locks the
// row with SELECT ... FOR UPDATE so the validate-then-mutate cycle is
// atomic across server instances.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const assignmentColumns = `id, employee_id, test_id, status, attempt_number, max_attempts,
	extra_attempts, score, attempt_date, deadline, time_limit_minutes, start_time, end_time`

func scanAssignment(row pgx.Row) (*TestAssignment, error) {
	var a TestAssignment
	err := row.Scan(&a.ID, &a.EmployeeID, &a.TestID, &a.Status, &a.AttemptNumber, &a.MaxAttempts,
		&a.ExtraAttempts, &a.Score, &a.AttemptDate, &a.Deadline, &a.TimeLimitMinutes,
		&a.StartTime, &a.EndTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("test assignment: %w", sentinel.ErrNotFound)
		}
		return nil, err
	}
	return &a, nil
}

func (s *PostgresStore) Create(ctx context.Context, a *TestAssignment) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO test_assignments (employee_id, test_id, status, attempt_number, max_attempts,
		   extra_attempts, score, attempt_date, deadline, time_limit_minutes, start_time, end_time)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING id`,
		a.EmployeeID, a.TestID, a.Status, a.AttemptNumber, a.MaxAttempts,
		a.ExtraAttempts, a.Score, a.AttemptDate, a.Deadline, a.TimeLimitMinutes,
		a.StartTime, a.EndTime).
		Scan(&a.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("employee %d already assigned test %d: %w",
				a.EmployeeID, a.TestID, sentinel.ErrAlreadyUsed)
		}
		return fmt.Errorf("create test assignment: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (*TestAssignment, error) {
	return scanAssignment(s.pool.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM test_assignments WHERE id = $1`, id))
}

func (s *PostgresStore) List(ctx context.Context) ([]TestAssignment, error) {
	return s.list(ctx, `SELECT `+assignmentColumns+` FROM test_assignments ORDER BY id`)
}

func (s *PostgresStore) ListByEmployee(ctx context.Context, employeeID int64) ([]TestAssignment, error) {
	return s.list(ctx,
		`SELECT `+assignmentColumns+` FROM test_assignments WHERE employee_id = $1 ORDER BY id`,
		employeeID)
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]TestAssignment, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list test assignments: %w", err)
	}
	defer rows.Close()

	var out []TestAssignment
	for rows.Next() {
		var a TestAssignment
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.TestID, &a.Status, &a.AttemptNumber,
			&a.MaxAttempts, &a.ExtraAttempts, &a.Score, &a.AttemptDate, &a.Deadline,
			&a.TimeLimitMinutes, &a.StartTime, &a.EndTime); err != nil {
			return nil, fmt.Errorf("scan test assignment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM test_assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete test assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("test assignment %d: %w", id, sentinel.ErrNotFound)
	}
	return nil
}

// Execute locks the assignment row FOR UPDATE, runs validate, and writes the
// mutated row back inside the same transaction. On validation failure the
// transaction is rolled back and the locked snapshot is returned with the
// error.
func (s *PostgresStore) Execute(ctx context.Context, id int64, validate func(a *TestAssignment) error, mutate func(a *TestAssignment)) (*TestAssignment, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	a, err := scanAssignment(tx.QueryRow(ctx,
		`SELECT `+assignmentColumns+` FROM test_assignments WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}

	if err := validate(a); err != nil {
		return a, err
	}

	mutate(a)

	_, err = tx.Exec(ctx,
		`UPDATE test_assignments
		 SET test_id = $2, status = $3, attempt_number = $4, max_attempts = $5,
		     extra_attempts = $6, score = $7, attempt_date = $8, deadline = $9,
		     time_limit_minutes = $10, start_time = $11, end_time = $12
		 WHERE id = $1`,
		a.ID, a.TestID, a.Status, a.AttemptNumber, a.MaxAttempts, a.ExtraAttempts,
		a.Score, a.AttemptDate, a.Deadline, a.TimeLimitMinutes, a.StartTime, a.EndTime)
	if err != nil {
		return nil, fmt.Errorf("update test assignment: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit test assignment: %w", err)
	}
	return a, nil
}
