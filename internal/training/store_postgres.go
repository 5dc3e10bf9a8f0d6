package training

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"trainhub/pkg/platform/sentinel"
)

// PostgresStore persists course assignments in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const courseAssignmentColumns = `id, employee_id, course_id, status, training_date, material_path`

func scanCourseAssignment(row pgx.Row) (*CourseAssignment, error) {
	var a CourseAssignment
	err := row.Scan(&a.ID, &a.EmployeeID, &a.CourseID, &a.Status, &a.TrainingDate, &a.MaterialPath)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (s *PostgresStore) Create(ctx context.Context, a *CourseAssignment) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO course_assignments (employee_id, course_id, status, training_date, material_path)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		a.EmployeeID, a.CourseID, a.Status, a.TrainingDate, a.MaterialPath).
		Scan(&a.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("create course assignment: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id int64) (*CourseAssignment, error) {
	return scanCourseAssignment(s.pool.QueryRow(ctx,
		`SELECT `+courseAssignmentColumns+` FROM course_assignments WHERE id = $1`, id))
}

func (s *PostgresStore) List(ctx context.Context) ([]CourseAssignment, error) {
	return s.list(ctx, `SELECT `+courseAssignmentColumns+` FROM course_assignments ORDER BY id`)
}

func (s *PostgresStore) ListByEmployee(ctx context.Context, employeeID int64) ([]CourseAssignment, error) {
	return s.list(ctx,
		`SELECT `+courseAssignmentColumns+` FROM course_assignments WHERE employee_id = $1 ORDER BY id`,
		employeeID)
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]CourseAssignment, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list course assignments: %w", err)
	}
	defer rows.Close()

	var out []CourseAssignment
	for rows.Next() {
		var a CourseAssignment
		if err := rows.Scan(&a.ID, &a.EmployeeID, &a.CourseID, &a.Status, &a.TrainingDate, &a.MaterialPath); err != nil {
			return nil, fmt.Errorf("scan course assignment: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, a *CourseAssignment) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE course_assignments
		 SET status = $2, training_date = $3, material_path = $4
		 WHERE id = $1`,
		a.ID, a.Status, a.TrainingDate, a.MaterialPath)
	if err != nil {
		return fmt.Errorf("update course assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM course_assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course assignment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) HasCompleted(ctx context.Context, employeeID, courseID int64) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM course_assignments
		   WHERE employee_id = $1 AND course_id = $2 AND status = $3
		 )`,
		employeeID, courseID, CourseCompleted).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check course completion: %w", err)
	}
	return exists, nil
}
