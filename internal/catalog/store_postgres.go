package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"trainhub/pkg/platform/sentinel"
)

// PostgresStore persists the catalog in PostgreSQL. Uniqueness constraints
// live in the schema; unique violations surface as sentinel.ErrAlreadyUsed.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgreSQL-backed catalog store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const uniqueViolation = "23505"

func mapPgError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return sentinel.ErrAlreadyUsed
	}
	return err
}

// affectedOrNotFound turns a zero-row write into sentinel.ErrNotFound.
func affectedOrNotFound(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

// ---------------------------------------------------------------------------
// Departments
// ---------------------------------------------------------------------------

func (s *PostgresStore) ListDepartments(ctx context.Context) ([]Department, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM departments ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list departments: %w", err)
	}
	defer rows.Close()

	var out []Department
	for rows.Next() {
		var d Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, fmt.Errorf("scan department: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetDepartment(ctx context.Context, id int64) (*Department, error) {
	var d Department
	err := s.pool.QueryRow(ctx, `SELECT id, name FROM departments WHERE id = $1`, id).
		Scan(&d.ID, &d.Name)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &d, nil
}

func (s *PostgresStore) CreateDepartment(ctx context.Context, name string) (*Department, error) {
	d := Department{Name: name}
	err := s.pool.QueryRow(ctx, `INSERT INTO departments (name) VALUES ($1) RETURNING id`, name).
		Scan(&d.ID)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &d, nil
}

func (s *PostgresStore) DeleteDepartment(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete department: %w", err)
	}
	return affectedOrNotFound(tag)
}

// ---------------------------------------------------------------------------
// Positions
// ---------------------------------------------------------------------------

func (s *PostgresStore) ListPositions(ctx context.Context) ([]Position, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, title FROM positions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list positions: %w", err)
	}
	defer rows.Close()

	var out []Position
	for rows.Next() {
		var p Position
		if err := rows.Scan(&p.ID, &p.Title); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetPosition(ctx context.Context, id int64) (*Position, error) {
	var p Position
	err := s.pool.QueryRow(ctx, `SELECT id, title FROM positions WHERE id = $1`, id).
		Scan(&p.ID, &p.Title)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &p, nil
}

func (s *PostgresStore) CreatePosition(ctx context.Context, title string) (*Position, error) {
	p := Position{Title: title}
	err := s.pool.QueryRow(ctx, `INSERT INTO positions (title) VALUES ($1) RETURNING id`, title).
		Scan(&p.ID)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &p, nil
}

func (s *PostgresStore) DeletePosition(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM positions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete position: %w", err)
	}
	return affectedOrNotFound(tag)
}

// ---------------------------------------------------------------------------
// Roles
// ---------------------------------------------------------------------------

func (s *PostgresStore) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM roles ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	var out []Role
	for rows.Next() {
		var r Role
		if err := rows.Scan(&r.ID, &r.Name); err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetRole(ctx context.Context, id int64) (*Role, error) {
	var r Role
	err := s.pool.QueryRow(ctx, `SELECT id, name FROM roles WHERE id = $1`, id).
		Scan(&r.ID, &r.Name)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &r, nil
}

func (s *PostgresStore) CreateRole(ctx context.Context, name string) (*Role, error) {
	r := Role{Name: name}
	err := s.pool.QueryRow(ctx, `INSERT INTO roles (name) VALUES ($1) RETURNING id`, name).
		Scan(&r.ID)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &r, nil
}

func (s *PostgresStore) DeleteRole(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	return affectedOrNotFound(tag)
}

// ---------------------------------------------------------------------------
// Test categories
// ---------------------------------------------------------------------------

func (s *PostgresStore) ListCategories(ctx context.Context) ([]TestCategory, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM test_categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []TestCategory
	for rows.Next() {
		var c TestCategory
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetCategory(ctx context.Context, id int64) (*TestCategory, error) {
	var c TestCategory
	err := s.pool.QueryRow(ctx, `SELECT id, name FROM test_categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &c, nil
}

func (s *PostgresStore) CreateCategory(ctx context.Context, name string) (*TestCategory, error) {
	c := TestCategory{Name: name}
	err := s.pool.QueryRow(ctx, `INSERT INTO test_categories (name) VALUES ($1) RETURNING id`, name).
		Scan(&c.ID)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &c, nil
}

func (s *PostgresStore) RenameCategory(ctx context.Context, id int64, name string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE test_categories SET name = $2 WHERE id = $1`, id, name)
	if err != nil {
		return mapPgError(err)
	}
	return affectedOrNotFound(tag)
}

func (s *PostgresStore) DeleteCategory(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM test_categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	return affectedOrNotFound(tag)
}

// ---------------------------------------------------------------------------
// Employees
// ---------------------------------------------------------------------------

const employeeColumns = `id, full_name, department_id, position_id, role_id, username, password_digest`

func scanEmployee(row pgx.Row) (*Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.FullName, &e.DepartmentID, &e.PositionID, &e.RoleID, &e.Username, &e.PasswordDigest)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &e, nil
}

func (s *PostgresStore) ListEmployees(ctx context.Context) ([]Employee, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetEmployee(ctx context.Context, id int64) (*Employee, error) {
	return scanEmployee(s.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
}

func (s *PostgresStore) GetEmployeeByUsername(ctx context.Context, username string) (*Employee, error) {
	return scanEmployee(s.pool.QueryRow(ctx,
		`SELECT `+employeeColumns+` FROM employees WHERE username = $1`, username))
}

func (s *PostgresStore) CreateEmployee(ctx context.Context, e *Employee) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO employees (full_name, department_id, position_id, role_id, username, password_digest)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		e.FullName, e.DepartmentID, e.PositionID, e.RoleID, e.Username, e.PasswordDigest).
		Scan(&e.ID)
	if err != nil {
		return mapPgError(err)
	}
	return nil
}

func (s *PostgresStore) UpdateEmployee(ctx context.Context, e *Employee) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE employees
		 SET full_name = $2, department_id = $3, position_id = $4, role_id = $5,
		     username = $6, password_digest = $7
		 WHERE id = $1`,
		e.ID, e.FullName, e.DepartmentID, e.PositionID, e.RoleID, e.Username, e.PasswordDigest)
	if err != nil {
		return mapPgError(err)
	}
	return affectedOrNotFound(tag)
}

func (s *PostgresStore) DeleteEmployee(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	return affectedOrNotFound(tag)
}

func (s *PostgresStore) countEmployees(ctx context.Context, column string, id int64) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM employees WHERE `+column+` = $1`, id).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count employees by %s: %w", column, err)
	}
	return n, nil
}

func (s *PostgresStore) CountEmployeesByDepartment(ctx context.Context, departmentID int64) (int, error) {
	return s.countEmployees(ctx, "department_id", departmentID)
}

func (s *PostgresStore) CountEmployeesByPosition(ctx context.Context, positionID int64) (int, error) {
	return s.countEmployees(ctx, "position_id", positionID)
}

func (s *PostgresStore) CountEmployeesByRole(ctx context.Context, roleID int64) (int, error) {
	return s.countEmployees(ctx, "role_id", roleID)
}

// ---------------------------------------------------------------------------
// Courses
// ---------------------------------------------------------------------------

func (s *PostgresStore) ListCourses(ctx context.Context) ([]Course, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, title FROM courses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var out []Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.Title); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetCourse(ctx context.Context, id int64) (*Course, error) {
	var c Course
	err := s.pool.QueryRow(ctx, `SELECT id, title FROM courses WHERE id = $1`, id).
		Scan(&c.ID, &c.Title)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &c, nil
}

func (s *PostgresStore) CreateCourse(ctx context.Context, title string) (*Course, error) {
	c := Course{Title: title}
	err := s.pool.QueryRow(ctx, `INSERT INTO courses (title) VALUES ($1) RETURNING id`, title).
		Scan(&c.ID)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &c, nil
}

func (s *PostgresStore) UpdateCourseTitle(ctx context.Context, id int64, title string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE courses SET title = $2 WHERE id = $1`, id, title)
	if err != nil {
		return mapPgError(err)
	}
	return affectedOrNotFound(tag)
}

func (s *PostgresStore) DeleteCourse(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return affectedOrNotFound(tag)
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func (s *PostgresStore) ListTests(ctx context.Context) ([]Test, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, max_attempts, pass_score_percent, related_course_id FROM tests ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list tests: %w", err)
	}
	defer rows.Close()

	var out []Test
	for rows.Next() {
		var t Test
		if err := rows.Scan(&t.ID, &t.Name, &t.MaxAttempts, &t.PassScorePercent, &t.RelatedCourseID); err != nil {
			return nil, fmt.Errorf("scan test: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *PostgresStore) GetTest(ctx context.Context, id int64) (*Test, error) {
	var t Test
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, max_attempts, pass_score_percent, related_course_id FROM tests WHERE id = $1`, id).
		Scan(&t.ID, &t.Name, &t.MaxAttempts, &t.PassScorePercent, &t.RelatedCourseID)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &t, nil
}

func (s *PostgresStore) CreateTest(ctx context.Context, t *Test) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO tests (name, max_attempts, pass_score_percent, related_course_id)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		t.Name, t.MaxAttempts, t.PassScorePercent, t.RelatedCourseID).
		Scan(&t.ID)
	if err != nil {
		return mapPgError(err)
	}
	return nil
}

func (s *PostgresStore) UpdateTest(ctx context.Context, t *Test) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tests
		 SET name = $2, max_attempts = $3, pass_score_percent = $4, related_course_id = $5
		 WHERE id = $1`,
		t.ID, t.Name, t.MaxAttempts, t.PassScorePercent, t.RelatedCourseID)
	if err != nil {
		return mapPgError(err)
	}
	return affectedOrNotFound(tag)
}

func (s *PostgresStore) DeleteTest(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete test: %w", err)
	}
	return affectedOrNotFound(tag)
}

// ---------------------------------------------------------------------------
// Questions
// ---------------------------------------------------------------------------

func (s *PostgresStore) ListQuestionsByTest(ctx context.Context, testID int64) ([]Question, error) {
	questionRows, err := s.pool.Query(ctx,
		`SELECT id, test_id, question_text FROM questions WHERE test_id = $1 ORDER BY id`, testID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer questionRows.Close()

	var out []Question
	index := make(map[int64]int)
	for questionRows.Next() {
		var q Question
		if err := questionRows.Scan(&q.ID, &q.TestID, &q.Text); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		index[q.ID] = len(out)
		out = append(out, q)
	}
	if err := questionRows.Err(); err != nil {
		return nil, err
	}

	optionRows, err := s.pool.Query(ctx,
		`SELECT o.question_id, o.position, o.option_text, o.is_correct
		 FROM answer_options o
		 JOIN questions q ON q.id = o.question_id
		 WHERE q.test_id = $1
		 ORDER BY o.question_id, o.position`, testID)
	if err != nil {
		return nil, fmt.Errorf("list answer options: %w", err)
	}
	defer optionRows.Close()

	for optionRows.Next() {
		var questionID int64
		var opt AnswerOption
		if err := optionRows.Scan(&questionID, &opt.Position, &opt.Text, &opt.Correct); err != nil {
			return nil, fmt.Errorf("scan answer option: %w", err)
		}
		if i, ok := index[questionID]; ok {
			out[i].Options = append(out[i].Options, opt)
		}
	}
	return out, optionRows.Err()
}

func (s *PostgresStore) GetQuestion(ctx context.Context, id int64) (*Question, error) {
	var q Question
	err := s.pool.QueryRow(ctx,
		`SELECT id, test_id, question_text FROM questions WHERE id = $1`, id).
		Scan(&q.ID, &q.TestID, &q.Text)
	if err != nil {
		return nil, mapPgError(err)
	}

	rows, err := s.pool.Query(ctx,
		`SELECT position, option_text, is_correct FROM answer_options
		 WHERE question_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("get answer options: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var opt AnswerOption
		if err := rows.Scan(&opt.Position, &opt.Text, &opt.Correct); err != nil {
			return nil, fmt.Errorf("scan answer option: %w", err)
		}
		q.Options = append(q.Options, opt)
	}
	return &q, rows.Err()
}

func (s *PostgresStore) CountQuestionsByTest(ctx context.Context, testID int64) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM questions WHERE test_id = $1`, testID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) CreateQuestion(ctx context.Context, q *Question) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO questions (test_id, question_text) VALUES ($1, $2) RETURNING id`,
			q.TestID, q.Text).Scan(&q.ID)
		if err != nil {
			return mapPgError(err)
		}
		return insertOptions(ctx, tx, q.ID, q.Options)
	})
}

func (s *PostgresStore) UpdateQuestion(ctx context.Context, q *Question) error {
	return s.inTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE questions SET question_text = $2 WHERE id = $1`, q.ID, q.Text)
		if err != nil {
			return mapPgError(err)
		}
		if err := affectedOrNotFound(tag); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM answer_options WHERE question_id = $1`, q.ID); err != nil {
			return fmt.Errorf("clear answer options: %w", err)
		}
		return insertOptions(ctx, tx, q.ID, q.Options)
	})
}

func (s *PostgresStore) DeleteQuestion(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	return affectedOrNotFound(tag)
}

func insertOptions(ctx context.Context, tx pgx.Tx, questionID int64, options []AnswerOption) error {
	for _, opt := range options {
		_, err := tx.Exec(ctx,
			`INSERT INTO answer_options (question_id, position, option_text, is_correct)
			 VALUES ($1, $2, $3, $4)`,
			questionID, opt.Position, opt.Text, opt.Correct)
		if err != nil {
			return fmt.Errorf("insert answer option: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ---------------------------------------------------------------------------
// Category links
// ---------------------------------------------------------------------------

func (s *PostgresStore) ListLinksByCategory(ctx context.Context, categoryID int64) ([]CategoryLink, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, test_id, category_id FROM test_category_links WHERE category_id = $1 ORDER BY id`,
		categoryID)
	if err != nil {
		return nil, fmt.Errorf("list category links: %w", err)
	}
	defer rows.Close()

	var out []CategoryLink
	for rows.Next() {
		var l CategoryLink
		if err := rows.Scan(&l.ID, &l.TestID, &l.CategoryID); err != nil {
			return nil, fmt.Errorf("scan category link: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateLink(ctx context.Context, testID, categoryID int64) (*CategoryLink, error) {
	l := CategoryLink{TestID: testID, CategoryID: categoryID}
	err := s.pool.QueryRow(ctx,
		`INSERT INTO test_category_links (test_id, category_id) VALUES ($1, $2) RETURNING id`,
		testID, categoryID).Scan(&l.ID)
	if err != nil {
		return nil, mapPgError(err)
	}
	return &l, nil
}

func (s *PostgresStore) DeleteLink(ctx context.Context, id int64) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM test_category_links WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category link: %w", err)
	}
	return affectedOrNotFound(tag)
}
