package catalog

import "context"

// Store is the persistence boundary for catalog entities. Implementations
// return sentinel errors (pkg/platform/sentinel) for infrastructure facts;
// the service layer translates them into the domain taxonomy.
type Store interface {
	ReferenceStore
	EmployeeStore
	CourseStore
	TestStore
	QuestionStore
	CategoryLinkStore
}

// ReferenceStore covers the flat named entities: departments, positions,
// roles, and test categories. Create enforces case-insensitive name
// uniqueness (ErrAlreadyUsed); Delete returns ErrNotFound for unknown ids.
type ReferenceStore interface {
	ListDepartments(ctx context.Context) ([]Department, error)
	GetDepartment(ctx context.Context, id int64) (*Department, error)
	CreateDepartment(ctx context.Context, name string) (*Department, error)
	DeleteDepartment(ctx context.Context, id int64) error

	ListPositions(ctx context.Context) ([]Position, error)
	GetPosition(ctx context.Context, id int64) (*Position, error)
	CreatePosition(ctx context.Context, title string) (*Position, error)
	DeletePosition(ctx context.Context, id int64) error

	ListRoles(ctx context.Context) ([]Role, error)
	GetRole(ctx context.Context, id int64) (*Role, error)
	CreateRole(ctx context.Context, name string) (*Role, error)
	DeleteRole(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]TestCategory, error)
	GetCategory(ctx context.Context, id int64) (*TestCategory, error)
	CreateCategory(ctx context.Context, name string) (*TestCategory, error)
	RenameCategory(ctx context.Context, id int64, name string) error
	DeleteCategory(ctx context.Context, id int64) error
}

type EmployeeStore interface {
	ListEmployees(ctx context.Context) ([]Employee, error)
	GetEmployee(ctx context.Context, id int64) (*Employee, error)
	GetEmployeeByUsername(ctx context.Context, username string) (*Employee, error)
	CreateEmployee(ctx context.Context, e *Employee) error
	UpdateEmployee(ctx context.Context, e *Employee) error
	DeleteEmployee(ctx context.Context, id int64) error

	// CountEmployeesBy reports how many employees reference the given
	// department, position, or role, for delete-in-use checks.
	CountEmployeesByDepartment(ctx context.Context, departmentID int64) (int, error)
	CountEmployeesByPosition(ctx context.Context, positionID int64) (int, error)
	CountEmployeesByRole(ctx context.Context, roleID int64) (int, error)
}

type CourseStore interface {
	ListCourses(ctx context.Context) ([]Course, error)
	GetCourse(ctx context.Context, id int64) (*Course, error)
	// CreateCourse enforces case-insensitive title uniqueness.
	CreateCourse(ctx context.Context, title string) (*Course, error)
	// UpdateCourseTitle enforces uniqueness against all other courses.
	UpdateCourseTitle(ctx context.Context, id int64, title string) error
	DeleteCourse(ctx context.Context, id int64) error
}

type TestStore interface {
	ListTests(ctx context.Context) ([]Test, error)
	GetTest(ctx context.Context, id int64) (*Test, error)
	CreateTest(ctx context.Context, t *Test) error
	UpdateTest(ctx context.Context, t *Test) error
	DeleteTest(ctx context.Context, id int64) error
}

type QuestionStore interface {
	ListQuestionsByTest(ctx context.Context, testID int64) ([]Question, error)
	GetQuestion(ctx context.Context, id int64) (*Question, error)
	CountQuestionsByTest(ctx context.Context, testID int64) (int, error)
	CreateQuestion(ctx context.Context, q *Question) error
	// UpdateQuestion replaces the question text and the full option set.
	UpdateQuestion(ctx context.Context, q *Question) error
	DeleteQuestion(ctx context.Context, id int64) error
}

type CategoryLinkStore interface {
	ListLinksByCategory(ctx context.Context, categoryID int64) ([]CategoryLink, error)
	// CreateLink enforces (test, category) pair uniqueness.
	CreateLink(ctx context.Context, testID, categoryID int64) (*CategoryLink, error)
	DeleteLink(ctx context.Context, id int64) error
}
