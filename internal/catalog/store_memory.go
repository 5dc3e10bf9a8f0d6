package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"trainhub/pkg/platform/sentinel"
)

// InMemoryStore keeps the whole catalog in maps behind one RWMutex. Used by
// tests and by the server's memory mode.
type InMemoryStore struct {
	mu sync.RWMutex

	nextID int64

	departments map[int64]Department
	positions   map[int64]Position
	roles       map[int64]Role
	categories  map[int64]TestCategory

	employees map[int64]Employee
	courses   map[int64]Course
	tests     map[int64]Test
	questions map[int64]Question
	links     map[int64]CategoryLink
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		departments: make(map[int64]Department),
		positions:   make(map[int64]Position),
		roles:       make(map[int64]Role),
		categories:  make(map[int64]TestCategory),
		employees:   make(map[int64]Employee),
		courses:     make(map[int64]Course),
		tests:       make(map[int64]Test),
		questions:   make(map[int64]Question),
		links:       make(map[int64]CategoryLink),
	}
}

// allocID must be called with mu held.
func (s *InMemoryStore) allocID() int64 {
	s.nextID++
	return s.nextID
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ---------------------------------------------------------------------------
// Departments
// ---------------------------------------------------------------------------

func (s *InMemoryStore) ListDepartments(_ context.Context) ([]Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Department, 0, len(s.departments))
	for _, d := range s.departments {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) GetDepartment(_ context.Context, id int64) (*Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.departments[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &d, nil
}

func (s *InMemoryStore) CreateDepartment(_ context.Context, name string) (*Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.departments {
		if sameName(d.Name, name) {
			return nil, sentinel.ErrAlreadyUsed
		}
	}
	d := Department{ID: s.allocID(), Name: name}
	s.departments[d.ID] = d
	return &d, nil
}

func (s *InMemoryStore) DeleteDepartment(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.departments[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.departments, id)
	return nil
}

// ---------------------------------------------------------------------------
// Positions
// ---------------------------------------------------------------------------

func (s *InMemoryStore) ListPositions(_ context.Context) ([]Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Position, 0, len(s.positions))
	for _, p := range s.positions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) GetPosition(_ context.Context, id int64) (*Position, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.positions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &p, nil
}

func (s *InMemoryStore) CreatePosition(_ context.Context, title string) (*Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.positions {
		if sameName(p.Title, title) {
			return nil, sentinel.ErrAlreadyUsed
		}
	}
	p := Position{ID: s.allocID(), Title: title}
	s.positions[p.ID] = p
	return &p, nil
}

func (s *InMemoryStore) DeletePosition(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.positions[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.positions, id)
	return nil
}

// ---------------------------------------------------------------------------
// Roles
// ---------------------------------------------------------------------------

func (s *InMemoryStore) ListRoles(_ context.Context) ([]Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Role, 0, len(s.roles))
	for _, r := range s.roles {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) GetRole(_ context.Context, id int64) (*Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.roles[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &r, nil
}

func (s *InMemoryStore) CreateRole(_ context.Context, name string) (*Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.roles {
		if sameName(r.Name, name) {
			return nil, sentinel.ErrAlreadyUsed
		}
	}
	r := Role{ID: s.allocID(), Name: name}
	s.roles[r.ID] = r
	return &r, nil
}

func (s *InMemoryStore) DeleteRole(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roles[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.roles, id)
	return nil
}

// ---------------------------------------------------------------------------
// Test categories
// ---------------------------------------------------------------------------

func (s *InMemoryStore) ListCategories(_ context.Context) ([]TestCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TestCategory, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) GetCategory(_ context.Context, id int64) (*TestCategory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.categories[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

func (s *InMemoryStore) CreateCategory(_ context.Context, name string) (*TestCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.categories {
		if sameName(c.Name, name) {
			return nil, sentinel.ErrAlreadyUsed
		}
	}
	c := TestCategory{ID: s.allocID(), Name: name}
	s.categories[c.ID] = c
	return &c, nil
}

func (s *InMemoryStore) RenameCategory(_ context.Context, id int64, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.categories[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	c.Name = name
	s.categories[id] = c
	return nil
}

func (s *InMemoryStore) DeleteCategory(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

// ---------------------------------------------------------------------------
// Employees
// ---------------------------------------------------------------------------

func (s *InMemoryStore) ListEmployees(_ context.Context) ([]Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Employee, 0, len(s.employees))
	for _, e := range s.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) GetEmployee(_ context.Context, id int64) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.employees[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &e, nil
}

func (s *InMemoryStore) GetEmployeeByUsername(_ context.Context, username string) (*Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.employees {
		if e.Username == username {
			out := e
			return &out, nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryStore) CreateEmployee(_ context.Context, e *Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.employees {
		if existing.Username == e.Username {
			return sentinel.ErrAlreadyUsed
		}
	}
	e.ID = s.allocID()
	s.employees[e.ID] = *e
	return nil
}

func (s *InMemoryStore) UpdateEmployee(_ context.Context, e *Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[e.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.employees[e.ID] = *e
	return nil
}

func (s *InMemoryStore) DeleteEmployee(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.employees, id)
	return nil
}

func (s *InMemoryStore) CountEmployeesByDepartment(_ context.Context, departmentID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.employees {
		if e.DepartmentID == departmentID {
			n++
		}
	}
	return n, nil
}

func (s *InMemoryStore) CountEmployeesByPosition(_ context.Context, positionID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.employees {
		if e.PositionID == positionID {
			n++
		}
	}
	return n, nil
}

func (s *InMemoryStore) CountEmployeesByRole(_ context.Context, roleID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, e := range s.employees {
		if e.RoleID == roleID {
			n++
		}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Courses
// ---------------------------------------------------------------------------

func (s *InMemoryStore) ListCourses(_ context.Context) ([]Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Course, 0, len(s.courses))
	for _, c := range s.courses {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) GetCourse(_ context.Context, id int64) (*Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

func (s *InMemoryStore) CreateCourse(_ context.Context, title string) (*Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.courses {
		if sameName(c.Title, title) {
			return nil, sentinel.ErrAlreadyUsed
		}
	}
	c := Course{ID: s.allocID(), Title: title}
	s.courses[c.ID] = c
	return &c, nil
}

func (s *InMemoryStore) UpdateCourseTitle(_ context.Context, id int64, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	for _, other := range s.courses {
		if other.ID != id && sameName(other.Title, title) {
			return sentinel.ErrAlreadyUsed
		}
	}
	c.Title = title
	s.courses[id] = c
	return nil
}

func (s *InMemoryStore) DeleteCourse(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.courses, id)
	return nil
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func (s *InMemoryStore) ListTests(_ context.Context) ([]Test, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Test, 0, len(s.tests))
	for _, t := range s.tests {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) GetTest(_ context.Context, id int64) (*Test, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tests[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &t, nil
}

func (s *InMemoryStore) CreateTest(_ context.Context, t *Test) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.allocID()
	s.tests[t.ID] = *t
	return nil
}

func (s *InMemoryStore) UpdateTest(_ context.Context, t *Test) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tests[t.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.tests[t.ID] = *t
	return nil
}

func (s *InMemoryStore) DeleteTest(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tests[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.tests, id)
	return nil
}

// ---------------------------------------------------------------------------
// Questions
// ---------------------------------------------------------------------------

func (s *InMemoryStore) ListQuestionsByTest(_ context.Context, testID int64) ([]Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Question, 0)
	for _, q := range s.questions {
		if q.TestID == testID {
			out = append(out, copyQuestion(q))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) GetQuestion(_ context.Context, id int64) (*Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.questions[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := copyQuestion(q)
	return &out, nil
}

func (s *InMemoryStore) CountQuestionsByTest(_ context.Context, testID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, q := range s.questions {
		if q.TestID == testID {
			n++
		}
	}
	return n, nil
}

func (s *InMemoryStore) CreateQuestion(_ context.Context, q *Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q.ID = s.allocID()
	s.questions[q.ID] = copyQuestion(*q)
	return nil
}

func (s *InMemoryStore) UpdateQuestion(_ context.Context, q *Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[q.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.questions[q.ID] = copyQuestion(*q)
	return nil
}

func (s *InMemoryStore) DeleteQuestion(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.questions[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.questions, id)
	return nil
}

func copyQuestion(q Question) Question {
	q.Options = append([]AnswerOption{}, q.Options...)
	return q
}

// ---------------------------------------------------------------------------
// Category links
// ---------------------------------------------------------------------------

func (s *InMemoryStore) ListLinksByCategory(_ context.Context, categoryID int64) ([]CategoryLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]CategoryLink, 0)
	for _, l := range s.links {
		if l.CategoryID == categoryID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) CreateLink(_ context.Context, testID, categoryID int64) (*CategoryLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.links {
		if l.TestID == testID && l.CategoryID == categoryID {
			return nil, sentinel.ErrAlreadyUsed
		}
	}
	l := CategoryLink{ID: s.allocID(), TestID: testID, CategoryID: categoryID}
	s.links[l.ID] = l
	return &l, nil
}

func (s *InMemoryStore) DeleteLink(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.links[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.links, id)
	return nil
}
