// Package service implements course assignment management and the course
// completion checks other components gate on.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"trainhub/internal/catalog"
	"trainhub/internal/platform/metrics"
	"trainhub/internal/training"
	dErrors "trainhub/pkg/domain-errors"
	"trainhub/pkg/platform/sentinel"
)

// EmployeeDirectory resolves employees from the catalog.
type EmployeeDirectory interface {
	GetEmployee(ctx context.Context, id int64) (*catalog.Employee, error)
	ListEmployees(ctx context.Context) ([]catalog.EmployeeView, error)
}

// CourseDirectory resolves courses from the catalog.
type CourseDirectory interface {
	GetCourse(ctx context.Context, id int64) (*catalog.Course, error)
	ListCourses(ctx context.Context) ([]catalog.Course, error)
}

// Service orchestrates course assignments.
type Service struct {
	store     training.Store
	employees EmployeeDirectory
	courses   CourseDirectory
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(store training.Store, employees EmployeeDirectory, courses CourseDirectory, opts ...Option) *Service {
	s := &Service{
		store:     store,
		employees: employees,
		courses:   courses,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AssignInput carries the writable course assignment fields.
type AssignInput struct {
	EmployeeID   int64
	CourseID     int64
	TrainingDate *time.Time
	MaterialPath string
}

// Assign creates a course assignment in the assigned state. At most one
// assignment per (employee, course) pair may exist.
func (s *Service) Assign(ctx context.Context, in AssignInput) (*training.CourseAssignment, error) {
	if in.EmployeeID < 1 || in.CourseID < 1 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "employee id and course id are required")
	}
	if _, err := s.employees.GetEmployee(ctx, in.EmployeeID); err != nil {
		return nil, err
	}
	if _, err := s.courses.GetCourse(ctx, in.CourseID); err != nil {
		return nil, err
	}

	a := &training.CourseAssignment{
		EmployeeID:   in.EmployeeID,
		CourseID:     in.CourseID,
		Status:       training.CourseAssigned,
		TrainingDate: in.TrainingDate,
		MaterialPath: in.MaterialPath,
	}
	if err := s.store.Create(ctx, a); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "employee already has this course assigned")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create course assignment")
	}
	s.logger.InfoContext(ctx, "course assigned",
		"assignment_id", a.ID,
		"employee_id", a.EmployeeID,
		"course_id", a.CourseID,
	)
	return a, nil
}

// MarkCompleted records that the employee finished the course. Completing an
// already completed assignment is a no-op.
func (s *Service) MarkCompleted(ctx context.Context, id int64) (*training.CourseAssignment, error) {
	a, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Completed() {
		return a, nil
	}
	a.Status = training.CourseCompleted
	if err := s.store.Update(ctx, a); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to complete course assignment")
	}
	s.logger.InfoContext(ctx, "course completed",
		"assignment_id", a.ID,
		"employee_id", a.EmployeeID,
		"course_id", a.CourseID,
	)
	return a, nil
}

// UpdateInput carries the patchable course assignment fields.
type UpdateInput struct {
	Status       training.CourseStatus
	TrainingDate *time.Time
	MaterialPath string
}

// Update replaces the assignment's mutable fields.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*training.CourseAssignment, error) {
	if !in.Status.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown course assignment status")
	}
	a, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Status = in.Status
	a.TrainingDate = in.TrainingDate
	a.MaterialPath = in.MaterialPath
	if err := s.store.Update(ctx, a); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update course assignment")
	}
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "course assignment not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete course assignment")
	}
	return nil
}

// List returns all course assignments joined with display names.
func (s *Service) List(ctx context.Context) ([]training.CourseAssignmentView, error) {
	assignments, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list course assignments")
	}
	return s.toViews(ctx, assignments)
}

// ListByEmployee returns the employee's course assignments joined with
// display names.
func (s *Service) ListByEmployee(ctx context.Context, employeeID int64) ([]training.CourseAssignmentView, error) {
	if _, err := s.employees.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	assignments, err := s.store.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list course assignments")
	}
	return s.toViews(ctx, assignments)
}

// HasCompletedCourse reports whether the employee finished the course. Test
// assignment starts gate on this for tests with a prerequisite course.
func (s *Service) HasCompletedCourse(ctx context.Context, employeeID, courseID int64) (bool, error) {
	done, err := s.store.HasCompleted(ctx, employeeID, courseID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check course completion")
	}
	return done, nil
}

func (s *Service) get(ctx context.Context, id int64) (*training.CourseAssignment, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "course assignment not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load course assignment")
	}
	return a, nil
}

func (s *Service) toViews(ctx context.Context, assignments []training.CourseAssignment) ([]training.CourseAssignmentView, error) {
	employees, err := s.employees.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	courses, err := s.courses.ListCourses(ctx)
	if err != nil {
		return nil, err
	}

	employeeNames := make(map[int64]string, len(employees))
	for _, e := range employees {
		employeeNames[e.ID] = e.FullName
	}
	courseTitles := make(map[int64]string, len(courses))
	for _, c := range courses {
		courseTitles[c.ID] = c.Title
	}

	views := make([]training.CourseAssignmentView, 0, len(assignments))
	for _, a := range assignments {
		views = append(views, training.CourseAssignmentView{
			CourseAssignment: a,
			EmployeeName:     employeeNames[a.EmployeeID],
			CourseTitle:      courseTitles[a.CourseID],
		})
	}
	return views, nil
}
