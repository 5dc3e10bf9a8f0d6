// Package service orchestrates the test assignment lifecycle. Transitions
// run through the store's Execute callback so validation and mutation happen
// under the per-assignment lock; the service does its I/O (catalog lookups,
// eligibility checks) before entering the lock.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"trainhub/internal/assignment"
	"trainhub/internal/catalog"
	"trainhub/internal/platform/metrics"
	dErrors "trainhub/pkg/domain-errors"
	"trainhub/pkg/platform/sentinel"
	"trainhub/pkg/requestcontext"
)

// TestDirectory resolves tests from the catalog.
type TestDirectory interface {
	GetTest(ctx context.Context, id int64) (*catalog.Test, error)
}

// EmployeeDirectory resolves employees from the catalog.
type EmployeeDirectory interface {
	GetEmployee(ctx context.Context, id int64) (*catalog.Employee, error)
}

// QuestionCounter reports how many questions a test has.
type QuestionCounter interface {
	CountQuestions(ctx context.Context, testID int64) (int, error)
}

// EligibilityChecker reports whether an employee finished a course.
type EligibilityChecker interface {
	HasCompletedCourse(ctx context.Context, employeeID, courseID int64) (bool, error)
}

// Service orchestrates test assignments.
type Service struct {
	store       assignment.Store
	tests       TestDirectory
	employees   EmployeeDirectory
	questions   QuestionCounter
	eligibility EligibilityChecker
	logger      *slog.Logger
	metrics     *metrics.Metrics
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
func New(store assignment.Store, tests TestDirectory, employees EmployeeDirectory, questions QuestionCounter, eligibility EligibilityChecker, opts ...Option) *Service {
	s := &Service{
		store:       store,
		tests:       tests,
		employees:   employees,
		questions:   questions,
		eligibility: eligibility,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AssignInput carries the fields needed to assign a test.
type AssignInput struct {
	EmployeeID       int64
	TestID           int64
	Deadline         time.Time
	TimeLimitMinutes int
}

// Assign creates a test assignment in the assigned state. The attempt
// allowance is copied from the test at assignment time, so later edits to
// the test never change an existing assignment's quota.
func (s *Service) Assign(ctx context.Context, in AssignInput) (*assignment.TestAssignment, error) {
	switch {
	case in.EmployeeID < 1 || in.TestID < 1:
		return nil, dErrors.New(dErrors.CodeInvalidInput, "employee id and test id are required")
	case in.TimeLimitMinutes < 1:
		return nil, dErrors.New(dErrors.CodeInvalidInput, "time limit must be at least 1 minute")
	case in.Deadline.IsZero():
		return nil, dErrors.New(dErrors.CodeInvalidInput, "deadline is required")
	}

	if _, err := s.employees.GetEmployee(ctx, in.EmployeeID); err != nil {
		return nil, err
	}
	test, err := s.tests.GetTest(ctx, in.TestID)
	if err != nil {
		return nil, err
	}

	a := &assignment.TestAssignment{
		EmployeeID:       in.EmployeeID,
		TestID:           in.TestID,
		Status:           assignment.StatusAssigned,
		MaxAttempts:      test.MaxAttempts,
		Deadline:         in.Deadline,
		TimeLimitMinutes: in.TimeLimitMinutes,
	}
	if err := s.store.Create(ctx, a); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "employee already has this test assigned")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create test assignment")
	}

	s.logger.InfoContext(ctx, "test assigned",
		"assignment_id", a.ID,
		"employee_id", a.EmployeeID,
		"test_id", a.TestID,
		"max_attempts", a.MaxAttempts,
	)
	s.incrementAssignmentsCreated()
	return a, nil
}

// Start begins an attempt. A test with a prerequisite course can only be
// started once the employee's course assignment for it is completed; a
// passed assignment cannot be restarted.
func (s *Service) Start(ctx context.Context, id int64) (*assignment.TestAssignment, error) {
	current, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	test, err := s.tests.GetTest(ctx, current.TestID)
	if err != nil {
		return nil, err
	}
	if test.RelatedCourseID != nil {
		done, err := s.eligibility.HasCompletedCourse(ctx, current.EmployeeID, *test.RelatedCourseID)
		if err != nil {
			return nil, err
		}
		if !done {
			return nil, dErrors.New(dErrors.CodeFailedPrecondition,
				"prerequisite course has not been completed")
		}
	}

	now := requestcontext.Now(ctx)
	a, err := s.store.Execute(ctx, id,
		func(a *assignment.TestAssignment) error {
			return a.CanStart()
		},
		func(a *assignment.TestAssignment) {
			a.ApplyStart(now)
		},
	)
	if err != nil {
		return nil, s.wrapTransitionErr(err)
	}

	s.logger.InfoContext(ctx, "test started",
		"assignment_id", a.ID,
		"employee_id", a.EmployeeID,
		"attempt_number", a.AttemptNumber,
	)
	s.incrementTestsStarted()
	return a, nil
}

// Finish completes the in-progress attempt with the given raw score and
// settles the assignment as passed or failed against the test's threshold.
func (s *Service) Finish(ctx context.Context, id int64, score int) (*assignment.TestAssignment, error) {
	if score < 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "score must not be negative")
	}

	current, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	test, err := s.tests.GetTest(ctx, current.TestID)
	if err != nil {
		return nil, err
	}
	totalQuestions, err := s.questions.CountQuestions(ctx, current.TestID)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	a, err := s.store.Execute(ctx, id,
		func(a *assignment.TestAssignment) error {
			return a.CanFinish()
		},
		func(a *assignment.TestAssignment) {
			a.ApplyFinish(score, totalQuestions, test.PassScorePercent, now)
		},
	)
	if err != nil {
		return nil, s.wrapTransitionErr(err)
	}

	s.logger.InfoContext(ctx, "test finished",
		"assignment_id", a.ID,
		"employee_id", a.EmployeeID,
		"status", a.Status,
		"score", a.Score,
		"total_questions", totalQuestions,
	)
	if a.Status == assignment.StatusPassed {
		s.incrementTestsPassed()
	} else {
		s.incrementTestsFailed()
	}
	return a, nil
}

// Reset returns the assignment to its freshly assigned state. Reset is
// unconditional and works from any status, including passed.
func (s *Service) Reset(ctx context.Context, id int64) (*assignment.TestAssignment, error) {
	a, err := s.store.Execute(ctx, id,
		func(a *assignment.TestAssignment) error { return nil },
		func(a *assignment.TestAssignment) { a.ApplyReset() },
	)
	if err != nil {
		return nil, s.wrapTransitionErr(err)
	}

	s.logger.InfoContext(ctx, "test assignment reset",
		"assignment_id", a.ID,
		"employee_id", a.EmployeeID,
	)
	s.incrementAssignmentsReset()
	return a, nil
}

// AddExtraAttempt grants one more attempt on top of the test's base
// allowance. The grant is unconditional.
func (s *Service) AddExtraAttempt(ctx context.Context, id int64) (*assignment.TestAssignment, error) {
	a, err := s.store.Execute(ctx, id,
		func(a *assignment.TestAssignment) error { return nil },
		func(a *assignment.TestAssignment) { a.ExtraAttempts++ },
	)
	if err != nil {
		return nil, s.wrapTransitionErr(err)
	}

	s.logger.InfoContext(ctx, "extra attempt granted",
		"assignment_id", a.ID,
		"extra_attempts", a.ExtraAttempts,
	)
	s.incrementExtraAttemptsGranted()
	return a, nil
}

// OverrideInput is a raw field patch; nil fields are left unchanged.
type OverrideInput struct {
	Status           *assignment.Status
	Score            *int
	AttemptNumber    *int
	AttemptDate      *time.Time
	Deadline         *time.Time
	TimeLimitMinutes *int
	TestID           *int64
}

// Override patches the supplied fields verbatim. Only the status value
// itself is validated; no transition rules apply, so an administrator can
// place the assignment in any state. This is an escape hatch, not a
// state-machine operation.
func (s *Service) Override(ctx context.Context, id int64, in OverrideInput) (*assignment.TestAssignment, error) {
	if in.Status != nil && !in.Status.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "unknown assignment status")
	}

	a, err := s.store.Execute(ctx, id,
		func(a *assignment.TestAssignment) error { return nil },
		func(a *assignment.TestAssignment) {
			if in.Status != nil {
				a.Status = *in.Status
			}
			if in.Score != nil {
				a.Score = *in.Score
			}
			if in.AttemptNumber != nil {
				a.AttemptNumber = *in.AttemptNumber
			}
			if in.AttemptDate != nil {
				a.AttemptDate = in.AttemptDate
			}
			if in.Deadline != nil {
				a.Deadline = *in.Deadline
			}
			if in.TimeLimitMinutes != nil {
				a.TimeLimitMinutes = *in.TimeLimitMinutes
			}
			if in.TestID != nil {
				a.TestID = *in.TestID
			}
		},
	)
	if err != nil {
		return nil, s.wrapTransitionErr(err)
	}

	s.logger.InfoContext(ctx, "test assignment overridden",
		"assignment_id", a.ID,
		"status", a.Status,
	)
	return a, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "test assignment not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete test assignment")
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id int64) (*assignment.TestAssignment, error) {
	return s.get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]assignment.TestAssignment, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list test assignments")
	}
	return list, nil
}

// EmployeeView is a test assignment enriched with the test's display fields.
type EmployeeView struct {
	assignment.TestAssignment
	TestName     string `json:"test_name"`
	AttemptQuota int    `json:"attempt_quota"`
}

// ListByEmployee returns the employee's assignments with test names and the
// total attempt allowance attached.
func (s *Service) ListByEmployee(ctx context.Context, employeeID int64) ([]EmployeeView, error) {
	if _, err := s.employees.GetEmployee(ctx, employeeID); err != nil {
		return nil, err
	}
	assignments, err := s.store.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list test assignments")
	}

	views := make([]EmployeeView, 0, len(assignments))
	for _, a := range assignments {
		view := EmployeeView{TestAssignment: a, AttemptQuota: a.AttemptQuota()}
		if test, err := s.tests.GetTest(ctx, a.TestID); err == nil {
			view.TestName = test.Name
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *Service) get(ctx context.Context, id int64) (*assignment.TestAssignment, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "test assignment not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load test assignment")
	}
	return a, nil
}

// wrapTransitionErr maps store/transition failures to the API error
// taxonomy. Domain errors from CanX validators pass through untouched.
func (s *Service) wrapTransitionErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "test assignment not found")
	}
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "test assignment transition failed")
}

func (s *Service) incrementAssignmentsCreated() {
	if s.metrics != nil {
		s.metrics.AssignmentsCreated.Inc()
	}
}

func (s *Service) incrementTestsStarted() {
	if s.metrics != nil {
		s.metrics.TestsStarted.Inc()
	}
}

func (s *Service) incrementTestsPassed() {
	if s.metrics != nil {
		s.metrics.TestsPassed.Inc()
	}
}

func (s *Service) incrementTestsFailed() {
	if s.metrics != nil {
		s.metrics.TestsFailed.Inc()
	}
}

func (s *Service) incrementAssignmentsReset() {
	if s.metrics != nil {
		s.metrics.AssignmentsReset.Inc()
	}
}

func (s *Service) incrementExtraAttemptsGranted() {
	if s.metrics != nil {
		s.metrics.ExtraAttemptsGranted.Inc()
	}
}
