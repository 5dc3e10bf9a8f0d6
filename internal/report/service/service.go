// Package service assembles test result reports from the assignment store
// and the catalog.
package service

import (
	"context"
	"log/slog"
	"sort"

	"trainhub/internal/assignment"
	"trainhub/internal/catalog"
	"trainhub/internal/report"
	dErrors "trainhub/pkg/domain-errors"
)

// AssignmentLister reads all test assignments.
type AssignmentLister interface {
	List(ctx context.Context) ([]assignment.TestAssignment, error)
}

// CatalogReader resolves the display facts a report row needs.
type CatalogReader interface {
	ListEmployees(ctx context.Context) ([]catalog.EmployeeView, error)
	ListTests(ctx context.Context) ([]catalog.Test, error)
	CountQuestions(ctx context.Context, testID int64) (int, error)
}

// Service builds filtered report views.
type Service struct {
	assignments AssignmentLister
	catalog     CatalogReader
	logger      *slog.Logger
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// New constructs a Service.
func New(assignments AssignmentLister, catalogReader CatalogReader, opts ...Option) *Service {
	s := &Service{assignments: assignments, catalog: catalogReader, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Build returns the report rows matching the filters, ordered by assignment
// id. Assignments referring to since-deleted employees or tests still
// appear, with empty display names.
func (s *Service) Build(ctx context.Context, filters report.Filters) ([]report.Row, error) {
	assignments, err := s.assignments.List(ctx)
	if err != nil {
		return nil, err
	}

	employees, err := s.catalog.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	tests, err := s.catalog.ListTests(ctx)
	if err != nil {
		return nil, err
	}

	employeeNames := make(map[int64]string, len(employees))
	for _, e := range employees {
		employeeNames[e.ID] = e.FullName
	}
	testNames := make(map[int64]string, len(tests))
	for _, t := range tests {
		testNames[t.ID] = t.Name
	}

	// Question counts are per test, not per assignment; cache them.
	questionCounts := make(map[int64]int)

	rows := make([]report.Row, 0, len(assignments))
	for i := range assignments {
		a := &assignments[i]
		if !filters.Match(a) {
			continue
		}

		count, ok := questionCounts[a.TestID]
		if !ok {
			count, err = s.catalog.CountQuestions(ctx, a.TestID)
			if err != nil {
				if dErrors.HasCode(err, dErrors.CodeNotFound) {
					count = 0
				} else {
					return nil, err
				}
			}
			questionCounts[a.TestID] = count
		}

		rows = append(rows, report.NewRow(a, employeeNames[a.EmployeeID], testNames[a.TestID], count))
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].AssignmentID < rows[j].AssignmentID })
	return rows, nil
}
