// Package service implements catalog management: org references, employees,
// courses, tests, questions, and category links.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"trainhub/internal/catalog"
	"trainhub/internal/platform/metrics"
	dErrors "trainhub/pkg/domain-errors"
	"trainhub/pkg/platform/sentinel"
)

// Service orchestrates catalog reads and writes on top of a Store.
type Service struct {
	store   catalog.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
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
func New(store catalog.Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func requireName(name, what string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, what+" name is required")
	}
	return name, nil
}

// ---------------------------------------------------------------------------
// Departments
// ---------------------------------------------------------------------------

func (s *Service) ListDepartments(ctx context.Context) ([]catalog.Department, error) {
	list, err := s.store.ListDepartments(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list departments")
	}
	return list, nil
}

func (s *Service) CreateDepartment(ctx context.Context, name string) (*catalog.Department, error) {
	name, err := requireName(name, "department")
	if err != nil {
		return nil, err
	}
	d, err := s.store.CreateDepartment(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "department name must be unique")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create department")
	}
	return d, nil
}

func (s *Service) DeleteDepartment(ctx context.Context, id int64) error {
	inUse, err := s.store.CountEmployeesByDepartment(ctx, id)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check department usage")
	}
	if inUse > 0 {
		return dErrors.New(dErrors.CodeFailedPrecondition, "department has employees assigned to it")
	}
	if err := s.store.DeleteDepartment(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "department not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete department")
	}
	return nil
}

// ---------------------------------------------------------------------------
// Positions
// ---------------------------------------------------------------------------

func (s *Service) ListPositions(ctx context.Context) ([]catalog.Position, error) {
	list, err := s.store.ListPositions(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list positions")
	}
	return list, nil
}

func (s *Service) CreatePosition(ctx context.Context, title string) (*catalog.Position, error) {
	title, err := requireName(title, "position")
	if err != nil {
		return nil, err
	}
	p, err := s.store.CreatePosition(ctx, title)
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "position title must be unique")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create position")
	}
	return p, nil
}

func (s *Service) DeletePosition(ctx context.Context, id int64) error {
	inUse, err := s.store.CountEmployeesByPosition(ctx, id)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check position usage")
	}
	if inUse > 0 {
		return dErrors.New(dErrors.CodeFailedPrecondition, "position has employees assigned to it")
	}
	if err := s.store.DeletePosition(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "position not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete position")
	}
	return nil
}

// ---------------------------------------------------------------------------
// Roles
// ---------------------------------------------------------------------------

func (s *Service) ListRoles(ctx context.Context) ([]catalog.Role, error) {
	list, err := s.store.ListRoles(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list roles")
	}
	return list, nil
}

func (s *Service) GetRole(ctx context.Context, id int64) (*catalog.Role, error) {
	r, err := s.store.GetRole(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "role not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load role")
	}
	return r, nil
}

func (s *Service) CreateRole(ctx context.Context, name string) (*catalog.Role, error) {
	name, err := requireName(name, "role")
	if err != nil {
		return nil, err
	}
	r, err := s.store.CreateRole(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "role name must be unique")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create role")
	}
	return r, nil
}

func (s *Service) DeleteRole(ctx context.Context, id int64) error {
	inUse, err := s.store.CountEmployeesByRole(ctx, id)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check role usage")
	}
	if inUse > 0 {
		return dErrors.New(dErrors.CodeFailedPrecondition, "role has employees assigned to it")
	}
	if err := s.store.DeleteRole(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "role not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete role")
	}
	return nil
}

// ---------------------------------------------------------------------------
// Test categories
// ---------------------------------------------------------------------------

func (s *Service) ListCategories(ctx context.Context) ([]catalog.TestCategory, error) {
	list, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list categories")
	}
	return list, nil
}

func (s *Service) CreateCategory(ctx context.Context, name string) (*catalog.TestCategory, error) {
	name, err := requireName(name, "category")
	if err != nil {
		return nil, err
	}
	c, err := s.store.CreateCategory(ctx, name)
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "category name must be unique")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create category")
	}
	return c, nil
}

func (s *Service) RenameCategory(ctx context.Context, id int64, name string) error {
	name, err := requireName(name, "category")
	if err != nil {
		return err
	}
	if err := s.store.RenameCategory(ctx, id, name); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "category not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to rename category")
	}
	return nil
}

// DeleteCategory removes a category together with its test links.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	links, err := s.store.ListLinksByCategory(ctx, id)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to list category links")
	}
	for _, link := range links {
		if err := s.store.DeleteLink(ctx, link.ID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete category link")
		}
	}
	if err := s.store.DeleteCategory(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "category not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete category")
	}
	return nil
}

// ---------------------------------------------------------------------------
// Category links
// ---------------------------------------------------------------------------

func (s *Service) ListCategoryLinks(ctx context.Context, categoryID int64) ([]catalog.CategoryLink, error) {
	links, err := s.store.ListLinksByCategory(ctx, categoryID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list category links")
	}
	return links, nil
}

func (s *Service) LinkTestToCategory(ctx context.Context, testID, categoryID int64) (*catalog.CategoryLink, error) {
	if _, err := s.store.GetTest(ctx, testID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "test not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load test")
	}
	if _, err := s.store.GetCategory(ctx, categoryID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "category not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load category")
	}
	link, err := s.store.CreateLink(ctx, testID, categoryID)
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "test is already linked to this category")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to link test to category")
	}
	return link, nil
}

func (s *Service) UnlinkTestFromCategory(ctx context.Context, linkID int64) error {
	if err := s.store.DeleteLink(ctx, linkID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "category link not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete category link")
	}
	return nil
}
