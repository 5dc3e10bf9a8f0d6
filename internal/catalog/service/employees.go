package service

import (
	"context"
	"errors"
	"strings"

	"trainhub/internal/catalog"
	dErrors "trainhub/pkg/domain-errors"
	"trainhub/pkg/passwords"
	"trainhub/pkg/platform/sentinel"
)

// EmployeeInput carries the writable employee fields. Password is plaintext
// and only its digest is ever stored.
type EmployeeInput struct {
	FullName     string
	DepartmentID int64
	PositionID   int64
	RoleID       int64
	Username     string
	Password     string
}

func (s *Service) validateEmployeeRefs(ctx context.Context, in EmployeeInput) error {
	if _, err := s.store.GetDepartment(ctx, in.DepartmentID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeInvalidInput, "unknown department")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load department")
	}
	if _, err := s.store.GetPosition(ctx, in.PositionID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeInvalidInput, "unknown position")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load position")
	}
	if _, err := s.store.GetRole(ctx, in.RoleID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeInvalidInput, "unknown role")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load role")
	}
	return nil
}

// ListEmployees returns employees joined with their reference names.
func (s *Service) ListEmployees(ctx context.Context) ([]catalog.EmployeeView, error) {
	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list employees")
	}

	departments, err := s.store.ListDepartments(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list departments")
	}
	positions, err := s.store.ListPositions(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list positions")
	}
	roles, err := s.store.ListRoles(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list roles")
	}

	departmentNames := make(map[int64]string, len(departments))
	for _, d := range departments {
		departmentNames[d.ID] = d.Name
	}
	positionTitles := make(map[int64]string, len(positions))
	for _, p := range positions {
		positionTitles[p.ID] = p.Title
	}
	roleNames := make(map[int64]string, len(roles))
	for _, r := range roles {
		roleNames[r.ID] = r.Name
	}

	views := make([]catalog.EmployeeView, 0, len(employees))
	for _, e := range employees {
		views = append(views, catalog.EmployeeView{
			ID:           e.ID,
			FullName:     e.FullName,
			DepartmentID: e.DepartmentID,
			Department:   departmentNames[e.DepartmentID],
			PositionID:   e.PositionID,
			Position:     positionTitles[e.PositionID],
			RoleID:       e.RoleID,
			Role:         roleNames[e.RoleID],
			Username:     e.Username,
		})
	}
	return views, nil
}

func (s *Service) GetEmployee(ctx context.Context, id int64) (*catalog.Employee, error) {
	e, err := s.store.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "employee not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load employee")
	}
	return e, nil
}

// GetEmployeeByUsername resolves a login name to the stored employee,
// including the password digest.
func (s *Service) GetEmployeeByUsername(ctx context.Context, username string) (*catalog.Employee, error) {
	e, err := s.store.GetEmployeeByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "employee not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load employee")
	}
	return e, nil
}

func (s *Service) CreateEmployee(ctx context.Context, in EmployeeInput) (*catalog.Employee, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Username = strings.TrimSpace(in.Username)
	switch {
	case in.FullName == "":
		return nil, dErrors.New(dErrors.CodeInvalidInput, "full name is required")
	case in.Username == "":
		return nil, dErrors.New(dErrors.CodeInvalidInput, "username is required")
	case in.Password == "":
		return nil, dErrors.New(dErrors.CodeInvalidInput, "password is required")
	}
	if err := s.validateEmployeeRefs(ctx, in); err != nil {
		return nil, err
	}

	e := &catalog.Employee{
		FullName:       in.FullName,
		DepartmentID:   in.DepartmentID,
		PositionID:     in.PositionID,
		RoleID:         in.RoleID,
		Username:       in.Username,
		PasswordDigest: passwords.Digest(in.Password),
	}
	if err := s.store.CreateEmployee(ctx, e); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "username must be unique")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create employee")
	}
	s.logger.InfoContext(ctx, "employee created", "employee_id", e.ID)
	return e, nil
}

// UpdateEmployee replaces the employee's profile fields. An empty Password
// keeps the stored digest.
func (s *Service) UpdateEmployee(ctx context.Context, id int64, in EmployeeInput) (*catalog.Employee, error) {
	current, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}

	in.FullName = strings.TrimSpace(in.FullName)
	in.Username = strings.TrimSpace(in.Username)
	if in.FullName == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "full name is required")
	}
	if in.Username == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "username is required")
	}
	if err := s.validateEmployeeRefs(ctx, in); err != nil {
		return nil, err
	}

	current.FullName = in.FullName
	current.DepartmentID = in.DepartmentID
	current.PositionID = in.PositionID
	current.RoleID = in.RoleID
	current.Username = in.Username
	if in.Password != "" {
		current.PasswordDigest = passwords.Digest(in.Password)
	}

	if err := s.store.UpdateEmployee(ctx, current); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "username must be unique")
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "employee not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update employee")
	}
	return current, nil
}

// ResetPassword replaces the employee's credential with a new one.
func (s *Service) ResetPassword(ctx context.Context, id int64, newPassword string) error {
	if newPassword == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "password is required")
	}
	e, err := s.GetEmployee(ctx, id)
	if err != nil {
		return err
	}
	e.PasswordDigest = passwords.Digest(newPassword)
	if err := s.store.UpdateEmployee(ctx, e); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset password")
	}
	s.logger.InfoContext(ctx, "password reset", "employee_id", id)
	return nil
}

func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	if err := s.store.DeleteEmployee(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "employee not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete employee")
	}
	return nil
}
