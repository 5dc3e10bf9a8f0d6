package service

import (
	"context"
	"errors"
	"strings"

	"trainhub/internal/catalog"
	dErrors "trainhub/pkg/domain-errors"
	"trainhub/pkg/platform/sentinel"
)

// ---------------------------------------------------------------------------
// Courses
// ---------------------------------------------------------------------------

func (s *Service) ListCourses(ctx context.Context) ([]catalog.Course, error) {
	list, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list courses")
	}
	return list, nil
}

func (s *Service) GetCourse(ctx context.Context, id int64) (*catalog.Course, error) {
	c, err := s.store.GetCourse(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "course not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load course")
	}
	return c, nil
}

func (s *Service) CreateCourse(ctx context.Context, title string) (*catalog.Course, error) {
	title, err := requireName(title, "course")
	if err != nil {
		return nil, err
	}
	c, err := s.store.CreateCourse(ctx, title)
	if err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "course title must be unique")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create course")
	}
	return c, nil
}

func (s *Service) RenameCourse(ctx context.Context, id int64, title string) error {
	title, err := requireName(title, "course")
	if err != nil {
		return err
	}
	if err := s.store.UpdateCourseTitle(ctx, id, title); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return dErrors.New(dErrors.CodeConflict, "course title must be unique")
		}
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "course not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to rename course")
	}
	return nil
}

func (s *Service) DeleteCourse(ctx context.Context, id int64) error {
	if err := s.store.DeleteCourse(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "course not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete course")
	}
	return nil
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

// TestInput carries the writable test fields.
type TestInput struct {
	Name             string
	MaxAttempts      int
	PassScorePercent float64
	RelatedCourseID  *int64
}

func (s *Service) validateTestInput(ctx context.Context, in *TestInput) error {
	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.Name == "":
		return dErrors.New(dErrors.CodeInvalidInput, "test name is required")
	case in.MaxAttempts < 1:
		return dErrors.New(dErrors.CodeInvalidInput, "max attempts must be at least 1")
	case in.PassScorePercent < 0 || in.PassScorePercent > 100:
		return dErrors.New(dErrors.CodeInvalidInput, "pass score percent must be between 0 and 100")
	}
	if in.RelatedCourseID != nil {
		if _, err := s.store.GetCourse(ctx, *in.RelatedCourseID); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeInvalidInput, "unknown related course")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load related course")
		}
	}
	return nil
}

func (s *Service) ListTests(ctx context.Context) ([]catalog.Test, error) {
	list, err := s.store.ListTests(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list tests")
	}
	return list, nil
}

func (s *Service) GetTest(ctx context.Context, id int64) (*catalog.Test, error) {
	t, err := s.store.GetTest(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "test not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load test")
	}
	return t, nil
}

func (s *Service) CreateTest(ctx context.Context, in TestInput) (*catalog.Test, error) {
	if err := s.validateTestInput(ctx, &in); err != nil {
		return nil, err
	}
	t := &catalog.Test{
		Name:             in.Name,
		MaxAttempts:      in.MaxAttempts,
		PassScorePercent: in.PassScorePercent,
		RelatedCourseID:  in.RelatedCourseID,
	}
	if err := s.store.CreateTest(ctx, t); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create test")
	}
	return t, nil
}

func (s *Service) UpdateTest(ctx context.Context, id int64, in TestInput) (*catalog.Test, error) {
	if err := s.validateTestInput(ctx, &in); err != nil {
		return nil, err
	}
	t := &catalog.Test{
		ID:               id,
		Name:             in.Name,
		MaxAttempts:      in.MaxAttempts,
		PassScorePercent: in.PassScorePercent,
		RelatedCourseID:  in.RelatedCourseID,
	}
	if err := s.store.UpdateTest(ctx, t); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "test not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update test")
	}
	return t, nil
}

// LinkCourse sets or clears the test's prerequisite course.
func (s *Service) LinkCourse(ctx context.Context, testID int64, courseID *int64) (*catalog.Test, error) {
	t, err := s.GetTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	if courseID != nil {
		if _, err := s.GetCourse(ctx, *courseID); err != nil {
			return nil, err
		}
	}
	t.RelatedCourseID = courseID
	if err := s.store.UpdateTest(ctx, t); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to link course")
	}
	return t, nil
}

func (s *Service) DeleteTest(ctx context.Context, id int64) error {
	if err := s.store.DeleteTest(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "test not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete test")
	}
	return nil
}
