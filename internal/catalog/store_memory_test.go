package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"trainhub/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *InMemoryStore
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewInMemoryStore()
}

func (s *InMemoryStoreSuite) TestDepartmentLifecycle() {
	d, err := s.store.CreateDepartment(s.ctx, "Quality")
	s.Require().NoError(err)
	s.Require().NotZero(d.ID)

	got, err := s.store.GetDepartment(s.ctx, d.ID)
	s.Require().NoError(err)
	s.Equal("Quality", got.Name)

	s.Require().NoError(s.store.DeleteDepartment(s.ctx, d.ID))
	_, err = s.store.GetDepartment(s.ctx, d.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestDepartmentNameUniqueIgnoringCase() {
	_, err := s.store.CreateDepartment(s.ctx, "Quality")
	s.Require().NoError(err)

	_, err = s.store.CreateDepartment(s.ctx, "  quality ")
	s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *InMemoryStoreSuite) TestListDepartmentsOrderedByID() {
	for _, name := range []string{"Quality", "Production", "Logistics"} {
		_, err := s.store.CreateDepartment(s.ctx, name)
		s.Require().NoError(err)
	}

	list, err := s.store.ListDepartments(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal("Quality", list[0].Name)
	s.Equal("Logistics", list[2].Name)
}

func (s *InMemoryStoreSuite) TestRenameCategory() {
	c, err := s.store.CreateCategory(s.ctx, "Safety")
	s.Require().NoError(err)

	s.Require().NoError(s.store.RenameCategory(s.ctx, c.ID, "Workplace Safety"))

	got, err := s.store.GetCategory(s.ctx, c.ID)
	s.Require().NoError(err)
	s.Equal("Workplace Safety", got.Name)

	s.Require().ErrorIs(s.store.RenameCategory(s.ctx, 999, "x"), sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestEmployeeUsernameUnique() {
	first := &Employee{FullName: "Ivan Petrov", Username: "ipetrov"}
	s.Require().NoError(s.store.CreateEmployee(s.ctx, first))
	s.Require().NotZero(first.ID)

	dup := &Employee{FullName: "Irina Petrova", Username: "ipetrov"}
	s.Require().ErrorIs(s.store.CreateEmployee(s.ctx, dup), sentinel.ErrAlreadyUsed)
}

func (s *InMemoryStoreSuite) TestGetEmployeeByUsername() {
	e := &Employee{FullName: "Ivan Petrov", Username: "ipetrov", PasswordDigest: "digest"}
	s.Require().NoError(s.store.CreateEmployee(s.ctx, e))

	got, err := s.store.GetEmployeeByUsername(s.ctx, "ipetrov")
	s.Require().NoError(err)
	s.Equal(e.ID, got.ID)
	s.Equal("digest", got.PasswordDigest)

	_, err = s.store.GetEmployeeByUsername(s.ctx, "nobody")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestCountEmployeesByReference() {
	d, err := s.store.CreateDepartment(s.ctx, "Quality")
	s.Require().NoError(err)

	for _, username := range []string{"a", "b"} {
		e := &Employee{FullName: username, Username: username, DepartmentID: d.ID}
		s.Require().NoError(s.store.CreateEmployee(s.ctx, e))
	}

	n, err := s.store.CountEmployeesByDepartment(s.ctx, d.ID)
	s.Require().NoError(err)
	s.Equal(2, n)

	n, err = s.store.CountEmployeesByDepartment(s.ctx, 999)
	s.Require().NoError(err)
	s.Zero(n)
}

func (s *InMemoryStoreSuite) TestCourseTitleUniqueOnUpdate() {
	first, err := s.store.CreateCourse(s.ctx, "Fire Safety")
	s.Require().NoError(err)
	second, err := s.store.CreateCourse(s.ctx, "First Aid")
	s.Require().NoError(err)

	err = s.store.UpdateCourseTitle(s.ctx, second.ID, "fire safety")
	s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)

	// Renaming to its own title is not a conflict.
	s.Require().NoError(s.store.UpdateCourseTitle(s.ctx, first.ID, "Fire Safety"))
}

func (s *InMemoryStoreSuite) TestQuestionOptionsIsolatedFromCaller() {
	test := &Test{Name: "Safety basics", MaxAttempts: 3, PassScorePercent: 70}
	s.Require().NoError(s.store.CreateTest(s.ctx, test))

	q := &Question{
		TestID:  test.ID,
		Text:    "What to do first?",
		Options: NewOptions([OptionCount]string{"Run", "Call for help", "Hide", "Wait"}, 1),
	}
	s.Require().NoError(s.store.CreateQuestion(s.ctx, q))

	// Mutating the caller's slice must not reach the stored copy.
	q.Options[1].Correct = false
	q.Options[0].Correct = true

	got, err := s.store.GetQuestion(s.ctx, q.ID)
	s.Require().NoError(err)
	s.Equal("B", got.CorrectLetter())
}

func (s *InMemoryStoreSuite) TestCountQuestionsByTest() {
	test := &Test{Name: "Safety basics"}
	s.Require().NoError(s.store.CreateTest(s.ctx, test))

	for i := 0; i < 3; i++ {
		q := &Question{
			TestID:  test.ID,
			Text:    "q",
			Options: NewOptions([OptionCount]string{"a", "b", "c", "d"}, 0),
		}
		s.Require().NoError(s.store.CreateQuestion(s.ctx, q))
	}

	n, err := s.store.CountQuestionsByTest(s.ctx, test.ID)
	s.Require().NoError(err)
	s.Equal(3, n)
}

func (s *InMemoryStoreSuite) TestCategoryLinkPairUnique() {
	link, err := s.store.CreateLink(s.ctx, 1, 2)
	s.Require().NoError(err)
	s.Require().NotZero(link.ID)

	_, err = s.store.CreateLink(s.ctx, 1, 2)
	s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)

	// Same test under a different category is a new link.
	_, err = s.store.CreateLink(s.ctx, 1, 3)
	s.Require().NoError(err)
}

func TestLetterPosition(t *testing.T) {
	for letter, want := range map[string]int{"A": 0, "b": 1, " C ": 2, "d": 3} {
		got, ok := LetterPosition(letter)
		require.True(t, ok, letter)
		require.Equal(t, want, got)
	}

	_, ok := LetterPosition("E")
	require.False(t, ok)
	_, ok = LetterPosition("")
	require.False(t, ok)
}
