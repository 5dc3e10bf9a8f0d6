package assignment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	dErrors "trainhub/pkg/domain-errors"
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

func (s *InMemoryStoreSuite) create(employeeID, testID int64) *TestAssignment {
	a := &TestAssignment{
		EmployeeID:  employeeID,
		TestID:      testID,
		Status:      StatusAssigned,
		MaxAttempts: 3,
		Deadline:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	s.Require().NoError(s.store.Create(s.ctx, a))
	return a
}

func (s *InMemoryStoreSuite) TestCreateAssignsID() {
	a := s.create(10, 20)
	s.NotZero(a.ID)

	got, err := s.store.Get(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(StatusAssigned, got.Status)
}

func (s *InMemoryStoreSuite) TestCreateRejectsDuplicatePair() {
	s.create(10, 20)

	dup := &TestAssignment{EmployeeID: 10, TestID: 20, Status: StatusAssigned}
	s.Require().ErrorIs(s.store.Create(s.ctx, dup), sentinel.ErrAlreadyUsed)

	// Same test for another employee is fine.
	other := &TestAssignment{EmployeeID: 11, TestID: 20, Status: StatusAssigned}
	s.Require().NoError(s.store.Create(s.ctx, other))
}

func (s *InMemoryStoreSuite) TestGetUnknown() {
	_, err := s.store.Get(s.ctx, 99)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestListByEmployee() {
	s.create(10, 20)
	s.create(10, 21)
	s.create(11, 20)

	list, err := s.store.ListByEmployee(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(list, 2)
}

func (s *InMemoryStoreSuite) TestExecuteAppliesMutation() {
	a := s.create(10, 20)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	updated, err := s.store.Execute(s.ctx, a.ID,
		func(a *TestAssignment) error { return a.CanStart() },
		func(a *TestAssignment) { a.ApplyStart(now) },
	)
	s.Require().NoError(err)
	s.Equal(StatusInProgress, updated.Status)
	s.Equal(1, updated.AttemptNumber)

	stored, err := s.store.Get(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(StatusInProgress, stored.Status)
}

func (s *InMemoryStoreSuite) TestExecuteValidationFailureLeavesStateUntouched() {
	a := s.create(10, 20)

	snapshot, err := s.store.Execute(s.ctx, a.ID,
		func(a *TestAssignment) error { return a.CanFinish() },
		func(a *TestAssignment) { a.ApplyFinish(8, 10, 70, time.Now()) },
	)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeFailedPrecondition))
	s.Require().NotNil(snapshot)
	s.Equal(StatusAssigned, snapshot.Status)

	stored, err := s.store.Get(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(StatusAssigned, stored.Status)
	s.Zero(stored.AttemptNumber)
	s.Zero(stored.Score)
}

func (s *InMemoryStoreSuite) TestExecuteUnknownAssignment() {
	_, err := s.store.Execute(s.ctx, 99,
		func(a *TestAssignment) error { return nil },
		func(a *TestAssignment) {},
	)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// Concurrent grants must all land: the increment runs under the store lock,
// so none of them may overwrite another.
func (s *InMemoryStoreSuite) TestExecuteConcurrentIncrements() {
	a := s.create(10, 20)
	const grants = 50

	var g errgroup.Group
	for i := 0; i < grants; i++ {
		g.Go(func() error {
			_, err := s.store.Execute(s.ctx, a.ID,
				func(a *TestAssignment) error { return nil },
				func(a *TestAssignment) { a.ExtraAttempts++ },
			)
			return err
		})
	}
	s.Require().NoError(g.Wait())

	stored, err := s.store.Get(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(grants, stored.ExtraAttempts)
}

func (s *InMemoryStoreSuite) TestGetReturnsCopy() {
	a := s.create(10, 20)

	got, err := s.store.Get(s.ctx, a.ID)
	s.Require().NoError(err)
	got.Status = StatusPassed

	stored, err := s.store.Get(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Equal(StatusAssigned, stored.Status)
}
