package assignment

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"trainhub/pkg/platform/sentinel"
)

// InMemoryStore keeps test assignments in a map. One mutex guards the whole
// map, so Execute's validate-then-mutate cycle runs with no concurrent
// transition interleaving.
type InMemoryStore struct {
	mu          sync.RWMutex
	nextID      int64
	assignments map[int64]TestAssignment
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{assignments: make(map[int64]TestAssignment)}
}

func (s *InMemoryStore) Create(_ context.Context, a *TestAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.assignments {
		if existing.EmployeeID == a.EmployeeID && existing.TestID == a.TestID {
			return fmt.Errorf("employee %d already assigned test %d: %w",
				a.EmployeeID, a.TestID, sentinel.ErrAlreadyUsed)
		}
	}
	s.nextID++
	a.ID = s.nextID
	s.assignments[a.ID] = *a
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id int64) (*TestAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assignments[id]
	if !ok {
		return nil, fmt.Errorf("test assignment %d: %w", id, sentinel.ErrNotFound)
	}
	return &a, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]TestAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TestAssignment, 0, len(s.assignments))
	for _, a := range s.assignments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) ListByEmployee(_ context.Context, employeeID int64) ([]TestAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]TestAssignment, 0)
	for _, a := range s.assignments {
		if a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assignments[id]; !ok {
		return fmt.Errorf("test assignment %d: %w", id, sentinel.ErrNotFound)
	}
	delete(s.assignments, id)
	return nil
}

// Execute validates and mutates one assignment under the store lock. On
// validation failure the stored assignment is untouched and the failing
// snapshot is returned alongside the error.
func (s *InMemoryStore) Execute(_ context.Context, id int64, validate func(a *TestAssignment) error, mutate func(a *TestAssignment)) (*TestAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.assignments[id]
	if !ok {
		return nil, fmt.Errorf("test assignment %d: %w", id, sentinel.ErrNotFound)
	}

	if err := validate(&stored); err != nil {
		snapshot := s.assignments[id]
		return &snapshot, err
	}

	mutate(&stored)
	s.assignments[id] = stored
	return &stored, nil
}
