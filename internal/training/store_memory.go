package training

import (
	"context"
	"sort"
	"sync"

	"trainhub/pkg/platform/sentinel"
)

// InMemoryStore keeps course assignments in a map behind one RWMutex.
type InMemoryStore struct {
	mu          sync.RWMutex
	nextID      int64
	assignments map[int64]CourseAssignment
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{assignments: make(map[int64]CourseAssignment)}
}

func (s *InMemoryStore) Create(_ context.Context, a *CourseAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.assignments {
		if existing.EmployeeID == a.EmployeeID && existing.CourseID == a.CourseID {
			return sentinel.ErrAlreadyUsed
		}
	}
	s.nextID++
	a.ID = s.nextID
	s.assignments[a.ID] = *a
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, id int64) (*CourseAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.assignments[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &a, nil
}

func (s *InMemoryStore) List(_ context.Context) ([]CourseAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]CourseAssignment, 0, len(s.assignments))
	for _, a := range s.assignments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) ListByEmployee(_ context.Context, employeeID int64) ([]CourseAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]CourseAssignment, 0)
	for _, a := range s.assignments {
		if a.EmployeeID == employeeID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, a *CourseAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assignments[a.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.assignments[a.ID] = *a
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.assignments[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.assignments, id)
	return nil
}

func (s *InMemoryStore) HasCompleted(_ context.Context, employeeID, courseID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.assignments {
		if a.EmployeeID == employeeID && a.CourseID == courseID && a.Completed() {
			return true, nil
		}
	}
	return false, nil
}
