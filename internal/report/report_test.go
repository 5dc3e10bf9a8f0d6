package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainhub/internal/assignment"
)

func finishedAssignment() *assignment.TestAssignment {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	end := start.Add(12*time.Minute + 34*time.Second)
	return &assignment.TestAssignment{
		ID:            7,
		EmployeeID:    10,
		TestID:        20,
		Status:        assignment.StatusPassed,
		AttemptNumber: 2,
		MaxAttempts:   10,
		ExtraAttempts: 1,
		Score:         8,
		AttemptDate:   &start,
		Deadline:      time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		StartTime:     &start,
		EndTime:       &end,
	}
}

func TestNewRowDisplayStrings(t *testing.T) {
	row := NewRow(finishedAssignment(), "Ivan Petrov", "Safety basics", 10)

	assert.Equal(t, "Ivan Petrov", row.EmployeeName)
	assert.Equal(t, "Safety basics", row.TestName)
	assert.Equal(t, "8 / 10", row.ScoreDisplay)
	// Attempt allowance is base plus grants.
	assert.Equal(t, "2 / 11", row.AttemptDisplay)
	require.NotNil(t, row.TimeSpentSeconds)
	assert.Equal(t, 754, *row.TimeSpentSeconds)
	assert.Equal(t, "12:34", row.TimeSpentFormatted)
}

func TestNewRowWithoutAttempt(t *testing.T) {
	a := &assignment.TestAssignment{
		ID:          1,
		EmployeeID:  10,
		TestID:      20,
		Status:      assignment.StatusAssigned,
		MaxAttempts: 3,
		Deadline:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	row := NewRow(a, "Ivan Petrov", "Safety basics", 10)

	assert.Equal(t, "0 / 3", row.AttemptDisplay)
	assert.Equal(t, "0 / 10", row.ScoreDisplay)
	assert.Nil(t, row.TimeSpentSeconds)
	assert.Equal(t, "00:00", row.TimeSpentFormatted)
	assert.Nil(t, row.AttemptDate)
}

func TestFiltersAreConjunctive(t *testing.T) {
	a := finishedAssignment()

	employeeID := int64(10)
	testID := int64(20)
	status := assignment.StatusPassed
	assert.True(t, Filters{}.Match(a))
	assert.True(t, Filters{EmployeeID: &employeeID, TestID: &testID, Status: &status}.Match(a))

	wrongEmployee := int64(11)
	assert.False(t, Filters{EmployeeID: &wrongEmployee, TestID: &testID}.Match(a))

	wrongStatus := assignment.StatusFailed
	assert.False(t, Filters{EmployeeID: &employeeID, Status: &wrongStatus}.Match(a))
}

func TestFiltersDeadlineRange(t *testing.T) {
	a := finishedAssignment()

	before := a.Deadline.Add(-time.Hour)
	after := a.Deadline.Add(time.Hour)
	assert.True(t, Filters{DeadlineFrom: &before, DeadlineTo: &after}.Match(a))
	assert.False(t, Filters{DeadlineFrom: &after}.Match(a))
	assert.False(t, Filters{DeadlineTo: &before}.Match(a))

	// Endpoints are inclusive.
	assert.True(t, Filters{DeadlineFrom: &a.Deadline, DeadlineTo: &a.Deadline}.Match(a))
}

func TestFormatTimeSpentWidths(t *testing.T) {
	for seconds, want := range map[int]string{
		0:    "00:00",
		5:    "00:05",
		65:   "01:05",
		600:  "10:00",
		3661: "61:01",
	} {
		s := seconds
		assert.Equal(t, want, formatTimeSpent(&s))
	}
}
