package assignment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "trainhub/pkg/domain-errors"
)

func newAssigned() *TestAssignment {
	return &TestAssignment{
		ID:          1,
		EmployeeID:  10,
		TestID:      20,
		Status:      StatusAssigned,
		MaxAttempts: 3,
		Deadline:    time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestStartIncrementsOnceFinishIncrementsAgain(t *testing.T) {
	a := newAssigned()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, a.CanStart())
	a.ApplyStart(start)
	assert.Equal(t, StatusInProgress, a.Status)
	assert.Equal(t, 1, a.AttemptNumber)
	require.NotNil(t, a.StartTime)
	assert.True(t, a.StartTime.Equal(start))
	require.NotNil(t, a.AttemptDate)
	assert.True(t, a.AttemptDate.Equal(start))

	require.NoError(t, a.CanFinish())
	a.ApplyFinish(8, 10, 70, start.Add(12*time.Minute))
	assert.Equal(t, StatusPassed, a.Status)
	assert.Equal(t, 8, a.Score)
	// One full attempt moves the counter by two.
	assert.Equal(t, 2, a.AttemptNumber)
}

func TestCanStartBlocksOnlyPassed(t *testing.T) {
	for _, status := range []Status{StatusAssigned, StatusInProgress, StatusFailed} {
		a := newAssigned()
		a.Status = status
		assert.NoError(t, a.CanStart(), string(status))
	}

	a := newAssigned()
	a.Status = StatusPassed
	err := a.CanStart()
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeFailedPrecondition))
}

func TestCanStartIgnoresAttemptQuota(t *testing.T) {
	a := newAssigned()
	a.Status = StatusFailed
	a.AttemptNumber = 40
	a.MaxAttempts = 1
	assert.NoError(t, a.CanStart())
}

func TestCanFinishRequiresInProgress(t *testing.T) {
	for _, status := range []Status{StatusAssigned, StatusPassed, StatusFailed} {
		a := newAssigned()
		a.Status = status
		err := a.CanFinish()
		require.Error(t, err, string(status))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeFailedPrecondition))
	}
}

func TestFinishSettlesAgainstThreshold(t *testing.T) {
	now := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	cases := []struct {
		name           string
		score          int
		totalQuestions int
		passPercent    float64
		want           Status
	}{
		{"above threshold", 8, 10, 70, StatusPassed},
		{"exactly at threshold", 7, 10, 70, StatusPassed},
		{"below threshold", 6, 10, 70, StatusFailed},
		{"perfect score", 10, 10, 100, StatusPassed},
		{"zero questions fails nonzero threshold", 0, 0, 70, StatusFailed},
		{"zero questions passes zero threshold", 0, 0, 0, StatusPassed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := newAssigned()
			a.ApplyStart(now.Add(-10 * time.Minute))
			a.ApplyFinish(tc.score, tc.totalQuestions, tc.passPercent, now)
			assert.Equal(t, tc.want, a.Status)
		})
	}
}

func TestRestartClearsEndTime(t *testing.T) {
	a := newAssigned()
	first := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	a.ApplyStart(first)
	a.ApplyFinish(2, 10, 70, first.Add(5*time.Minute))
	require.Equal(t, StatusFailed, a.Status)
	require.NotNil(t, a.EndTime)

	second := first.Add(time.Hour)
	require.NoError(t, a.CanStart())
	a.ApplyStart(second)
	assert.Equal(t, 3, a.AttemptNumber)
	assert.Nil(t, a.EndTime)
	require.NotNil(t, a.StartTime)
	assert.True(t, a.StartTime.Equal(second))
}

func TestResetIsUnconditional(t *testing.T) {
	a := newAssigned()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	a.ApplyStart(now)
	a.ApplyFinish(9, 10, 70, now.Add(10*time.Minute))
	require.Equal(t, StatusPassed, a.Status)

	a.ApplyReset()
	assert.Equal(t, StatusAssigned, a.Status)
	assert.Zero(t, a.AttemptNumber)
	assert.Zero(t, a.Score)
	assert.Nil(t, a.AttemptDate)
	assert.Nil(t, a.StartTime)
	assert.Nil(t, a.EndTime)
	// The quota fields survive a reset.
	assert.Equal(t, 3, a.MaxAttempts)
}

func TestAttemptQuota(t *testing.T) {
	a := newAssigned()
	assert.Equal(t, 3, a.AttemptQuota())
	a.ExtraAttempts = 2
	assert.Equal(t, 5, a.AttemptQuota())
}

func TestElapsedSeconds(t *testing.T) {
	a := newAssigned()
	assert.Nil(t, a.ElapsedSeconds())

	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	a.ApplyStart(start)
	assert.Nil(t, a.ElapsedSeconds())

	a.ApplyFinish(5, 10, 50, start.Add(95*time.Second))
	require.NotNil(t, a.ElapsedSeconds())
	assert.Equal(t, 95, *a.ElapsedSeconds())
}

func TestElapsedSecondsNeverNegative(t *testing.T) {
	a := newAssigned()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	a.ApplyStart(start)
	a.ApplyFinish(5, 10, 50, start.Add(-time.Minute))
	require.NotNil(t, a.ElapsedSeconds())
	assert.Zero(t, *a.ElapsedSeconds())
}

func TestStatusValidation(t *testing.T) {
	for _, status := range []Status{StatusAssigned, StatusInProgress, StatusPassed, StatusFailed} {
		assert.True(t, status.IsValid())
	}
	assert.False(t, Status("archived").IsValid())
	assert.True(t, StatusPassed.Terminal())
	assert.False(t, StatusInProgress.Terminal())
}
