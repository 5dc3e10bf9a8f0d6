// Package assignment implements the test assignment lifecycle: an employee
// is assigned a test, starts an attempt, and finishes with a score that
// decides pass or fail. All state transitions are expressed as CanX/ApplyX
// pairs on TestAssignment so stores can run them under a per-assignment
// lock.
package assignment

import (
	"time"

	dErrors "trainhub/pkg/domain-errors"
)

// Status is the lifecycle state of a test assignment.
type Status string

const (
	StatusAssigned   Status = "assigned"
	StatusInProgress Status = "in_progress"
	StatusPassed     Status = "passed"
	StatusFailed     Status = "failed"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusAssigned, StatusInProgress, StatusPassed, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether the status ends an attempt.
func (s Status) Terminal() bool {
	return s == StatusPassed || s == StatusFailed
}

// TestAssignment binds one employee to one test and carries all attempt
// bookkeeping. AttemptNumber counts transition events, not completed
// attempts: Start and Finish each increment it, so one full attempt advances
// it by two. Downstream consumers rely on that counting scheme.
type TestAssignment struct {
	ID               int64      `json:"id"`
	EmployeeID       int64      `json:"employee_id"`
	TestID           int64      `json:"test_id"`
	Status           Status     `json:"status"`
	AttemptNumber    int        `json:"attempt_number"`
	MaxAttempts      int        `json:"max_attempts"`
	ExtraAttempts    int        `json:"extra_attempts"`
	Score            int        `json:"score"`
	AttemptDate      *time.Time `json:"attempt_date,omitempty"`
	Deadline         time.Time  `json:"deadline"`
	TimeLimitMinutes int        `json:"time_limit_minutes"`
	StartTime        *time.Time `json:"start_time,omitempty"`
	EndTime          *time.Time `json:"end_time,omitempty"`
}

// AttemptQuota is the total number of attempts the employee may use: the
// test's base allowance plus any grants.
func (a *TestAssignment) AttemptQuota() int {
	return a.MaxAttempts + a.ExtraAttempts
}

// CanStart checks whether a new attempt may begin. Only a passed assignment
// blocks starting: failed and in-progress assignments may be restarted, and
// no attempt ceiling is enforced here.
func (a *TestAssignment) CanStart() error {
	if a.Status == StatusPassed {
		return dErrors.New(dErrors.CodeFailedPrecondition, "test has already been passed")
	}
	return nil
}

// ApplyStart begins an attempt: increments the attempt counter, stamps the
// start and attempt times, and moves the assignment to in_progress.
func (a *TestAssignment) ApplyStart(now time.Time) {
	a.AttemptNumber++
	a.Status = StatusInProgress
	a.StartTime = &now
	a.AttemptDate = &now
	a.EndTime = nil
}

// CanFinish checks whether an attempt may be completed. Only an in-progress
// assignment can finish.
func (a *TestAssignment) CanFinish() error {
	if a.Status != StatusInProgress {
		return dErrors.New(dErrors.CodeFailedPrecondition, "test is not in progress")
	}
	return nil
}

// ApplyFinish completes the attempt: records the score, increments the
// attempt counter a second time, stamps the end time, and settles the
// assignment as passed or failed against the test's threshold. A test with
// zero questions scores 0 percent and can only pass when the threshold is
// zero.
func (a *TestAssignment) ApplyFinish(score, totalQuestions int, passPercent float64, now time.Time) {
	a.Score = score
	a.AttemptNumber++
	a.EndTime = &now

	percent := 0.0
	if totalQuestions > 0 {
		percent = float64(score) / float64(totalQuestions) * 100
	}
	if percent >= passPercent {
		a.Status = StatusPassed
	} else {
		a.Status = StatusFailed
	}
}

// ApplyReset returns the assignment to its freshly assigned state. Reset is
// unconditional: any status, including passed, goes back to assigned with
// all attempt bookkeeping cleared.
func (a *TestAssignment) ApplyReset() {
	a.Status = StatusAssigned
	a.AttemptNumber = 0
	a.Score = 0
	a.AttemptDate = nil
	a.StartTime = nil
	a.EndTime = nil
}

// ElapsedSeconds is the wall time of the recorded attempt, or nil when the
// assignment has no complete start/end pair. Clock skew between the stamps
// never produces a negative value.
func (a *TestAssignment) ElapsedSeconds() *int {
	if a.StartTime == nil || a.EndTime == nil {
		return nil
	}
	seconds := int(a.EndTime.Sub(*a.StartTime) / time.Second)
	if seconds < 0 {
		seconds = 0
	}
	return &seconds
}
