// Package report builds the administrator's results view over test
// assignments: joined display names, formatted score and attempt strings,
// and time-spent figures, filtered by employee, test, status, or date
// range.
package report

import (
	"fmt"
	"time"

	"trainhub/internal/assignment"
)

// Filters narrows the report. All set filters apply together.
type Filters struct {
	EmployeeID   *int64
	TestID       *int64
	Status       *assignment.Status
	DeadlineFrom *time.Time
	DeadlineTo   *time.Time
}

// Match reports whether the assignment satisfies every set filter. The date
// range applies to the assignment's deadline, endpoints inclusive.
func (f Filters) Match(a *assignment.TestAssignment) bool {
	if f.EmployeeID != nil && a.EmployeeID != *f.EmployeeID {
		return false
	}
	if f.TestID != nil && a.TestID != *f.TestID {
		return false
	}
	if f.Status != nil && a.Status != *f.Status {
		return false
	}
	if f.DeadlineFrom != nil && a.Deadline.Before(*f.DeadlineFrom) {
		return false
	}
	if f.DeadlineTo != nil && a.Deadline.After(*f.DeadlineTo) {
		return false
	}
	return true
}

// Row is one report line: an assignment joined with its display fields.
type Row struct {
	AssignmentID       int64             `json:"assignment_id"`
	EmployeeID         int64             `json:"employee_id"`
	EmployeeName       string            `json:"employee_name"`
	TestID             int64             `json:"test_id"`
	TestName           string            `json:"test_name"`
	Status             assignment.Status `json:"status"`
	AttemptNumber      int               `json:"attempt_number"`
	MaxAttempts        int               `json:"max_attempts"`
	ExtraAttempts      int               `json:"extra_attempts"`
	AttemptDisplay     string            `json:"attempt_display"`
	Score              int               `json:"score"`
	TotalQuestions     int               `json:"total_questions"`
	ScoreDisplay       string            `json:"score_display"`
	AttemptDate        *time.Time        `json:"attempt_date,omitempty"`
	Deadline           time.Time         `json:"deadline"`
	TimeLimitMinutes   int               `json:"time_limit_minutes"`
	TimeSpentSeconds   *int              `json:"time_spent_seconds,omitempty"`
	TimeSpentFormatted string            `json:"time_spent_formatted"`
}

// NewRow builds a report row from an assignment and its joined facts.
func NewRow(a *assignment.TestAssignment, employeeName, testName string, totalQuestions int) Row {
	elapsed := a.ElapsedSeconds()
	return Row{
		AssignmentID:       a.ID,
		EmployeeID:         a.EmployeeID,
		EmployeeName:       employeeName,
		TestID:             a.TestID,
		TestName:           testName,
		Status:             a.Status,
		AttemptNumber:      a.AttemptNumber,
		MaxAttempts:        a.MaxAttempts,
		ExtraAttempts:      a.ExtraAttempts,
		AttemptDisplay:     fmt.Sprintf("%d / %d", a.AttemptNumber, a.AttemptQuota()),
		Score:              a.Score,
		TotalQuestions:     totalQuestions,
		ScoreDisplay:       fmt.Sprintf("%d / %d", a.Score, totalQuestions),
		AttemptDate:        a.AttemptDate,
		Deadline:           a.Deadline,
		TimeLimitMinutes:   a.TimeLimitMinutes,
		TimeSpentSeconds:   elapsed,
		TimeSpentFormatted: formatTimeSpent(elapsed),
	}
}

// formatTimeSpent renders elapsed seconds as mm:ss; an absent value renders
// as "00:00".
func formatTimeSpent(seconds *int) string {
	if seconds == nil {
		return "00:00"
	}
	return fmt.Sprintf("%02d:%02d", *seconds/60, *seconds%60)
}
