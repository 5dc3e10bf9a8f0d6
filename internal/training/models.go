// Package training tracks course assignments: which employee is signed up
// for which course and whether they finished it. Completed course
// assignments unlock tests that name the course as a prerequisite.
package training

import "time"

// CourseStatus is the lifecycle state of a course assignment.
type CourseStatus string

const (
	CourseAssigned  CourseStatus = "assigned"
	CourseCompleted CourseStatus = "completed"
)

// IsValid reports whether s is a known course status.
func (s CourseStatus) IsValid() bool {
	return s == CourseAssigned || s == CourseCompleted
}

// CourseAssignment binds one employee to one course.
type CourseAssignment struct {
	ID           int64        `json:"id"`
	EmployeeID   int64        `json:"employee_id"`
	CourseID     int64        `json:"course_id"`
	Status       CourseStatus `json:"status"`
	TrainingDate *time.Time   `json:"training_date,omitempty"`
	MaterialPath string       `json:"material_path,omitempty"`
}

// Completed reports whether the employee finished the course.
func (a *CourseAssignment) Completed() bool {
	return a.Status == CourseCompleted
}

// CourseAssignmentView joins an assignment with display names for listings.
type CourseAssignmentView struct {
	CourseAssignment
	EmployeeName string `json:"employee_name"`
	CourseTitle  string `json:"course_title"`
}
