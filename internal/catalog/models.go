// Package catalog holds the reference entities the lifecycle engine draws
// facts from: employees and their org structure, courses, tests, questions,
// and test categories. Pure data with referential and uniqueness constraints;
// lifecycle behavior lives in the assignment package.
package catalog

import "strings"

// Department is an organizational unit employees belong to.
type Department struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Position is a job title employees hold.
type Position struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Role is an access role (administrator, employee, ...).
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TestCategory groups tests for navigation.
type TestCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"category_name"`
}

// CategoryLink binds one test to one category.
type CategoryLink struct {
	ID         int64 `json:"id"`
	TestID     int64 `json:"test_id"`
	CategoryID int64 `json:"category_id"`
}

// Employee is a person who can be assigned courses and tests.
type Employee struct {
	ID             int64  `json:"id"`
	FullName       string `json:"full_name"`
	DepartmentID   int64  `json:"department_id"`
	PositionID     int64  `json:"position_id"`
	RoleID         int64  `json:"role_id"`
	Username       string `json:"username"`
	PasswordDigest string `json:"-"`
}

// EmployeeView is an Employee joined with its reference names for listings.
type EmployeeView struct {
	ID           int64  `json:"id"`
	FullName     string `json:"full_name"`
	DepartmentID int64  `json:"department_id"`
	Department   string `json:"department"`
	PositionID   int64  `json:"position_id"`
	Position     string `json:"position"`
	RoleID       int64  `json:"role_id"`
	Role         string `json:"role"`
	Username     string `json:"username"`
}

// Course is a training course; tests may gate on its completion.
type Course struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// Test defines a knowledge test and its attempt policy.
//
// RelatedCourseID, when set, names a prerequisite course: no assignment of
// this test may be started until the employee's course assignment for it is
// completed.
type Test struct {
	ID               int64   `json:"id"`
	Name             string  `json:"test_name"`
	MaxAttempts      int     `json:"max_attempts"`
	PassScorePercent float64 `json:"pass_score_percent"`
	RelatedCourseID  *int64  `json:"related_course_id,omitempty"`
}

// OptionCount is the fixed number of answer options per question.
const OptionCount = 4

// AnswerOption is one option of a question. Position is the stable sequence
// key (0-based) the display letter is derived from; storage order is never
// relied on.
type AnswerOption struct {
	Position int    `json:"position"`
	Text     string `json:"text"`
	Correct  bool   `json:"is_correct"`
}

// Question belongs to exactly one test and owns an ordered set of answer
// options, exactly one of which is correct.
type Question struct {
	ID      int64          `json:"id"`
	TestID  int64          `json:"test_id"`
	Text    string         `json:"question_text"`
	Options []AnswerOption `json:"options"`
}

// optionLetters maps option positions to display letters.
var optionLetters = [OptionCount]string{"A", "B", "C", "D"}

// OptionLetter returns the display letter for a 0-based option position, or
// "" when out of range.
func OptionLetter(position int) string {
	if position < 0 || position >= OptionCount {
		return ""
	}
	return optionLetters[position]
}

// LetterPosition maps a display letter (case-insensitive) to its 0-based
// option position. ok is false for anything outside A-D.
func LetterPosition(letter string) (int, bool) {
	switch strings.ToUpper(strings.TrimSpace(letter)) {
	case "A":
		return 0, true
	case "B":
		return 1, true
	case "C":
		return 2, true
	case "D":
		return 3, true
	}
	return 0, false
}

// CorrectLetter computes the display letter of the correct option from its
// position. Returns "" when no option is marked correct.
func (q *Question) CorrectLetter() string {
	for _, opt := range q.Options {
		if opt.Correct {
			return OptionLetter(opt.Position)
		}
	}
	return ""
}

// OptionText returns the text of the option at the given position, or ""
// when the question has no option there.
func (q *Question) OptionText(position int) string {
	for _, opt := range q.Options {
		if opt.Position == position {
			return opt.Text
		}
	}
	return ""
}

// NewOptions builds the ordered option set for a question given the four
// option texts and the correct letter's 0-based position.
func NewOptions(texts [OptionCount]string, correctPosition int) []AnswerOption {
	opts := make([]AnswerOption, 0, OptionCount)
	for i, text := range texts {
		opts = append(opts, AnswerOption{Position: i, Text: text, Correct: i == correctPosition})
	}
	return opts
}
