package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainhub/internal/assignment"
	"trainhub/internal/assignment/service"
	"trainhub/internal/catalog"
	catalogservice "trainhub/internal/catalog/service"
	"trainhub/internal/training"
	trainingservice "trainhub/internal/training/service"
	"trainhub/pkg/testutil"
)

type fixture struct {
	router     chi.Router
	employeeID int64
	testID     int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	catalogSvc := catalogservice.New(catalog.NewInMemoryStore())
	dept, err := catalogSvc.CreateDepartment(ctx, "Quality")
	require.NoError(t, err)
	pos, err := catalogSvc.CreatePosition(ctx, "Inspector")
	require.NoError(t, err)
	role, err := catalogSvc.CreateRole(ctx, "employee")
	require.NoError(t, err)
	employee, err := catalogSvc.CreateEmployee(ctx, catalogservice.EmployeeInput{
		FullName: "Ivan Petrov", DepartmentID: dept.ID, PositionID: pos.ID, RoleID: role.ID,
		Username: "ipetrov", Password: "s3cret",
	})
	require.NoError(t, err)
	test, err := catalogSvc.CreateTest(ctx, catalogservice.TestInput{
		Name: "Safety basics", MaxAttempts: 3, PassScorePercent: 70,
	})
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		_, err := catalogSvc.CreateQuestion(ctx, test.ID, catalogservice.QuestionInput{
			Text:          "What to do?",
			OptionTexts:   [4]string{"Run", "Call for help", "Hide", "Wait"},
			CorrectLetter: "B",
		})
		require.NoError(t, err)
	}

	trainingSvc := trainingservice.New(training.NewInMemoryStore(), catalogSvc, catalogSvc)
	svc := service.New(assignment.NewInMemoryStore(), catalogSvc, catalogSvc, catalogSvc, trainingSvc)
	h := New(svc, slog.Default())
	r := chi.NewRouter()
	r.Route("/api", h.Register)
	return &fixture{router: r, employeeID: employee.ID, testID: test.ID}
}

func (f *fixture) assign(t *testing.T) int64 {
	t.Helper()
	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/api/test-assignments/assign",
		map[string]any{
			"employee_id":        f.employeeID,
			"test_id":            f.testID,
			"deadline":           time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			"time_limit_minutes": 30,
		}))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	resp := testutil.UnmarshalResponse[map[string]int64](t, rr)
	return (*resp)["id"]
}

func TestAssignReturnsID(t *testing.T) {
	f := newFixture(t)
	id := f.assign(t)
	assert.NotZero(t, id)
}

func TestAssignDuplicateConflict(t *testing.T) {
	f := newFixture(t)
	f.assign(t)

	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/api/test-assignments/assign",
		map[string]any{
			"employee_id":        f.employeeID,
			"test_id":            f.testID,
			"deadline":           time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
			"time_limit_minutes": 30,
		}))
	testutil.AssertStatus(t, rr, http.StatusConflict)
	testutil.AssertErrorCode(t, rr, "conflict")
}

func TestStartFinishOverHTTP(t *testing.T) {
	f := newFixture(t)
	f.assign(t)

	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodPost, "/api/test-assignments/1/start"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	started := testutil.UnmarshalResponse[assignment.TestAssignment](t, rr)
	assert.Equal(t, assignment.StatusInProgress, started.Status)
	assert.Equal(t, 1, started.AttemptNumber)

	rr = testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/api/test-assignments/1/finish",
		map[string]int{"score": 8}))
	testutil.AssertStatus(t, rr, http.StatusOK)
	finished := testutil.UnmarshalResponse[assignment.TestAssignment](t, rr)
	assert.Equal(t, assignment.StatusPassed, finished.Status)
	assert.Equal(t, 2, finished.AttemptNumber)
	assert.Equal(t, 8, finished.Score)
}

func TestFinishWithoutStartIsBadRequest(t *testing.T) {
	f := newFixture(t)
	f.assign(t)

	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPost, "/api/test-assignments/1/finish",
		map[string]int{"score": 8}))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	testutil.AssertErrorCode(t, rr, "failed_precondition")
}

func TestResetAndAddAttemptOverHTTP(t *testing.T) {
	f := newFixture(t)
	f.assign(t)

	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodPost, "/api/test-assignments/1/add-attempt"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	granted := testutil.UnmarshalResponse[assignment.TestAssignment](t, rr)
	assert.Equal(t, 1, granted.ExtraAttempts)

	rr = testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodPost, "/api/test-assignments/1/reset"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	reset := testutil.UnmarshalResponse[assignment.TestAssignment](t, rr)
	assert.Equal(t, assignment.StatusAssigned, reset.Status)
	// Reset clears bookkeeping but keeps granted attempts.
	assert.Equal(t, 1, reset.ExtraAttempts)
}

func TestOverridePartialPatch(t *testing.T) {
	f := newFixture(t)
	f.assign(t)

	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPut, "/api/test-assignments/1",
		map[string]any{"score": 5}))
	testutil.AssertStatus(t, rr, http.StatusOK)
	a := testutil.UnmarshalResponse[assignment.TestAssignment](t, rr)
	assert.Equal(t, 5, a.Score)
	// Everything not in the patch keeps its value.
	assert.Equal(t, assignment.StatusAssigned, a.Status)
	assert.Equal(t, 30, a.TimeLimitMinutes)
}

func TestOverrideRejectsUnknownStatus(t *testing.T) {
	f := newFixture(t)
	f.assign(t)

	rr := testutil.DoRequest(f.router, testutil.NewJSONRequest(t, http.MethodPut, "/api/test-assignments/1",
		map[string]any{"status": "archived"}))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	testutil.AssertErrorCode(t, rr, "invalid_input")
}

func TestListByEmployeeOverHTTP(t *testing.T) {
	f := newFixture(t)
	f.assign(t)

	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodGet, "/api/test-assignments/by-employee/4"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	views := testutil.UnmarshalResponse[[]service.EmployeeView](t, rr)
	require.Len(t, *views, 1)
	assert.Equal(t, "Safety basics", (*views)[0].TestName)
	assert.Equal(t, 3, (*views)[0].AttemptQuota)
}

func TestUnknownAssignmentIs404(t *testing.T) {
	f := newFixture(t)

	rr := testutil.DoRequest(f.router, testutil.NewRequest(t, http.MethodPost, "/api/test-assignments/99/start"))
	testutil.AssertStatus(t, rr, http.StatusNotFound)
	testutil.AssertErrorCode(t, rr, "not_found")
}
