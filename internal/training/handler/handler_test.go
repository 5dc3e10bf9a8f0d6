package handler

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trainhub/internal/catalog"
	catalogservice "trainhub/internal/catalog/service"
	"trainhub/internal/training"
	"trainhub/internal/training/service"
	"trainhub/pkg/testutil"
)

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	ctx := context.Background()

	catalogSvc := catalogservice.New(catalog.NewInMemoryStore())
	dept, err := catalogSvc.CreateDepartment(ctx, "Quality")
	require.NoError(t, err)
	pos, err := catalogSvc.CreatePosition(ctx, "Inspector")
	require.NoError(t, err)
	role, err := catalogSvc.CreateRole(ctx, "employee")
	require.NoError(t, err)
	_, err = catalogSvc.CreateEmployee(ctx, catalogservice.EmployeeInput{
		FullName: "Ivan Petrov", DepartmentID: dept.ID, PositionID: pos.ID, RoleID: role.ID,
		Username: "ipetrov", Password: "s3cret",
	})
	require.NoError(t, err)
	_, err = catalogSvc.CreateCourse(ctx, "Fire Safety")
	require.NoError(t, err)

	svc := service.New(training.NewInMemoryStore(), catalogSvc, catalogSvc)
	h := New(svc, slog.Default())
	r := chi.NewRouter()
	r.Route("/api", h.Register)
	return r
}

func TestAssignAndCompleteOverHTTP(t *testing.T) {
	router := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/course-assignments",
		map[string]any{"employee_id": 4, "course_id": 5}))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	created := testutil.UnmarshalResponse[training.CourseAssignment](t, rr)
	assert.Equal(t, training.CourseAssigned, created.Status)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodPost, "/api/course-assignments/1/complete"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	completed := testutil.UnmarshalResponse[training.CourseAssignment](t, rr)
	assert.Equal(t, training.CourseCompleted, completed.Status)
}

func TestAssignDuplicateOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	body := map[string]any{"employee_id": 4, "course_id": 5}

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/course-assignments", body))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/course-assignments", body))
	testutil.AssertStatus(t, rr, http.StatusConflict)
	testutil.AssertErrorCode(t, rr, "conflict")
}

func TestListByEmployeeJoinsNames(t *testing.T) {
	router := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/course-assignments",
		map[string]any{"employee_id": 4, "course_id": 5}))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/course-assignments/by-employee/4"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	views := testutil.UnmarshalResponse[[]training.CourseAssignmentView](t, rr)
	require.Len(t, *views, 1)
	assert.Equal(t, "Ivan Petrov", (*views)[0].EmployeeName)
	assert.Equal(t, "Fire Safety", (*views)[0].CourseTitle)
}
