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
	"trainhub/internal/catalog/service"
	"trainhub/pkg/testutil"
)

func newTestRouter(t *testing.T) (chi.Router, *service.Service) {
	t.Helper()
	svc := service.New(catalog.NewInMemoryStore())
	h := New(svc, slog.Default())
	r := chi.NewRouter()
	r.Route("/api", h.Register)
	return r, svc
}

func TestCreateAndListDepartments(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/departments", map[string]string{"name": "Quality"}))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	created := testutil.UnmarshalResponse[catalog.Department](t, rr)
	assert.NotZero(t, created.ID)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/departments"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	list := testutil.UnmarshalResponse[[]catalog.Department](t, rr)
	require.Len(t, *list, 1)
	assert.Equal(t, "Quality", (*list)[0].Name)
}

func TestCreateDepartmentConflict(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/departments", map[string]string{"name": "Quality"}))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	rr = testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/departments", map[string]string{"name": "quality"}))
	testutil.AssertStatus(t, rr, http.StatusConflict)
	testutil.AssertErrorCode(t, rr, "conflict")
}

func TestDeleteDepartmentNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodDelete, "/api/departments/99"))
	testutil.AssertStatus(t, rr, http.StatusNotFound)
	testutil.AssertErrorCode(t, rr, "not_found")
}

func TestDeleteDepartmentWithEmployees(t *testing.T) {
	router, svc := newTestRouter(t)
	ctx := context.Background()

	dept, err := svc.CreateDepartment(ctx, "Quality")
	require.NoError(t, err)
	pos, err := svc.CreatePosition(ctx, "Inspector")
	require.NoError(t, err)
	role, err := svc.CreateRole(ctx, "employee")
	require.NoError(t, err)
	_, err = svc.CreateEmployee(ctx, service.EmployeeInput{
		FullName: "Ivan Petrov", DepartmentID: dept.ID, PositionID: pos.ID, RoleID: role.ID,
		Username: "ipetrov", Password: "s3cret",
	})
	require.NoError(t, err)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodDelete, "/api/departments/1"))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	testutil.AssertErrorCode(t, rr, "failed_precondition")
}

func TestCreateEmployeeValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/employees", map[string]any{
		"full_name": "", "username": "ipetrov", "password": "s3cret",
	}))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	testutil.AssertErrorCode(t, rr, "invalid_input")
}

func TestEmployeeResponseNeverCarriesPassword(t *testing.T) {
	router, svc := newTestRouter(t)
	ctx := context.Background()

	dept, err := svc.CreateDepartment(ctx, "Quality")
	require.NoError(t, err)
	pos, err := svc.CreatePosition(ctx, "Inspector")
	require.NoError(t, err)
	role, err := svc.CreateRole(ctx, "employee")
	require.NoError(t, err)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/api/employees", map[string]any{
		"full_name": "Ivan Petrov", "department_id": dept.ID, "position_id": pos.ID,
		"role_id": role.ID, "username": "ipetrov", "password": "s3cret",
	}))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	body := string(testutil.ReadBody(t, rr))
	assert.NotContains(t, body, "s3cret")
	assert.NotContains(t, body, "password")
}

func TestLinkCourseRoundTrip(t *testing.T) {
	router, svc := newTestRouter(t)
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, "Fire Safety")
	require.NoError(t, err)
	test, err := svc.CreateTest(ctx, service.TestInput{Name: "Safety basics", MaxAttempts: 3, PassScorePercent: 70})
	require.NoError(t, err)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPut,
		"/api/tests/2/link-course", map[string]any{"course_id": course.ID}))
	testutil.AssertStatus(t, rr, http.StatusOK)
	linked := testutil.UnmarshalResponse[catalog.Test](t, rr)
	require.NotNil(t, linked.RelatedCourseID)
	assert.Equal(t, course.ID, *linked.RelatedCourseID)
	assert.Equal(t, test.ID, linked.ID)
}

func TestQuestionRoundTripUsesLetters(t *testing.T) {
	router, svc := newTestRouter(t)
	ctx := context.Background()

	test, err := svc.CreateTest(ctx, service.TestInput{Name: "Safety basics", MaxAttempts: 3, PassScorePercent: 70})
	require.NoError(t, err)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost,
		"/api/questions/by-test/1", map[string]any{
			"question_text":  "What to do first?",
			"option_a":       "Run",
			"option_b":       "Call for help",
			"option_c":       "Hide",
			"option_d":       "Wait",
			"correct_answer": "b",
		}))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	created := testutil.UnmarshalResponse[questionResponse](t, rr)
	assert.Equal(t, "B", created.CorrectLetter)
	require.Len(t, created.Options, catalog.OptionCount)
	assert.Equal(t, "A", created.Options[0].Letter)
	assert.Equal(t, "Wait", created.Options[3].Text)
	assert.Equal(t, test.ID, created.TestID)

	rr = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/api/questions/by-test/1/count"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	count := testutil.UnmarshalResponse[map[string]int](t, rr)
	assert.Equal(t, 1, (*count)["count"])
}

func TestCreateQuestionBadLetter(t *testing.T) {
	router, svc := newTestRouter(t)
	_, err := svc.CreateTest(context.Background(), service.TestInput{Name: "Safety basics", MaxAttempts: 3, PassScorePercent: 70})
	require.NoError(t, err)

	rr := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost,
		"/api/questions/by-test/1", map[string]any{
			"question_text":  "What to do first?",
			"option_a":       "Run",
			"option_b":       "Call for help",
			"option_c":       "Hide",
			"option_d":       "Wait",
			"correct_answer": "Q",
		}))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	testutil.AssertErrorCode(t, rr, "invalid_input")
}

func TestIDParamRejectsGarbage(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodDelete, "/api/departments/abc"))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	testutil.AssertErrorCode(t, rr, "invalid_input")
}
