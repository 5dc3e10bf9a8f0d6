// Package handler wires catalog management endpoints to the catalog service.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"trainhub/internal/catalog"
	"trainhub/internal/catalog/service"
	"trainhub/pkg/platform/httputil"
)

// Service defines the catalog operations the handler depends on.
type Service interface {
	ListDepartments(ctx context.Context) ([]catalog.Department, error)
	CreateDepartment(ctx context.Context, name string) (*catalog.Department, error)
	DeleteDepartment(ctx context.Context, id int64) error

	ListPositions(ctx context.Context) ([]catalog.Position, error)
	CreatePosition(ctx context.Context, title string) (*catalog.Position, error)
	DeletePosition(ctx context.Context, id int64) error

	ListRoles(ctx context.Context) ([]catalog.Role, error)
	CreateRole(ctx context.Context, name string) (*catalog.Role, error)
	DeleteRole(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]catalog.TestCategory, error)
	CreateCategory(ctx context.Context, name string) (*catalog.TestCategory, error)
	RenameCategory(ctx context.Context, id int64, name string) error
	DeleteCategory(ctx context.Context, id int64) error

	ListCategoryLinks(ctx context.Context, categoryID int64) ([]catalog.CategoryLink, error)
	LinkTestToCategory(ctx context.Context, testID, categoryID int64) (*catalog.CategoryLink, error)
	UnlinkTestFromCategory(ctx context.Context, linkID int64) error

	ListEmployees(ctx context.Context) ([]catalog.EmployeeView, error)
	GetEmployee(ctx context.Context, id int64) (*catalog.Employee, error)
	CreateEmployee(ctx context.Context, in service.EmployeeInput) (*catalog.Employee, error)
	UpdateEmployee(ctx context.Context, id int64, in service.EmployeeInput) (*catalog.Employee, error)
	ResetPassword(ctx context.Context, id int64, newPassword string) error
	DeleteEmployee(ctx context.Context, id int64) error

	ListCourses(ctx context.Context) ([]catalog.Course, error)
	CreateCourse(ctx context.Context, title string) (*catalog.Course, error)
	RenameCourse(ctx context.Context, id int64, title string) error
	DeleteCourse(ctx context.Context, id int64) error

	ListTests(ctx context.Context) ([]catalog.Test, error)
	GetTest(ctx context.Context, id int64) (*catalog.Test, error)
	CreateTest(ctx context.Context, in service.TestInput) (*catalog.Test, error)
	UpdateTest(ctx context.Context, id int64, in service.TestInput) (*catalog.Test, error)
	LinkCourse(ctx context.Context, testID int64, courseID *int64) (*catalog.Test, error)
	DeleteTest(ctx context.Context, id int64) error

	ListQuestions(ctx context.Context, testID int64) ([]catalog.Question, error)
	CountQuestions(ctx context.Context, testID int64) (int, error)
	CreateQuestion(ctx context.Context, testID int64, in service.QuestionInput) (*catalog.Question, error)
	UpdateQuestion(ctx context.Context, id int64, in service.QuestionInput) (*catalog.Question, error)
	DeleteQuestion(ctx context.Context, id int64) error
}

// Handler exposes catalog management over HTTP.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a catalog handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts catalog endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/departments", func(r chi.Router) {
		r.Get("/", h.handleListDepartments)
		r.Post("/", h.handleCreateDepartment)
		r.Delete("/{id}", h.handleDeleteDepartment)
	})
	r.Route("/positions", func(r chi.Router) {
		r.Get("/", h.handleListPositions)
		r.Post("/", h.handleCreatePosition)
		r.Delete("/{id}", h.handleDeletePosition)
	})
	r.Route("/roles", func(r chi.Router) {
		r.Get("/", h.handleListRoles)
		r.Post("/", h.handleCreateRole)
		r.Delete("/{id}", h.handleDeleteRole)
	})
	r.Route("/test-categories", func(r chi.Router) {
		r.Get("/", h.handleListCategories)
		r.Post("/", h.handleCreateCategory)
		r.Put("/{id}", h.handleRenameCategory)
		r.Delete("/{id}", h.handleDeleteCategory)
	})
	r.Route("/test-category-assignments", func(r chi.Router) {
		r.Get("/by-category/{categoryId}", h.handleListCategoryLinks)
		r.Post("/", h.handleCreateCategoryLink)
		r.Delete("/{id}", h.handleDeleteCategoryLink)
	})
	r.Route("/employees", func(r chi.Router) {
		r.Get("/", h.handleListEmployees)
		r.Get("/{id}", h.handleGetEmployee)
		r.Post("/", h.handleCreateEmployee)
		r.Put("/{id}", h.handleUpdateEmployee)
		r.Post("/{id}/reset-password", h.handleResetPassword)
		r.Delete("/{id}", h.handleDeleteEmployee)
	})
	r.Route("/courses", func(r chi.Router) {
		r.Get("/", h.handleListCourses)
		r.Post("/", h.handleCreateCourse)
		r.Put("/{id}", h.handleRenameCourse)
		r.Delete("/{id}", h.handleDeleteCourse)
	})
	r.Route("/tests", func(r chi.Router) {
		r.Get("/", h.handleListTests)
		r.Get("/{id}", h.handleGetTest)
		r.Post("/", h.handleCreateTest)
		r.Put("/{id}", h.handleUpdateTest)
		r.Put("/{id}/link-course", h.handleLinkCourse)
		r.Delete("/{id}", h.handleDeleteTest)
	})
	r.Route("/questions", func(r chi.Router) {
		r.Get("/by-test/{testId}", h.handleListQuestions)
		r.Get("/by-test/{testId}/count", h.handleCountQuestions)
		r.Post("/by-test/{testId}", h.handleCreateQuestion)
		r.Put("/{id}", h.handleUpdateQuestion)
		r.Delete("/{id}", h.handleDeleteQuestion)
	})
}

type nameRequest struct {
	Name string `json:"name"`
}

type titleRequest struct {
	Title string `json:"title"`
}

// ---------------------------------------------------------------------------
// Departments
// ---------------------------------------------------------------------------

func (h *Handler) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListDepartments(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleCreateDepartment(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[nameRequest](w, r)
	if !ok {
		return
	}
	d, err := h.service.CreateDepartment(r.Context(), req.Name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, d)
}

func (h *Handler) handleDeleteDepartment(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteDepartment(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Positions
// ---------------------------------------------------------------------------

func (h *Handler) handleListPositions(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListPositions(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleCreatePosition(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[titleRequest](w, r)
	if !ok {
		return
	}
	p, err := h.service.CreatePosition(r.Context(), req.Title)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, p)
}

func (h *Handler) handleDeletePosition(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeletePosition(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Roles
// ---------------------------------------------------------------------------

func (h *Handler) handleListRoles(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListRoles(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleCreateRole(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[nameRequest](w, r)
	if !ok {
		return
	}
	role, err := h.service.CreateRole(r.Context(), req.Name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, role)
}

func (h *Handler) handleDeleteRole(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteRole(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Test categories
// ---------------------------------------------------------------------------

type categoryRequest struct {
	Name string `json:"category_name"`
}

func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListCategories(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[categoryRequest](w, r)
	if !ok {
		return
	}
	c, err := h.service.CreateCategory(r.Context(), req.Name)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[categoryRequest](w, r)
	if !ok {
		return
	}
	if err := h.service.RenameCategory(r.Context(), id, req.Name); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Category links
// ---------------------------------------------------------------------------

type categoryLinkRequest struct {
	TestID     int64 `json:"test_id"`
	CategoryID int64 `json:"category_id"`
}

func (h *Handler) handleListCategoryLinks(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := httputil.IDParam(w, r, "categoryId")
	if !ok {
		return
	}
	links, err := h.service.ListCategoryLinks(r.Context(), categoryID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, links)
}

func (h *Handler) handleCreateCategoryLink(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[categoryLinkRequest](w, r)
	if !ok {
		return
	}
	link, err := h.service.LinkTestToCategory(r.Context(), req.TestID, req.CategoryID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, link)
}

func (h *Handler) handleDeleteCategoryLink(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.UnlinkTestFromCategory(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
