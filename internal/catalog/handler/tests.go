package handler

import (
	"net/http"

	"trainhub/internal/catalog/service"
	"trainhub/pkg/platform/httputil"
)

// ---------------------------------------------------------------------------
// Courses
// ---------------------------------------------------------------------------

func (h *Handler) handleListCourses(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListCourses(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[titleRequest](w, r)
	if !ok {
		return
	}
	c, err := h.service.CreateCourse(r.Context(), req.Title)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) handleRenameCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[titleRequest](w, r)
	if !ok {
		return
	}
	if err := h.service.RenameCourse(r.Context(), id, req.Title); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteCourse(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

type testRequest struct {
	Name             string  `json:"test_name"`
	MaxAttempts      int     `json:"max_attempts"`
	PassScorePercent float64 `json:"pass_score_percent"`
	RelatedCourseID  *int64  `json:"related_course_id"`
}

func (r testRequest) toInput() service.TestInput {
	return service.TestInput{
		Name:             r.Name,
		MaxAttempts:      r.MaxAttempts,
		PassScorePercent: r.PassScorePercent,
		RelatedCourseID:  r.RelatedCourseID,
	}
}

func (h *Handler) handleListTests(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListTests(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) handleGetTest(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	t, err := h.service.GetTest(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) handleCreateTest(w http.ResponseWriter, r *http.Request) {
	req, ok := httputil.DecodeJSON[testRequest](w, r)
	if !ok {
		return
	}
	t, err := h.service.CreateTest(r.Context(), req.toInput())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, t)
}

func (h *Handler) handleUpdateTest(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[testRequest](w, r)
	if !ok {
		return
	}
	t, err := h.service.UpdateTest(r.Context(), id, req.toInput())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, t)
}

type linkCourseRequest struct {
	CourseID *int64 `json:"course_id"`
}

func (h *Handler) handleLinkCourse(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[linkCourseRequest](w, r)
	if !ok {
		return
	}
	t, err := h.service.LinkCourse(r.Context(), id, req.CourseID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) handleDeleteTest(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteTest(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
