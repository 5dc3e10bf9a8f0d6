package handler

import (
	"net/http"

	"trainhub/internal/catalog"
	"trainhub/internal/catalog/service"
	"trainhub/pkg/platform/httputil"
)

type questionRequest struct {
	Text          string `json:"question_text"`
	OptionA       string `json:"option_a"`
	OptionB       string `json:"option_b"`
	OptionC       string `json:"option_c"`
	OptionD       string `json:"option_d"`
	CorrectLetter string `json:"correct_answer"`
}

func (r questionRequest) toInput() service.QuestionInput {
	return service.QuestionInput{
		Text:          r.Text,
		OptionTexts:   [catalog.OptionCount]string{r.OptionA, r.OptionB, r.OptionC, r.OptionD},
		CorrectLetter: r.CorrectLetter,
	}
}

type questionOption struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

type questionResponse struct {
	ID            int64            `json:"id"`
	TestID        int64            `json:"test_id"`
	Text          string           `json:"question_text"`
	Options       []questionOption `json:"options"`
	CorrectLetter string           `json:"correct_answer"`
}

func toQuestionResponse(q *catalog.Question) questionResponse {
	resp := questionResponse{
		ID:            q.ID,
		TestID:        q.TestID,
		Text:          q.Text,
		CorrectLetter: q.CorrectLetter(),
	}
	for position := 0; position < catalog.OptionCount; position++ {
		resp.Options = append(resp.Options, questionOption{
			Letter: catalog.OptionLetter(position),
			Text:   q.OptionText(position),
		})
	}
	return resp
}

func (h *Handler) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	testID, ok := httputil.IDParam(w, r, "testId")
	if !ok {
		return
	}
	questions, err := h.service.ListQuestions(r.Context(), testID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	out := make([]questionResponse, 0, len(questions))
	for i := range questions {
		out = append(out, toQuestionResponse(&questions[i]))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleCountQuestions(w http.ResponseWriter, r *http.Request) {
	testID, ok := httputil.IDParam(w, r, "testId")
	if !ok {
		return
	}
	n, err := h.service.CountQuestions(r.Context(), testID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]int{"count": n})
}

func (h *Handler) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	testID, ok := httputil.IDParam(w, r, "testId")
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[questionRequest](w, r)
	if !ok {
		return
	}
	q, err := h.service.CreateQuestion(r.Context(), testID, req.toInput())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toQuestionResponse(q))
}

func (h *Handler) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	req, ok := httputil.DecodeJSON[questionRequest](w, r)
	if !ok {
		return
	}
	q, err := h.service.UpdateQuestion(r.Context(), id, req.toInput())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toQuestionResponse(q))
}

func (h *Handler) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.IDParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.service.DeleteQuestion(r.Context(), id); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
