package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"syntax/internal/api/middleware"
	"syntax/internal/app/service"
	"syntax/internal/common"

	"github.com/go-chi/chi/v5"
)

type SubmissionHandler struct {
	judgeService *service.JudgeService
}

func NewSubmissionHandler(judgeService *service.JudgeService) *SubmissionHandler {
	return &SubmissionHandler{judgeService: judgeService}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router) {
	r.Use(middleware.Authenticator)
	r.Post("/run", h.runSubmission)
	r.Post("/", h.gradeSubmission)
	r.Get("/challenge/{challengeID}", h.submissionHistory)
}

// runSubmission grades visible test cases without persisting anything.
func (h *SubmissionHandler) runSubmission(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	result, err := h.judgeService.RunSubmission(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

// gradeSubmission grades the full test-case set and persists one
// submission record.
func (h *SubmissionHandler) gradeSubmission(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	result, err := h.judgeService.GradeSubmission(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *SubmissionHandler) submissionHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	challengeID := chi.URLParam(r, "challengeID")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	subs, err := h.judgeService.SubmissionHistory(r.Context(), userID, challengeID, limit, offset)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, subs)
}
