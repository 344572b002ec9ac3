package handler

import (
	"net/http"

	"github.com/eduscope/eduscope-backend/internal/middleware"
	"github.com/eduscope/eduscope-backend/internal/model"
	"github.com/eduscope/eduscope-backend/internal/response"
	"github.com/eduscope/eduscope-backend/internal/service"
	"github.com/eduscope/eduscope-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// SubmissionHandler handles submission and grading endpoints.
type SubmissionHandler struct {
	gradingService *service.GradingService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(gradingService *service.GradingService) *SubmissionHandler {
	return &SubmissionHandler{gradingService: gradingService}
}

// Submit godoc
// POST /api/exams/:id/submit
// Grades the caller's answers and stores the submission. One shot per
// student per exam; a second attempt conflicts.
func (h *SubmissionHandler) Submit(c *gin.Context) {
	examID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.SubmitExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	sub, answers, err := h.gradingService.Submit(c.Request.Context(), examID, claims.UserID, &req)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"submission": sub,
		"answers":    answers,
	})
}

// ListByExam godoc
// GET /api/exams/:id/submissions
// Lists an exam's submissions with every answer joined to its question.
// The manual-grading screen's data source.
func (h *SubmissionHandler) ListByExam(c *gin.Context) {
	examID, ok := paramID(c, "id")
	if !ok {
		return
	}

	subs, err := h.gradingService.ListSubmissions(c.Request.Context(), examID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"submissions": subs})
}

// Grade godoc
// PUT /api/answers/:id/grade
// Overrides one answer's score and feedback; returns the submission's
// recomputed total.
func (h *SubmissionHandler) Grade(c *gin.Context) {
	answerID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.GradeAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	total, err := h.gradingService.Regrade(c.Request.Context(), answerID, *req.Score, req.Feedback)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"total_score": total})
}
