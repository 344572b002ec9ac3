package handler

import (
	"net/http"

	"github.com/eduscope/eduscope-backend/internal/middleware"
	"github.com/eduscope/eduscope-backend/internal/model"
	"github.com/eduscope/eduscope-backend/internal/repository"
	"github.com/eduscope/eduscope-backend/internal/response"
	"github.com/eduscope/eduscope-backend/internal/service"
	"github.com/eduscope/eduscope-backend/internal/validator"
	"github.com/gin-gonic/gin"
)

// ExamHandler handles exam authoring and retrieval endpoints.
type ExamHandler struct {
	examService *service.ExamService
}

// NewExamHandler creates a new ExamHandler.
func NewExamHandler(examService *service.ExamService) *ExamHandler {
	return &ExamHandler{examService: examService}
}

// Create godoc
// POST /api/exams
// Creates an exam with its full question set in one transaction.
func (h *ExamHandler) Create(c *gin.Context) {
	var req model.CreateExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	exam, questions, err := h.examService.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{
		"exam":      exam,
		"questions": questions,
	})
}

// Get godoc
// GET /api/exams/:id
// Returns an exam with its questions. Students never see the answer keys.
func (h *ExamHandler) Get(c *gin.Context) {
	examID, ok := paramID(c, "id")
	if !ok {
		return
	}

	caller := middleware.Caller(c)
	exam, questions, err := h.examService.Get(c.Request.Context(), examID, caller)
	if err != nil {
		failFromService(c, err)
		return
	}

	if caller.Role == model.RoleStudent {
		stripped := make([]model.QuestionForStudent, len(questions))
		for i, q := range questions {
			stripped[i] = q.ForStudent()
		}
		response.Success(c, http.StatusOK, gin.H{
			"exam":      exam,
			"questions": stripped,
		})
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"exam":      exam,
		"questions": questions,
	})
}

// ListByCourse godoc
// GET /api/courses/:id/exams
// Lists a course's exams. Students also get their own submission state.
func (h *ExamHandler) ListByCourse(c *gin.Context) {
	courseID, ok := paramID(c, "id")
	if !ok {
		return
	}

	exams, err := h.examService.ListByCourse(c.Request.Context(), courseID, middleware.Caller(c))
	if err != nil {
		failFromService(c, err)
		return
	}
	if exams == nil {
		exams = []repository.StudentExamRow{}
	}

	response.Success(c, http.StatusOK, gin.H{"exams": exams})
}
