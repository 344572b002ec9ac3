package handler

import (
	"net/http"

	"github.com/eduscope/eduscope-backend/internal/middleware"
	"github.com/eduscope/eduscope-backend/internal/response"
	"github.com/eduscope/eduscope-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// StatsHandler handles the statistics report endpoints.
type StatsHandler struct {
	statsService *service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(statsService *service.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// CourseReport godoc
// GET /api/stats/courses/:id
// Course-wide rollup, computed on demand for the owning teacher.
func (h *StatsHandler) CourseReport(c *gin.Context) {
	courseID, ok := paramID(c, "id")
	if !ok {
		return
	}

	report, err := h.statsService.CourseReport(c.Request.Context(), courseID, middleware.Caller(c))
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"report": report})
}

// StudentReport godoc
// GET /api/stats/students/:id
// Per-student rollup; visible to the student themself and to teachers.
func (h *StatsHandler) StudentReport(c *gin.Context) {
	studentID, ok := paramID(c, "id")
	if !ok {
		return
	}

	report, err := h.statsService.StudentReport(c.Request.Context(), studentID, middleware.Caller(c))
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"report": report})
}
