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

// CourseHandler handles course and enrollment endpoints.
type CourseHandler struct {
	courseService *service.CourseService
}

// NewCourseHandler creates a new CourseHandler.
func NewCourseHandler(courseService *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// Create godoc
// POST /api/courses
// Creates a course owned by the calling teacher.
func (h *CourseHandler) Create(c *gin.Context) {
	var req model.CreateCourseRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	course, err := h.courseService.Create(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"course": course})
}

// List godoc
// GET /api/courses
// Teachers get the courses they own; students get their enrollments.
func (h *CourseHandler) List(c *gin.Context) {
	claims := middleware.GetClaims(c)
	courses, err := h.courseService.ListForUser(c.Request.Context(), claims.UserID, claims.Role)
	if err != nil {
		failFromService(c, err)
		return
	}
	if courses == nil {
		courses = []model.Course{}
	}

	response.Success(c, http.StatusOK, gin.H{"courses": courses})
}

// Enroll godoc
// POST /api/courses/:id/enroll
// Adds a student, looked up by email, to the caller's course.
func (h *CourseHandler) Enroll(c *gin.Context) {
	courseID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req model.EnrollRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	claims := middleware.GetClaims(c)
	student, err := h.courseService.Enroll(c.Request.Context(), courseID, claims.UserID, req.StudentEmail)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"student": student})
}

// ListStudents godoc
// GET /api/courses/:id/students
// Lists the roster of the caller's course.
func (h *CourseHandler) ListStudents(c *gin.Context) {
	courseID, ok := paramID(c, "id")
	if !ok {
		return
	}

	claims := middleware.GetClaims(c)
	students, err := h.courseService.ListStudents(c.Request.Context(), courseID, claims.UserID)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"students": students})
}
