package router

import (
	"net/http"
	"time"

	"github.com/eduscope/eduscope-backend/internal/config"
	"github.com/eduscope/eduscope-backend/internal/handler"
	"github.com/eduscope/eduscope-backend/internal/middleware"
	"github.com/eduscope/eduscope-backend/internal/response"
	"github.com/eduscope/eduscope-backend/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Course     *handler.CourseHandler
	Exam       *handler.ExamHandler
	Submission *handler.SubmissionHandler
	Stats      *handler.StatsHandler
	Discovery  *handler.DiscoveryHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so classroom LAN setups work without
	// extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// ─── 0. Discovery (No Auth) ────────────────────────────────────────
	// Students scan the QR before they have an account.
	router.GET("/qrcode.png", middleware.CacheControl(60), handlers.Discovery.QRCodePNG)
	router.GET("/api/qrcode", handlers.Discovery.QRCode)

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
	}

	// ─── 2. Authenticated API (JWT + Active Session) ───────────────────
	api := router.Group("/api")
	api.Use(
		middleware.RequireAuth(authService),
		middleware.CheckActiveSession(authService),
	)
	{
		// Courses
		api.GET("/courses", handlers.Course.List)
		api.POST("/courses", middleware.RequireTeacher(), handlers.Course.Create)
		api.POST("/courses/:id/enroll", middleware.RequireTeacher(), handlers.Course.Enroll)
		api.GET("/courses/:id/students", middleware.RequireTeacher(), handlers.Course.ListStudents)
		api.GET("/courses/:id/exams", handlers.Exam.ListByCourse)

		// Exams
		api.POST("/exams", middleware.RequireTeacher(), handlers.Exam.Create)
		api.GET("/exams/:id", handlers.Exam.Get)

		// Submissions and grading
		api.POST("/exams/:id/submit", handlers.Submission.Submit)
		api.GET("/exams/:id/submissions", middleware.RequireTeacher(), handlers.Submission.ListByExam)
		api.PUT("/answers/:id/grade", middleware.RequireTeacher(), handlers.Submission.Grade)

		// Statistics
		api.GET("/stats/courses/:id", middleware.RequireTeacher(), handlers.Stats.CourseReport)
		api.GET("/stats/students/:id", handlers.Stats.StudentReport)
	}

	return router
}
