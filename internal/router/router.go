package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/examgrid/examgrid-backend/internal/config"
	"github.com/examgrid/examgrid-backend/internal/handler"
	"github.com/examgrid/examgrid-backend/internal/middleware"
	"github.com/examgrid/examgrid-backend/internal/response"
	"github.com/examgrid/examgrid-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	Exam        *handler.ExamHandler
	Submission  *handler.SubmissionHandler
	TeacherExam *handler.TeacherExamHandler
	Monitor     *handler.MonitorHandler
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
	// otherwise allow all (*) so dev works without extra config.
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

	// Every response carries request metadata.
	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/register", handlers.Auth.Register)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.GET("/me", middleware.RequireAuth(authService), handlers.Auth.Me)
		auth.POST("/logout", middleware.RequireAuth(authService), handlers.Auth.Logout)
	}

	// ─── 2. Student Group (JWT) ────────────────────────────────────────
	studentAPI := router.Group("/api/v1")
	studentAPI.Use(middleware.RequireStudent(authService))
	{
		studentAPI.GET("/exams", handlers.Exam.ListPublished)
		studentAPI.GET("/exams/:examId", handlers.Exam.Get)
		studentAPI.POST("/submissions", handlers.Submission.Create)
		studentAPI.GET("/submissions", handlers.Submission.ListMine)
	}

	// Submission detail is shared: students see their own, teachers see
	// submissions to their exams.
	router.GET("/api/v1/submissions/:submissionId",
		middleware.RequireAuth(authService),
		handlers.Submission.Get,
	)

	// ─── 3. Teacher Group (JWT) ────────────────────────────────────────
	teacherAPI := router.Group("/api/v1/teacher")
	teacherAPI.Use(middleware.RequireTeacher(authService))
	{
		teacherAPI.POST("/exams", handlers.TeacherExam.Create)
		teacherAPI.GET("/exams", handlers.TeacherExam.List)
		teacherAPI.GET("/exams/:examId", handlers.TeacherExam.Get)
		teacherAPI.PUT("/exams/:examId", handlers.TeacherExam.Update)
		teacherAPI.POST("/exams/:examId/questions", handlers.TeacherExam.AddQuestion)
		teacherAPI.PUT("/exams/:examId/questions", handlers.TeacherExam.ReplaceQuestions)
		teacherAPI.POST("/exams/:examId/publish", handlers.TeacherExam.Publish)
		teacherAPI.GET("/exams/:examId/submissions", handlers.TeacherExam.ListSubmissions)
	}

	// ─── 4. WebSocket Group (Teacher WS Auth) ──────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireTeacher(authService))
	{
		ws.GET("/teacher/exams/:examId/monitor", handlers.Monitor.MonitorExam)
	}

	return router
}
