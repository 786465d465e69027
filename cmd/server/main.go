package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/examgrid/examgrid-backend/internal/config"
	"github.com/examgrid/examgrid-backend/internal/database"
	"github.com/examgrid/examgrid-backend/internal/grading"
	"github.com/examgrid/examgrid-backend/internal/handler"
	"github.com/examgrid/examgrid-backend/internal/logger"
	"github.com/examgrid/examgrid-backend/internal/repository"
	"github.com/examgrid/examgrid-backend/internal/router"
	"github.com/examgrid/examgrid-backend/internal/service"
	"github.com/examgrid/examgrid-backend/internal/validator"
	"github.com/examgrid/examgrid-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("grader", cfg.GraderType).
		Msg("Starting ExamGrid Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)
	answerRepo := repository.NewAnswerRepository(pool)

	// ─── Build Grader ──────────────────────────────────────────────────
	grader := buildGrader(ctx, cfg, log)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, userRepo, rdb)
	examService := service.NewExamService(examRepo, questionRepo)
	gradingService := service.NewGradingService(submissionRepo, answerRepo, grader, rdb, log)
	submissionService := service.NewSubmissionService(submissionRepo, answerRepo, examRepo, questionRepo, gradingService, rdb, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Exam:        handler.NewExamHandler(examService),
		Submission:  handler.NewSubmissionHandler(submissionService),
		TeacherExam: handler.NewTeacherExamHandler(examService, submissionService),
		Monitor:     handler.NewMonitorHandler(rdb, examService, submissionService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	gradingWorker := worker.NewGradingWorker(gradingService, rdb, log)
	go gradingWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the grading worker and let in-flight jobs finish.
	workerCancel()
	time.Sleep(2 * time.Second)

	log.Info().Msg("Shutdown complete")
}

// buildGrader assembles the grading pipeline from config. The local strategies
// always exist; the gemini grader wraps them as its fallback.
func buildGrader(ctx context.Context, cfg *config.Config, log zerolog.Logger) *grading.Grader {
	local := grading.NewLocalGrader()

	if cfg.GraderType != config.GraderTypeGemini {
		return local
	}

	gemini := grading.NewGeminiStrategy(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, local, log)
	return grading.NewRemoteGrader(gemini)
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
