package main

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/examgrid/examgrid-backend/internal/config"
	"github.com/examgrid/examgrid-backend/internal/database"
	"github.com/examgrid/examgrid-backend/internal/logger"
	"github.com/examgrid/examgrid-backend/internal/model"
	"github.com/examgrid/examgrid-backend/internal/repository"
)

// Seeds a demo teacher, a demo student, and one published exam covering all
// question types. Intended for local development only.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	examRepo := repository.NewExamRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	teacher := &model.User{
		Name:         "Demo Teacher",
		Email:        "teacher@example.com",
		PasswordHash: string(hash),
		Role:         model.RoleTeacher,
	}
	if err := seedUser(ctx, userRepo, teacher); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed teacher")
	}

	student := &model.User{
		Name:         "Demo Student",
		Email:        "student@example.com",
		PasswordHash: string(hash),
		Role:         model.RoleStudent,
	}
	if err := seedUser(ctx, userRepo, student); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed student")
	}

	exam := &model.Exam{
		Title:           "Biology Basics",
		Course:          "Biology 101",
		DurationMinutes: 45,
		Instructions:    "Answer every question. Essays are graded on keyword coverage and depth.",
		Status:          model.ExamStatusDraft,
		CreatedBy:       teacher.ID,
	}
	if err := examRepo.Create(ctx, exam); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed exam")
	}

	questions := []model.Question{
		{
			ExamID:         exam.ID,
			QuestionType:   model.QuestionTypeMultipleChoice,
			QuestionText:   "Which organelle produces most of the cell's ATP? (A) Nucleus (B) Mitochondria (C) Ribosome (D) Golgi apparatus",
			ExpectedAnswer: "B",
			Points:         5,
			OrderNum:       1,
		},
		{
			ExamID:         exam.ID,
			QuestionType:   model.QuestionTypeTrueFalse,
			QuestionText:   "Plant cells have a cell wall.",
			ExpectedAnswer: "True",
			Points:         5,
			OrderNum:       2,
		},
		{
			ExamID:         exam.ID,
			QuestionType:   model.QuestionTypeShortAnswer,
			QuestionText:   "Name the organelle known as the powerhouse of the cell.",
			ExpectedAnswer: "Mitochondria",
			Points:         10,
			OrderNum:       3,
		},
		{
			ExamID:         exam.ID,
			QuestionType:   model.QuestionTypeEssay,
			QuestionText:   "Explain the process of photosynthesis.",
			ExpectedAnswer: "Photosynthesis uses sunlight, water, and carbon dioxide inside chloroplasts to produce glucose and oxygen.",
			Points:         20,
			OrderNum:       4,
		},
	}
	if err := questionRepo.ReplaceAll(ctx, exam.ID, questions); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed questions")
	}

	if err := examRepo.SetStatus(ctx, exam.ID, model.ExamStatusPublished); err != nil {
		log.Fatal().Err(err).Msg("Failed to publish exam")
	}

	fmt.Println("Seed complete:")
	fmt.Printf("  teacher: teacher@example.com / password123 (id %d)\n", teacher.ID)
	fmt.Printf("  student: student@example.com / password123 (id %d)\n", student.ID)
	fmt.Printf("  exam:    %s (%s)\n", exam.Title, exam.ID)
}

func seedUser(ctx context.Context, repo *repository.UserRepository, u *model.User) error {
	taken, err := repo.EmailExists(ctx, u.Email)
	if err != nil {
		return err
	}
	if taken {
		existing, err := repo.GetByEmail(ctx, u.Email)
		if err != nil {
			return err
		}
		*u = *existing
		return nil
	}
	return repo.Create(ctx, u)
}
