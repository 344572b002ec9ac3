package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/eduscope/eduscope-backend/internal/config"
	"github.com/eduscope/eduscope-backend/internal/database"
	"github.com/eduscope/eduscope-backend/internal/logger"
	"github.com/eduscope/eduscope-backend/internal/model"
	"github.com/eduscope/eduscope-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

// Seeds a demo classroom: one teacher, three students, one course with
// everyone enrolled, and one mixed-type exam. Safe to re-run; existing
// accounts are reused.
func main() {
	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	userRepo := repository.NewUserRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	examRepo := repository.NewExamRepository(pool)

	fmt.Println("=== Seeding Demo Classroom ===")

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash demo password")
	}

	ensureUser := func(name, email string, role model.Role) *model.User {
		u := &model.User{Name: name, Email: email, PasswordHash: string(hash), Role: role}
		if err := userRepo.Create(ctx, u); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				existing, err := userRepo.GetByEmail(ctx, email)
				if err != nil {
					log.Fatal().Err(err).Str("email", email).Msg("Failed to load existing user")
				}
				fmt.Printf("Reusing %s (%s)\n", existing.Name, existing.Email)
				return existing
			}
			log.Fatal().Err(err).Str("email", email).Msg("Failed to create user")
		}
		fmt.Printf("Created %s %s (%s)\n", u.Role, u.Name, u.Email)
		return u
	}

	teacher := ensureUser("Dewi Lestari", "teacher@eduscope.local", model.RoleTeacher)
	students := []*model.User{
		ensureUser("Andi Pratama", "andi@eduscope.local", model.RoleStudent),
		ensureUser("Budi Santoso", "budi@eduscope.local", model.RoleStudent),
		ensureUser("Citra Dewi", "citra@eduscope.local", model.RoleStudent),
	}

	course := &model.Course{
		Code:        "MATH-101",
		Name:        "Mathematics",
		Description: "Demo mathematics course",
		TeacherID:   teacher.ID,
	}
	if err := courseRepo.Create(ctx, course); err != nil {
		log.Fatal().Err(err).Msg("Failed to create course")
	}
	fmt.Printf("Created course %s (id %d)\n", course.Code, course.ID)

	for _, s := range students {
		if err := courseRepo.Enroll(ctx, course.ID, s.ID); err != nil && !errors.Is(err, repository.ErrDuplicate) {
			log.Fatal().Err(err).Int64("student_id", s.ID).Msg("Failed to enroll student")
		}
	}
	fmt.Printf("Enrolled %d students\n", len(students))

	answerB := "B"
	answerTrue := "true"
	answerTen := "10"
	exam := &model.Exam{
		CourseID:        course.ID,
		Title:           "Algebra Basics",
		Description:     "Demo exam with every question type",
		StartTime:       time.Now(),
		DurationMinutes: 30,
	}
	questions := []model.Question{
		{
			Type:          model.QuestionTypeChoice,
			Content:       "What is 2 + 2?",
			Options:       []string{"A. 3", "B. 4", "C. 5", "D. 6"},
			CorrectAnswer: &answerB,
			MaxScore:      2,
			Tags:          "arithmetic",
		},
		{
			Type:          model.QuestionTypeBoolean,
			Content:       "Every even number is divisible by 2.",
			CorrectAnswer: &answerTrue,
			MaxScore:      1,
			Tags:          "number-theory",
		},
		{
			Type:          model.QuestionTypeNumber,
			Content:       "Solve: 5x = 50. x = ?",
			CorrectAnswer: &answerTen,
			MaxScore:      3,
			Tags:          "algebra",
		},
		{
			Type:     model.QuestionTypeText,
			Content:  "Explain why division by zero is undefined.",
			MaxScore: 4,
			Tags:     "algebra",
		},
	}
	if err := examRepo.CreateWithQuestions(ctx, exam, questions); err != nil {
		log.Fatal().Err(err).Msg("Failed to create exam")
	}
	fmt.Printf("Created exam %q with %d questions\n", exam.Title, len(questions))

	fmt.Println("\nDone. Demo password for every account: password123")
}
