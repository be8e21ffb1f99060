package service

import (
	"context"
	"godrive_backend/internal/config"
	"godrive_backend/internal/model"
	"godrive_backend/internal/repository"
	"godrive_backend/pkg/database"
	"testing"
	"time"

	"gorm.io/gorm"
)

type testEnv struct {
	cfg       *config.Config
	db        *gorm.DB
	users     *repository.UserRepository
	progress  *repository.ProgressRepository
	stats     *repository.StatisticsRepository
	questions *repository.QuestionRepository

	auth      *AuthService
	userSvc   *UserService
	question  *QuestionService
	tickets   *TicketService
	ledger    *ProgressService
	statsSvc  *StatisticsService
	favorites *FavoriteService
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server:   config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"},
		JWT:      config.JWTConfig{Secret: "test-secret-test-secret-test-secret", ExpireTime: time.Hour},
		Auth: config.AuthConfig{
			AdminUsername: "admin",
			AdminPassword: "admin-pass",
			AdminName:     "Администратор",
			AllowSignup:   true,
		},
		Exam: config.ExamConfig{
			QuestionsPerTicket: 10,
			TotalQuestions:     1130,
			Locales:            []string{"uz", "ru", "uzk"},
			DefaultLocale:      "uz",
		},
		Storage: config.StorageConfig{
			Type:         "local",
			LocalPath:    t.TempDir(),
			DefaultImage: "defaultpic.webp",
		},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := testConfig(t)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })

	env := &testEnv{
		cfg:       cfg,
		db:        db,
		users:     repository.NewUserRepository(db),
		progress:  repository.NewProgressRepository(db),
		stats:     repository.NewStatisticsRepository(db),
		questions: repository.NewQuestionRepository(db),
	}
	env.auth = NewAuthService(env.users, env.progress, env.stats, cfg)
	env.userSvc = NewUserService(env.users, env.progress, env.auth, cfg)
	env.question = NewQuestionService(env.questions, cfg, nil)
	env.tickets = NewTicketService(cfg.Exam, env.question)
	env.ledger = NewProgressService(env.progress, env.users, env.tickets)
	env.statsSvc = NewStatisticsService(env.stats, env.users)
	env.favorites = NewFavoriteService(env.users, cfg.Exam)
	return env
}

func (e *testEnv) createUser(t *testing.T, username string) *model.User {
	t.Helper()
	user, err := e.auth.CreateAccount(context.Background(), NewAccount{
		Username: username,
		Password: "secret-pass",
	})
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	return user
}

func boolPtr(b bool) *bool { return &b }
