package app

import (
	"context"
	"fmt"
	"godrive_backend/internal/config"
	"godrive_backend/internal/controller"
	"godrive_backend/internal/repository"
	"godrive_backend/internal/service"
	"godrive_backend/pkg/configwatcher"
	"godrive_backend/pkg/database"
	"godrive_backend/pkg/logger"
	"godrive_backend/pkg/monitoring"
	"godrive_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	ctx             context.Context
	stop            context.CancelFunc
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	progress *repository.ProgressRepository
	stats    *repository.StatisticsRepository
	question *repository.QuestionRepository
}

type services struct {
	auth     *service.AuthService
	user     *service.UserService
	storage  *service.StorageService
	question *service.QuestionService
	ticket   *service.TicketService
	progress *service.ProgressService
	stats    *service.StatisticsService
	favorite *service.FavoriteService
	importer *service.ImportService
}

type controllers struct {
	auth     *controller.AuthController
	user     *controller.UserController
	question *controller.QuestionController
	ticket   *controller.TicketController
	progress *controller.ProgressController
	stats    *controller.StatsController
	favorite *controller.FavoriteController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		progress: repository.NewProgressRepository(db),
		stats:    repository.NewStatisticsRepository(db),
		question: repository.NewQuestionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) (*services, error) {
	s := &services{}

	storage, err := service.NewStorageService(cfg)
	if err != nil {
		return nil, err
	}
	s.storage = storage

	s.auth = service.NewAuthService(repos.user, repos.progress, repos.stats, cfg)
	s.user = service.NewUserService(repos.user, repos.progress, s.auth, cfg)
	s.question = service.NewQuestionService(repos.question, cfg, rdb)
	s.ticket = service.NewTicketService(cfg.Exam, s.question)
	s.progress = service.NewProgressService(repos.progress, repos.user, s.ticket)
	s.stats = service.NewStatisticsService(repos.stats, repos.user)
	s.favorite = service.NewFavoriteService(repos.user, cfg.Exam)
	s.importer = service.NewImportService(repos.question, s.question, s.storage, cfg.Exam)

	return s, nil
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth),
		user:     controller.NewUserController(s.user),
		question: controller.NewQuestionController(s.question, a.Config.Exam),
		ticket:   controller.NewTicketController(s.ticket, a.Config.Exam),
		progress: controller.NewProgressController(s.progress),
		stats:    controller.NewStatsController(s.stats),
		favorite: controller.NewFavoriteController(s.favorite),
		health:   controller.NewHealthController(db, rdb),
	}
}

// New 用已打开的存储句柄组装应用，不做迁移和账号初始化
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*App, error) {
	ctx, stop := context.WithCancel(context.Background())
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
		ctx:    ctx,
		stop:   stop,
	}

	if err := controller.RegisterValidators(cfg.Exam); err != nil {
		stop()
		return nil, fmt.Errorf("register validators: %w", err)
	}

	repos := app.initRepositories(db)
	svcs, err := app.initServices(repos, cfg, rdb)
	if err != nil {
		stop()
		return nil, err
	}
	app.services = svcs
	ctrls := app.initControllers(svcs, db, rdb)

	// 监控初始化
	monitoring.Init()

	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, ctrls, svcs, cfg)

	return app, nil
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")
	gin.SetMode(cfg.Server.Mode)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// release 模式下只有显式 -migrate 才迁移
	if cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	var tp *sdktrace.TracerProvider
	if cfg.Tracing.Enabled {
		tp, err = tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app, err := New(cfg, db, rdb)
	if err != nil {
		logger.Log.Fatal("Failed to build application", zap.Error(err))
	}
	app.tracer = tp

	if cfg.MigrateOnly {
		return app
	}

	if err := app.services.user.EnsureBootstrapAdmin(context.Background()); err != nil {
		logger.Log.Fatal("Failed to create bootstrap administrator", zap.Error(err))
	}

	app.RegisterConfigCallback(func(newCfg *config.Config) {
		logger.SetMode(newCfg.Server.Mode)
		logger.Log.Info("Config reloaded", zap.Stringer("log_level", logger.Level()))
	})

	return app
}

// ImportQuestions 导入题库文件，imagesDir 为空时不上传图片
func (a *App) ImportQuestions(ctx context.Context, path, imagesDir string) (*service.ImportReport, error) {
	return a.services.importer.ImportFile(ctx, path, imagesDir)
}

func (a *App) watchConfig(ctx context.Context) {
	if !a.Config.Server.WatchConfig || a.Config.FilePath == "" {
		return
	}
	go func() {
		err := configwatcher.WatchConfig(ctx, a.Config.FilePath, func(newCfg *config.Config) {
			for _, cb := range a.configCallbacks {
				cb(newCfg)
			}
		})
		if err != nil {
			logger.Log.Error("Config watcher stopped", zap.Error(err))
		}
	}()
}

// Close 停止后台任务，释放数据库、Redis 和追踪资源
func (a *App) Close() {
	a.stop()
	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Error("Failed to close redis", zap.Error(err))
		}
	}
	if err := database.Close(a.DB); err != nil {
		logger.Log.Error("Failed to close database", zap.Error(err))
	}
}

func (a *App) Run() {
	defer a.Close()

	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	a.watchConfig(a.ctx)

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("Server exiting")
}
