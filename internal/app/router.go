package app

import (
	"godrive_backend/docs"
	"godrive_backend/internal/config"
	"godrive_backend/internal/middleware"
	"godrive_backend/internal/model"
	"godrive_backend/internal/util"
	"godrive_backend/pkg/monitoring"
	"godrive_backend/pkg/security"
	"godrive_backend/pkg/tracing"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
	router.Use(middleware.Timeout(cfg.Server.RequestTimeout))
}

func (a *App) registerRoutes(router *gin.Engine, c *controllers, s *services, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	router.NoRoute(util.NotFound)

	api := router.Group("/api")

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(api, c)

	// 2. 需要登录的路由
	authGroup := api.Group("")
	authGroup.Use(middleware.AuthMiddleware(s.auth))
	a.registerAccountRoutes(authGroup, c)

	// 3. 管理员相关接口
	admin := api.Group("/users")
	admin.Use(middleware.AuthMiddleware(s.auth), middleware.RoleMiddleware(model.Admin))
	{
		admin.GET("", c.user.GetUsers)
		admin.POST("", c.user.CreateUser)
		admin.GET("/:id", c.user.GetUser)
		admin.PUT("/:id", c.user.UpdateUser)
		admin.DELETE("/:id", c.user.DeleteUser)
		admin.GET("/:id/progress", c.user.GetUserProgress)
		admin.DELETE("/:id/progress", c.user.ClearUserProgress)
	}
}

func (a *App) registerPublicRoutes(api *gin.RouterGroup, c *controllers) {
	api.GET("/health", c.health.HealthCheck)

	auth := api.Group("/auth")
	{
		auth.POST("/login", c.auth.Login)
		auth.POST("/register", c.auth.Register)
	}

	tickets := api.Group("/tickets")
	{
		tickets.GET("", c.ticket.GetTickets)
		tickets.GET("/:number", c.ticket.GetTicket)
	}

	questions := api.Group("/questions")
	{
		questions.GET("/batch", c.question.GetBatch)
		questions.GET("/lang/:lang", c.question.GetByLanguage)
		questions.GET("/random/:count", c.question.GetRandom)
		questions.GET("/stats/difficult", c.question.GetDifficult)
		questions.POST("/stats/:id", c.question.RecordAttempt)
		questions.GET("/:id", c.question.GetQuestion)
	}
}

func (a *App) registerAccountRoutes(group *gin.RouterGroup, c *controllers) {
	auth := group.Group("/auth")
	{
		auth.GET("/profile", c.auth.Profile)
		auth.PUT("/profile", c.auth.UpdateProfile)
		auth.PUT("/settings", c.auth.UpdateSettings)
		auth.PUT("/password", c.auth.ChangePassword)
		auth.POST("/clear-data", c.auth.ClearData)
		auth.GET("/verify", c.auth.Verify)
	}

	progress := group.Group("/progress")
	{
		progress.GET("", c.progress.GetOverview)
		progress.DELETE("", c.progress.ClearProgress)
		progress.GET("/completed", c.progress.GetCompleted)
		progress.GET("/stats", c.progress.GetSummary)
		progress.GET("/ticket/:id", c.progress.GetTicketProgress)
		progress.POST("/ticket/:id", c.progress.SaveTicketProgress)
		progress.DELETE("/ticket/:id", c.progress.DeleteTicketProgress)
	}

	stats := group.Group("/stats")
	{
		stats.GET("", c.stats.GetStats)
		stats.POST("/time", c.stats.AddTime)
		stats.POST("/answers", c.stats.AddAnswers)
		stats.POST("/update", c.stats.UpdateStats)
	}

	favorites := group.Group("/favorites")
	{
		favorites.GET("", c.favorite.GetFavorites)
		favorites.POST("", c.favorite.AddFavorite)
		favorites.DELETE("", c.favorite.RemoveFavorite)
		favorites.DELETE("/clear", c.favorite.ClearFavorites)
	}
}
