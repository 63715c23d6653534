package app

import (
	"readsprint_backend/docs"
	"readsprint_backend/internal/config"
	"readsprint_backend/internal/middleware"

	"readsprint_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/me", c.auth.Me)
		authGroup.GET("/profile", c.profile.GetProfile)
		authGroup.PUT("/profile/preferences", c.profile.UpdatePreferences)
		authGroup.GET("/dashboard", c.profile.GetDashboard)

		// 文档与分析
		documents := authGroup.Group("/documents")
		{
			documents.POST("", c.document.Upload)
			documents.GET("", c.document.List)
			documents.GET("/:id", c.document.Get)
			documents.DELETE("/:id", c.document.Delete)
			documents.POST("/:id/analyze", c.document.Analyze)
			documents.GET("/:id/analysis", c.document.GetAnalysis)
			documents.GET("/:id/structure", c.document.GetStructure)
			documents.GET("/:id/metrics", c.document.GetMetrics)
			documents.GET("/:id/estimate", c.document.Estimate)
			documents.PUT("/:id/priority", c.document.UpdatePriority)
			documents.POST("/:id/progress", c.progress.MarkPages)
			documents.GET("/:id/progress", c.progress.GetProgress)
		}

		// 冲刺规划与结算
		sprints := authGroup.Group("/sprints")
		{
			sprints.POST("/plan", c.sprint.Plan)
			sprints.POST("", c.sprint.Commit)
			sprints.POST("/manual", c.sprint.CreateManual)
			sprints.GET("", c.sprint.History)
			sprints.GET("/active", c.sprint.Active)
			sprints.POST("/:id/start", c.sprint.Start)
			sprints.POST("/:id/complete", c.sprint.Complete)
			sprints.POST("/:id/abandon", c.sprint.Abandon)
		}

		// 考试目标
		goals := authGroup.Group("/goals")
		{
			goals.POST("", c.goal.Create)
			goals.GET("", c.goal.List)
			goals.GET("/:id", c.goal.Get)
			goals.DELETE("/:id", c.goal.Delete)
		}
	}
}
