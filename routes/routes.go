package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/martlaane/organizer-backend/config"
	"github.com/martlaane/organizer-backend/database"
	"github.com/martlaane/organizer-backend/internal/auditlog"
	"github.com/martlaane/organizer-backend/internal/auth"
	"github.com/martlaane/organizer-backend/internal/calendar"
	"github.com/martlaane/organizer-backend/internal/challenge"
	"github.com/martlaane/organizer-backend/internal/food"
	"github.com/martlaane/organizer-backend/internal/reports"
	"github.com/martlaane/organizer-backend/internal/todo"
	"github.com/martlaane/organizer-backend/middleware"

	_ "github.com/martlaane/organizer-backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func Setup(r *gin.Engine, cfg *config.Config) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiter())
	api.Use(middleware.AuditMiddleware())

	// ========== Audit Log ==========
	auditRepo := auditlog.NewRepository(database.DB)
	auditSvc := auditlog.NewService(auditRepo)
	auditHandler := auditlog.NewHandler(auditSvc)

	// ========== Auth ==========
	authRepo := auth.NewRepository(database.DB)
	authSvc := auth.NewService(authRepo, cfg)
	authHandler := auth.NewHandler(authSvc)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)

		// Logout requires Auth Middleware
		authGroup.POST("/logout", middleware.AuthMiddleware(cfg, authSvc), authHandler.Logout)
	}

	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(cfg, authSvc))

	// ========== Calendar ==========
	calendarStore := calendar.NewRepository(database.DB)
	calendarSvc := calendar.NewService(calendarStore, auditSvc)
	calendarHandler := calendar.NewHandler(calendarSvc)

	calendarGroup := protected.Group("/calendar")
	{
		calendarGroup.GET("/occurrences", calendarHandler.GetOccurrences)
		calendarGroup.GET("/events", calendarHandler.ListEvents)
		calendarGroup.POST("/events", calendarHandler.CreateEvent)
		calendarGroup.GET("/events/:id", calendarHandler.GetEvent)
		calendarGroup.PUT("/events/:id", calendarHandler.UpdateEvent)
		calendarGroup.DELETE("/events/:id", calendarHandler.DeleteEvent)
		calendarGroup.GET("/events/:id/exceptions", calendarHandler.ListExceptions)
	}

	// ========== Todos ==========
	todoRepo := todo.NewRepository(database.DB)
	todoSvc := todo.NewService(todoRepo, auditSvc)
	todoHandler := todo.NewHandler(todoSvc)

	todoGroup := protected.Group("/todos")
	{
		todoGroup.GET("", todoHandler.List)
		todoGroup.POST("", todoHandler.Create)
		todoGroup.PUT("/:id", todoHandler.Update)
		todoGroup.PATCH("/:id/complete", todoHandler.Complete)
		todoGroup.PATCH("/:id/reopen", todoHandler.Reopen)
		todoGroup.DELETE("/:id", todoHandler.Delete)
		todoGroup.PATCH("/:id/restore", todoHandler.Restore)
		todoGroup.DELETE("/:id/permanent", todoHandler.PermanentDelete)

		todoGroup.POST("/bulk/complete", todoHandler.BulkComplete)
		todoGroup.POST("/bulk/delete", todoHandler.BulkDelete)
		todoGroup.POST("/bulk/restore", todoHandler.BulkRestore)
		todoGroup.POST("/bulk/permanent-delete", todoHandler.BulkPermanentDelete)

		todoGroup.POST("/reorder", todoHandler.Reorder)
	}

	// ========== Challenges ==========
	challengeRepo := challenge.NewRepository(database.DB)
	challengeSvc := challenge.NewService(challengeRepo, auditSvc)
	challengeHandler := challenge.NewHandler(challengeSvc)

	challengeGroup := protected.Group("/challenges")
	{
		challengeGroup.GET("", challengeHandler.List)
		challengeGroup.POST("", challengeHandler.Create)
		challengeGroup.GET("/:id", challengeHandler.Get)
		challengeGroup.PUT("/:id", challengeHandler.Update)
		challengeGroup.DELETE("/:id", challengeHandler.Delete)
		challengeGroup.DELETE("/:id/permanent", challengeHandler.PermanentDelete)
		challengeGroup.POST("/refresh-completed", challengeHandler.RefreshCompleted)
	}

	// ========== Food & Meal Plan ==========
	foodRepo := food.NewRepository(database.DB)
	foodSvc := food.NewService(foodRepo, auditSvc)
	foodHandler := food.NewHandler(foodSvc)

	foodGroup := protected.Group("/foods")
	{
		foodGroup.GET("", foodHandler.ListFoods)
		foodGroup.POST("", foodHandler.AddFood)
		foodGroup.DELETE("/:id", foodHandler.DeleteFood)
	}
	protected.GET("/meal-plan", foodHandler.GetMealPlan)
	protected.PUT("/meal-plan", foodHandler.SaveMealPlan)

	// ========== Reports ==========
	reportsSvc := reports.NewService(calendarSvc, todoSvc, foodSvc)
	reportsHandler := reports.NewHandler(reportsSvc)

	reportsGroup := protected.Group("/reports")
	{
		reportsGroup.GET("/agenda", reportsHandler.ExportAgenda)
		reportsGroup.GET("/events", reportsHandler.ExportEvents)
		reportsGroup.GET("/meal-plan", reportsHandler.ExportMealPlan)
		reportsGroup.GET("/todos", reportsHandler.ExportTodos)
	}

	// ========== Audit Logs ==========
	auditGroup := protected.Group("/auditlogs")
	{
		auditGroup.GET("", auditHandler.GetAuditLogs)
		auditGroup.GET("/:id", auditHandler.GetAuditLogByID)
	}
}
