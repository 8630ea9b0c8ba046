package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/careerbridge/careerbridge-backend/internal/handlers"
	"github.com/careerbridge/careerbridge-backend/internal/middleware"
	"github.com/careerbridge/careerbridge-backend/internal/types"
)

type RouterConfig struct {
	AuthHandler      *handlers.AuthHandler
	AuthMiddleware   *middleware.AuthMiddleware
	AnalyticsHandler *handlers.AnalyticsHandler
	ActivityHandler  *handlers.ActivityHandler
	SocketHandler    *handlers.SocketHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AuthHandler.Register)
	router.POST("/login", cfg.AuthHandler.Login)

	// The gateway does its own handshake auth before upgrading.
	router.GET("/ws/analytics", cfg.SocketHandler.Stream)

	// Job views count anonymous traffic; a token, when present, attributes
	// the view to its owner.
	router.POST("/api/jobs/:id/view", cfg.AuthMiddleware.OptionalAuth(), cfg.ActivityHandler.RecordJobView)

	// Protected
	protected := router.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())

	api := protected.Group("/api")
	{
		analytics := api.Group("/analytics")
		analytics.GET("/dashboard-stats", cfg.AuthMiddleware.RequireRole(types.RoleAdmin), cfg.AnalyticsHandler.DashboardStats)
		analytics.GET("/personal", cfg.AnalyticsHandler.PersonalStats)
		analytics.GET("/company/performance", cfg.AuthMiddleware.RequireRole(types.RoleCompany, types.RoleAdmin), cfg.AnalyticsHandler.CompanyPerformance)

		api.POST("/jobs/:id/apply", cfg.ActivityHandler.SubmitApplication)
		api.POST("/jobs/:id/save", cfg.ActivityHandler.SaveJob)
		api.POST("/applications/:id/interview", cfg.AuthMiddleware.RequireRole(types.RoleCompany, types.RoleAdmin), cfg.ActivityHandler.ScheduleInterview)
	}

	return router
}
