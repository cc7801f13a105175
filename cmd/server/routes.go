package main

import (
	"github.com/gin-gonic/gin"
	"github.com/campushub/backend/internal/config"
	"github.com/campushub/backend/internal/handlers"
	"github.com/campushub/backend/internal/middleware"
	"github.com/campushub/backend/internal/models"
	"github.com/campushub/backend/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, cfg *config.Config, svc *appServices) {
	r.Use(middleware.RequestID())
	r.Use(logger.GinLogger(), logger.GinRecovery())
	r.Use(middleware.CORS())

	// Rate limiter for the credential endpoints
	authLimiter := middleware.NewRateLimiter(5, 10)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": "campushub"})
	})

	db := models.GetDB()
	authHandler := handlers.NewAuthHandler(db, cfg)
	profileHandler := handlers.NewProfileHandler(db)
	projectHandler := handlers.NewProjectHandler(db)
	applicationHandler := handlers.NewApplicationHandler(db, svc.notifier)
	taskHandler := handlers.NewTaskHandler(db, svc.notifier)
	memberHandler := handlers.NewMemberHandler(db, svc.notifier)
	dashboardHandler := handlers.NewDashboardHandler(db)
	recommendHandler := handlers.NewRecommendHandler(db)

	api := r.Group("/api")
	{
		// Public auth routes
		auth := api.Group("/auth", authLimiter.Middleware())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired())
		{
			protected.GET("/auth/me", authHandler.Me)
			protected.POST("/auth/logout", authHandler.Logout)

			protected.GET("/profile", profileHandler.Get)
			protected.PUT("/profile", profileHandler.Update)

			// Projects: browsing for everyone, management for owners
			protected.GET("/projects", projectHandler.List)
			protected.GET("/projects/:id", projectHandler.Get)

			owners := protected.Group("")
			owners.Use(middleware.RoleRequired(models.RoleFaculty, models.RoleBusiness))
			{
				owners.POST("/projects", projectHandler.Create)
				owners.PUT("/projects/:id", projectHandler.Update)
				owners.POST("/projects/:id/close", projectHandler.Close)
				owners.GET("/projects/:id/applications", applicationHandler.ListForProject)
				owners.PUT("/applications/:id/decision", applicationHandler.Decide)
				owners.POST("/projects/:id/tasks", taskHandler.Create)
				owners.DELETE("/tasks/:id", taskHandler.Delete)
				owners.DELETE("/projects/:id/members/:studentId", memberHandler.Remove)
				owners.GET("/dashboard/faculty", dashboardHandler.Faculty)
			}

			students := protected.Group("")
			students.Use(middleware.RoleRequired(models.RoleStudent))
			{
				students.POST("/projects/:id/applications", applicationHandler.Submit)
				students.GET("/applications/my", applicationHandler.ListMine)
				students.GET("/recommendations", recommendHandler.List)
				students.GET("/dashboard/student", dashboardHandler.Student)
			}

			// Owner or member, checked in the service
			protected.GET("/projects/:id/members", memberHandler.List)
			protected.GET("/projects/:id/tasks", taskHandler.ListForProject)
			protected.PUT("/tasks/:id", taskHandler.Update)
		}
	}
}
