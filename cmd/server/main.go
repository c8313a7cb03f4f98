package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/hnakamura/task-tracker-api/internal/config"
	"github.com/hnakamura/task-tracker-api/internal/database"
	"github.com/hnakamura/task-tracker-api/internal/handlers"
	"github.com/hnakamura/task-tracker-api/internal/middleware"
	"github.com/hnakamura/task-tracker-api/internal/repository"
	"github.com/hnakamura/task-tracker-api/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode
	gin.SetMode(cfg.GinMode)

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run migrations
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	db := database.GetDB()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	// Services
	authService := services.NewAuthService(userRepo, tokenRepo)
	taskService := services.NewTaskService(taskRepo, userRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// Initialize Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"message": "Task Tracker API is running",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		// Public routes
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.RequireAuth(authService))
		{
			protected.POST("/logout", authHandler.Logout)
			protected.GET("/profile", authHandler.Profile)
			protected.PUT("/profile", authHandler.UpdateProfile)

			protected.GET("/dashboard", taskHandler.Dashboard)
			protected.GET("/users", taskHandler.ListUsers)

			protected.GET("/tasks", taskHandler.ListTasks)
			protected.POST("/tasks", taskHandler.CreateTask)
			protected.GET("/tasks/:id", taskHandler.GetTask)
			protected.PUT("/tasks/:id", taskHandler.UpdateTask)
			protected.DELETE("/tasks/:id", taskHandler.DeleteTask)
		}
	}

	// Start server
	log.Printf("Server starting on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
