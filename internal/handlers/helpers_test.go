package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hnakamura/task-tracker-api/internal/database"
	"github.com/hnakamura/task-tracker-api/internal/dto"
	"github.com/hnakamura/task-tracker-api/internal/middleware"
	"github.com/hnakamura/task-tracker-api/internal/models"
	"github.com/hnakamura/task-tracker-api/internal/repository"
	"github.com/hnakamura/task-tracker-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// testEnv wires the full stack against an in-memory SQLite database, with
// the same routes as cmd/server.
type testEnv struct {
	db          *gorm.DB
	authService *services.AuthService
	taskService *services.TaskService
	router      *gin.Engine
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.AccessToken{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	authService := services.NewAuthService(userRepo, tokenRepo)
	taskService := services.NewTaskService(taskRepo, userRepo)

	authHandler := NewAuthHandler(authService)
	taskHandler := NewTaskHandler(taskService)

	router := gin.New()
	api := router.Group("/api")
	{
		api.POST("/register", authHandler.Register)
		api.POST("/login", authHandler.Login)

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

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return &testEnv{
		db:          db,
		authService: authService,
		taskService: taskService,
		router:      router,
	}
}

// register creates a user through the real endpoint and returns the auth
// payload including the bearer token.
func (env *testEnv) register(t *testing.T, name, email, password string) dto.AuthResponse {
	t.Helper()

	w := env.request(t, http.MethodPost, "/api/register", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, "register failed: %s", w.Body.String())

	var resp dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp
}

// request performs an HTTP request against the test router. A non-empty
// token is sent as a bearer credential.
func (env *testEnv) request(t *testing.T, method, url string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}
