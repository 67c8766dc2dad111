package server

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yukikurage/project-tracker-api/internal/config"
	"github.com/yukikurage/project-tracker-api/internal/constants"
	"github.com/yukikurage/project-tracker-api/internal/handlers"
	"github.com/yukikurage/project-tracker-api/internal/middleware"
	"github.com/yukikurage/project-tracker-api/internal/repository"
	"github.com/yukikurage/project-tracker-api/internal/services"
)

// Server owns the Gin engine and the handlers behind it.
type Server struct {
	engine *gin.Engine
	cfg    *config.Config
	logger *slog.Logger

	projectService *services.ProjectService

	projects    *handlers.ProjectHandler
	progress    *handlers.ProgressHandler
	leaderboard *handlers.LeaderboardHandler
	users       *handlers.UserHandler
}

// New wires repositories, services and handlers over db and registers every route.
func New(cfg *config.Config, db *gorm.DB, store sessions.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	projectRepo := repository.NewProjectRepository(db)
	progressRepo := repository.NewProgressRepository(db)
	userRepo := repository.NewUserRepository(db)

	projectService := services.NewProjectService(projectRepo, progressRepo)
	progressService := services.NewProgressService(progressRepo)
	leaderboardService := services.NewLeaderboardService(userRepo, progressRepo)
	userService := services.NewUserService(userRepo)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(corsMiddleware(cfg.CORSAllowedOrigins))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestTimeout(cfg.RequestTimeout))
	if store != nil {
		router.Use(middleware.Sessions(store))
	}
	router.Use(middleware.LoadSessionUser())

	srv := &Server{
		engine:         router,
		cfg:            cfg,
		logger:         logger,
		projectService: projectService,
		projects:       handlers.NewProjectHandler(projectService, logger),
		progress:       handlers.NewProgressHandler(progressService, logger),
		leaderboard:    handlers.NewLeaderboardHandler(leaderboardService, logger),
		users:          handlers.NewUserHandler(userService, logger),
	}

	srv.registerRoutes()
	return srv
}

// Engine exposes the underlying Gin engine.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)

	api := s.engine.Group("/api")
	{
		projects := api.Group("/projects")
		{
			projects.GET("", s.projects.ListProjects)
			projects.POST("", s.projects.CreateProject)
			projects.POST("/accept", s.projects.AcceptProject)
			// Demo data only.
			if !s.cfg.IsProduction() {
				projects.POST("/samples", s.projects.AddSampleProjects)
			}
			projects.GET("/:id", middleware.RequireProject(s.projectService), s.projects.GetProject)
		}

		api.POST("/progress/update", s.progress.UpdateProgress)
		api.GET("/leaderboard", s.leaderboard.GetLeaderboard)

		users := api.Group("/users")
		{
			users.POST("", s.users.SaveUser)
			users.GET("/me", middleware.RequireAuth(), s.users.GetCurrentUser)
			users.POST("/logout", s.users.Logout)
		}
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Project Tracker API is running",
	})
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", constants.HeaderRequestID},
		ExposeHeaders: []string{constants.HeaderRequestID},
	}
	// Credentialed requests cannot be combined with a wildcard origin.
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
