package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/gravadigital/gamenight-api/internal/config"
	"github.com/gravadigital/gamenight-api/internal/domain/assignment"
	"github.com/gravadigital/gamenight-api/internal/handlers"
	"github.com/gravadigital/gamenight-api/internal/logger"
	authmw "github.com/gravadigital/gamenight-api/internal/middleware/auth"
	"github.com/gravadigital/gamenight-api/internal/middleware/logging"
	"github.com/gravadigital/gamenight-api/internal/services"
	"github.com/gravadigital/gamenight-api/internal/storage/postgres"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	config     *config.Config
	db         *gorm.DB
}

// New creates a new server instance
func New(cfg *config.Config, db *gorm.DB) *Server {
	return &Server{
		config: cfg,
		db:     db,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	router := s.setupRouter()

	s.httpServer = &http.Server{
		Addr:    ":" + s.config.Server.Port,
		Handler: router,

		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Get().Info("Starting HTTP server", "port", s.config.Server.Port)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	logger.Get().Info("Shutting down HTTP server...")

	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}

	return nil
}

// setupRouter configures the HTTP router with middleware and routes
func (s *Server) setupRouter() *gin.Engine {
	gin.SetMode(s.config.Server.GinMode)

	router := gin.New()

	router.Use(logging.RequestLogger())
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	origins := strings.Split(s.config.CORS.AllowOrigins, ",")
	if len(origins) == 1 && origins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowMethods = strings.Split(s.config.CORS.AllowMethods, ",")
	corsConfig.AllowHeaders = strings.Split(s.config.CORS.AllowHeaders, ",")
	router.Use(cors.New(corsConfig))

	// Repositorios
	eventRepo := postgres.NewPostgresEventRepository(s.db)
	personRepo := postgres.NewPostgresPersonRepository(s.db)
	templateRepo := postgres.NewPostgresTemplateRepository(s.db)
	lifecycleStore := postgres.NewLifecycleStore(s.db)

	// Servicios
	engine := assignment.NewEngine(personRepo, assignment.WithMaxIterations(s.config.Engine.MaxIterations))
	lifecycle := services.NewLifecycleController(lifecycleStore, templateRepo, personRepo, engine)

	// Handlers
	authHandler := handlers.NewAuthHandler(s.config)
	eventHandler := handlers.NewEventHandler(eventRepo, lifecycle)
	gameHandler := handlers.NewGameHandler(eventRepo, lifecycle)
	roundHandler := handlers.NewRoundHandler(eventRepo, lifecycle)
	personHandler := handlers.NewPersonHandler(personRepo)
	catalogHandler := handlers.NewCatalogHandler(templateRepo)

	// Health check
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Gamenight API is running",
			"status":  "healthy",
		})
	})

	s.setupAPIRoutes(router, authHandler, eventHandler, gameHandler, roundHandler, personHandler, catalogHandler)

	return router
}

// setupAPIRoutes configures all API routes. Reads are open; everything
// that mutates state requires a host token.
func (s *Server) setupAPIRoutes(
	router *gin.Engine,
	authHandler *handlers.AuthHandler,
	eventHandler *handlers.EventHandler,
	gameHandler *handlers.GameHandler,
	roundHandler *handlers.RoundHandler,
	personHandler *handlers.PersonHandler,
	catalogHandler *handlers.CatalogHandler,
) {
	api := router.Group("/api")
	requireHost := authmw.RequireHost(s.config.Auth.JWTSecret)

	api.POST("/auth/login", authHandler.Login)

	events := api.Group("/events")
	{
		events.GET("", eventHandler.GetAllEvents)
		events.GET("/:event_id", eventHandler.GetEvent)
		events.GET("/:event_id/games/:game_id/rounds/:round_id", roundHandler.GetRound)

		hosted := events.Group("", requireHost)
		{
			hosted.POST("", eventHandler.CreateEvent)
			hosted.DELETE("/:event_id", eventHandler.DeleteEvent)
			hosted.PUT("/:event_id/participants", eventHandler.SetParticipants)
			hosted.POST("/:event_id/games", eventHandler.ScheduleGame)
			hosted.POST("/:event_id/start", eventHandler.StartEvent)
			hosted.POST("/:event_id/pause", eventHandler.PauseEvent)
			hosted.POST("/:event_id/resume", eventHandler.ResumeEvent)
			hosted.POST("/:event_id/reset", eventHandler.ResetEvent)

			hosted.POST("/:event_id/games/:game_id/start", gameHandler.StartGame)
			hosted.POST("/:event_id/games/:game_id/complete", gameHandler.CompleteGame)
			hosted.POST("/:event_id/games/:game_id/defer", gameHandler.DeferGame)
			hosted.DELETE("/:event_id/games/:game_id", gameHandler.RemoveGame)
			hosted.POST("/:event_id/games/:game_id/rounds", gameHandler.CreateRound)

			hosted.POST("/:event_id/games/:game_id/rounds/:round_id/teams", roundHandler.GenerateTeams)
			hosted.POST("/:event_id/games/:game_id/rounds/:round_id/swap", roundHandler.SwapPlayer)
			hosted.POST("/:event_id/games/:game_id/rounds/:round_id/finalize", roundHandler.FinalizeRound)
		}
	}

	people := api.Group("/people")
	{
		people.GET("", personHandler.GetAllPeople)
		people.GET("/:person_id", personHandler.GetPerson)

		hosted := people.Group("", requireHost)
		{
			hosted.POST("", personHandler.CreatePerson)
			hosted.PATCH("/:person_id", personHandler.UpdatePerson)
			hosted.DELETE("/:person_id", personHandler.DeletePerson)
			hosted.PUT("/:person_id/spouse", personHandler.LinkSpouses)
			hosted.DELETE("/:person_id/spouse", personHandler.UnlinkSpouse)
		}
	}

	templates := api.Group("/templates")
	{
		templates.GET("", catalogHandler.GetAllTemplates)
		templates.GET("/:template_id", catalogHandler.GetTemplate)

		hosted := templates.Group("", requireHost)
		{
			hosted.POST("", catalogHandler.CreateTemplate)
			hosted.PATCH("/:template_id", catalogHandler.UpdateTemplate)
			hosted.DELETE("/:template_id", catalogHandler.DeleteTemplate)
		}
	}
}
