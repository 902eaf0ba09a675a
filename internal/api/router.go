package api

import (
	"github.com/Ayash-Bera/kuna/backend/internal/api/handlers"
	"github.com/Ayash-Bera/kuna/backend/internal/auth"
	"github.com/Ayash-Bera/kuna/backend/internal/health"
	"github.com/Ayash-Bera/kuna/backend/internal/middleware"
	"github.com/Ayash-Bera/kuna/backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Dependencies are the services the router wires into handlers
type Dependencies struct {
	Questionnaire  *services.QuestionnaireService
	Therapists     *services.TherapistService
	Admin          *services.AdminService
	Auth           *auth.Service
	Health         *health.HealthChecker
	LoginLimiter   *middleware.RateLimiter
	AllowedOrigins []string
	Logger         *logrus.Logger
}

// NewRouter builds the gin engine with every route mounted
func NewRouter(deps Dependencies) *gin.Engine {
	handlers.RegisterValidation()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.CORS(deps.AllowedOrigins))

	healthHandler := handlers.NewHealthHandler(deps.Health)
	authHandler := handlers.NewAuthHandler(deps.Auth, deps.Logger)
	questionnaireHandler := handlers.NewQuestionnaireHandler(deps.Questionnaire, deps.Logger)
	therapistHandler := handlers.NewTherapistHandler(deps.Therapists, deps.Logger)
	adminHandler := handlers.NewAdminHandler(deps.Admin, deps.Logger)

	router.GET("/", healthHandler.Root)
	router.GET("/health", healthHandler.Health)

	api := router.Group("/api")
	{
		api.GET("/questions", questionnaireHandler.ListQuestions)
		api.POST("/submit-questionnaire", questionnaireHandler.Submit)
		api.GET("/results/:session_id", questionnaireHandler.GetResults)
		api.POST("/select-therapist", questionnaireHandler.SelectTherapist)
		api.POST("/register-therapist", therapistHandler.Register)
	}

	admin := api.Group("/admin")
	{
		login := []gin.HandlerFunc{}
		if deps.LoginLimiter != nil {
			login = append(login, deps.LoginLimiter.RateLimit())
		}
		login = append(login, authHandler.Login)
		admin.POST("/login", login...)

		admin.GET("/me", middleware.RequireAuth(deps.Auth), authHandler.Me)

		protected := admin.Group("")
		protected.Use(middleware.RequireAdmin(deps.Auth))
		protected.GET("/therapists", therapistHandler.List)
		protected.DELETE("/therapists/:id", therapistHandler.Delete)
		protected.GET("/sessions", adminHandler.ListSessions)
	}

	return router
}
