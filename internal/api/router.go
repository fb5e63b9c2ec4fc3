package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/studykit/planner-api/docs"
	"github.com/studykit/planner-api/internal/api/handler"
	"github.com/studykit/planner-api/internal/api/middleware"
	"github.com/studykit/planner-api/internal/core/ports"
	"github.com/studykit/planner-api/internal/infrastructure/http/handlers"
)

// Deps carries the constructed services the router wires into handlers.
type Deps struct {
	Auth      ports.AuthService
	Tokens    ports.TokenService
	Timetable ports.TimetableService
	Chat      ports.ChatService

	Mongo *mongo.Database
	Redis *redis.Client

	FrontendURL string
	Cookies     handler.CookieConfig
	Logger      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{deps.FrontendURL},
		AllowCredentials: true,
	}))
	e.Use(echoprometheus.NewMiddleware("planner"))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Tokens, deps.Cookies)
	timetableHandler := handler.NewTimetableHandler(deps.Timetable)
	chatHandler := handler.NewChatHandler(deps.Chat)
	authMiddleware := middleware.Auth(deps.Tokens)

	// --- Auth routes ---
	auth := e.Group("/v1/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/me", authHandler.Me, authMiddleware)

	// --- Timetable routes (all protected) ---
	timetable := e.Group("/v1/timetable", authMiddleware)
	timetable.POST("", timetableHandler.Create)
	timetable.GET("", timetableHandler.List)
	timetable.PUT("/:id", timetableHandler.Update)
	timetable.DELETE("/:id", timetableHandler.Delete)

	// --- Chat routes (all protected) ---
	chat := e.Group("/v1/chat", authMiddleware)
	chat.POST("", chatHandler.Complete)
	chat.POST("/stream", chatHandler.Stream)
	chat.GET("/history", chatHandler.History)
	chat.GET("/history/:id", chatHandler.Get)
	chat.DELETE("/history/:id", chatHandler.Delete)
	chat.DELETE("/history", chatHandler.DeleteAll)

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	return e
}
