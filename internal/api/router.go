package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/userhub/identity-api/internal/api/handler"
	"github.com/userhub/identity-api/internal/api/middleware"
	"github.com/userhub/identity-api/internal/core/auth"
	"github.com/userhub/identity-api/internal/core/domain"
	"github.com/userhub/identity-api/internal/core/ports"
)

// Dependencies carries everything the router wires into handlers.
type Dependencies struct {
	AuthService ports.AuthService
	UserService ports.UserService
	Tokens      *auth.TokenIssuer
	Mongo       *mongo.Database
	Redis       *redis.Client
	Logger      zerolog.Logger
}

// NewRouter builds the Echo instance with all routes registered.
//
// Route classification is explicit: everything on the bare instance is
// public; everything under the protected group passes the bearer-token gate;
// the admin group additionally requires the admin role. No route's class is
// ever inferred from metadata.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	authHandler := handler.NewAuthHandler(deps.AuthService, deps.UserService)
	userHandler := handler.NewUserHandler(deps.UserService)
	readyHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)
	guard := middleware.Auth(deps.Tokens)

	// --- Public routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/health", authHandler.Health)
	e.GET("/health/ready", readyHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Protected routes (bearer token required) ---
	protected := e.Group("", guard)
	protected.GET("/auth/profile", authHandler.Profile)
	protected.POST("/auth/refresh", authHandler.Refresh)

	// --- Admin routes ---
	admin := protected.Group("/users", middleware.RequireRole(domain.RoleAdmin))
	admin.GET("", userHandler.List)
	admin.GET("/:id", userHandler.Get)
	admin.PUT("/:id", userHandler.Update)
	admin.DELETE("/:id", userHandler.Delete)

	return e
}
