package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/taskhive/account-service/docs"
	"github.com/taskhive/account-service/internal/api/handler"
	"github.com/taskhive/account-service/internal/api/middleware"
	"github.com/taskhive/account-service/internal/core/ports"
	"github.com/taskhive/account-service/internal/core/service"
	"github.com/taskhive/account-service/internal/infrastructure/crypto"
	mongodb "github.com/taskhive/account-service/internal/infrastructure/db/mongo"
	redisdb "github.com/taskhive/account-service/internal/infrastructure/db/redis"
	"github.com/taskhive/account-service/internal/pkg/config"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The gate middleware runs globally: route classification, not registration,
// decides which paths require a token.
func NewRouter(db *mongo.Database, rdb *redis.Client, tokens ports.TokenService, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("account"))
	e.Use(middleware.Gate(tokens))

	// --- Dependencies ---
	userRepo := mongodb.NewUserRepository(db)
	userCache := redisdb.NewUserListCache(rdb)
	hasher := crypto.NewBcryptHasher(bcrypt.DefaultCost)
	authService := service.NewAuthService(userRepo, hasher, tokens, userCache, log)
	authHandler := handler.NewAuthHandler(authService, cfg.Production())

	// --- Auth routes ---
	e.POST("/api/signup", authHandler.SignUp)
	e.POST("/api/signin", authHandler.SignIn)
	e.GET("/api/user", authHandler.Users)

	// --- Observability (public paths in the gate) ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Health probes ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	return e
}
