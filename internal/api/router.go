package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/cdainvest/portal-system/internal/api/handler"
	"github.com/cdainvest/portal-system/internal/api/middleware"
	"github.com/cdainvest/portal-system/internal/core/domain"
	"github.com/cdainvest/portal-system/internal/core/ports"
)

// Deps bundles everything the router needs. Services arrive as ports so
// handler tests can wire stubs without Mongo or Redis.
type Deps struct {
	Auth       ports.AuthService
	Captcha    ports.CaptchaService
	OTP        ports.OTPService
	Documents  ports.DocumentService
	Engagement ports.EngagementService
	Users      ports.UserRepository
	Denylist   middleware.Denylist

	JWTSecret string
	Log       zerolog.Logger

	// Health-probe backends; nil is tolerated (probes then report ok).
	Mongo *mongo.Database
	Redis *redis.Client
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("portal"))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth, deps.Captcha, deps.OTP)
	docHandler := handler.NewDocumentHandler(deps.Documents)
	engagementHandler := handler.NewEngagementHandler(deps.Engagement, deps.Users)

	authMW := middleware.Auth(deps.JWTSecret, deps.Denylist)
	adminOnly := middleware.RBAC(domain.RoleAdmin)
	anyUser := middleware.RBAC(domain.RoleAdmin, domain.RoleInvestor)

	// --- Public login flow ---
	e.GET("/get-captcha", authHandler.GetCaptcha)
	e.POST("/verify-captcha", authHandler.VerifyCaptcha)
	e.POST("/auth/send-otp", authHandler.SendOTP)
	e.POST("/auth/userLogin", authHandler.UserLogin)
	e.POST("/auth/login", authHandler.AdminLogin)
	e.POST("/auth/logout", authHandler.Logout, authMW)

	// --- Lead capture (public) ---
	e.POST("/storeContactUs", engagementHandler.StoreContact)
	e.POST("/storeInvestmentProfile", engagementHandler.StoreProfile)

	// --- Document portal (authenticated) ---
	e.GET("/documents", docHandler.List, authMW, anyUser)
	e.GET("/documents/:id", docHandler.Get, authMW, anyUser)
	e.POST("/documents", docHandler.Create, authMW, adminOnly)
	e.DELETE("/documents/:id", docHandler.Delete, authMW, adminOnly)

	// --- Back office (admin) ---
	e.GET("/downloads", docHandler.Downloads, authMW, adminOnly)
	e.GET("/users", engagementHandler.ListUsers, authMW, adminOnly)
	e.GET("/getContactUs", engagementHandler.ListContacts, authMW, adminOnly)
	e.GET("/investmentProfiles", engagementHandler.ListProfiles, authMW, adminOnly)
	e.GET("/admin/dashboard", engagementHandler.Dashboard, authMW, adminOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
