package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/church-member-library/admin-gateway/internal/api/guard"
	"github.com/church-member-library/admin-gateway/internal/api/handler"
	"github.com/church-member-library/admin-gateway/internal/api/middleware"
	"github.com/church-member-library/admin-gateway/internal/core/domain"
	"github.com/church-member-library/admin-gateway/internal/core/ports"
	"github.com/church-member-library/admin-gateway/internal/core/service"
)

// Dependencies carries everything the router needs wired.
type Dependencies struct {
	Sessions  *service.SessionRegistry
	Stats     ports.StatsService
	Audit     ports.AuditService
	AuditSink ports.AuditSink
	Mongo     *mongo.Database
	Redis     *redis.Client
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("registry_gateway"))

	sessionLoader := middleware.SessionLoader(deps.Sessions)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Sessions)
	memberHandler := handler.NewMemberHandler(deps.AuditSink, deps.Stats)
	documentHandler := handler.NewDocumentHandler(deps.AuditSink)
	statsHandler := handler.NewStatsHandler(deps.Stats)
	auditHandler := handler.NewAuditHandler(deps.Audit)
	pageHandler := handler.NewPageHandler()

	// --- Auth routes (session attached, no role required) ---
	auth := e.Group("/auth", sessionLoader)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/session", authHandler.Session)
	auth.POST("/forgot-password", authHandler.ForgotPassword)
	auth.POST("/reset-password", authHandler.ResetPassword)

	// --- Admin JSON API ---
	admin := e.Group("/api", sessionLoader, adminOnly)
	admin.GET("/members", memberHandler.List)
	admin.GET("/members/search", memberHandler.Search)
	admin.GET("/members/:id", memberHandler.Get)
	admin.POST("/members", memberHandler.Create)
	admin.PUT("/members/:id", memberHandler.Update)
	admin.DELETE("/members/:id", memberHandler.Delete)
	admin.GET("/members/:id/documents", documentHandler.ListByMember)
	admin.POST("/documents", documentHandler.Upload)
	admin.DELETE("/documents/:id", documentHandler.Delete)
	admin.GET("/dashboard/stats", statsHandler.Dashboard)
	admin.GET("/audit", auditHandler.Recent)

	// --- Page navigation (guard decides per session state) ---
	pages := e.Group("", sessionLoader)
	pages.GET(guard.PathLogin, pageHandler.Resolve)
	pages.GET(guard.PathDashboard, pageHandler.Resolve)
	pages.GET(guard.PathForgotPassword, pageHandler.Resolve)
	pages.GET(guard.PathResetPassword, pageHandler.Resolve)
	pages.GET("/*", pageHandler.Resolve)

	// --- Operational endpoints (no session required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
