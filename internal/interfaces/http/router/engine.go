package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/retifica/backend/internal/infrastructure/logger"
	"github.com/retifica/backend/internal/interfaces/http/dto"
	"github.com/retifica/backend/internal/interfaces/http/handler"
	"github.com/retifica/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// LegacyApprovalPath is the original edge-function route, kept for existing clients
const LegacyApprovalPath = "/functions/v1/process-budget-approval"

// EngineConfig collects what the HTTP engine needs from configuration
type EngineConfig struct {
	Logger         *zap.Logger
	TrustedProxies []string
	CORS           middleware.CORSConfig
	Security       middleware.SecurityConfig
	MaxBodySize    int64
	Tracing        middleware.TracingConfig
	JWT            middleware.JWTMiddlewareConfig
}

// Handlers are the endpoint handlers mounted by NewEngine
type Handlers struct {
	Approval *handler.BudgetApprovalHandler
	System   *handler.SystemHandler
}

// NewEngine builds the gin engine with the full middleware chain and routes.
// Order: request id, recovery, request log, tracing, security headers, CORS,
// body limit. JWT guards only the API groups.
func NewEngine(cfg EngineConfig, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(cfg.Tracing), middleware.SpanErrorMarker())
	engine.Use(middleware.SecureWithConfig(cfg.Security))
	engine.Use(middleware.CORSWithConfig(cfg.CORS))
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}

	engine.NoMethod(handler.MethodNotAllowed)
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNotFound, "Route not found", "").
			WithRequestID(middleware.GetRequestID(c)))
	})

	engine.GET("/health", h.System.Health)

	auth := []gin.HandlerFunc{
		middleware.JWTAuthMiddlewareWithConfig(cfg.JWT),
		middleware.TracingAttributeInjector(),
	}

	r := NewRouter(engine, WithAPIVersion("v1")).Use(auth...)

	budgetRoutes := NewResourceGroup("/budgets").
		POST("/approve", h.Approval.Approve).
		GET("/:id/approval", h.Approval.GetApproval)
	systemRoutes := NewResourceGroup("/system").
		GET("/info", h.System.GetSystemInfo).
		GET("/ping", h.System.Ping)

	r.Register(budgetRoutes).Register(systemRoutes)
	r.Setup()
	r.Mount(http.MethodPost, LegacyApprovalPath, h.Approval.Approve)

	return engine
}
