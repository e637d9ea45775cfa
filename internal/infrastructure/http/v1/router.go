package v1

import (
	"github.com/gin-gonic/gin"

	"clinicstats/internal/domain/customstat"
	"clinicstats/internal/domain/reports"
	"clinicstats/internal/infrastructure/http/v1/handlers"
	"clinicstats/internal/infrastructure/http/v1/middleware"
	"clinicstats/internal/infrastructure/metrics"
	"clinicstats/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// Mode is the gin mode (release, debug, test).
	Mode string

	// Version is reported by /health/info.
	Version string

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// Database backs the readiness probe.
	Database handlers.DatabaseProbe

	// Metrics is optional; when nil /metrics is not exposed.
	Metrics *metrics.Metrics

	Reports     *reports.Service
	CustomStats *customstat.Service
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
	}
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth)
	healthHandler := handlers.NewHealthHandler(cfg.Database, cfg.Version)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator)) // 1. Validate JWT
		protected.Use(middleware.Viewer())               // 2. Build the request Viewer

		baseHandler := handlers.NewBaseHandler()

		registerReportRoutes(protected, baseHandler, cfg)
		registerCustomStatRoutes(protected, baseHandler, cfg)
	}

	return router
}

// registerReportRoutes registers ledger and statistics endpoints.
func registerReportRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewReportsHandler(base, cfg.Reports)

	reportsGroup := rg.Group("/reports")
	reportsGroup.GET("/detailed/:branchId", middleware.RequireBranchAccess("branchId"), handler.GetDetailed)
	reportsGroup.GET("/all-branches", handler.GetAllBranches)

	statsGroup := rg.Group("/statistics")
	statsGroup.GET("/overview", handler.GetStatistics)
	statsGroup.GET("/revenue-by-treatment", handler.GetRevenueByTreatment)
}

// registerCustomStatRoutes registers custom statistic endpoints.
func registerCustomStatRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	handler := handlers.NewCustomStatsHandler(base, cfg.CustomStats)
	RegisterCustomStatRoutes(rg.Group("/custom-stats"), handler)
}
